package repository

import (
	"context"
	"fmt"

	"library-lending/internal/data/entity"
	"library-lending/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Payment, error)
	CountAll(ctx context.Context) (int64, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Payment, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	FindByBorrowingID(ctx context.Context, borrowingID uuid.UUID) ([]*entity.Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Business queries
	HasPendingForUser(ctx context.Context, userID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error
	UpdateSession(ctx context.Context, id uuid.UUID, sessionID, sessionURL string, status entity.PaymentStatus) error
	MarkExpiredBySessionIDs(ctx context.Context, sessionIDs []string) (int64, error)
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `id, status, type, borrowing_id, session_url, session_id, money_to_pay, created_at, updated_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var payment entity.Payment
	err := row.Scan(
		&payment.ID,
		&payment.Status,
		&payment.Type,
		&payment.BorrowingID,
		&payment.SessionURL,
		&payment.SessionID,
		&payment.MoneyToPay,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, status, type, borrowing_id, session_url, session_id, money_to_pay, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.Status,
		payment.Type,
		payment.BorrowingID,
		payment.SessionURL,
		payment.SessionID,
		payment.MoneyToPay,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("borrowing_id", payment.BorrowingID.String()),
			zap.String("type", string(payment.Type)),
		)
		return fmt.Errorf("create %s payment for borrowing %s: %w",
			string(payment.Type), payment.BorrowingID.String(), err)
	}

	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by ID",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return nil, fmt.Errorf("find payment by ID %s: %w", id.String(), err)
	}

	return payment, nil
}

func (r *paymentRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list payments", zap.Error(err))
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	return collectPayments(rows, r.log)
}

func (r *paymentRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments`).Scan(&count); err != nil {
		r.log.Error("Failed to count payments", zap.Error(err))
		return 0, fmt.Errorf("count payments: %w", err)
	}
	return count, nil
}

func (r *paymentRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Payment, error) {
	query := `
		SELECT p.id, p.status, p.type, p.borrowing_id, p.session_url, p.session_id, p.money_to_pay, p.created_at, p.updated_at
		FROM payments p
		JOIN borrowings b ON b.id = p.borrowing_id
		WHERE b.user_id = $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list payments by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list payments of user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	return collectPayments(rows, r.log)
}

func (r *paymentRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM payments p
		JOIN borrowings b ON b.id = p.borrowing_id
		WHERE b.user_id = $1
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count payments by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count payments of user %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *paymentRepository) FindByBorrowingID(ctx context.Context, borrowingID uuid.UUID) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE borrowing_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, borrowingID)
	if err != nil {
		r.log.Error("Failed to find payments by borrowing",
			zap.Error(err),
			zap.String("borrowing_id", borrowingID.String()),
		)
		return nil, fmt.Errorf("find payments of borrowing %s: %w", borrowingID.String(), err)
	}
	defer rows.Close()

	return collectPayments(rows, r.log)
}

func (r *paymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM payments WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete payment",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return fmt.Errorf("delete payment %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment %s not found", id.String())
	}

	return nil
}

// HasPendingForUser reports whether any of the user's borrowings carries a
// PENDING payment. A pending payment blocks new borrowings.
func (r *paymentRepository) HasPendingForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM payments p
			JOIN borrowings b ON b.id = p.borrowing_id
			WHERE b.user_id = $1 AND p.status = $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, entity.PaymentStatusPending).Scan(&exists); err != nil {
		r.log.Error("Failed to check pending payments",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("check pending payments of user %s: %w", userID.String(), err)
	}

	return exists, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error {
	query := `UPDATE payments SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update payment status",
			zap.Error(err),
			zap.String("payment_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update payment %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment %s not found", id.String())
	}

	return nil
}

// UpdateSession swaps in a fresh checkout session, used when reviving an
// expired payment. money_to_pay is deliberately left untouched.
func (r *paymentRepository) UpdateSession(ctx context.Context, id uuid.UUID, sessionID, sessionURL string, status entity.PaymentStatus) error {
	query := `UPDATE payments SET session_id = $2, session_url = $3, status = $4, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, sessionID, sessionURL, status)
	if err != nil {
		r.log.Error("Failed to update payment session",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return fmt.Errorf("update payment %s session: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment %s not found", id.String())
	}

	return nil
}

// MarkExpiredBySessionIDs flips matching PENDING payments to EXPIRED in one
// statement. Safe to re-run: already-expired rows no longer match.
func (r *paymentRepository) MarkExpiredBySessionIDs(ctx context.Context, sessionIDs []string) (int64, error) {
	if len(sessionIDs) == 0 {
		return 0, nil
	}

	query := `
		UPDATE payments
		SET status = $1, updated_at = NOW()
		WHERE session_id = ANY($2) AND status = $3
	`

	result, err := r.db.Exec(ctx, query, entity.PaymentStatusExpired, sessionIDs, entity.PaymentStatusPending)
	if err != nil {
		r.log.Error("Failed to mark payments expired",
			zap.Error(err),
			zap.Int("session_count", len(sessionIDs)),
		)
		return 0, fmt.Errorf("mark payments expired: %w", err)
	}

	return result.RowsAffected(), nil
}

func collectPayments(rows pgx.Rows, log *zap.Logger) ([]*entity.Payment, error) {
	var payments []*entity.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			log.Error("Failed to scan payment row", zap.Error(err))
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, payment)
	}
	return payments, nil
}
