package repository

import (
	"context"
	"fmt"
	"time"

	"library-lending/internal/data/entity"
	"library-lending/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// BorrowingFilter narrows listing queries. Nil fields mean "no filter".
type BorrowingFilter struct {
	UserID   *uuid.UUID
	IsActive *bool
}

type BorrowingRepository interface {
	Create(ctx context.Context, borrowing *entity.Borrowing) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Borrowing, error)
	Find(ctx context.Context, filter BorrowingFilter, limit, offset int) ([]*entity.Borrowing, error)
	Count(ctx context.Context, filter BorrowingFilter) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Business queries
	FindOpen(ctx context.Context) ([]*entity.Borrowing, error)
	MarkReturned(ctx context.Context, id uuid.UUID, returnDate time.Time) (bool, error)
}

type borrowingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBorrowingRepository(db database.PgxIface, log *zap.Logger) BorrowingRepository {
	return &borrowingRepository{
		db:  db,
		log: log.With(zap.String("repository", "borrowing")),
	}
}

func (r *borrowingRepository) Create(ctx context.Context, borrowing *entity.Borrowing) error {
	query := `
		INSERT INTO borrowings (id, borrow_date, expected_return_date, actual_return_date, book_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		borrowing.ID,
		borrowing.BorrowDate,
		borrowing.ExpectedReturnDate,
		borrowing.ActualReturnDate,
		borrowing.BookID,
		borrowing.UserID,
		borrowing.CreatedAt,
		borrowing.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create borrowing",
			zap.Error(err),
			zap.String("user_id", borrowing.UserID.String()),
			zap.String("book_id", borrowing.BookID.String()),
		)
		return fmt.Errorf("create borrowing: %w", err)
	}

	return nil
}

func (r *borrowingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Borrowing, error) {
	query := `
		SELECT id, borrow_date, expected_return_date, actual_return_date, book_id, user_id, created_at, updated_at
		FROM borrowings
		WHERE id = $1
	`

	var borrowing entity.Borrowing
	err := r.db.QueryRow(ctx, query, id).Scan(
		&borrowing.ID,
		&borrowing.BorrowDate,
		&borrowing.ExpectedReturnDate,
		&borrowing.ActualReturnDate,
		&borrowing.BookID,
		&borrowing.UserID,
		&borrowing.CreatedAt,
		&borrowing.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find borrowing by ID",
			zap.Error(err),
			zap.String("borrowing_id", id.String()),
		)
		return nil, fmt.Errorf("find borrowing by ID %s: %w", id.String(), err)
	}

	return &borrowing, nil
}

func (r *borrowingRepository) Find(ctx context.Context, filter BorrowingFilter, limit, offset int) ([]*entity.Borrowing, error) {
	query := `
		SELECT id, borrow_date, expected_return_date, actual_return_date, book_id, user_id, created_at, updated_at
		FROM borrowings
	`

	where, args := buildBorrowingFilter(filter)
	query += where
	query += fmt.Sprintf(" ORDER BY expected_return_date DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list borrowings", zap.Error(err))
		return nil, fmt.Errorf("list borrowings: %w", err)
	}
	defer rows.Close()

	var borrowings []*entity.Borrowing
	for rows.Next() {
		var borrowing entity.Borrowing
		err := rows.Scan(
			&borrowing.ID,
			&borrowing.BorrowDate,
			&borrowing.ExpectedReturnDate,
			&borrowing.ActualReturnDate,
			&borrowing.BookID,
			&borrowing.UserID,
			&borrowing.CreatedAt,
			&borrowing.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan borrowing row", zap.Error(err))
			return nil, fmt.Errorf("scan borrowing row: %w", err)
		}
		borrowings = append(borrowings, &borrowing)
	}

	return borrowings, nil
}

func (r *borrowingRepository) Count(ctx context.Context, filter BorrowingFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM borrowings`

	where, args := buildBorrowingFilter(filter)
	query += where

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count borrowings", zap.Error(err))
		return 0, fmt.Errorf("count borrowings: %w", err)
	}

	return count, nil
}

func (r *borrowingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM borrowings WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete borrowing",
			zap.Error(err),
			zap.String("borrowing_id", id.String()),
		)
		return fmt.Errorf("delete borrowing %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("borrowing %s not found", id.String())
	}

	return nil
}

func (r *borrowingRepository) FindOpen(ctx context.Context) ([]*entity.Borrowing, error) {
	query := `
		SELECT id, borrow_date, expected_return_date, actual_return_date, book_id, user_id, created_at, updated_at
		FROM borrowings
		WHERE actual_return_date IS NULL
		ORDER BY expected_return_date
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find open borrowings", zap.Error(err))
		return nil, fmt.Errorf("find open borrowings: %w", err)
	}
	defer rows.Close()

	var borrowings []*entity.Borrowing
	for rows.Next() {
		var borrowing entity.Borrowing
		err := rows.Scan(
			&borrowing.ID,
			&borrowing.BorrowDate,
			&borrowing.ExpectedReturnDate,
			&borrowing.ActualReturnDate,
			&borrowing.BookID,
			&borrowing.UserID,
			&borrowing.CreatedAt,
			&borrowing.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan borrowing row", zap.Error(err))
			return nil, fmt.Errorf("scan borrowing row: %w", err)
		}
		borrowings = append(borrowings, &borrowing)
	}

	return borrowings, nil
}

// MarkReturned closes the loan. The IS NULL guard makes this the only writer
// of actual_return_date, so a raced double return loses cleanly. Returns
// false when the loan was already returned.
func (r *borrowingRepository) MarkReturned(ctx context.Context, id uuid.UUID, returnDate time.Time) (bool, error) {
	query := `
		UPDATE borrowings
		SET actual_return_date = $2, updated_at = NOW()
		WHERE id = $1 AND actual_return_date IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, returnDate)
	if err != nil {
		r.log.Error("Failed to mark borrowing returned",
			zap.Error(err),
			zap.String("borrowing_id", id.String()),
		)
		return false, fmt.Errorf("mark borrowing %s returned: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func buildBorrowingFilter(filter BorrowingFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id = $%d", len(args)))
	}

	if filter.IsActive != nil {
		if *filter.IsActive {
			clauses = append(clauses, "actual_return_date IS NULL")
		} else {
			clauses = append(clauses, "actual_return_date IS NOT NULL")
		}
	}

	if len(clauses) == 0 {
		return "", nil
	}

	where := " WHERE " + clauses[0]
	for _, clause := range clauses[1:] {
		where += " AND " + clause
	}

	return where, args
}
