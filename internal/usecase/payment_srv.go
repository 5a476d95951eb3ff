package usecase

import (
	"context"
	"fmt"

	"library-lending/internal/data/entity"
	"library-lending/internal/data/repository"
	"library-lending/internal/dto/request"
	"library-lending/internal/dto/response"
	"library-lending/pkg/checkout"
	"library-lending/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// fineMultiplier doubles the daily fee for every overdue day.
var fineMultiplier = decimal.NewFromInt(2)

var minorUnitsPerUnit = decimal.NewFromInt(100)

type PaymentService interface {
	// CreateForBorrowing opens a checkout session and persists the payment
	// row. The session is created first so a stored PENDING payment always
	// carries a session handle.
	CreateForBorrowing(ctx context.Context, borrowing *entity.Borrowing, book *entity.Book, paymentType entity.PaymentType) (*entity.Payment, error)
	GetPayments(ctx context.Context, userID uuid.UUID, isStaff bool, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error)
	GetPaymentByID(ctx context.Context, userID uuid.UUID, isStaff bool, paymentID string) (*response.PaymentResponse, error)
	ConfirmSuccess(ctx context.Context, paymentID string) (*response.PaymentResponse, bool, error)
	RenewSession(ctx context.Context, userID uuid.UUID, isStaff bool, paymentID string) (*response.PaymentResponse, error)
	MarkExpired(ctx context.Context) (int64, error)
	DeletePayment(ctx context.Context, id uuid.UUID) error
	ExpireProviderSession(ctx context.Context, sessionID string)
}

type paymentService struct {
	repo     *repository.Repository
	checkout checkout.Client
	config   *utils.Config
	log      *zap.Logger
}

func NewPaymentService(repo *repository.Repository, config *utils.Config, log *zap.Logger, checkoutClient checkout.Client) PaymentService {
	return &paymentService{repo: repo, checkout: checkoutClient, config: config, log: log}
}

// paymentAmount prices the payment from the loan terms. Rental fees cover
// the agreed rental window; fines cover the overdue days at double rate.
func paymentAmount(borrowing *entity.Borrowing, book *entity.Book, paymentType entity.PaymentType) decimal.Decimal {
	if paymentType == entity.PaymentTypeFine {
		overdue := borrowing.OverdueDays(*borrowing.ActualReturnDate)
		return book.DailyFee.Mul(decimal.NewFromInt(int64(overdue))).Mul(fineMultiplier)
	}
	return book.DailyFee.Mul(decimal.NewFromInt(int64(borrowing.RentalDays())))
}

func (s *paymentService) CreateForBorrowing(ctx context.Context, borrowing *entity.Borrowing, book *entity.Book, paymentType entity.PaymentType) (*entity.Payment, error) {
	amount := paymentAmount(borrowing, book, paymentType)
	paymentID := uuid.New()

	session, err := s.checkout.CreateSession(ctx, checkout.CreateSessionInput{
		AmountMinor: amount.Mul(minorUnitsPerUnit).IntPart(),
		Currency:    s.config.Checkout.Currency,
		Description: fmt.Sprintf("%s (%s) by %s", book.Title, paymentType, book.Author),
		SuccessURL:  fmt.Sprintf("%s/api/payments/%s/success?session_id={CHECKOUT_SESSION_ID}", s.config.Checkout.CallbackBaseURL, paymentID),
		CancelURL:   fmt.Sprintf("%s/api/payments/%s/cancel", s.config.Checkout.CallbackBaseURL, paymentID),
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	payment := &entity.Payment{
		Status:      entity.PaymentStatusPending,
		Type:        paymentType,
		BorrowingID: borrowing.ID,
		SessionURL:  &session.URL,
		SessionID:   &session.ID,
		MoneyToPay:  amount,
	}
	payment.ID = paymentID

	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		s.ExpireProviderSession(ctx, session.ID)
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.log.Info("payment created",
		zap.String("payment_id", paymentID.String()),
		zap.String("type", string(paymentType)),
		zap.String("amount", amount.String()))
	return payment, nil
}

func (s *paymentService) GetPayments(ctx context.Context, userID uuid.UUID, isStaff bool, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error) {
	var (
		payments []*entity.Payment
		total    int64
		err      error
	)

	if isStaff {
		payments, err = s.repo.Payment.FindAll(ctx, req.Limit(), req.Offset())
		if err == nil {
			total, err = s.repo.Payment.CountAll(ctx)
		}
	} else {
		payments, err = s.repo.Payment.FindByUserID(ctx, userID, req.Limit(), req.Offset())
		if err == nil {
			total, err = s.repo.Payment.CountByUserID(ctx, userID)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	items := make([]response.PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		items = append(items, response.PaymentToResponse(payment))
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *paymentService) GetPaymentByID(ctx context.Context, userID uuid.UUID, isStaff bool, paymentID string) (*response.PaymentResponse, error) {
	payment, err := s.findOwned(ctx, userID, isStaff, paymentID)
	if err != nil {
		return nil, err
	}

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

// ConfirmSuccess handles the provider's success callback. The provider is
// the source of truth: the payment flips to PAID only once the session
// reports it as paid. The returned bool says whether it is PAID now.
func (s *paymentService) ConfirmSuccess(ctx context.Context, paymentID string) (*response.PaymentResponse, bool, error) {
	id, err := utils.ParseUUID(paymentID)
	if err != nil {
		return nil, false, fmt.Errorf("invalid payment id: %w", utils.ErrValidation)
	}

	payment, err := s.repo.Payment.FindByID(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("find payment: %w", err)
	}
	if payment == nil {
		return nil, false, fmt.Errorf("payment not found: %w", utils.ErrNotFound)
	}

	if payment.Status == entity.PaymentStatusPaid {
		resp := response.PaymentToResponse(payment)
		return &resp, true, nil
	}
	if payment.SessionID == nil {
		return nil, false, fmt.Errorf("payment has no checkout session: %w", utils.ErrValidation)
	}

	session, err := s.checkout.RetrieveSession(ctx, *payment.SessionID)
	if err != nil {
		return nil, false, fmt.Errorf("retrieve checkout session: %w", err)
	}

	if session.PaymentStatus != checkout.PaymentStatusPaid {
		resp := response.PaymentToResponse(payment)
		return &resp, false, nil
	}

	if err := s.repo.Payment.UpdateStatus(ctx, id, entity.PaymentStatusPaid); err != nil {
		return nil, false, fmt.Errorf("mark payment paid: %w", err)
	}
	payment.Status = entity.PaymentStatusPaid

	s.log.Info("payment paid", zap.String("payment_id", paymentID))
	resp := response.PaymentToResponse(payment)
	return &resp, true, nil
}

// RenewSession opens a fresh checkout session for an EXPIRED payment and
// moves it back to PENDING. The amount owed never changes.
func (s *paymentService) RenewSession(ctx context.Context, userID uuid.UUID, isStaff bool, paymentID string) (*response.PaymentResponse, error) {
	payment, err := s.findOwned(ctx, userID, isStaff, paymentID)
	if err != nil {
		return nil, err
	}

	if payment.Status != entity.PaymentStatusExpired {
		return nil, fmt.Errorf("only expired payments can be renewed: %w", utils.ErrPaymentNotExpired)
	}

	borrowing, err := s.repo.Borrowing.FindByID(ctx, payment.BorrowingID)
	if err != nil {
		return nil, fmt.Errorf("find borrowing: %w", err)
	}
	if borrowing == nil {
		return nil, fmt.Errorf("borrowing not found: %w", utils.ErrNotFound)
	}

	book, err := s.repo.Book.FindByID(ctx, borrowing.BookID)
	if err != nil {
		return nil, fmt.Errorf("find book: %w", err)
	}
	if book == nil {
		return nil, fmt.Errorf("book not found: %w", utils.ErrNotFound)
	}

	session, err := s.checkout.CreateSession(ctx, checkout.CreateSessionInput{
		AmountMinor: payment.MoneyToPay.Mul(minorUnitsPerUnit).IntPart(),
		Currency:    s.config.Checkout.Currency,
		Description: fmt.Sprintf("%s (%s) by %s", book.Title, payment.Type, book.Author),
		SuccessURL:  fmt.Sprintf("%s/api/payments/%s/success?session_id={CHECKOUT_SESSION_ID}", s.config.Checkout.CallbackBaseURL, payment.ID),
		CancelURL:   fmt.Sprintf("%s/api/payments/%s/cancel", s.config.Checkout.CallbackBaseURL, payment.ID),
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	if err := s.repo.Payment.UpdateSession(ctx, payment.ID, session.ID, session.URL, entity.PaymentStatusPending); err != nil {
		s.ExpireProviderSession(ctx, session.ID)
		return nil, fmt.Errorf("store renewed session: %w", err)
	}

	payment.SessionID = &session.ID
	payment.SessionURL = &session.URL
	payment.Status = entity.PaymentStatusPending

	s.log.Info("payment session renewed", zap.String("payment_id", paymentID))
	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

// MarkExpired sweeps provider sessions and flips PENDING payments whose
// session expired unpaid to EXPIRED. Returns how many payments changed.
func (s *paymentService) MarkExpired(ctx context.Context) (int64, error) {
	sessions, err := s.checkout.ListSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list checkout sessions: %w", err)
	}

	var expired []string
	for _, session := range sessions {
		if session.Status == checkout.SessionStatusExpired && session.PaymentStatus == checkout.PaymentStatusUnpaid {
			expired = append(expired, session.ID)
		}
	}
	if len(expired) == 0 {
		return 0, nil
	}

	count, err := s.repo.Payment.MarkExpiredBySessionIDs(ctx, expired)
	if err != nil {
		return 0, fmt.Errorf("mark payments expired: %w", err)
	}

	if count > 0 {
		s.log.Info("payments expired", zap.Int64("count", count))
	}
	return count, nil
}

func (s *paymentService) DeletePayment(ctx context.Context, id uuid.UUID) error {
	return s.repo.Payment.Delete(ctx, id)
}

// ExpireProviderSession is best effort cleanup after a local write failed.
func (s *paymentService) ExpireProviderSession(ctx context.Context, sessionID string) {
	if err := s.checkout.ExpireSession(ctx, sessionID); err != nil {
		s.log.Warn("expire orphaned checkout session", zap.String("session_id", sessionID), zap.Error(err))
	}
}

func (s *paymentService) findOwned(ctx context.Context, userID uuid.UUID, isStaff bool, paymentID string) (*entity.Payment, error) {
	id, err := utils.ParseUUID(paymentID)
	if err != nil {
		return nil, fmt.Errorf("invalid payment id: %w", utils.ErrValidation)
	}

	payment, err := s.repo.Payment.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find payment: %w", err)
	}
	if payment == nil {
		return nil, fmt.Errorf("payment not found: %w", utils.ErrNotFound)
	}

	if !isStaff {
		borrowing, err := s.repo.Borrowing.FindByID(ctx, payment.BorrowingID)
		if err != nil {
			return nil, fmt.Errorf("find borrowing: %w", err)
		}
		if borrowing == nil || borrowing.UserID != userID {
			return nil, fmt.Errorf("payment belongs to another user: %w", utils.ErrForbidden)
		}
	}

	return payment, nil
}
