package usecase

import (
	"context"
	"fmt"
	"time"

	"library-lending/internal/data/entity"
	"library-lending/internal/data/repository"
	"library-lending/internal/dto/request"
	"library-lending/internal/dto/response"
	"library-lending/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BorrowingService interface {
	// CreateBorrowing reserves a copy, records the loan and opens the rental
	// payment. It returns the checkout session URL the caller is sent to.
	CreateBorrowing(ctx context.Context, userID uuid.UUID, req *request.CreateBorrowingRequest) (string, error)
	GetBorrowings(ctx context.Context, userID uuid.UUID, isStaff bool, req *request.ListBorrowingsRequest) (*response.PaginatedResponse[response.BorrowingResponse], error)
	GetBorrowingByID(ctx context.Context, userID uuid.UUID, isStaff bool, borrowingID string) (*response.BorrowingDetailResponse, error)
	ReturnBorrowing(ctx context.Context, borrowingID string) (*response.ReturnBorrowingResponse, error)
}

type borrowingService struct {
	repo     *repository.Repository
	payments PaymentService
	log      *zap.Logger
	now      func() time.Time
}

func NewBorrowingService(repo *repository.Repository, payments PaymentService, log *zap.Logger) BorrowingService {
	return &borrowingService{repo: repo, payments: payments, log: log, now: time.Now}
}

func (s *borrowingService) CreateBorrowing(ctx context.Context, userID uuid.UUID, req *request.CreateBorrowingRequest) (string, error) {
	bookID, err := utils.ParseUUID(req.BookID)
	if err != nil {
		return "", fmt.Errorf("invalid book id: %w", utils.ErrValidation)
	}

	expected, err := time.Parse(utils.DateLayout, req.ExpectedReturnDate)
	if err != nil {
		return "", fmt.Errorf("invalid expected_return_date: %w", utils.ErrValidation)
	}

	today := utils.DateOnly(s.now())
	if !expected.After(today) {
		return "", fmt.Errorf("expected_return_date must be after today: %w", utils.ErrValidation)
	}

	book, err := s.repo.Book.FindByID(ctx, bookID)
	if err != nil {
		return "", fmt.Errorf("find book: %w", err)
	}
	if book == nil {
		return "", fmt.Errorf("book not found: %w", utils.ErrNotFound)
	}

	pending, err := s.repo.Payment.HasPendingForUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("check pending payments: %w", err)
	}
	if pending {
		return "", fmt.Errorf("settle your pending payments before borrowing: %w", utils.ErrPendingPayments)
	}

	reserved, err := s.repo.Book.DecrementInventory(ctx, bookID)
	if err != nil {
		return "", fmt.Errorf("reserve book copy: %w", err)
	}
	if !reserved {
		return "", fmt.Errorf("book %q has no copies available: %w", book.Title, utils.ErrNoCopiesAvailable)
	}

	borrowing := &entity.Borrowing{
		BorrowDate:         today,
		ExpectedReturnDate: expected,
		BookID:             bookID,
		UserID:             userID,
	}
	borrowing.ID = uuid.New()

	if err := s.repo.Borrowing.Create(ctx, borrowing); err != nil {
		s.releaseCopy(ctx, bookID)
		return "", fmt.Errorf("create borrowing: %w", err)
	}

	payment, err := s.payments.CreateForBorrowing(ctx, borrowing, book, entity.PaymentTypePayment)
	if err != nil {
		if delErr := s.repo.Borrowing.Delete(ctx, borrowing.ID); delErr != nil {
			s.log.Error("roll back borrowing", zap.String("borrowing_id", borrowing.ID.String()), zap.Error(delErr))
		}
		s.releaseCopy(ctx, bookID)
		return "", fmt.Errorf("open rental payment: %w", err)
	}

	s.log.Info("borrowing created",
		zap.String("borrowing_id", borrowing.ID.String()),
		zap.String("book_id", bookID.String()),
		zap.String("user_id", userID.String()))
	return *payment.SessionURL, nil
}

func (s *borrowingService) GetBorrowings(ctx context.Context, userID uuid.UUID, isStaff bool, req *request.ListBorrowingsRequest) (*response.PaginatedResponse[response.BorrowingResponse], error) {
	filter := repository.BorrowingFilter{IsActive: req.IsActive}

	if isStaff {
		if req.UserID != "" {
			id, err := utils.ParseUUID(req.UserID)
			if err != nil {
				return nil, fmt.Errorf("invalid user_id filter: %w", utils.ErrValidation)
			}
			filter.UserID = &id
		}
	} else {
		// non-staff callers only ever see their own loans
		filter.UserID = &userID
	}

	borrowings, err := s.repo.Borrowing.Find(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list borrowings: %w", err)
	}

	total, err := s.repo.Borrowing.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count borrowings: %w", err)
	}

	items := make([]response.BorrowingResponse, 0, len(borrowings))
	for _, borrowing := range borrowings {
		items = append(items, response.BorrowingToResponse(borrowing, s.bookTitle(ctx, borrowing.BookID)))
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *borrowingService) GetBorrowingByID(ctx context.Context, userID uuid.UUID, isStaff bool, borrowingID string) (*response.BorrowingDetailResponse, error) {
	id, err := utils.ParseUUID(borrowingID)
	if err != nil {
		return nil, fmt.Errorf("invalid borrowing id: %w", utils.ErrValidation)
	}

	borrowing, err := s.repo.Borrowing.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find borrowing: %w", err)
	}
	if borrowing == nil {
		return nil, fmt.Errorf("borrowing not found: %w", utils.ErrNotFound)
	}
	if !isStaff && borrowing.UserID != userID {
		return nil, fmt.Errorf("borrowing belongs to another user: %w", utils.ErrForbidden)
	}

	detail := &response.BorrowingDetailResponse{}

	book, err := s.repo.Book.FindByID(ctx, borrowing.BookID)
	if err != nil {
		return nil, fmt.Errorf("find book: %w", err)
	}
	if book != nil {
		bookResp := response.BookToResponse(book)
		detail.Book = &bookResp
		detail.BorrowingResponse = response.BorrowingToResponse(borrowing, book.Title)
	} else {
		detail.BorrowingResponse = response.BorrowingToResponse(borrowing, "")
	}

	payments, err := s.repo.Payment.FindByBorrowingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list borrowing payments: %w", err)
	}
	for _, payment := range payments {
		detail.Payments = append(detail.Payments, response.PaymentToResponse(payment))
	}

	return detail, nil
}

// ReturnBorrowing closes a loan and restocks the copy. Overdue loans get a
// FINE payment opened before the loan is marked returned, so a provider
// failure leaves the loan open and retryable.
func (s *borrowingService) ReturnBorrowing(ctx context.Context, borrowingID string) (*response.ReturnBorrowingResponse, error) {
	id, err := utils.ParseUUID(borrowingID)
	if err != nil {
		return nil, fmt.Errorf("invalid borrowing id: %w", utils.ErrValidation)
	}

	borrowing, err := s.repo.Borrowing.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find borrowing: %w", err)
	}
	if borrowing == nil {
		return nil, fmt.Errorf("borrowing not found: %w", utils.ErrNotFound)
	}
	if !borrowing.IsActive() {
		return nil, utils.ErrAlreadyReturned
	}

	today := utils.DateOnly(s.now())
	borrowing.ActualReturnDate = &today

	var fine *entity.Payment
	if borrowing.OverdueDays(today) > 0 {
		book, err := s.repo.Book.FindByID(ctx, borrowing.BookID)
		if err != nil {
			return nil, fmt.Errorf("find book: %w", err)
		}
		if book == nil {
			return nil, fmt.Errorf("book not found: %w", utils.ErrNotFound)
		}

		fine, err = s.payments.CreateForBorrowing(ctx, borrowing, book, entity.PaymentTypeFine)
		if err != nil {
			return nil, fmt.Errorf("open fine payment: %w", err)
		}
	}

	closed, err := s.repo.Borrowing.MarkReturned(ctx, id, today)
	if err != nil {
		// the loan is still open; a retry would mint a second fine
		s.rollbackFine(ctx, fine)
		return nil, fmt.Errorf("mark borrowing returned: %w", err)
	}
	if !closed {
		// lost the race against a concurrent return
		s.rollbackFine(ctx, fine)
		return nil, utils.ErrAlreadyReturned
	}

	if err := s.repo.Book.IncrementInventory(ctx, borrowing.BookID); err != nil {
		return nil, fmt.Errorf("restock book copy: %w", err)
	}

	s.log.Info("borrowing returned",
		zap.String("borrowing_id", borrowingID),
		zap.Bool("overdue", fine != nil))

	if fine != nil {
		return &response.ReturnBorrowingResponse{
			Message:        "Book returned overdue. Please pay the fine via the session link.",
			FineSessionURL: fine.SessionURL,
		}, nil
	}
	return &response.ReturnBorrowingResponse{Message: "Book returned. Thank you!"}, nil
}

func (s *borrowingService) bookTitle(ctx context.Context, bookID uuid.UUID) string {
	book, err := s.repo.Book.FindByID(ctx, bookID)
	if err != nil || book == nil {
		return ""
	}
	return book.Title
}

// rollbackFine undoes an opened fine when the return did not go through, so
// each borrowing keeps at most one fine.
func (s *borrowingService) rollbackFine(ctx context.Context, fine *entity.Payment) {
	if fine == nil {
		return
	}
	s.payments.ExpireProviderSession(ctx, *fine.SessionID)
	if err := s.payments.DeletePayment(ctx, fine.ID); err != nil {
		s.log.Error("roll back fine payment", zap.String("payment_id", fine.ID.String()), zap.Error(err))
	}
}

func (s *borrowingService) releaseCopy(ctx context.Context, bookID uuid.UUID) {
	if err := s.repo.Book.IncrementInventory(ctx, bookID); err != nil {
		s.log.Error("release reserved copy", zap.String("book_id", bookID.String()), zap.Error(err))
	}
}
