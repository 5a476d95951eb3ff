package usecase

import (
	"context"
	"fmt"
	"time"

	"library-lending/internal/data/entity"
	"library-lending/internal/data/repository"
	"library-lending/pkg/notify"
	"library-lending/pkg/utils"

	"go.uber.org/zap"
)

type SweepService interface {
	// CheckOverdue scans open loans and notifies readers whose loans are
	// due tomorrow or already overdue.
	CheckOverdue(ctx context.Context) error
	// ExpireSessions reconciles provider sessions into EXPIRED payments.
	ExpireSessions(ctx context.Context) (int64, error)
}

type sweepService struct {
	repo     *repository.Repository
	payments PaymentService
	notifier notify.Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewSweepService(repo *repository.Repository, payments PaymentService, notifier notify.Notifier, log *zap.Logger) SweepService {
	return &sweepService{repo: repo, payments: payments, notifier: notifier, log: log, now: time.Now}
}

func (s *sweepService) CheckOverdue(ctx context.Context) error {
	open, err := s.repo.Borrowing.FindOpen(ctx)
	if err != nil {
		return fmt.Errorf("list open borrowings: %w", err)
	}

	today := utils.DateOnly(s.now())
	tomorrow := today.AddDate(0, 0, 1)

	var dueTomorrow, overdue []*entity.Borrowing
	for _, borrowing := range open {
		switch {
		case borrowing.ExpectedReturnDate.Equal(tomorrow):
			dueTomorrow = append(dueTomorrow, borrowing)
		case !borrowing.ExpectedReturnDate.After(today):
			overdue = append(overdue, borrowing)
		}
	}

	if len(dueTomorrow) == 0 && len(overdue) == 0 {
		s.send(ctx, "No borrowings overdue today!")
		return nil
	}

	for _, borrowing := range dueTomorrow {
		s.send(ctx, fmt.Sprintf(
			"%s!\nWe are expecting you to return '%s' tomorrow, on %s - please pay attention in order to avoid a fine.",
			s.readerName(ctx, borrowing), s.bookTitle(ctx, borrowing),
			borrowing.ExpectedReturnDate.Format(utils.DateLayout)))
	}
	for _, borrowing := range overdue {
		s.send(ctx, fmt.Sprintf(
			"%s!\nYou are supposed to return '%s' on %s, but you still have not. Please do not delay and take actions on this issue.",
			s.readerName(ctx, borrowing), s.bookTitle(ctx, borrowing),
			borrowing.ExpectedReturnDate.Format(utils.DateLayout)))
	}

	s.log.Info("overdue sweep finished",
		zap.Int("due_tomorrow", len(dueTomorrow)),
		zap.Int("overdue", len(overdue)))
	return nil
}

func (s *sweepService) ExpireSessions(ctx context.Context) (int64, error) {
	return s.payments.MarkExpired(ctx)
}

// send delivers one notification; failures are logged, not fatal, so one
// unreachable chat does not stop the sweep.
func (s *sweepService) send(ctx context.Context, text string) {
	if err := s.notifier.Send(ctx, text); err != nil {
		s.log.Warn("send notification", zap.Error(err))
	}
}

func (s *sweepService) readerName(ctx context.Context, borrowing *entity.Borrowing) string {
	user, err := s.repo.User.FindByID(ctx, borrowing.UserID)
	if err != nil || user == nil {
		return "Reader"
	}
	return user.FullName()
}

func (s *sweepService) bookTitle(ctx context.Context, borrowing *entity.Borrowing) string {
	book, err := s.repo.Book.FindByID(ctx, borrowing.BookID)
	if err != nil || book == nil {
		return "a borrowed book"
	}
	return book.Title
}
