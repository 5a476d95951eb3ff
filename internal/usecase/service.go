package usecase

import (
	"library-lending/internal/data/repository"
	"library-lending/pkg/checkout"
	"library-lending/pkg/notify"
	"library-lending/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth      AuthService
	User      UserService
	Book      BookService
	Borrowing BorrowingService
	Payment   PaymentService
	Sweep     SweepService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger, checkoutClient checkout.Client, notifier notify.Notifier) *Service {
	paymentSrv := NewPaymentService(repo, config, log, checkoutClient)
	return &Service{
		Auth:      NewAuthService(repo, config, log),
		User:      NewUserService(repo, log),
		Book:      NewBookService(repo, log),
		Borrowing: NewBorrowingService(repo, paymentSrv, log),
		Payment:   paymentSrv,
		Sweep:     NewSweepService(repo, paymentSrv, notifier, log),
	}
}
