package repository

import (
	"library-lending/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User      UserRepository
	Session   SessionRepository
	Book      BookRepository
	Borrowing BorrowingRepository
	Payment   PaymentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:      NewUserRepository(db, log),
		Session:   NewSessionRepository(db, log),
		Book:      NewBookRepository(db, log),
		Borrowing: NewBorrowingRepository(db, log),
		Payment:   NewPaymentRepository(db, log),
	}
}
