package wire

import (
	"library-lending/internal/adaptor"
	"library-lending/internal/data/repository"
	"library-lending/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBorrowing(
	r chi.Router,
	handler *adaptor.Handler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Route("/api/borrowings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Post("/", handler.CreateBorrowing)
		r.Get("/", handler.GetBorrowings)
		r.Get("/{id}", handler.GetBorrowingByID)

		// ==================== STAFF ROUTES ====================
		// Returns are recorded at the front desk
		r.Group(func(r chi.Router) {
			r.Use(middleware.Staff(log))

			r.Get("/{id}/return", handler.ReturnBorrowing)
		})
	})
}
