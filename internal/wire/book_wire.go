package wire

import (
	"library-lending/internal/adaptor"
	"library-lending/internal/data/repository"
	"library-lending/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBook(
	r chi.Router,
	handler *adaptor.Handler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Browsing the catalog needs no account
	r.Get("/api/books", handler.GetBooks)
	r.Get("/api/books/{id}", handler.GetBookByID)

	// ==================== STAFF ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Staff(log))

		r.Post("/api/books", handler.CreateBook)
		r.Put("/api/books/{id}", handler.UpdateBook)
		r.Delete("/api/books/{id}", handler.DeleteBook)
	})
}
