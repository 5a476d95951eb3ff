package wire

import (
	"library-lending/internal/adaptor"
	"library-lending/internal/data/repository"
	"library-lending/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	handler *adaptor.Handler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Route("/api/users/me", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Get("/", handler.GetProfile)
		r.Put("/", handler.UpdateProfile)
		r.Patch("/", handler.UpdateProfile)
	})
}
