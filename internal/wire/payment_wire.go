package wire

import (
	"library-lending/internal/adaptor"
	"library-lending/internal/data/repository"
	"library-lending/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(
	r chi.Router,
	handler *adaptor.Handler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== CALLBACK ROUTES ====================
	// The provider redirects the payer's browser here without a bearer
	// token, so these stay public. Payment IDs are unguessable.
	r.Get("/api/payments/{id}/success", handler.PaymentSuccess)
	r.Get("/api/payments/{id}/cancel", handler.PaymentCancel)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Get("/api/payments", handler.GetPayments)
		r.Get("/api/payments/{id}", handler.GetPaymentByID)
		r.Get("/api/payments/{id}/renew-session", handler.RenewPaymentSession)
	})
}
