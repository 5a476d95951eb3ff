package wire

import (
	"net/http"

	"library-lending/internal/adaptor"
	"library-lending/internal/data/repository"
	"library-lending/internal/usecase"
	"library-lending/pkg/checkout"
	"library-lending/pkg/middleware"
	"library-lending/pkg/notify"
	"library-lending/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired application pieces
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring initializes all dependencies
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger, checkoutClient checkout.Client, notifier notify.Notifier) *App {
	service := usecase.NewService(repo, config, logger, checkoutClient, notifier)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

// setupRouter configures the Chi router
func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireAuth(r, handler, repo, logger)
	wireUser(r, handler, repo, logger)
	wireBook(r, handler, repo, logger)
	wireBorrowing(r, handler, repo, logger)
	wirePayment(r, handler, repo, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
