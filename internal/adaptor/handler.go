package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"library-lending/internal/usecase"
	"library-lending/pkg/checkout"
	"library-lending/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	service *usecase.Service
	log     *zap.Logger
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "invalid request body", nil)
		return false
	}
	if errs := utils.ValidateStruct(dst); errs != nil {
		utils.ResponseBadRequest(w, "validation failed", errs)
		return false
	}
	return true
}

// handleServiceError maps service errors onto HTTP statuses. Sentinel
// wrapping decides the class; provider failures surface as 502.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	var providerErr *checkout.ProviderError
	switch {
	case errors.As(err, &providerErr):
		h.log.Error("checkout provider failure", zap.Error(err))
		utils.ResponseBadGateway(w, "checkout provider is unavailable")
	case errors.Is(err, utils.ErrValidation):
		utils.ResponseBadRequest(w, err.Error(), nil)
	case errors.Is(err, utils.ErrNotFound):
		utils.ResponseNotFound(w, err.Error())
	case errors.Is(err, utils.ErrForbidden):
		utils.ResponseForbidden(w, err.Error())
	default:
		h.log.Error("unhandled service error", zap.Error(err))
		utils.ResponseInternalError(w, "something went wrong")
	}
}
