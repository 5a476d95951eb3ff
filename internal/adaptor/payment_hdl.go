package adaptor

import (
	"net/http"

	"library-lending/pkg/utils"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req := paginatedRequest(r)
	resp, err := h.service.Payment.GetPayments(r.Context(), userID, utils.IsStaffFromContext(r.Context()), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "payments", resp)
}

func (h *Handler) GetPaymentByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	resp, err := h.service.Payment.GetPaymentByID(r.Context(), userID, utils.IsStaffFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "payment", resp)
}

// PaymentSuccess is the provider's success callback. Payment only flips to
// PAID once the provider confirms the session was actually paid.
func (h *Handler) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	resp, paid, err := h.service.Payment.ConfirmSuccess(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if !paid {
		utils.ResponseSuccess(w, "Payment is not completed yet. Please finish it via the session link.", resp)
		return
	}
	utils.ResponseSuccess(w, "Payment successful. Thank you!", resp)
}

// PaymentCancel is the provider's cancel callback. Nothing changes server
// side; the session stays open for the provider's 24 hour window.
func (h *Handler) PaymentCancel(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "Payment can be finished later. The session is available for 24 hours.", nil)
}

func (h *Handler) RenewPaymentSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	resp, err := h.service.Payment.RenewSession(r.Context(), userID, utils.IsStaffFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "payment session renewed", resp)
}
