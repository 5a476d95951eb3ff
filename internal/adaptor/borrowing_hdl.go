package adaptor

import (
	"net/http"

	"library-lending/internal/dto/request"
	"library-lending/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// CreateBorrowing records the loan and hands the caller over to the checkout
// provider with a redirect to the payment session.
func (h *Handler) CreateBorrowing(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBorrowingRequest
	if !h.decode(w, r, &req) {
		return
	}

	sessionURL, err := h.service.Borrowing.CreateBorrowing(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	http.Redirect(w, r, sessionURL, http.StatusFound)
}

func (h *Handler) GetBorrowings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req := request.ListBorrowingsRequest{
		UserID:           r.URL.Query().Get("user_id"),
		IsActive:         utils.ParseBool(r.URL.Query().Get("is_active")),
		PaginatedRequest: paginatedRequest(r),
	}

	resp, err := h.service.Borrowing.GetBorrowings(r.Context(), userID, utils.IsStaffFromContext(r.Context()), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "borrowings", resp)
}

func (h *Handler) GetBorrowingByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	resp, err := h.service.Borrowing.GetBorrowingByID(r.Context(), userID, utils.IsStaffFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "borrowing", resp)
}

func (h *Handler) ReturnBorrowing(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Borrowing.ReturnBorrowing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, resp.Message, resp)
}
