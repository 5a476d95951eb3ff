package adaptor

import (
	"net/http"

	"library-lending/internal/dto/request"
	"library-lending/pkg/utils"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Auth.Register(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.ResponseCreated(w, "registered", resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Auth.Login(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "logged in", resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetTokenFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Auth.Logout(r.Context(), token); err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "logged out", nil)
}
