package adaptor

import (
	"net/http"

	"library-lending/internal/dto/request"
	"library-lending/pkg/utils"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Book.CreateBook(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.ResponseCreated(w, "book created", resp)
}

func (h *Handler) GetBooks(w http.ResponseWriter, r *http.Request) {
	req := paginatedRequest(r)

	resp, err := h.service.Book.GetBooks(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "books", resp)
}

func (h *Handler) GetBookByID(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Book.GetBookByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "book", resp)
}

func (h *Handler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateBookRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Book.UpdateBook(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "book updated", resp)
}

func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Book.DeleteBook(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "book deleted", nil)
}

func paginatedRequest(r *http.Request) request.PaginatedRequest {
	return request.PaginatedRequest{
		Page:    utils.ParseInt(r.URL.Query().Get("page"), 1),
		PerPage: utils.ParseInt(r.URL.Query().Get("per_page"), 10),
	}
}
