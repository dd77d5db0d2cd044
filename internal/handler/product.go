package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/souqdz/order-api/internal/domain/catalog"
)

type productResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	Brand        string `json:"brand"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	CountInStock int    `json:"countInStock"`
}

func toProductResponse(e catalog.Entry) productResponse {
	return productResponse{
		ID:           e.ID,
		Name:         e.Name,
		Price:        e.Price.StringFixed(2),
		Brand:        e.Brand,
		Category:     e.Category,
		Description:  e.Description,
		Image:        e.Image,
		CountInStock: e.CountInStock,
	}
}

// ListProducts returns the full catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	entries, err := h.catalog.List(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	resp := make([]productResponse, len(entries))
	for i, e := range entries {
		resp[i] = toProductResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetProduct returns a single catalog entry by id.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	e, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*e))
}
