// Package handler exposes the domain services over HTTP with JSON bodies.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/souqdz/order-api/internal/domain/catalog"
	"github.com/souqdz/order-api/internal/domain/order"
	"github.com/souqdz/order-api/internal/domain/sales"
)

// userIDHeader carries the authenticated user id, set by the upstream
// authentication layer. Absent for guest checkouts.
const userIDHeader = "X-User-ID"

// Handler holds the HTTP handlers for the order API.
type Handler struct {
	catalog catalog.Repository
	orders  *order.Service
	sales   *sales.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	catalogRepo catalog.Repository,
	orderService *order.Service,
	salesService *sales.Service,
) *Handler {
	return &Handler{
		catalog: catalogRepo,
		orders:  orderService,
		sales:   salesService,
	}
}

// Routes returns the chi router for the API. Literal segments are registered
// alongside the {id} wildcard; chi resolves the literal first.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)
		r.Get("/mine", h.ListMyOrders)
		r.Get("/count", h.CountOrders)
		r.Get("/total-sales", h.TotalSales)
		r.Get("/sales-by-day", h.SalesByDay)
		r.Get("/{id}", h.GetOrder)
		r.Put("/{id}/pay", h.MarkOrderPaid)
		r.Put("/{id}/deliver", h.MarkOrderDelivered)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)
	})

	return r
}

// errorResponse is the JSON body for all error statuses.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Best effort: the status code is already written.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Code: status, Message: message})
}

// writeInternalError logs the failure with full detail and responds with an
// opaque 500 body.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
