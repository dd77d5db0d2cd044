package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/souqdz/order-api/internal/domain/order"
)

// --- Request/response DTOs ---

type cartLineDTO struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"qty"`
	Price     decimal.Decimal `json:"price"` // client-asserted, ignored
	Name      string          `json:"name"`
	Image     string          `json:"image"`
}

type addressDTO struct {
	Street string `json:"address"`
	City   string `json:"city"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Wilaya string `json:"wilaya"`
}

type createOrderRequest struct {
	OrderItems      []cartLineDTO `json:"orderItems"`
	ShippingAddress addressDTO    `json:"shippingAddress"`
	PaymentMethod   string        `json:"paymentMethod"`
}

type paymentResultDTO struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	UpdateTime time.Time `json:"update_time"`
	Payer      struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

type orderItemResponse struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"qty"`
	Price     string `json:"price"`
	Name      string `json:"name"`
	Image     string `json:"image"`
}

type paymentResponse struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	UpdateTime   time.Time `json:"update_time"`
	EmailAddress string    `json:"email_address"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	UserID          string              `json:"userId,omitempty"`
	OrderItems      []orderItemResponse `json:"orderItems"`
	ShippingAddress addressDTO          `json:"shippingAddress"`
	PaymentMethod   string              `json:"paymentMethod"`
	ItemsPrice      string              `json:"itemsPrice"`
	ShippingPrice   string              `json:"shippingPrice"`
	TotalPrice      string              `json:"totalPrice"`
	IsPaid          bool                `json:"isPaid"`
	PaidAt          *time.Time          `json:"paidAt,omitempty"`
	PaymentResult   *paymentResponse    `json:"paymentResult,omitempty"`
	IsDelivered     bool                `json:"isDelivered"`
	DeliveredAt     *time.Time          `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

func toOrderResponse(o *order.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.UnitPrice.StringFixed(2),
			Name:      it.Name,
			Image:     it.Image,
		}
	}

	resp := orderResponse{
		ID:         o.ID,
		UserID:     o.UserID,
		OrderItems: items,
		ShippingAddress: addressDTO{
			Street: o.Address.Street,
			City:   o.Address.City,
			Name:   o.Address.Name,
			Phone:  o.Address.Phone,
			Wilaya: o.Address.Wilaya,
		},
		PaymentMethod: o.PaymentMethod,
		ItemsPrice:    o.ItemsPrice.StringFixed(2),
		ShippingPrice: o.ShippingPrice.StringFixed(2),
		TotalPrice:    o.TotalPrice.StringFixed(2),
		IsPaid:        o.IsPaid,
		PaidAt:        o.PaidAt,
		IsDelivered:   o.IsDelivered,
		DeliveredAt:   o.DeliveredAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if o.Payment != nil {
		resp.PaymentResult = &paymentResponse{
			ID:           o.Payment.TransactionID,
			Status:       o.Payment.Status,
			UpdateTime:   o.Payment.UpdateTime,
			EmailAddress: o.Payment.PayerEmail,
		}
	}
	return resp
}

// --- Handlers ---

// CreateOrder accepts a client cart, reconciles it against the catalog, and
// persists the resulting order.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lines := make([]order.CartLine, len(req.OrderItems))
	for i, item := range req.OrderItems {
		lines[i] = order.CartLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			Name:      item.Name,
			Image:     item.Image,
		}
	}

	o, err := h.orders.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		Lines: lines,
		Address: order.Address{
			Street: req.ShippingAddress.Street,
			City:   req.ShippingAddress.City,
			Name:   req.ShippingAddress.Name,
			Phone:  req.ShippingAddress.Phone,
			Wilaya: req.ShippingAddress.Wilaya,
		},
		PaymentMethod: req.PaymentMethod,
		UserID:        r.Header.Get(userIDHeader),
	})
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

// GetOrder returns a single order by id.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// ListMyOrders returns the authenticated user's orders.
func (h *Handler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "user identity required")
		return
	}

	list, err := h.orders.ListUserOrders(r.Context(), userID)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderListResponse(list))
}

// ListOrders returns every order. Administrative endpoint.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.orders.ListAllOrders(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderListResponse(list))
}

// CountOrders returns the total number of orders.
func (h *Handler) CountOrders(w http.ResponseWriter, r *http.Request) {
	n, err := h.orders.CountOrders(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"totalOrders": n})
}

// TotalSales returns the sum of total prices over all orders.
func (h *Handler) TotalSales(w http.ResponseWriter, r *http.Request) {
	total, err := h.sales.TotalSales(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"totalSales": total.StringFixed(2)})
}

// SalesByDay returns paid revenue bucketed by calendar day of payment.
func (h *Handler) SalesByDay(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.sales.SalesByDay(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	type bucketResponse struct {
		Date       string `json:"date"`
		TotalSales string `json:"totalSales"`
	}
	resp := make([]bucketResponse, len(buckets))
	for i, b := range buckets {
		resp[i] = bucketResponse{Date: b.Date, TotalSales: b.Total.StringFixed(2)}
	}
	writeJSON(w, http.StatusOK, resp)
}

// MarkOrderPaid records a payment confirmation against an order.
func (h *Handler) MarkOrderPaid(w http.ResponseWriter, r *http.Request) {
	var req paymentResultDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.MarkPaid(r.Context(), chi.URLParam(r, "id"), order.PaymentResult{
		TransactionID: req.ID,
		Status:        req.Status,
		UpdateTime:    req.UpdateTime,
		PayerEmail:    req.Payer.EmailAddress,
	})
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// MarkOrderDelivered records delivery of an order.
func (h *Handler) MarkOrderDelivered(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.MarkDelivered(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func toOrderListResponse(list []order.Order) []orderResponse {
	resp := make([]orderResponse, len(list))
	for i := range list {
		resp[i] = toOrderResponse(&list[i])
	}
	return resp
}

// writeOrderError maps domain errors to HTTP statuses: validation failures
// to 400, missing products/orders to 404, everything else to an opaque 500.
func (h *Handler) writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *order.ValidationError
	var iqErr *order.InvalidQuantityError
	var pnfErr *order.ProductNotFoundError

	switch {
	case errors.Is(err, order.ErrNoItems):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Error())
	case errors.As(err, &iqErr):
		writeError(w, http.StatusBadRequest, iqErr.Error())
	case errors.As(err, &pnfErr):
		writeError(w, http.StatusNotFound, pnfErr.Error())
	case errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeInternalError(w, r, err)
	}
}
