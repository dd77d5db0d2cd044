package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/souqdz/order-api/internal/domain/catalog"
)

// PlaceOrderRequest holds the input for placing an order. Lines carry the
// client's view of the cart; only quantity, name, and image survive
// reconciliation, never the client-asserted price.
type PlaceOrderRequest struct {
	Lines         []CartLine
	Address       Address
	PaymentMethod string
	UserID        string
}

// Service encapsulates the price-reconciliation and order-assembly pipeline
// plus the post-creation state transitions.
type Service struct {
	catalog catalog.Repository
	orders  Repository
	now     func() time.Time
}

// NewService creates an order Service with the required domain dependencies.
func NewService(catalog catalog.Repository, orders Repository) *Service {
	return &Service{
		catalog: catalog,
		orders:  orders,
		now:     time.Now,
	}
}

// PlaceOrder validates the cart and shipping address, reconciles each line
// against the catalog, computes pricing, and persists the resulting order.
//
// Validation fails fast: the empty-cart check runs before any catalog
// lookup, and nothing is written unless every line reconciles. There is no
// transaction spanning the catalog read and the order write; a catalog price
// change racing an in-flight checkout is last-write-wins.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if len(req.Lines) == 0 {
		return nil, ErrNoItems
	}

	if err := req.Address.Validate(); err != nil {
		return nil, err
	}

	// Validate quantities and collect product IDs, deduplicated for the
	// batch fetch.
	seen := make(map[string]struct{}, len(req.Lines))
	ids := make([]string, 0, len(req.Lines))
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: line.ProductID}
		}
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}

	// Single batched catalog fetch. Missing IDs come back absent, not as
	// an error.
	entries, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get catalog entries")
	}

	byID := make(map[string]catalog.Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	// Reconcile: unit price comes from the catalog entry, everything else
	// from the cart line. Input order is preserved.
	items := make([]Item, len(req.Lines))
	for i, line := range req.Lines {
		entry, ok := byID[line.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: line.ProductID}
		}
		items[i] = Item{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: entry.Price,
			Name:      line.Name,
			Image:     line.Image,
		}
	}

	itemsPrice, shippingPrice, totalPrice := CalcPrices(items)

	now := s.now()
	o := &Order{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		Items:         items,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		ItemsPrice:    itemsPrice,
		ShippingPrice: shippingPrice,
		TotalPrice:    totalPrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}

// GetOrder returns a single order by its identifier.
func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.orders.GetByID(ctx, id)
}

// ListUserOrders returns all orders belonging to the given user.
func (s *Service) ListUserOrders(ctx context.Context, userID string) ([]Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// ListAllOrders returns every persisted order.
func (s *Service) ListAllOrders(ctx context.Context) ([]Order, error) {
	return s.orders.ListAll(ctx)
}

// CountOrders returns the total number of persisted orders.
func (s *Service) CountOrders(ctx context.Context) (int64, error) {
	return s.orders.Count(ctx)
}

// MarkPaid flags the order as paid, stamps PaidAt, and attaches the payment
// result. IsPaid and PaidAt are always set together. The update is
// read-modify-write with no version check: two concurrent calls may both
// succeed, the second silently overwriting the first's PaymentResult.
func (s *Service) MarkPaid(ctx context.Context, id string, result PaymentResult) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	o.IsPaid = true
	o.PaidAt = &now
	o.Payment = &result
	o.UpdatedAt = now

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, errors.Wrapf(err, "update order %q", id)
	}
	return o, nil
}

// MarkDelivered flags the order as delivered and stamps DeliveredAt. It is
// independent of the paid state and never touches pricing fields.
func (s *Service) MarkDelivered(ctx context.Context, id string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	o.IsDelivered = true
	o.DeliveredAt = &now
	o.UpdatedAt = now

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, errors.Wrapf(err, "update order %q", id)
	}
	return o, nil
}
