package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel errors for order operations.
var (
	ErrNoItems         = fmt.Errorf("no order items")
	ErrInvalidQuantity = fmt.Errorf("quantity must be greater than 0")
	ErrNotFound        = fmt.Errorf("order not found")
)

// ProductNotFoundError indicates a cart line references a product that does
// not exist in the catalog.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InvalidQuantityError indicates a cart line has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// CartLine is a single client-submitted product+quantity entry. UnitPrice is
// whatever the client asserted and is ignored during reconciliation.
type CartLine struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Name      string
	Image     string
}

// Item is a reconciled order line. UnitPrice is a point-in-time snapshot of
// the catalog price at reconciliation; later catalog changes never alter it.
type Item struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"price"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
}

// PaymentResult holds the external payment processor's confirmation,
// attached to an order when it is marked paid.
type PaymentResult struct {
	TransactionID string
	Status        string
	UpdateTime    time.Time
	PayerEmail    string
}

// Order is the persisted aggregate. Item and pricing fields are immutable
// after creation; only the paid/delivered transitions mutate it.
type Order struct {
	ID            string
	UserID        string // empty for guest orders
	Items         []Item
	Address       Address
	PaymentMethod string

	ItemsPrice    decimal.Decimal
	ShippingPrice decimal.Decimal
	TotalPrice    decimal.Decimal

	IsPaid  bool
	PaidAt  *time.Time
	Payment *PaymentResult

	IsDelivered bool
	DeliveredAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository defines persistence operations for orders. Transitions are
// read-modify-write through GetByID + Update; there is no optimistic
// concurrency token, so concurrent transitions are last-write-wins.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, o *Order) error
}
