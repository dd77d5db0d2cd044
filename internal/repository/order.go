package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqdz/order-api/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (
		id, user_id, items,
		ship_street, ship_city, ship_name, ship_phone, ship_wilaya,
		payment_method, items_price, shipping_price, total_price,
		created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	orderColumns = `id, user_id, items,
		ship_street, ship_city, ship_name, ship_phone, ship_wilaya,
		payment_method, items_price, shipping_price, total_price,
		is_paid, paid_at, payment_tx_id, payment_status, payment_update_time, payment_payer_email,
		is_delivered, delivered_at, created_at, updated_at`

	getOrderByIDSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	listOrdersByUserSQL = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at`

	listAllOrdersSQL = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at`

	countOrdersSQL = `SELECT count(*) FROM orders`

	updateOrderSQL = `UPDATE orders SET
		is_paid = $2, paid_at = $3,
		payment_tx_id = $4, payment_status = $5, payment_update_time = $6, payment_payer_email = $7,
		is_delivered = $8, delivered_at = $9,
		updated_at = $10
	WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Order
// items are serialized to a JSONB column; the shipping address and payment
// result are flattened into columns.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order. Pricing and item fields are written once here
// and never touched by Update.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, nullable(o.UserID), itemsJSON,
		o.Address.Street, o.Address.City, o.Address.Name, o.Address.Phone, o.Address.Wilaya,
		o.PaymentMethod, o.ItemsPrice, o.ShippingPrice, o.TotalPrice,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	return nil
}

// GetByID returns a single order by its identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

// ListByUser returns all orders belonging to the given user, oldest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %q: %w", userID, err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// ListAll returns every persisted order, oldest first.
func (r *OrderRepository) ListAll(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listAllOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// Count returns the total number of persisted orders.
func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, countOrdersSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting orders: %w", err)
	}
	return n, nil
}

// Update persists the mutable transition fields of an existing order. There
// is no version column: the last writer wins.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	var txID, status, email *string
	var updateTime *time.Time
	if o.Payment != nil {
		txID = &o.Payment.TransactionID
		status = &o.Payment.Status
		updateTime = &o.Payment.UpdateTime
		email = &o.Payment.PayerEmail
	}

	tag, err := r.pool.Exec(ctx, updateOrderSQL,
		o.ID,
		o.IsPaid, o.PaidAt,
		txID, status, updateTime, email,
		o.IsDelivered, o.DeliveredAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating order %q: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o         order.Order
		userID    *string
		itemsJSON []byte
		txID      *string
		status    *string
		updTime   *time.Time
		email     *string
	)
	err := row.Scan(
		&o.ID, &userID, &itemsJSON,
		&o.Address.Street, &o.Address.City, &o.Address.Name, &o.Address.Phone, &o.Address.Wilaya,
		&o.PaymentMethod, &o.ItemsPrice, &o.ShippingPrice, &o.TotalPrice,
		&o.IsPaid, &o.PaidAt, &txID, &status, &updTime, &email,
		&o.IsDelivered, &o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return order.Order{}, err
	}

	if userID != nil {
		o.UserID = *userID
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return order.Order{}, fmt.Errorf("unmarshaling order items: %w", err)
	}
	if txID != nil {
		o.Payment = &order.PaymentResult{
			TransactionID: *txID,
		}
		if status != nil {
			o.Payment.Status = *status
		}
		if updTime != nil {
			o.Payment.UpdateTime = *updTime
		}
		if email != nil {
			o.Payment.PayerEmail = *email
		}
	}
	return o, nil
}

// nullable maps an empty string to SQL NULL so guest orders carry no user
// reference.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
