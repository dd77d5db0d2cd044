package sales

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souqdz/order-api/internal/domain/order"
)

type mockOrderRepo struct {
	orders []order.Order
	err    error
}

func (m *mockOrderRepo) Create(_ context.Context, _ *order.Order) error { return nil }
func (m *mockOrderRepo) GetByID(_ context.Context, _ string) (*order.Order, error) {
	return nil, order.ErrNotFound
}
func (m *mockOrderRepo) ListByUser(_ context.Context, _ string) ([]order.Order, error) {
	return nil, nil
}
func (m *mockOrderRepo) Count(_ context.Context) (int64, error)           { return 0, nil }
func (m *mockOrderRepo) Update(_ context.Context, _ *order.Order) error   { return nil }
func (m *mockOrderRepo) ListAll(_ context.Context) ([]order.Order, error) { return m.orders, m.err }

func paidOrder(total string, paidAt time.Time) order.Order {
	return order.Order{
		TotalPrice: decimal.RequireFromString(total),
		IsPaid:     true,
		PaidAt:     &paidAt,
	}
}

func unpaidOrder(total string) order.Order {
	return order.Order{TotalPrice: decimal.RequireFromString(total)}
}

func TestTotalSales_IncludesUnpaidOrders(t *testing.T) {
	// Deliberate asymmetry with SalesByDay: every order counts here,
	// whether or not it was ever paid.
	repo := &mockOrderRepo{orders: []order.Order{
		paidOrder("70.00", time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC)),
		unpaidOrder("55.50"),
		unpaidOrder("10.00"),
	}}
	svc := NewService(repo)

	total, err := svc.TotalSales(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "135.50", total.StringFixed(2))
}

func TestTotalSales_Empty(t *testing.T) {
	svc := NewService(&mockOrderRepo{})

	total, err := svc.TotalSales(context.Background())
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestSalesByDay_BucketsByCalendarDate(t *testing.T) {
	// Two orders paid on the same date at different times share a bucket.
	repo := &mockOrderRepo{orders: []order.Order{
		paidOrder("70.00", time.Date(2024, 3, 7, 9, 15, 0, 0, time.UTC)),
		paidOrder("30.00", time.Date(2024, 3, 7, 22, 45, 0, 0, time.UTC)),
		paidOrder("12.00", time.Date(2024, 3, 8, 0, 1, 0, 0, time.UTC)),
	}}
	svc := NewService(repo)

	buckets, err := svc.SalesByDay(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	assert.Equal(t, "2024-03-07", buckets[0].Date)
	assert.Equal(t, "100.00", buckets[0].Total.StringFixed(2))
	assert.Equal(t, "2024-03-08", buckets[1].Date)
	assert.Equal(t, "12.00", buckets[1].Total.StringFixed(2))
}

func TestSalesByDay_ExcludesUnpaidAndMissingPaidAt(t *testing.T) {
	paidFlagOnly := order.Order{
		TotalPrice: decimal.RequireFromString("99.99"),
		IsPaid:     true, // no PaidAt: excluded
	}
	repo := &mockOrderRepo{orders: []order.Order{
		paidOrder("70.00", time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC)),
		unpaidOrder("55.50"),
		paidFlagOnly,
	}}
	svc := NewService(repo)

	buckets, err := svc.SalesByDay(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "70.00", buckets[0].Total.StringFixed(2))
}

func TestSalesByDay_SortedAscending(t *testing.T) {
	repo := &mockOrderRepo{orders: []order.Order{
		paidOrder("1.00", time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)),
		paidOrder("2.00", time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC)),
		paidOrder("3.00", time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC)),
	}}
	svc := NewService(repo)

	buckets, err := svc.SalesByDay(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 3)
	assert.Equal(t, "2024-01-30", buckets[0].Date)
	assert.Equal(t, "2024-05-02", buckets[1].Date)
	assert.Equal(t, "2024-12-24", buckets[2].Date)
}

func TestSalesByDay_UsesUTCDate(t *testing.T) {
	// 23:30 in UTC+2 is 21:30 UTC the same day; 00:30 in UTC+2 is the
	// previous UTC day. Buckets follow UTC.
	zone := time.FixedZone("UTC+2", 2*60*60)
	repo := &mockOrderRepo{orders: []order.Order{
		paidOrder("5.00", time.Date(2024, 3, 8, 0, 30, 0, 0, zone)),
	}}
	svc := NewService(repo)

	buckets, err := svc.SalesByDay(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "2024-03-07", buckets[0].Date)
}
