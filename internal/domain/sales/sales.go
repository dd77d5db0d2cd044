// Package sales implements read-side reporting over persisted orders.
package sales

import (
	"context"
	"sort"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/souqdz/order-api/internal/domain/order"
)

// DailySales is one calendar-day revenue bucket.
type DailySales struct {
	Date  string // "2006-01-02", derived from PaidAt in UTC
	Total decimal.Decimal
}

// Service aggregates sales figures from the order store.
type Service struct {
	orders order.Repository
}

// NewService creates a sales Service over the given order repository.
func NewService(orders order.Repository) *Service {
	return &Service{orders: orders}
}

// TotalSales returns the sum of TotalPrice over every order, paid or not.
// Unpaid orders are deliberately included; SalesByDay is the paid-only view.
func (s *Service) TotalSales(ctx context.Context) (decimal.Decimal, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "list orders")
	}

	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalPrice)
	}
	return total, nil
}

// SalesByDay groups paid orders by the calendar date of payment and sums
// TotalPrice per day. Orders that are unpaid or lack a PaidAt timestamp are
// excluded. Buckets are returned sorted by date ascending.
func (s *Service) SalesByDay(ctx context.Context) ([]DailySales, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	byDay := make(map[string]decimal.Decimal)
	for _, o := range orders {
		if !o.IsPaid || o.PaidAt == nil {
			continue
		}
		day := o.PaidAt.UTC().Format("2006-01-02")
		byDay[day] = byDay[day].Add(o.TotalPrice)
	}

	result := make([]DailySales, 0, len(byDay))
	for day, total := range byDay {
		result = append(result, DailySales{Date: day, Total: total})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}
