package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested catalog entry does not exist.
var ErrNotFound = errors.New("product not found")

// Entry is the authoritative record for a single product. Its Price is the
// only price trusted during order placement; client-submitted prices are
// never used.
type Entry struct {
	ID           string
	Name         string
	Price        decimal.Decimal
	Brand        string
	Category     string
	Description  string
	Image        string
	CountInStock int
}

// Repository defines read operations against the product catalog, plus the
// upsert used by the seed and import tools.
type Repository interface {
	List(ctx context.Context) ([]Entry, error)
	GetByID(ctx context.Context, id string) (*Entry, error)
	// GetByIDs returns the subset of entries that exist for the given IDs.
	// Missing IDs are not an error; absence is resolved by the caller.
	GetByIDs(ctx context.Context, ids []string) ([]Entry, error)
	Upsert(ctx context.Context, e *Entry) error
}
