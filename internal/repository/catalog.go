package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/souqdz/order-api/internal/domain/catalog"
)

const (
	listProductsSQL = `SELECT id, name, price, brand, category, description, image, count_in_stock
		FROM products ORDER BY id`

	getProductByIDSQL = `SELECT id, name, price, brand, category, description, image, count_in_stock
		FROM products WHERE id = $1`

	getProductsByIDsSQL = `SELECT id, name, price, brand, category, description, image, count_in_stock
		FROM products WHERE id = ANY($1)`

	upsertProductSQL = `INSERT INTO products (id, name, price, brand, category, description, image, count_in_stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			brand = EXCLUDED.brand,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			image = EXCLUDED.image,
			count_in_stock = EXCLUDED.count_in_stock,
			updated_at = now()`
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository backed by PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// List returns all catalog entries ordered by ID.
func (r *CatalogRepository) List(ctx context.Context) ([]catalog.Entry, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanEntry)
}

// GetByID returns a single catalog entry by its identifier.
func (r *CatalogRepository) GetByID(ctx context.Context, id string) (*catalog.Entry, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	e, err := pgx.CollectExactlyOneRow(rows, scanEntry)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &e, nil
}

// GetByIDs returns the entries matching any of the given IDs. Missing IDs
// simply produce no row.
func (r *CatalogRepository) GetByIDs(ctx context.Context, ids []string) ([]catalog.Entry, error) {
	rows, err := r.pool.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanEntry)
}

// Upsert inserts or replaces a catalog entry.
func (r *CatalogRepository) Upsert(ctx context.Context, e *catalog.Entry) error {
	_, err := r.pool.Exec(ctx, upsertProductSQL,
		e.ID, e.Name, e.Price, e.Brand, e.Category, e.Description, e.Image, e.CountInStock,
	)
	if err != nil {
		return fmt.Errorf("upserting product %q: %w", e.ID, err)
	}
	return nil
}

func scanEntry(row pgx.CollectableRow) (catalog.Entry, error) {
	var (
		e     catalog.Entry
		price decimal.Decimal
	)
	err := row.Scan(
		&e.ID, &e.Name, &price, &e.Brand, &e.Category,
		&e.Description, &e.Image, &e.CountInStock,
	)
	e.Price = price
	return e, err
}
