// Command catalog-import bulk-loads supplier catalog feeds into the products
// table. Feeds are gzip-compressed JSON-lines files, one product per line.
// Files are parsed concurrently; a bloom filter keeps duplicate product IDs
// from being upserted twice without holding every seen ID in memory.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/souqdz/order-api/internal/domain/catalog"
	"github.com/souqdz/order-api/internal/repository"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
)

type feedProduct struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Brand        string          `json:"brand"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Image        string          `json:"image"`
	CountInStock int             `json:"countInStock"`
}

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	files := flag.Args()
	if len(files) == 0 {
		slog.Error("at least one feed file is required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, files); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed successfully")
}

func run(ctx context.Context, databaseURL string, files []string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := repository.NewCatalogRepository(pool)

	// Parsers fan in to a single writer. The writer owns the bloom filter,
	// so it needs no locking.
	products := make(chan feedProduct, 1024)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(writeProducts(ctx, repo, products))

	parsers, ctx := errgroup.WithContext(ctx)
	for _, f := range files {
		parsers.Go(parseFeedFile(ctx, f, products))
	}

	parseErr := parsers.Wait()
	close(products)

	if err := g.Wait(); err != nil {
		return err
	}
	return parseErr
}

// parseFeedFile streams one gzipped JSONL feed into the products channel.
func parseFeedFile(ctx context.Context, path string, out chan<- feedProduct) func() error {
	return func() error {
		var count uint64

		if err := streamGzFile(ctx, path, func(line []byte) error {
			var p feedProduct
			if err := json.Unmarshal(line, &p); err != nil {
				return errors.Wrapf(err, "parse feed line %q", string(line))
			}
			if p.ID == "" {
				return errors.New("feed line missing product id")
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("parse progress", slog.String("file", path), slog.Uint64("products", count))
			}

			select {
			case out <- p:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}); err != nil {
			return errors.Wrapf(err, "parse feed %s", path)
		}

		slog.Info("parse complete", slog.String("file", path), slog.Uint64("products", count))
		return nil
	}
}

// writeProducts consumes parsed products and upserts each unseen ID.
func writeProducts(ctx context.Context, repo catalog.Repository, in <-chan feedProduct) func() error {
	return func() error {
		seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var written uint64

		for p := range in {
			if seen.TestString(p.ID) {
				continue
			}
			seen.AddString(p.ID)

			entry := &catalog.Entry{
				ID:           p.ID,
				Name:         p.Name,
				Price:        p.Price,
				Brand:        p.Brand,
				Category:     p.Category,
				Description:  p.Description,
				Image:        p.Image,
				CountInStock: p.CountInStock,
			}
			if err := repo.Upsert(ctx, entry); err != nil {
				return errors.Wrapf(err, "upsert product %s", p.ID)
			}

			written++
			if written%progressEvery == 0 {
				slog.Info("write progress", slog.Uint64("written", written))
			}
		}

		slog.Info("write complete", slog.Uint64("written", written))
		return nil
	}
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}
