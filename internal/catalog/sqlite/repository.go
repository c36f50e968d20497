// Package sqlite provides a SQLite-backed implementation of
// catalog.Repository.
//
// WAL mode is enabled on Open so storefront reads never block admin
// repricing writes.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sokocargo/sokocargo/internal/catalog"

	// Register the pure-Go SQLite driver. modernc.org/sqlite avoids CGO,
	// keeping Alpine container builds simple.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS variants (
    id              TEXT    PRIMARY KEY,
    product         TEXT    NOT NULL,
    description     TEXT    NOT NULL DEFAULT '',

    -- Foreign listing price in USD. 0 means "no price known yet".
    price_usd       REAL    NOT NULL DEFAULT 0,

    -- Landed cost in whole KES shown to customers.
    price_kes       INTEGER NOT NULL DEFAULT 0,

    -- 1 when an operator pinned the price pair by hand. Bulk repricing
    -- must leave such rows untouched.
    manual_override INTEGER NOT NULL DEFAULT 0,

    -- RFC3339 TEXT timestamps (SQLite idiom).
    created_at      TEXT    NOT NULL,
    updated_at      TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_variants_product ON variants(product);
`

// Repository is the SQLite implementation of catalog.Repository.
type Repository struct {
	db *sql.DB
}

var _ catalog.Repository = (*Repository)(nil)

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply variants schema: %w", err)
	}
	return &Repository{db: db}, nil
}

// Close releases the database connection.
func (r *Repository) Close() error { return r.db.Close() }

func (r *Repository) CreateVariant(ctx context.Context, v *catalog.Variant) error {
	const q = `
		INSERT INTO variants
			(id, product, description, price_usd, price_kes, manual_override, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		v.ID, v.Product, v.Description, v.PriceUSD, v.PriceKES,
		boolToInt(v.ManualOverride),
		formatTime(v.CreatedAt), formatTime(v.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert variant %q: %w", v.ID, err)
	}
	return nil
}

func (r *Repository) GetVariant(ctx context.Context, id string) (*catalog.Variant, error) {
	const q = `
		SELECT id, product, description, price_usd, price_kes, manual_override, created_at, updated_at
		FROM   variants
		WHERE  id = ?`

	v, err := scanVariant(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get variant %q: %w", id, err)
	}
	return v, nil
}

func (r *Repository) ListVariants(ctx context.Context) ([]*catalog.Variant, error) {
	const q = `
		SELECT id, product, description, price_usd, price_kes, manual_override, created_at, updated_at
		FROM   variants
		ORDER  BY created_at, id`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list variants: %w", err)
	}
	defer rows.Close()

	var out []*catalog.Variant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan variant: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repository) SaveVariantPrice(ctx context.Context, id string, priceUSD float64, priceKES int64, override bool) error {
	const q = `
		UPDATE variants
		SET    price_usd = ?, price_kes = ?, manual_override = ?, updated_at = ?
		WHERE  id = ?`

	res, err := r.db.ExecContext(ctx, q, priceUSD, priceKES, boolToInt(override), formatTime(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("sqlite: save price for variant %q: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVariant(row rowScanner) (*catalog.Variant, error) {
	var v catalog.Variant
	var override int
	var createdAt, updatedAt string
	if err := row.Scan(&v.ID, &v.Product, &v.Description, &v.PriceUSD, &v.PriceKES, &override, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	v.ManualOverride = override != 0

	var err error
	if v.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if v.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
