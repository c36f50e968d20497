// Package sqlite provides a SQLite-backed implementation of
// orders.Repository.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sokocargo/sokocargo/internal/orders"
	"github.com/sokocargo/sokocargo/internal/tracking"

	// Register the pure-Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
    id               TEXT    PRIMARY KEY,
    customer_id      TEXT    NOT NULL,
    description      TEXT    NOT NULL DEFAULT '',

    -- Monetary breakdown in whole KES. total_kes is authoritative.
    buying_price_kes INTEGER NOT NULL,
    shipping_fee_kes INTEGER NOT NULL,
    service_fee_kes  INTEGER NOT NULL,
    total_kes        INTEGER NOT NULL,

    status           TEXT    NOT NULL,
    origin           TEXT    NOT NULL DEFAULT '',
    shipping_mode    TEXT    NOT NULL DEFAULT '',
    paid             INTEGER NOT NULL DEFAULT 0,

    -- RFC3339 TEXT timestamps (SQLite idiom).
    created_at       TEXT    NOT NULL,
    updated_at       TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders(customer_id, created_at);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
`

// Repository is the SQLite implementation of orders.Repository.
type Repository struct {
	db *sql.DB
}

var _ orders.Repository = (*Repository)(nil)

// Open opens (or creates) the database at path and applies the schema.
// WAL mode keeps customer tracking reads from blocking operator writes.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply orders schema: %w", err)
	}
	return &Repository{db: db}, nil
}

// Close releases the database connection.
func (r *Repository) Close() error { return r.db.Close() }

func (r *Repository) CreateOrder(ctx context.Context, o *orders.Order) error {
	const q = `
		INSERT INTO orders
			(id, customer_id, description, buying_price_kes, shipping_fee_kes,
			 service_fee_kes, total_kes, status, origin, shipping_mode, paid,
			 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		o.ID, o.CustomerID, o.Description,
		o.BuyingPriceKES, o.ShippingFeeKES, o.ServiceFeeKES, o.TotalKES,
		string(o.Status), o.Origin, o.ShippingMode, boolToInt(o.Paid),
		formatTime(o.CreatedAt), formatTime(o.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert order %q: %w", o.ID, err)
	}
	return nil
}

func (r *Repository) GetOrder(ctx context.Context, id string) (*orders.Order, error) {
	const q = selectOrder + ` WHERE id = ?`

	o, err := scanOrder(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, orders.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get order %q: %w", id, err)
	}
	return o, nil
}

func (r *Repository) ListOrders(ctx context.Context, customerID string) ([]*orders.Order, error) {
	q := selectOrder + ` ORDER BY created_at DESC, id`
	args := []any{}
	if customerID != "" {
		q = selectOrder + ` WHERE customer_id = ? ORDER BY created_at DESC, id`
		args = append(args, customerID)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list orders: %w", err)
	}
	defer rows.Close()

	var out []*orders.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repository) SaveOrderStatus(ctx context.Context, id string, status tracking.Stage) error {
	const q = `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, q, string(status), formatTime(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("sqlite: save status for order %q: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return orders.ErrNotFound
	}
	return nil
}

func (r *Repository) MarkPaid(ctx context.Context, id string) error {
	const q = `UPDATE orders SET paid = 1, updated_at = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, q, formatTime(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("sqlite: mark order %q paid: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return orders.ErrNotFound
	}
	return nil
}

const selectOrder = `
	SELECT id, customer_id, description, buying_price_kes, shipping_fee_kes,
	       service_fee_kes, total_kes, status, origin, shipping_mode, paid,
	       created_at, updated_at
	FROM   orders`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*orders.Order, error) {
	var o orders.Order
	var status string
	var paid int
	var createdAt, updatedAt string
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.Description,
		&o.BuyingPriceKES, &o.ShippingFeeKES, &o.ServiceFeeKES, &o.TotalKES,
		&status, &o.Origin, &o.ShippingMode, &paid,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = tracking.Stage(status)
	o.Paid = paid != 0

	if o.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if o.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.999999999Z")
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return t, nil
}
