// Package sqlite provides a SQLite-backed implementation of
// auditlog.Repository.
//
// WAL mode is enabled on Open so the admin history endpoint can read
// while transitions are being written.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sokocargo/sokocargo/internal/orders/auditlog"
	"github.com/sokocargo/sokocargo/internal/tracking"

	// Register the pure-Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// The table is append-only: each row is an immutable transition event.
const schema = `
CREATE TABLE IF NOT EXISTS status_audit (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Business identifier; multiple rows per order, one per transition.
    order_id    TEXT NOT NULL,

    from_status TEXT NOT NULL DEFAULT '',
    to_status   TEXT NOT NULL,
    actor       TEXT NOT NULL DEFAULT '',

    -- W3C trace correlation (32 / 16 hex chars, empty if untraced).
    trace_id    TEXT NOT NULL DEFAULT '',
    span_id     TEXT NOT NULL DEFAULT '',

    -- RFC3339 TEXT timestamp (SQLite idiom).
    recorded_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_status_audit_order_id ON status_audit(order_id, recorded_at);
CREATE INDEX IF NOT EXISTS idx_status_audit_trace_id ON status_audit(trace_id);
`

// Repository is the SQLite implementation of auditlog.Repository.
type Repository struct {
	db *sql.DB
}

var _ auditlog.Repository = (*Repository)(nil)

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply audit schema: %w", err)
	}
	return &Repository{db: db}, nil
}

// Close releases the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// Record appends one transition event. Safe to call concurrently.
func (r *Repository) Record(ctx context.Context, e *auditlog.Entry) error {
	const q = `
		INSERT INTO status_audit
			(order_id, from_status, to_status, actor, trace_id, span_id, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		e.OrderID,
		string(e.FromStatus),
		string(e.ToStatus),
		e.Actor,
		e.TraceID,
		e.SpanID,
		e.RecordedAt.UTC().Format("2006-01-02T15:04:05.999999999Z"),
	)
	if err != nil {
		return fmt.Errorf("sqlite: record transition for %q: %w", e.OrderID, err)
	}
	return nil
}

// History returns all transition events for an order, oldest first.
func (r *Repository) History(ctx context.Context, orderID string) ([]*auditlog.Entry, error) {
	const q = `
		SELECT order_id, from_status, to_status, actor, trace_id, span_id, recorded_at
		FROM   status_audit
		WHERE  order_id = ?
		ORDER  BY recorded_at, id`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: history for %q: %w", orderID, err)
	}
	defer rows.Close()

	var out []*auditlog.Entry
	for rows.Next() {
		var e auditlog.Entry
		var from, to, recordedAt string
		if err := rows.Scan(&e.OrderID, &from, &to, &e.Actor, &e.TraceID, &e.SpanID, &recordedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan audit row: %w", err)
		}
		e.FromStatus = tracking.Stage(from)
		e.ToStatus = tracking.Stage(to)
		if e.RecordedAt, err = parseRFC3339(recordedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// parseRFC3339 parses the timestamp strings stored in SQLite.
func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return t, nil
}
