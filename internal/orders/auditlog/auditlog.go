// Package auditlog records every order status transition as an immutable,
// trace-correlated event.
//
// The log serves two purposes:
//
//  1. Accountability: a single operator moves orders forward by hand, and
//     disputes ("my order was never marked landed") are settled from the
//     log, not from memory.
//
//  2. Observability: each row carries the W3C trace_id of the request that
//     caused the transition, so a row can be joined directly to its
//     distributed trace.
package auditlog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/sokocargo/sokocargo/internal/tracking"
)

// Entry is a single status transition event. Entries are append-only and
// never updated.
type Entry struct {
	// OrderID identifies the order so the log can be joined with
	// business data.
	OrderID string

	// FromStatus is the stage the order held before the transition.
	// Empty on the creation event.
	FromStatus tracking.Stage

	// ToStatus is the stage the order was moved to.
	ToStatus tracking.Stage

	// Actor names who caused the transition ("operator", "system").
	Actor string

	// TraceID and SpanID are the W3C identifiers of the span active when
	// the transition happened. Empty when no span was recording (tests).
	TraceID string
	SpanID  string

	// RecordedAt is the wall-clock time of the transition.
	RecordedAt time.Time
}

// Repository is the port for persisting audit entries. Append-only:
// Record always inserts, never upserts.
type Repository interface {
	Record(ctx context.Context, e *Entry) error
	History(ctx context.Context, orderID string) ([]*Entry, error)
}

// NewEntry builds an Entry with trace identifiers extracted from the
// active span in ctx, if any.
func NewEntry(ctx context.Context, orderID string, from, to tracking.Stage, actor string) *Entry {
	e := &Entry{
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   to,
		Actor:      actor,
		RecordedAt: time.Now().UTC(),
	}

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		e.TraceID = sc.TraceID().String()
		e.SpanID = sc.SpanID().String()
	}
	return e
}
