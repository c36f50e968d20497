package orders

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sokocargo/sokocargo/internal/orders/auditlog"
	"github.com/sokocargo/sokocargo/internal/pricing"
	"github.com/sokocargo/sokocargo/internal/tracking"
)

// Policy controls transition rules layered on top of the tracking model.
type Policy struct {
	// StrictProgression rejects admin jumps to an earlier stage. Forward
	// jumps that skip stages remain allowed (manual correction after a
	// missed scan); only going backwards is refused.
	StrictProgression bool
}

// Service owns order lifecycle operations. The tracking sequence and
// pricing engine are injected, read-only collaborators.
type Service struct {
	repo   Repository
	audit  auditlog.Repository // nil-safe: auditing skipped if nil
	engine *pricing.Engine
	seq    tracking.Sequence
	policy Policy
}

func NewService(repo Repository, audit auditlog.Repository, engine *pricing.Engine, seq tracking.Sequence, policy Policy) *Service {
	return &Service{repo: repo, audit: audit, engine: engine, seq: seq, policy: policy}
}

// CreateFromQuote confirms a sourcing request: the foreign listing price
// is run through the pricing engine and the order starts at the first
// stage of the lifecycle.
func (s *Service) CreateFromQuote(ctx context.Context, customerID, description, origin, shippingMode string, basePriceUSD float64) (*Order, error) {
	q := s.engine.Quote(basePriceUSD)
	if !q.Available {
		return nil, fmt.Errorf("orders: no quote available for price %v", basePriceUSD)
	}

	buying, shipping, service := breakdownKES(q, s.engine.Fees().KESPerUSD)
	o, err := NewOrder(s.seq, customerID, description, origin, shippingMode, buying, shipping, service, q.TotalKES)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("orders: create order: %w", err)
	}
	s.record(ctx, o.ID, "", o.Status, "system")

	slog.InfoContext(ctx, "order created", "order_id", o.ID, "customer_id", customerID, "total_kes", o.TotalKES)
	return o, nil
}

// GetOrder returns one order by ID.
func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// ListOrders returns orders, optionally filtered by customer.
func (s *Service) ListOrders(ctx context.Context, customerID string) ([]*Order, error) {
	return s.repo.ListOrders(ctx, customerID)
}

// Advance moves an order one step forward in the lifecycle. Returns
// ErrAlreadyDone when the order is at the terminal stage and
// ErrUnknownStatus when the stored status is not in the sequence.
// actor names the operator for the audit trail.
func (s *Service) Advance(ctx context.Context, id, actor string) (*Order, error) {
	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := s.seq.Next(o.Status)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveOrderStatus(ctx, id, next); err != nil {
		return nil, fmt.Errorf("orders: save status: %w", err)
	}
	s.record(ctx, id, o.Status, next, actor)

	o.Status = next
	return o, nil
}

// SetStatus is the admin correction path: it can jump to any member of
// the sequence. Under StrictProgression, jumps to an earlier stage are
// rejected with ErrBackwardJump.
func (s *Service) SetStatus(ctx context.Context, id string, status tracking.Stage, actor string) (*Order, error) {
	to := s.seq.IndexOf(status)
	if to < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.policy.StrictProgression {
		// Unknown current status indexes to -1, so any valid target is a
		// forward move — corrupted records stay correctable.
		if from := s.seq.IndexOf(o.Status); to < from {
			return nil, fmt.Errorf("%w: %q -> %q", ErrBackwardJump, o.Status, status)
		}
	}

	if err := s.repo.SaveOrderStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("orders: save status: %w", err)
	}
	s.record(ctx, id, o.Status, status, actor)

	o.Status = status
	return o, nil
}

// MarkPaid flips the paid flag on an order.
func (s *Service) MarkPaid(ctx context.Context, id string) error {
	if err := s.repo.MarkPaid(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "order marked paid", "order_id", id)
	return nil
}

// TrackingView is the customer-facing position of an order.
type TrackingView struct {
	OrderID         string
	Status          tracking.Stage
	StageIndex      int
	ProgressPercent int
	Delivered       bool

	// StatusUnknown flags a stored status that is not a member of the
	// sequence — a data-integrity anomaly needing operator correction.
	StatusUnknown bool
}

// Tracking derives the progress view for one order. A corrupted status is
// surfaced, never silently remapped to the first stage.
func (s *Service) Tracking(ctx context.Context, id string) (*TrackingView, error) {
	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	idx := s.seq.IndexOf(o.Status)
	view := &TrackingView{
		OrderID:         o.ID,
		Status:          o.Status,
		StageIndex:      idx,
		ProgressPercent: s.seq.Progress(o.Status),
		Delivered:       s.seq.IsTerminal(o.Status),
		StatusUnknown:   idx < 0,
	}
	if view.StatusUnknown {
		slog.WarnContext(ctx, "order has unrecognised status", "order_id", o.ID, "status", o.Status)
	}
	return view, nil
}

// History returns the audit trail for an order, oldest first.
func (s *Service) History(ctx context.Context, id string) ([]*auditlog.Entry, error) {
	if s.audit == nil {
		return nil, nil
	}
	if _, err := s.repo.GetOrder(ctx, id); err != nil {
		return nil, err
	}
	return s.audit.History(ctx, id)
}

// record appends an audit entry; audit failures are logged, not fatal,
// because the business write already succeeded.
func (s *Service) record(ctx context.Context, id string, from, to tracking.Stage, actor string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, auditlog.NewEntry(ctx, id, from, to, actor)); err != nil {
		slog.ErrorContext(ctx, "failed to record status transition", "order_id", id, "error", err)
	}
}
