// Package orders manages customer orders from confirmation through
// delivery: creation from a landed-cost quote, forward status
// progression, and the customer tracking view.
package orders

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/sokocargo/sokocargo/internal/pricing"
	"github.com/sokocargo/sokocargo/internal/tracking"
)

var (
	ErrNotFound      = errors.New("orders: order not found")
	ErrInvalidMoney  = errors.New("orders: money values must not be negative")
	ErrBackwardJump  = errors.New("orders: backward status transitions are disabled")
	ErrUnknownStatus = tracking.ErrUnknownStage
	ErrAlreadyDone   = tracking.ErrTerminalStage
)

// Order is one confirmed purchase moving through the shipment lifecycle.
// The monetary breakdown is denominated in whole KES; TotalKES is the
// authoritative figure, the component fields are its display split.
type Order struct {
	ID             string
	CustomerID     string
	Description    string
	BuyingPriceKES int64
	ShippingFeeKES int64
	ServiceFeeKES  int64
	TotalKES       int64
	Status         tracking.Stage
	Origin         string
	ShippingMode   string
	Paid           bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewOrder validates and builds an Order at the first stage of seq.
func NewOrder(seq tracking.Sequence, customerID, description, origin, shippingMode string, buying, shipping, service, total int64) (*Order, error) {
	if customerID == "" {
		return nil, errors.New("orders: customer_id is required")
	}
	if buying < 0 || shipping < 0 || service < 0 || total < 0 {
		return nil, fmt.Errorf("%w: buying=%d shipping=%d service=%d total=%d", ErrInvalidMoney, buying, shipping, service, total)
	}
	now := time.Now().UTC()
	return &Order{
		ID:             uuid.NewString(),
		CustomerID:     customerID,
		Description:    description,
		BuyingPriceKES: buying,
		ShippingFeeKES: shipping,
		ServiceFeeKES:  service,
		TotalKES:       total,
		Status:         seq.First(),
		Origin:         origin,
		ShippingMode:   shippingMode,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// breakdownKES splits a quote into display KES components. The total is
// the quote's authoritative ceiling; the components are rounded up
// individually, so their sum may exceed the total by a few shillings.
func breakdownKES(q pricing.Breakdown, rate float64) (buying, shipping, service int64) {
	buying = int64(math.Ceil(q.BasePriceUSD * rate))
	shipping = int64(math.Ceil(q.ShippingUSD * rate))
	service = int64(math.Ceil((q.ServiceFeeUSD + q.HandlingFeeUSD) * rate))
	return buying, shipping, service
}
