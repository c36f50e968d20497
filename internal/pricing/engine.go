package pricing

import "math"

// Breakdown is the line-item view of a quote, kept so the storefront can
// show customers what they are paying for rather than a single opaque total.
type Breakdown struct {
	BasePriceUSD   float64
	ShippingUSD    float64
	ServiceFeeUSD  float64
	HandlingFeeUSD float64
	TotalUSD       float64
	TotalKES       int64

	// Available is false when no quote can be produced because the listing
	// has no usable price. Not an error: products routinely lack prices.
	Available bool
}

// Engine turns foreign listing prices into landed costs under one fee
// structure. Stateless apart from the immutable fees; safe for concurrent
// use from any number of request handlers.
type Engine struct {
	fees FeeStructure
}

// NewEngine builds an Engine, rejecting malformed fee structures.
func NewEngine(fees FeeStructure) (*Engine, error) {
	if err := fees.Validate(); err != nil {
		return nil, err
	}
	return &Engine{fees: fees}, nil
}

// Fees returns the fee structure the engine was built with.
func (e *Engine) Fees() FeeStructure { return e.fees }

// Quote computes the full landed-cost breakdown for a listing price.
//
// Service fee selection is inclusive on the threshold: a price exactly at
// ThresholdUSD pays the fixed fee, not the percentage.
func (e *Engine) Quote(basePriceUSD float64) Breakdown {
	if basePriceUSD <= 0 || math.IsNaN(basePriceUSD) || math.IsInf(basePriceUSD, 0) {
		return Breakdown{}
	}

	shipping := e.fees.ShippingFlatUSD + basePriceUSD*e.fees.ShippingPercent

	service := e.fees.ServiceFeeFixedUSD
	if basePriceUSD > e.fees.ThresholdUSD {
		service = basePriceUSD * e.fees.ServiceFeePercentLarge
	}

	totalUSD := basePriceUSD + shipping + service + e.fees.HandlingFeeUSD

	return Breakdown{
		BasePriceUSD:   basePriceUSD,
		ShippingUSD:    shipping,
		ServiceFeeUSD:  service,
		HandlingFeeUSD: e.fees.HandlingFeeUSD,
		TotalUSD:       totalUSD,
		TotalKES:       toKES(totalUSD, e.fees.KESPerUSD),
		Available:      true,
	}
}

// ComputeLandedCost returns only the final KES total. Zero means
// "no quote available" and callers must branch on it; it is never an error.
func (e *Engine) ComputeLandedCost(basePriceUSD float64) int64 {
	return e.Quote(basePriceUSD).TotalKES
}

// toKES converts a USD total at the fixed rate, rounding fractional
// shillings up so the brokerage never undercharges by a cent of rounding.
func toKES(totalUSD, rate float64) int64 {
	return int64(math.Ceil(totalUSD * rate))
}
