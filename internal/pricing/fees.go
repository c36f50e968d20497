// Package pricing computes the landed cost of a sourced item: the total
// amount, in Kenyan shillings, a customer pays to have an item bought
// abroad and delivered locally. The calculation is pure and deterministic;
// the only state it reads is an immutable FeeStructure loaded at startup.
package pricing

import (
	"errors"
	"fmt"
)

// FeeStructure is the tunable pricing policy. It is read-only after
// startup and shared freely between goroutines.
//
// HandlingFeeUSD is an optional flat per-item term; leaving it at zero
// reproduces the fee schedule without it.
type FeeStructure struct {
	ShippingFlatUSD        float64 `yaml:"shipping_flat_usd"`
	ShippingPercent        float64 `yaml:"shipping_percent"`
	ServiceFeeFixedUSD     float64 `yaml:"service_fee_fixed_usd"`
	ServiceFeePercentLarge float64 `yaml:"service_fee_percent_large"`
	ThresholdUSD           float64 `yaml:"threshold_usd"`
	HandlingFeeUSD         float64 `yaml:"handling_fee_usd"`
	KESPerUSD              float64 `yaml:"kes_per_usd"`
}

var ErrInvalidFeeStructure = errors.New("pricing: invalid fee structure")

// Validate reports whether the structure can produce meaningful prices.
// A failure here is fatal at startup: quoting with zeroed fees would
// silently undercharge every order.
func (f FeeStructure) Validate() error {
	switch {
	case f.KESPerUSD <= 0:
		return fmt.Errorf("%w: kes_per_usd must be > 0, got %v", ErrInvalidFeeStructure, f.KESPerUSD)
	case f.ThresholdUSD <= 0:
		return fmt.Errorf("%w: threshold_usd must be > 0, got %v", ErrInvalidFeeStructure, f.ThresholdUSD)
	case f.ShippingFlatUSD < 0 || f.ServiceFeeFixedUSD < 0 || f.HandlingFeeUSD < 0:
		return fmt.Errorf("%w: flat fees must not be negative", ErrInvalidFeeStructure)
	case f.ShippingPercent < 0 || f.ServiceFeePercentLarge < 0:
		return fmt.Errorf("%w: percentage fees must not be negative", ErrInvalidFeeStructure)
	}
	return nil
}

// DefaultFees is the brokerage's standard schedule. Deployments override it
// via the fees YAML file.
var DefaultFees = FeeStructure{
	ShippingFlatUSD:        20,
	ShippingPercent:        0.035,
	ServiceFeeFixedUSD:     30,
	ServiceFeePercentLarge: 0.045,
	ThresholdUSD:           750,
	KESPerUSD:              135,
}
