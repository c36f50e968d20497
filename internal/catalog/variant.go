// Package catalog manages the storefront's sourced-product variants and
// their landed-cost prices. Prices are normally derived by the pricing
// engine; an operator can pin a manual price that bulk repricing must
// never touch.
package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("catalog: variant not found")
	ErrInvalidMoney = errors.New("catalog: money values must not be negative")
)

// Variant is one purchasable configuration of a sourced product.
// PriceUSD is the foreign listing price; PriceKES the landed cost shown
// to customers. When ManualOverride is set, both were entered by an
// operator and are exempt from automatic recomputation until cleared.
type Variant struct {
	ID             string
	Product        string
	Description    string
	PriceUSD       float64
	PriceKES       int64
	ManualOverride bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewVariant validates and builds a Variant. A zero price is allowed:
// it means the listing has no price yet and no quote is available.
func NewVariant(product, description string, priceUSD float64, priceKES int64) (*Variant, error) {
	if product == "" {
		return nil, errors.New("catalog: product name is required")
	}
	if priceUSD < 0 || priceKES < 0 {
		return nil, fmt.Errorf("%w: usd=%v kes=%d", ErrInvalidMoney, priceUSD, priceKES)
	}
	now := time.Now().UTC()
	return &Variant{
		ID:          uuid.NewString(),
		Product:     product,
		Description: description,
		PriceUSD:    priceUSD,
		PriceKES:    priceKES,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
