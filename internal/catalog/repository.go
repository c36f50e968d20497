package catalog

import "context"

// Repository is the port to variant storage. The service depends on this
// abstraction, not on SQLite directly, so tests can use an in-memory
// implementation.
type Repository interface {
	GetVariant(ctx context.Context, id string) (*Variant, error)
	ListVariants(ctx context.Context) ([]*Variant, error)
	CreateVariant(ctx context.Context, v *Variant) error

	// SaveVariantPrice persists the price fields of one variant, including
	// its manual-override flag.
	SaveVariantPrice(ctx context.Context, id string, priceUSD float64, priceKES int64, override bool) error
}
