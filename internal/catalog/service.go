package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sokocargo/sokocargo/internal/pricing"
)

// Service applies pricing policy to the catalog.
type Service struct {
	repo   Repository
	engine *pricing.Engine
}

func NewService(repo Repository, engine *pricing.Engine) *Service {
	return &Service{repo: repo, engine: engine}
}

// AddVariant creates a variant, pricing it from its USD listing price.
func (s *Service) AddVariant(ctx context.Context, product, description string, priceUSD float64) (*Variant, error) {
	if priceUSD < 0 {
		priceUSD = 0
	}
	v, err := NewVariant(product, description, priceUSD, s.engine.ComputeLandedCost(priceUSD))
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateVariant(ctx, v); err != nil {
		return nil, fmt.Errorf("catalog: create variant: %w", err)
	}
	return v, nil
}

// GetVariant returns one variant by ID.
func (s *Service) GetVariant(ctx context.Context, id string) (*Variant, error) {
	return s.repo.GetVariant(ctx, id)
}

// ListVariants returns all variants.
func (s *Service) ListVariants(ctx context.Context) ([]*Variant, error) {
	return s.repo.ListVariants(ctx)
}

// SetManualPrice pins an operator-entered price pair on a variant. The
// variant is exempt from RepriceAll until ClearManualPrice is called.
func (s *Service) SetManualPrice(ctx context.Context, id string, priceUSD float64, priceKES int64) (*Variant, error) {
	if priceUSD < 0 || priceKES < 0 {
		return nil, fmt.Errorf("%w: usd=%v kes=%d", ErrInvalidMoney, priceUSD, priceKES)
	}
	if _, err := s.repo.GetVariant(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.SaveVariantPrice(ctx, id, priceUSD, priceKES, true); err != nil {
		return nil, fmt.Errorf("catalog: save manual price: %w", err)
	}
	return s.repo.GetVariant(ctx, id)
}

// ClearManualPrice removes the override and immediately recomputes the
// landed cost from the stored USD price.
func (s *Service) ClearManualPrice(ctx context.Context, id string) (*Variant, error) {
	v, err := s.repo.GetVariant(ctx, id)
	if err != nil {
		return nil, err
	}
	kes := s.engine.ComputeLandedCost(v.PriceUSD)
	if err := s.repo.SaveVariantPrice(ctx, id, v.PriceUSD, kes, false); err != nil {
		return nil, fmt.Errorf("catalog: clear manual price: %w", err)
	}
	return s.repo.GetVariant(ctx, id)
}

// RepriceResult summarises a bulk recomputation run.
type RepriceResult struct {
	Repriced int `json:"repriced"`
	Skipped  int `json:"skipped"`
}

// RepriceAll recomputes the landed cost of every variant from its USD
// price, skipping variants with a manual override. Used after a fee
// structure or exchange-rate change.
func (s *Service) RepriceAll(ctx context.Context) (RepriceResult, error) {
	variants, err := s.repo.ListVariants(ctx)
	if err != nil {
		return RepriceResult{}, fmt.Errorf("catalog: list variants: %w", err)
	}

	var res RepriceResult
	for _, v := range variants {
		if v.ManualOverride {
			res.Skipped++
			continue
		}
		kes := s.engine.ComputeLandedCost(v.PriceUSD)
		if err := s.repo.SaveVariantPrice(ctx, v.ID, v.PriceUSD, kes, false); err != nil {
			return res, fmt.Errorf("catalog: reprice variant %s: %w", v.ID, err)
		}
		res.Repriced++
	}

	slog.InfoContext(ctx, "bulk reprice finished", "repriced", res.Repriced, "skipped", res.Skipped)
	return res, nil
}
