package catalog

import (
	"context"
	"sync"
	"time"
)

// Ensure memoryRepository implements the port at compile time.
var _ Repository = (*memoryRepository)(nil)

// memoryRepository is an in-memory Repository for local development and
// tests. Not for production use.
type memoryRepository struct {
	mu       sync.RWMutex
	variants map[string]*Variant
}

// NewMemoryRepository returns an in-memory Repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{variants: make(map[string]*Variant)}
}

func (m *memoryRepository) CreateVariant(_ context.Context, v *Variant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *v
	m.variants[v.ID] = &cp
	return nil
}

func (m *memoryRepository) GetVariant(_ context.Context, id string) (*Variant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.variants[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *memoryRepository) ListVariants(_ context.Context) ([]*Variant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Variant, 0, len(m.variants))
	for _, v := range m.variants {
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memoryRepository) SaveVariantPrice(_ context.Context, id string, priceUSD float64, priceKES int64, override bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.variants[id]
	if !ok {
		return ErrNotFound
	}
	v.PriceUSD = priceUSD
	v.PriceKES = priceKES
	v.ManualOverride = override
	v.UpdatedAt = time.Now().UTC()
	return nil
}
