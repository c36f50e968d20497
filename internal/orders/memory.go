package orders

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sokocargo/sokocargo/internal/orders/auditlog"
	"github.com/sokocargo/sokocargo/internal/tracking"
)

var _ Repository = (*memoryRepository)(nil)

// memoryRepository is an in-memory Repository for local development and
// tests. Not for production use.
type memoryRepository struct {
	mu     sync.RWMutex
	orders map[string]*Order
}

// NewMemoryRepository returns an in-memory Repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{orders: make(map[string]*Order)}
}

func (m *memoryRepository) CreateOrder(_ context.Context, o *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *memoryRepository) GetOrder(_ context.Context, id string) (*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memoryRepository) ListOrders(_ context.Context, customerID string) ([]*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Order, 0, len(m.orders))
	for _, o := range m.orders {
		if customerID != "" && o.CustomerID != customerID {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryRepository) SaveOrderStatus(_ context.Context, id string, status tracking.Stage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memoryRepository) MarkPaid(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Paid = true
	o.UpdatedAt = time.Now().UTC()
	return nil
}

var _ auditlog.Repository = (*memoryAuditLog)(nil)

// memoryAuditLog is an in-memory auditlog.Repository for tests.
type memoryAuditLog struct {
	mu      sync.Mutex
	entries []*auditlog.Entry
}

// NewMemoryAuditLog returns an in-memory audit log.
func NewMemoryAuditLog() auditlog.Repository {
	return &memoryAuditLog{}
}

func (m *memoryAuditLog) Record(_ context.Context, e *auditlog.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *memoryAuditLog) History(_ context.Context, orderID string) ([]*auditlog.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*auditlog.Entry
	for _, e := range m.entries {
		if e.OrderID == orderID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}
