package orders

import (
	"context"

	"github.com/sokocargo/sokocargo/internal/tracking"
)

// Repository is the port to order storage.
type Repository interface {
	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id string) (*Order, error)
	ListOrders(ctx context.Context, customerID string) ([]*Order, error)

	// SaveOrderStatus persists a status change. Orders are never deleted;
	// the status value is only ever superseded.
	SaveOrderStatus(ctx context.Context, id string, status tracking.Stage) error

	// MarkPaid flips the paid flag.
	MarkPaid(ctx context.Context, id string) error
}
