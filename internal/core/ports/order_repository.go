package ports

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when the order does not exist.
	Get(ctx context.Context, id string) (*order.Order, error)

	// GetPending retrieves pending orders sorted ascending by SLA deadline
	// (most urgent first), capped at limit.
	GetPending(ctx context.Context, limit int) ([]*order.Order, error)

	// GetPendingByIDs retrieves the subset of the given orders that are
	// still pending, sorted ascending by SLA deadline. Unknown or
	// non-pending ids are silently dropped.
	GetPendingByIDs(ctx context.Context, ids []string) ([]*order.Order, error)

	// NextOrderID generates the next sequential order identifier by
	// inspecting the highest existing numeric suffix of the ORD- sequence
	// (9000 base) and incrementing it.
	NextOrderID(ctx context.Context) (string, error)
}
