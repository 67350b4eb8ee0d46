package ports

import (
	"context"

	"dispatch/internal/core/domain/model/rider"
)

// RiderRepository defines the persistence contract for rider aggregates.
type RiderRepository interface {
	// Add persists a new rider aggregate to storage.
	Add(ctx context.Context, aggregate *rider.Rider) error

	// Update persists changes to an existing rider aggregate.
	Update(ctx context.Context, aggregate *rider.Rider) error

	// Get retrieves a rider aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when the rider does not exist.
	Get(ctx context.Context, id string) (*rider.Rider, error)

	// GetAssignable retrieves riders with spare capacity
	// (currentLoad < maxLoad) whose status is online, idle or busy.
	// A non-empty search filters by rider id or name substring.
	GetAssignable(ctx context.Context, search string) ([]*rider.Rider, error)
}
