// Package ports defines the contracts between the dispatch core and
// infrastructure: repositories for the three aggregates, the unit of work,
// and the address resolution capability.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// AddressResolver resolves free-form address text to geographic coordinates.
// The engine treats geocoding as an injected capability; deployments swap in
// a real geocoder, tests and local runs use the static adapter.
type AddressResolver interface {
	// Resolve returns coordinates for the given address text.
	// Returns an errs.ObjectNotFoundError-compatible error when the address
	// cannot be resolved.
	Resolve(ctx context.Context, address string) (kernel.Location, error)
}
