package services

import (
	"context"
	"math"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// minutesPerKm is the fixed rough pickup-speed factor:
// etaMinutes = ceil(distanceKm × 3). The constant keeps pickup-time
// estimates deterministic across the engine.
const minutesPerKm = 3

// EtaMinutes converts a distance in kilometers to an estimated pickup time
// in whole minutes, rounding up.
func EtaMinutes(distanceKm float64) int {
	return int(math.Ceil(distanceKm * minutesPerKm))
}

// DistanceEstimator computes geographic distances between riders and order
// pickup points. Address text is resolved to coordinates through the injected
// AddressResolver capability.
type DistanceEstimator struct {
	resolver ports.AddressResolver
}

// NewDistanceEstimator creates a DistanceEstimator backed by the given resolver.
func NewDistanceEstimator(resolver ports.AddressResolver) DistanceEstimator {
	return DistanceEstimator{resolver: resolver}
}

// ResolveAddress resolves address text to coordinates via the injected resolver.
func (e DistanceEstimator) ResolveAddress(ctx context.Context, address string) (kernel.Location, error) {
	return e.resolver.Resolve(ctx, address)
}

// DistanceToAddressKm computes the great-circle distance in kilometers from
// a position to an address.
func (e DistanceEstimator) DistanceToAddressKm(
	ctx context.Context,
	from kernel.Location,
	address string,
) (float64, error) {
	target, err := e.resolver.Resolve(ctx, address)
	if err != nil {
		return 0, err
	}
	return from.DistanceKm(target)
}
