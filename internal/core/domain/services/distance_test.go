package services_test

import (
	"context"
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver resolves addresses from a fixed table.
type fakeResolver struct {
	locations map[string]kernel.Location
}

func (f *fakeResolver) Resolve(_ context.Context, address string) (kernel.Location, error) {
	loc, ok := f.locations[address]
	if !ok {
		return kernel.Location{}, errs.NewObjectNotFoundError("address", address)
	}
	return loc, nil
}

func newFakeResolver(t *testing.T, addresses map[string][2]float64) *fakeResolver {
	t.Helper()
	resolver := &fakeResolver{locations: make(map[string]kernel.Location)}
	for address, coords := range addresses {
		loc, err := kernel.NewLocation(coords[0], coords[1])
		require.NoError(t, err)
		resolver.locations[address] = loc
	}
	return resolver
}

func TestEtaMinutes(t *testing.T) {
	testCases := []struct {
		name       string
		distanceKm float64
		expected   int
	}{
		{"zero distance", 0, 0},
		{"one km is three minutes", 1, 3},
		{"fractional distance rounds up", 1.1, 4},
		{"third of a km rounds up to one minute", 0.3, 1},
		{"ten km", 10, 30},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, services.EtaMinutes(tc.distanceKm))
		})
	}
}

func TestDistanceEstimator_DistanceToAddressKm(t *testing.T) {
	resolver := newFakeResolver(t, map[string][2]float64{
		"Central Warehouse": {12.9716, 77.5946},
	})
	estimator := services.NewDistanceEstimator(resolver)

	t.Run("computes distance to resolved address", func(t *testing.T) {
		from, _ := kernel.NewLocation(12.9716, 77.5946)

		km, err := estimator.DistanceToAddressKm(context.Background(), from, "Central Warehouse")

		require.NoError(t, err)
		assert.InDelta(t, 0, km, 1e-9)
	})

	t.Run("propagates resolver failure", func(t *testing.T) {
		from, _ := kernel.NewLocation(12.9716, 77.5946)

		_, err := estimator.DistanceToAddressKm(context.Background(), from, "Nowhere Street")

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}
