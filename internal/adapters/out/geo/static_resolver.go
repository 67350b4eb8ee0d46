// Package geo provides address resolution adapters. The engine treats
// geocoding as an injected capability; this package ships the static adapter
// used by local runs and tests, where no external geocoding service exists.
package geo

import (
	"context"
	"hash/fnv"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// maxJitterDeg bounds the deterministic offset applied to unknown addresses,
// roughly 5 km at the equator.
const maxJitterDeg = 0.045

// StaticResolver resolves addresses from a fixed table, falling back to a
// deterministic position near the configured base for unknown text. The same
// address always resolves to the same coordinates, which keeps distance and
// ETA figures stable across runs.
type StaticResolver struct {
	base   kernel.Location
	known  map[string]kernel.Location
	strict bool
}

// NewStaticResolver creates a resolver around the given base location with an
// optional table of known addresses. Lookup keys are case-insensitive and
// whitespace-trimmed.
func NewStaticResolver(base kernel.Location, known map[string]kernel.Location) (*StaticResolver, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}

	normalized := make(map[string]kernel.Location, len(known))
	for address, location := range known {
		if err := location.Validate(); err != nil {
			return nil, err
		}
		normalized[normalizeAddress(address)] = location
	}

	return &StaticResolver{
		base:  base,
		known: normalized,
	}, nil
}

// NewStrictStaticResolver creates a resolver that only serves the known table
// and reports unknown addresses as not found instead of synthesizing
// coordinates.
func NewStrictStaticResolver(base kernel.Location, known map[string]kernel.Location) (*StaticResolver, error) {
	resolver, err := NewStaticResolver(base, known)
	if err != nil {
		return nil, err
	}

	resolver.strict = true
	return resolver, nil
}

// Resolve returns coordinates for the given address text.
func (r *StaticResolver) Resolve(_ context.Context, address string) (kernel.Location, error) {
	key := normalizeAddress(address)
	if key == "" {
		return kernel.Location{}, errs.NewValueIsRequiredError("address")
	}

	if location, ok := r.known[key]; ok {
		return location, nil
	}

	if r.strict {
		return kernel.Location{}, errs.NewObjectNotFoundError("address", address)
	}

	return r.synthesize(key)
}

// synthesize derives a stable position near the base from the address text.
// Two independent hashes feed latitude and longitude so nearby strings do not
// collapse onto a diagonal.
func (r *StaticResolver) synthesize(key string) (kernel.Location, error) {
	latJitter := jitter(key + "/lat")
	lngJitter := jitter(key + "/lng")

	return kernel.NewLocation(r.base.Lat()+latJitter, r.base.Lng()+lngJitter)
}

func jitter(s string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))

	// Map the hash onto [-maxJitterDeg, maxJitterDeg].
	unit := float64(h.Sum32())/float64(^uint32(0))*2 - 1
	return unit * maxJitterDeg
}

func normalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
