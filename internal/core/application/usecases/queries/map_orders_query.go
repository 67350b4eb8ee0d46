package queries

import (
	"errors"
	"time"

	"dispatch/internal/pkg/guard"
)

var ErrMapOrdersQueryIsNotConstructed = errors.New(
	"MapOrdersQuery must be created via NewMapOrdersQuery constructor",
)

// MapOrdersQuery retrieves active (non-terminal) orders for the live map,
// optionally filtered by zone. Drop addresses are resolved to coordinates
// through the address resolver; orders whose address cannot be resolved
// appear without a position.
type MapOrdersQuery struct {
	zone  string
	guard guard.ConstructorGuard
}

// NewMapOrdersQuery creates a map order query. An empty zone matches everything.
func NewMapOrdersQuery(zone string) (MapOrdersQuery, error) {
	return MapOrdersQuery{
		zone:  zone,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q MapOrdersQuery) Validate() error {
	return q.guard.Validate(ErrMapOrdersQueryIsNotConstructed)
}

// Zone returns the zone filter, empty for no filter.
func (q MapOrdersQuery) Zone() string {
	return q.zone
}

// MapOrderResponse is one order marker of the live-map read model.
// Lat/Lng are nil when the drop address could not be resolved.
type MapOrderResponse struct {
	ID           string
	Status       string
	CustomerName string
	DropLocation string
	Lat          *float64
	Lng          *float64
	Zone         *string
	SlaDeadline  time.Time
	RiderID      *string
}
