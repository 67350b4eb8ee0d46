package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrMapRidersQueryIsNotConstructed = errors.New(
	"MapRidersQuery must be created via NewMapRidersQuery constructor",
)

// MapRidersQuery retrieves riders with a known position for the live map,
// optionally filtered by zone or status.
type MapRidersQuery struct {
	zone   string
	status string
	guard  guard.ConstructorGuard
}

// NewMapRidersQuery creates a map rider query. Empty filters match everything.
func NewMapRidersQuery(zone, status string) (MapRidersQuery, error) {
	if status != "" {
		if err := rider.Status(status).Validate(); err != nil {
			return MapRidersQuery{}, errs.NewValueIsInvalidErrorWithCause("status", err)
		}
	}

	return MapRidersQuery{
		zone:   zone,
		status: status,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q MapRidersQuery) Validate() error {
	return q.guard.Validate(ErrMapRidersQueryIsNotConstructed)
}

// Zone returns the zone filter, empty for no filter.
func (q MapRidersQuery) Zone() string {
	return q.zone
}

// Status returns the status filter, empty for no filter.
func (q MapRidersQuery) Status() string {
	return q.status
}

// MapRiderResponse is one rider marker of the live-map read model.
type MapRiderResponse struct {
	ID          string
	Name        string
	Status      string
	Lat         float64
	Lng         float64
	CurrentLoad int
	MaxLoad     int
	Zone        *string
}
