package queries

import (
	"errors"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	defaultRecommendationLimit = 10
	recommendedTopCount        = 3
)

var ErrRecommendedRidersQueryIsNotConstructed = errors.New(
	"RecommendedRidersQuery must be created via NewRecommendedRidersQuery constructor",
)

// RecommendedRidersQuery ranks candidate riders for one order for
// human-in-the-loop dispatch: every rider with spare capacity is scored
// against the order and the best candidates are flagged.
type RecommendedRidersQuery struct {
	orderID string
	search  string
	limit   int
	guard   guard.ConstructorGuard
}

// NewRecommendedRidersQuery creates a recommendation query. Search optionally
// narrows candidates by rider id or name; a non-positive limit falls back to
// the default.
func NewRecommendedRidersQuery(orderID, search string, limit int) (RecommendedRidersQuery, error) {
	if orderID == "" {
		return RecommendedRidersQuery{}, errs.NewValueIsRequiredError("order id")
	}

	if limit < 1 {
		limit = defaultRecommendationLimit
	}

	return RecommendedRidersQuery{
		orderID: orderID,
		search:  search,
		limit:   limit,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q RecommendedRidersQuery) Validate() error {
	return q.guard.Validate(ErrRecommendedRidersQueryIsNotConstructed)
}

// OrderID returns the order the candidates are ranked for.
func (q RecommendedRidersQuery) OrderID() string {
	return q.orderID
}

// Search returns the rider id/name filter, empty for no filter.
func (q RecommendedRidersQuery) Search() string {
	return q.search
}

// Limit returns the maximum number of candidates to return.
func (q RecommendedRidersQuery) Limit() int {
	return q.limit
}

// RecommendedRiderResponse is one ranked candidate row. DistanceKm is nil
// when the rider has no known position; EtaMinutes then reflects the rider's
// historical average.
type RecommendedRiderResponse struct {
	RiderID       string
	Name          string
	Status        string
	Zone          *string
	CurrentLoad   int
	MaxLoad       int
	Rating        float64
	DistanceKm    *float64
	EtaMinutes    int
	Score         float64
	IsRecommended bool
}
