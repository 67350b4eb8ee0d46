package queries

import (
	"errors"
	"time"

	"dispatch/internal/pkg/guard"
)

var ErrAutoAssignRulesQueryIsNotConstructed = errors.New(
	"AutoAssignRulesQuery must be created via NewAutoAssignRulesQuery constructor",
)

// AutoAssignRulesQuery retrieves every auto-assign rule profile, or the
// synthetic inactive default when none have been persisted yet.
type AutoAssignRulesQuery struct {
	guard guard.ConstructorGuard
}

// NewAutoAssignRulesQuery creates a parameterless rule listing query.
func NewAutoAssignRulesQuery() AutoAssignRulesQuery {
	return AutoAssignRulesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q AutoAssignRulesQuery) Validate() error {
	return q.guard.Validate(ErrAutoAssignRulesQueryIsNotConstructed)
}

// RuleCriteriaResponse exposes the tunable knobs of one rule.
type RuleCriteriaResponse struct {
	MaxRadiusKm       float64
	MaxOrdersPerRider int
	PreferSameZone    bool
	PriorityWeight    float64
	DistanceWeight    float64
	EtaWeight         float64
}

// AutoAssignRuleResponse is one rule profile in the read model.
type AutoAssignRuleResponse struct {
	ID        string
	Name      string
	IsActive  bool
	Criteria  RuleCriteriaResponse
	CreatedBy string
	UpdatedAt time.Time
}
