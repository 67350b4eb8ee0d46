package queries

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrUnassignedOrdersCountQueryIsNotConstructed = errors.New(
	"UnassignedOrdersCountQuery must be created via NewUnassignedOrdersCountQuery constructor",
)

// UnassignedOrdersCountQuery counts pending orders, optionally restricted to
// one priority tier. Drives the backlog badge on the dispatch screen.
type UnassignedOrdersCountQuery struct {
	priority string
	guard    guard.ConstructorGuard
}

// NewUnassignedOrdersCountQuery creates a count query. An empty priority
// counts the whole backlog.
func NewUnassignedOrdersCountQuery(priority string) (UnassignedOrdersCountQuery, error) {
	if err := validatePriorityFilter(priority); err != nil {
		return UnassignedOrdersCountQuery{}, err
	}

	return UnassignedOrdersCountQuery{
		priority: priority,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q UnassignedOrdersCountQuery) Validate() error {
	return q.guard.Validate(ErrUnassignedOrdersCountQueryIsNotConstructed)
}

// Priority returns the priority tier filter, empty for no filter.
func (q UnassignedOrdersCountQuery) Priority() string {
	return q.priority
}
