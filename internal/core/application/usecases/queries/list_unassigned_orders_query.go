// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases; the SQL-backed
// handlers read the store directly, the recommendation and detail handlers go
// through the domain because they need scoring or aggregate behavior.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var ErrListUnassignedOrdersQueryIsNotConstructed = errors.New(
	"ListUnassignedOrdersQuery must be created via NewListUnassignedOrdersQuery constructor",
)

// ListUnassignedOrdersQuery retrieves the pending backlog for the dispatch
// screen: filterable by priority tier, zone and free-text search, paginated,
// always sorted most urgent first.
type ListUnassignedOrdersQuery struct {
	priority string
	zone     string
	search   string
	page     int
	pageSize int
	guard    guard.ConstructorGuard
}

// NewListUnassignedOrdersQuery creates a backlog query. All filters are
// optional: an empty priority/zone/search matches everything. Page numbers
// are 1-based; out-of-range pagination values fall back to defaults.
func NewListUnassignedOrdersQuery(
	priority string,
	zone string,
	search string,
	page int,
	pageSize int,
) (ListUnassignedOrdersQuery, error) {
	if err := validatePriorityFilter(priority); err != nil {
		return ListUnassignedOrdersQuery{}, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return ListUnassignedOrdersQuery{
		priority: priority,
		zone:     zone,
		search:   search,
		page:     page,
		pageSize: pageSize,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListUnassignedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListUnassignedOrdersQueryIsNotConstructed)
}

// Priority returns the priority tier filter, empty for no filter.
func (q ListUnassignedOrdersQuery) Priority() string {
	return q.priority
}

// Zone returns the zone filter, empty for no filter.
func (q ListUnassignedOrdersQuery) Zone() string {
	return q.zone
}

// Search returns the free-text filter on order id / customer name.
func (q ListUnassignedOrdersQuery) Search() string {
	return q.search
}

// Page returns the 1-based page number.
func (q ListUnassignedOrdersQuery) Page() int {
	return q.page
}

// PageSize returns the page size.
func (q ListUnassignedOrdersQuery) PageSize() int {
	return q.pageSize
}

// UnassignedOrderResponse is one row of the pending backlog read model.
type UnassignedOrderResponse struct {
	ID             string
	CustomerName   string
	PickupLocation string
	DropLocation   string
	Zone           *string
	SlaDeadline    time.Time
	Priority       string
}

// ListUnassignedOrdersResponse is the paginated backlog page with its
// overall match count.
type ListUnassignedOrdersResponse struct {
	Orders   []UnassignedOrderResponse
	Total    int64
	Page     int
	PageSize int
}

// validatePriorityFilter accepts an empty filter or one of the priority tiers.
func validatePriorityFilter(priority string) error {
	switch services.Priority(priority) {
	case "", services.PriorityHigh, services.PriorityMedium, services.PriorityLow:
		return nil
	default:
		return errs.NewValueIsInvalidError("priority")
	}
}
