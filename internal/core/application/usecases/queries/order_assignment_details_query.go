package queries

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrOrderAssignmentDetailsQueryIsNotConstructed = errors.New(
	"OrderAssignmentDetailsQuery must be created via NewOrderAssignmentDetailsQuery constructor",
)

// OrderAssignmentDetailsQuery retrieves one order's assignment state: status,
// priority, timeline and the currently bound rider, if any.
type OrderAssignmentDetailsQuery struct {
	orderID string
	guard   guard.ConstructorGuard
}

// NewOrderAssignmentDetailsQuery creates a detail query for the given order.
func NewOrderAssignmentDetailsQuery(orderID string) (OrderAssignmentDetailsQuery, error) {
	if orderID == "" {
		return OrderAssignmentDetailsQuery{}, errs.NewValueIsRequiredError("order id")
	}

	return OrderAssignmentDetailsQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q OrderAssignmentDetailsQuery) Validate() error {
	return q.guard.Validate(ErrOrderAssignmentDetailsQueryIsNotConstructed)
}

// OrderID returns the queried order id.
func (q OrderAssignmentDetailsQuery) OrderID() string {
	return q.orderID
}

// TimelineEntryResponse is one recorded status transition.
type TimelineEntryResponse struct {
	Status string
	Time   time.Time
	Note   string
}

// AssignedRiderResponse summarizes the rider currently bound to the order.
type AssignedRiderResponse struct {
	ID          string
	Name        string
	Status      string
	CurrentLoad int
	MaxLoad     int
	Rating      float64
	Zone        *string
}

// OrderAssignmentDetailsResponse is the full assignment view of one order.
// Rider is nil while the order is unassigned.
type OrderAssignmentDetailsResponse struct {
	ID             string
	Status         string
	Priority       string
	CustomerName   string
	PickupLocation string
	DropLocation   string
	Zone           *string
	EtaMinutes     int
	SlaDeadline    time.Time
	Timeline       []TimelineEntryResponse
	Rider          *AssignedRiderResponse
}
