package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct dispatch workflow.
//
// State transitions:
//
//	pending ──> assigned ──> picked_up ──> in_transit ──> delivered
//	               │  │                         │
//	               └──┘ (reassignment)          ├──> rto
//	                                            └──> returned
//
// delivered, rto and returned are terminal. Reassignment keeps the order in
// assigned but must move it to a different rider. Running behind SLA is not a
// lifecycle state: the order carries a delayed flag alongside its status, and
// Delayed appears only as a timeline marker.
type Status string

const (
	// Pending is the initial status; the order is waiting for assignment.
	Pending Status = "pending"
	// Assigned indicates a rider has been bound to the order.
	// Orders can be reassigned to a different rider while in this status.
	Assigned Status = "assigned"
	// PickedUp indicates the rider has collected the order.
	PickedUp Status = "picked_up"
	// InTransit indicates the order is on its way to the drop location.
	InTransit Status = "in_transit"
	// Delivered is the terminal success state.
	Delivered Status = "delivered"
	// RTO (return to origin) is a terminal failure state.
	RTO Status = "rto"
	// Returned is a terminal state for orders handed back by the customer.
	Returned Status = "returned"
	// Delayed marks a behind-SLA flag in the timeline. It is never a
	// lifecycle status of its own.
	Delayed Status = "delayed"
)

// getValidStatuses returns the set of statuses accepted from external sources.
func getValidStatuses() map[Status]struct{} {
	return map[Status]struct{}{
		Pending:   {},
		Assigned:  {},
		PickedUp:  {},
		InTransit: {},
		Delivered: {},
		RTO:       {},
		Returned:  {},
	}
}

// Validate checks if the Status value is one of the defined statuses.
// Used when reconstructing orders from persistence or API input.
func (s Status) Validate() error {
	if _, ok := getValidStatuses()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%q is not a valid order status", string(s)))
	}
	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == RTO || s == Returned
}

// ValidateAssign checks if the status allows binding a rider without
// performing the transition. Only pending orders (initial assignment) and
// assigned orders (reassignment) are assignable.
func (s Status) ValidateAssign() error {
	if s != Pending && s != Assigned {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to assign", s))
	}
	return nil
}

// Assign transitions the status to Assigned.
// Valid from Pending (initial assignment) and Assigned (reassignment).
func (s Status) Assign() (Status, error) {
	if err := s.ValidateAssign(); err != nil {
		return "", err
	}
	return Assigned, nil
}

// PickUp transitions the status to PickedUp. Valid only from Assigned.
func (s Status) PickUp() (Status, error) {
	if s != Assigned {
		return "", errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to pick up", s))
	}
	return PickedUp, nil
}

// StartTransit transitions the status to InTransit. Valid only from PickedUp.
func (s Status) StartTransit() (Status, error) {
	if s != PickedUp {
		return "", errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to start transit", s))
	}
	return InTransit, nil
}

// Deliver transitions the status to the terminal Delivered state.
// Valid only from InTransit.
func (s Status) Deliver() (Status, error) {
	if s != InTransit {
		return "", errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to deliver", s))
	}
	return Delivered, nil
}

// Fail transitions the status to one of the terminal failure states
// (RTO or Returned). Valid from PickedUp and InTransit.
func (s Status) Fail(target Status) (Status, error) {
	if target != RTO && target != Returned {
		return "", errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a failure status", target))
	}
	if s != PickedUp && s != InTransit {
		return "", errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to fail", s))
	}
	return target, nil
}
