package commands

import (
	"errors"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAssignOrderCommandIsNotConstructed = errors.New(
	"AssignOrderCommand must be created via NewAssignOrderCommand constructor",
)

// AssignOrderCommand requests binding one order to one rider, including
// moving an already-assigned order to a different rider.
//
// Example:
//
//	cmd, err := NewAssignOrderCommand("ORD-9001", "R-17", false)
//	if err != nil {
//	    return err
//	}
//	if err := handler.Handle(ctx, cmd); errors.Is(err, commands.ErrSlaViolation) {
//	    // projected pickup lands after the deadline; retry with overrideSLA
//	}
type AssignOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     string
	riderID     string
	overrideSLA bool

	guard guard.ConstructorGuard
}

// NewAssignOrderCommand creates a command to bind the given order to the
// given rider. overrideSLA skips the projected-pickup deadline check.
func NewAssignOrderCommand(orderID string, riderID string, overrideSLA bool) (AssignOrderCommand, error) {
	cmd := AssignOrderCommand{
		overrideSLA: overrideSLA,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRiderID(riderID),
	); err != nil {
		return AssignOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignOrderCommandIsNotConstructed if validation fails.
func (c AssignOrderCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrderCommandIsNotConstructed)
}

// OrderID returns the order to assign.
func (c AssignOrderCommand) OrderID() string {
	return c.orderID
}

// RiderID returns the rider to assign the order to.
func (c AssignOrderCommand) RiderID() string {
	return c.riderID
}

// OverrideSLA reports whether the deadline feasibility check is bypassed.
func (c AssignOrderCommand) OverrideSLA() bool {
	return c.overrideSLA
}

func (c *AssignOrderCommand) setOrderID(orderID string) error {
	if orderID == "" {
		return errs.NewValueIsRequiredError("order id")
	}
	c.orderID = orderID
	return nil
}

func (c *AssignOrderCommand) setRiderID(riderID string) error {
	if riderID == "" {
		return errs.NewValueIsRequiredError("rider id")
	}
	c.riderID = riderID
	return nil
}
