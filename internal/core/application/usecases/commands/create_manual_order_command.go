package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateManualOrderCommandIsNotConstructed = errors.New(
	"CreateManualOrderCommand must be created via NewCreateManualOrderCommand constructor",
)

// OrderTypeExpress selects the tighter 30-minute SLA window at intake.
// Any other order type gets the standard 60-minute window.
const OrderTypeExpress = "express"

// CreateManualOrderCommand carries a manually entered order. All payload
// validation happens in the constructor, before any persistence is touched.
//
// Example:
//
//	cmd, err := NewCreateManualOrderCommand(
//	    "Jane", "5 Main St", "", nil,
//	    []order.Item{{Name: "Widget", Quantity: 1}},
//	    OrderTypeExpress, nil,
//	)
type CreateManualOrderCommand struct { //nolint:recvcheck //using for validation
	customerName   string
	dropLocation   string
	pickupLocation string
	zone           *string
	items          []order.Item
	orderType      string
	riderID        *string

	guard guard.ConstructorGuard
}

// NewCreateManualOrderCommand creates an intake command.
//
// Validates customerName, dropLocation and items (non-empty). pickupLocation
// may be empty; the handler substitutes the configured default warehouse.
// A non-nil riderID requests an immediate assignment attempt after creation.
func NewCreateManualOrderCommand(
	customerName string,
	dropLocation string,
	pickupLocation string,
	zone *string,
	items []order.Item,
	orderType string,
	riderID *string,
) (CreateManualOrderCommand, error) {
	cmd := CreateManualOrderCommand{
		pickupLocation: pickupLocation,
		zone:           zone,
		orderType:      orderType,
		riderID:        riderID,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerName(customerName),
		cmd.setDropLocation(dropLocation),
		cmd.setItems(items),
	); err != nil {
		return CreateManualOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateManualOrderCommandIsNotConstructed if validation fails.
func (c CreateManualOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateManualOrderCommandIsNotConstructed)
}

// CustomerName returns the recipient name.
func (c CreateManualOrderCommand) CustomerName() string {
	return c.customerName
}

// DropLocation returns the drop address text.
func (c CreateManualOrderCommand) DropLocation() string {
	return c.dropLocation
}

// PickupLocation returns the pickup address text, or "" to use the default
// warehouse.
func (c CreateManualOrderCommand) PickupLocation() string {
	return c.pickupLocation
}

// Zone returns the optional coarse geographic label.
func (c CreateManualOrderCommand) Zone() *string {
	return c.zone
}

// Items returns the ordered item list.
func (c CreateManualOrderCommand) Items() []order.Item {
	return c.items
}

// OrderType returns the order type driving the SLA window.
func (c CreateManualOrderCommand) OrderType() string {
	return c.orderType
}

// RiderID returns the rider for an immediate assignment attempt, or nil.
func (c CreateManualOrderCommand) RiderID() *string {
	return c.riderID
}

func (c *CreateManualOrderCommand) setCustomerName(customerName string) error {
	if customerName == "" {
		return errs.NewValueIsRequiredError("customer name")
	}
	c.customerName = customerName
	return nil
}

func (c *CreateManualOrderCommand) setDropLocation(dropLocation string) error {
	if dropLocation == "" {
		return errs.NewValueIsRequiredError("drop location")
	}
	c.dropLocation = dropLocation
	return nil
}

func (c *CreateManualOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	c.items = make([]order.Item, len(items))
	copy(c.items, items)
	return nil
}
