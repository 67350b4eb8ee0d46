package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Item is a single line in an order's item list.
type Item struct {
	Name     string
	Quantity int
}

// Validate checks the item invariants: non-empty name, quantity ≥ 1.
func (i Item) Validate() error {
	if i.Name == "" {
		return errs.NewValueIsRequiredError("item name")
	}
	if i.Quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause("item quantity",
			fmt.Errorf("%d is not greater than 0", i.Quantity))
	}
	return nil
}

// TimelineEntry records one status transition of an order.
// Entries are append-only and non-decreasing by time.
type TimelineEntry struct {
	Status Status
	Time   time.Time
	Note   string
}

// Order represents a delivery order. It is the aggregate root that manages
// the order lifecycle from intake through assignment to fulfillment.
//
// Invariants:
//   - id, customer name and drop location are non-empty
//   - items is a non-empty list of valid items
//   - timeline reflects every status transition and is non-decreasing by time
//   - completedAt/deliveryTimeSeconds are set only on the terminal delivered state
//   - status, riderID, etaMinutes and timeline are mutated only through
//     aggregate methods (invoked by the assignment executor or fulfillment flows)
type Order struct {
	id                  string
	status              Status
	isDelayed           bool
	riderID             *string
	etaMinutes          int
	slaDeadline         time.Time
	pickupLocation      string
	dropLocation        string
	zone                *string
	customerName        string
	items               []Item
	timeline            []TimelineEntry
	completedAt         *time.Time
	deliveryTimeSeconds *int

	// isConstructed ensures the order was created via a factory method
	isConstructed bool
}

// NewOrder creates a pending Order with an initial timeline entry.
//
// Parameters:
//   - id: unique order identifier (e.g. "ORD-9001")
//   - customerName: recipient name (non-empty)
//   - pickupLocation: pickup address text (non-empty)
//   - dropLocation: drop address text (non-empty)
//   - zone: optional coarse geographic label
//   - items: non-empty list of order items
//   - slaDeadline: latest acceptable delivery completion time
//   - createdAt: creation timestamp used for the initial timeline entry
func NewOrder(
	id string,
	customerName string,
	pickupLocation string,
	dropLocation string,
	zone *string,
	items []Item,
	slaDeadline time.Time,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerName(customerName),
		o.setPickupLocation(pickupLocation),
		o.setDropLocation(dropLocation),
		o.setItems(items),
		o.setSlaDeadline(slaDeadline),
	); err != nil {
		return nil, err
	}

	o.zone = zone
	o.appendTimeline(Pending, createdAt, "Order created")
	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage,
// preserving its status, assignment and timeline. Unlike NewOrder it does not
// write an initial timeline entry.
func RestoreOrder(
	id string,
	status Status,
	isDelayed bool,
	riderID *string,
	etaMinutes int,
	slaDeadline time.Time,
	pickupLocation string,
	dropLocation string,
	zone *string,
	customerName string,
	items []Item,
	timeline []TimelineEntry,
	completedAt *time.Time,
	deliveryTimeSeconds *int,
) (*Order, error) {
	o := &Order{
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setStatus(status),
		o.setCustomerName(customerName),
		o.setPickupLocation(pickupLocation),
		o.setDropLocation(dropLocation),
		o.setItems(items),
		o.setSlaDeadline(slaDeadline),
	); err != nil {
		return nil, err
	}

	o.isDelayed = isDelayed
	o.riderID = riderID
	o.etaMinutes = etaMinutes
	o.zone = zone
	o.timeline = make([]TimelineEntry, len(timeline))
	copy(o.timeline, timeline)
	o.completedAt = completedAt
	o.deliveryTimeSeconds = deliveryTimeSeconds
	return o, nil
}

// Validate ensures the Order was created through a factory method.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id == other.id
}

// ID returns the order's unique identifier.
func (o *Order) ID() string {
	return o.id
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// IsDelayed reports whether the order has been flagged as running behind its
// SLA. The flag sits alongside the lifecycle status and never blocks it.
func (o *Order) IsDelayed() bool {
	return o.isDelayed
}

// RiderID returns the assigned rider's ID, or nil if unassigned.
func (o *Order) RiderID() *string {
	return o.riderID
}

// EtaMinutes returns the estimated pickup time in minutes set at assignment.
func (o *Order) EtaMinutes() int {
	return o.etaMinutes
}

// SlaDeadline returns the latest acceptable delivery completion time.
func (o *Order) SlaDeadline() time.Time {
	return o.slaDeadline
}

// PickupLocation returns the pickup address text.
func (o *Order) PickupLocation() string {
	return o.pickupLocation
}

// DropLocation returns the drop address text.
func (o *Order) DropLocation() string {
	return o.dropLocation
}

// Zone returns the coarse geographic label, or nil.
func (o *Order) Zone() *string {
	return o.zone
}

// CustomerName returns the recipient name.
func (o *Order) CustomerName() string {
	return o.customerName
}

// Items returns a copy of the order's item list.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// Timeline returns a copy of the append-only status timeline.
func (o *Order) Timeline() []TimelineEntry {
	out := make([]TimelineEntry, len(o.timeline))
	copy(out, o.timeline)
	return out
}

// CompletedAt returns the delivery completion time, or nil if not delivered.
func (o *Order) CompletedAt() *time.Time {
	return o.completedAt
}

// DeliveryTimeSeconds returns the creation-to-delivery duration in seconds,
// or nil if not delivered.
func (o *Order) DeliveryTimeSeconds() *int {
	return o.deliveryTimeSeconds
}

// ValidateAssign checks whether the order can currently accept a rider binding
// without performing the transition.
func (o *Order) ValidateAssign() error {
	return o.status.ValidateAssign()
}

// Assign binds the order to a rider and records the transition.
//
// Business rules:
//   - rider ID must be non-empty
//   - the order must be pending (fresh assignment) or assigned (reassignment)
//   - reassignment must target a different rider; rebinding the current one
//     would let the same order claim a second load slot
//   - etaMinutes is the projected pickup time computed by the caller
//
// The timeline note distinguishes fresh assignment from reassignment.
func (o *Order) Assign(riderID string, etaMinutes int, now time.Time) error {
	if riderID == "" {
		return errs.NewValueIsRequiredError("rider id")
	}
	if o.riderID != nil && *o.riderID == riderID {
		return errs.NewValueIsInvalidErrorWithCause("rider id",
			fmt.Errorf("order %s is already assigned to rider %s", o.id, riderID))
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}

	note := fmt.Sprintf("Assigned to rider %s", riderID)
	if o.riderID != nil {
		note = fmt.Sprintf("Reassigned from rider %s to rider %s", *o.riderID, riderID)
	}

	o.status = newStatus
	o.riderID = &riderID
	o.etaMinutes = etaMinutes
	o.appendTimeline(newStatus, now, note)
	return nil
}

// PickUp marks the order as collected by its rider.
func (o *Order) PickUp(now time.Time) error {
	newStatus, err := o.status.PickUp()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.appendTimeline(newStatus, now, "Order picked up")
	return nil
}

// StartTransit marks the order as on its way to the drop location.
func (o *Order) StartTransit(now time.Time) error {
	newStatus, err := o.status.StartTransit()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.appendTimeline(newStatus, now, "Order in transit")
	return nil
}

// Deliver marks the order as delivered, setting completedAt and the
// creation-to-delivery duration. Delivered is terminal.
func (o *Order) Deliver(now time.Time) error {
	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.completedAt = &now
	if len(o.timeline) > 0 {
		seconds := int(now.Sub(o.timeline[0].Time).Seconds())
		o.deliveryTimeSeconds = &seconds
	}
	o.appendTimeline(newStatus, now, "Order delivered")
	return nil
}

// Fail moves the order to a terminal failure state (RTO or Returned).
func (o *Order) Fail(target Status, now time.Time, note string) error {
	newStatus, err := o.status.Fail(target)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.appendTimeline(newStatus, now, note)
	return nil
}

// MarkDelayed flags the order as running behind its SLA. The flag overlays
// the lifecycle status, which stays untouched so assignment and fulfillment
// transitions keep applying; the timeline records the moment with a Delayed
// marker entry.
func (o *Order) MarkDelayed(now time.Time, note string) error {
	if o.status.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is terminal and cannot be delayed", o.status))
	}

	o.isDelayed = true
	o.appendTimeline(Delayed, now, note)
	return nil
}

// appendTimeline appends a transition entry, clamping the timestamp so the
// timeline stays non-decreasing by time.
func (o *Order) appendTimeline(status Status, at time.Time, note string) {
	if n := len(o.timeline); n > 0 && at.Before(o.timeline[n-1].Time) {
		at = o.timeline[n-1].Time
	}
	o.timeline = append(o.timeline, TimelineEntry{Status: status, Time: at, Note: note})
}

func (o *Order) setID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("order id")
	}
	o.id = id
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setCustomerName(customerName string) error {
	if customerName == "" {
		return errs.NewValueIsRequiredError("customer name")
	}
	o.customerName = customerName
	return nil
}

func (o *Order) setPickupLocation(pickupLocation string) error {
	if pickupLocation == "" {
		return errs.NewValueIsRequiredError("pickup location")
	}
	o.pickupLocation = pickupLocation
	return nil
}

func (o *Order) setDropLocation(dropLocation string) error {
	if dropLocation == "" {
		return errs.NewValueIsRequiredError("drop location")
	}
	o.dropLocation = dropLocation
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setSlaDeadline(slaDeadline time.Time) error {
	if slaDeadline.IsZero() {
		return errs.NewValueIsRequiredError("sla deadline")
	}
	o.slaDeadline = slaDeadline
	return nil
}
