package rider

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const (
	// RatingMin is the lowest possible rider rating.
	RatingMin = 0.0
	// RatingMax is the highest possible rider rating.
	RatingMax = 5.0
)

var (
	// ErrRiderIsNotConstructed is returned when using an improperly initialized Rider.
	ErrRiderIsNotConstructed = errors.New("Rider must be created via NewRider constructor")
	// ErrRiderUnavailable is returned when a rider's status forbids assignment.
	ErrRiderUnavailable = errors.New("rider is not available for assignment")
)

// Rider represents a delivery rider. It is an aggregate root managing the
// rider's availability status, capacity and current assignment bookkeeping.
//
// Key responsibilities:
//   - Accepting orders within capacity limits (AcceptOrder)
//   - Releasing orders on reassignment (ReleaseOrder)
//   - Enforcing the status machine offline ⇄ online/idle ⇄ busy
//
// Riders are created and brought on/off shift by an out-of-scope onboarding
// module; capacity, status and currentOrderID are mutated exclusively through
// this aggregate by the assignment executor.
type Rider struct {
	id             string
	name           string
	status         Status
	location       *kernel.Location
	capacity       Capacity
	avgEtaMins     int
	rating         float64
	zone           *string
	currentOrderID *string

	isConstructed bool
}

// NewRider creates a Rider with the given attributes.
//
// Parameters:
//   - id: unique rider identifier (non-empty)
//   - name: human-readable name (non-empty)
//   - status: one of offline/online/idle/busy
//   - location: last known position, nil when unknown
//   - capacity: validated current/max load pair
//   - avgEtaMins: historical average pickup ETA in minutes
//   - rating: rider rating in [0, 5]
//   - zone: optional home zone label
func NewRider(
	id string,
	name string,
	status Status,
	location *kernel.Location,
	capacity Capacity,
	avgEtaMins int,
	rating float64,
	zone *string,
) (*Rider, error) {
	r := &Rider{
		isConstructed: true,
	}

	if err := errors.Join(
		r.setID(id),
		r.setName(name),
		r.setStatus(status),
		r.setLocation(location),
		r.setRating(rating),
	); err != nil {
		return nil, err
	}

	r.capacity = capacity
	r.avgEtaMins = avgEtaMins
	r.zone = zone
	return r, nil
}

// RestoreRider reconstructs a Rider aggregate from persistent storage,
// including its current assignment pointer.
func RestoreRider(
	id string,
	name string,
	status Status,
	location *kernel.Location,
	capacity Capacity,
	avgEtaMins int,
	rating float64,
	zone *string,
	currentOrderID *string,
) (*Rider, error) {
	r, err := NewRider(id, name, status, location, capacity, avgEtaMins, rating, zone)
	if err != nil {
		return nil, err
	}

	r.currentOrderID = currentOrderID
	return r, nil
}

// Validate ensures the Rider was created through a factory method.
func (r *Rider) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRiderIsNotConstructed
	}
	return nil
}

// IsEqual compares two riders by their unique identifiers.
func (r *Rider) IsEqual(other *Rider) bool {
	return other != nil && r.id == other.id
}

// ID returns the rider's unique identifier.
func (r *Rider) ID() string {
	return r.id
}

// Name returns the rider's name.
func (r *Rider) Name() string {
	return r.name
}

// Status returns the rider's availability status.
func (r *Rider) Status() Status {
	return r.status
}

// Location returns the rider's last known position, or nil if unknown.
func (r *Rider) Location() *kernel.Location {
	return r.location
}

// Capacity returns the rider's load bookkeeping.
func (r *Rider) Capacity() Capacity {
	return r.capacity
}

// AvgEtaMins returns the rider's historical average pickup ETA in minutes.
func (r *Rider) AvgEtaMins() int {
	return r.avgEtaMins
}

// Rating returns the rider's rating in [0, 5].
func (r *Rider) Rating() float64 {
	return r.rating
}

// Zone returns the rider's home zone label, or nil.
func (r *Rider) Zone() *string {
	return r.zone
}

// CurrentOrderID returns the most recently accepted order's ID, or nil.
// Not necessarily unique to one order when load > 1.
func (r *Rider) CurrentOrderID() *string {
	return r.currentOrderID
}

// CanAcceptOrder checks availability without mutating state.
// A rider is available when status ∈ {online, idle}, or busy with spare
// capacity. Returns ErrRiderUnavailable or ErrCapacityExceeded otherwise.
func (r *Rider) CanAcceptOrder() error {
	if !r.status.IsReady() && r.status != Busy {
		return ErrRiderUnavailable
	}
	if r.capacity.IsFull() {
		return ErrCapacityExceeded
	}
	return nil
}

// AcceptOrder commits one order slot to the rider.
//
// State changes:
//   - currentLoad incremented by 1 (never past maxLoad)
//   - status promoted to busy when it was idle/online; an already-busy
//     rider's status is left untouched
//   - currentOrderID set to the accepted order
func (r *Rider) AcceptOrder(orderID string) error {
	if orderID == "" {
		return errs.NewValueIsRequiredError("order id")
	}
	if err := r.CanAcceptOrder(); err != nil {
		return err
	}

	capacity, err := r.capacity.Increment()
	if err != nil {
		return err
	}

	r.capacity = capacity
	if r.status.IsReady() {
		r.status = Busy
	}
	r.currentOrderID = &orderID
	return nil
}

// ReleaseOrder gives back one order slot, used when an order is reassigned
// away from this rider.
//
// State changes:
//   - currentLoad decremented by 1, flooring at 0
//   - currentOrderID cleared when it matches the released order
//   - status demoted from busy to idle when no active orders remain
func (r *Rider) ReleaseOrder(orderID string) error {
	if orderID == "" {
		return errs.NewValueIsRequiredError("order id")
	}

	r.capacity = r.capacity.Decrement()
	if r.currentOrderID != nil && *r.currentOrderID == orderID {
		r.currentOrderID = nil
	}
	if r.capacity.Current() == 0 && r.status == Busy {
		r.status = Idle
	}
	return nil
}

func (r *Rider) setID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("rider id")
	}
	r.id = id
	return nil
}

func (r *Rider) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	r.name = name
	return nil
}

func (r *Rider) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	r.status = status
	return nil
}

func (r *Rider) setLocation(location *kernel.Location) error {
	if location != nil {
		if err := location.Validate(); err != nil {
			return err
		}
	}
	r.location = location
	return nil
}

func (r *Rider) setRating(rating float64) error {
	if rating < RatingMin || rating > RatingMax {
		return errs.NewValueIsOutOfRangeError("rating", rating, RatingMin, RatingMax)
	}
	r.rating = rating
	return nil
}
