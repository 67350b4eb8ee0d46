package rider

import (
	"errors"

	"dispatch/internal/pkg/errs"
)

// ErrCapacityExceeded is returned when an order would push a rider past maxLoad.
var ErrCapacityExceeded = errors.New("rider capacity exceeded")

// Capacity is a value object tracking a rider's concurrent order load.
// Invariant: 0 ≤ current ≤ max, max ≥ 1. The zero value is invalid;
// use NewCapacity.
type Capacity struct {
	current int
	max     int
}

// NewCapacity creates a Capacity enforcing 0 ≤ current ≤ max and max ≥ 1.
func NewCapacity(current, max int) (Capacity, error) {
	if max < 1 {
		return Capacity{}, errs.NewValueIsInvalidError("max load")
	}
	if current < 0 || current > max {
		return Capacity{}, errs.NewValueIsOutOfRangeError("current load", current, 0, max)
	}
	return Capacity{current: current, max: max}, nil
}

// Current returns the number of active orders carried.
func (c Capacity) Current() int {
	return c.current
}

// Max returns the concurrent order-carrying limit.
func (c Capacity) Max() int {
	return c.max
}

// IsFull reports whether the rider has no spare capacity.
func (c Capacity) IsFull() bool {
	return c.current >= c.max
}

// Utilization returns current/max as a fraction in [0, 1].
// Used by the scoring engine's load penalty.
func (c Capacity) Utilization() float64 {
	return float64(c.current) / float64(c.max)
}

// Increment returns a Capacity with one more active order,
// or ErrCapacityExceeded when already full.
func (c Capacity) Increment() (Capacity, error) {
	if c.IsFull() {
		return Capacity{}, ErrCapacityExceeded
	}
	return Capacity{current: c.current + 1, max: c.max}, nil
}

// Decrement returns a Capacity with one fewer active order, flooring at zero.
func (c Capacity) Decrement() Capacity {
	if c.current == 0 {
		return c
	}
	return Capacity{current: c.current - 1, max: c.max}
}
