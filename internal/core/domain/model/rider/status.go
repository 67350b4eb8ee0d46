package rider

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the availability state of a rider.
//
// State transitions:
//
//	offline ⇄ online/idle ⇄ busy
//
// busy requires currentLoad ≥ 1; the transition back to idle requires
// currentLoad == 0 with no other active orders. Riders are created and
// toggled offline/online by the out-of-scope onboarding module; only the
// assignment executor moves riders between idle/online and busy.
type Status string

const (
	// Offline riders are unreachable and never assignable.
	Offline Status = "offline"
	// Online riders are on shift and ready for assignments.
	Online Status = "online"
	// Idle riders are on shift with no active orders.
	Idle Status = "idle"
	// Busy riders carry at least one active order. They remain assignable
	// while they have spare capacity.
	Busy Status = "busy"
)

func getValidStatuses() map[Status]struct{} {
	return map[Status]struct{}{
		Offline: {},
		Online:  {},
		Idle:    {},
		Busy:    {},
	}
}

// Validate checks if the Status value is one of the defined statuses.
func (s Status) Validate() error {
	if _, ok := getValidStatuses()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%q is not a valid rider status", string(s)))
	}
	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// IsReady reports whether the rider is free to take a first order
// (online or idle, no capacity considerations).
func (s Status) IsReady() bool {
	return s == Online || s == Idle
}
