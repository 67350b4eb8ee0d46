package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrSlaViolation is returned when the projected pickup time lands after
	// the order's SLA deadline and the command does not override the check.
	ErrSlaViolation = errors.New("projected pickup exceeds the order sla deadline")

	// ErrAssignmentPersistence is returned when persisting the (order, rider)
	// pair fails. The transaction is rolled back, so no half-committed pair
	// is ever left behind.
	ErrAssignmentPersistence = errors.New("failed to persist assignment")
)

// AssignOrderCommandHandler executes the order-to-rider binding.
//
// Handle performs, in order: precondition checks (order assignable, rider
// available with spare capacity), previous-rider release on reassignment,
// the SLA feasibility check, and the commit of both aggregates inside one
// unit of work.
//
// Concurrency: the handler serializes on the stripes of the order and of
// every rider it is about to mutate, so two concurrent assignments cannot
// both pass the same rider's capacity check before either commits. The
// database transaction in turn guarantees the order and rider writes land
// together or not at all.
type AssignOrderCommandHandler struct {
	uowFactory UoWFactory
	estimator  services.DistanceEstimator
	locks      *StripedLocks
	now        func() time.Time
}

// NewAssignOrderCommandHandler creates a handler for assignment operations.
// The clock is injected so SLA feasibility checks are deterministic in tests.
func NewAssignOrderCommandHandler(
	uowFactory UoWFactory,
	estimator services.DistanceEstimator,
	locks *StripedLocks,
	now func() time.Time,
) AssignOrderCommandHandler {
	return AssignOrderCommandHandler{
		uowFactory: uowFactory,
		estimator:  estimator,
		locks:      locks,
		now:        now,
	}
}

// Handle processes the assignment command.
//
// Errors: errs.ObjectNotFoundError (order or rider missing),
// errs.ValueIsInvalidError (order not assignable, or already bound to the
// target rider), rider.ErrRiderUnavailable,
// rider.ErrCapacityExceeded, ErrSlaViolation, ErrAssignmentPersistence.
func (h AssignOrderCommandHandler) Handle(ctx context.Context, cmd AssignOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	release, err := h.acquireStripes(ctx, cmd)
	if err != nil {
		return err
	}
	defer release()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	riderRepo := uow.RiderRepository()

	ord, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if err = ord.ValidateAssign(); err != nil {
		return err
	}
	if current := ord.RiderID(); current != nil && *current == cmd.RiderID() {
		return errs.NewValueIsInvalidErrorWithCause("rider id",
			fmt.Errorf("order %s is already assigned to rider %s", ord.ID(), cmd.RiderID()))
	}

	target, err := riderRepo.Get(ctx, cmd.RiderID())
	if err != nil {
		return err
	}
	if err = target.CanAcceptOrder(); err != nil {
		return err
	}

	previous, err := h.releasePreviousRider(ctx, riderRepo, ord.RiderID(), cmd)
	if err != nil {
		return err
	}

	etaMinutes, err := h.pickupEtaMinutes(ctx, target, ord.PickupLocation())
	if err != nil {
		return err
	}

	now := h.now()
	if !cmd.OverrideSLA() && now.Add(time.Duration(etaMinutes)*time.Minute).After(ord.SlaDeadline()) {
		return ErrSlaViolation
	}

	if err = ord.Assign(cmd.RiderID(), etaMinutes, now); err != nil {
		return err
	}
	if err = target.AcceptOrder(cmd.OrderID()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return fmt.Errorf("%w: %w", ErrAssignmentPersistence, err)
	}
	if err = riderRepo.Update(ctx, target); err != nil {
		return fmt.Errorf("%w: %w", ErrAssignmentPersistence, err)
	}
	if previous != nil {
		if err = riderRepo.Update(ctx, previous); err != nil {
			return fmt.Errorf("%w: %w", ErrAssignmentPersistence, err)
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrAssignmentPersistence, err)
	}

	return nil
}

// acquireStripes locks the stripes of the order, the target rider and the
// order's current rider. The current-rider binding is peeked before locking
// and re-read under the lock: a concurrent reassignment landing in between
// would otherwise let the previous rider's release run outside that rider's
// stripe. The acquisition retries until the binding read under the lock
// matches the one the stripes were chosen for.
func (h AssignOrderCommandHandler) acquireStripes(
	ctx context.Context,
	cmd AssignOrderCommand,
) (func(), error) {
	previousRiderID, err := h.previousRiderID(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	for {
		release := h.locks.Acquire(cmd.OrderID(), cmd.RiderID(), previousRiderID)

		confirmed, err := h.previousRiderID(ctx, cmd.OrderID())
		if err != nil {
			release()
			return nil, err
		}
		if confirmed == previousRiderID {
			return release, nil
		}

		release()
		previousRiderID = confirmed
	}
}

// previousRiderID reads the order's current rider binding outside the main
// transaction. Returns "" when the order is unassigned.
func (h AssignOrderCommandHandler) previousRiderID(ctx context.Context, orderID string) (string, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ord, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return "", err
	}
	if id := ord.RiderID(); id != nil {
		return *id, nil
	}
	return "", nil
}

// releasePreviousRider hands one order slot back to the rider the order is
// currently bound to, when that rider differs from the command's target.
// Returns the mutated previous rider, or nil when this is a fresh assignment.
func (h AssignOrderCommandHandler) releasePreviousRider(
	ctx context.Context,
	riderRepo ports.RiderRepository,
	currentRiderID *string,
	cmd AssignOrderCommand,
) (*rider.Rider, error) {
	if currentRiderID == nil || *currentRiderID == cmd.RiderID() {
		return nil, nil
	}

	previous, err := riderRepo.Get(ctx, *currentRiderID)
	if err != nil {
		return nil, err
	}
	if err = previous.ReleaseOrder(cmd.OrderID()); err != nil {
		return nil, err
	}
	return previous, nil
}

// pickupEtaMinutes projects the rider's pickup time for the order. Riders
// without a known position fall back to their historical average.
func (h AssignOrderCommandHandler) pickupEtaMinutes(
	ctx context.Context,
	target *rider.Rider,
	pickupAddress string,
) (int, error) {
	loc := target.Location()
	if loc == nil {
		return target.AvgEtaMins(), nil
	}

	km, err := h.estimator.DistanceToAddressKm(ctx, *loc, pickupAddress)
	if err != nil {
		return 0, err
	}
	return services.EtaMinutes(km), nil
}
