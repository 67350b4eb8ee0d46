package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/order"
)

// SLA windows fixed by order type, measured from creation time.
const (
	expressSlaWindow  = 30 * time.Minute
	standardSlaWindow = 60 * time.Minute
)

// CreateManualOrderCommandHandler handles manually entered order intake.
// Creates the order in pending status with a type-driven SLA deadline and,
// when a rider is named, attempts an immediate assignment whose failure is
// logged but never fails the creation.
type CreateManualOrderCommandHandler struct {
	uowFactory       OrderUoWFactory
	assigner         AssignOrderCommandHandler
	defaultWarehouse string
	now              func() time.Time
	log              *slog.Logger
}

// NewCreateManualOrderCommandHandler creates a handler for order intake.
// defaultWarehouse is the pickup address substituted when the payload omits
// one.
func NewCreateManualOrderCommandHandler(
	uowFactory OrderUoWFactory,
	assigner AssignOrderCommandHandler,
	defaultWarehouse string,
	now func() time.Time,
	log *slog.Logger,
) CreateManualOrderCommandHandler {
	return CreateManualOrderCommandHandler{
		uowFactory:       uowFactory,
		assigner:         assigner,
		defaultWarehouse: defaultWarehouse,
		now:              now,
		log:              log.With("component", "order_intake"),
	}
}

// Handle creates the order and returns its generated id.
//
// The id comes from the sequential ORD- sequence (highest existing numeric
// suffix incremented). A named rider triggers an immediate assignment with
// the SLA check bypassed; if that assignment fails the order stays pending
// and the failure is only logged.
func (h CreateManualOrderCommandHandler) Handle(
	ctx context.Context,
	cmd CreateManualOrderCommand,
) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	pickup := cmd.PickupLocation()
	if pickup == "" {
		pickup = h.defaultWarehouse
	}

	now := h.now()
	slaWindow := standardSlaWindow
	if cmd.OrderType() == OrderTypeExpress {
		slaWindow = expressSlaWindow
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	orderID, err := orderRepo.NextOrderID(ctx)
	if err != nil {
		return "", err
	}

	ord, err := order.NewOrder(
		orderID,
		cmd.CustomerName(),
		pickup,
		cmd.DropLocation(),
		cmd.Zone(),
		cmd.Items(),
		now.Add(slaWindow),
		now,
	)
	if err != nil {
		return "", err
	}

	if err = orderRepo.Add(ctx, ord); err != nil {
		return "", err
	}
	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	if riderID := cmd.RiderID(); riderID != nil {
		h.tryImmediateAssign(ctx, orderID, *riderID)
	}

	return orderID, nil
}

// tryImmediateAssign attempts to bind the freshly created order to the named
// rider, bypassing the SLA check. Failure leaves the order pending.
func (h CreateManualOrderCommandHandler) tryImmediateAssign(ctx context.Context, orderID, riderID string) {
	assignCmd, err := NewAssignOrderCommand(orderID, riderID, true)
	if err != nil {
		h.log.WarnContext(ctx, "immediate assignment rejected",
			"order_id", orderID, "rider_id", riderID, "error", err)
		return
	}

	if err = h.assigner.Handle(ctx, assignCmd); err != nil {
		h.log.WarnContext(ctx, "immediate assignment failed, order left pending",
			"order_id", orderID, "rider_id", riderID, "error", err)
	}
}
