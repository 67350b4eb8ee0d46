package queries

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// OrderAssignmentDetailsQueryHandler assembles the assignment view of one
// order from the order and rider aggregates.
type OrderAssignmentDetailsQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	now        func() time.Time
}

// NewOrderAssignmentDetailsQueryHandler creates a handler for assignment
// detail queries. A nil now falls back to time.Now.
func NewOrderAssignmentDetailsQueryHandler(
	uowFactory ports.UnitOfWorkFactory,
	now func() time.Time,
) OrderAssignmentDetailsQueryHandler {
	if now == nil {
		now = time.Now
	}
	return OrderAssignmentDetailsQueryHandler{uowFactory: uowFactory, now: now}
}

// Handle fetches the order and, when assigned, its rider. A rider that has
// disappeared from storage leaves the rider section empty instead of failing
// the whole view.
func (h OrderAssignmentDetailsQueryHandler) Handle(
	ctx context.Context,
	query OrderAssignmentDetailsQuery,
) (OrderAssignmentDetailsResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderAssignmentDetailsResponse{}, err
	}

	uow := h.uowFactory.Create()

	ord, err := uow.OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return OrderAssignmentDetailsResponse{}, err
	}

	timeline := ord.Timeline()
	entries := make([]TimelineEntryResponse, 0, len(timeline))
	for _, entry := range timeline {
		entries = append(entries, TimelineEntryResponse{
			Status: entry.Status.String(),
			Time:   entry.Time,
			Note:   entry.Note,
		})
	}

	response := OrderAssignmentDetailsResponse{
		ID:             ord.ID(),
		Status:         ord.Status().String(),
		Priority:       services.ClassifyPriority(ord.SlaDeadline(), h.now()).String(),
		CustomerName:   ord.CustomerName(),
		PickupLocation: ord.PickupLocation(),
		DropLocation:   ord.DropLocation(),
		Zone:           ord.Zone(),
		EtaMinutes:     ord.EtaMinutes(),
		SlaDeadline:    ord.SlaDeadline(),
		Timeline:       entries,
	}

	if riderID := ord.RiderID(); riderID != nil {
		r, riderErr := uow.RiderRepository().Get(ctx, *riderID)
		if riderErr != nil {
			if !errors.Is(riderErr, errs.ErrObjectNotFound) {
				return OrderAssignmentDetailsResponse{}, riderErr
			}
		} else {
			response.Rider = &AssignedRiderResponse{
				ID:          r.ID(),
				Name:        r.Name(),
				Status:      r.Status().String(),
				CurrentLoad: r.Capacity().Current(),
				MaxLoad:     r.Capacity().Max(),
				Rating:      r.Rating(),
				Zone:        r.Zone(),
			}
		}
	}

	return response, nil
}
