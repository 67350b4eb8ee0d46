package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/core/domain/model/rule"
	"dispatch/internal/core/domain/services"
)

// batchOrderCap bounds one dispatch pass over the whole pending backlog.
const batchOrderCap = 100

// Per-order failure reasons reported in batch outcomes.
const (
	ReasonNoAvailableRiders = "No available riders"
	ReasonNoSuitableRider   = "No suitable rider found"
	reasonBatchTimeout      = "Batch deadline exceeded"
)

// Outcome statuses of one order within a batch pass.
const (
	OutcomeAssigned = "assigned"
	OutcomeFailed   = "failed"
)

// OrderOutcome is the per-order result of a batch dispatch pass.
type OrderOutcome struct {
	OrderID string
	Status  string
	RiderID *string
	Reason  string
}

// BatchSummary aggregates the outcomes of one batch dispatch pass.
type BatchSummary struct {
	Assigned       int
	Failed         int
	TotalProcessed int
}

// BatchAssignResult is the full report of one batch dispatch pass.
// Partial application is the intended behavior: already-assigned orders are
// never rolled back when later orders fail.
type BatchAssignResult struct {
	BatchID  string
	Outcomes []OrderOutcome
	Summary  BatchSummary
}

// BatchAssignOrdersCommandHandler runs the greedy dispatch pass: orders the
// backlog ascending by SLA deadline (most urgent first), fetches the
// assignable rider working set once, and assigns each order to its
// best-scoring still-available rider.
//
// Capacity consumed by an assignment is mirrored onto the in-memory working
// copy immediately, without re-reading the store, so later orders in the same
// pass cannot overcommit a rider. A single order's failure never aborts the
// pass; it is captured as a failed outcome and the pass continues.
type BatchAssignOrdersCommandHandler struct {
	uowFactory UoWFactory
	scorer     services.RiderScorer
	assigner   AssignOrderCommandHandler
	timeout    time.Duration
	now        func() time.Time
}

// NewBatchAssignOrdersCommandHandler creates a handler for batch dispatch.
// timeout bounds one whole pass; orders left unprocessed at the deadline are
// reported failed.
func NewBatchAssignOrdersCommandHandler(
	uowFactory UoWFactory,
	scorer services.RiderScorer,
	assigner AssignOrderCommandHandler,
	timeout time.Duration,
	now func() time.Time,
) BatchAssignOrdersCommandHandler {
	return BatchAssignOrdersCommandHandler{
		uowFactory: uowFactory,
		scorer:     scorer,
		assigner:   assigner,
		timeout:    timeout,
		now:        now,
	}
}

// Handle runs one batch dispatch pass and returns the per-order outcomes
// plus summary counts. The returned error covers only failures to run the
// pass at all (selection reads, transaction setup); per-order assignment
// failures are reported in the result.
func (h BatchAssignOrdersCommandHandler) Handle(
	ctx context.Context,
	cmd BatchAssignOrdersCommand,
) (BatchAssignResult, error) {
	if err := cmd.Validate(); err != nil {
		return BatchAssignResult{}, err
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	orders, riders, criteria, err := h.loadWorkingSet(ctx, cmd)
	if err != nil {
		return BatchAssignResult{}, err
	}

	result := BatchAssignResult{
		BatchID:  uuid.NewString(),
		Outcomes: make([]OrderOutcome, 0, len(orders)),
	}

	for _, ord := range orders {
		outcome := h.dispatchOne(ctx, ord, riders, criteria)
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Status == OutcomeAssigned {
			result.Summary.Assigned++
		} else {
			result.Summary.Failed++
		}
		result.Summary.TotalProcessed++
	}

	return result, nil
}

// loadWorkingSet reads the target orders, the assignable rider working set
// and the active rule criteria in one read-only transaction.
func (h BatchAssignOrdersCommandHandler) loadWorkingSet(
	ctx context.Context,
	cmd BatchAssignOrdersCommand,
) ([]*order.Order, []*rider.Rider, rule.Criteria, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, rule.Criteria{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var (
		orders []*order.Order
		err    error
	)
	if ids := cmd.OrderIDs(); len(ids) > 0 {
		orders, err = uow.OrderRepository().GetPendingByIDs(ctx, ids)
	} else {
		orders, err = uow.OrderRepository().GetPending(ctx, batchOrderCap)
	}
	if err != nil {
		return nil, nil, rule.Criteria{}, err
	}

	riders, err := uow.RiderRepository().GetAssignable(ctx, "")
	if err != nil {
		return nil, nil, rule.Criteria{}, err
	}

	criteria, err := ActiveCriteria(ctx, uow.RuleRepository())
	if err != nil {
		return nil, nil, rule.Criteria{}, err
	}

	return orders, riders, criteria, nil
}

// dispatchOne assigns one order to its best-scoring available rider from the
// working set and mirrors the consumed capacity onto the working copy.
func (h BatchAssignOrdersCommandHandler) dispatchOne(
	ctx context.Context,
	ord *order.Order,
	riders []*rider.Rider,
	criteria rule.Criteria,
) OrderOutcome {
	if ctx.Err() != nil {
		return OrderOutcome{OrderID: ord.ID(), Status: OutcomeFailed, Reason: reasonBatchTimeout}
	}
	if len(riders) == 0 {
		return OrderOutcome{OrderID: ord.ID(), Status: OutcomeFailed, Reason: ReasonNoAvailableRiders}
	}

	best := h.selectRider(ctx, ord, riders, criteria)
	if best == nil {
		return OrderOutcome{OrderID: ord.ID(), Status: OutcomeFailed, Reason: ReasonNoSuitableRider}
	}

	cmd, err := NewAssignOrderCommand(ord.ID(), best.ID(), true)
	if err != nil {
		return OrderOutcome{OrderID: ord.ID(), Status: OutcomeFailed, Reason: err.Error()}
	}
	if err = h.assigner.Handle(ctx, cmd); err != nil {
		return OrderOutcome{OrderID: ord.ID(), Status: OutcomeFailed, Reason: err.Error()}
	}

	// In-batch bookkeeping: consume the slot on the working copy so later
	// orders in this pass see the reduced capacity without a store re-read.
	_ = best.AcceptOrder(ord.ID())

	riderID := best.ID()
	return OrderOutcome{OrderID: ord.ID(), Status: OutcomeAssigned, RiderID: &riderID}
}

// selectRider scores every rider from the working set that can still accept
// an order and returns the highest-scoring one. Ties are broken by encounter
// order (first seen wins). Returns nil when no rider qualifies.
func (h BatchAssignOrdersCommandHandler) selectRider(
	ctx context.Context,
	ord *order.Order,
	riders []*rider.Rider,
	criteria rule.Criteria,
) *rider.Rider {
	var (
		best      *rider.Rider
		bestScore float64
	)
	now := h.now()

	for _, candidate := range riders {
		if candidate.CanAcceptOrder() != nil {
			continue
		}

		breakdown, err := h.scorer.Score(ctx, candidate, ord, criteria, now)
		if err != nil {
			continue
		}
		if best == nil || breakdown.Score > bestScore {
			best = candidate
			bestScore = breakdown.Score
		}
	}

	return best
}

// ActiveCriteria returns the criteria of the first active persisted rule,
// falling back to the built-in defaults when no rule is active.
func ActiveCriteria(ctx context.Context, repo RuleReader) (rule.Criteria, error) {
	rules, err := repo.GetAll(ctx)
	if err != nil {
		return rule.Criteria{}, err
	}
	for _, r := range rules {
		if r.IsActive() {
			return r.Criteria(), nil
		}
	}
	return rule.DefaultCriteria(), nil
}

// RuleReader is the read side of the rule repository needed to resolve the
// active scoring criteria.
type RuleReader interface {
	GetAll(ctx context.Context) ([]*rule.AutoAssignRule, error)
}
