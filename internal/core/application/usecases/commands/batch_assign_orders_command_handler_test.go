package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/core/domain/model/rule"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBatchStack(
	t *testing.T, store *memStore, timeout time.Duration,
) commands.BatchAssignOrdersCommandHandler {
	t.Helper()
	factory := &memUoWFactory{store: store}
	estimator := newTestEstimator(t)
	assigner := commands.NewAssignOrderCommandHandler(
		factory, estimator, commands.NewStripedLocks(0), fixedClock)
	return commands.NewBatchAssignOrdersCommandHandler(
		factory, services.NewRiderScorer(estimator), assigner, timeout, fixedClock)
}

func storePendingOrder(t *testing.T, store *memStore, id string, slaDeadline time.Time) {
	t.Helper()
	store.putOrder(newPendingOrder(t, id, slaDeadline))
}

func TestBatchAssignOrdersCommandHandler_Handle_UrgentOrderWinsScarceCapacity(t *testing.T) {
	store := newMemStore()
	storePendingOrder(t, store, "ORD-9001", testNow.Add(10*time.Minute))
	storePendingOrder(t, store, "ORD-9002", testNow.Add(50*time.Minute))
	store.putRider(newIdleRider(t, "R-1", 0, 1))

	handler := newBatchStack(t, store, 0)
	result, err := handler.Handle(t.Context(),
		commands.NewBatchAssignOrdersCommand([]string{"ORD-9001", "ORD-9002"}))

	require.NoError(t, err)
	require.Len(t, result.Outcomes, 2)
	assert.NotEmpty(t, result.BatchID)

	// The 10-minute order must be attempted first and take the only slot.
	first, second := result.Outcomes[0], result.Outcomes[1]
	assert.Equal(t, "ORD-9001", first.OrderID)
	assert.Equal(t, commands.OutcomeAssigned, first.Status)
	require.NotNil(t, first.RiderID)
	assert.Equal(t, "R-1", *first.RiderID)

	assert.Equal(t, "ORD-9002", second.OrderID)
	assert.Equal(t, commands.OutcomeFailed, second.Status)
	assert.Equal(t, commands.ReasonNoSuitableRider, second.Reason)

	assert.Equal(t, commands.BatchSummary{Assigned: 1, Failed: 1, TotalProcessed: 2}, result.Summary)
}

func TestBatchAssignOrdersCommandHandler_Handle_ProcessesBySlaDeadline(t *testing.T) {
	store := newMemStore()
	deadlines := map[string]time.Time{
		"ORD-9001": testNow.Add(3 * time.Hour),
		"ORD-9002": testNow.Add(15 * time.Minute),
		"ORD-9003": testNow.Add(90 * time.Minute),
		"ORD-9004": testNow.Add(45 * time.Minute),
	}
	for id, deadline := range deadlines {
		storePendingOrder(t, store, id, deadline)
	}
	store.putRider(newIdleRider(t, "R-1", 0, 4))

	handler := newBatchStack(t, store, 0)
	result, err := handler.Handle(t.Context(), commands.NewBatchAssignOrdersCommand(nil))

	require.NoError(t, err)
	require.Len(t, result.Outcomes, 4)
	for i := 1; i < len(result.Outcomes); i++ {
		previous := deadlines[result.Outcomes[i-1].OrderID]
		current := deadlines[result.Outcomes[i].OrderID]
		assert.False(t, current.Before(previous),
			"attempted orders must be non-decreasing by sla deadline")
	}
	assert.Equal(t, 4, result.Summary.Assigned)
}

func TestBatchAssignOrdersCommandHandler_Handle_NoRiders(t *testing.T) {
	store := newMemStore()
	storePendingOrder(t, store, "ORD-9001", testNow.Add(time.Hour))

	handler := newBatchStack(t, store, 0)
	result, err := handler.Handle(t.Context(), commands.NewBatchAssignOrdersCommand(nil))

	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, commands.OutcomeFailed, result.Outcomes[0].Status)
	assert.Equal(t, commands.ReasonNoAvailableRiders, result.Outcomes[0].Reason)
	assert.Equal(t, commands.BatchSummary{Assigned: 0, Failed: 1, TotalProcessed: 1}, result.Summary)
}

func TestBatchAssignOrdersCommandHandler_Handle_SkipsNonPendingTargets(t *testing.T) {
	store := newMemStore()
	storePendingOrder(t, store, "ORD-9001", testNow.Add(time.Hour))
	store.putOrder(newAssignedOrder(t, "ORD-9002", "R-9", testNow.Add(time.Hour)))
	store.putRider(newIdleRider(t, "R-1", 0, 3))

	handler := newBatchStack(t, store, 0)
	result, err := handler.Handle(t.Context(),
		commands.NewBatchAssignOrdersCommand([]string{"ORD-9001", "ORD-9002"}))

	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, "ORD-9001", result.Outcomes[0].OrderID)
}

func TestBatchAssignOrdersCommandHandler_Handle_PartialApplicationSurvives(t *testing.T) {
	store := newMemStore()
	storePendingOrder(t, store, "ORD-9001", testNow.Add(10*time.Minute))
	storePendingOrder(t, store, "ORD-9002", testNow.Add(20*time.Minute))
	storePendingOrder(t, store, "ORD-9003", testNow.Add(30*time.Minute))
	store.putRider(newIdleRider(t, "R-1", 0, 2))

	handler := newBatchStack(t, store, 0)
	result, err := handler.Handle(t.Context(), commands.NewBatchAssignOrdersCommand(nil))

	require.NoError(t, err)
	assert.Equal(t, 2, result.Summary.Assigned)
	assert.Equal(t, 1, result.Summary.Failed)

	// Earlier assignments stay committed even though the pass ends with a failure.
	repo := (&memUoW{store: store}).OrderRepository()
	assigned, err := repo.Get(t.Context(), "ORD-9001")
	require.NoError(t, err)
	assert.Equal(t, order.Assigned, assigned.Status())
}

func TestBatchAssignOrdersCommandHandler_Handle_DeadlineMarksRemainingFailed(t *testing.T) {
	store := newMemStore()
	storePendingOrder(t, store, "ORD-9001", testNow.Add(time.Hour))
	storePendingOrder(t, store, "ORD-9002", testNow.Add(2*time.Hour))
	store.putRider(newIdleRider(t, "R-1", 0, 3))

	handler := newBatchStack(t, store, time.Nanosecond)
	result, err := handler.Handle(t.Context(), commands.NewBatchAssignOrdersCommand(nil))

	require.NoError(t, err)
	require.Len(t, result.Outcomes, 2)
	for _, outcome := range result.Outcomes {
		assert.Equal(t, commands.OutcomeFailed, outcome.Status)
	}
	assert.Equal(t, 2, result.Summary.Failed)

	// The contested rider's capacity is untouched.
	final, err := (&memUoW{store: store}).RiderRepository().Get(t.Context(), "R-1")
	require.NoError(t, err)
	assert.Equal(t, 0, final.Capacity().Current())
	assert.Equal(t, rider.Idle, final.Status())
}

func TestActiveCriteria(t *testing.T) {
	t.Run("falls back to defaults when no rule is active", func(t *testing.T) {
		repo := new(MockRuleRepository)
		inactive := rule.Default()
		repo.On("GetAll", mock.Anything).Return([]*rule.AutoAssignRule{inactive}, nil)

		criteria, err := commands.ActiveCriteria(t.Context(), repo)

		require.NoError(t, err)
		assert.Equal(t, rule.DefaultCriteria(), criteria)
	})

	t.Run("uses the first active rule", func(t *testing.T) {
		custom := rule.DefaultCriteria()
		custom.DistanceWeight = 5
		active, err := rule.NewAutoAssignRule("night-shift", "Night shift", true, custom, "ops", testNow)
		require.NoError(t, err)

		repo := new(MockRuleRepository)
		repo.On("GetAll", mock.Anything).Return([]*rule.AutoAssignRule{rule.Default(), active}, nil)

		criteria, err := commands.ActiveCriteria(t.Context(), repo)

		require.NoError(t, err)
		assert.Equal(t, custom, criteria)
	})
}
