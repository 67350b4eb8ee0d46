package commands_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/core/domain/model/rule"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func strPtr(s string) *string { return &s }

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetPending(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetPendingByIDs(ctx context.Context, ids []string) ([]*order.Order, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) NextOrderID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockRiderRepository struct{ mock.Mock }

func (m *MockRiderRepository) Add(ctx context.Context, r *rider.Rider) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRiderRepository) Update(ctx context.Context, r *rider.Rider) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRiderRepository) Get(ctx context.Context, id string) (*rider.Rider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rider.Rider), args.Error(1)
}

func (m *MockRiderRepository) GetAssignable(ctx context.Context, search string) ([]*rider.Rider, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rider.Rider), args.Error(1)
}

type MockRuleRepository struct{ mock.Mock }

func (m *MockRuleRepository) GetAll(ctx context.Context) ([]*rule.AutoAssignRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rule.AutoAssignRule), args.Error(1)
}

func (m *MockRuleRepository) Get(ctx context.Context, id string) (*rule.AutoAssignRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rule.AutoAssignRule), args.Error(1)
}

func (m *MockRuleRepository) Save(ctx context.Context, r *rule.AutoAssignRule) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) RiderRepository() ports.RiderRepository {
	args := m.Called()
	return args.Get(0).(ports.RiderRepository)
}

func (m *MockUoW) RuleRepository() ports.RuleRepository {
	args := m.Called()
	return args.Get(0).(ports.RuleRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockRuleUoWFactory struct{ mock.Mock }

func (m *MockRuleUoWFactory) Create() commands.RuleUoW {
	args := m.Called()
	return args.Get(0).(commands.RuleUoW)
}

// staticResolver resolves every address onto a fixed coordinate table,
// falling back to its origin for unknown addresses so handler tests do not
// have to register every fixture address.
type staticResolver struct {
	origin    kernel.Location
	locations map[string]kernel.Location
}

func (s *staticResolver) Resolve(_ context.Context, address string) (kernel.Location, error) {
	if loc, ok := s.locations[address]; ok {
		return loc, nil
	}
	return s.origin, nil
}

func newTestEstimator(t *testing.T) services.DistanceEstimator {
	t.Helper()
	origin, err := kernel.NewLocation(12.9716, 77.5946)
	require.NoError(t, err)
	return services.NewDistanceEstimator(&staticResolver{
		origin: origin,
		locations: map[string]kernel.Location{
			"Central Warehouse": origin,
		},
	})
}

func newPendingOrder(t *testing.T, id string, slaDeadline time.Time) *order.Order {
	t.Helper()
	o, err := order.NewOrder(id, "Jane", "Central Warehouse", "5 Main St", nil,
		[]order.Item{{Name: "Widget", Quantity: 1}}, slaDeadline, testNow.Add(-time.Minute))
	require.NoError(t, err)
	return o
}

func newIdleRider(t *testing.T, id string, current, max int) *rider.Rider {
	t.Helper()
	capacity, err := rider.NewCapacity(current, max)
	require.NoError(t, err)
	r, err := rider.NewRider(id, "Asha", rider.Idle, nil, capacity, 5, 4.5, nil)
	require.NoError(t, err)
	return r
}
