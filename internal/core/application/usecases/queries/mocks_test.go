package queries_test

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/core/domain/model/rule"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return testNow
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
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

type MockRiderRepository struct {
	mock.Mock
}

func (m *MockRiderRepository) Add(ctx context.Context, aggregate *rider.Rider) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockRiderRepository) Update(ctx context.Context, aggregate *rider.Rider) error {
	args := m.Called(ctx, aggregate)
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

type MockRuleRepository struct {
	mock.Mock
}

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

func (m *MockRuleRepository) Save(ctx context.Context, aggregate *rule.AutoAssignRule) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

// stubUoW wires the mocks into a read-only unit of work. Queries never open
// transactions, so Begin/Commit/Rollback are inert.
type stubUoW struct {
	orders *MockOrderRepository
	riders *MockRiderRepository
	rules  *MockRuleRepository
}

func (u *stubUoW) Begin(context.Context) error    { return nil }
func (u *stubUoW) Commit(context.Context) error   { return nil }
func (u *stubUoW) Rollback(context.Context) error { return nil }

func (u *stubUoW) OrderRepository() ports.OrderRepository { return u.orders }
func (u *stubUoW) RiderRepository() ports.RiderRepository { return u.riders }
func (u *stubUoW) RuleRepository() ports.RuleRepository   { return u.rules }

type stubUoWFactory struct {
	uow *stubUoW
}

func (f *stubUoWFactory) Create() ports.UnitOfWork { return f.uow }

func newStubStack() (*stubUoWFactory, *MockOrderRepository, *MockRiderRepository, *MockRuleRepository) {
	orders := new(MockOrderRepository)
	riders := new(MockRiderRepository)
	rules := new(MockRuleRepository)
	factory := &stubUoWFactory{uow: &stubUoW{orders: orders, riders: riders, rules: rules}}
	return factory, orders, riders, rules
}

// staticResolver maps known addresses to fixed coordinates and falls back to
// the origin for anything else.
type staticResolver struct {
	origin    kernel.Location
	locations map[string]kernel.Location
}

func (r staticResolver) Resolve(_ context.Context, address string) (kernel.Location, error) {
	if location, ok := r.locations[address]; ok {
		return location, nil
	}
	return r.origin, nil
}

func newTestEstimator() services.DistanceEstimator {
	origin, _ := kernel.NewLocation(12.9716, 77.5946)
	return services.NewDistanceEstimator(staticResolver{
		origin:    origin,
		locations: map[string]kernel.Location{"Central Warehouse": origin},
	})
}

func strPtr(s string) *string {
	return &s
}
