package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	postgres_adapter "dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/riderrepo"
	"dispatch/internal/adapters/out/postgres/rulerepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/core/domain/model/rule"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite exercises the GORM-based unit of work and
// repositories against a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite initializes PostgreSQL container and database connection for all tests.
// Runs database migrations to prepare schema for unit of work operations.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	// Connect to database
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Run migrations
	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &riderrepo.RiderDTO{}, &rulerepo.RuleDTO{})
	suite.Require().NoError(err)

	// Create factory
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest ensures clean database state before each test.
// Truncates all tables to prevent test interference.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, riders, auto_assign_rules").Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up PostgreSQL container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// TestUnitOfWorkFactory_Create verifies factory creates unit of work instances
// with proper initialization and isolation between instances.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	suite.NotNil(uow1.OrderRepository(), "First instance should provide order repository")
	suite.NotNil(uow1.RiderRepository(), "First instance should provide rider repository")
	suite.NotNil(uow1.RuleRepository(), "First instance should provide rule repository")
	suite.NotNil(uow2.OrderRepository(), "Second instance should provide order repository")
}

// TestUnitOfWork_TransactionLifecycle verifies proper transaction management
// including begin, commit, and rollback operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err, "Should begin transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Multiple begin calls should be safe")

	err = uow.Commit(ctx)
	suite.Require().NoError(err, "Should commit transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err, "Should rollback transaction successfully")
}

// TestUnitOfWork_TransactionErrors verifies error handling for invalid transaction operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

// TestUnitOfWork_AssignmentTransaction verifies the order and rider sides of
// an assignment commit atomically within one transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_AssignmentTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := suite.createTestOrder("ORD-9001")
	testRider := suite.createTestRider("R-1")

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	err = uow.RiderRepository().Add(ctx, testRider)
	suite.Require().NoError(err)

	// Bind both sides of the assignment within the same transaction.
	err = testOrder.Assign(testRider.ID(), 15, time.Now().UTC())
	suite.Require().NoError(err)
	err = uow.OrderRepository().Update(ctx, testOrder)
	suite.Require().NoError(err)

	err = testRider.AcceptOrder(testOrder.ID())
	suite.Require().NoError(err)
	err = uow.RiderRepository().Update(ctx, testRider)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Verify both sides persisted consistently.
	newUow := suite.factory.Create()

	retrievedOrder, err := newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Assigned, retrievedOrder.Status())
	suite.Require().NotNil(retrievedOrder.RiderID())
	suite.Equal(testRider.ID(), *retrievedOrder.RiderID())
	suite.Equal(15, retrievedOrder.EtaMinutes())

	retrievedRider, err := newUow.RiderRepository().Get(ctx, testRider.ID())
	suite.Require().NoError(err)
	suite.Equal(rider.Busy, retrievedRider.Status())
	suite.Equal(1, retrievedRider.Capacity().Current())
	suite.Require().NotNil(retrievedRider.CurrentOrderID())
	suite.Equal(testOrder.ID(), *retrievedRider.CurrentOrderID())
}

// TestUnitOfWork_TransactionRollback verifies rollback discards all changes
// made within the transaction across multiple repositories.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := suite.createTestOrder("ORD-9001")
	testRider := suite.createTestRider("R-1")

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	err = uow.RiderRepository().Add(ctx, testRider)
	suite.Require().NoError(err)

	// Entities are visible within the transaction
	_, err = uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	_, err = uow.RiderRepository().Get(ctx, testRider.ID())
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	// Neither entity survives the rollback
	newUow := suite.factory.Create()

	_, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err, "Order should not exist after rollback")

	_, err = newUow.RiderRepository().Get(ctx, testRider.ID())
	suite.Require().Error(err, "Rider should not exist after rollback")
}

// TestUnitOfWork_RepositoryIsolation verifies that repositories obtained
// from different unit of work instances operate independently.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()

	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	order1 := suite.createTestOrder("ORD-9001")
	order2 := suite.createTestOrder("ORD-9002")

	err := uow1.Begin(ctx)
	suite.Require().NoError(err)

	err = uow2.Begin(ctx)
	suite.Require().NoError(err)

	err = uow1.OrderRepository().Add(ctx, order1)
	suite.Require().NoError(err)

	err = uow2.OrderRepository().Add(ctx, order2)
	suite.Require().NoError(err)

	// Each transaction should only see its own changes
	_, err = uow1.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "UOW1 should see order1")

	_, err = uow1.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "UOW1 should not see order2")

	_, err = uow2.OrderRepository().Get(ctx, order2.ID())
	suite.Require().NoError(err, "UOW2 should see order2")

	err = uow1.Commit(ctx)
	suite.Require().NoError(err)

	err = uow2.Rollback(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	_, err = newUow.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "Order1 should persist after commit")

	_, err = newUow.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "Order2 should not persist after rollback")
}

// TestUnitOfWork_WithoutTransaction verifies that repositories work correctly
// without explicit transaction boundaries for immediate operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := suite.createTestOrder("ORD-9001")

	err := uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	retrievedOrder, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrievedOrder.ID())
}

// TestOrderRepository_Sequence verifies ORD- id generation continues from the
// highest existing numeric suffix.
func (suite *UnitOfWorkIntegrationTestSuite) TestOrderRepository_Sequence() {
	ctx := context.Background()
	uow := suite.factory.Create()
	repo := uow.OrderRepository()

	id, err := repo.NextOrderID(ctx)
	suite.Require().NoError(err)
	suite.Equal("ORD-9001", id, "Empty table should start the sequence at the base")

	err = repo.Add(ctx, suite.createTestOrder("ORD-9005"))
	suite.Require().NoError(err)

	id, err = repo.NextOrderID(ctx)
	suite.Require().NoError(err)
	suite.Equal("ORD-9006", id, "Sequence should continue past the highest suffix")
}

// TestOrderRepository_GetPending verifies the pending backlog comes back
// sorted ascending by SLA deadline and honors the cap.
func (suite *UnitOfWorkIntegrationTestSuite) TestOrderRepository_GetPending() {
	ctx := context.Background()
	uow := suite.factory.Create()
	repo := uow.OrderRepository()

	now := time.Now().UTC().Truncate(time.Second)
	deadlines := map[string]time.Time{
		"ORD-9001": now.Add(50 * time.Minute),
		"ORD-9002": now.Add(10 * time.Minute),
		"ORD-9003": now.Add(30 * time.Minute),
	}
	for id, deadline := range deadlines {
		testOrder, err := order.NewOrder(id, "Test Customer", "Central Warehouse",
			fmt.Sprintf("Drop for %s", id), nil,
			[]order.Item{{Name: "Parcel", Quantity: 1}}, deadline, now)
		suite.Require().NoError(err)
		suite.Require().NoError(repo.Add(ctx, testOrder))
	}

	// Assigned orders drop out of the backlog.
	assigned := suite.createTestOrder("ORD-9004")
	suite.Require().NoError(assigned.Assign("R-9", 5, now))
	suite.Require().NoError(repo.Add(ctx, assigned))

	pending, err := repo.GetPending(ctx, 100)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 3)
	suite.Equal("ORD-9002", pending[0].ID())
	suite.Equal("ORD-9003", pending[1].ID())
	suite.Equal("ORD-9001", pending[2].ID())

	capped, err := repo.GetPending(ctx, 2)
	suite.Require().NoError(err)
	suite.Require().Len(capped, 2)
	suite.Equal("ORD-9002", capped[0].ID())

	subset, err := repo.GetPendingByIDs(ctx, []string{"ORD-9001", "ORD-9004", "ORD-9999"})
	suite.Require().NoError(err)
	suite.Require().Len(subset, 1, "Non-pending and unknown ids should be dropped")
	suite.Equal("ORD-9001", subset[0].ID())
}

// TestRiderRepository_GetAssignable verifies status, capacity and search
// filtering of the assignable rider set.
func (suite *UnitOfWorkIntegrationTestSuite) TestRiderRepository_GetAssignable() {
	ctx := context.Background()
	uow := suite.factory.Create()
	repo := uow.RiderRepository()

	idle := suite.createTestRider("R-1")
	suite.Require().NoError(repo.Add(ctx, idle))

	offline, err := rider.NewRider("R-2", "Offline Rider", rider.Offline, nil,
		suite.capacity(0, 3), 10, 4.0, nil)
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Add(ctx, offline))

	full, err := rider.NewRider("R-3", "Full Rider", rider.Busy, nil,
		suite.capacity(3, 3), 10, 4.0, nil)
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Add(ctx, full))

	assignable, err := repo.GetAssignable(ctx, "")
	suite.Require().NoError(err)
	suite.Require().Len(assignable, 1, "Offline and full riders should be excluded")
	suite.Equal("R-1", assignable[0].ID())

	matched, err := repo.GetAssignable(ctx, "test")
	suite.Require().NoError(err)
	suite.Require().Len(matched, 1, "Search should match rider name case-insensitively")

	unmatched, err := repo.GetAssignable(ctx, "nobody")
	suite.Require().NoError(err)
	suite.Empty(unmatched)
}

// TestRuleRepository_Upsert verifies save-by-id semantics: insert on first
// write, overwrite on the second, createdBy untouched.
func (suite *UnitOfWorkIntegrationTestSuite) TestRuleRepository_Upsert() {
	ctx := context.Background()
	uow := suite.factory.Create()
	repo := uow.RuleRepository()

	now := time.Now().UTC().Truncate(time.Second)
	original, err := rule.NewAutoAssignRule("peak-hours", "Peak hours", true,
		rule.DefaultCriteria(), "ops", now)
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Save(ctx, original))

	criteria := rule.DefaultCriteria()
	criteria.DistanceWeight = 4
	criteria.PreferSameZone = false
	updated, err := rule.NewAutoAssignRule("peak-hours", "Peak hours v2", false,
		criteria, "someone-else", now.Add(time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Save(ctx, updated))

	stored, err := repo.Get(ctx, "peak-hours")
	suite.Require().NoError(err)
	suite.Equal("Peak hours v2", stored.Name())
	suite.False(stored.IsActive())
	suite.InDelta(4.0, stored.Criteria().DistanceWeight, 0.001)
	suite.False(stored.Criteria().PreferSameZone)
	suite.Equal("ops", stored.CreatedBy(), "Upsert should not overwrite createdBy")

	all, err := repo.GetAll(ctx)
	suite.Require().NoError(err)
	suite.Len(all, 1)
}

// createTestOrder creates a valid pending order for testing purposes.
func (suite *UnitOfWorkIntegrationTestSuite) createTestOrder(id string) *order.Order {
	now := time.Now().UTC().Truncate(time.Second)
	testOrder, err := order.NewOrder(id, "Test Customer", "Central Warehouse",
		"12 Test Street", nil, []order.Item{{Name: "Parcel", Quantity: 1}},
		now.Add(time.Hour), now)
	suite.Require().NoError(err)
	return testOrder
}

// createTestRider creates a valid idle rider for testing purposes.
func (suite *UnitOfWorkIntegrationTestSuite) createTestRider(id string) *rider.Rider {
	location, err := kernel.NewLocation(12.9716, 77.5946)
	suite.Require().NoError(err)

	testRider, err := rider.NewRider(id, "Test Rider", rider.Idle, &location,
		suite.capacity(0, 3), 10, 4.5, nil)
	suite.Require().NoError(err)
	return testRider
}

func (suite *UnitOfWorkIntegrationTestSuite) capacity(current, maxLoad int) rider.Capacity {
	capacity, err := rider.NewCapacity(current, maxLoad)
	suite.Require().NoError(err)
	return capacity
}

// TestUnitOfWorkIntegrationSuite runs the integration test suite.
// Skipped in short mode since it requires Docker for the PostgreSQL container.
func TestUnitOfWorkIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
