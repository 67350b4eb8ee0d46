package cmd

import (
	"context"
	"log/slog"
	"os"
	"time"

	dispatchhttp "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/geo"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rule"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"gorm.io/gorm"
)

const defaultBatchAssignTimeout = time.Minute

// CompositionRoot wires every adapter, domain service and use case handler of
// the application from one Config and one database handle.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	estimator  services.DistanceEstimator
	scorer     services.RiderScorer
	locks      *commands.StripedLocks
	logger     *slog.Logger

	defaultWarehouse string
	batchTimeout     time.Duration
	autoAssignCron   string
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) (*CompositionRoot, error) {
	base, err := kernel.NewLocation(config.WarehouseLat, config.WarehouseLng)
	if err != nil {
		return nil, err
	}

	resolver, err := geo.NewStaticResolver(base, map[string]kernel.Location{
		config.DefaultWarehouseAddress: base,
	})
	if err != nil {
		return nil, err
	}

	batchTimeout := defaultBatchAssignTimeout
	if config.BatchAssignTimeout != "" {
		batchTimeout, err = time.ParseDuration(config.BatchAssignTimeout)
		if err != nil {
			return nil, err
		}
	}

	estimator := services.NewDistanceEstimator(resolver)

	return &CompositionRoot{
		gormDB:           gormDB,
		uowFactory:       postgres.NewGormUnitOfWorkFactory(gormDB),
		estimator:        estimator,
		scorer:           services.NewRiderScorer(estimator),
		locks:            commands.NewStripedLocks(0),
		logger:           slog.New(slog.NewJSONHandler(os.Stdout, nil)),
		defaultWarehouse: config.DefaultWarehouseAddress,
		batchTimeout:     batchTimeout,
		autoAssignCron:   config.AutoAssignCron,
	}, nil
}

func (c *CompositionRoot) CreateAssignOrderCommandHandler() commands.AssignOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignOrderCommandHandler(f, c.estimator, c.locks, time.Now)
}

func (c *CompositionRoot) CreateBatchAssignOrdersCommandHandler() commands.BatchAssignOrdersCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewBatchAssignOrdersCommandHandler(
		f,
		c.scorer,
		c.CreateAssignOrderCommandHandler(),
		c.batchTimeout,
		time.Now,
	)
}

func (c *CompositionRoot) CreateCreateManualOrderCommandHandler() commands.CreateManualOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateManualOrderCommandHandler(
		f,
		c.CreateAssignOrderCommandHandler(),
		c.defaultWarehouse,
		time.Now,
		c.logger,
	)
}

func (c *CompositionRoot) CreateUpsertAutoAssignRuleCommandHandler() commands.UpsertAutoAssignRuleCommandHandler {
	var f commands.RuleUoWFactory = FuncRuleUoWFactory(func() commands.RuleUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpsertAutoAssignRuleCommandHandler(f, time.Now)
}

func (c *CompositionRoot) CreateListUnassignedOrdersQueryHandler() queries.ListUnassignedOrdersQueryHandler {
	return queries.NewListUnassignedOrdersQueryHandler(c.gormDB, time.Now)
}

func (c *CompositionRoot) CreateUnassignedOrdersCountQueryHandler() queries.UnassignedOrdersCountQueryHandler {
	return queries.NewUnassignedOrdersCountQueryHandler(c.gormDB, time.Now)
}

func (c *CompositionRoot) CreateMapRidersQueryHandler() queries.MapRidersQueryHandler {
	return queries.NewMapRidersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateMapOrdersQueryHandler() queries.MapOrdersQueryHandler {
	return queries.NewMapOrdersQueryHandler(c.gormDB, c.estimator)
}

func (c *CompositionRoot) CreateRecommendedRidersQueryHandler() queries.RecommendedRidersQueryHandler {
	return queries.NewRecommendedRidersQueryHandler(c.uowFactory, c.scorer, time.Now)
}

func (c *CompositionRoot) CreateOrderAssignmentDetailsQueryHandler() queries.OrderAssignmentDetailsQueryHandler {
	return queries.NewOrderAssignmentDetailsQueryHandler(c.uowFactory, time.Now)
}

func (c *CompositionRoot) CreateAutoAssignRulesQueryHandler() queries.AutoAssignRulesQueryHandler {
	return queries.NewAutoAssignRulesQueryHandler(c.uowFactory)
}

// CreateServer assembles the HTTP adapter over all command and query handlers.
func (c *CompositionRoot) CreateServer() *dispatchhttp.Server {
	return dispatchhttp.NewServer(
		c.CreateAssignOrderCommandHandler(),
		c.CreateBatchAssignOrdersCommandHandler(),
		c.CreateCreateManualOrderCommandHandler(),
		c.CreateUpsertAutoAssignRuleCommandHandler(),
		c.CreateListUnassignedOrdersQueryHandler(),
		c.CreateUnassignedOrdersCountQueryHandler(),
		c.CreateMapRidersQueryHandler(),
		c.CreateMapOrdersQueryHandler(),
		c.CreateRecommendedRidersQueryHandler(),
		c.CreateOrderAssignmentDetailsQueryHandler(),
		c.CreateAutoAssignRulesQueryHandler(),
	)
}

// CreateJobManager assembles the background jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	autoAssign := jobs.NewAutoAssignJob(
		c.CreateBatchAssignOrdersCommandHandler(),
		uowRuleReader{factory: c.uowFactory},
		c.autoAssignCron,
		c.logger,
	)
	return jobs.NewJobManager(autoAssign)
}

// uowRuleReader reads rules outside of any command transaction.
type uowRuleReader struct {
	factory ports.UnitOfWorkFactory
}

func (r uowRuleReader) GetAll(ctx context.Context) ([]*rule.AutoAssignRule, error) {
	return r.factory.Create().RuleRepository().GetAll(ctx)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncRuleUoWFactory func() commands.RuleUoW

func (f FuncRuleUoWFactory) Create() commands.RuleUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
