package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	httpadapter "multistop/internal/adapters/in/http"
	"multistop/internal/adapters/out/maps"
	"multistop/internal/adapters/out/postgres"
	"multistop/internal/adapters/out/postgres/compliancerepo"
	"multistop/internal/adapters/out/redis/driverstore"
	"multistop/internal/adapters/out/redis/eventbus"
	"multistop/internal/adapters/out/redis/routecache"
	"multistop/internal/core/application/usecases/commands"
	"multistop/internal/core/application/usecases/queries"
	"multistop/internal/core/domain/services"
	"multistop/internal/jobs"
)

// CompositionRoot owns the adapters shared by every use case. Handlers are
// built on demand by the Create methods.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	store      *driverstore.Store
	routes     *routecache.Cache
	effects    *commands.SideEffects
	session    *commands.EditSession
	engine     services.MergeEngine
	dispatch   *commands.DispatchOrderCommandHandler
	clock      commands.Clock
	logger     *slog.Logger
}

// NewCompositionRoot builds the Redis adapters and the shared edit session.
// It fails when redisClient is nil.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	redisClient *redis.Client,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	store, err := driverstore.NewStore(redisClient)
	if err != nil {
		return nil, err
	}
	routes, err := routecache.NewCache(redisClient, config.RouteCacheTTL)
	if err != nil {
		return nil, err
	}
	publisher, err := eventbus.NewPublisher(redisClient)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		store:      store,
		routes:     routes,
		engine:     services.NewMergeEngine(),
		clock:      time.Now,
		logger:     logger,
	}
	c.effects = commands.NewSideEffects(routes, publisher, logger)

	resolver := services.NewShadowResolver(services.NewSubtreeCloner(nil))
	if c.session, err = commands.NewEditSession(
		c.orderUoWFactory(), resolver, c.effects, config.EditRetryAttempts, c.clock, logger,
	); err != nil {
		return nil, fmt.Errorf("edit session: %w", err)
	}

	dispatcher, err := services.NewOrderDispatcher(services.NearestFirstSelector{}, config.OfferWindow, config.DispatchRadiusKm)
	if err != nil {
		return nil, fmt.Errorf("dispatcher: %w", err)
	}
	if c.dispatch, err = commands.NewDispatchOrderCommandHandler(
		c.assignmentUoWFactory(), dispatcher, store, c.effects, c.clock, logger,
	); err != nil {
		return nil, fmt.Errorf("dispatch handler: %w", err)
	}
	return c, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) assignmentUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateSubmitOrderCommandHandler() (*commands.SubmitOrderCommandHandler, error) {
	return commands.NewSubmitOrderCommandHandler(c.orderUoWFactory(), c.engine, c.effects, c.dispatch, c.clock, c.logger)
}

func (c *CompositionRoot) CreateAcceptMissionCommandHandler() (*commands.AcceptMissionCommandHandler, error) {
	compliance, err := compliancerepo.NewGormComplianceChecker(c.gormDB, c.config.RequiredDocuments, c.clock)
	if err != nil {
		return nil, err
	}
	return commands.NewAcceptMissionCommandHandler(c.assignmentUoWFactory(), compliance, c.store, c.effects, c.clock)
}

func (c *CompositionRoot) CreateRefuseMissionCommandHandler() (*commands.RefuseMissionCommandHandler, error) {
	return commands.NewRefuseMissionCommandHandler(c.assignmentUoWFactory(), c.store, c.dispatch, c.effects, c.clock, c.logger)
}

func (c *CompositionRoot) CreateSweepOffersCommandHandler() (*commands.SweepOffersCommandHandler, error) {
	return commands.NewSweepOffersCommandHandler(c.assignmentUoWFactory(), c.store, c.dispatch, c.effects, c.logger)
}

func (c *CompositionRoot) CreateReconcileDriversCommandHandler() (*commands.ReconcileDriversCommandHandler, error) {
	return commands.NewReconcileDriversCommandHandler(c.orderUoWFactory(), c.store, c.clock, c.logger)
}

func (c *CompositionRoot) CreateGetRouteQueryHandler() (queries.GetRouteQueryHandler, error) {
	solver, err := maps.NewRouteSolver(c.config.GoogleMapsAPIKey)
	if err != nil {
		return queries.GetRouteQueryHandler{}, err
	}
	return queries.NewGetRouteQueryHandler(c.uowFactory, solver, c.routes, c.clock, c.logger)
}

// CreateHTTPHandlers wires every use case served by the HTTP API.
func (c *CompositionRoot) CreateHTTPHandlers() (httpadapter.Handlers, error) {
	submit, err := c.CreateSubmitOrderCommandHandler()
	if err != nil {
		return httpadapter.Handlers{}, err
	}
	accept, err := c.CreateAcceptMissionCommandHandler()
	if err != nil {
		return httpadapter.Handlers{}, err
	}
	refuse, err := c.CreateRefuseMissionCommandHandler()
	if err != nil {
		return httpadapter.Handlers{}, err
	}
	presence, err := commands.NewUpdateDriverPresenceCommandHandler(c.store, c.clock)
	if err != nil {
		return httpadapter.Handlers{}, err
	}
	getRoute, err := c.CreateGetRouteQueryHandler()
	if err != nil {
		return httpadapter.Handlers{}, err
	}

	return httpadapter.Handlers{
		CreateOrder:       c.CreateCreateOrderCommandHandler(),
		SubmitOrder:       submit,
		PushUpdates:       commands.NewPushUpdatesCommandHandler(c.session, c.engine),
		RevertPending:     commands.NewRevertPendingChangesCommandHandler(c.session, c.engine),
		AddStep:           commands.NewAddStepCommandHandler(c.session),
		UpdateStep:        commands.NewUpdateStepCommandHandler(c.session),
		AddStop:           commands.NewAddStopCommandHandler(c.session),
		UpdateStop:        commands.NewUpdateStopCommandHandler(c.session),
		AddAction:         commands.NewAddActionCommandHandler(c.session),
		UpdateAction:      commands.NewUpdateActionCommandHandler(c.session),
		AddTransitItem:    commands.NewAddTransitItemCommandHandler(c.session),
		UpdateTransitItem: commands.NewUpdateTransitItemCommandHandler(c.session),
		Remove:            commands.NewRemoveCommandHandler(c.session),
		Dispatch:          c.dispatch,
		AcceptMission:     accept,
		RefuseMission:     refuse,
		UpdatePresence:    presence,
		GetOrderView:      queries.NewGetOrderViewQueryHandler(c.uowFactory),
		GetRoute:          getRoute,
		GetOpenOrders:     queries.NewGetOpenOrdersQueryHandler(c.gormDB),
		GetDriverMissions: queries.NewGetDriverMissionsQueryHandler(c.gormDB),
	}, nil
}

func (c *CompositionRoot) CreateOfferExpiryJob() (*jobs.OfferExpiryJob, error) {
	handler, err := c.CreateSweepOffersCommandHandler()
	if err != nil {
		return nil, err
	}
	return jobs.NewOfferExpiryJob(handler, c.config.OfferSweepSchedule, c.config.OfferSweepLimit, c.clock, c.logger), nil
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	sweep, err := c.CreateOfferExpiryJob()
	if err != nil {
		return nil, err
	}
	reconcile, err := c.CreateReconcileDriversCommandHandler()
	if err != nil {
		return nil, err
	}
	return jobs.NewJobManager(
		sweep,
		jobs.NewDriverReconciliationJob(reconcile, c.config.ReconcileSchedule, c.config.ReconcileStaleAfter, c.logger),
	), nil
}

// FuncOrderUoWFactory adapts a function to commands.OrderUoWFactory.
type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

// FuncUoWFactory adapts a function to commands.UoWFactory.
type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
