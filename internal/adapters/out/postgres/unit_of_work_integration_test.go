package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	postgres_adapter "multistop/internal/adapters/out/postgres"
	"multistop/internal/core/domain/model/assignment"
	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/core/ports"
	"multistop/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// UnitOfWorkIntegrationTestSuite runs the unit of work against a real
// PostgreSQL, where row locks and unique-key translation behave as in
// production.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30*time.Second)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{Logger: logger.Discard, TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(ctx, db))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, steps, stops, actions, action_proofs, transit_items, " +
		"rejections, missions, driver_documents, company_document_requirements").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

// seedSubmitted stores a submitted order with one stable step and stop.
func (suite *UnitOfWorkIntegrationTestSuite) seedSubmitted() (*order.Order, *itinerary.Stop) {
	ctx := context.Background()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), order.Global, nil, nil)
	suite.Require().NoError(err)
	suite.Require().NoError(o.Submit())

	step, err := itinerary.NewStep(kernel.NewUUID(), o.ID(), 1, itinerary.StableRevision(), baseTime)
	suite.Require().NoError(err)
	addr, err := itinerary.NewAddress(kernel.NewUUID(), itinerary.AddressInput{Line1: "1 Main St", City: "Berlin"})
	suite.Require().NoError(err)
	stop, err := itinerary.NewStop(kernel.NewUUID(), o.ID(), step.ID(), addr, 1, itinerary.StableRevision(), baseTime)
	suite.Require().NoError(err)
	g, err := itinerary.NewGraph(o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(g.Add(step))
	suite.Require().NoError(g.Add(stop))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.ItineraryRepository().Save(ctx, g))
	suite.Require().NoError(uow.Commit(ctx))
	return o, stop
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "a second Begin is a no-op")
	suite.Require().NoError(uow.Commit(ctx))

	suite.ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollbackDiscardsEveryRepository() {
	ctx := context.Background()
	o, _ := suite.seedSubmitted()
	driverID := kernel.NewUUID()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	locked, err := uow.OrderRepository().GetForUpdate(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(locked.PlaceOffer(driverID, baseTime.Add(time.Minute)))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, locked))
	rejection, err := assignment.NewRejection(o.ID(), kernel.NewUUID(), assignment.Refused, baseTime)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.RejectionRepository().Add(ctx, rejection))
	suite.Require().NoError(uow.Rollback(ctx))

	reader := suite.factory.Create()
	got, err := reader.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Nil(got.Offer())
	rejected, err := reader.RejectionRepository().ListDriverIDs(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Empty(rejected)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitIsAtomicAcrossRepositories() {
	ctx := context.Background()
	o, _ := suite.seedSubmitted()
	driverID := kernel.NewUUID()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	locked, err := uow.OrderRepository().GetForUpdate(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(locked.PlaceOffer(driverID, baseTime.Add(time.Minute)))
	suite.Require().NoError(locked.AcceptOffer(driverID, baseTime))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, locked))
	mission, err := assignment.NewMission(kernel.NewUUID(), o.ID(), driverID, baseTime)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.MissionRepository().Upsert(ctx, mission))
	suite.Require().NoError(uow.Commit(ctx))

	reader := suite.factory.Create()
	got, err := reader.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Accepted, got.Status())
	suite.Equal(driverID, *got.DriverID())
	stored, err := reader.MissionRepository().GetByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(mission.ID(), stored.ID())
}

// TestGetForUpdate_SerializesWriters holds the row lock in one transaction
// and checks that a second locker only proceeds after commit and sees the
// committed state.
func (suite *UnitOfWorkIntegrationTestSuite) TestGetForUpdate_SerializesWriters() {
	ctx := context.Background()
	o, _ := suite.seedSubmitted()

	first := suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	locked, err := first.OrderRepository().GetForUpdate(ctx, o.ID())
	suite.Require().NoError(err)

	var (
		wg       sync.WaitGroup
		seen     *order.Order
		seenErr  error
		acquired time.Time
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		second := suite.factory.Create()
		if seenErr = second.Begin(ctx); seenErr != nil {
			return
		}
		defer func() { _ = second.Rollback(ctx) }()
		seen, seenErr = second.OrderRepository().GetForUpdate(ctx, o.ID())
		acquired = time.Now()
	}()

	time.Sleep(200 * time.Millisecond)
	locked.MarkPendingChanges()
	suite.Require().NoError(first.OrderRepository().Update(ctx, locked))
	committed := time.Now()
	suite.Require().NoError(first.Commit(ctx))
	wg.Wait()

	suite.Require().NoError(seenErr)
	suite.False(acquired.Before(committed), "second locker must wait for the first commit")
	suite.True(seen.HasPendingChanges())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConcurrentShadowIsConflict() {
	ctx := context.Background()
	o, stop := suite.seedSubmitted()

	shadowIn := func(uow ports.UnitOfWork) *itinerary.Graph {
		g, err := uow.ItineraryRepository().Load(ctx, o.ID())
		suite.Require().NoError(err)
		original, err := g.Stop(stop.ID())
		suite.Require().NoError(err)
		_, err = g.CreateShadow(original)
		suite.Require().NoError(err)
		return g
	}

	first, second := suite.factory.Create(), suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	suite.Require().NoError(second.Begin(ctx))
	firstGraph, secondGraph := shadowIn(first), shadowIn(second)
	suite.Require().NoError(first.ItineraryRepository().Save(ctx, firstGraph))

	done := make(chan error, 1)
	go func() { done <- second.ItineraryRepository().Save(ctx, secondGraph) }()
	time.Sleep(100 * time.Millisecond)
	suite.Require().NoError(first.Commit(ctx))

	err := <-done
	_ = second.Rollback(ctx)
	suite.ErrorIs(err, errs.ErrConcurrencyConflict)

	g, err := suite.factory.Create().ItineraryRepository().Load(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Len(g.Shadows(), 1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestReadsWithoutTransaction() {
	ctx := context.Background()
	o, stop := suite.seedSubmitted()
	uow := suite.factory.Create()

	owner, err := uow.ItineraryRepository().OwnerOf(ctx, itinerary.StopKind, stop.ID())
	suite.Require().NoError(err)
	suite.Equal(o.ID(), owner)

	ids, err := uow.OrderRepository().ListUnoffered(ctx, 10)
	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{o.ID()}, ids)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	testcontainers.SkipIfProviderIsNotHealthy(t)
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
