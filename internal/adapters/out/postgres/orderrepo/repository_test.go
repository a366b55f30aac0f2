package orderrepo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"multistop/internal/adapters/out/postgres/orderrepo"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// OrderRepositoryTestSuite runs the repository against an in-memory SQLite
// database; the locking clause is exercised against PostgreSQL by the unit
// of work suite.
type OrderRepositoryTestSuite struct {
	suite.Suite
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryTestSuite) SetupTest() {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	suite.Require().NoError(err)
	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))

	suite.db = db
	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = orderrepo.NewGormOrderRepository(db, suite.tracker)
}

func (suite *OrderRepositoryTestSuite) TearDownTest() {
	if sqlDB, err := suite.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (suite *OrderRepositoryTestSuite) newOrder(mode order.AssignmentMode) *order.Order {
	var companyID, targetID *kernel.UUID
	switch mode {
	case order.Internal:
		id := kernel.NewUUID()
		companyID = &id
	case order.Target:
		id := kernel.NewUUID()
		targetID = &id
	}
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), mode, companyID, targetID)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryTestSuite) addSubmitted() *order.Order {
	o := suite.newOrder(order.Global)
	suite.Require().NoError(o.Submit())
	suite.Require().NoError(suite.repository.Add(context.Background(), o))
	return o
}

func (suite *OrderRepositoryTestSuite) TestAdd_TracksAggregate() {
	o := suite.newOrder(order.Internal)

	suite.Require().NoError(suite.repository.Add(context.Background(), o))

	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", o.ID(), o)
	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Equal(int64(1), count)
}

func (suite *OrderRepositoryTestSuite) TestAdd_RejectsZeroValue() {
	err := suite.repository.Add(context.Background(), &order.Order{})

	suite.ErrorIs(err, order.ErrOrderIsNotConstructed)
	suite.tracker.AssertNotCalled(suite.T(), "TrackAggregate", mock.Anything, mock.Anything)
}

func (suite *OrderRepositoryTestSuite) TestGet_RoundTripsEveryColumn() {
	for _, mode := range []order.AssignmentMode{order.Global, order.Internal, order.Target} {
		suite.Run(mode.String(), func() {
			o := suite.newOrder(mode)
			suite.Require().NoError(suite.repository.Add(context.Background(), o))

			got, err := suite.repository.Get(context.Background(), o.ID())

			suite.Require().NoError(err)
			suite.Equal(o.ID(), got.ID())
			suite.Equal(o.ClientID(), got.ClientID())
			suite.Equal(order.Draft, got.Status())
			suite.Equal(mode, got.AssignmentMode())
			suite.Equal(o.CompanyID(), got.CompanyID())
			suite.Equal(o.TargetDriverID(), got.TargetDriverID())
			suite.Nil(got.Offer())
		})
	}
}

func (suite *OrderRepositoryTestSuite) TestGet_NotFound() {
	got, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Nil(got)
	var notFound *errs.ObjectNotFoundError
	suite.ErrorAs(err, &notFound)
}

func (suite *OrderRepositoryTestSuite) TestGet_InvalidID() {
	_, err := suite.repository.Get(context.Background(), kernel.UUID{})

	suite.ErrorIs(err, kernel.ErrUUIDIsNotConstructed)
}

func (suite *OrderRepositoryTestSuite) TestUpdate_PersistsAndClearsOffer() {
	ctx := context.Background()
	o := suite.addSubmitted()
	driverID := kernel.NewUUID()
	suite.Require().NoError(o.PlaceOffer(driverID, baseTime.Add(30*time.Second)))
	o.MarkPendingChanges()

	suite.Require().NoError(suite.repository.Update(ctx, o))

	got, err := suite.repository.GetForUpdate(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(got.Offer())
	suite.Equal(driverID, got.Offer().DriverID())
	suite.True(baseTime.Add(30*time.Second).Equal(got.Offer().ExpiresAt()))
	suite.True(got.HasPendingChanges())

	suite.Require().NoError(got.RefuseOffer(driverID))
	got.ClearPendingChanges()
	suite.Require().NoError(suite.repository.Update(ctx, got))

	again, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Nil(again.Offer())
	suite.False(again.HasPendingChanges())
}

func (suite *OrderRepositoryTestSuite) TestUpdate_NonExistentOrder() {
	err := suite.repository.Update(context.Background(), suite.newOrder(order.Global))

	var notFound *errs.ObjectNotFoundError
	suite.ErrorAs(err, &notFound)
}

func (suite *OrderRepositoryTestSuite) TestListExpiredOffers_OldestFirst() {
	ctx := context.Background()
	late := suite.addSubmitted()
	early := suite.addSubmitted()
	future := suite.addSubmitted()
	suite.addSubmitted()
	suite.Require().NoError(late.PlaceOffer(kernel.NewUUID(), baseTime.Add(-time.Second)))
	suite.Require().NoError(early.PlaceOffer(kernel.NewUUID(), baseTime.Add(-time.Minute)))
	suite.Require().NoError(future.PlaceOffer(kernel.NewUUID(), baseTime.Add(time.Minute)))
	for _, o := range []*order.Order{late, early, future} {
		suite.Require().NoError(suite.repository.Update(ctx, o))
	}

	ids, err := suite.repository.ListExpiredOffers(ctx, baseTime, 10)

	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{early.ID(), late.ID()}, ids)

	ids, err = suite.repository.ListExpiredOffers(ctx, baseTime, 1)
	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{early.ID()}, ids)
}

func (suite *OrderRepositoryTestSuite) TestListUnoffered_SkipsDraftsAndOffered() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newOrder(order.Global)))
	offered := suite.addSubmitted()
	suite.Require().NoError(offered.PlaceOffer(kernel.NewUUID(), baseTime))
	suite.Require().NoError(suite.repository.Update(ctx, offered))
	waiting := suite.addSubmitted()

	ids, err := suite.repository.ListUnoffered(ctx, 10)

	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{waiting.ID()}, ids)
}

func (suite *OrderRepositoryTestSuite) TestList_RejectsNonPositiveLimit() {
	_, err := suite.repository.ListUnoffered(context.Background(), 0)
	suite.ErrorIs(err, errs.ErrValueIsOutOfRange)

	_, err = suite.repository.ListExpiredOffers(context.Background(), baseTime, -1)
	suite.ErrorIs(err, errs.ErrValueIsOutOfRange)
}

func TestOrderRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryTestSuite))
}
