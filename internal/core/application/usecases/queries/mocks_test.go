package queries_test

import (
	"context"
	"time"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/core/domain/model/route"
	"multistop/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
	ports.OrderRepository
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockItineraryRepository struct {
	mock.Mock
	ports.ItineraryRepository
}

func (m *MockItineraryRepository) Load(ctx context.Context, orderID kernel.UUID) (*itinerary.Graph, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*itinerary.Graph), args.Error(1)
}

// MockUnitOfWork serves reads only; transaction methods are not expected.
type MockUnitOfWork struct {
	mock.Mock
	ports.UnitOfWork
}

func (m *MockUnitOfWork) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUnitOfWork) ItineraryRepository() ports.ItineraryRepository {
	args := m.Called()
	return args.Get(0).(ports.ItineraryRepository)
}

type MockUnitOfWorkFactory struct{ mock.Mock }

func (m *MockUnitOfWorkFactory) Create() ports.UnitOfWork {
	args := m.Called()
	return args.Get(0).(ports.UnitOfWork)
}

type MockRouteSolver struct{ mock.Mock }

func (m *MockRouteSolver) Solve(ctx context.Context, waypoints []route.Waypoint) (route.Plan, error) {
	args := m.Called(ctx, waypoints)
	return args.Get(0).(route.Plan), args.Error(1)
}

type MockRouteCache struct{ mock.Mock }

func (m *MockRouteCache) Get(ctx context.Context, orderID kernel.UUID, variant route.Variant) (route.Plan, bool, error) {
	args := m.Called(ctx, orderID, variant)
	return args.Get(0).(route.Plan), args.Bool(1), args.Error(2)
}

func (m *MockRouteCache) Put(ctx context.Context, plan route.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockRouteCache) Invalidate(ctx context.Context, orderID kernel.UUID, variants ...route.Variant) error {
	args := m.Called(ctx, orderID, variants)
	return args.Error(0)
}

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
