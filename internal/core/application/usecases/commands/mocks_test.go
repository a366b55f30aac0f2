package commands_test

import (
	"context"
	"time"

	"multistop/internal/core/application/usecases/commands"
	"multistop/internal/core/domain/model/assignment"
	"multistop/internal/core/domain/model/driver"
	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/core/domain/model/route"
	"multistop/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListExpiredOffers(ctx context.Context, now time.Time, limit int) ([]kernel.UUID, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockOrderRepository) ListUnoffered(ctx context.Context, limit int) ([]kernel.UUID, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

type MockItineraryRepository struct{ mock.Mock }

func (m *MockItineraryRepository) Load(ctx context.Context, orderID kernel.UUID) (*itinerary.Graph, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*itinerary.Graph), args.Error(1)
}

func (m *MockItineraryRepository) Save(ctx context.Context, g *itinerary.Graph) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockItineraryRepository) OwnerOf(ctx context.Context, kind itinerary.Kind, id kernel.UUID) (kernel.UUID, error) {
	args := m.Called(ctx, kind, id)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

type MockRejectionRepository struct{ mock.Mock }

func (m *MockRejectionRepository) Add(ctx context.Context, r assignment.Rejection) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRejectionRepository) ListDriverIDs(ctx context.Context, orderID kernel.UUID) ([]kernel.UUID, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockRejectionRepository) DeleteForOrder(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type MockMissionRepository struct{ mock.Mock }

func (m *MockMissionRepository) Upsert(ctx context.Context, mission *assignment.Mission) error {
	args := m.Called(ctx, mission)
	return args.Error(0)
}

func (m *MockMissionRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*assignment.Mission, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Mission), args.Error(1)
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

func (m *MockUoW) ItineraryRepository() ports.ItineraryRepository {
	args := m.Called()
	return args.Get(0).(ports.ItineraryRepository)
}

func (m *MockUoW) RejectionRepository() ports.RejectionRepository {
	args := m.Called()
	return args.Get(0).(ports.RejectionRepository)
}

func (m *MockUoW) MissionRepository() ports.MissionRepository {
	args := m.Called()
	return args.Get(0).(ports.MissionRepository)
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

type MockDriverStateStore struct{ mock.Mock }

func (m *MockDriverStateStore) Get(ctx context.Context, driverID kernel.UUID) (*driver.State, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.State), args.Error(1)
}

func (m *MockDriverStateStore) Save(ctx context.Context, state *driver.State) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockDriverStateStore) ListAvailable(ctx context.Context) ([]*driver.State, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.State), args.Error(1)
}

func (m *MockDriverStateStore) ListOffering(ctx context.Context) ([]*driver.State, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.State), args.Error(1)
}

func (m *MockDriverStateStore) Reserve(ctx context.Context, driverID, orderID kernel.UUID, now time.Time) error {
	args := m.Called(ctx, driverID, orderID, now)
	return args.Error(0)
}

func (m *MockDriverStateStore) Release(ctx context.Context, driverID, orderID kernel.UUID, now time.Time) (bool, error) {
	args := m.Called(ctx, driverID, orderID, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockDriverStateStore) Assign(ctx context.Context, driverID, orderID kernel.UUID, now time.Time) error {
	args := m.Called(ctx, driverID, orderID, now)
	return args.Error(0)
}

type MockComplianceChecker struct{ mock.Mock }

func (m *MockComplianceChecker) MissingDocuments(
	ctx context.Context,
	driverID kernel.UUID,
	companyID *kernel.UUID,
) ([]string, error) {
	args := m.Called(ctx, driverID, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
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

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Publish(ctx context.Context, event order.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockDispatchTrigger struct{ mock.Mock }

func (m *MockDispatchTrigger) Handle(ctx context.Context, cmd commands.DispatchOrderCommand) (commands.DispatchResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.DispatchResult), args.Error(1)
}
