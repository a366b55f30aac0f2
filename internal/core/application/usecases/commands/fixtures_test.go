package commands_test

import (
	"testing"
	"time"

	"multistop/internal/core/application/usecases/commands"
	"multistop/internal/core/domain/model/driver"
	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/core/domain/services"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return baseTime }

type orderFixture struct {
	order  *order.Order
	step   *itinerary.Step
	stop   *itinerary.Stop
	item   *itinerary.TransitItem
	pickup *itinerary.Action
	graph  *itinerary.Graph
}

// newOrderFixture builds a GLOBAL order with one stop at "1 Main St", Berlin,
// holding a pickup of 5 "Alpha".
func newOrderFixture(t *testing.T, submitted bool) orderFixture {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), order.Global, nil, nil)
	require.NoError(t, err)

	step, err := itinerary.NewStep(kernel.NewUUID(), o.ID(), 1, itinerary.StableRevision(), baseTime)
	require.NoError(t, err)
	addr, err := itinerary.NewAddress(kernel.NewUUID(),
		itinerary.AddressInput{Line1: "1 Main St", City: "Berlin", Location: location(t, 52.52, 13.405)})
	require.NoError(t, err)
	stop, err := itinerary.NewStop(kernel.NewUUID(), o.ID(), step.ID(), addr, 1, itinerary.StableRevision(), baseTime)
	require.NoError(t, err)
	item, err := itinerary.NewTransitItem(kernel.NewUUID(), o.ID(),
		itinerary.TransitItemSpec{Name: "Alpha"}, itinerary.StableRevision(), baseTime)
	require.NoError(t, err)
	itemID := item.ID()
	pickup, err := itinerary.NewAction(kernel.NewUUID(), o.ID(), stop.ID(),
		itinerary.ActionSpec{Type: itinerary.Pickup, TransitItemID: &itemID, Quantity: 5},
		itinerary.StableRevision(), baseTime)
	require.NoError(t, err)
	g, err := itinerary.NewGraph(o.ID(), step, stop, item, pickup)
	require.NoError(t, err)

	if submitted {
		require.NoError(t, o.Submit())
	}
	return orderFixture{order: o, step: step, stop: stop, item: item, pickup: pickup, graph: g}
}

func location(t *testing.T, lat, lng float64) *kernel.Location {
	t.Helper()
	loc, err := kernel.NewLocation(lat, lng)
	require.NoError(t, err)
	return &loc
}

func availableDriver(t *testing.T, loc *kernel.Location, idleSince time.Time) *driver.State {
	t.Helper()
	s, err := driver.RestoreState(kernel.NewUUID(), nil, driver.Available, loc, idleSince, nil, nil, idleSince)
	require.NoError(t, err)
	return s
}

func intPtr(v int) *int { return &v }

type offerHarness struct {
	orderFixture
	uow        *MockUoW
	factory    *MockUoWFactory
	orders     *MockOrderRepository
	itinerary  *MockItineraryRepository
	rejections *MockRejectionRepository
	missions   *MockMissionRepository
	store      *MockDriverStateStore
	notifier   *MockNotifier
	effects    *commands.SideEffects
	dispatcher *services.OrderDispatcher
}

// newOfferHarness wires mocks around a submitted newOrderFixture. Commit and
// the repository calls are left to each test.
func newOfferHarness(t *testing.T) *offerHarness {
	t.Helper()
	h := &offerHarness{
		orderFixture: newOrderFixture(t, true),
		uow:          new(MockUoW),
		factory:      new(MockUoWFactory),
		orders:       new(MockOrderRepository),
		itinerary:    new(MockItineraryRepository),
		rejections:   new(MockRejectionRepository),
		missions:     new(MockMissionRepository),
		store:        new(MockDriverStateStore),
		notifier:     new(MockNotifier),
	}
	h.factory.On("Create").Return(h.uow)
	h.uow.On("Begin", mock.Anything).Return(nil)
	h.uow.On("Rollback", mock.Anything).Return(nil)
	h.uow.On("OrderRepository").Return(h.orders)
	h.uow.On("ItineraryRepository").Return(h.itinerary)
	h.uow.On("RejectionRepository").Return(h.rejections)
	h.uow.On("MissionRepository").Return(h.missions)
	h.notifier.On("Publish", mock.Anything, mock.Anything).Return(nil)
	h.effects = commands.NewSideEffects(nil, h.notifier, nil)

	var err error
	h.dispatcher, err = services.NewOrderDispatcher(services.NearestFirstSelector{}, 30*time.Second, 0)
	require.NoError(t, err)
	return h
}

func (h *offerHarness) dispatchHandler(t *testing.T) *commands.DispatchOrderCommandHandler {
	t.Helper()
	handler, err := commands.NewDispatchOrderCommandHandler(h.factory, h.dispatcher, h.store, h.effects, fixedClock, nil)
	require.NoError(t, err)
	return handler
}

// offerTo places an offer on the fixture order that expires 30s after baseTime.
func (h *offerHarness) offerTo(t *testing.T, driverID kernel.UUID) {
	t.Helper()
	require.NoError(t, h.order.PlaceOffer(driverID, baseTime.Add(30*time.Second)))
}
