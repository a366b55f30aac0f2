package queries_test

import (
	"testing"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type readHarness struct {
	order       *order.Order
	stops       []*itinerary.Stop
	graph       *itinerary.Graph
	factory     *MockUnitOfWorkFactory
	orders      *MockOrderRepository
	itineraries *MockItineraryRepository
}

// newReadHarness builds a submitted order with two located stops in one step
// and a pending third stop added after submission.
func newReadHarness(t *testing.T) *readHarness {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), order.Global, nil, nil)
	require.NoError(t, err)
	step, err := itinerary.NewStep(kernel.NewUUID(), o.ID(), 1, itinerary.StableRevision(), baseTime)
	require.NoError(t, err)

	stop := func(seq int, lat, lng float64, rev itinerary.Revision) *itinerary.Stop {
		loc, locErr := kernel.NewLocation(lat, lng)
		require.NoError(t, locErr)
		addr, addrErr := itinerary.NewAddress(kernel.NewUUID(), itinerary.AddressInput{Line1: "Stop", City: "Berlin", Location: &loc})
		require.NoError(t, addrErr)
		s, stopErr := itinerary.NewStop(kernel.NewUUID(), o.ID(), step.ID(), addr, seq, rev, baseTime)
		require.NoError(t, stopErr)
		return s
	}
	a := stop(1, 52.52, 13.40, itinerary.StableRevision())
	b := stop(2, 52.50, 13.45, itinerary.StableRevision())
	c := stop(3, 52.48, 13.30, itinerary.PendingAdditionRevision())

	g, err := itinerary.NewGraph(o.ID(), step, a, b, c)
	require.NoError(t, err)
	require.NoError(t, o.Submit())
	o.MarkPendingChanges()

	h := &readHarness{
		order:       o,
		stops:       []*itinerary.Stop{a, b, c},
		graph:       g,
		factory:     new(MockUnitOfWorkFactory),
		orders:      new(MockOrderRepository),
		itineraries: new(MockItineraryRepository),
	}
	uow := new(MockUnitOfWork)
	h.factory.On("Create").Return(uow)
	uow.On("OrderRepository").Return(h.orders)
	uow.On("ItineraryRepository").Return(h.itineraries)
	h.orders.On("Get", mock.Anything, o.ID()).Return(o, nil)
	h.itineraries.On("Load", mock.Anything, o.ID()).Return(g, nil)
	return h
}
