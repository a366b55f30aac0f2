package services_test

import (
	"fmt"
	"testing"
	"time"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/core/domain/services"

	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type orderFixture struct {
	order  *order.Order
	step   *itinerary.Step
	stop   *itinerary.Stop
	item   *itinerary.TransitItem
	pickup *itinerary.Action
	graph  *itinerary.Graph
}

// newDraftOrder builds a draft order with one step, one stop at "1 Main St"
// and a pickup of 5 "Alpha" there.
func newDraftOrder(t *testing.T) orderFixture {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), order.Global, nil, nil)
	require.NoError(t, err)

	step, err := itinerary.NewStep(kernel.NewUUID(), o.ID(), 1, itinerary.StableRevision(), baseTime)
	require.NoError(t, err)

	loc, err := kernel.NewLocation(52.52, 13.405)
	require.NoError(t, err)
	addr, err := itinerary.NewAddress(kernel.NewUUID(),
		itinerary.AddressInput{Line1: "1 Main St", City: "Berlin", Location: &loc})
	require.NoError(t, err)
	stop, err := itinerary.NewStop(kernel.NewUUID(), o.ID(), step.ID(), addr, 1, itinerary.StableRevision(), baseTime)
	require.NoError(t, err)

	item, err := itinerary.NewTransitItem(kernel.NewUUID(), o.ID(),
		itinerary.TransitItemSpec{Name: "Alpha", WeightKg: 2}, itinerary.StableRevision(), baseTime)
	require.NoError(t, err)

	itemID := item.ID()
	pickup, err := itinerary.NewAction(kernel.NewUUID(), o.ID(), stop.ID(),
		itinerary.ActionSpec{Type: itinerary.Pickup, TransitItemID: &itemID, Quantity: 5},
		itinerary.StableRevision(), baseTime)
	require.NoError(t, err)

	g, err := itinerary.NewGraph(o.ID(), step, stop, item, pickup)
	require.NoError(t, err)

	return orderFixture{order: o, step: step, stop: stop, item: item, pickup: pickup, graph: g}
}

// newSubmittedOrder is newDraftOrder after submit.
func newSubmittedOrder(t *testing.T) orderFixture {
	t.Helper()
	f := newDraftOrder(t)
	require.NoError(t, f.order.Submit())
	return f
}

func (f orderFixture) addDelivery(t *testing.T, resolver services.ShadowResolver, parent itinerary.Node) *itinerary.Action {
	t.Helper()
	stopID, err := resolver.ResolveAnchor(f.graph, parent)
	require.NoError(t, err)
	itemID := f.item.ID()
	delivery, err := itinerary.NewAction(kernel.NewUUID(), f.order.ID(), stopID,
		itinerary.ActionSpec{Type: itinerary.Delivery, TransitItemID: &itemID, Quantity: 5},
		resolver.NewRevision(f.order), baseTime.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, f.graph.Add(delivery))
	return delivery
}

// snapshot captures the content of every row so two graph states can be compared.
func snapshot(g *itinerary.Graph) map[kernel.UUID]string {
	rows := make(map[kernel.UUID]string)
	for _, n := range g.All() {
		rows[n.ID()] = describe(n)
	}
	return rows
}

func describe(n itinerary.Node) string {
	rev := n.Revision()
	head := fmt.Sprintf("%s pending=%t delete=%t", n.Kind(), rev.IsPendingChange(), rev.IsDeleteRequired())
	switch v := n.(type) {
	case *itinerary.Step:
		return fmt.Sprintf("%s seq=%d status=%s", head, v.Sequence(), v.Status())
	case *itinerary.Stop:
		return fmt.Sprintf("%s step=%s seq=%d status=%s addr=%s/%+v",
			head, v.StepID(), v.Sequence(), v.Status(), v.Address().ID(), v.Address().Content())
	case *itinerary.Action:
		return fmt.Sprintf("%s stop=%s type=%s item=%v qty=%d status=%s proofs=%d",
			head, v.StopID(), v.Type(), v.TransitItemID(), v.Quantity(), v.Status(), len(v.Proofs()))
	case *itinerary.TransitItem:
		return fmt.Sprintf("%s name=%s weight=%.2f", head, v.Name(), v.WeightKg())
	default:
		return head
	}
}
