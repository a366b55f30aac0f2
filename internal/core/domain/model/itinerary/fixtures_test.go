package itinerary_test

import (
	"testing"
	"time"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	orderID kernel.UUID
	step    *itinerary.Step
	stop    *itinerary.Stop
	item    *itinerary.TransitItem
	pickup  *itinerary.Action
	graph   *itinerary.Graph
}

// newStableFixture builds one step with one stop holding a pickup of 5 "Alpha",
// all stable, with one proof on the pickup.
func newStableFixture(t *testing.T) fixture {
	t.Helper()
	orderID := kernel.NewUUID()

	step, err := itinerary.NewStep(kernel.NewUUID(), orderID, 1, itinerary.StableRevision(), baseTime)
	require.NoError(t, err)

	addr, err := itinerary.NewAddress(kernel.NewUUID(), itinerary.AddressInput{Line1: "1 Main St", City: "Berlin"})
	require.NoError(t, err)
	stop, err := itinerary.NewStop(kernel.NewUUID(), orderID, step.ID(), addr, 1, itinerary.StableRevision(), baseTime)
	require.NoError(t, err)

	item, err := itinerary.NewTransitItem(kernel.NewUUID(), orderID,
		itinerary.TransitItemSpec{Name: "Alpha", WeightKg: 2}, itinerary.StableRevision(), baseTime)
	require.NoError(t, err)

	itemID := item.ID()
	pickupID := kernel.NewUUID()
	proof := itinerary.RestoreProof(kernel.NewUUID(), pickupID, itinerary.SignatureProof, "s3://proofs/1", baseTime)
	pickup, err := itinerary.RestoreAction(pickupID, orderID, stop.ID(),
		itinerary.ActionSpec{Type: itinerary.Pickup, TransitItemID: &itemID, Quantity: 5},
		itinerary.ActionPending, nil, []itinerary.Proof{proof}, itinerary.StableRevision(), baseTime)
	require.NoError(t, err)

	g, err := itinerary.NewGraph(orderID, step, stop, item, pickup)
	require.NoError(t, err)

	return fixture{orderID: orderID, step: step, stop: stop, item: item, pickup: pickup, graph: g}
}
