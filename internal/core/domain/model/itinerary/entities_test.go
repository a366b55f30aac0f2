package itinerary_test

import (
	"testing"
	"time"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAction(t *testing.T) {
	orderID := kernel.NewUUID()
	stopID := kernel.NewUUID()
	itemID := kernel.NewUUID()

	t.Run("pickup needs an item and a positive quantity", func(t *testing.T) {
		_, err := itinerary.NewAction(kernel.NewUUID(), orderID, stopID,
			itinerary.ActionSpec{Type: itinerary.Pickup, Quantity: 0}, itinerary.StableRevision(), baseTime)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "transitItemID")
		assert.Contains(t, err.Error(), "quantity")
	})

	t.Run("service needs no item", func(t *testing.T) {
		a, err := itinerary.NewAction(kernel.NewUUID(), orderID, stopID,
			itinerary.ActionSpec{Type: itinerary.Service, ServiceTime: 5 * time.Minute}, itinerary.StableRevision(), baseTime)

		require.NoError(t, err)
		assert.Nil(t, a.TransitItemID())
		assert.Equal(t, itinerary.ActionPending, a.Status())
		require.Len(t, a.StatusHistory(), 1)
	})

	t.Run("unknown type is invalid", func(t *testing.T) {
		_, err := itinerary.NewAction(kernel.NewUUID(), orderID, stopID,
			itinerary.ActionSpec{Type: "TELEPORT", TransitItemID: &itemID, Quantity: 1}, itinerary.StableRevision(), baseTime)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestAction_Apply(t *testing.T) {
	itemID := kernel.NewUUID()
	a, err := itinerary.NewAction(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		itinerary.ActionSpec{Type: itinerary.Delivery, TransitItemID: &itemID, Quantity: 3},
		itinerary.StableRevision(), baseTime)
	require.NoError(t, err)

	t.Run("status change is recorded in history", func(t *testing.T) {
		done := itinerary.ActionCompleted
		at := baseTime.Add(time.Hour)
		require.NoError(t, a.Apply(itinerary.ActionPatch{Status: &done}, at))

		history := a.StatusHistory()
		require.Len(t, history, 2)
		assert.Equal(t, itinerary.StatusChange{Status: itinerary.ActionCompleted, At: at}, history[1])
	})

	t.Run("invalid patch leaves action untouched", func(t *testing.T) {
		qty := -1
		err := a.Apply(itinerary.ActionPatch{Quantity: &qty}, baseTime)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, 3, a.Quantity())
	})

	t.Run("switching to service drops the item", func(t *testing.T) {
		service := itinerary.Service
		require.NoError(t, a.Apply(itinerary.ActionPatch{Type: &service}, baseTime))
		assert.Nil(t, a.TransitItemID())
	})
}

func TestStop_Apply(t *testing.T) {
	f := newStableFixture(t)

	err := f.stop.Apply(itinerary.StopPatch{Address: &itinerary.AddressInput{Line1: " ", City: "Berlin"}})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Equal(t, "1 Main St", f.stop.Address().Line1())

	seq := 4
	exec := 2
	require.NoError(t, f.stop.Apply(itinerary.StopPatch{Sequence: &seq, ExecutionOrder: &exec}))
	assert.Equal(t, 4, f.stop.Sequence())
	assert.Equal(t, 2, *f.stop.ExecutionOrder())
}

func TestTransitItem_Apply(t *testing.T) {
	f := newStableFixture(t)

	name := "Beta"
	require.NoError(t, f.item.Apply(itinerary.TransitItemPatch{Name: &name, Metadata: map[string]string{"fragile": "yes"}}))
	assert.Equal(t, "Beta", f.item.Name())
	assert.Equal(t, "yes", f.item.Metadata()["fragile"])

	weight := -2.0
	require.ErrorIs(t, f.item.Apply(itinerary.TransitItemPatch{WeightKg: &weight}), errs.ErrValueIsInvalid)
}
