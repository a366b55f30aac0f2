package services_test

import (
	"testing"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/core/domain/services"
	"multistop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// editEverything shadows the step subtree, renames the item, adds a delivery
// under the stop shadow and removes the pickup.
func editEverything(t *testing.T, f orderFixture) *itinerary.Action {
	t.Helper()
	resolver := newResolver()

	stepEdit, err := resolver.ResolveUpdate(f.order, f.graph, f.step)
	require.NoError(t, err)
	seq := 7
	require.NoError(t, f.graph.Mutate(stepEdit.Node, func() error {
		return stepEdit.Node.(*itinerary.Step).Apply(itinerary.StepPatch{Sequence: &seq})
	}))

	itemEdit, err := resolver.ResolveUpdate(f.order, f.graph, f.item)
	require.NoError(t, err)
	name := "Beta"
	require.NoError(t, f.graph.Mutate(itemEdit.Node, func() error {
		return itemEdit.Node.(*itinerary.TransitItem).Apply(itinerary.TransitItemPatch{Name: &name})
	}))

	stopShadow, ok := f.graph.ActiveShadow(f.stop.ID())
	require.True(t, ok)
	delivery := f.addDelivery(t, resolver, stopShadow)

	pickupShadow, ok := f.graph.ActiveShadow(f.pickup.ID())
	require.True(t, ok)
	_, err = resolver.ResolveRemoval(f.order, f.graph, pickupShadow)
	require.NoError(t, err)

	f.order.MarkPendingChanges()
	return delivery
}

func TestMergeEngine_Push(t *testing.T) {
	engine := services.NewMergeEngine()

	t.Run("should copy shadows onto originals and leave no pending rows", func(t *testing.T) {
		// Given
		f := newSubmittedOrder(t)
		delivery := editEverything(t, f)

		// When
		report, err := engine.Push(f.order, f.graph)

		// Then
		require.NoError(t, err)
		assert.Equal(t, 3, report.Merged, "step, stop and item shadows")
		assert.Equal(t, 1, report.Promoted)
		assert.Equal(t, 1, report.Deleted)
		assert.False(t, f.order.HasPendingChanges())

		assert.Empty(t, f.graph.Shadows())
		assert.Empty(t, f.graph.PendingAdditions())
		assert.Empty(t, f.graph.DeleteRequired())

		step, err := f.graph.Step(f.step.ID())
		require.NoError(t, err)
		assert.Equal(t, 7, step.Sequence())

		item, err := f.graph.TransitItem(f.item.ID())
		require.NoError(t, err)
		assert.Equal(t, "Beta", item.Name())

		_, err = f.graph.Action(f.pickup.ID())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)

		merged, err := f.graph.Action(delivery.ID())
		require.NoError(t, err)
		assert.True(t, merged.Revision().IsStable())
		assert.Equal(t, f.stop.ID(), merged.StopID())
	})

	t.Run("should delete flagged rows with everything under them", func(t *testing.T) {
		// Given
		f := newSubmittedOrder(t)
		_, err := f.graph.CreateShadow(f.stop)
		require.NoError(t, err)
		require.NoError(t, f.graph.MarkDeleteRequired(f.step))

		// When
		report, err := engine.Push(f.order, f.graph)

		// Then
		require.NoError(t, err)
		assert.Equal(t, 1, report.Pruned)
		assert.Empty(t, f.graph.All())
	})

	t.Run("should physically delete orphaned items", func(t *testing.T) {
		// Given
		f := newSubmittedOrder(t)
		_, err := newResolver().ResolveRemoval(f.order, f.graph, f.pickup)
		require.NoError(t, err)

		// When
		report, err := engine.Push(f.order, f.graph)

		// Then
		require.NoError(t, err)
		assert.Equal(t, 1, report.Pruned)
		_, err = f.graph.TransitItem(f.item.ID())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Contains(t, f.graph.Changes().Deleted, itinerary.Node(f.item))
	})

	t.Run("should refuse a draft order", func(t *testing.T) {
		f := newDraftOrder(t)
		_, err := engine.Push(f.order, f.graph)
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestMergeEngine_Revert(t *testing.T) {
	engine := services.NewMergeEngine()

	t.Run("should restore the stable graph exactly", func(t *testing.T) {
		// Given
		f := newSubmittedOrder(t)
		before := snapshot(f.graph)
		editEverything(t, f)

		// When
		report, err := engine.Revert(f.order, f.graph)

		// Then
		require.NoError(t, err)
		assert.Equal(t, before, snapshot(f.graph))
		assert.Equal(t, 4, report.Discarded)
		assert.Equal(t, 1, report.Restored)
		assert.False(t, f.order.HasPendingChanges())
	})

	t.Run("should restore after a previous push", func(t *testing.T) {
		// Given
		f := newSubmittedOrder(t)
		editEverything(t, f)
		_, err := engine.Push(f.order, f.graph)
		require.NoError(t, err)
		before := snapshot(f.graph)

		resolver := newResolver()
		_, err = resolver.ResolveRemoval(f.order, f.graph, f.stop)
		require.NoError(t, err)

		// When
		_, err = engine.Revert(f.order, f.graph)

		// Then
		require.NoError(t, err)
		assert.Equal(t, before, snapshot(f.graph))
	})

	t.Run("should leave a draft order alone", func(t *testing.T) {
		// Given
		f := newDraftOrder(t)
		before := snapshot(f.graph)

		// When
		report, err := engine.Revert(f.order, f.graph)

		// Then
		require.NoError(t, err)
		assert.Equal(t, services.MergeReport{}, report)
		assert.Equal(t, before, snapshot(f.graph))
	})
}

func TestMergeEngine_Submit(t *testing.T) {
	// Given
	f := newDraftOrder(t)
	loose, err := itinerary.NewTransitItem(kernel.NewUUID(), f.order.ID(),
		itinerary.TransitItemSpec{Name: "Loose"}, itinerary.StableRevision(), baseTime)
	require.NoError(t, err)
	require.NoError(t, f.graph.Add(loose))

	// When
	report, err := services.NewMergeEngine().Submit(f.order, f.graph)

	// Then
	require.NoError(t, err)
	assert.Equal(t, order.Pending, f.order.Status())
	assert.Equal(t, 1, report.Pruned)
	_, err = f.graph.TransitItem(loose.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	_, err = f.graph.TransitItem(f.item.ID())
	require.NoError(t, err)
}
