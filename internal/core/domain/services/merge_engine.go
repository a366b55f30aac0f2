package services

import (
	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/pkg/errs"
)

// MergeReport counts what a submit, push or revert did to the graph.
// Push fills Merged, Promoted, Deleted and Pruned; revert fills Discarded
// and Restored.
type MergeReport struct {
	Merged    int
	Promoted  int
	Deleted   int
	Pruned    int
	Discarded int
	Restored  int
}

// MergeEngine turns pending changes into the stable itinerary, or throws
// them away.
type MergeEngine struct{}

// NewMergeEngine creates a new MergeEngine instance.
//
// Example usage:
//
//	engine := NewMergeEngine()
//	report, err := engine.Push(o, g)
//	if errors.Is(err, errs.ErrInvalidTransition) {
//	    // Draft or finished order
//	    return
//	}
//	// report.Merged shadows were copied onto their originals
func NewMergeEngine() MergeEngine {
	return MergeEngine{}
}

// Submit freezes a draft order's itinerary as the stable baseline and prunes
// transit items no action references.
func (e MergeEngine) Submit(o *order.Order, g *itinerary.Graph) (MergeReport, error) {
	if err := o.Submit(); err != nil {
		return MergeReport{}, err
	}
	return MergeReport{Pruned: e.PruneOrphans(g)}, nil
}

// Push copies every shadow into its original, promotes pending additions,
// deletes flagged rows with their dependents and prunes transit items that
// no action references. The graph is stable afterwards.
func (e MergeEngine) Push(o *order.Order, g *itinerary.Graph) (MergeReport, error) {
	if err := o.EnsureEditable(); err != nil {
		return MergeReport{}, err
	}
	if o.IsDraft() {
		return MergeReport{}, errs.NewInvalidTransitionError("order", "a draft order is submitted, not pushed")
	}

	var report MergeReport
	for _, shadow := range g.Shadows() {
		if _, err := g.MergeShadow(shadow); err != nil {
			return MergeReport{}, err
		}
		report.Merged++
	}
	for _, n := range g.PendingAdditions() {
		if err := g.Promote(n); err != nil {
			return MergeReport{}, err
		}
		report.Promoted++
	}
	for _, n := range g.DeleteRequired() {
		g.Delete(n)
		report.Deleted++
	}
	report.Pruned = e.PruneOrphans(g)

	o.ClearPendingChanges()
	return report, nil
}

// Revert discards shadows and pending additions and clears deletion flags.
// Draft orders have nothing to revert.
func (e MergeEngine) Revert(o *order.Order, g *itinerary.Graph) (MergeReport, error) {
	if err := o.EnsureEditable(); err != nil {
		return MergeReport{}, err
	}
	if o.IsDraft() {
		return MergeReport{}, nil
	}

	var report MergeReport
	for _, shadow := range g.Shadows() {
		g.Delete(shadow)
		report.Discarded++
	}
	for _, n := range g.PendingAdditions() {
		g.Delete(n)
		report.Discarded++
	}
	for _, n := range g.DeleteRequired() {
		g.ClearDeleteRequired(n)
		report.Restored++
	}

	o.ClearPendingChanges()
	return report, nil
}

// PruneOrphans deletes transit items no action refers to and returns how
// many were removed.
func (e MergeEngine) PruneOrphans(g *itinerary.Graph) int {
	referenced := make(map[kernel.UUID]struct{})
	for _, n := range g.Nodes(itinerary.ActionKind) {
		if a, ok := n.(*itinerary.Action); ok && a.TransitItemID() != nil {
			referenced[*a.TransitItemID()] = struct{}{}
		}
	}

	pruned := 0
	for _, n := range g.Nodes(itinerary.TransitItemKind) {
		if !n.Revision().IsAnchor() {
			continue
		}
		if _, ok := referenced[n.ID()]; ok {
			continue
		}
		g.Delete(n)
		pruned++
	}
	return pruned
}
