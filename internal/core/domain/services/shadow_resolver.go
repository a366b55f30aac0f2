package services

import (
	"fmt"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/pkg/errs"
)

// EditTarget is the row an update must be written to.
type EditTarget struct {
	Node itinerary.Node
	// Shadowed is true when the resolver created a new shadow for this edit.
	Shadowed bool
}

// RemovalKind is how a remove operation was carried out.
type RemovalKind int

const (
	// RemovedImmediately means the row and its dependents are gone.
	RemovedImmediately RemovalKind = iota + 1
	// FlaggedForDeletion means the stable row stays visible to drivers until
	// the next merge.
	FlaggedForDeletion
)

// Removal is the outcome of a remove operation. Node is the row that was
// deleted or flagged.
type Removal struct {
	Kind RemovalKind
	Node itinerary.Node
}

// ShadowResolver applies copy-on-write to edits of submitted orders.
type ShadowResolver struct {
	cloner SubtreeCloner
}

// NewShadowResolver creates a resolver that shadows subtrees with cloner.
//
// Example usage:
//
//	resolver := NewShadowResolver(NewSubtreeCloner(nil))
//	target, err := resolver.ResolveUpdate(o, g, stop)
//	if err != nil {
//	    return err
//	}
//	// write the edit to target.Node; target.Shadowed reports a new shadow
func NewShadowResolver(cloner SubtreeCloner) ShadowResolver {
	return ShadowResolver{cloner: cloner}
}

// NewRevision is the revision of a row added to o now.
func (r ShadowResolver) NewRevision(o *order.Order) itinerary.Revision {
	if o.IsDraft() {
		return itinerary.StableRevision()
	}
	return itinerary.PendingAdditionRevision()
}

// ResolveUpdate returns the row an update of target must be written to:
// target itself for draft orders and pending rows, otherwise the live shadow
// of target, created on first use. Shadowing a step also shadows its stops
// and their actions.
func (r ShadowResolver) ResolveUpdate(o *order.Order, g *itinerary.Graph, target itinerary.Node) (EditTarget, error) {
	rev := target.Revision()
	if o.IsDraft() || rev.IsPendingChange() {
		return EditTarget{Node: target}, nil
	}
	if rev.IsDeleteRequired() {
		return EditTarget{}, errs.NewInvalidTransitionError(target.Kind().String(),
			fmt.Sprintf("%s is flagged for deletion", target.ID()))
	}
	if shadow, ok := g.ActiveShadow(target.ID()); ok {
		return EditTarget{Node: shadow}, nil
	}

	shadow, err := g.CreateShadow(target)
	if err != nil {
		return EditTarget{}, err
	}
	if target.Kind() == itinerary.StepKind {
		if _, err = r.cloner.CloneDescendants(g, target); err != nil {
			return EditTarget{}, err
		}
	}
	return EditTarget{Node: shadow, Shadowed: true}, nil
}

// ResolveAnchor returns the id a new child of parent must reference: the
// original id when parent is a shadow.
func (r ShadowResolver) ResolveAnchor(g *itinerary.Graph, parent itinerary.Node) (kernel.UUID, error) {
	anchor := parent
	if parent.Revision().IsShadow() {
		original, err := g.Original(parent)
		if err != nil {
			return kernel.UUID{}, err
		}
		anchor = original
	}
	if anchor.Revision().IsDeleteRequired() {
		return kernel.UUID{}, errs.NewInvalidTransitionError(anchor.Kind().String(),
			fmt.Sprintf("%s is flagged for deletion", anchor.ID()))
	}
	return anchor.ID(), nil
}

// ResolveRemoval deletes draft rows, pending additions and shadows at once.
// A stable row of a submitted order is flagged instead; removing a shadow
// flags the row it overrides.
func (r ShadowResolver) ResolveRemoval(o *order.Order, g *itinerary.Graph, target itinerary.Node) (Removal, error) {
	rev := target.Revision()
	if o.IsDraft() || rev.IsPendingAddition() {
		g.Delete(target)
		return Removal{Kind: RemovedImmediately, Node: target}, nil
	}

	original := target
	if rev.IsShadow() {
		var err error
		if original, err = g.Original(target); err != nil {
			return Removal{}, err
		}
	}
	if shadow, ok := g.ActiveShadow(original.ID()); ok {
		g.Delete(shadow)
	}
	if err := g.MarkDeleteRequired(original); err != nil {
		return Removal{}, err
	}
	return Removal{Kind: FlaggedForDeletion, Node: original}, nil
}
