package services

import (
	"multistop/internal/core/domain/model/itinerary"
)

// ClonePredicate decides whether a descendant gets its own shadow.
type ClonePredicate func(g *itinerary.Graph, n itinerary.Node) bool

// CloneIfStable clones stable rows that are not flagged for deletion and have
// no shadow yet.
func CloneIfStable(g *itinerary.Graph, n itinerary.Node) bool {
	rev := n.Revision()
	if !rev.IsStable() || rev.IsDeleteRequired() {
		return false
	}
	_, shadowed := g.ActiveShadow(n.ID())
	return !shadowed
}

// SubtreeCloner shadows the descendants of a row depth first, so a driver
// keeps a complete stable subtree while the client edits a copy of it.
type SubtreeCloner struct {
	shouldClone ClonePredicate
}

// NewSubtreeCloner creates a cloner that copies the descendants matching
// shouldClone. A nil predicate falls back to CloneIfStable.
func NewSubtreeCloner(shouldClone ClonePredicate) SubtreeCloner {
	if shouldClone == nil {
		shouldClone = CloneIfStable
	}
	return SubtreeCloner{shouldClone: shouldClone}
}

// CloneDescendants shadows every descendant of parent accepted by the
// predicate and returns the shadows it created.
func (c SubtreeCloner) CloneDescendants(g *itinerary.Graph, parent itinerary.Node) ([]itinerary.Node, error) {
	var created []itinerary.Node
	for _, child := range g.Children(itinerary.AnchorID(parent)) {
		if !child.Revision().IsAnchor() {
			continue
		}
		if c.shouldClone(g, child) {
			shadow, err := g.CreateShadow(child)
			if err != nil {
				return nil, err
			}
			created = append(created, shadow)
		}
		nested, err := c.CloneDescendants(g, child)
		if err != nil {
			return nil, err
		}
		created = append(created, nested...)
	}
	return created, nil
}
