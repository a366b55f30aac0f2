package itinerary

import (
	"cmp"
	"fmt"
	"slices"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"
)

// ChangeKind is what a transaction did to a row.
type ChangeKind int

const (
	Unchanged ChangeKind = iota
	Inserted
	Updated
	Deleted
)

// ChangeSet lists the rows a repository must write. Inserted is ordered
// parents first and Deleted children first.
type ChangeSet struct {
	Inserted []Node
	Updated  []Node
	Deleted  []Node
}

// IsEmpty reports whether there is nothing to write.
func (c ChangeSet) IsEmpty() bool {
	return len(c.Inserted) == 0 && len(c.Updated) == 0 && len(c.Deleted) == 0
}

// Graph holds every row of one order's itinerary and tracks changes made to it
// during a single transaction. It is not safe for concurrent use.
type Graph struct {
	orderID kernel.UUID
	nodes   map[kernel.UUID]Node
	// shadows maps an original row id to the id of its live shadow.
	shadows map[kernel.UUID]kernel.UUID
	changes map[kernel.UUID]ChangeKind
	removed map[kernel.UUID]Node
}

// NewGraph indexes persisted rows. It fails if a row belongs to another order
// or if an original has more than one live shadow.
func NewGraph(orderID kernel.UUID, nodes ...Node) (*Graph, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	g := &Graph{
		orderID: orderID,
		nodes:   make(map[kernel.UUID]Node, len(nodes)),
		shadows: make(map[kernel.UUID]kernel.UUID),
		changes: make(map[kernel.UUID]ChangeKind),
		removed: make(map[kernel.UUID]Node),
	}
	for _, n := range nodes {
		if err := g.index(n); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// OrderID returns the id of the order the graph belongs to.
func (g *Graph) OrderID() kernel.UUID {
	return g.orderID
}

// Get returns the node with the given id and kind.
func (g *Graph) Get(kind Kind, id kernel.UUID) (Node, error) {
	n, ok := g.nodes[id]
	if !ok || n.Kind() != kind {
		return nil, errs.NewObjectNotFoundError(kind.String(), id.String())
	}
	return n, nil
}

// Step returns the step with the given id.
func (g *Graph) Step(id kernel.UUID) (*Step, error) {
	n, err := g.Get(StepKind, id)
	if err != nil {
		return nil, err
	}
	return n.(*Step), nil
}

// Stop returns the stop with the given id.
func (g *Graph) Stop(id kernel.UUID) (*Stop, error) {
	n, err := g.Get(StopKind, id)
	if err != nil {
		return nil, err
	}
	return n.(*Stop), nil
}

// Action returns the action with the given id.
func (g *Graph) Action(id kernel.UUID) (*Action, error) {
	n, err := g.Get(ActionKind, id)
	if err != nil {
		return nil, err
	}
	return n.(*Action), nil
}

// TransitItem returns the transit item with the given id.
func (g *Graph) TransitItem(id kernel.UUID) (*TransitItem, error) {
	n, err := g.Get(TransitItemKind, id)
	if err != nil {
		return nil, err
	}
	return n.(*TransitItem), nil
}

// Nodes returns every row of a kind in display order.
func (g *Graph) Nodes(kind Kind) []Node {
	out := make([]Node, 0)
	for _, n := range g.nodes {
		if n.Kind() == kind {
			out = append(out, n)
		}
	}
	SortNodes(out)
	return out
}

// All returns every row regardless of kind.
func (g *Graph) All() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	SortNodes(out)
	return out
}

// ActiveShadow returns the live shadow of the row with originalID.
func (g *Graph) ActiveShadow(originalID kernel.UUID) (Node, bool) {
	id, ok := g.shadows[originalID]
	if !ok {
		return nil, false
	}
	return g.nodes[id], true
}

// Original returns the row a shadow overrides.
func (g *Graph) Original(shadow Node) (Node, error) {
	originalID := shadow.Revision().OriginalID()
	if originalID == nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(shadow.Kind().String(),
			fmt.Errorf("%s is not a shadow", shadow.ID()))
	}
	return g.Get(shadow.Kind(), *originalID)
}

// Children returns rows whose parent reference is anchorID, shadows included.
func (g *Graph) Children(anchorID kernel.UUID) []Node {
	out := make([]Node, 0)
	for _, n := range g.nodes {
		if parent := n.ParentID(); parent != nil && parent.IsEqual(anchorID) {
			out = append(out, n)
		}
	}
	SortNodes(out)
	return out
}

// Shadows returns every live shadow row.
func (g *Graph) Shadows() []Node {
	return g.filter(func(n Node) bool { return n.Revision().IsShadow() })
}

// PendingAdditions returns every row added since the last submit or push.
func (g *Graph) PendingAdditions() []Node {
	return g.filter(func(n Node) bool { return n.Revision().IsPendingAddition() })
}

// DeleteRequired returns every row flagged for deletion.
func (g *Graph) DeleteRequired() []Node {
	return g.filter(func(n Node) bool { return n.Revision().IsDeleteRequired() })
}

// Add inserts a new row.
func (g *Graph) Add(n Node) error {
	if _, exists := g.nodes[n.ID()]; exists {
		return errs.NewValueIsInvalidErrorWithCause(n.Kind().String(), fmt.Errorf("%s already exists", n.ID()))
	}
	if err := g.index(n); err != nil {
		return err
	}
	g.changes[n.ID()] = Inserted
	return nil
}

// CreateShadow copies a stable row into a new shadow row and indexes it.
func (g *Graph) CreateShadow(original Node) (Node, error) {
	rev := original.Revision()
	if !rev.IsStable() {
		return nil, errs.NewInvalidTransitionError(original.Kind().String(),
			fmt.Sprintf("%s is not a stable row", original.ID()))
	}
	if rev.IsDeleteRequired() {
		return nil, errs.NewInvalidTransitionError(original.Kind().String(),
			fmt.Sprintf("%s is flagged for deletion", original.ID()))
	}
	shadow := original.shadowCopy(kernel.NewUUID())
	if err := g.Add(shadow); err != nil {
		return nil, err
	}
	return shadow, nil
}

// Mutate runs fn against n and records n as updated when fn succeeds.
func (g *Graph) Mutate(n Node, fn func() error) error {
	if err := fn(); err != nil {
		return err
	}
	g.touch(n)
	return nil
}

// MarkDeleteRequired flags a stable row for deletion at the next merge.
func (g *Graph) MarkDeleteRequired(n Node) error {
	rev := n.Revision()
	if !rev.IsStable() {
		return errs.NewInvalidTransitionError(n.Kind().String(),
			fmt.Sprintf("%s is a pending change and cannot be flagged", n.ID()))
	}
	if rev.deleteRequired {
		return nil
	}
	rev.deleteRequired = true
	n.setRevision(rev)
	g.touch(n)
	return nil
}

// ClearDeleteRequired drops the deletion flag of n.
func (g *Graph) ClearDeleteRequired(n Node) {
	rev := n.Revision()
	if !rev.deleteRequired {
		return
	}
	rev.deleteRequired = false
	n.setRevision(rev)
	g.touch(n)
}

// Promote turns a pending addition into a stable row.
func (g *Graph) Promote(n Node) error {
	if !n.Revision().IsPendingAddition() {
		return errs.NewInvalidTransitionError(n.Kind().String(),
			fmt.Sprintf("%s is not a pending addition", n.ID()))
	}
	n.setRevision(StableRevision())
	g.touch(n)
	return nil
}

// MergeShadow copies a shadow's content onto its original, keeping the
// original id, clears the original's deletion flag and drops the shadow.
func (g *Graph) MergeShadow(shadow Node) (Node, error) {
	original, err := g.Original(shadow)
	if err != nil {
		return nil, err
	}
	original.adoptContent(shadow)
	rev := original.Revision()
	rev.deleteRequired = false
	original.setRevision(rev)
	g.touch(original)
	g.Delete(shadow)
	return original, nil
}

// Delete removes n, its live shadow and every row anchored under it.
// Deleting an already removed row is a no-op.
func (g *Graph) Delete(n Node) {
	if _, ok := g.nodes[n.ID()]; !ok {
		return
	}
	if shadow, ok := g.ActiveShadow(n.ID()); ok {
		g.Delete(shadow)
	}
	if n.Revision().IsAnchor() {
		for _, child := range g.Children(n.ID()) {
			g.Delete(child)
		}
	}

	delete(g.nodes, n.ID())
	if original := n.Revision().OriginalID(); original != nil {
		delete(g.shadows, *original)
	}
	if g.changes[n.ID()] == Inserted {
		delete(g.changes, n.ID())
		return
	}
	g.changes[n.ID()] = Deleted
	g.removed[n.ID()] = n
}

// HasChanges reports whether the transaction touched any row.
func (g *Graph) HasChanges() bool {
	return len(g.changes) > 0
}

// Changes returns the rows to write, ordered so inserts respect foreign keys.
func (g *Graph) Changes() ChangeSet {
	var cs ChangeSet
	for id, kind := range g.changes {
		switch kind {
		case Inserted:
			cs.Inserted = append(cs.Inserted, g.nodes[id])
		case Updated:
			cs.Updated = append(cs.Updated, g.nodes[id])
		case Deleted:
			cs.Deleted = append(cs.Deleted, g.removed[id])
		}
	}
	sortForWrite(cs.Inserted)
	sortForWrite(cs.Updated)
	sortForWrite(cs.Deleted)
	slices.Reverse(cs.Deleted)
	return cs
}

func (g *Graph) index(n Node) error {
	if !n.OrderID().IsEqual(g.orderID) {
		return errs.NewOwnershipMismatchError(n.Kind().String(), n.ID().String(), g.orderID.String())
	}
	if original := n.Revision().OriginalID(); original != nil {
		if existing, ok := g.shadows[*original]; ok && !existing.IsEqual(n.ID()) {
			return errs.NewConcurrencyConflictError(
				fmt.Sprintf("shadow of %s %s", n.Kind(), original), 1, nil)
		}
		g.shadows[*original] = n.ID()
	}
	g.nodes[n.ID()] = n
	return nil
}

func (g *Graph) touch(n Node) {
	if _, ok := g.changes[n.ID()]; ok {
		return
	}
	g.changes[n.ID()] = Updated
}

func (g *Graph) filter(keep func(Node) bool) []Node {
	out := make([]Node, 0)
	for _, n := range g.nodes {
		if keep(n) {
			out = append(out, n)
		}
	}
	SortNodes(out)
	return out
}

// SortNodes orders rows for display: steps and stops by sequence, actions and
// transit items by creation time, ties broken by id.
func SortNodes(nodes []Node) {
	slices.SortStableFunc(nodes, CompareNodes)
}

// CompareNodes is the comparison used by SortNodes.
func CompareNodes(a, b Node) int {
	return cmp.Or(
		cmp.Compare(a.Kind(), b.Kind()),
		cmp.Compare(sequenceOf(a), sequenceOf(b)),
		a.CreatedAt().Compare(b.CreatedAt()),
		cmp.Compare(a.ID().String(), b.ID().String()),
	)
}

// sortForWrite orders rows so parents precede children.
func sortForWrite(nodes []Node) {
	rank := map[Kind]int{StepKind: 0, TransitItemKind: 1, StopKind: 2, ActionKind: 3}
	slices.SortStableFunc(nodes, func(a, b Node) int {
		return cmp.Or(
			cmp.Compare(rank[a.Kind()], rank[b.Kind()]),
			cmp.Compare(a.ID().String(), b.ID().String()),
		)
	})
}

func sequenceOf(n Node) int {
	switch v := n.(type) {
	case *Step:
		return v.sequence
	case *Stop:
		return v.sequence
	default:
		return 0
	}
}
