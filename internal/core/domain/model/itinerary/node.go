package itinerary

import (
	"time"

	"multistop/internal/core/domain/model/kernel"
)

// Kind identifies the table a graph node belongs to.
type Kind int

const (
	UnknownKind Kind = iota
	StepKind
	StopKind
	ActionKind
	TransitItemKind
)

// String returns the lowercase name used in error messages.
func (k Kind) String() string {
	switch k {
	case StepKind:
		return "step"
	case StopKind:
		return "stop"
	case ActionKind:
		return "action"
	case TransitItemKind:
		return "transit item"
	default:
		return "unknown"
	}
}

// Node is implemented by Step, Stop, Action and TransitItem.
type Node interface {
	ID() kernel.UUID
	OrderID() kernel.UUID
	Kind() Kind
	Revision() Revision
	// ParentID is the anchor the node hangs under: the step of a stop, the
	// stop of an action. Steps and transit items have none.
	ParentID() *kernel.UUID
	CreatedAt() time.Time

	setRevision(Revision)
	shadowCopy(id kernel.UUID) Node
	adoptContent(from Node)
}

// AnchorID is the id children of n must reference.
func AnchorID(n Node) kernel.UUID {
	if original := n.Revision().OriginalID(); original != nil {
		return *original
	}
	return n.ID()
}
