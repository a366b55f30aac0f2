package itinerary

import (
	"time"

	"multistop/internal/core/domain/model/kernel"
)

// ProofKind is the kind of evidence a proof carries.
type ProofKind string

const (
	SignatureProof ProofKind = "SIGNATURE"
	PhotoProof     ProofKind = "PHOTO"
	CodeProof      ProofKind = "CODE"
)

// Proof is confirmation evidence captured against an action. Files live in
// external storage; Reference points at them.
type Proof struct {
	id         kernel.UUID
	actionID   kernel.UUID
	kind       ProofKind
	reference  string
	capturedAt time.Time
}

// RestoreProof rebuilds a proof read from storage.
func RestoreProof(id, actionID kernel.UUID, kind ProofKind, reference string, capturedAt time.Time) Proof {
	return Proof{id: id, actionID: actionID, kind: kind, reference: reference, capturedAt: capturedAt}
}

// ID returns the proof's unique identifier.
func (p Proof) ID() kernel.UUID {
	return p.id
}

// ActionID returns the id of the action the proof was captured against.
func (p Proof) ActionID() kernel.UUID {
	return p.actionID
}

// Kind returns the kind of evidence.
func (p Proof) Kind() ProofKind {
	return p.kind
}

// Reference returns the location of the evidence in external storage.
func (p Proof) Reference() string {
	return p.reference
}

// CapturedAt returns when the driver captured the evidence.
func (p Proof) CapturedAt() time.Time {
	return p.capturedAt
}

func (p Proof) copyFor(id, actionID kernel.UUID) Proof {
	p.id = id
	p.actionID = actionID
	return p
}
