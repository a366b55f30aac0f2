package itinerary

import (
	"errors"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"
)

// Revision is the draft bookkeeping carried by every graph node. It is one of:
//   - stable: pendingChange=false, originalID=nil, deleteRequired optional
//   - shadow: pendingChange=true, originalID set
//   - pending addition: pendingChange=true, originalID=nil
type Revision struct {
	originalID     *kernel.UUID
	pendingChange  bool
	deleteRequired bool
}

// StableRevision returns the revision of a row that is part of the
// confirmed itinerary.
func StableRevision() Revision {
	return Revision{}
}

// PendingAdditionRevision returns the revision of a row added after the
// order was submitted. The row stays invisible to drivers until a push.
func PendingAdditionRevision() Revision {
	return Revision{pendingChange: true}
}

// ShadowRevision returns the revision of a shadow overriding the row with
// originalID.
func ShadowRevision(originalID kernel.UUID) Revision {
	return Revision{originalID: &originalID, pendingChange: true}
}

// RestoreRevision rebuilds the flags read from storage.
func RestoreRevision(originalID *kernel.UUID, pendingChange, deleteRequired bool) (Revision, error) {
	if originalID != nil && !pendingChange {
		return Revision{}, errs.NewValueIsInvalidErrorWithCause("revision",
			errors.New("a row with an original id must be a pending change"))
	}
	if deleteRequired && pendingChange {
		return Revision{}, errs.NewValueIsInvalidErrorWithCause("revision",
			errors.New("only stable rows can be flagged for deletion"))
	}
	return Revision{originalID: originalID, pendingChange: pendingChange, deleteRequired: deleteRequired}, nil
}

// OriginalID returns the id of the row a shadow overrides.
// Returns nil for stable rows and pending additions.
func (r Revision) OriginalID() *kernel.UUID {
	if r.originalID == nil {
		return nil
	}
	id := *r.originalID
	return &id
}

// IsPendingChange reports whether the row is a shadow or a pending addition.
func (r Revision) IsPendingChange() bool {
	return r.pendingChange
}

// IsDeleteRequired reports whether the row is flagged for deletion on the next push.
func (r Revision) IsDeleteRequired() bool {
	return r.deleteRequired
}

// IsStable reports whether the row belongs to the confirmed itinerary.
func (r Revision) IsStable() bool {
	return !r.pendingChange
}

// IsShadow reports whether the row overrides another row.
func (r Revision) IsShadow() bool {
	return r.pendingChange && r.originalID != nil
}

// IsPendingAddition reports whether the row was added after submission and
// has no original.
func (r Revision) IsPendingAddition() bool {
	return r.pendingChange && r.originalID == nil
}

// IsAnchor reports whether children may reference the row: stable rows and
// pending additions are anchors, shadows never are.
func (r Revision) IsAnchor() bool {
	return r.originalID == nil
}
