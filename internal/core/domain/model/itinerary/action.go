package itinerary

import (
	"errors"
	"fmt"
	"time"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"
)

// ActionType is what the driver does at a stop.
type ActionType string

const (
	Pickup   ActionType = "PICKUP"
	Delivery ActionType = "DELIVERY"
	Service  ActionType = "SERVICE"
)

// Validate reports whether t is a known action type.
func (t ActionType) Validate() error {
	switch t {
	case Pickup, Delivery, Service:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("action type", fmt.Errorf("%q is not a valid type", t))
	}
}

// ActionStatus is the execution state of an action.
type ActionStatus string

const (
	ActionPending   ActionStatus = "PENDING"
	ActionArrived   ActionStatus = "ARRIVED"
	ActionCompleted ActionStatus = "COMPLETED"
	ActionFrozen    ActionStatus = "FROZEN"
	ActionFailed    ActionStatus = "FAILED"
	ActionCancelled ActionStatus = "CANCELLED"
)

// Validate reports whether s is a known action status.
func (s ActionStatus) Validate() error {
	switch s {
	case ActionPending, ActionArrived, ActionCompleted, ActionFrozen, ActionFailed, ActionCancelled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("action status", fmt.Errorf("%q is not a valid status", s))
	}
}

// ConfirmationRules lists the proofs a driver must capture to complete the action.
type ConfirmationRules struct {
	Signature bool `json:"signature"`
	Photo     bool `json:"photo"`
	Code      bool `json:"code"`
	MinPhotos int  `json:"minPhotos,omitempty"`
}

// StatusChange is one entry of an action's status history.
type StatusChange struct {
	Status ActionStatus `json:"status"`
	At     time.Time    `json:"at"`
}

// ActionSpec is the content of a new action.
type ActionSpec struct {
	Type ActionType
	// TransitItemID must already be resolved to an anchor id.
	TransitItemID *kernel.UUID
	Quantity      int
	ServiceTime   time.Duration
	Rules         ConfirmationRules
}

// Action is one unit of work at a stop. Pickups and deliveries move a transit
// item; services do not.
type Action struct {
	id            kernel.UUID
	orderID       kernel.UUID
	stopID        kernel.UUID
	transitItemID *kernel.UUID
	actionType    ActionType
	quantity      int
	status        ActionStatus
	serviceTime   time.Duration
	rules         ConfirmationRules
	history       []StatusChange
	proofs        []Proof
	revision      Revision
	createdAt     time.Time
}

// ActionPatch carries the fields an update may change; nil fields are kept.
type ActionPatch struct {
	// StopID and TransitItemID must already be resolved to anchor ids.
	StopID        *kernel.UUID
	TransitItemID *kernel.UUID
	Type          *ActionType
	Quantity      *int
	Status        *ActionStatus
	ServiceTime   *time.Duration
	Rules         *ConfirmationRules
}

// NewAction creates a PENDING action at a stop. Its history starts with
// the PENDING entry stamped with createdAt.
//
// Parameters:
//   - id: Unique identifier of the action
//   - orderID: The order the action belongs to
//   - stopID: Anchor id of the stop the action happens at
//   - spec: Type, quantity and rules; pickups and deliveries need a transit item
//   - revision: Draft bookkeeping of the new row
//   - createdAt: Creation time
//
// Example:
//
//	itemID := item.ID()
//	pickup, err := NewAction(kernel.NewUUID(), orderID, stop.ID(),
//	    ActionSpec{Type: Pickup, TransitItemID: &itemID, Quantity: 5},
//	    StableRevision(), time.Now())
//	if err != nil {
//	    // Handle validation error
//	}
func NewAction(id, orderID, stopID kernel.UUID, spec ActionSpec, revision Revision, createdAt time.Time) (*Action, error) {
	return RestoreAction(id, orderID, stopID, spec, ActionPending,
		[]StatusChange{{Status: ActionPending, At: createdAt}}, nil, revision, createdAt)
}

// RestoreAction rebuilds an action read from storage, including its status
// history and captured proofs.
func RestoreAction(
	id, orderID, stopID kernel.UUID,
	spec ActionSpec,
	status ActionStatus,
	history []StatusChange,
	proofs []Proof,
	revision Revision,
	createdAt time.Time,
) (*Action, error) {
	a := &Action{
		orderID:   orderID,
		revision:  revision,
		createdAt: createdAt,
		history:   append([]StatusChange(nil), history...),
		proofs:    append([]Proof(nil), proofs...),
	}
	if err := errors.Join(
		validateIDs(id, orderID),
		a.setStopID(stopID),
		a.setSpec(spec),
		a.setStatus(status),
	); err != nil {
		return nil, err
	}
	a.id = id
	return a, nil
}

// ID returns the action's unique identifier.
func (a *Action) ID() kernel.UUID {
	return a.id
}

// OrderID returns the id of the order the action belongs to.
func (a *Action) OrderID() kernel.UUID {
	return a.orderID
}

// Kind returns ActionKind.
func (a *Action) Kind() Kind {
	return ActionKind
}

// Revision returns the action's draft bookkeeping.
func (a *Action) Revision() Revision {
	return a.revision
}

// CreatedAt returns when the action was created.
func (a *Action) CreatedAt() time.Time {
	return a.createdAt
}

// StopID returns the anchor id of the stop the action happens at.
func (a *Action) StopID() kernel.UUID {
	return a.stopID
}

// Type returns what the driver does.
func (a *Action) Type() ActionType {
	return a.actionType
}

// Quantity returns how many units of the transit item the action moves.
func (a *Action) Quantity() int {
	return a.quantity
}

// Status returns the current execution state.
func (a *Action) Status() ActionStatus {
	return a.status
}

// ServiceTime returns the expected time spent on the action.
func (a *Action) ServiceTime() time.Duration {
	return a.serviceTime
}

// ConfirmationRules returns the proofs required to complete the action.
func (a *Action) ConfirmationRules() ConfirmationRules {
	return a.rules
}

func (a *Action) setRevision(r Revision) { a.revision = r }

// ParentID returns the stop the action hangs under.
func (a *Action) ParentID() *kernel.UUID {
	id := a.stopID
	return &id
}

// TransitItemID returns the moved transit item.
// Returns nil for service actions.
func (a *Action) TransitItemID() *kernel.UUID {
	if a.transitItemID == nil {
		return nil
	}
	id := *a.transitItemID
	return &id
}

// StatusHistory returns a copy of every status the action went through.
func (a *Action) StatusHistory() []StatusChange {
	return append([]StatusChange(nil), a.history...)
}

// Proofs returns a copy of the proofs captured against the action.
func (a *Action) Proofs() []Proof {
	return append([]Proof(nil), a.proofs...)
}

// Apply validates the whole patch before changing anything. A status change is
// appended to the history stamped with now.
func (a *Action) Apply(p ActionPatch, now time.Time) error {
	next := *a
	next.history = a.StatusHistory()
	spec := a.spec()
	if p.TransitItemID != nil {
		id := *p.TransitItemID
		spec.TransitItemID = &id
	}
	if p.Type != nil {
		spec.Type = *p.Type
		if spec.Type == Service && p.TransitItemID == nil {
			spec.TransitItemID = nil
		}
	}
	if p.Quantity != nil {
		spec.Quantity = *p.Quantity
	}
	if p.ServiceTime != nil {
		spec.ServiceTime = *p.ServiceTime
	}
	if p.Rules != nil {
		spec.Rules = *p.Rules
	}

	joined := []error{next.setSpec(spec)}
	if p.StopID != nil {
		joined = append(joined, next.setStopID(*p.StopID))
	}
	if p.Status != nil && *p.Status != a.status {
		if err := next.setStatus(*p.Status); err != nil {
			joined = append(joined, err)
		} else {
			next.history = append(next.history, StatusChange{Status: *p.Status, At: now})
		}
	}
	if err := errors.Join(joined...); err != nil {
		return err
	}
	*a = next
	return nil
}

func (a *Action) spec() ActionSpec {
	return ActionSpec{
		Type:          a.actionType,
		TransitItemID: a.TransitItemID(),
		Quantity:      a.quantity,
		ServiceTime:   a.serviceTime,
		Rules:         a.rules,
	}
}

func (a *Action) shadowCopy(id kernel.UUID) Node {
	shadow := *a
	shadow.id = id
	shadow.transitItemID = a.TransitItemID()
	shadow.history = a.StatusHistory()
	shadow.proofs = make([]Proof, 0, len(a.proofs))
	for _, p := range a.proofs {
		shadow.proofs = append(shadow.proofs, p.copyFor(kernel.NewUUID(), id))
	}
	shadow.revision = ShadowRevision(a.id)
	return &shadow
}

// adoptContent copies field values only. Proofs stay with the row that owns
// them, so the original keeps the proofs drivers captured against its id.
func (a *Action) adoptContent(from Node) {
	src := from.(*Action)
	a.stopID = src.stopID
	a.transitItemID = src.TransitItemID()
	a.actionType = src.actionType
	a.quantity = src.quantity
	a.status = src.status
	a.serviceTime = src.serviceTime
	a.rules = src.rules
	a.history = src.StatusHistory()
}

func (a *Action) setStopID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("stopID", err)
	}
	a.stopID = id
	return nil
}

func (a *Action) setSpec(spec ActionSpec) error {
	var joined []error
	if err := spec.Type.Validate(); err != nil {
		joined = append(joined, err)
	}
	if spec.Type != Service {
		if spec.TransitItemID == nil {
			joined = append(joined, errs.NewValueIsRequiredErrorWithCause("transitItemID",
				fmt.Errorf("%s actions move a transit item", spec.Type)))
		}
		if spec.Quantity <= 0 {
			joined = append(joined, errs.NewValueIsInvalidErrorWithCause("quantity",
				fmt.Errorf("%d is not greater than 0", spec.Quantity)))
		}
	} else if spec.Quantity < 0 {
		joined = append(joined, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is negative", spec.Quantity)))
	}
	if spec.ServiceTime < 0 {
		joined = append(joined, errs.NewValueIsInvalidErrorWithCause("serviceTime",
			fmt.Errorf("%s is negative", spec.ServiceTime)))
	}
	if spec.Rules.MinPhotos < 0 {
		joined = append(joined, errs.NewValueIsInvalidError("confirmationRules.minPhotos"))
	}
	if err := errors.Join(joined...); err != nil {
		return err
	}
	a.actionType = spec.Type
	a.transitItemID = spec.TransitItemID
	a.quantity = spec.Quantity
	a.serviceTime = spec.ServiceTime
	a.rules = spec.Rules
	return nil
}

func (a *Action) setStatus(status ActionStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	a.status = status
	return nil
}
