package itinerary

import (
	"errors"
	"fmt"
	"time"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"
)

// StopStatus is the execution state of a stop.
type StopStatus string

const (
	StopPending   StopStatus = "PENDING"
	StopArrived   StopStatus = "ARRIVED"
	StopPartial   StopStatus = "PARTIAL"
	StopCompleted StopStatus = "COMPLETED"
	StopSkipped   StopStatus = "SKIPPED"
	StopFailed    StopStatus = "FAILED"
)

// Validate reports whether s is a known stop status.
func (s StopStatus) Validate() error {
	switch s {
	case StopPending, StopArrived, StopPartial, StopCompleted, StopSkipped, StopFailed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("stop status", fmt.Errorf("%q is not a valid status", s))
	}
}

// Stop is a physical location visited once. Sequence is the client-declared
// order, ExecutionOrder the order chosen by the routing solver.
type Stop struct {
	id             kernel.UUID
	orderID        kernel.UUID
	stepID         kernel.UUID
	address        Address
	sequence       int
	executionOrder *int
	status         StopStatus
	revision       Revision
	createdAt      time.Time
}

// StopPatch carries the fields an update may change; nil fields are kept.
type StopPatch struct {
	// StepID must already be resolved to an anchor id.
	StepID         *kernel.UUID
	Address        *AddressInput
	Sequence       *int
	ExecutionOrder *int
	Status         *StopStatus
}

// NewStop creates a PENDING stop under a step. The stop owns address; a
// shadow of the stop gets its own copy.
//
// Parameters:
//   - id: Unique identifier of the stop
//   - orderID: The order the stop belongs to
//   - stepID: Anchor id of the parent step
//   - address: The validated address the driver visits
//   - sequence: Client-declared position within the step
//   - revision: Draft bookkeeping of the new row
//   - createdAt: Creation time
func NewStop(
	id, orderID, stepID kernel.UUID,
	address Address,
	sequence int,
	revision Revision,
	createdAt time.Time,
) (*Stop, error) {
	return RestoreStop(id, orderID, stepID, address, sequence, nil, StopPending, revision, createdAt)
}

// RestoreStop rebuilds a stop read from storage, including the execution
// order set by the routing solver.
func RestoreStop(
	id, orderID, stepID kernel.UUID,
	address Address,
	sequence int,
	executionOrder *int,
	status StopStatus,
	revision Revision,
	createdAt time.Time,
) (*Stop, error) {
	s := &Stop{revision: revision, createdAt: createdAt}
	if err := errors.Join(
		validateIDs(id, orderID),
		s.setStepID(stepID),
		s.setAddress(address),
		s.setSequence(sequence),
		s.setExecutionOrder(executionOrder),
		s.setStatus(status),
	); err != nil {
		return nil, err
	}
	s.id = id
	s.orderID = orderID
	return s, nil
}

// ID returns the stop's unique identifier.
func (s *Stop) ID() kernel.UUID {
	return s.id
}

// OrderID returns the id of the order the stop belongs to.
func (s *Stop) OrderID() kernel.UUID {
	return s.orderID
}

// Kind returns StopKind.
func (s *Stop) Kind() Kind {
	return StopKind
}

// Revision returns the stop's draft bookkeeping.
func (s *Stop) Revision() Revision {
	return s.revision
}

// CreatedAt returns when the stop was created.
func (s *Stop) CreatedAt() time.Time {
	return s.createdAt
}

// StepID returns the anchor id of the parent step.
func (s *Stop) StepID() kernel.UUID {
	return s.stepID
}

// Address returns the address the driver visits.
func (s *Stop) Address() Address {
	return s.address
}

// Sequence returns the client-declared position within the step.
func (s *Stop) Sequence() int {
	return s.sequence
}

// Status returns the current execution state.
func (s *Stop) Status() StopStatus {
	return s.status
}

func (s *Stop) setRevision(r Revision) { s.revision = r }

// ParentID returns the step the stop hangs under.
func (s *Stop) ParentID() *kernel.UUID {
	id := s.stepID
	return &id
}

// ExecutionOrder returns the position chosen by the routing solver.
// Returns nil until a route was solved.
func (s *Stop) ExecutionOrder() *int {
	if s.executionOrder == nil {
		return nil
	}
	v := *s.executionOrder
	return &v
}

// Apply validates the whole patch before changing anything. An address patch
// rewrites the content of the stop's own address row.
func (s *Stop) Apply(p StopPatch) error {
	next := *s
	var joined []error
	if p.StepID != nil {
		joined = append(joined, next.setStepID(*p.StepID))
	}
	if p.Address != nil {
		addr, err := NewAddress(s.address.id, *p.Address)
		joined = append(joined, err)
		if err == nil {
			next.address = addr
		}
	}
	if p.Sequence != nil {
		joined = append(joined, next.setSequence(*p.Sequence))
	}
	if p.ExecutionOrder != nil {
		joined = append(joined, next.setExecutionOrder(p.ExecutionOrder))
	}
	if p.Status != nil {
		joined = append(joined, next.setStatus(*p.Status))
	}
	if err := errors.Join(joined...); err != nil {
		return err
	}
	*s = next
	return nil
}

func (s *Stop) shadowCopy(id kernel.UUID) Node {
	shadow := *s
	shadow.id = id
	shadow.address = s.address.withID(kernel.NewUUID())
	shadow.executionOrder = s.ExecutionOrder()
	shadow.revision = ShadowRevision(s.id)
	return &shadow
}

func (s *Stop) adoptContent(from Node) {
	src := from.(*Stop)
	s.stepID = src.stepID
	s.address = src.address.withID(s.address.id)
	s.sequence = src.sequence
	s.executionOrder = src.ExecutionOrder()
	s.status = src.status
}

func (s *Stop) setStepID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("stepID", err)
	}
	s.stepID = id
	return nil
}

func (s *Stop) setAddress(a Address) error {
	if err := a.id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("address", err)
	}
	s.address = a
	return nil
}

func (s *Stop) setSequence(sequence int) error {
	if sequence < 0 {
		return errs.NewValueIsOutOfRangeError("sequence", sequence, 0, "unbounded")
	}
	s.sequence = sequence
	return nil
}

func (s *Stop) setExecutionOrder(order *int) error {
	if order != nil && *order < 0 {
		return errs.NewValueIsOutOfRangeError("executionOrder", *order, 0, "unbounded")
	}
	if order == nil {
		s.executionOrder = nil
		return nil
	}
	v := *order
	s.executionOrder = &v
	return nil
}

func (s *Stop) setStatus(status StopStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	s.status = status
	return nil
}
