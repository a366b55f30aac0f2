package itinerary

import (
	"errors"
	"fmt"
	"time"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"
)

// StepStatus is the execution state of a step.
type StepStatus string

const (
	StepPending    StepStatus = "PENDING"
	StepInProgress StepStatus = "IN_PROGRESS"
	StepCompleted  StepStatus = "COMPLETED"
)

// Validate reports whether s is a known step status.
func (s StepStatus) Validate() error {
	switch s {
	case StepPending, StepInProgress, StepCompleted:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("step status", fmt.Errorf("%q is not a valid status", s))
	}
}

// Step is an ordered grouping of stops within an order.
type Step struct {
	id        kernel.UUID
	orderID   kernel.UUID
	sequence  int
	status    StepStatus
	revision  Revision
	createdAt time.Time
}

// StepPatch carries the fields an update may change; nil fields are kept.
type StepPatch struct {
	Sequence *int
	Status   *StepStatus
}

// NewStep creates a PENDING step.
//
// Parameters:
//   - id: Unique identifier of the step
//   - orderID: The order the step belongs to
//   - sequence: Client-declared position, must not be negative
//   - revision: Draft bookkeeping of the new row
//   - createdAt: Creation time
func NewStep(id, orderID kernel.UUID, sequence int, revision Revision, createdAt time.Time) (*Step, error) {
	return RestoreStep(id, orderID, sequence, StepPending, revision, createdAt)
}

// RestoreStep rebuilds a step read from storage.
func RestoreStep(
	id, orderID kernel.UUID,
	sequence int,
	status StepStatus,
	revision Revision,
	createdAt time.Time,
) (*Step, error) {
	s := &Step{revision: revision, createdAt: createdAt}
	if err := errors.Join(
		validateIDs(id, orderID),
		s.setSequence(sequence),
		s.setStatus(status),
	); err != nil {
		return nil, err
	}
	s.id = id
	s.orderID = orderID
	return s, nil
}

// ID returns the step's unique identifier.
func (s *Step) ID() kernel.UUID {
	return s.id
}

// OrderID returns the id of the order the step belongs to.
func (s *Step) OrderID() kernel.UUID {
	return s.orderID
}

// Kind returns StepKind.
func (s *Step) Kind() Kind {
	return StepKind
}

// Revision returns the step's draft bookkeeping.
func (s *Step) Revision() Revision {
	return s.revision
}

// ParentID returns nil; steps hang directly under the order.
func (s *Step) ParentID() *kernel.UUID {
	return nil
}

// CreatedAt returns when the step was created.
func (s *Step) CreatedAt() time.Time {
	return s.createdAt
}

// Sequence returns the client-declared position of the step.
func (s *Step) Sequence() int {
	return s.sequence
}

// Status returns the current execution state.
func (s *Step) Status() StepStatus {
	return s.status
}

func (s *Step) setRevision(r Revision) { s.revision = r }

// Apply validates the whole patch before changing anything.
func (s *Step) Apply(p StepPatch) error {
	next := *s
	var errsJoined []error
	if p.Sequence != nil {
		errsJoined = append(errsJoined, next.setSequence(*p.Sequence))
	}
	if p.Status != nil {
		errsJoined = append(errsJoined, next.setStatus(*p.Status))
	}
	if err := errors.Join(errsJoined...); err != nil {
		return err
	}
	*s = next
	return nil
}

func (s *Step) shadowCopy(id kernel.UUID) Node {
	shadow := *s
	shadow.id = id
	shadow.revision = ShadowRevision(s.id)
	return &shadow
}

func (s *Step) adoptContent(from Node) {
	src := from.(*Step)
	s.sequence = src.sequence
	s.status = src.status
}

func (s *Step) setSequence(sequence int) error {
	if sequence < 0 {
		return errs.NewValueIsOutOfRangeError("sequence", sequence, 0, "unbounded")
	}
	s.sequence = sequence
	return nil
}

func (s *Step) setStatus(status StepStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	s.status = status
	return nil
}

func validateIDs(id, orderID kernel.UUID) error {
	var joined []error
	if err := id.Validate(); err != nil {
		joined = append(joined, err)
	}
	if err := orderID.Validate(); err != nil {
		joined = append(joined, errs.NewValueIsRequiredErrorWithCause("orderID", err))
	}
	return errors.Join(joined...)
}
