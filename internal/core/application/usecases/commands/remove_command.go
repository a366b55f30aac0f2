package commands

import (
	"errors"
	"fmt"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"
	"multistop/internal/pkg/guard"
)

var ErrRemoveCommandIsNotConstructed = errors.New(
	"RemoveCommand must be created via NewRemoveStepCommand, NewRemoveStopCommand or NewRemoveActionCommand",
)

// RemoveCommand removes a step, stop or action. Transit items are not
// removed directly; they are pruned once no action references them.
type RemoveCommand struct { //nolint:recvcheck //using for validation
	orderRef
	kind     itinerary.Kind
	entityID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRemoveStepCommand creates a command that removes a step with its subtree.
func NewRemoveStepCommand(orderID, clientID, stepID kernel.UUID) (RemoveCommand, error) {
	return newRemoveCommand(orderID, clientID, itinerary.StepKind, stepID)
}

// NewRemoveStopCommand creates a command that removes a stop with its actions.
func NewRemoveStopCommand(orderID, clientID, stopID kernel.UUID) (RemoveCommand, error) {
	return newRemoveCommand(orderID, clientID, itinerary.StopKind, stopID)
}

// NewRemoveActionCommand creates a command that removes a single action.
func NewRemoveActionCommand(orderID, clientID, actionID kernel.UUID) (RemoveCommand, error) {
	return newRemoveCommand(orderID, clientID, itinerary.ActionKind, actionID)
}

func newRemoveCommand(orderID, clientID kernel.UUID, kind itinerary.Kind, id kernel.UUID) (RemoveCommand, error) {
	ref, err := newOrderRef(orderID, clientID)
	if err != nil {
		return RemoveCommand{}, err
	}
	if err = id.Validate(); err != nil {
		return RemoveCommand{}, err
	}
	if kind == itinerary.TransitItemKind {
		return RemoveCommand{}, errs.NewValueIsInvalidErrorWithCause("kind",
			fmt.Errorf("%s rows are pruned, not removed", kind))
	}
	return RemoveCommand{orderRef: ref, kind: kind, entityID: id, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRemoveCommandIsNotConstructed if validation fails.
func (c RemoveCommand) Validate() error {
	return c.guard.Validate(ErrRemoveCommandIsNotConstructed)
}

// Kind returns the kind of node being removed.
func (c RemoveCommand) Kind() itinerary.Kind {
	return c.kind
}

// EntityID returns the node being removed.
func (c RemoveCommand) EntityID() kernel.UUID {
	return c.entityID
}
