package commands

import (
	"errors"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/guard"
)

var ErrAddActionCommandIsNotConstructed = errors.New(
	"AddActionCommand must be created via NewAddActionCommand constructor",
)

// AddActionCommand adds a pickup, delivery or service at a stop.
type AddActionCommand struct { //nolint:recvcheck //using for validation
	orderRef
	stopID kernel.UUID
	spec   itinerary.ActionSpec

	guard guard.ConstructorGuard
}

// NewAddActionCommand creates a command that attaches an action to a stop.
// Returns an error if any identifier is invalid or the action content fails validation.
func NewAddActionCommand(orderID, clientID, stopID kernel.UUID, spec itinerary.ActionSpec) (AddActionCommand, error) {
	ref, err := newOrderRef(orderID, clientID)
	if err != nil {
		return AddActionCommand{}, err
	}
	if err = stopID.Validate(); err != nil {
		return AddActionCommand{}, err
	}
	if err = spec.Type.Validate(); err != nil {
		return AddActionCommand{}, err
	}
	return AddActionCommand{orderRef: ref, stopID: stopID, spec: spec, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAddActionCommandIsNotConstructed if validation fails.
func (c AddActionCommand) Validate() error {
	return c.guard.Validate(ErrAddActionCommandIsNotConstructed)
}

// StopID returns the stop that receives the action.
func (c AddActionCommand) StopID() kernel.UUID {
	return c.stopID
}

// Spec returns the action content to create.
func (c AddActionCommand) Spec() itinerary.ActionSpec {
	return c.spec
}
