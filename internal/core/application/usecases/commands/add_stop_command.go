package commands

import (
	"errors"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"
	"multistop/internal/pkg/guard"
)

var ErrAddStopCommandIsNotConstructed = errors.New(
	"AddStopCommand must be created via NewAddStopCommand constructor",
)

// AddStopCommand adds a stop under a step. The step may be given by its
// original id or by the id of its shadow.
type AddStopCommand struct { //nolint:recvcheck //using for validation
	orderRef
	stepID   kernel.UUID
	address  itinerary.AddressInput
	sequence int

	guard guard.ConstructorGuard
}

// NewAddStopCommand creates a command that adds a stop with its address to a step.
func NewAddStopCommand(
	orderID, clientID, stepID kernel.UUID,
	address itinerary.AddressInput,
	sequence int,
) (AddStopCommand, error) {
	ref, err := newOrderRef(orderID, clientID)
	if err != nil {
		return AddStopCommand{}, err
	}
	if err = stepID.Validate(); err != nil {
		return AddStopCommand{}, err
	}
	if sequence < 0 {
		return AddStopCommand{}, errs.NewValueIsOutOfRangeError("sequence", sequence, 0, nil)
	}
	return AddStopCommand{
		orderRef: ref,
		stepID:   stepID,
		address:  address,
		sequence: sequence,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAddStopCommandIsNotConstructed if validation fails.
func (c AddStopCommand) Validate() error {
	return c.guard.Validate(ErrAddStopCommandIsNotConstructed)
}

// StepID returns the parent step.
func (c AddStopCommand) StepID() kernel.UUID {
	return c.stepID
}

// Address returns the address the stop is created with.
func (c AddStopCommand) Address() itinerary.AddressInput {
	return c.address
}

// Sequence returns the ordinal of the stop inside its step.
func (c AddStopCommand) Sequence() int {
	return c.sequence
}
