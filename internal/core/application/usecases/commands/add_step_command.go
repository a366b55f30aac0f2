package commands

import (
	"errors"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"
	"multistop/internal/pkg/guard"
)

var ErrAddStepCommandIsNotConstructed = errors.New(
	"AddStepCommand must be created via NewAddStepCommand constructor",
)

// AddStepCommand appends a step to an order's itinerary.
//
// Example:
//
//	cmd, err := NewAddStepCommand(orderID, clientID, 2)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type AddStepCommand struct { //nolint:recvcheck //using for validation
	orderRef
	sequence int

	guard guard.ConstructorGuard
}

// NewAddStepCommand creates a command that appends a step at the given sequence.
// Returns an error if an identifier is invalid or the sequence is negative.
func NewAddStepCommand(orderID, clientID kernel.UUID, sequence int) (AddStepCommand, error) {
	ref, err := newOrderRef(orderID, clientID)
	if err != nil {
		return AddStepCommand{}, err
	}
	if sequence < 0 {
		return AddStepCommand{}, errs.NewValueIsOutOfRangeError("sequence", sequence, 0, nil)
	}
	return AddStepCommand{orderRef: ref, sequence: sequence, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAddStepCommandIsNotConstructed if validation fails.
func (c AddStepCommand) Validate() error {
	return c.guard.Validate(ErrAddStepCommandIsNotConstructed)
}

// Sequence returns the requested ordinal of the step.
func (c AddStepCommand) Sequence() int {
	return c.sequence
}
