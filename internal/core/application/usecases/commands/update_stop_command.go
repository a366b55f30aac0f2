package commands

import (
	"errors"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"
	"multistop/internal/pkg/guard"
)

var ErrUpdateStopCommandIsNotConstructed = errors.New(
	"UpdateStopCommand must be created via NewUpdateStopCommand constructor",
)

// UpdateStopCommand patches a stop and its address.
type UpdateStopCommand struct { //nolint:recvcheck //using for validation
	orderRef
	stopID kernel.UUID
	patch  itinerary.StopPatch

	guard guard.ConstructorGuard
}

// NewUpdateStopCommand creates a command that patches a stop or its address.
func NewUpdateStopCommand(orderID, clientID, stopID kernel.UUID, patch itinerary.StopPatch) (UpdateStopCommand, error) {
	ref, err := newOrderRef(orderID, clientID)
	if err != nil {
		return UpdateStopCommand{}, err
	}
	if err = stopID.Validate(); err != nil {
		return UpdateStopCommand{}, err
	}
	if patch == (itinerary.StopPatch{}) {
		return UpdateStopCommand{}, errs.NewValueIsRequiredError("patch")
	}
	return UpdateStopCommand{orderRef: ref, stopID: stopID, patch: patch, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateStopCommandIsNotConstructed if validation fails.
func (c UpdateStopCommand) Validate() error {
	return c.guard.Validate(ErrUpdateStopCommandIsNotConstructed)
}

// StopID returns the stop to patch.
func (c UpdateStopCommand) StopID() kernel.UUID {
	return c.stopID
}

// Patch returns the fields to change.
func (c UpdateStopCommand) Patch() itinerary.StopPatch {
	return c.patch
}
