package commands

import (
	"errors"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"
	"multistop/internal/pkg/guard"
)

var ErrUpdateStepCommandIsNotConstructed = errors.New(
	"UpdateStepCommand must be created via NewUpdateStepCommand constructor",
)

// UpdateStepCommand patches a step.
type UpdateStepCommand struct { //nolint:recvcheck //using for validation
	orderRef
	stepID kernel.UUID
	patch  itinerary.StepPatch

	guard guard.ConstructorGuard
}

// NewUpdateStepCommand creates a command that patches a step.
func NewUpdateStepCommand(orderID, clientID, stepID kernel.UUID, patch itinerary.StepPatch) (UpdateStepCommand, error) {
	ref, err := newOrderRef(orderID, clientID)
	if err != nil {
		return UpdateStepCommand{}, err
	}
	if err = stepID.Validate(); err != nil {
		return UpdateStepCommand{}, err
	}
	if patch == (itinerary.StepPatch{}) {
		return UpdateStepCommand{}, errs.NewValueIsRequiredError("patch")
	}
	return UpdateStepCommand{orderRef: ref, stepID: stepID, patch: patch, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateStepCommandIsNotConstructed if validation fails.
func (c UpdateStepCommand) Validate() error {
	return c.guard.Validate(ErrUpdateStepCommandIsNotConstructed)
}

// StepID returns the step to patch.
func (c UpdateStepCommand) StepID() kernel.UUID {
	return c.stepID
}

// Patch returns the fields to change.
func (c UpdateStepCommand) Patch() itinerary.StepPatch {
	return c.patch
}
