package commands

import (
	"errors"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"
	"multistop/internal/pkg/guard"
)

var ErrUpdateActionCommandIsNotConstructed = errors.New(
	"UpdateActionCommand must be created via NewUpdateActionCommand constructor",
)

// UpdateActionCommand patches an action. Stop and transit item references may
// point at shadows and are resolved to their anchors by the handler.
type UpdateActionCommand struct { //nolint:recvcheck //using for validation
	orderRef
	actionID kernel.UUID
	patch    itinerary.ActionPatch

	guard guard.ConstructorGuard
}

// NewUpdateActionCommand creates a command that patches an action.
// An empty patch is rejected.
func NewUpdateActionCommand(
	orderID, clientID, actionID kernel.UUID,
	patch itinerary.ActionPatch,
) (UpdateActionCommand, error) {
	ref, err := newOrderRef(orderID, clientID)
	if err != nil {
		return UpdateActionCommand{}, err
	}
	if err = actionID.Validate(); err != nil {
		return UpdateActionCommand{}, err
	}
	if patch == (itinerary.ActionPatch{}) {
		return UpdateActionCommand{}, errs.NewValueIsRequiredError("patch")
	}
	return UpdateActionCommand{orderRef: ref, actionID: actionID, patch: patch, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateActionCommandIsNotConstructed if validation fails.
func (c UpdateActionCommand) Validate() error {
	return c.guard.Validate(ErrUpdateActionCommandIsNotConstructed)
}

// ActionID returns the action to patch.
func (c UpdateActionCommand) ActionID() kernel.UUID {
	return c.actionID
}

// Patch returns the fields to change.
func (c UpdateActionCommand) Patch() itinerary.ActionPatch {
	return c.patch
}
