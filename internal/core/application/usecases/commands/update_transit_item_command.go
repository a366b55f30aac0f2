package commands

import (
	"errors"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"
	"multistop/internal/pkg/guard"
)

var ErrUpdateTransitItemCommandIsNotConstructed = errors.New(
	"UpdateTransitItemCommand must be created via NewUpdateTransitItemCommand constructor",
)

// UpdateTransitItemCommand patches a transit item.
type UpdateTransitItemCommand struct { //nolint:recvcheck //using for validation
	orderRef
	itemID kernel.UUID
	patch  itinerary.TransitItemPatch

	guard guard.ConstructorGuard
}

// NewUpdateTransitItemCommand creates a command that patches a transit item.
func NewUpdateTransitItemCommand(
	orderID, clientID, itemID kernel.UUID,
	patch itinerary.TransitItemPatch,
) (UpdateTransitItemCommand, error) {
	ref, err := newOrderRef(orderID, clientID)
	if err != nil {
		return UpdateTransitItemCommand{}, err
	}
	if err = itemID.Validate(); err != nil {
		return UpdateTransitItemCommand{}, err
	}
	if patch.Name == nil && patch.WeightKg == nil && patch.Dimensions == nil && patch.Metadata == nil {
		return UpdateTransitItemCommand{}, errs.NewValueIsRequiredError("patch")
	}
	return UpdateTransitItemCommand{orderRef: ref, itemID: itemID, patch: patch, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateTransitItemCommandIsNotConstructed if validation fails.
func (c UpdateTransitItemCommand) Validate() error {
	return c.guard.Validate(ErrUpdateTransitItemCommandIsNotConstructed)
}

// ItemID returns the transit item to patch.
func (c UpdateTransitItemCommand) ItemID() kernel.UUID {
	return c.itemID
}

// Patch returns the fields to change.
func (c UpdateTransitItemCommand) Patch() itinerary.TransitItemPatch {
	return c.patch
}
