package commands

import (
	"errors"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/guard"
)

var (
	ErrSubmitOrderCommandIsNotConstructed = errors.New(
		"SubmitOrderCommand must be created via NewSubmitOrderCommand constructor",
	)
	ErrPushUpdatesCommandIsNotConstructed = errors.New(
		"PushUpdatesCommand must be created via NewPushUpdatesCommand constructor",
	)
	ErrRevertPendingChangesCommandIsNotConstructed = errors.New(
		"RevertPendingChangesCommand must be created via NewRevertPendingChangesCommand constructor",
	)
)

// SubmitOrderCommand moves a DRAFT order to PENDING, freezing its itinerary
// as the baseline later edits shadow.
type SubmitOrderCommand struct { //nolint:recvcheck //using for validation
	orderRef
	guard guard.ConstructorGuard
}

// NewSubmitOrderCommand creates a command that moves a DRAFT order to PENDING.
func NewSubmitOrderCommand(orderID, clientID kernel.UUID) (SubmitOrderCommand, error) {
	ref, err := newOrderRef(orderID, clientID)
	if err != nil {
		return SubmitOrderCommand{}, err
	}
	return SubmitOrderCommand{orderRef: ref, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSubmitOrderCommandIsNotConstructed if validation fails.
func (c SubmitOrderCommand) Validate() error {
	return c.guard.Validate(ErrSubmitOrderCommandIsNotConstructed)
}

// PushUpdatesCommand merges every pending change of an order into its stable
// itinerary.
type PushUpdatesCommand struct { //nolint:recvcheck //using for validation
	orderRef
	guard guard.ConstructorGuard
}

// NewPushUpdatesCommand creates a command that merges pending edits into the itinerary.
func NewPushUpdatesCommand(orderID, clientID kernel.UUID) (PushUpdatesCommand, error) {
	ref, err := newOrderRef(orderID, clientID)
	if err != nil {
		return PushUpdatesCommand{}, err
	}
	return PushUpdatesCommand{orderRef: ref, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrPushUpdatesCommandIsNotConstructed if validation fails.
func (c PushUpdatesCommand) Validate() error {
	return c.guard.Validate(ErrPushUpdatesCommandIsNotConstructed)
}

// RevertPendingChangesCommand discards every pending change of an order.
type RevertPendingChangesCommand struct { //nolint:recvcheck //using for validation
	orderRef
	guard guard.ConstructorGuard
}

// NewRevertPendingChangesCommand creates a command that discards pending edits.
func NewRevertPendingChangesCommand(orderID, clientID kernel.UUID) (RevertPendingChangesCommand, error) {
	ref, err := newOrderRef(orderID, clientID)
	if err != nil {
		return RevertPendingChangesCommand{}, err
	}
	return RevertPendingChangesCommand{orderRef: ref, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRevertPendingChangesCommandIsNotConstructed if validation fails.
func (c RevertPendingChangesCommand) Validate() error {
	return c.guard.Validate(ErrRevertPendingChangesCommandIsNotConstructed)
}
