package commands

import (
	"errors"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"
	"multistop/internal/pkg/guard"
)

var ErrAddTransitItemCommandIsNotConstructed = errors.New(
	"AddTransitItemCommand must be created via NewAddTransitItemCommand constructor",
)

// AddTransitItemCommand registers a transit item that actions can reference.
type AddTransitItemCommand struct { //nolint:recvcheck //using for validation
	orderRef
	spec itinerary.TransitItemSpec

	guard guard.ConstructorGuard
}

// NewAddTransitItemCommand creates a command that registers a transit item on the order.
func NewAddTransitItemCommand(orderID, clientID kernel.UUID, spec itinerary.TransitItemSpec) (AddTransitItemCommand, error) {
	ref, err := newOrderRef(orderID, clientID)
	if err != nil {
		return AddTransitItemCommand{}, err
	}
	if spec.Name == "" {
		return AddTransitItemCommand{}, errs.NewValueIsRequiredError("name")
	}
	return AddTransitItemCommand{orderRef: ref, spec: spec, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAddTransitItemCommandIsNotConstructed if validation fails.
func (c AddTransitItemCommand) Validate() error {
	return c.guard.Validate(ErrAddTransitItemCommandIsNotConstructed)
}

// Spec returns the transit item content to create.
func (c AddTransitItemCommand) Spec() itinerary.TransitItemSpec {
	return c.spec
}
