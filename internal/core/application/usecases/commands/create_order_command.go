package commands

import (
	"errors"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrCompanyIsRequired      = errors.New("company is required for internal assignment")
	ErrTargetDriverIsRequired = errors.New("target driver is required for target assignment")
)

// CreateOrderCommand represents a request to open a new order in DRAFT.
// The itinerary is built with the add commands before the order is submitted.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), clientID, order.Internal, &companyID, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderRef
	mode           order.AssignmentMode
	companyID      *kernel.UUID
	targetDriverID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the assignment mode against the company and
// target driver it needs.
func NewCreateOrderCommand(
	orderID, clientID kernel.UUID,
	mode order.AssignmentMode,
	companyID, targetDriverID *kernel.UUID,
) (CreateOrderCommand, error) {
	ref, err := newOrderRef(orderID, clientID)
	if err != nil {
		return CreateOrderCommand{}, err
	}
	if err = mode.Validate(); err != nil {
		return CreateOrderCommand{}, err
	}
	if mode == order.Internal && companyID == nil {
		return CreateOrderCommand{}, ErrCompanyIsRequired
	}
	if mode == order.Target && targetDriverID == nil {
		return CreateOrderCommand{}, ErrTargetDriverIsRequired
	}

	return CreateOrderCommand{
		orderRef:       ref,
		mode:           mode,
		companyID:      companyID,
		targetDriverID: targetDriverID,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// AssignmentMode returns how the order will be dispatched.
func (c CreateOrderCommand) AssignmentMode() order.AssignmentMode {
	return c.mode
}

// CompanyID returns the company for internal assignment, or nil.
func (c CreateOrderCommand) CompanyID() *kernel.UUID {
	return c.companyID
}

// TargetDriverID returns the driver for target assignment, or nil.
func (c CreateOrderCommand) TargetDriverID() *kernel.UUID {
	return c.targetDriverID
}
