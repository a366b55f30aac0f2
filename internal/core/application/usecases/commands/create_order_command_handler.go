package commands

import (
	"context"
	"errors"

	"multistop/internal/core/domain/model/order"
	"multistop/internal/pkg/errs"
)

// CreateOrderCommandHandler opens DRAFT orders. Creating an id that already
// exists for the same client is a no-op, so clients may retry with the id they
// chose.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	cmd, _ := NewCreateOrderCommand(kernel.NewUUID(), clientID, order.Global, nil, nil)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order creation.
// Requires an OrderUoWFactory for transactional persistence.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{uowFactory: uowFactory}
}

// Handle stores the order in DRAFT. An existing order with the same id is
// accepted only when it belongs to the same client.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.ClientID(), cmd.AssignmentMode(), cmd.CompanyID(), cmd.TargetDriverID())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	existing, err := repo.Get(ctx, cmd.OrderID())
	switch {
	case err == nil:
		return existing.EnsureOwnedBy(cmd.ClientID())
	case !errors.Is(err, errs.ErrObjectNotFound):
		return err
	}

	if err = repo.Add(ctx, o); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
