package commands

import (
	"context"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
)

// AddTransitItemCommandHandler registers transit items on an order.
//
// Example:
//
//	handler := NewAddTransitItemCommandHandler(session)
//	cmd, _ := NewAddTransitItemCommand(orderID, clientID, spec)
//	result, err := handler.Handle(ctx, cmd)
type AddTransitItemCommandHandler struct {
	session *EditSession
}

// NewAddTransitItemCommandHandler creates the handler on top of a shared edit session.
func NewAddTransitItemCommandHandler(session *EditSession) AddTransitItemCommandHandler {
	return AddTransitItemCommandHandler{session: session}
}

// Handle adds a transit item. It stays hidden from the client view until an
// action references it.
func (h AddTransitItemCommandHandler) Handle(ctx context.Context, cmd AddTransitItemCommand) (EditResult, error) {
	if err := cmd.Validate(); err != nil {
		return EditResult{}, err
	}

	return h.session.Run(ctx, cmd.OrderID(), cmd.ClientID(), func(tx *EditTx) (EditResult, error) {
		item, err := itinerary.NewTransitItem(kernel.NewUUID(), tx.Order.ID(), cmd.Spec(), tx.NewRevision(), tx.Now)
		if err != nil {
			return EditResult{}, err
		}
		return tx.Add(item)
	})
}
