package commands

import (
	"context"

	"multistop/internal/core/domain/model/itinerary"
)

// UpdateTransitItemCommandHandler patches transit items.
//
// Example:
//
//	handler := NewUpdateTransitItemCommandHandler(session)
//	cmd, _ := NewUpdateTransitItemCommand(orderID, clientID, itemID, patch)
//	result, err := handler.Handle(ctx, cmd)
type UpdateTransitItemCommandHandler struct {
	session *EditSession
}

// NewUpdateTransitItemCommandHandler creates the handler on top of a shared edit session.
func NewUpdateTransitItemCommandHandler(session *EditSession) UpdateTransitItemCommandHandler {
	return UpdateTransitItemCommandHandler{session: session}
}

// Handle applies the patch to the transit item or to its shadow.
func (h UpdateTransitItemCommandHandler) Handle(ctx context.Context, cmd UpdateTransitItemCommand) (EditResult, error) {
	if err := cmd.Validate(); err != nil {
		return EditResult{}, err
	}

	return h.session.Run(ctx, cmd.OrderID(), cmd.ClientID(), func(tx *EditTx) (EditResult, error) {
		target, err := tx.Find(itinerary.TransitItemKind, cmd.ItemID())
		if err != nil {
			return EditResult{}, err
		}
		return tx.Update(target, func(n itinerary.Node) error {
			return n.(*itinerary.TransitItem).Apply(cmd.Patch())
		})
	})
}
