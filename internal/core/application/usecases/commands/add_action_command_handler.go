package commands

import (
	"context"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
)

// AddActionCommandHandler adds actions to stops.
//
// Example:
//
//	handler := NewAddActionCommandHandler(session)
//	cmd, _ := NewAddActionCommand(orderID, clientID, stopID, spec)
//	result, err := handler.Handle(ctx, cmd)
type AddActionCommandHandler struct {
	session *EditSession
}

// NewAddActionCommandHandler creates the handler on top of a shared edit session.
func NewAddActionCommandHandler(session *EditSession) AddActionCommandHandler {
	return AddActionCommandHandler{session: session}
}

// Handle adds an action anchored to the original stop and transit item, so
// an action added to a shadow stop survives a push and disappears on revert.
func (h AddActionCommandHandler) Handle(ctx context.Context, cmd AddActionCommand) (EditResult, error) {
	if err := cmd.Validate(); err != nil {
		return EditResult{}, err
	}

	return h.session.Run(ctx, cmd.OrderID(), cmd.ClientID(), func(tx *EditTx) (EditResult, error) {
		stopID, err := tx.Anchor(itinerary.StopKind, cmd.StopID())
		if err != nil {
			return EditResult{}, err
		}

		spec := cmd.Spec()
		if spec.TransitItemID != nil {
			itemID, anchorErr := tx.Anchor(itinerary.TransitItemKind, *spec.TransitItemID)
			if anchorErr != nil {
				return EditResult{}, anchorErr
			}
			spec.TransitItemID = &itemID
		}

		action, err := itinerary.NewAction(kernel.NewUUID(), tx.Order.ID(), stopID, spec, tx.NewRevision(), tx.Now)
		if err != nil {
			return EditResult{}, err
		}
		return tx.Add(action)
	})
}
