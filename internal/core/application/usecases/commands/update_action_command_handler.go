package commands

import (
	"context"

	"multistop/internal/core/domain/model/itinerary"
)

// UpdateActionCommandHandler patches actions. On a submitted order the patch
// is written to the action's shadow.
//
// Example:
//
//	handler := NewUpdateActionCommandHandler(session)
//	cmd, _ := NewUpdateActionCommand(orderID, clientID, actionID, patch)
//	result, err := handler.Handle(ctx, cmd)
//	// result.Entity may be a shadow of actionID
type UpdateActionCommandHandler struct {
	session *EditSession
}

// NewUpdateActionCommandHandler creates the handler on top of a shared edit session.
func NewUpdateActionCommandHandler(session *EditSession) UpdateActionCommandHandler {
	return UpdateActionCommandHandler{session: session}
}

// Handle resolves moved stop and transit item references to their anchors
// before applying the patch.
func (h UpdateActionCommandHandler) Handle(ctx context.Context, cmd UpdateActionCommand) (EditResult, error) {
	if err := cmd.Validate(); err != nil {
		return EditResult{}, err
	}

	return h.session.Run(ctx, cmd.OrderID(), cmd.ClientID(), func(tx *EditTx) (EditResult, error) {
		target, err := tx.Find(itinerary.ActionKind, cmd.ActionID())
		if err != nil {
			return EditResult{}, err
		}

		patch := cmd.Patch()
		if patch.StopID != nil {
			stopID, anchorErr := tx.Anchor(itinerary.StopKind, *patch.StopID)
			if anchorErr != nil {
				return EditResult{}, anchorErr
			}
			patch.StopID = &stopID
		}
		if patch.TransitItemID != nil {
			itemID, anchorErr := tx.Anchor(itinerary.TransitItemKind, *patch.TransitItemID)
			if anchorErr != nil {
				return EditResult{}, anchorErr
			}
			patch.TransitItemID = &itemID
		}

		return tx.Update(target, func(n itinerary.Node) error {
			return n.(*itinerary.Action).Apply(patch, tx.Now)
		})
	})
}
