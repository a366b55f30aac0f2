package commands

import (
	"context"

	"multistop/internal/core/domain/model/itinerary"
)

// UpdateStopCommandHandler patches stops and their addresses.
//
// Example:
//
//	handler := NewUpdateStopCommandHandler(session)
//	cmd, _ := NewUpdateStopCommand(orderID, clientID, stopID, patch)
//	result, err := handler.Handle(ctx, cmd)
type UpdateStopCommandHandler struct {
	session *EditSession
}

// NewUpdateStopCommandHandler creates the handler on top of a shared edit session.
func NewUpdateStopCommandHandler(session *EditSession) UpdateStopCommandHandler {
	return UpdateStopCommandHandler{session: session}
}

// Handle updates a stop. Moving it to another step references that step's
// original id.
func (h UpdateStopCommandHandler) Handle(ctx context.Context, cmd UpdateStopCommand) (EditResult, error) {
	if err := cmd.Validate(); err != nil {
		return EditResult{}, err
	}

	return h.session.Run(ctx, cmd.OrderID(), cmd.ClientID(), func(tx *EditTx) (EditResult, error) {
		target, err := tx.Find(itinerary.StopKind, cmd.StopID())
		if err != nil {
			return EditResult{}, err
		}

		patch := cmd.Patch()
		if patch.StepID != nil {
			stepID, anchorErr := tx.Anchor(itinerary.StepKind, *patch.StepID)
			if anchorErr != nil {
				return EditResult{}, anchorErr
			}
			patch.StepID = &stepID
		}

		return tx.Update(target, func(n itinerary.Node) error {
			return n.(*itinerary.Stop).Apply(patch)
		})
	})
}
