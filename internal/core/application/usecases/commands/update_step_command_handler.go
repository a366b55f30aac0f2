package commands

import (
	"context"

	"multistop/internal/core/domain/model/itinerary"
)

// UpdateStepCommandHandler patches steps.
//
// Example:
//
//	handler := NewUpdateStepCommandHandler(session)
//	cmd, _ := NewUpdateStepCommand(orderID, clientID, stepID, patch)
//	result, err := handler.Handle(ctx, cmd)
type UpdateStepCommandHandler struct {
	session *EditSession
}

// NewUpdateStepCommandHandler creates the handler on top of a shared edit session.
func NewUpdateStepCommandHandler(session *EditSession) UpdateStepCommandHandler {
	return UpdateStepCommandHandler{session: session}
}

// Handle updates a step. The first update of a stable step of a submitted
// order shadows the step together with its stops and their actions.
func (h UpdateStepCommandHandler) Handle(ctx context.Context, cmd UpdateStepCommand) (EditResult, error) {
	if err := cmd.Validate(); err != nil {
		return EditResult{}, err
	}

	return h.session.Run(ctx, cmd.OrderID(), cmd.ClientID(), func(tx *EditTx) (EditResult, error) {
		target, err := tx.Find(itinerary.StepKind, cmd.StepID())
		if err != nil {
			return EditResult{}, err
		}
		return tx.Update(target, func(n itinerary.Node) error {
			return n.(*itinerary.Step).Apply(cmd.Patch())
		})
	})
}
