package commands

import (
	"context"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
)

// AddStepCommandHandler appends steps to an order's itinerary.
//
// Example:
//
//	handler := NewAddStepCommandHandler(session)
//	cmd, _ := NewAddStepCommand(orderID, clientID, 1)
//	result, err := handler.Handle(ctx, cmd)
//	// result.Entity is the new step
type AddStepCommandHandler struct {
	session *EditSession
}

// NewAddStepCommandHandler creates the handler on top of a shared edit session.
func NewAddStepCommandHandler(session *EditSession) AddStepCommandHandler {
	return AddStepCommandHandler{session: session}
}

// Handle adds a step. After submission the step is a pending addition
// until the next push.
func (h AddStepCommandHandler) Handle(ctx context.Context, cmd AddStepCommand) (EditResult, error) {
	if err := cmd.Validate(); err != nil {
		return EditResult{}, err
	}

	return h.session.Run(ctx, cmd.OrderID(), cmd.ClientID(), func(tx *EditTx) (EditResult, error) {
		step, err := itinerary.NewStep(kernel.NewUUID(), tx.Order.ID(), cmd.Sequence(), tx.NewRevision(), tx.Now)
		if err != nil {
			return EditResult{}, err
		}
		return tx.Add(step)
	})
}
