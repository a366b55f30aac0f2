package commands

import (
	"context"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
)

// AddStopCommandHandler adds stops with their address to steps.
//
// Example:
//
//	handler := NewAddStopCommandHandler(session)
//	cmd, _ := NewAddStopCommand(orderID, clientID, stepID, address, 1)
//	result, err := handler.Handle(ctx, cmd)
type AddStopCommandHandler struct {
	session *EditSession
}

// NewAddStopCommandHandler creates the handler on top of a shared edit session.
func NewAddStopCommandHandler(session *EditSession) AddStopCommandHandler {
	return AddStopCommandHandler{session: session}
}

// Handle adds a stop referencing the step's original id, never a shadow's.
func (h AddStopCommandHandler) Handle(ctx context.Context, cmd AddStopCommand) (EditResult, error) {
	if err := cmd.Validate(); err != nil {
		return EditResult{}, err
	}

	return h.session.Run(ctx, cmd.OrderID(), cmd.ClientID(), func(tx *EditTx) (EditResult, error) {
		stepID, err := tx.Anchor(itinerary.StepKind, cmd.StepID())
		if err != nil {
			return EditResult{}, err
		}
		address, err := itinerary.NewAddress(kernel.NewUUID(), cmd.Address())
		if err != nil {
			return EditResult{}, err
		}
		stop, err := itinerary.NewStop(kernel.NewUUID(), tx.Order.ID(), stepID, address,
			cmd.Sequence(), tx.NewRevision(), tx.Now)
		if err != nil {
			return EditResult{}, err
		}
		return tx.Add(stop)
	})
}
