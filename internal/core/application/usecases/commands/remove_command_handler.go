package commands

import (
	"context"
)

// RemoveCommandHandler removes steps, stops and actions.
//
// Example:
//
//	handler := NewRemoveCommandHandler(session)
//	cmd, _ := NewRemoveStopCommand(orderID, clientID, stopID)
//	result, err := handler.Handle(ctx, cmd)
//	// result.Removal tells whether the row was deleted or flagged
type RemoveCommandHandler struct {
	session *EditSession
}

// NewRemoveCommandHandler creates the handler on top of a shared edit session.
func NewRemoveCommandHandler(session *EditSession) RemoveCommandHandler {
	return RemoveCommandHandler{session: session}
}

// Handle deletes draft rows, pending additions and shadows with their
// dependents. A stable row of a submitted order is only flagged: drivers
// keep seeing it until the next push.
func (h RemoveCommandHandler) Handle(ctx context.Context, cmd RemoveCommand) (EditResult, error) {
	if err := cmd.Validate(); err != nil {
		return EditResult{}, err
	}

	return h.session.Run(ctx, cmd.OrderID(), cmd.ClientID(), func(tx *EditTx) (EditResult, error) {
		target, err := tx.Find(cmd.Kind(), cmd.EntityID())
		if err != nil {
			return EditResult{}, err
		}
		return tx.Remove(target)
	})
}

