package commands

import (
	"context"

	"multistop/internal/core/domain/services"
)

// PushUpdatesCommandHandler publishes an order's pending edits to its drivers.
type PushUpdatesCommandHandler struct {
	session *EditSession
	engine  services.MergeEngine
}

// NewPushUpdatesCommandHandler creates the handler on top of a shared edit session.
func NewPushUpdatesCommandHandler(session *EditSession, engine services.MergeEngine) PushUpdatesCommandHandler {
	return PushUpdatesCommandHandler{session: session, engine: engine}
}

// Handle merges all shadows, promotes pending additions, deletes flagged rows
// and prunes orphaned transit items in one transaction.
func (h PushUpdatesCommandHandler) Handle(ctx context.Context, cmd PushUpdatesCommand) (EditResult, error) {
	if err := cmd.Validate(); err != nil {
		return EditResult{}, err
	}

	result, err := h.session.Run(ctx, cmd.OrderID(), cmd.ClientID(), func(tx *EditTx) (EditResult, error) {
		report, err := h.engine.Push(tx.Order, tx.Graph)
		if err != nil {
			return EditResult{}, err
		}
		tx.StableChanged()
		return EditResult{Merge: &report}, nil
	})
	if err != nil {
		return EditResult{}, err
	}
	mergesTotal.WithLabelValues("push").Inc()
	return result, nil
}

// RevertPendingChangesCommandHandler discards an order's pending edits.
type RevertPendingChangesCommandHandler struct {
	session *EditSession
	engine  services.MergeEngine
}

// NewRevertPendingChangesCommandHandler creates the handler on top of a shared edit session.
func NewRevertPendingChangesCommandHandler(
	session *EditSession,
	engine services.MergeEngine,
) RevertPendingChangesCommandHandler {
	return RevertPendingChangesCommandHandler{session: session, engine: engine}
}

// Handle restores the stable itinerary as of the last submit or push.
func (h RevertPendingChangesCommandHandler) Handle(
	ctx context.Context,
	cmd RevertPendingChangesCommand,
) (EditResult, error) {
	if err := cmd.Validate(); err != nil {
		return EditResult{}, err
	}

	result, err := h.session.Run(ctx, cmd.OrderID(), cmd.ClientID(), func(tx *EditTx) (EditResult, error) {
		report, err := h.engine.Revert(tx.Order, tx.Graph)
		if err != nil {
			return EditResult{}, err
		}
		return EditResult{Merge: &report}, nil
	})
	if err != nil {
		return EditResult{}, err
	}
	mergesTotal.WithLabelValues("revert").Inc()
	return result, nil
}
