package commands

import (
	"context"
	"log/slog"
	"time"

	"multistop/internal/core/domain/model/order"
	"multistop/internal/core/domain/model/route"
	"multistop/internal/core/domain/services"
	"multistop/internal/pkg/errs"
)

// OrderDispatchTrigger starts the offer protocol for an order.
type OrderDispatchTrigger interface {
	Handle(ctx context.Context, cmd DispatchOrderCommand) (DispatchResult, error)
}

// SubmitOrderCommandHandler freezes a DRAFT order's itinerary and hands the
// order to dispatch.
type SubmitOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	engine     services.MergeEngine
	effects    *SideEffects
	dispatch   OrderDispatchTrigger
	clock      Clock
	logger     *slog.Logger
}

// NewSubmitOrderCommandHandler accepts a nil dispatch trigger; the expiry
// sweep picks up unoffered orders in that case.
func NewSubmitOrderCommandHandler(
	uowFactory OrderUoWFactory,
	engine services.MergeEngine,
	effects *SideEffects,
	dispatch OrderDispatchTrigger,
	clock Clock,
	logger *slog.Logger,
) (*SubmitOrderCommandHandler, error) {
	if uowFactory == nil {
		return nil, errs.NewValueIsRequiredError("uowFactory")
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmitOrderCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
		effects:    effects,
		dispatch:   dispatch,
		clock:      clock,
		logger:     logger.With("component", "submit-order"),
	}, nil
}

// Handle commits the submission first. Route invalidation, the status event and
// the first dispatch attempt follow; a dispatch failure is logged, not
// returned.
func (h *SubmitOrderCommandHandler) Handle(ctx context.Context, cmd SubmitOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	o, err := h.submit(ctx, cmd)
	if err != nil {
		return err
	}

	h.effects.InvalidateRoutes(ctx, o.ID(), route.Draft, route.Stable)
	h.effects.Publish(ctx, order.NewEvent(order.StatusChanged, o, nil, h.clock()))

	if h.dispatch == nil {
		return nil
	}
	dispatchCmd, err := NewDispatchOrderCommand(o.ID())
	if err == nil {
		_, err = h.dispatch.Handle(ctx, dispatchCmd)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "dispatch after submit failed",
			"order_id", o.ID().String(), "error", err)
	}
	return nil
}

func (h *SubmitOrderCommandHandler) submit(ctx context.Context, cmd SubmitOrderCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if err = o.EnsureOwnedBy(cmd.ClientID()); err != nil {
		return nil, err
	}

	g, err := uow.ItineraryRepository().Load(ctx, o.ID())
	if err != nil {
		return nil, err
	}
	if _, err = h.engine.Submit(o, g); err != nil {
		return nil, err
	}

	if err = uow.ItineraryRepository().Save(ctx, g); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}
