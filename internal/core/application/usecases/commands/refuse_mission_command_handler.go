package commands

import (
	"context"
	"log/slog"
	"time"

	"multistop/internal/core/domain/model/assignment"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/core/ports"
	"multistop/internal/pkg/errs"
)

// offerWithdrawal ends a driver's offer: the driver is remembered as rejected
// for the order, released in the live store, and the order is dispatched
// again. Refusal and expiry share it.
type offerWithdrawal struct {
	store    ports.DriverStateStore
	dispatch OrderDispatchTrigger
	effects  *SideEffects
	logger   *slog.Logger
}

func (w offerWithdrawal) record(
	ctx context.Context,
	uow UoW,
	o *order.Order,
	driverID kernel.UUID,
	reason assignment.RejectionReason,
	at time.Time,
) error {
	rejection, err := assignment.NewRejection(o.ID(), driverID, reason, at)
	if err != nil {
		return err
	}
	if err = uow.RejectionRepository().Add(ctx, rejection); err != nil {
		return err
	}
	return uow.OrderRepository().Update(ctx, o)
}

// afterCommit runs the side effects of a committed withdrawal and returns the
// follow-up offer, if one was placed.
func (w offerWithdrawal) afterCommit(ctx context.Context, o *order.Order, driverID kernel.UUID, at time.Time) DispatchResult {
	if _, err := w.store.Release(ctx, driverID, o.ID(), at); err != nil {
		w.effects.LiveStoreFailed(ctx, "release", driverID, o.ID(), err)
	}
	w.effects.Publish(ctx, order.NewEvent(order.OfferWithdrawn, o, &driverID, at))

	result := DispatchResult{OrderID: o.ID()}
	if w.dispatch == nil {
		return result
	}
	cmd, err := NewDispatchOrderCommand(o.ID())
	if err == nil {
		result, err = w.dispatch.Handle(ctx, cmd)
	}
	if err != nil {
		w.logger.WarnContext(ctx, "re-dispatch failed", "order_id", o.ID().String(), "error", err)
	}
	return result
}

// RefuseMissionCommandHandler handles a driver declining their offer.
type RefuseMissionCommandHandler struct {
	uowFactory UoWFactory
	withdrawal offerWithdrawal
	clock      Clock
}

// NewRefuseMissionCommandHandler builds the handler. dispatch may be nil, in
// which case the next offer waits for the sweep.
func NewRefuseMissionCommandHandler(
	uowFactory UoWFactory,
	store ports.DriverStateStore,
	dispatch OrderDispatchTrigger,
	effects *SideEffects,
	clock Clock,
	logger *slog.Logger,
) (*RefuseMissionCommandHandler, error) {
	if uowFactory == nil {
		return nil, errs.NewValueIsRequiredError("uowFactory")
	}
	if store == nil {
		return nil, errs.NewValueIsRequiredError("store")
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RefuseMissionCommandHandler{
		uowFactory: uowFactory,
		withdrawal: offerWithdrawal{
			store:    store,
			dispatch: dispatch,
			effects:  effects,
			logger:   logger.With("component", "refuse-mission"),
		},
		clock: clock,
	}, nil
}

// Handle returns the offer placed to the next driver, if any.
func (h *RefuseMissionCommandHandler) Handle(ctx context.Context, cmd RefuseMissionCommand) (DispatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return DispatchResult{}, err
	}

	now := h.clock()
	o, err := h.refuse(ctx, cmd, now)
	if err != nil {
		return DispatchResult{}, err
	}
	offersTotal.WithLabelValues("refused").Inc()

	return h.withdrawal.afterCommit(ctx, o, cmd.DriverID(), now), nil
}

func (h *RefuseMissionCommandHandler) refuse(ctx context.Context, cmd RefuseMissionCommand, now time.Time) (*order.Order, error) {
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
	if err = o.RefuseOffer(cmd.DriverID()); err != nil {
		return nil, err
	}
	if err = h.withdrawal.record(ctx, uow, o, cmd.DriverID(), assignment.Refused, now); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}
