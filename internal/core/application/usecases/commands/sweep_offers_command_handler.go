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

// SweepReport counts what one sweep did.
type SweepReport struct {
	Expired int
	Offered int
	Failed  int
}

// SweepOffersCommandHandler treats every expired offer as an implicit
// refusal and retries dispatch for unoffered orders. Each order is handled in
// its own transaction; a failure is logged and the scan moves on.
type SweepOffersCommandHandler struct {
	uowFactory UoWFactory
	dispatch   OrderDispatchTrigger
	withdrawal offerWithdrawal
	logger     *slog.Logger
}

// NewSweepOffersCommandHandler builds the sweep handler.
//
// Parameters:
//   - uowFactory: source of order transactions
//   - store: driver state store, released when an offer expires
//   - dispatch: trigger used to offer orders again
//   - effects: post-commit side effects, may be nil
//   - logger: structured logger, defaults to slog.Default
//
// Returns an error if uowFactory, store or dispatch is nil.
func NewSweepOffersCommandHandler(
	uowFactory UoWFactory,
	store ports.DriverStateStore,
	dispatch OrderDispatchTrigger,
	effects *SideEffects,
	logger *slog.Logger,
) (*SweepOffersCommandHandler, error) {
	if uowFactory == nil {
		return nil, errs.NewValueIsRequiredError("uowFactory")
	}
	if store == nil {
		return nil, errs.NewValueIsRequiredError("store")
	}
	if dispatch == nil {
		return nil, errs.NewValueIsRequiredError("dispatch")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "offer-sweep")
	return &SweepOffersCommandHandler{
		uowFactory: uowFactory,
		dispatch:   dispatch,
		withdrawal: offerWithdrawal{store: store, dispatch: dispatch, effects: effects, logger: logger},
		logger:     logger,
	}, nil
}

// Handle expires overdue offers first, then dispatches PENDING orders that
// hold none. Only the listing queries can fail the sweep.
func (h *SweepOffersCommandHandler) Handle(ctx context.Context, cmd SweepOffersCommand) (SweepReport, error) {
	if err := cmd.Validate(); err != nil {
		return SweepReport{}, err
	}

	var report SweepReport
	repo := h.uowFactory.Create().OrderRepository()

	expired, err := repo.ListExpiredOffers(ctx, cmd.Now(), cmd.Limit())
	if err != nil {
		return report, err
	}
	for _, orderID := range expired {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		o, driverID, ok, err := h.expire(ctx, orderID, cmd.Now())
		if err != nil {
			report.Failed++
			h.logger.ErrorContext(ctx, "failed to expire offer", "order_id", orderID.String(), "error", err)
			continue
		}
		if !ok {
			continue
		}
		report.Expired++
		offersTotal.WithLabelValues("expired").Inc()
		if h.withdrawal.afterCommit(ctx, o, driverID, cmd.Now()).Offered() {
			report.Offered++
		}
	}

	unoffered, err := repo.ListUnoffered(ctx, cmd.Limit())
	if err != nil {
		return report, err
	}
	for _, orderID := range unoffered {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		dispatchCmd, err := NewDispatchOrderCommand(orderID)
		if err != nil {
			report.Failed++
			continue
		}
		result, err := h.dispatch.Handle(ctx, dispatchCmd)
		if err != nil {
			report.Failed++
			h.logger.ErrorContext(ctx, "failed to dispatch order", "order_id", orderID.String(), "error", err)
			continue
		}
		if result.Offered() {
			report.Offered++
		}
	}

	return report, nil
}

// expire re-checks the offer under the order lock, so an offer accepted or
// refused since the scan is left alone.
func (h *SweepOffersCommandHandler) expire(
	ctx context.Context,
	orderID kernel.UUID,
	now time.Time,
) (*order.Order, kernel.UUID, bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, kernel.UUID{}, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, kernel.UUID{}, false, err
	}
	if !o.IsOfferExpired(now) {
		return nil, kernel.UUID{}, false, nil
	}

	driverID, err := o.ExpireOffer(now)
	if err != nil {
		return nil, kernel.UUID{}, false, err
	}
	if err = h.withdrawal.record(ctx, uow, o, driverID, assignment.Expired, now); err != nil {
		return nil, kernel.UUID{}, false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, kernel.UUID{}, false, err
	}
	return o, driverID, true, nil
}
