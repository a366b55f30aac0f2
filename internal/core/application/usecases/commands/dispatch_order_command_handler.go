package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"multistop/internal/core/domain/model/driver"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/core/domain/services"
	"multistop/internal/core/ports"
	"multistop/internal/pkg/errs"
)

// DispatchResult describes the offer a dispatch placed. DriverID is nil
// when no offer was placed.
type DispatchResult struct {
	OrderID   kernel.UUID
	DriverID  *kernel.UUID
	ExpiresAt *time.Time
}

// Offered reports whether a driver holds the offer.
func (r DispatchResult) Offered() bool {
	return r.DriverID != nil
}

// DispatchOrderCommandHandler runs one step of the offer protocol: it picks
// the nearest eligible driver, reserves them in the live store and records
// the offer on the order.
type DispatchOrderCommandHandler struct {
	uowFactory UoWFactory
	dispatcher *services.OrderDispatcher
	builder    services.VirtualStateBuilder
	store      ports.DriverStateStore
	effects    *SideEffects
	clock      Clock
	logger     *slog.Logger
}

// NewDispatchOrderCommandHandler builds the dispatch handler.
//
// Parameters:
//   - uowFactory: source of transactions over orders and rejections
//   - dispatcher: driver selection policy
//   - store: driver state store used to reserve the chosen driver
//   - effects: post-commit side effects, may be nil
//   - clock: time source, defaults to time.Now
//   - logger: structured logger, defaults to slog.Default
//
// Returns an error if uowFactory, dispatcher or store is nil.
func NewDispatchOrderCommandHandler(
	uowFactory UoWFactory,
	dispatcher *services.OrderDispatcher,
	store ports.DriverStateStore,
	effects *SideEffects,
	clock Clock,
	logger *slog.Logger,
) (*DispatchOrderCommandHandler, error) {
	if uowFactory == nil {
		return nil, errs.NewValueIsRequiredError("uowFactory")
	}
	if dispatcher == nil {
		return nil, errs.NewValueIsRequiredError("dispatcher")
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
	return &DispatchOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		builder:    services.NewVirtualStateBuilder(),
		store:      store,
		effects:    effects,
		clock:      clock,
		logger:     logger.With("component", "dispatch"),
	}, nil
}

// Handle is a no-op for orders that are not PENDING or already hold an offer.
// An order no driver is eligible for stays unoffered until the next sweep.
func (h *DispatchOrderCommandHandler) Handle(ctx context.Context, cmd DispatchOrderCommand) (DispatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return DispatchResult{}, err
	}
	result := DispatchResult{OrderID: cmd.OrderID()}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return result, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return result, err
	}
	if !o.IsDispatchable() {
		return result, nil
	}

	g, err := uow.ItineraryRepository().Load(ctx, o.ID())
	if err != nil {
		return result, err
	}
	view, err := h.builder.Build(o, g, services.DriverView)
	if err != nil {
		return result, err
	}

	rejected, err := uow.RejectionRepository().ListDriverIDs(ctx, o.ID())
	if err != nil {
		return result, err
	}

	now := h.clock()
	chosen, err := h.reserve(ctx, o, view.FirstPickupLocation(), rejected, now)
	if errors.Is(err, services.ErrNoEligibleDriver) {
		offersTotal.WithLabelValues("unmatched").Inc()
		h.logger.DebugContext(ctx, "no eligible driver", "order_id", o.ID().String())
		return result, nil
	}
	if err != nil {
		return result, err
	}

	committed := false
	defer func() {
		if !committed {
			h.release(ctx, chosen.DriverID(), o.ID(), now)
		}
	}()

	if err = h.dispatcher.Offer(o, chosen.DriverID(), now); err != nil {
		return result, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return result, err
	}
	if err = uow.Commit(ctx); err != nil {
		return result, err
	}
	committed = true

	offersTotal.WithLabelValues("placed").Inc()
	driverID := chosen.DriverID()
	result.DriverID = &driverID
	result.ExpiresAt = o.OfferExpiresAt()
	h.effects.Publish(ctx, order.NewEvent(order.OfferPlaced, o, &driverID, now))
	return result, nil
}

// reserve selects candidates in order until one is reserved in the live
// store. A driver taken by a concurrent dispatch is skipped.
func (h *DispatchOrderCommandHandler) reserve(
	ctx context.Context,
	o *order.Order,
	pickup *kernel.Location,
	rejected []kernel.UUID,
	now time.Time,
) (*driver.State, error) {
	candidates, err := h.store.ListAvailable(ctx)
	if err != nil {
		return nil, errs.NewExternalServiceError("driver state store", err)
	}

	excluded := append([]kernel.UUID(nil), rejected...)
	for {
		chosen, err := h.dispatcher.Select(o, pickup, candidates, excluded)
		if err != nil {
			return nil, err
		}
		err = h.store.Reserve(ctx, chosen.DriverID(), o.ID(), now)
		if err == nil {
			return chosen, nil
		}
		if !errors.Is(err, ports.ErrDriverUnavailable) {
			return nil, errs.NewExternalServiceError("driver state store", err)
		}
		excluded = append(excluded, chosen.DriverID())
	}
}

func (h *DispatchOrderCommandHandler) release(ctx context.Context, driverID, orderID kernel.UUID, now time.Time) {
	if _, err := h.store.Release(ctx, driverID, orderID, now); err != nil {
		h.effects.LiveStoreFailed(ctx, "release", driverID, orderID, err)
	}
}
