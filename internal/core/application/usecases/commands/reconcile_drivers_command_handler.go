package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"multistop/internal/core/domain/model/driver"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/ports"
	"multistop/internal/pkg/errs"
	"multistop/internal/pkg/guard"
)

var ErrReconcileDriversCommandIsNotConstructed = errors.New(
	"ReconcileDriversCommand must be created via NewReconcileDriversCommand constructor",
)

// ReconcileDriversCommand releases drivers left OFFERING for an order that no
// longer offers to them, e.g. after a crash between commit and live-store
// write. Drivers updated less than staleAfter ago are left alone.
type ReconcileDriversCommand struct { //nolint:recvcheck //using for validation
	staleAfter time.Duration
	guard      guard.ConstructorGuard
}

// NewReconcileDriversCommand creates a reconciliation pass.
// Drivers whose state has not changed for staleAfter are examined.
func NewReconcileDriversCommand(staleAfter time.Duration) (ReconcileDriversCommand, error) {
	if staleAfter < 0 {
		return ReconcileDriversCommand{}, errs.NewValueIsInvalidError("staleAfter")
	}
	return ReconcileDriversCommand{staleAfter: staleAfter, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReconcileDriversCommandIsNotConstructed if validation fails.
func (c ReconcileDriversCommand) Validate() error {
	return c.guard.Validate(ErrReconcileDriversCommandIsNotConstructed)
}

// StaleAfter returns the age after which a driver state is examined.
func (c ReconcileDriversCommand) StaleAfter() time.Duration {
	return c.staleAfter
}

// ReconcileDriversCommandHandler releases drivers stuck in OFFERING for an order
// that was deleted or no longer offers them.
//
// Example:
//
//	handler, _ := NewReconcileDriversCommandHandler(uowFactory, store, time.Now, logger)
//	cmd, _ := NewReconcileDriversCommand(time.Minute)
//	released, err := handler.Handle(ctx, cmd)
type ReconcileDriversCommandHandler struct {
	uowFactory OrderUoWFactory
	store      ports.DriverStateStore
	clock      Clock
	logger     *slog.Logger
}

// NewReconcileDriversCommandHandler builds the handler. A nil clock falls back to
// time.Now and a nil logger to slog.Default.
//
// Parameters:
//   - uowFactory: source of the order repository
//   - store: driver state store to scan and release
//   - clock: time source
//   - logger: structured logger
//
// Returns an error if uowFactory or store is nil.
func NewReconcileDriversCommandHandler(
	uowFactory OrderUoWFactory,
	store ports.DriverStateStore,
	clock Clock,
	logger *slog.Logger,
) (*ReconcileDriversCommandHandler, error) {
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
	return &ReconcileDriversCommandHandler{
		uowFactory: uowFactory,
		store:      store,
		clock:      clock,
		logger:     logger.With("component", "driver-reconciliation"),
	}, nil
}

// Handle returns the number of drivers released.
func (h *ReconcileDriversCommandHandler) Handle(ctx context.Context, cmd ReconcileDriversCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	offering, err := h.store.ListOffering(ctx)
	if err != nil {
		return 0, errs.NewExternalServiceError("driver state store", err)
	}

	now := h.clock()
	repo := h.uowFactory.Create().OrderRepository()
	released := 0
	for _, state := range offering {
		orderID := state.OfferingOrderID()
		if orderID == nil || now.Sub(state.UpdatedAt()) < cmd.StaleAfter() {
			continue
		}
		stuck, err := h.isStuck(ctx, repo, state, *orderID)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to check offering driver",
				"driver_id", state.DriverID().String(), "order_id", orderID.String(), "error", err)
			continue
		}
		if !stuck {
			continue
		}
		ok, err := h.store.Release(ctx, state.DriverID(), *orderID, now)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to release driver",
				"driver_id", state.DriverID().String(), "error", err)
			continue
		}
		if ok {
			released++
			h.logger.InfoContext(ctx, "released stuck driver",
				"driver_id", state.DriverID().String(), "order_id", orderID.String())
		}
	}
	return released, nil
}

func (h *ReconcileDriversCommandHandler) isStuck(
	ctx context.Context,
	repo ports.OrderRepository,
	state *driver.State,
	orderID kernel.UUID,
) (bool, error) {
	o, err := repo.Get(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	offered := o.OfferedDriverID()
	return offered == nil || !offered.IsEqual(state.DriverID()), nil
}
