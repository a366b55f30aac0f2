package commands

import (
	"context"
	"errors"
	"time"

	"multistop/internal/core/domain/model/driver"
	"multistop/internal/core/ports"
	"multistop/internal/pkg/errs"
)

// UpdateDriverPresenceCommandHandler writes driver presence to the live store.
type UpdateDriverPresenceCommandHandler struct {
	store ports.DriverStateStore
	clock Clock
}

// NewUpdateDriverPresenceCommandHandler returns an error if store is nil.
// A nil clock falls back to time.Now.
func NewUpdateDriverPresenceCommandHandler(store ports.DriverStateStore, clock Clock) (*UpdateDriverPresenceCommandHandler, error) {
	if store == nil {
		return nil, errs.NewValueIsRequiredError("store")
	}
	if clock == nil {
		clock = time.Now
	}
	return &UpdateDriverPresenceCommandHandler{store: store, clock: clock}, nil
}

// Handle creates the driver's state on first contact. A driver holding an
// offer or an active order cannot go offline.
func (h *UpdateDriverPresenceCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateDriverPresenceCommand,
) (*driver.State, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	now := h.clock()

	state, err := h.store.Get(ctx, cmd.DriverID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		state, err = driver.NewState(cmd.DriverID(), cmd.CompanyID(), now)
	}
	if err != nil {
		return nil, err
	}

	switch {
	case cmd.Online():
		location := cmd.Location()
		if location == nil {
			location = state.Location()
		}
		state.GoOnline(cmd.CompanyID(), location, now)
	default:
		if err = state.GoOffline(now); err != nil {
			return nil, err
		}
		if cmd.Location() != nil {
			state.UpdateLocation(*cmd.Location(), now)
		}
	}

	if err = h.store.Save(ctx, state); err != nil {
		return nil, errs.NewExternalServiceError("driver state store", err)
	}
	return state, nil
}
