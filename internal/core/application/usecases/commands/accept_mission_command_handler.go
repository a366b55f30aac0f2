package commands

import (
	"context"
	"time"

	"multistop/internal/core/domain/model/assignment"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/core/ports"
	"multistop/internal/pkg/errs"
)

// AcceptMissionCommandHandler assigns an order to the driver holding its
// offer once the driver passes the document gate.
type AcceptMissionCommandHandler struct {
	uowFactory UoWFactory
	compliance ports.ComplianceChecker
	store      ports.DriverStateStore
	effects    *SideEffects
	clock      Clock
}

// NewAcceptMissionCommandHandler builds the handler. A nil clock falls back to
// time.Now.
//
// Parameters:
//   - uowFactory: source of transactions over orders and missions
//   - compliance: document gate checked before accepting
//   - store: driver state store moved to BUSY after the commit
//   - effects: post-commit side effects, may be nil
//   - clock: time source
//
// Returns an error if uowFactory, compliance or store is nil.
//
// Example:
//
//	handler, err := NewAcceptMissionCommandHandler(uowFactory, checker, store, effects, time.Now)
//	cmd, _ := NewAcceptMissionCommand(driverID, orderID)
//	mission, err := handler.Handle(ctx, cmd)
func NewAcceptMissionCommandHandler(
	uowFactory UoWFactory,
	compliance ports.ComplianceChecker,
	store ports.DriverStateStore,
	effects *SideEffects,
	clock Clock,
) (*AcceptMissionCommandHandler, error) {
	if uowFactory == nil {
		return nil, errs.NewValueIsRequiredError("uowFactory")
	}
	if compliance == nil {
		return nil, errs.NewValueIsRequiredError("compliance")
	}
	if store == nil {
		return nil, errs.NewValueIsRequiredError("store")
	}
	if clock == nil {
		clock = time.Now
	}
	return &AcceptMissionCommandHandler{
		uowFactory: uowFactory,
		compliance: compliance,
		store:      store,
		effects:    effects,
		clock:      clock,
	}, nil
}

// Handle leaves the order untouched when any check fails. The live store is
// updated after the commit.
func (h *AcceptMissionCommandHandler) Handle(ctx context.Context, cmd AcceptMissionCommand) (*assignment.Mission, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock()
	o, mission, err := h.accept(ctx, cmd, now)
	if err != nil {
		return nil, err
	}
	offersTotal.WithLabelValues("accepted").Inc()

	driverID := cmd.DriverID()
	if err = h.store.Assign(ctx, driverID, o.ID(), now); err != nil {
		h.effects.LiveStoreFailed(ctx, "assign", driverID, o.ID(), err)
	}
	h.effects.Publish(ctx, order.NewEvent(order.StatusChanged, o, &driverID, now))
	return mission, nil
}

func (h *AcceptMissionCommandHandler) accept(
	ctx context.Context,
	cmd AcceptMissionCommand,
	now time.Time,
) (*order.Order, *assignment.Mission, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, nil, err
	}
	if err = o.AcceptOffer(cmd.DriverID(), now); err != nil {
		return nil, nil, err
	}

	if err = h.checkCompliance(ctx, cmd.DriverID(), o.CompanyID()); err != nil {
		return nil, nil, err
	}

	mission, err := assignment.NewMission(kernel.NewUUID(), o.ID(), cmd.DriverID(), now)
	if err != nil {
		return nil, nil, err
	}
	if err = uow.MissionRepository().Upsert(ctx, mission); err != nil {
		return nil, nil, err
	}
	if err = uow.RejectionRepository().DeleteForOrder(ctx, o.ID()); err != nil {
		return nil, nil, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return o, mission, nil
}

func (h *AcceptMissionCommandHandler) checkCompliance(ctx context.Context, driverID kernel.UUID, companyID *kernel.UUID) error {
	missing, err := h.compliance.MissingDocuments(ctx, driverID, companyID)
	if err != nil {
		return errs.NewExternalServiceError("compliance", err)
	}
	if len(missing) > 0 {
		return errs.NewComplianceRejectedError(driverID, missing)
	}
	return nil
}
