package commands

import (
	"errors"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/guard"
)

var (
	ErrDispatchOrderCommandIsNotConstructed = errors.New(
		"DispatchOrderCommand must be created via NewDispatchOrderCommand constructor",
	)
	ErrAcceptMissionCommandIsNotConstructed = errors.New(
		"AcceptMissionCommand must be created via NewAcceptMissionCommand constructor",
	)
	ErrRefuseMissionCommandIsNotConstructed = errors.New(
		"RefuseMissionCommand must be created via NewRefuseMissionCommand constructor",
	)
)

// DispatchOrderCommand offers a PENDING order without an active offer to the
// best eligible driver.
type DispatchOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

// NewDispatchOrderCommand creates a command that offers the order to a driver.
func NewDispatchOrderCommand(orderID kernel.UUID) (DispatchOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return DispatchOrderCommand{}, err
	}
	return DispatchOrderCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrDispatchOrderCommandIsNotConstructed if validation fails.
func (c DispatchOrderCommand) Validate() error {
	return c.guard.Validate(ErrDispatchOrderCommandIsNotConstructed)
}

// OrderID returns the order to dispatch.
func (c DispatchOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// missionRef identifies the offer a driver answers.
type missionRef struct {
	driverID kernel.UUID
	orderID  kernel.UUID
}

func newMissionRef(driverID, orderID kernel.UUID) (missionRef, error) {
	if err := errors.Join(driverID.Validate(), orderID.Validate()); err != nil {
		return missionRef{}, err
	}
	return missionRef{driverID: driverID, orderID: orderID}, nil
}

// DriverID returns the driver answering the offer.
func (r missionRef) DriverID() kernel.UUID {
	return r.driverID
}

// OrderID returns the offered order.
func (r missionRef) OrderID() kernel.UUID {
	return r.orderID
}

// AcceptMissionCommand is a driver taking the order currently offered to them.
type AcceptMissionCommand struct { //nolint:recvcheck //using for validation
	missionRef
	guard guard.ConstructorGuard
}

// NewAcceptMissionCommand creates a command for a driver accepting an offer.
func NewAcceptMissionCommand(driverID, orderID kernel.UUID) (AcceptMissionCommand, error) {
	ref, err := newMissionRef(driverID, orderID)
	if err != nil {
		return AcceptMissionCommand{}, err
	}
	return AcceptMissionCommand{missionRef: ref, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAcceptMissionCommandIsNotConstructed if validation fails.
func (c AcceptMissionCommand) Validate() error {
	return c.guard.Validate(ErrAcceptMissionCommandIsNotConstructed)
}

// RefuseMissionCommand is a driver declining the order offered to them.
type RefuseMissionCommand struct { //nolint:recvcheck //using for validation
	missionRef
	guard guard.ConstructorGuard
}

// NewRefuseMissionCommand creates a command for a driver refusing an offer.
func NewRefuseMissionCommand(driverID, orderID kernel.UUID) (RefuseMissionCommand, error) {
	ref, err := newMissionRef(driverID, orderID)
	if err != nil {
		return RefuseMissionCommand{}, err
	}
	return RefuseMissionCommand{missionRef: ref, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRefuseMissionCommandIsNotConstructed if validation fails.
func (c RefuseMissionCommand) Validate() error {
	return c.guard.Validate(ErrRefuseMissionCommandIsNotConstructed)
}
