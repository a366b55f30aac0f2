// Package assignment holds the records produced by the offer protocol:
// rejections remembered for an order's assignment cycle and the mission
// created when a driver accepts.
package assignment

import (
	"errors"
	"fmt"
	"time"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"
)

// RejectionReason is why a driver did not take an order.
type RejectionReason string

const (
	Refused RejectionReason = "REFUSED"
	Expired RejectionReason = "EXPIRED"
)

// Rejection records that a driver declined, explicitly or by timeout. A
// rejected driver is never offered the same order again within the cycle.
type Rejection struct {
	orderID  kernel.UUID
	driverID kernel.UUID
	reason   RejectionReason
	at       time.Time
}

// NewRejection records that driverID declined orderID at the given time.
//
// Parameters:
//   - orderID: The order that was offered
//   - driverID: The driver who declined
//   - reason: Refused for an explicit answer, Expired for a timeout
//   - at: When the rejection happened
//
// Returns:
//   - Rejection: The validated record
//   - error: Validation error if an id or the reason is invalid
func NewRejection(orderID, driverID kernel.UUID, reason RejectionReason, at time.Time) (Rejection, error) {
	if err := errors.Join(orderID.Validate(), driverID.Validate()); err != nil {
		return Rejection{}, err
	}
	if reason != Refused && reason != Expired {
		return Rejection{}, errs.NewValueIsInvalidErrorWithCause("reason", fmt.Errorf("%q is not a valid reason", reason))
	}
	return Rejection{orderID: orderID, driverID: driverID, reason: reason, at: at}, nil
}

// OrderID returns the order that was offered.
func (r Rejection) OrderID() kernel.UUID {
	return r.orderID
}

// DriverID returns the driver who declined.
func (r Rejection) DriverID() kernel.UUID {
	return r.driverID
}

// Reason returns why the driver declined.
func (r Rejection) Reason() RejectionReason {
	return r.reason
}

// At returns when the driver declined.
func (r Rejection) At() time.Time {
	return r.at
}

// MissionStatus is the execution state of a mission.
type MissionStatus string

const (
	MissionAssigned MissionStatus = "ASSIGNED"
)

// Mission tracks execution of an accepted order by its driver. One mission
// exists per order; a new acceptance replaces it.
type Mission struct {
	id         kernel.UUID
	orderID    kernel.UUID
	driverID   kernel.UUID
	status     MissionStatus
	acceptedAt time.Time
}

// NewMission starts an ASSIGNED mission for the driver who accepted orderID.
func NewMission(id, orderID, driverID kernel.UUID, acceptedAt time.Time) (*Mission, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), driverID.Validate()); err != nil {
		return nil, err
	}
	return &Mission{id: id, orderID: orderID, driverID: driverID, status: MissionAssigned, acceptedAt: acceptedAt}, nil
}

// RestoreMission rebuilds a mission read from storage.
func RestoreMission(id, orderID, driverID kernel.UUID, status MissionStatus, acceptedAt time.Time) (*Mission, error) {
	m, err := NewMission(id, orderID, driverID, acceptedAt)
	if err != nil {
		return nil, err
	}
	if status != MissionAssigned {
		return nil, errs.NewValueIsInvalidErrorWithCause("mission status", fmt.Errorf("%q is not a valid status", status))
	}
	m.status = status
	return m, nil
}

// ID returns the mission's unique identifier.
func (m *Mission) ID() kernel.UUID {
	return m.id
}

// OrderID returns the order the mission executes.
func (m *Mission) OrderID() kernel.UUID {
	return m.orderID
}

// DriverID returns the driver executing the mission.
func (m *Mission) DriverID() kernel.UUID {
	return m.driverID
}

// Status returns the execution state.
func (m *Mission) Status() MissionStatus {
	return m.status
}

// AcceptedAt returns when the driver accepted the offer.
func (m *Mission) AcceptedAt() time.Time {
	return m.acceptedAt
}
