// Package driver models the live state of a driver as kept in the fast
// key-value store: presence, last known location and the order being offered.
package driver

import (
	"fmt"
	"slices"
	"time"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"
)

// Status is the presence of a driver as seen by dispatch.
type Status string

const (
	Offline   Status = "OFFLINE"
	Available Status = "AVAILABLE"
	// Offering means an offer is pending the driver's answer; the driver is
	// not offered anything else meanwhile.
	Offering Status = "OFFERING"
	Busy     Status = "BUSY"
)

// ParseStatus maps a stored status back to a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case Offline, Available, Offering, Busy:
		return Status(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("driver status", fmt.Errorf("%q is not a valid status", s))
	}
}

// State is the live record of one driver.
type State struct {
	driverID        kernel.UUID
	companyID       *kernel.UUID
	status          Status
	location        *kernel.Location
	idleSince       time.Time
	offeringOrderID *kernel.UUID
	activeOrders    []kernel.UUID
	updatedAt       time.Time
}

// NewState returns an offline driver.
func NewState(driverID kernel.UUID, companyID *kernel.UUID, now time.Time) (*State, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}
	return &State{driverID: driverID, companyID: companyID, status: Offline, updatedAt: now}, nil
}

// RestoreState rebuilds a driver record read from the live store.
// An Offering driver must carry the order it is offered, and only then.
func RestoreState(
	driverID kernel.UUID,
	companyID *kernel.UUID,
	status Status,
	location *kernel.Location,
	idleSince time.Time,
	offeringOrderID *kernel.UUID,
	activeOrders []kernel.UUID,
	updatedAt time.Time,
) (*State, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}
	if (status == Offering) != (offeringOrderID != nil) {
		return nil, errs.NewValueIsInvalidErrorWithCause("driver state",
			fmt.Errorf("%s driver with offering order %v", status, offeringOrderID))
	}
	return &State{
		driverID:        driverID,
		companyID:       companyID,
		status:          status,
		location:        location,
		idleSince:       idleSince,
		offeringOrderID: offeringOrderID,
		activeOrders:    slices.Clone(activeOrders),
		updatedAt:       updatedAt,
	}, nil
}

// DriverID returns the driver's unique identifier.
func (s *State) DriverID() kernel.UUID {
	return s.driverID
}

// CompanyID returns the driver's company.
// Returns nil for independent drivers.
func (s *State) CompanyID() *kernel.UUID {
	return s.companyID
}

// Status returns the current presence of the driver.
func (s *State) Status() Status {
	return s.status
}

// Location returns the last reported position.
// Returns nil if the driver never reported one.
func (s *State) Location() *kernel.Location {
	return s.location
}

// IdleSince returns when the driver last became available.
func (s *State) IdleSince() time.Time {
	return s.idleSince
}

// UpdatedAt returns when the record was last written.
func (s *State) UpdatedAt() time.Time {
	return s.updatedAt
}

// OfferingOrderID returns the order awaiting the driver's answer.
// Returns nil unless the driver is Offering.
func (s *State) OfferingOrderID() *kernel.UUID {
	return s.offeringOrderID
}

// ActiveOrders returns a copy of the accepted orders the driver works on.
func (s *State) ActiveOrders() []kernel.UUID {
	return slices.Clone(s.activeOrders)
}

// IsAvailable reports whether the driver may be offered an order.
func (s *State) IsAvailable() bool {
	return s.status == Available
}

// GoOnline makes an offline driver available. Busy or offering drivers keep
// their status and only refresh their location.
func (s *State) GoOnline(companyID *kernel.UUID, location *kernel.Location, now time.Time) {
	s.companyID = companyID
	s.location = location
	s.updatedAt = now
	if s.status == Offline {
		s.status = Available
		s.idleSince = now
	}
}

// GoOffline takes the driver out of dispatch. Drivers that are offering or
// busy cannot go offline.
func (s *State) GoOffline(now time.Time) error {
	if s.status == Offering || s.status == Busy {
		return errs.NewInvalidTransitionError("driver", fmt.Sprintf("%s driver cannot go offline", s.status))
	}
	s.status = Offline
	s.updatedAt = now
	return nil
}

// UpdateLocation records a new position without changing the status.
func (s *State) UpdateLocation(location kernel.Location, now time.Time) {
	s.location = &location
	s.updatedAt = now
}

// ReserveFor moves an available driver to Offering for orderID.
func (s *State) ReserveFor(orderID kernel.UUID, now time.Time) error {
	if s.status != Available {
		return errs.NewInvalidTransitionError("driver", fmt.Sprintf("%s driver cannot be offered an order", s.status))
	}
	s.status = Offering
	s.offeringOrderID = &orderID
	s.updatedAt = now
	return nil
}

// Release returns a driver offering orderID to Available. It reports false
// when the driver is not offering that order.
func (s *State) Release(orderID kernel.UUID, now time.Time) bool {
	if s.status != Offering || s.offeringOrderID == nil || !s.offeringOrderID.IsEqual(orderID) {
		return false
	}
	s.status = Available
	s.offeringOrderID = nil
	s.idleSince = now
	s.updatedAt = now
	return true
}

// Assign registers orderID as active and makes the driver busy.
func (s *State) Assign(orderID kernel.UUID, now time.Time) {
	if !slices.ContainsFunc(s.activeOrders, orderID.IsEqual) {
		s.activeOrders = append(s.activeOrders, orderID)
	}
	if s.offeringOrderID != nil && s.offeringOrderID.IsEqual(orderID) {
		s.offeringOrderID = nil
	}
	s.status = Busy
	s.updatedAt = now
}
