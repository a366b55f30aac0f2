package queries

import (
	"errors"
	"time"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/guard"
)

var ErrGetDriverMissionsQueryIsNotConstructed = errors.New(
	"GetDriverMissionsQuery must be created via NewGetDriverMissionsQuery constructor",
)

// GetDriverMissionsQuery lists the missions a driver accepted.
type GetDriverMissionsQuery struct {
	driverID kernel.UUID
	guard    guard.ConstructorGuard
}

// NewGetDriverMissionsQuery returns an error if driverID is invalid.
func NewGetDriverMissionsQuery(driverID kernel.UUID) (GetDriverMissionsQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetDriverMissionsQuery{}, err
	}
	return GetDriverMissionsQuery{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetDriverMissionsQueryIsNotConstructed if validation fails.
func (q GetDriverMissionsQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverMissionsQueryIsNotConstructed)
}

// DriverID returns the driver whose missions are listed.
func (q GetDriverMissionsQuery) DriverID() kernel.UUID {
	return q.driverID
}

// GetDriverMissionsQueryResponse is one mission joined with its order's status.
type GetDriverMissionsQueryResponse struct {
	MissionID     kernel.UUID
	OrderID       kernel.UUID
	MissionStatus string
	OrderStatus   string
	AcceptedAt    time.Time
}
