package commands

import (
	"errors"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/guard"
)

var ErrUpdateDriverPresenceCommandIsNotConstructed = errors.New(
	"UpdateDriverPresenceCommand must be created via NewUpdateDriverPresenceCommand constructor",
)

// UpdateDriverPresenceCommand reports a driver going online, moving, or
// going offline. Location is optional when going offline.
type UpdateDriverPresenceCommand struct { //nolint:recvcheck //using for validation
	driverID  kernel.UUID
	online    bool
	companyID *kernel.UUID
	location  *kernel.Location

	guard guard.ConstructorGuard
}

// NewUpdateDriverPresenceCommand creates a heartbeat command for a driver.
// The location is optional but must be valid when given.
func NewUpdateDriverPresenceCommand(
	driverID kernel.UUID,
	online bool,
	companyID *kernel.UUID,
	location *kernel.Location,
) (UpdateDriverPresenceCommand, error) {
	if err := driverID.Validate(); err != nil {
		return UpdateDriverPresenceCommand{}, err
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return UpdateDriverPresenceCommand{}, err
		}
	}
	return UpdateDriverPresenceCommand{
		driverID:  driverID,
		online:    online,
		companyID: companyID,
		location:  location,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateDriverPresenceCommandIsNotConstructed if validation fails.
func (c UpdateDriverPresenceCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDriverPresenceCommandIsNotConstructed)
}

// DriverID returns the reporting driver.
func (c UpdateDriverPresenceCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Online reports whether the driver is taking work.
func (c UpdateDriverPresenceCommand) Online() bool {
	return c.online
}

// CompanyID returns the driver's company, or nil for independents.
func (c UpdateDriverPresenceCommand) CompanyID() *kernel.UUID {
	return c.companyID
}

// Location returns the last known position, or nil.
func (c UpdateDriverPresenceCommand) Location() *kernel.Location {
	return c.location
}
