package ports

import (
	"context"
	"errors"
	"time"

	"multistop/internal/core/domain/model/driver"
	"multistop/internal/core/domain/model/kernel"
)

// ErrDriverUnavailable is returned by DriverStateStore.Reserve when the
// driver is no longer available.
var ErrDriverUnavailable = errors.New("driver is not available")

// DriverStateStore is the live key-value record of every online driver. It is
// not part of the relational transaction.
type DriverStateStore interface {
	Get(ctx context.Context, driverID kernel.UUID) (*driver.State, error)
	Save(ctx context.Context, state *driver.State) error
	ListAvailable(ctx context.Context) ([]*driver.State, error)
	ListOffering(ctx context.Context) ([]*driver.State, error)

	// Reserve atomically moves an available driver to offering orderID.
	Reserve(ctx context.Context, driverID, orderID kernel.UUID, now time.Time) error

	// Release returns a driver offering orderID to available. It reports
	// false when the driver was not offering that order.
	Release(ctx context.Context, driverID, orderID kernel.UUID, now time.Time) (bool, error)

	// Assign adds orderID to the driver's active orders and marks them busy.
	Assign(ctx context.Context, driverID, orderID kernel.UUID, now time.Time) error
}
