package driver_test

import (
	"testing"
	"time"

	"multistop/internal/core/domain/model/driver"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Lifecycle(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	orderID := kernel.NewUUID()
	loc, _ := kernel.NewLocation(52.5, 13.4)

	s, err := driver.NewState(kernel.NewUUID(), nil, now)
	require.NoError(t, err)
	assert.Equal(t, driver.Offline, s.Status())

	require.ErrorIs(t, s.ReserveFor(orderID, now), errs.ErrInvalidTransition)

	s.GoOnline(nil, &loc, now)
	assert.True(t, s.IsAvailable())
	assert.Equal(t, now, s.IdleSince())

	require.NoError(t, s.ReserveFor(orderID, now.Add(time.Minute)))
	assert.Equal(t, driver.Offering, s.Status())
	require.ErrorIs(t, s.ReserveFor(kernel.NewUUID(), now), errs.ErrInvalidTransition)
	require.ErrorIs(t, s.GoOffline(now), errs.ErrInvalidTransition)

	assert.False(t, s.Release(kernel.NewUUID(), now))
	assert.True(t, s.Release(orderID, now.Add(2*time.Minute)))
	assert.True(t, s.IsAvailable())
	assert.Equal(t, now.Add(2*time.Minute), s.IdleSince())

	require.NoError(t, s.ReserveFor(orderID, now))
	s.Assign(orderID, now)
	assert.Equal(t, driver.Busy, s.Status())
	assert.Nil(t, s.OfferingOrderID())
	assert.Equal(t, []kernel.UUID{orderID}, s.ActiveOrders())
}

func TestRestoreState(t *testing.T) {
	orderID := kernel.NewUUID()

	_, err := driver.RestoreState(kernel.NewUUID(), nil, driver.Offering, nil, time.Time{}, nil, nil, time.Time{})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = driver.RestoreState(kernel.NewUUID(), nil, "SLEEPING", nil, time.Time{}, nil, nil, time.Time{})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	s, err := driver.RestoreState(kernel.NewUUID(), nil, driver.Offering, nil, time.Time{}, &orderID, nil, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, orderID, *s.OfferingOrderID())
}
