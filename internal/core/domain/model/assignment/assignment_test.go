package assignment_test

import (
	"testing"
	"time"

	"multistop/internal/core/domain/model/assignment"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejection(t *testing.T) {
	now := time.Now()

	r, err := assignment.NewRejection(kernel.NewUUID(), kernel.NewUUID(), assignment.Expired, now)
	require.NoError(t, err)
	assert.Equal(t, assignment.Expired, r.Reason())

	_, err = assignment.NewRejection(kernel.NewUUID(), kernel.NewUUID(), "BORED", now)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = assignment.NewRejection(kernel.UUID{}, kernel.NewUUID(), assignment.Refused, now)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewMission(t *testing.T) {
	m, err := assignment.NewMission(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, assignment.MissionAssigned, m.Status())

	_, err = assignment.NewMission(kernel.NewUUID(), kernel.NewUUID(), kernel.UUID{}, time.Now())
	require.Error(t, err)
}
