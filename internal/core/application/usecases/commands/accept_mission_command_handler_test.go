package commands_test

import (
	"errors"
	"testing"
	"time"

	"multistop/internal/core/application/usecases/commands"
	"multistop/internal/core/domain/model/assignment"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (h *offerHarness) acceptHandler(t *testing.T, compliance *MockComplianceChecker, clock commands.Clock) *commands.AcceptMissionCommandHandler {
	t.Helper()
	handler, err := commands.NewAcceptMissionCommandHandler(h.factory, compliance, h.store, h.effects, clock)
	require.NoError(t, err)
	return handler
}

func TestAcceptMissionCommandHandler_Success(t *testing.T) {
	ctx := t.Context()
	h := newOfferHarness(t)
	driverID := kernel.NewUUID()
	h.offerTo(t, driverID)

	compliance := new(MockComplianceChecker)
	compliance.On("MissingDocuments", mock.Anything, driverID, mock.Anything).Return([]string{}, nil).Once()

	mock.InOrder(
		h.orders.On("GetForUpdate", mock.Anything, h.order.ID()).Return(h.order, nil).Once(),
		h.missions.On("Upsert", mock.Anything, mock.MatchedBy(func(m *assignment.Mission) bool {
			return m.DriverID() == driverID && m.OrderID() == h.order.ID()
		})).Return(nil).Once(),
		h.rejections.On("DeleteForOrder", mock.Anything, h.order.ID()).Return(nil).Once(),
		h.orders.On("Update", mock.Anything, h.order).Return(nil).Once(),
		h.uow.On("Commit", mock.Anything).Return(nil).Once(),
		h.store.On("Assign", mock.Anything, driverID, h.order.ID(), baseTime).Return(nil).Once(),
	)

	cmd, err := commands.NewAcceptMissionCommand(driverID, h.order.ID())
	require.NoError(t, err)
	mission, err := h.acceptHandler(t, compliance, fixedClock).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, driverID, mission.DriverID())
	assert.Equal(t, order.Accepted, h.order.Status())
	require.NotNil(t, h.order.DriverID())
	assert.Equal(t, driverID, *h.order.DriverID())
	assert.Nil(t, h.order.Offer())

	h.orders.AssertExpectations(t)
	h.missions.AssertExpectations(t)
	h.store.AssertExpectations(t)
	h.notifier.AssertNumberOfCalls(t, "Publish", 1)
}

func TestAcceptMissionCommandHandler_ComplianceRejected(t *testing.T) {
	h := newOfferHarness(t)
	driverID := kernel.NewUUID()
	h.offerTo(t, driverID)
	h.orders.On("GetForUpdate", mock.Anything, h.order.ID()).Return(h.order, nil).Once()

	compliance := new(MockComplianceChecker)
	compliance.On("MissingDocuments", mock.Anything, driverID, mock.Anything).Return([]string{"INSURANCE"}, nil).Once()

	cmd, err := commands.NewAcceptMissionCommand(driverID, h.order.ID())
	require.NoError(t, err)
	_, err = h.acceptHandler(t, compliance, fixedClock).Handle(t.Context(), cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrComplianceRejected)
	var rejected *errs.ComplianceRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, []string{"INSURANCE"}, rejected.Missing)

	h.missions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	h.uow.AssertNotCalled(t, "Commit", mock.Anything)
	h.store.AssertNotCalled(t, "Assign", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptMissionCommandHandler_ComplianceUnavailable(t *testing.T) {
	h := newOfferHarness(t)
	driverID := kernel.NewUUID()
	h.offerTo(t, driverID)
	h.orders.On("GetForUpdate", mock.Anything, h.order.ID()).Return(h.order, nil).Once()

	compliance := new(MockComplianceChecker)
	compliance.On("MissingDocuments", mock.Anything, driverID, mock.Anything).Return(nil, errors.New("timeout")).Once()

	cmd, err := commands.NewAcceptMissionCommand(driverID, h.order.ID())
	require.NoError(t, err)
	_, err = h.acceptHandler(t, compliance, fixedClock).Handle(t.Context(), cmd)

	assert.ErrorIs(t, err, errs.ErrExternalService)
	h.uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestAcceptMissionCommandHandler_NotTheOfferedDriver(t *testing.T) {
	h := newOfferHarness(t)
	h.offerTo(t, kernel.NewUUID())
	h.orders.On("GetForUpdate", mock.Anything, h.order.ID()).Return(h.order, nil).Once()
	compliance := new(MockComplianceChecker)

	cmd, err := commands.NewAcceptMissionCommand(kernel.NewUUID(), h.order.ID())
	require.NoError(t, err)
	_, err = h.acceptHandler(t, compliance, fixedClock).Handle(t.Context(), cmd)

	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Equal(t, order.Pending, h.order.Status())
	compliance.AssertNotCalled(t, "MissingDocuments", mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptMissionCommandHandler_OfferExpired(t *testing.T) {
	h := newOfferHarness(t)
	driverID := kernel.NewUUID()
	h.offerTo(t, driverID)
	h.orders.On("GetForUpdate", mock.Anything, h.order.ID()).Return(h.order, nil).Once()
	late := func() time.Time { return baseTime.Add(time.Minute) }

	cmd, err := commands.NewAcceptMissionCommand(driverID, h.order.ID())
	require.NoError(t, err)
	_, err = h.acceptHandler(t, new(MockComplianceChecker), late).Handle(t.Context(), cmd)

	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	h.uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestAcceptMissionCommandHandler_LiveStoreFailureKeepsAssignment(t *testing.T) {
	h := newOfferHarness(t)
	driverID := kernel.NewUUID()
	h.offerTo(t, driverID)
	h.orders.On("GetForUpdate", mock.Anything, h.order.ID()).Return(h.order, nil).Once()
	h.missions.On("Upsert", mock.Anything, mock.Anything).Return(nil).Once()
	h.rejections.On("DeleteForOrder", mock.Anything, h.order.ID()).Return(nil).Once()
	h.orders.On("Update", mock.Anything, h.order).Return(nil).Once()
	h.uow.On("Commit", mock.Anything).Return(nil).Once()
	h.store.On("Assign", mock.Anything, driverID, h.order.ID(), baseTime).Return(errors.New("redis down")).Once()

	compliance := new(MockComplianceChecker)
	compliance.On("MissingDocuments", mock.Anything, driverID, mock.Anything).Return(nil, nil).Once()

	cmd, err := commands.NewAcceptMissionCommand(driverID, h.order.ID())
	require.NoError(t, err)
	mission, err := h.acceptHandler(t, compliance, fixedClock).Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.NotNil(t, mission)
	assert.Equal(t, order.Accepted, h.order.Status())
}
