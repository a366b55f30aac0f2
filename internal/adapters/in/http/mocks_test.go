package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	httpadapter "multistop/internal/adapters/in/http"
	"multistop/internal/core/application/usecases/commands"
	"multistop/internal/core/application/usecases/queries"
	"multistop/internal/core/domain/model/assignment"
	"multistop/internal/core/domain/model/driver"
	"multistop/internal/core/domain/model/route"
	"multistop/internal/core/domain/services"
)

type MockHandler[C, R any] struct {
	mock.Mock
}

func (m *MockHandler[C, R]) Handle(ctx context.Context, cmd C) (R, error) {
	args := m.Called(ctx, cmd)
	var result R
	if v := args.Get(0); v != nil {
		result = v.(R)
	}
	return result, args.Error(1)
}

type MockExecutor[C any] struct {
	mock.Mock
}

func (m *MockExecutor[C]) Handle(ctx context.Context, cmd C) error {
	return m.Called(ctx, cmd).Error(0)
}

type mockHandlers struct {
	createOrder       *MockExecutor[commands.CreateOrderCommand]
	submitOrder       *MockExecutor[commands.SubmitOrderCommand]
	pushUpdates       *MockHandler[commands.PushUpdatesCommand, commands.EditResult]
	revertPending     *MockHandler[commands.RevertPendingChangesCommand, commands.EditResult]
	addStep           *MockHandler[commands.AddStepCommand, commands.EditResult]
	updateStep        *MockHandler[commands.UpdateStepCommand, commands.EditResult]
	addStop           *MockHandler[commands.AddStopCommand, commands.EditResult]
	updateStop        *MockHandler[commands.UpdateStopCommand, commands.EditResult]
	addAction         *MockHandler[commands.AddActionCommand, commands.EditResult]
	updateAction      *MockHandler[commands.UpdateActionCommand, commands.EditResult]
	addTransitItem    *MockHandler[commands.AddTransitItemCommand, commands.EditResult]
	updateTransitItem *MockHandler[commands.UpdateTransitItemCommand, commands.EditResult]
	remove            *MockHandler[commands.RemoveCommand, commands.EditResult]
	dispatch          *MockHandler[commands.DispatchOrderCommand, commands.DispatchResult]
	acceptMission     *MockHandler[commands.AcceptMissionCommand, *assignment.Mission]
	refuseMission     *MockHandler[commands.RefuseMissionCommand, commands.DispatchResult]
	updatePresence    *MockHandler[commands.UpdateDriverPresenceCommand, *driver.State]
	getOrderView      *MockHandler[queries.GetOrderViewQuery, services.VirtualOrder]
	getRoute          *MockHandler[queries.GetRouteQuery, route.Plan]
	getOpenOrders     *MockHandler[queries.GetOpenOrdersQuery, []queries.GetOpenOrdersQueryResponse]
	getDriverMissions *MockHandler[queries.GetDriverMissionsQuery, []queries.GetDriverMissionsQueryResponse]
}

func newMockHandlers() *mockHandlers {
	return &mockHandlers{
		createOrder:       &MockExecutor[commands.CreateOrderCommand]{},
		submitOrder:       &MockExecutor[commands.SubmitOrderCommand]{},
		pushUpdates:       &MockHandler[commands.PushUpdatesCommand, commands.EditResult]{},
		revertPending:     &MockHandler[commands.RevertPendingChangesCommand, commands.EditResult]{},
		addStep:           &MockHandler[commands.AddStepCommand, commands.EditResult]{},
		updateStep:        &MockHandler[commands.UpdateStepCommand, commands.EditResult]{},
		addStop:           &MockHandler[commands.AddStopCommand, commands.EditResult]{},
		updateStop:        &MockHandler[commands.UpdateStopCommand, commands.EditResult]{},
		addAction:         &MockHandler[commands.AddActionCommand, commands.EditResult]{},
		updateAction:      &MockHandler[commands.UpdateActionCommand, commands.EditResult]{},
		addTransitItem:    &MockHandler[commands.AddTransitItemCommand, commands.EditResult]{},
		updateTransitItem: &MockHandler[commands.UpdateTransitItemCommand, commands.EditResult]{},
		remove:            &MockHandler[commands.RemoveCommand, commands.EditResult]{},
		dispatch:          &MockHandler[commands.DispatchOrderCommand, commands.DispatchResult]{},
		acceptMission:     &MockHandler[commands.AcceptMissionCommand, *assignment.Mission]{},
		refuseMission:     &MockHandler[commands.RefuseMissionCommand, commands.DispatchResult]{},
		updatePresence:    &MockHandler[commands.UpdateDriverPresenceCommand, *driver.State]{},
		getOrderView:      &MockHandler[queries.GetOrderViewQuery, services.VirtualOrder]{},
		getRoute:          &MockHandler[queries.GetRouteQuery, route.Plan]{},
		getOpenOrders:     &MockHandler[queries.GetOpenOrdersQuery, []queries.GetOpenOrdersQueryResponse]{},
		getDriverMissions: &MockHandler[queries.GetDriverMissionsQuery, []queries.GetDriverMissionsQueryResponse]{},
	}
}

func (m *mockHandlers) handlers() httpadapter.Handlers {
	return httpadapter.Handlers{
		CreateOrder:       m.createOrder,
		SubmitOrder:       m.submitOrder,
		PushUpdates:       m.pushUpdates,
		RevertPending:     m.revertPending,
		AddStep:           m.addStep,
		UpdateStep:        m.updateStep,
		AddStop:           m.addStop,
		UpdateStop:        m.updateStop,
		AddAction:         m.addAction,
		UpdateAction:      m.updateAction,
		AddTransitItem:    m.addTransitItem,
		UpdateTransitItem: m.updateTransitItem,
		Remove:            m.remove,
		Dispatch:          m.dispatch,
		AcceptMission:     m.acceptMission,
		RefuseMission:     m.refuseMission,
		UpdatePresence:    m.updatePresence,
		GetOrderView:      m.getOrderView,
		GetRoute:          m.getRoute,
		GetOpenOrders:     m.getOpenOrders,
		GetDriverMissions: m.getDriverMissions,
	}
}
