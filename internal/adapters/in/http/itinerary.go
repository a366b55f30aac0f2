package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"multistop/internal/core/application/usecases/commands"
	"multistop/internal/core/domain/model/kernel"
)

// Row ids in the routes below may be either the stable id or the id of its
// shadow; the edit lands on the shadow in both cases.

// AddStep handles POST /api/v1/orders/:orderId/steps.
func (s *Server) AddStep(c echo.Context) error {
	p, orderID, err := callerAndOrder(c)
	if err != nil {
		return err
	}
	var req AddStepRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewAddStepCommand(orderID, p.ID, req.Sequence)
	if err != nil {
		return err
	}
	return respondEdit(c, http.StatusCreated)(s.handlers.AddStep.Handle(c.Request().Context(), cmd))
}

// UpdateStep handles PATCH /api/v1/orders/:orderId/steps/:stepId.
func (s *Server) UpdateStep(c echo.Context) error {
	p, orderID, stepID, err := callerOrderAndRow(c, "stepId")
	if err != nil {
		return err
	}
	var req UpdateStepRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewUpdateStepCommand(orderID, p.ID, stepID, req.toDomain())
	if err != nil {
		return err
	}
	return respondEdit(c, http.StatusOK)(s.handlers.UpdateStep.Handle(c.Request().Context(), cmd))
}

// RemoveStep handles DELETE /api/v1/orders/:orderId/steps/:stepId.
func (s *Server) RemoveStep(c echo.Context) error {
	return s.remove(c, "stepId", commands.NewRemoveStepCommand)
}

// AddStop handles POST /api/v1/orders/:orderId/steps/:stepId/stops.
func (s *Server) AddStop(c echo.Context) error {
	p, orderID, stepID, err := callerOrderAndRow(c, "stepId")
	if err != nil {
		return err
	}
	var req AddStopRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	address, err := req.Address.toDomain()
	if err != nil {
		return err
	}
	cmd, err := commands.NewAddStopCommand(orderID, p.ID, stepID, address, req.Sequence)
	if err != nil {
		return err
	}
	return respondEdit(c, http.StatusCreated)(s.handlers.AddStop.Handle(c.Request().Context(), cmd))
}

// UpdateStop handles PATCH /api/v1/orders/:orderId/stops/:stopId.
func (s *Server) UpdateStop(c echo.Context) error {
	p, orderID, stopID, err := callerOrderAndRow(c, "stopId")
	if err != nil {
		return err
	}
	var req UpdateStopRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	patch, err := req.toDomain()
	if err != nil {
		return err
	}
	cmd, err := commands.NewUpdateStopCommand(orderID, p.ID, stopID, patch)
	if err != nil {
		return err
	}
	return respondEdit(c, http.StatusOK)(s.handlers.UpdateStop.Handle(c.Request().Context(), cmd))
}

// RemoveStop handles DELETE /api/v1/orders/:orderId/stops/:stopId.
func (s *Server) RemoveStop(c echo.Context) error {
	return s.remove(c, "stopId", commands.NewRemoveStopCommand)
}

// AddAction handles POST /api/v1/orders/:orderId/stops/:stopId/actions.
func (s *Server) AddAction(c echo.Context) error {
	p, orderID, stopID, err := callerOrderAndRow(c, "stopId")
	if err != nil {
		return err
	}
	var req AddActionRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewAddActionCommand(orderID, p.ID, stopID, req.toDomain())
	if err != nil {
		return err
	}
	return respondEdit(c, http.StatusCreated)(s.handlers.AddAction.Handle(c.Request().Context(), cmd))
}

// UpdateAction handles PATCH /api/v1/orders/:orderId/actions/:actionId.
func (s *Server) UpdateAction(c echo.Context) error {
	p, orderID, actionID, err := callerOrderAndRow(c, "actionId")
	if err != nil {
		return err
	}
	var req UpdateActionRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewUpdateActionCommand(orderID, p.ID, actionID, req.toDomain())
	if err != nil {
		return err
	}
	return respondEdit(c, http.StatusOK)(s.handlers.UpdateAction.Handle(c.Request().Context(), cmd))
}

// RemoveAction handles DELETE /api/v1/orders/:orderId/actions/:actionId.
func (s *Server) RemoveAction(c echo.Context) error {
	return s.remove(c, "actionId", commands.NewRemoveActionCommand)
}

// AddTransitItem handles POST /api/v1/orders/:orderId/transit-items.
func (s *Server) AddTransitItem(c echo.Context) error {
	p, orderID, err := callerAndOrder(c)
	if err != nil {
		return err
	}
	var req AddTransitItemRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewAddTransitItemCommand(orderID, p.ID, req.toDomain())
	if err != nil {
		return err
	}
	return respondEdit(c, http.StatusCreated)(s.handlers.AddTransitItem.Handle(c.Request().Context(), cmd))
}

// UpdateTransitItem handles PATCH /api/v1/orders/:orderId/transit-items/:itemId.
func (s *Server) UpdateTransitItem(c echo.Context) error {
	p, orderID, itemID, err := callerOrderAndRow(c, "itemId")
	if err != nil {
		return err
	}
	var req UpdateTransitItemRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewUpdateTransitItemCommand(orderID, p.ID, itemID, req.toDomain())
	if err != nil {
		return err
	}
	return respondEdit(c, http.StatusOK)(s.handlers.UpdateTransitItem.Handle(c.Request().Context(), cmd))
}

func (s *Server) remove(
	c echo.Context,
	param string,
	newCommand func(orderID, clientID, rowID kernel.UUID) (commands.RemoveCommand, error),
) error {
	p, orderID, rowID, err := callerOrderAndRow(c, param)
	if err != nil {
		return err
	}
	cmd, err := newCommand(orderID, p.ID, rowID)
	if err != nil {
		return err
	}
	return respondEdit(c, http.StatusOK)(s.handlers.Remove.Handle(c.Request().Context(), cmd))
}

func callerOrderAndRow(c echo.Context, param string) (*Principal, kernel.UUID, kernel.UUID, error) {
	p, orderID, err := callerAndOrder(c)
	if err != nil {
		return nil, kernel.UUID{}, kernel.UUID{}, err
	}
	rowID, err := pathUUID(c, param)
	if err != nil {
		return nil, kernel.UUID{}, kernel.UUID{}, err
	}
	return p, orderID, rowID, nil
}
