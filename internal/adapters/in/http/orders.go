package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"multistop/internal/core/application/usecases/commands"
	"multistop/internal/core/application/usecases/queries"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/core/domain/model/route"
	"multistop/internal/core/domain/services"
	"multistop/internal/pkg/errs"
)

// CreateOrder handles POST /api/v1/orders - opens a DRAFT order for the caller.
func (s *Server) CreateOrder(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req CreateOrderRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	mode, err := order.ParseAssignmentMode(req.AssignmentMode)
	if err != nil {
		return err
	}
	orderID := kernel.NewUUID()
	if req.ID != nil {
		orderID = *req.ID
	}

	cmd, err := commands.NewCreateOrderCommand(orderID, p.ID, mode, req.CompanyID, req.TargetDriverID)
	if err != nil {
		return err
	}
	if err = s.handlers.CreateOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, CreateOrderResponse{ID: orderID})
}

// GetOpenOrders handles GET /api/v1/orders - lists the caller's open orders,
// or every open order for admins.
func (s *Server) GetOpenOrders(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var clientID *kernel.UUID
	if p.Role != RoleAdmin {
		clientID = &p.ID
	}

	query, err := queries.NewGetOpenOrdersQuery(clientID)
	if err != nil {
		return err
	}
	rows, err := s.handlers.GetOpenOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, openOrderDtos(rows))
}

// GetOrderView handles GET /api/v1/orders/:orderId?view=client|driver.
// Clients default to the client view, drivers to the driver view.
func (s *Server) GetOrderView(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}

	view := services.ClientView
	if p.Role == RoleDriver {
		view = services.DriverView
	}
	if v := c.QueryParam("view"); v != "" {
		if view, err = services.ParseView(v); err != nil {
			return err
		}
	}

	query, err := queries.NewGetOrderViewQuery(orderID, p.ID, view)
	if err != nil {
		return err
	}
	result, err := s.handlers.GetOrderView.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderViewDto(result))
}

// GetRoute handles GET /api/v1/orders/:orderId/route?variant=draft|stable.
func (s *Server) GetRoute(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}

	variant := route.Draft
	if p.Role == RoleDriver {
		variant = route.Stable
	}
	if v := c.QueryParam("variant"); v != "" {
		if variant, err = route.ParseVariant(strings.ToLower(v)); err != nil {
			return err
		}
	}

	query, err := queries.NewGetRouteQuery(orderID, p.ID, variant)
	if err != nil {
		return err
	}
	plan, err := s.handlers.GetRoute.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, routeDto(plan))
}

// SubmitOrder handles POST /api/v1/orders/:orderId/submit.
func (s *Server) SubmitOrder(c echo.Context) error {
	p, orderID, err := callerAndOrder(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewSubmitOrderCommand(orderID, p.ID)
	if err != nil {
		return err
	}
	if err = s.handlers.SubmitOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusAccepted)
}

// PushUpdates handles POST /api/v1/orders/:orderId/push - merges pending edits.
func (s *Server) PushUpdates(c echo.Context) error {
	p, orderID, err := callerAndOrder(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewPushUpdatesCommand(orderID, p.ID)
	if err != nil {
		return err
	}
	return respondEdit(c, http.StatusOK)(s.handlers.PushUpdates.Handle(c.Request().Context(), cmd))
}

// RevertPendingChanges handles POST /api/v1/orders/:orderId/revert.
func (s *Server) RevertPendingChanges(c echo.Context) error {
	p, orderID, err := callerAndOrder(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewRevertPendingChangesCommand(orderID, p.ID)
	if err != nil {
		return err
	}
	return respondEdit(c, http.StatusOK)(s.handlers.RevertPending.Handle(c.Request().Context(), cmd))
}

// DispatchOrder handles POST /api/v1/orders/:orderId/dispatch - runs one
// offer step on demand.
func (s *Server) DispatchOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	cmd, err := commands.NewDispatchOrderCommand(orderID)
	if err != nil {
		return err
	}
	result, err := s.handlers.Dispatch.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dispatchDto(result))
}

func callerAndOrder(c echo.Context) (*Principal, kernel.UUID, error) {
	p, err := principal(c)
	if err != nil {
		return nil, kernel.UUID{}, err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return nil, kernel.UUID{}, err
	}
	return p, orderID, nil
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param(name))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

// respondEdit renders the outcome of an edit handler.
func respondEdit(c echo.Context, status int) func(commands.EditResult, error) error {
	return func(result commands.EditResult, err error) error {
		if err != nil {
			return err
		}
		return c.JSON(status, editResponse(result))
	}
}
