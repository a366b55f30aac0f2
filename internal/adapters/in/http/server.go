// Package http exposes the order editing and dispatch operations over a
// JSON API. Every route except /health and /metrics requires a Bearer JWT.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"multistop/internal/core/application/usecases/commands"
	"multistop/internal/core/application/usecases/queries"
	"multistop/internal/core/domain/model/assignment"
	"multistop/internal/core/domain/model/driver"
	"multistop/internal/core/domain/model/route"
	"multistop/internal/core/domain/services"
	"multistop/internal/pkg/errs"
)

// Handler is any use case returning a result.
type Handler[C, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// Executor is a use case without a result.
type Executor[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

// EditHandler is a handler of an itinerary edit.
type EditHandler[C any] Handler[C, commands.EditResult]

// Handlers lists every use case the API serves.
type Handlers struct {
	// Command handlers
	CreateOrder       Executor[commands.CreateOrderCommand]
	SubmitOrder       Executor[commands.SubmitOrderCommand]
	PushUpdates       EditHandler[commands.PushUpdatesCommand]
	RevertPending     EditHandler[commands.RevertPendingChangesCommand]
	AddStep           EditHandler[commands.AddStepCommand]
	UpdateStep        EditHandler[commands.UpdateStepCommand]
	AddStop           EditHandler[commands.AddStopCommand]
	UpdateStop        EditHandler[commands.UpdateStopCommand]
	AddAction         EditHandler[commands.AddActionCommand]
	UpdateAction      EditHandler[commands.UpdateActionCommand]
	AddTransitItem    EditHandler[commands.AddTransitItemCommand]
	UpdateTransitItem EditHandler[commands.UpdateTransitItemCommand]
	Remove            EditHandler[commands.RemoveCommand]
	Dispatch          Handler[commands.DispatchOrderCommand, commands.DispatchResult]
	AcceptMission     Handler[commands.AcceptMissionCommand, *assignment.Mission]
	RefuseMission     Handler[commands.RefuseMissionCommand, commands.DispatchResult]
	UpdatePresence    Handler[commands.UpdateDriverPresenceCommand, *driver.State]

	// Query handlers
	GetOrderView      Handler[queries.GetOrderViewQuery, services.VirtualOrder]
	GetRoute          Handler[queries.GetRouteQuery, route.Plan]
	GetOpenOrders     Handler[queries.GetOpenOrdersQuery, []queries.GetOpenOrdersQueryResponse]
	GetDriverMissions Handler[queries.GetDriverMissionsQuery, []queries.GetDriverMissionsQueryResponse]
}

func (h Handlers) validate() error {
	required := map[string]bool{
		"CreateOrder":       h.CreateOrder != nil,
		"SubmitOrder":       h.SubmitOrder != nil,
		"PushUpdates":       h.PushUpdates != nil,
		"RevertPending":     h.RevertPending != nil,
		"AddStep":           h.AddStep != nil,
		"UpdateStep":        h.UpdateStep != nil,
		"AddStop":           h.AddStop != nil,
		"UpdateStop":        h.UpdateStop != nil,
		"AddAction":         h.AddAction != nil,
		"UpdateAction":      h.UpdateAction != nil,
		"AddTransitItem":    h.AddTransitItem != nil,
		"UpdateTransitItem": h.UpdateTransitItem != nil,
		"Remove":            h.Remove != nil,
		"Dispatch":          h.Dispatch != nil,
		"AcceptMission":     h.AcceptMission != nil,
		"RefuseMission":     h.RefuseMission != nil,
		"UpdatePresence":    h.UpdatePresence != nil,
		"GetOrderView":      h.GetOrderView != nil,
		"GetRoute":          h.GetRoute != nil,
		"GetOpenOrders":     h.GetOpenOrders != nil,
		"GetDriverMissions": h.GetDriverMissions != nil,
	}
	for name, ok := range required {
		if !ok {
			return errs.NewValueIsRequiredError(name)
		}
	}
	return nil
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	secret   string
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, jwtSecret string, logger *slog.Logger) (*Server, error) {
	if err := handlers.validate(); err != nil {
		return nil, err
	}
	if jwtSecret == "" {
		return nil, errs.NewValueIsRequiredError("jwtSecret")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{handlers: handlers, secret: jwtSecret, logger: logger.With("component", "http")}, nil
}

// Echo builds the router with every route registered.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(s.logger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1", Authenticate(s.secret))
	client := RequireRole(RoleClient)
	driverOnly := RequireRole(RoleDriver)
	admin := RequireRole(RoleAdmin)

	api.POST("/orders", s.CreateOrder, client)
	api.GET("/orders", s.GetOpenOrders, RequireRole(RoleClient, RoleAdmin))
	api.GET("/orders/:orderId", s.GetOrderView)
	api.GET("/orders/:orderId/route", s.GetRoute)
	api.POST("/orders/:orderId/submit", s.SubmitOrder, client)
	api.POST("/orders/:orderId/push", s.PushUpdates, client)
	api.POST("/orders/:orderId/revert", s.RevertPendingChanges, client)
	api.POST("/orders/:orderId/dispatch", s.DispatchOrder, admin)
	api.POST("/orders/:orderId/accept", s.AcceptMission, driverOnly)
	api.POST("/orders/:orderId/refuse", s.RefuseMission, driverOnly)

	api.POST("/orders/:orderId/steps", s.AddStep, client)
	api.PATCH("/orders/:orderId/steps/:stepId", s.UpdateStep, client)
	api.DELETE("/orders/:orderId/steps/:stepId", s.RemoveStep, client)
	api.POST("/orders/:orderId/steps/:stepId/stops", s.AddStop, client)
	api.PATCH("/orders/:orderId/stops/:stopId", s.UpdateStop, client)
	api.DELETE("/orders/:orderId/stops/:stopId", s.RemoveStop, client)
	api.POST("/orders/:orderId/stops/:stopId/actions", s.AddAction, client)
	api.PATCH("/orders/:orderId/actions/:actionId", s.UpdateAction, client)
	api.DELETE("/orders/:orderId/actions/:actionId", s.RemoveAction, client)
	api.POST("/orders/:orderId/transit-items", s.AddTransitItem, client)
	api.PATCH("/orders/:orderId/transit-items/:itemId", s.UpdateTransitItem, client)

	api.PUT("/drivers/me/presence", s.UpdatePresence, driverOnly)
	api.GET("/drivers/me/missions", s.GetDriverMissions, driverOnly)

	return e
}

// bind decodes and validates a request body.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return c.Validate(req)
}
