package queries

import (
	"context"
	"log/slog"
	"time"

	"multistop/internal/core/domain/model/route"
	"multistop/internal/core/domain/services"
	"multistop/internal/core/ports"
	"multistop/internal/pkg/errs"
)

// GetRouteQueryHandler returns the cached plan of a variant or asks the
// solver for one. The draft plan is computed over the CLIENT view, the
// stable plan over the DRIVER view.
type GetRouteQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	solver     ports.RouteSolver
	cache      ports.RouteCache
	builder    services.VirtualStateBuilder
	clock      func() time.Time
	logger     *slog.Logger
}

// NewGetRouteQueryHandler accepts a nil cache.
func NewGetRouteQueryHandler(
	uowFactory ports.UnitOfWorkFactory,
	solver ports.RouteSolver,
	cache ports.RouteCache,
	clock func() time.Time,
	logger *slog.Logger,
) (GetRouteQueryHandler, error) {
	if uowFactory == nil {
		return GetRouteQueryHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	if solver == nil {
		return GetRouteQueryHandler{}, errs.NewValueIsRequiredError("solver")
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return GetRouteQueryHandler{
		uowFactory: uowFactory,
		solver:     solver,
		cache:      cache,
		builder:    services.NewVirtualStateBuilder(),
		clock:      clock,
		logger:     logger.With("component", "route-query"),
	}, nil
}

// Handle serves the draft variant from the client view and the stable variant
// from the driver view. A cache write failure is logged and the fresh plan is
// still returned.
func (h GetRouteQueryHandler) Handle(ctx context.Context, query GetRouteQuery) (route.Plan, error) {
	if err := query.Validate(); err != nil {
		return route.Plan{}, err
	}

	view := services.ClientView
	if query.Variant() == route.Stable {
		view = services.DriverView
	}

	uow := h.uowFactory.Create()
	o, err := uow.OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return route.Plan{}, err
	}
	if err = authorize(o, query.CallerID(), view); err != nil {
		return route.Plan{}, err
	}

	if plan, ok := h.cached(ctx, query); ok {
		return plan, nil
	}

	g, err := uow.ItineraryRepository().Load(ctx, o.ID())
	if err != nil {
		return route.Plan{}, err
	}
	virtual, err := h.builder.Build(o, g, view)
	if err != nil {
		return route.Plan{}, err
	}

	plan, err := h.solve(ctx, waypoints(virtual))
	if err != nil {
		return route.Plan{}, err
	}
	plan.OrderID = o.ID()
	plan.Variant = query.Variant()
	plan.ComputedAt = h.clock()

	if h.cache != nil {
		if err = h.cache.Put(ctx, plan); err != nil {
			h.logger.WarnContext(ctx, "failed to cache route", "order_id", o.ID().String(), "error", err)
		}
	}
	return plan, nil
}

func (h GetRouteQueryHandler) cached(ctx context.Context, query GetRouteQuery) (route.Plan, bool) {
	if h.cache == nil {
		return route.Plan{}, false
	}
	plan, ok, err := h.cache.Get(ctx, query.OrderID(), query.Variant())
	if err != nil {
		h.logger.WarnContext(ctx, "route cache read failed", "order_id", query.OrderID().String(), "error", err)
		return route.Plan{}, false
	}
	return plan, ok
}

// solve skips the solver when there is nothing to order.
func (h GetRouteQueryHandler) solve(ctx context.Context, points []route.Waypoint) (route.Plan, error) {
	if len(points) < 2 {
		plan := route.Plan{}
		for _, p := range points {
			plan.StopIDs = append(plan.StopIDs, p.StopID)
		}
		return plan, nil
	}
	plan, err := h.solver.Solve(ctx, points)
	if err != nil {
		return route.Plan{}, errs.NewExternalServiceError("routing solver", err)
	}
	return plan, nil
}

// waypoints lists the stops with a known location in itinerary order.
func waypoints(v services.VirtualOrder) []route.Waypoint {
	var points []route.Waypoint
	for _, stop := range v.Stops() {
		if loc := stop.Address.Location(); loc != nil {
			points = append(points, route.Waypoint{StopID: stop.ID, Location: *loc})
		}
	}
	return points
}
