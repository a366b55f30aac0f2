package ports

import (
	"context"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/route"
)

// RouteSolver computes a visiting order for waypoints.
type RouteSolver interface {
	// Solve orders the waypoints into a visiting sequence. The first waypoint
	// is kept as the origin and the last as the destination.
	Solve(ctx context.Context, waypoints []route.Waypoint) (route.Plan, error)
}

// RouteCache keeps computed plans per order and variant.
type RouteCache interface {
	// Get reports false on a miss.
	Get(ctx context.Context, orderID kernel.UUID, variant route.Variant) (route.Plan, bool, error)
	Put(ctx context.Context, plan route.Plan) error
	Invalidate(ctx context.Context, orderID kernel.UUID, variants ...route.Variant) error
}
