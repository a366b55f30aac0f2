// Package maps solves stop sequences with the Google Maps Directions API.
package maps

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"googlemaps.github.io/maps"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/route"
	"multistop/internal/core/ports"
	"multistop/internal/pkg/errs"
)

// MaxIntermediateWaypoints is the Directions API limit on waypoints between
// origin and destination.
const MaxIntermediateWaypoints = 25

var _ ports.RouteSolver = (*RouteSolver)(nil)

var ErrNoRoute = errors.New("no route found")

// RouteSolver keeps the first waypoint as the origin and the last as the
// destination, and lets the API reorder everything in between.
type RouteSolver struct {
	client *maps.Client
}

// NewRouteSolver creates a solver with the given API key. Extra client
// options, such as maps.WithBaseURL, are passed through.
func NewRouteSolver(apiKey string, opts ...maps.ClientOption) (*RouteSolver, error) {
	if apiKey == "" {
		return nil, errs.NewValueIsRequiredError("google maps api key")
	}
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteSolver{client: client}, nil
}

// Solve answers a single waypoint without calling the API. Longer lists go out
// as one Directions request, optimized when at least two waypoints sit between
// the ends.
func (s *RouteSolver) Solve(ctx context.Context, waypoints []route.Waypoint) (route.Plan, error) {
	switch n := len(waypoints); {
	case n == 0:
		return route.Plan{}, errs.NewValueIsRequiredError("waypoints")
	case n == 1:
		return route.Plan{StopIDs: []kernel.UUID{waypoints[0].StopID}}, nil
	case n-2 > MaxIntermediateWaypoints:
		return route.Plan{}, errs.NewValueIsOutOfRangeError("waypoints", n, 1, MaxIntermediateWaypoints+2)
	}

	intermediate := waypoints[1 : len(waypoints)-1]
	r := &maps.DirectionsRequest{
		Origin:      latLng(waypoints[0].Location),
		Destination: latLng(waypoints[len(waypoints)-1].Location),
		Mode:        maps.TravelModeDriving,
		Optimize:    len(intermediate) > 1,
	}
	for _, w := range intermediate {
		r.Waypoints = append(r.Waypoints, latLng(w.Location))
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return route.Plan{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return route.Plan{}, ErrNoRoute
	}
	return toPlan(waypoints, routes[0])
}

// toPlan maps the API's waypoint order back onto stop ids.
func toPlan(waypoints []route.Waypoint, r maps.Route) (route.Plan, error) {
	intermediate := waypoints[1 : len(waypoints)-1]
	order := r.WaypointOrder
	if len(order) == 0 {
		order = make([]int, len(intermediate))
		for i := range order {
			order[i] = i
		}
	}
	if len(order) != len(intermediate) {
		return route.Plan{}, fmt.Errorf("%w: waypoint order has %d entries for %d waypoints",
			ErrNoRoute, len(order), len(intermediate))
	}

	stopIDs := make([]kernel.UUID, 0, len(waypoints))
	stopIDs = append(stopIDs, waypoints[0].StopID)
	for _, idx := range order {
		if idx < 0 || idx >= len(intermediate) {
			return route.Plan{}, fmt.Errorf("%w: waypoint index %d", ErrNoRoute, idx)
		}
		stopIDs = append(stopIDs, intermediate[idx].StopID)
	}
	stopIDs = append(stopIDs, waypoints[len(waypoints)-1].StopID)

	var (
		meters   int
		duration time.Duration
	)
	for _, leg := range r.Legs {
		meters += leg.Distance.Meters
		duration += leg.Duration
	}

	return route.Plan{
		StopIDs:        stopIDs,
		DistanceMeters: meters,
		Duration:       duration,
		Polyline:       r.OverviewPolyline.Points,
	}, nil
}

func latLng(l kernel.Location) string {
	return strconv.FormatFloat(l.Lat(), 'f', -1, 64) + "," + strconv.FormatFloat(l.Lng(), 'f', -1, 64)
}
