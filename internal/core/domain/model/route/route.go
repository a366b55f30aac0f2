// Package route describes routing plans computed for an order's stops.
package route

import (
	"fmt"
	"time"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"
)

// Variant selects which itinerary a plan is computed for. The draft plan
// follows the client's pending edits, the stable plan what drivers execute.
type Variant string

const (
	Draft  Variant = "draft"
	Stable Variant = "stable"
)

// ParseVariant maps the query value back to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case Draft, Stable:
		return Variant(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("route variant", fmt.Errorf("%q is not a variant", s))
	}
}

// Waypoint is a stop the solver must visit.
type Waypoint struct {
	StopID   kernel.UUID
	Location kernel.Location
}

// Plan is a solved route over the stops of one itinerary variant, in
// execution order.
type Plan struct {
	OrderID        kernel.UUID   `json:"orderId"`
	Variant        Variant       `json:"variant"`
	StopIDs        []kernel.UUID `json:"stopIds"`
	DistanceMeters int           `json:"distanceMeters"`
	Duration       time.Duration `json:"duration"`
	Polyline       string        `json:"polyline"`
	ComputedAt     time.Time     `json:"computedAt"`
}
