package queries

import (
	"errors"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/route"
	"multistop/internal/pkg/guard"
)

var ErrGetRouteQueryIsNotConstructed = errors.New(
	"GetRouteQuery must be created via NewGetRouteQuery constructor",
)

// GetRouteQuery asks for the routing plan of an order's draft or stable stops.
type GetRouteQuery struct {
	orderID  kernel.UUID
	callerID kernel.UUID
	variant  route.Variant

	guard guard.ConstructorGuard
}

// NewGetRouteQuery returns an error if an identifier or the variant is invalid.
func NewGetRouteQuery(orderID, callerID kernel.UUID, variant route.Variant) (GetRouteQuery, error) {
	if err := errors.Join(orderID.Validate(), callerID.Validate()); err != nil {
		return GetRouteQuery{}, err
	}
	if _, err := route.ParseVariant(string(variant)); err != nil {
		return GetRouteQuery{}, err
	}
	return GetRouteQuery{orderID: orderID, callerID: callerID, variant: variant, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetRouteQueryIsNotConstructed if validation fails.
func (q GetRouteQuery) Validate() error {
	return q.guard.Validate(ErrGetRouteQueryIsNotConstructed)
}

// OrderID returns the order to route.
func (q GetRouteQuery) OrderID() kernel.UUID {
	return q.orderID
}

// CallerID returns the client or driver asking.
func (q GetRouteQuery) CallerID() kernel.UUID {
	return q.callerID
}

// Variant returns which itinerary the plan covers.
func (q GetRouteQuery) Variant() route.Variant {
	return q.variant
}
