package queries

import (
	"errors"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/services"
	"multistop/internal/pkg/guard"
)

var ErrGetOrderViewQueryIsNotConstructed = errors.New(
	"GetOrderViewQuery must be created via NewGetOrderViewQuery constructor",
)

// GetOrderViewQuery asks for the itinerary of an order as one audience sees it.
//
// Example:
//
//	query, err := NewGetOrderViewQuery(orderID, clientID, services.ClientView)
//	view, err := handler.Handle(ctx, query)
type GetOrderViewQuery struct {
	orderID  kernel.UUID
	callerID kernel.UUID
	view     services.View

	guard guard.ConstructorGuard
}

// NewGetOrderViewQuery returns an error if an identifier or the view is invalid.
func NewGetOrderViewQuery(orderID, callerID kernel.UUID, view services.View) (GetOrderViewQuery, error) {
	if err := errors.Join(orderID.Validate(), callerID.Validate(), view.Validate()); err != nil {
		return GetOrderViewQuery{}, err
	}
	return GetOrderViewQuery{orderID: orderID, callerID: callerID, view: view, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderViewQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderViewQueryIsNotConstructed)
}

// OrderID returns the order to read.
func (q GetOrderViewQuery) OrderID() kernel.UUID {
	return q.orderID
}

// CallerID returns the client or driver asking.
func (q GetOrderViewQuery) CallerID() kernel.UUID {
	return q.callerID
}

// View returns the audience the itinerary is built for.
func (q GetOrderViewQuery) View() services.View {
	return q.view
}
