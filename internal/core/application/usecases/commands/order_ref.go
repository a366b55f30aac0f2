package commands

import (
	"errors"

	"multistop/internal/core/domain/model/kernel"
)

// orderRef names the order a command applies to and the client issuing it.
type orderRef struct {
	orderID  kernel.UUID
	clientID kernel.UUID
}

func newOrderRef(orderID, clientID kernel.UUID) (orderRef, error) {
	if err := errors.Join(orderID.Validate(), clientID.Validate()); err != nil {
		return orderRef{}, err
	}
	return orderRef{orderID: orderID, clientID: clientID}, nil
}

// OrderID returns the target order.
func (r orderRef) OrderID() kernel.UUID {
	return r.orderID
}

// ClientID returns the caller, checked against the order's owner.
func (r orderRef) ClientID() kernel.UUID {
	return r.clientID
}
