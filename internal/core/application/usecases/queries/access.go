package queries

import (
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/core/domain/services"
	"multistop/internal/pkg/errs"
)

// authorize checks that callerID may read o through view: the client owns
// the CLIENT view, the assigned or offered driver reads the DRIVER view.
// The client may read the DRIVER view as well.
func authorize(o *order.Order, callerID kernel.UUID, view services.View) error {
	if o.ClientID().IsEqual(callerID) {
		return nil
	}
	if view == services.DriverView {
		if d := o.DriverID(); d != nil && d.IsEqual(callerID) {
			return nil
		}
		if d := o.OfferedDriverID(); d != nil && d.IsEqual(callerID) {
			return nil
		}
	}
	return errs.NewOwnershipMismatchError("order", o.ID().String(), callerID.String())
}
