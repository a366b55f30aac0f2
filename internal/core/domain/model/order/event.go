package order

import (
	"time"

	"multistop/internal/core/domain/model/kernel"
)

// EventKind names what happened to an order. The value doubles as the
// routing key on the notification channel.
type EventKind string

const (
	StatusChanged    EventKind = "order.status_changed"
	StructureChanged EventKind = "order.structure_changed"
	OfferPlaced      EventKind = "order.offer_placed"
	OfferWithdrawn   EventKind = "order.offer_withdrawn"
)

// Event is published to the notification channel after a change commits.
type Event struct {
	Kind     EventKind    `json:"kind"`
	OrderID  kernel.UUID  `json:"orderId"`
	Status   string       `json:"status"`
	DriverID *kernel.UUID `json:"driverId,omitempty"`
	At       time.Time    `json:"at"`
}

// NewEvent captures o's current status; driverID is the driver the event
// concerns, if any.
func NewEvent(kind EventKind, o *Order, driverID *kernel.UUID, at time.Time) Event {
	return Event{Kind: kind, OrderID: o.ID(), Status: o.Status().String(), DriverID: driverID, At: at}
}
