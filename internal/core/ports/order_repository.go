// Package ports defines the contracts between the core and its adapters:
// relational repositories bound to a unit of work, the live driver-state
// store, the routing solver and its cache, the notification channel and the
// compliance gate.
package ports

import (
	"context"
	"time"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order without locking it.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order and locks its row until the surrounding
	// transaction ends. Every mutation of an order's itinerary or offer goes
	// through this lock.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListExpiredOffers returns ids of PENDING orders whose offer expired at or
	// before now, oldest first.
	ListExpiredOffers(ctx context.Context, now time.Time, limit int) ([]kernel.UUID, error)

	// ListUnoffered returns ids of PENDING orders without an active offer.
	ListUnoffered(ctx context.Context, limit int) ([]kernel.UUID, error)
}
