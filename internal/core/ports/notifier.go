package ports

import (
	"context"

	"multistop/internal/core/domain/model/order"
)

// Notifier publishes order events to the real-time channel. Fan-out to
// clients and drivers is the subscriber's concern.
type Notifier interface {
	Publish(ctx context.Context, event order.Event) error
}
