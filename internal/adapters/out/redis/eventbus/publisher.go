// Package eventbus publishes order events on a Redis Pub/Sub channel.
package eventbus

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"multistop/internal/core/domain/model/order"
	"multistop/internal/core/ports"
	"multistop/internal/pkg/errs"
)

// Channel carries every order event as JSON.
const Channel = "orders:events"

var _ ports.Notifier = (*Publisher)(nil)

// Publisher implements ports.Notifier.
type Publisher struct {
	redis   *redis.Client
	channel string
}

// NewPublisher returns an error if client is nil.
func NewPublisher(client *redis.Client) (*Publisher, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("redis client")
	}
	return &Publisher{redis: client, channel: Channel}, nil
}

// Publish sends the event as JSON on Channel.
func (p *Publisher) Publish(ctx context.Context, event order.Event) error {
	if err := event.OrderID.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.redis.Publish(ctx, p.channel, payload).Err()
}
