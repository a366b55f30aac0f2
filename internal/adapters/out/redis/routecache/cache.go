// Package routecache stores solved route plans in Redis under
// route:{orderId}:{variant}.
package routecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/route"
	"multistop/internal/core/ports"
	"multistop/internal/pkg/errs"
)

const keyPattern = "route:%s:%s"

var _ ports.RouteCache = (*Cache)(nil)

// Cache implements ports.RouteCache.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewCache keeps plans for ttl. A zero ttl keeps them until invalidated.
func NewCache(client *redis.Client, ttl time.Duration) (*Cache, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("redis client")
	}
	if ttl < 0 {
		return nil, errs.NewValueIsOutOfRangeError("ttl", ttl, 0, "unbounded")
	}
	return &Cache{redis: client, ttl: ttl}, nil
}

// Get treats an undecodable entry as a miss.
func (c *Cache) Get(ctx context.Context, orderID kernel.UUID, variant route.Variant) (route.Plan, bool, error) {
	raw, err := c.redis.Get(ctx, key(orderID, variant)).Bytes()
	if errors.Is(err, redis.Nil) {
		return route.Plan{}, false, nil
	}
	if err != nil {
		return route.Plan{}, false, err
	}

	var plan route.Plan
	if err = json.Unmarshal(raw, &plan); err != nil {
		// A plan written by an older encoding is treated as a miss.
		return route.Plan{}, false, nil
	}
	return plan, true, nil
}

// Put stores the plan under its order and variant.
func (c *Cache) Put(ctx context.Context, plan route.Plan) error {
	raw, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, key(plan.OrderID, plan.Variant), raw, c.ttl).Err()
}

// Invalidate drops the given variants, or both when none are given.
func (c *Cache) Invalidate(ctx context.Context, orderID kernel.UUID, variants ...route.Variant) error {
	if len(variants) == 0 {
		variants = []route.Variant{route.Draft, route.Stable}
	}
	keys := make([]string, len(variants))
	for i, v := range variants {
		keys[i] = key(orderID, v)
	}
	return c.redis.Del(ctx, keys...).Err()
}

func key(orderID kernel.UUID, variant route.Variant) string {
	return fmt.Sprintf(keyPattern, orderID, variant)
}
