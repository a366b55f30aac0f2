package routecache_test

import (
	"testing"
	"time"

	"multistop/internal/adapters/out/redis/routecache"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/route"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T, ttl time.Duration) (*routecache.Cache, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache, err := routecache.NewCache(client, ttl)
	require.NoError(t, err)
	return cache, server
}

func plan(orderID kernel.UUID, variant route.Variant) route.Plan {
	return route.Plan{
		OrderID:        orderID,
		Variant:        variant,
		StopIDs:        []kernel.UUID{kernel.NewUUID(), kernel.NewUUID()},
		DistanceMeters: 4200,
		Duration:       11 * time.Minute,
		Polyline:       "_p~iF~ps|U_ulLnnqC",
		ComputedAt:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestNewCache_Validation(t *testing.T) {
	_, err := routecache.NewCache(nil, time.Minute)
	require.Error(t, err)

	server := miniredis.RunT(t)
	_, err = routecache.NewCache(redis.NewClient(&redis.Options{Addr: server.Addr()}), -time.Second)
	require.Error(t, err)
}

func TestCache_PutGet(t *testing.T) {
	cache, _ := newCache(t, time.Hour)
	ctx := t.Context()
	orderID := kernel.NewUUID()

	_, ok, err := cache.Get(ctx, orderID, route.Draft)
	require.NoError(t, err)
	assert.False(t, ok)

	want := plan(orderID, route.Draft)
	require.NoError(t, cache.Put(ctx, want))

	got, ok, err := cache.Get(ctx, orderID, route.Draft)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.StopIDs, got.StopIDs)
	assert.Equal(t, want.DistanceMeters, got.DistanceMeters)
	assert.Equal(t, want.Duration, got.Duration)
	assert.Equal(t, want.Polyline, got.Polyline)
	assert.True(t, want.ComputedAt.Equal(got.ComputedAt))

	_, ok, err = cache.Get(ctx, orderID, route.Stable)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Expires(t *testing.T) {
	cache, server := newCache(t, time.Minute)
	ctx := t.Context()
	orderID := kernel.NewUUID()
	require.NoError(t, cache.Put(ctx, plan(orderID, route.Stable)))

	server.FastForward(2 * time.Minute)

	_, ok, err := cache.Get(ctx, orderID, route.Stable)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Invalidate(t *testing.T) {
	cache, server := newCache(t, 0)
	ctx := t.Context()
	orderID := kernel.NewUUID()
	require.NoError(t, cache.Put(ctx, plan(orderID, route.Draft)))
	require.NoError(t, cache.Put(ctx, plan(orderID, route.Stable)))

	require.NoError(t, cache.Invalidate(ctx, orderID, route.Draft))
	_, ok, _ := cache.Get(ctx, orderID, route.Draft)
	assert.False(t, ok)
	_, ok, _ = cache.Get(ctx, orderID, route.Stable)
	assert.True(t, ok)

	require.NoError(t, cache.Invalidate(ctx, orderID))
	assert.Empty(t, server.Keys())
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	cache, server := newCache(t, 0)
	orderID := kernel.NewUUID()
	require.NoError(t, server.Set("route:"+orderID.String()+":draft", "{not json"))

	_, ok, err := cache.Get(t.Context(), orderID, route.Draft)
	require.NoError(t, err)
	assert.False(t, ok)
}
