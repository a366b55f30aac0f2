package commands

import (
	"context"
	"log/slog"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/core/domain/model/route"
	"multistop/internal/core/ports"
)

// SideEffects performs the writes that follow a successful commit: route
// cache invalidation and event publication. Failures are logged and counted,
// never returned.
type SideEffects struct {
	routes   ports.RouteCache
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewSideEffects accepts nil collaborators for deployments without a cache or
// a notification channel.
func NewSideEffects(routes ports.RouteCache, notifier ports.Notifier, logger *slog.Logger) *SideEffects {
	if logger == nil {
		logger = slog.Default()
	}
	return &SideEffects{routes: routes, notifier: notifier, logger: logger.With("component", "side-effects")}
}

// InvalidateRoutes drops cached plans of orderID and reports whether it
// succeeded.
func (s *SideEffects) InvalidateRoutes(ctx context.Context, orderID kernel.UUID, variants ...route.Variant) bool {
	if s == nil || s.routes == nil {
		return true
	}
	if err := s.routes.Invalidate(ctx, orderID, variants...); err != nil {
		sideEffectFailuresTotal.WithLabelValues("route_cache").Inc()
		s.logger.WarnContext(ctx, "route cache invalidation failed",
			"order_id", orderID.String(), "variants", variants, "error", err)
		return false
	}
	return true
}

// Publish sends event to the notifier.
func (s *SideEffects) Publish(ctx context.Context, event order.Event) {
	if s == nil || s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		sideEffectFailuresTotal.WithLabelValues("notifier").Inc()
		s.logger.WarnContext(ctx, "event publication failed",
			"order_id", event.OrderID.String(), "kind", string(event.Kind), "error", err)
	}
}

// LiveStoreFailed records a live-store write that could not be applied.
func (s *SideEffects) LiveStoreFailed(ctx context.Context, operation string, driverID, orderID kernel.UUID, err error) {
	sideEffectFailuresTotal.WithLabelValues("live_store").Inc()
	if s == nil {
		return
	}
	s.logger.WarnContext(ctx, "live store update failed", "operation", operation,
		"driver_id", driverID.String(), "order_id", orderID.String(), "error", err)
}
