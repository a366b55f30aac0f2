package ports

import (
	"context"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
)

// ItineraryRepository persists an order's itinerary as one graph.
type ItineraryRepository interface {
	// Load reads every step, stop, action and transit item of an order.
	Load(ctx context.Context, orderID kernel.UUID) (*itinerary.Graph, error)

	// Save writes the graph's recorded changes. Rows are deleted children
	// first and inserted parents first.
	Save(ctx context.Context, g *itinerary.Graph) error

	// OwnerOf returns the order a row belongs to.
	OwnerOf(ctx context.Context, kind itinerary.Kind, id kernel.UUID) (kernel.UUID, error)
}
