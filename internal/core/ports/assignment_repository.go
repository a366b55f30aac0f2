package ports

import (
	"context"

	"multistop/internal/core/domain/model/assignment"
	"multistop/internal/core/domain/model/kernel"
)

// RejectionRepository remembers which drivers refused or let an offer expire
// during the order's current assignment cycle.
type RejectionRepository interface {
	// Add records a rejection. Recording the same pair twice is a no-op.
	Add(ctx context.Context, rejection assignment.Rejection) error

	ListDriverIDs(ctx context.Context, orderID kernel.UUID) ([]kernel.UUID, error)

	// DeleteForOrder ends the assignment cycle.
	DeleteForOrder(ctx context.Context, orderID kernel.UUID) error
}

// MissionRepository stores the execution record of accepted orders.
type MissionRepository interface {
	// Upsert creates the execution record of an order or replaces it.
	Upsert(ctx context.Context, mission *assignment.Mission) error

	GetByOrder(ctx context.Context, orderID kernel.UUID) (*assignment.Mission, error)
}
