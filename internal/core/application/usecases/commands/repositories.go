// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"multistop/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ItineraryRepoFactory provides access to the itinerary graph within a transaction.
	ItineraryRepoFactory interface {
		ItineraryRepository() ports.ItineraryRepository
	}

	// AssignmentRepoFactory provides access to rejection and mission records
	// within a transaction.
	AssignmentRepoFactory interface {
		RejectionRepository() ports.RejectionRepository
		MissionRepository() ports.MissionRepository
	}

	// OrderUoW manages transactions for operations on an order and its itinerary.
	// Used by order creation, submission and every itinerary edit.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		ItineraryRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW manages transactions across orders, itineraries and assignment records.
	// Used by the offer protocol.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	//   rejected, err := uow.RejectionRepository().ListDriverIDs(ctx, orderID)
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		ItineraryRepoFactory
		AssignmentRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
