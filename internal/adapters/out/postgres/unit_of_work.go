// Package postgres provides the GORM-based Unit of Work over the order,
// itinerary and assignment tables.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
//	if err != nil {
//	    return err
//	}
//	g, err := uow.ItineraryRepository().Load(ctx, o.ID())
//	// ... mutate o and g
//	if err := uow.ItineraryRepository().Save(ctx, g); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Repositories obtained before Begin read through the plain connection, which
// is how queries use the unit of work.
//
// Concurrency Considerations:
//   - Each UnitOfWork instance provides isolated transactions
//   - Multiple goroutines should use separate UnitOfWork instances
//   - Serialization, deadlock and unique-key failures surface as
//     errs.ConcurrencyConflictError so callers can retry the whole transaction
package postgres

import (
	"context"

	"multistop/internal/adapters/out/postgres/assignmentrepo"
	"multistop/internal/adapters/out/postgres/dberr"
	"multistop/internal/adapters/out/postgres/itineraryrepo"
	"multistop/internal/adapters/out/postgres/orderrepo"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection
// pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory over db.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a fresh unit of work with its own transaction state.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and remembers the
// aggregates written in it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it twice is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	uow.tx = tx
	return nil
}

// Commit finalizes the transaction. A serialization failure reported at
// commit time is a concurrency conflict.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return dberr.Translate("transaction", err)
}

// Rollback discards the transaction. Returns gorm.ErrInvalidTransaction when
// none is active, which deferred rollbacks after Commit ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// OrderRepository returns an order repository bound to the current transaction.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// ItineraryRepository returns an itinerary repository bound to the current
// transaction.
func (uow *GormUnitOfWork) ItineraryRepository() ports.ItineraryRepository {
	return itineraryrepo.NewGormItineraryRepository(uow.conn(), uow)
}

// RejectionRepository returns a rejection repository bound to the current
// transaction.
func (uow *GormUnitOfWork) RejectionRepository() ports.RejectionRepository {
	return assignmentrepo.NewGormRejectionRepository(uow.conn())
}

// MissionRepository returns a mission repository bound to the current
// transaction.
func (uow *GormUnitOfWork) MissionRepository() ports.MissionRepository {
	return assignmentrepo.NewGormMissionRepository(uow.conn())
}

// TrackAggregate is called by repositories after a successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedCount reports how many aggregate writes the unit of work recorded.
func (uow *GormUnitOfWork) TrackedCount() int {
	return len(uow.trackedAggregates)
}

// conn is the active transaction, or the plain connection when none is open.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
