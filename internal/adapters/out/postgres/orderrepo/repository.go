package orderrepo

import (
	"context"
	"errors"
	"time"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes every column, including the nulls of a cleared offer.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).
		Select("*").Omit("id", "created_at").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx), id)
}

// GetForUpdate issues SELECT ... FOR UPDATE. Dialects without row locks
// (SQLite) ignore the clause and rely on their database-wide write lock.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), id)
}

// ListExpiredOffers returns PENDING orders whose offer expired at or before now,
// oldest expiry first.
func (r *GormOrderRepository) ListExpiredOffers(ctx context.Context, now time.Time, limit int) ([]kernel.UUID, error) {
	var ids []kernel.UUID
	err := r.pluckIDs(ctx, &ids, limit, func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ? AND offer_expires_at IS NOT NULL AND offer_expires_at <= ?",
			order.Pending.String(), now.UTC()).
			Order("offer_expires_at, id")
	})
	return ids, err
}

// ListUnoffered returns PENDING orders without an offer, oldest first.
func (r *GormOrderRepository) ListUnoffered(ctx context.Context, limit int) ([]kernel.UUID, error) {
	var ids []kernel.UUID
	err := r.pluckIDs(ctx, &ids, limit, func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ? AND offered_driver_id IS NULL", order.Pending.String()).
			Order("created_at, id")
	})
	return ids, err
}

func (r *GormOrderRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) pluckIDs(
	ctx context.Context,
	out *[]kernel.UUID,
	limit int,
	scope func(*gorm.DB) *gorm.DB,
) error {
	if limit <= 0 {
		return errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).Scopes(scope).Select("id").Limit(limit).Find(&dtos).Error; err != nil {
		return err
	}

	*out = make([]kernel.UUID, 0, len(dtos))
	for _, dto := range dtos {
		*out = append(*out, kernel.FromGoogleUUID(dto.ID))
	}
	return nil
}
