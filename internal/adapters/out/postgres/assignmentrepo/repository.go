package assignmentrepo

import (
	"context"
	"errors"

	"multistop/internal/adapters/out/postgres/dberr"
	"multistop/internal/core/domain/model/assignment"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRejectionRepository implements ports.RejectionRepository.
type GormRejectionRepository struct {
	db *gorm.DB
}

// NewGormRejectionRepository creates a new GORM rejection repository.
func NewGormRejectionRepository(db *gorm.DB) *GormRejectionRepository {
	return &GormRejectionRepository{db: db}
}

// Add keeps the first rejection of a driver; a repeated one is ignored.
func (r *GormRejectionRepository) Add(ctx context.Context, rejection assignment.Rejection) error {
	dto := rejectionFromDomain(rejection)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&dto).Error
}

// ListDriverIDs returns the drivers that rejected the order, in rejection order.
func (r *GormRejectionRepository) ListDriverIDs(ctx context.Context, orderID kernel.UUID) ([]kernel.UUID, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&RejectionDTO{}).
		Where("order_id = ?", orderID.Bytes()).
		Order("rejected_at, driver_id").
		Pluck("driver_id", &ids).Error; err != nil {
		return nil, err
	}

	out := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		out = append(out, kernel.FromGoogleUUID(id))
	}
	return out, nil
}

// DeleteForOrder removes every rejection of the order.
func (r *GormRejectionRepository) DeleteForOrder(ctx context.Context, orderID kernel.UUID) error {
	return r.db.WithContext(ctx).Where("order_id = ?", orderID.Bytes()).Delete(&RejectionDTO{}).Error
}

// GormMissionRepository implements ports.MissionRepository.
type GormMissionRepository struct {
	db *gorm.DB
}

// NewGormMissionRepository creates a new GORM mission repository.
func NewGormMissionRepository(db *gorm.DB) *GormMissionRepository {
	return &GormMissionRepository{db: db}
}

// Upsert replaces the mission of the order, keyed by order_id.
func (r *GormMissionRepository) Upsert(ctx context.Context, mission *assignment.Mission) error {
	dto := missionFromDomain(mission)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"id", "driver_id", "status", "accepted_at"}),
	}).Create(&dto).Error
	return dberr.Translate("mission of order "+mission.OrderID().String(), err)
}

// GetByOrder returns the mission of an order.
func (r *GormMissionRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*assignment.Mission, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto MissionDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("mission", orderID.String())
		}
		return nil, err
	}
	return dto.toDomain()
}
