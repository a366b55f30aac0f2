// Package orderrepo persists order aggregates: lifecycle status, assignment
// mode and the active offer. The itinerary graph is stored by itineraryrepo.
package orderrepo

import (
	"time"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the row of the orders table. The offer columns are either both
// set or both null.
type OrderDTO struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ClientID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	CompanyID         *uuid.UUID `gorm:"type:uuid"`
	DriverID          *uuid.UUID `gorm:"type:uuid;index"`
	Status            string     `gorm:"type:text;not null;index:idx_orders_status_offer,priority:1"`
	AssignmentMode    string     `gorm:"type:text;not null"`
	TargetDriverID    *uuid.UUID `gorm:"type:uuid"`
	OfferedDriverID   *uuid.UUID `gorm:"type:uuid"`
	OfferExpiresAt    *time.Time `gorm:"index:idx_orders_status_offer,priority:2"`
	HasPendingChanges bool       `gorm:"not null;default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	var expiresAt *time.Time
	if t := o.OfferExpiresAt(); t != nil {
		utc := t.UTC()
		expiresAt = &utc
	}

	return OrderDTO{
		ID:                o.ID().Bytes(),
		ClientID:          o.ClientID().Bytes(),
		CompanyID:         kernel.BytesPtr(o.CompanyID()),
		DriverID:          kernel.BytesPtr(o.DriverID()),
		Status:            o.Status().String(),
		AssignmentMode:    o.AssignmentMode().String(),
		TargetDriverID:    kernel.BytesPtr(o.TargetDriverID()),
		OfferedDriverID:   kernel.BytesPtr(o.OfferedDriverID()),
		OfferExpiresAt:    expiresAt,
		HasPendingChanges: o.HasPendingChanges(),
	}
}

// toDomain rebuilds the aggregate through RestoreOrder, which re-checks every
// invariant of the stored row.
func toDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	mode, err := order.ParseAssignmentMode(dto.AssignmentMode)
	if err != nil {
		return nil, err
	}

	var expiresAt *time.Time
	if dto.OfferExpiresAt != nil {
		t := dto.OfferExpiresAt.UTC()
		expiresAt = &t
	}

	return order.RestoreOrder(
		kernel.FromGoogleUUID(dto.ID),
		kernel.FromGoogleUUID(dto.ClientID),
		kernel.FromGoogleUUIDPtr(dto.CompanyID),
		kernel.FromGoogleUUIDPtr(dto.DriverID),
		status,
		mode,
		kernel.FromGoogleUUIDPtr(dto.TargetDriverID),
		kernel.FromGoogleUUIDPtr(dto.OfferedDriverID),
		expiresAt,
		dto.HasPendingChanges,
	)
}
