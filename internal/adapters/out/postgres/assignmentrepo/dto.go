// Package assignmentrepo persists the records of the offer protocol:
// rejections of the current assignment cycle and accepted missions.
package assignmentrepo

import (
	"time"

	"multistop/internal/core/domain/model/assignment"
	"multistop/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// RejectionDTO is a driver that refused an order or let its offer expire.
type RejectionDTO struct {
	OrderID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	DriverID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Reason   string    `gorm:"type:text;not null"`
	At       time.Time `gorm:"column:rejected_at;not null"`
}

// TableName specifies the database table name for rejections.
func (RejectionDTO) TableName() string {
	return "rejections"
}

// MissionDTO is the execution record of an accepted order. There is at most
// one per order.
type MissionDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	DriverID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Status     string    `gorm:"type:text;not null"`
	AcceptedAt time.Time
}

// TableName specifies the database table name for missions.
func (MissionDTO) TableName() string {
	return "missions"
}

func rejectionFromDomain(r assignment.Rejection) RejectionDTO {
	return RejectionDTO{
		OrderID:  r.OrderID().Bytes(),
		DriverID: r.DriverID().Bytes(),
		Reason:   string(r.Reason()),
		At:       r.At().UTC(),
	}
}

func missionFromDomain(m *assignment.Mission) MissionDTO {
	return MissionDTO{
		ID:         m.ID().Bytes(),
		OrderID:    m.OrderID().Bytes(),
		DriverID:   m.DriverID().Bytes(),
		Status:     string(m.Status()),
		AcceptedAt: m.AcceptedAt().UTC(),
	}
}

func (dto MissionDTO) toDomain() (*assignment.Mission, error) {
	return assignment.RestoreMission(
		kernel.FromGoogleUUID(dto.ID),
		kernel.FromGoogleUUID(dto.OrderID),
		kernel.FromGoogleUUID(dto.DriverID),
		assignment.MissionStatus(dto.Status),
		dto.AcceptedAt.UTC(),
	)
}
