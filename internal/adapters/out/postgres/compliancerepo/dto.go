// Package compliancerepo answers the document gate from the driver_documents
// table.
package compliancerepo

import (
	"time"

	"github.com/google/uuid"
)

// DocumentStatus is the review state of an uploaded document.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "PENDING"
	DocumentApproved DocumentStatus = "APPROVED"
	DocumentRejected DocumentStatus = "REJECTED"
)

// DocumentDTO is a document a driver uploaded. CompanyID is set for
// documents a company requires beyond the platform-wide ones.
type DocumentDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DriverID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CompanyID *uuid.UUID `gorm:"type:uuid"`
	Type      string     `gorm:"type:text;not null"`
	Status    string     `gorm:"type:text;not null"`
	ExpiresAt *time.Time
	CreatedAt time.Time
}

// TableName specifies the database table name for driver documents.
func (DocumentDTO) TableName() string {
	return "driver_documents"
}

// RequirementDTO adds a required document type for one company.
type RequirementDTO struct {
	CompanyID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Type      string    `gorm:"type:text;primaryKey"`
}

// TableName specifies the database table name for company requirements.
func (RequirementDTO) TableName() string {
	return "company_document_requirements"
}
