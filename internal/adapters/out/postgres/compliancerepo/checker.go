package compliancerepo

import (
	"context"
	"slices"
	"strings"
	"time"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormComplianceChecker implements ports.ComplianceChecker. The platform-wide
// requirements come from configuration; companies may add their own.
type GormComplianceChecker struct {
	db       *gorm.DB
	required []string
	clock    func() time.Time
}

// NewGormComplianceChecker normalizes the required document types to trimmed
// upper case without duplicates. A nil clock falls back to time.Now.
func NewGormComplianceChecker(db *gorm.DB, required []string, clock func() time.Time) (*GormComplianceChecker, error) {
	if db == nil {
		return nil, errs.NewValueIsRequiredError("db")
	}
	if clock == nil {
		clock = time.Now
	}
	normalized := make([]string, 0, len(required))
	for _, r := range required {
		if r = strings.ToUpper(strings.TrimSpace(r)); r != "" && !slices.Contains(normalized, r) {
			normalized = append(normalized, r)
		}
	}
	return &GormComplianceChecker{db: db, required: normalized, clock: clock}, nil
}

// MissingDocuments lists required types without an approved, unexpired
// document, in requirement order.
func (c *GormComplianceChecker) MissingDocuments(
	ctx context.Context,
	driverID kernel.UUID,
	companyID *kernel.UUID,
) ([]string, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}
	db := c.db.WithContext(ctx)

	required := slices.Clone(c.required)
	if companyID != nil {
		var extra []string
		if err := db.Model(&RequirementDTO{}).
			Where("company_id = ?", companyID.Bytes()).
			Order("type").
			Pluck("type", &extra).Error; err != nil {
			return nil, err
		}
		for _, t := range extra {
			if !slices.Contains(required, t) {
				required = append(required, t)
			}
		}
	}
	if len(required) == 0 {
		return nil, nil
	}

	q := db.Model(&DocumentDTO{}).
		Where("driver_id = ? AND status = ? AND type IN ?", driverID.Bytes(), string(DocumentApproved), required).
		Where("expires_at IS NULL OR expires_at > ?", c.clock().UTC())
	if companyID != nil {
		q = q.Where("company_id IS NULL OR company_id = ?", companyID.Bytes())
	} else {
		q = q.Where("company_id IS NULL")
	}
	var approved []string
	if err := q.Distinct().Pluck("type", &approved).Error; err != nil {
		return nil, err
	}

	var missing []string
	for _, t := range required {
		if !slices.Contains(approved, t) {
			missing = append(missing, t)
		}
	}
	return missing, nil
}
