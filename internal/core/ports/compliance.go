package ports

import (
	"context"

	"multistop/internal/core/domain/model/kernel"
)

// ComplianceChecker is the document gate consulted before a driver accepts
// an order.
type ComplianceChecker interface {
	// MissingDocuments returns the required document types the driver has no
	// approved, unexpired record of. A nil companyID checks the platform-wide
	// requirements only.
	MissingDocuments(ctx context.Context, driverID kernel.UUID, companyID *kernel.UUID) ([]string, error)
}
