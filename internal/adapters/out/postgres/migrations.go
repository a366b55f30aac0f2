package postgres

import (
	"context"
	"fmt"

	"multistop/internal/adapters/out/postgres/assignmentrepo"
	"multistop/internal/adapters/out/postgres/compliancerepo"
	"multistop/internal/adapters/out/postgres/itineraryrepo"
	"multistop/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// Models lists every table of the service in creation order.
func Models() []any {
	models := []any{&orderrepo.OrderDTO{}}
	models = append(models, itineraryrepo.Models()...)
	return append(models,
		&assignmentrepo.RejectionDTO{},
		&assignmentrepo.MissionDTO{},
		&compliancerepo.DocumentDTO{},
		&compliancerepo.RequirementDTO{},
	)
}

// Migrate creates or alters the schema to match Models.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
