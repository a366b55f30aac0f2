package postgres_test

import (
	"fmt"
	"testing"

	postgres_adapter "multistop/internal/adapters/out/postgres"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard, TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, postgres_adapter.Migrate(t.Context(), db))
	return db
}

func newDraft(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), order.Global, nil, nil)
	require.NoError(t, err)
	return o
}

func TestGormUnitOfWork_TracksWritesOfCommittedTransaction(t *testing.T) {
	ctx := t.Context()
	factory := postgres_adapter.NewGormUnitOfWorkFactory(openSQLite(t))
	uow := factory.Create().(*postgres_adapter.GormUnitOfWork)

	require.NoError(t, uow.Begin(ctx))
	o := newDraft(t)
	require.NoError(t, uow.OrderRepository().Add(ctx, o))
	require.NoError(t, uow.OrderRepository().Update(ctx, o))
	require.NoError(t, uow.Commit(ctx))

	assert.Equal(t, 2, uow.TrackedCount())
	_, err := factory.Create().OrderRepository().Get(ctx, o.ID())
	assert.NoError(t, err)
}

func TestGormUnitOfWork_RollbackDiscards(t *testing.T) {
	ctx := t.Context()
	factory := postgres_adapter.NewGormUnitOfWorkFactory(openSQLite(t))
	uow := factory.Create()

	require.NoError(t, uow.Begin(ctx))
	o := newDraft(t)
	require.NoError(t, uow.OrderRepository().Add(ctx, o))
	require.NoError(t, uow.Rollback(ctx))

	_, err := factory.Create().OrderRepository().Get(ctx, o.ID())
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.ErrorIs(t, uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func TestModels_CoverEveryTable(t *testing.T) {
	db := openSQLite(t)

	for _, table := range []string{
		"orders", "steps", "stops", "actions", "action_proofs", "transit_items",
		"rejections", "missions", "driver_documents", "company_document_requirements",
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
