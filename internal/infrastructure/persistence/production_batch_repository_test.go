package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/nursery-erp/backend/internal/domain/production"
	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBatchForLock(t *testing.T) *production.ProductionBatch {
	t.Helper()

	batch, err := production.NewProductionBatch(
		uuid.New(), uuid.New(), uuid.New(),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 100,
	)
	require.NoError(t, err)
	batch.ClearDomainEvents()
	return batch
}

// TestBatchSaveWithLock tests optimistic locking on the batch cost pool
func TestBatchSaveWithLock(t *testing.T) {
	t.Run("saves when the stored version matches", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormBatchRepository(gormDB)

		batch := newTestBatchForLock(t)
		batch.Version = 2

		mock.ExpectExec(`UPDATE "production_batches" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), batch)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a stale version", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormBatchRepository(gormDB)

		batch := newTestBatchForLock(t)
		batch.Version = 2

		// Another transaction updated the row: version predicate matches nothing
		mock.ExpectExec(`UPDATE "production_batches" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), batch)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "modified by another transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// TestFindLatestMatch tests batch selection for cost matching
func TestFindLatestMatch(t *testing.T) {
	tenantID := uuid.New()
	typeID := uuid.New()
	varietyID := uuid.New()
	saleDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("orders by start date descending with id tie-break", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormBatchRepository(gormDB)

		batchID := uuid.New()
		rows := sqlmock.NewRows([]string{
			"id", "tenant_id", "plant_type_id", "plant_variety_id",
			"start_date", "initial_quantity", "current_quantity", "cost_pool", "version",
		}).AddRow(
			batchID, tenantID, typeID, varietyID,
			time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), int64(100), int64(70), decimal.NewFromInt(5000), 1,
		)

		mock.ExpectQuery(`SELECT .* FROM "production_batches" .* ORDER BY start_date DESC, id ASC`).
			WillReturnRows(rows)

		batch, err := repo.FindLatestMatch(context.Background(), tenantID, typeID, varietyID, saleDate)

		require.NoError(t, err)
		assert.Equal(t, batchID, batch.ID)
		assert.Equal(t, int64(70), batch.CurrentQuantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when no batch qualifies", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormBatchRepository(gormDB)

		mock.ExpectQuery(`SELECT .* FROM "production_batches"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindLatestMatch(context.Background(), tenantID, typeID, varietyID, saleDate)

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
