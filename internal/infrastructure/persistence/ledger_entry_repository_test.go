package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBalance_SQLFold tests that the balance is folded in the store rather
// than in application memory
func TestBalance_SQLFold(t *testing.T) {
	tenantID := uuid.New()
	counterpartyID := uuid.New()

	t.Run("folds credits minus debits in a single query", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormEntryRepository(gormDB)

		rows := sqlmock.NewRows([]string{"balance"}).AddRow("80")
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(CASE WHEN direction = .* THEN amount ELSE -amount END\), 0\)`).
			WillReturnRows(rows)

		balance, err := repo.Balance(context.Background(), tenantID, counterpartyID)

		require.NoError(t, err)
		assert.Equal(t, "80", balance.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns zero for an account with no entries", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormEntryRepository(gormDB)

		rows := sqlmock.NewRows([]string{"balance"}).AddRow("0")
		mock.ExpectQuery(`SELECT COALESCE\(SUM`).
			WillReturnRows(rows)

		balance, err := repo.Balance(context.Background(), tenantID, counterpartyID)

		require.NoError(t, err)
		assert.True(t, balance.IsZero())
	})

	t.Run("negative balance when debits exceed credits", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormEntryRepository(gormDB)

		rows := sqlmock.NewRows([]string{"balance"}).AddRow("-120.5")
		mock.ExpectQuery(`SELECT COALESCE\(SUM`).
			WillReturnRows(rows)

		balance, err := repo.Balance(context.Background(), tenantID, counterpartyID)

		require.NoError(t, err)
		assert.Equal(t, "-120.5", balance.String())
	})
}

// TestFindByIDForTenant_EntryNotFound tests not-found translation
func TestFindByIDForTenant_EntryNotFound(t *testing.T) {
	gormDB, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormEntryRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "ledger_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByIDForTenant(context.Background(), uuid.New(), uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
