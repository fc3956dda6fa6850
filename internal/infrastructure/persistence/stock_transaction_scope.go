package persistence

import (
	"context"

	appstock "github.com/nursery-erp/backend/internal/application/stock"
	"github.com/nursery-erp/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormStockTransactionScope implements TransactionScope using GORM
// transactions. The movement append and the level guard run against the same
// transaction handle, so a rejected guard rolls back the whole change.
type GormStockTransactionScope struct {
	db *gorm.DB
}

// NewGormStockTransactionScope creates a new GormStockTransactionScope
func NewGormStockTransactionScope(db *gorm.DB) *GormStockTransactionScope {
	return &GormStockTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormStockTransactionScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormStockTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormStockTransactionalRepositories provides repositories scoped to one transaction
type gormStockTransactionalRepositories struct {
	tx *gorm.DB
}

// MovementRepo returns the movement repository scoped to the current transaction
func (r *gormStockTransactionalRepositories) MovementRepo() stock.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// LevelRepo returns the level repository scoped to the current transaction
func (r *gormStockTransactionalRepositories) LevelRepo() stock.LevelRepository {
	return NewGormLevelRepository(r.tx)
}

// Ensure GormStockTransactionScope implements TransactionScope
var _ appstock.TransactionScope = (*GormStockTransactionScope)(nil)

// Ensure gormStockTransactionalRepositories implements TransactionalRepositories
var _ appstock.TransactionalRepositories = (*gormStockTransactionalRepositories)(nil)
