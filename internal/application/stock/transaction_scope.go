package stock

import (
	"context"

	"github.com/nursery-erp/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to stock repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
//
// The ledger invariant depends on this: the level guard and the movement
// append must live in one transaction, so a rejected decrement leaves no
// movement behind and a crash between the two cannot split them.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the stock repositories
// within a transaction. Both repositories share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// MovementRepo returns the movement repository scoped to the current transaction
	MovementRepo() stock.MovementRepository
	// LevelRepo returns the level repository scoped to the current transaction
	LevelRepo() stock.LevelRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	movementRepo stock.MovementRepository
	levelRepo    stock.LevelRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(movementRepo stock.MovementRepository, levelRepo stock.LevelRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		movementRepo: movementRepo,
		levelRepo:    levelRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// MovementRepo returns the movement repository.
func (s *NoOpTransactionScope) MovementRepo() stock.MovementRepository {
	return s.movementRepo
}

// LevelRepo returns the level repository.
func (s *NoOpTransactionScope) LevelRepo() stock.LevelRepository {
	return s.levelRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
