package treasury

import (
	"context"

	"github.com/doaddy/backend/internal/domain/treasury"
)

// TransactionScope provides transactional access to treasury
// repositories. An account balance change and its movement record must
// be written atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to treasury repositories
// within a transaction
type TransactionalRepositories interface {
	// AccountRepo returns the money account repository scoped to the current transaction
	AccountRepo() treasury.MoneyAccountRepository
	// MovementRepo returns the money movement repository scoped to the current transaction
	MovementRepo() treasury.MoneyMovementRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	accountRepo  treasury.MoneyAccountRepository
	movementRepo treasury.MoneyMovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(accountRepo treasury.MoneyAccountRepository, movementRepo treasury.MoneyMovementRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// AccountRepo returns the money account repository
func (s *NoOpTransactionScope) AccountRepo() treasury.MoneyAccountRepository {
	return s.accountRepo
}

// MovementRepo returns the money movement repository
func (s *NoOpTransactionScope) MovementRepo() treasury.MoneyMovementRepository {
	return s.movementRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
