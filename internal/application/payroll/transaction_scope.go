package payroll

import (
	"context"

	"github.com/doaddy/backend/internal/domain/payroll"
	"github.com/doaddy/backend/internal/domain/treasury"
)

// TransactionScope provides transactional access to payroll
// repositories. Paying a run withdraws the net total from a money
// account and marks the run paid atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to payroll repositories
// within a transaction
type TransactionalRepositories interface {
	// RunRepo returns the payroll run repository scoped to the current transaction
	RunRepo() payroll.RunRepository
	// EmployeeRepo returns the employee repository scoped to the current transaction
	EmployeeRepo() payroll.EmployeeRepository
	// AccountRepo returns the money account repository scoped to the current transaction
	AccountRepo() treasury.MoneyAccountRepository
	// MoneyMovementRepo returns the money movement repository scoped to the current transaction
	MoneyMovementRepo() treasury.MoneyMovementRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	runRepo           payroll.RunRepository
	employeeRepo      payroll.EmployeeRepository
	accountRepo       treasury.MoneyAccountRepository
	moneyMovementRepo treasury.MoneyMovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	runRepo payroll.RunRepository,
	employeeRepo payroll.EmployeeRepository,
	accountRepo treasury.MoneyAccountRepository,
	moneyMovementRepo treasury.MoneyMovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		runRepo:           runRepo,
		employeeRepo:      employeeRepo,
		accountRepo:       accountRepo,
		moneyMovementRepo: moneyMovementRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// RunRepo returns the payroll run repository
func (s *NoOpTransactionScope) RunRepo() payroll.RunRepository { return s.runRepo }

// EmployeeRepo returns the employee repository
func (s *NoOpTransactionScope) EmployeeRepo() payroll.EmployeeRepository { return s.employeeRepo }

// AccountRepo returns the money account repository
func (s *NoOpTransactionScope) AccountRepo() treasury.MoneyAccountRepository { return s.accountRepo }

// MoneyMovementRepo returns the money movement repository
func (s *NoOpTransactionScope) MoneyMovementRepo() treasury.MoneyMovementRepository {
	return s.moneyMovementRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
