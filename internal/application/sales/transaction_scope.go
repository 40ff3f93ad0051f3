package sales

import (
	"context"

	"github.com/doaddy/backend/internal/domain/catalog"
	"github.com/doaddy/backend/internal/domain/inventory"
	"github.com/doaddy/backend/internal/domain/sales"
	"github.com/doaddy/backend/internal/domain/treasury"
)

// TransactionScope provides transactional access to the repositories a
// sale touches. Completing a sale writes the sale, deducts stock with
// movement records, and deposits the takings into a money account; all
// of it commits or rolls back as one unit.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories a sale
// operation needs within a transaction
type TransactionalRepositories interface {
	// SaleRepo returns the sale repository scoped to the current transaction
	SaleRepo() sales.SaleRepository
	// ItemRepo returns the catalog item repository scoped to the current transaction
	ItemRepo() catalog.ItemRepository
	// StockMovementRepo returns the stock movement repository scoped to the current transaction
	StockMovementRepo() inventory.StockMovementRepository
	// AccountRepo returns the money account repository scoped to the current transaction
	AccountRepo() treasury.MoneyAccountRepository
	// MoneyMovementRepo returns the money movement repository scoped to the current transaction
	MoneyMovementRepo() treasury.MoneyMovementRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	saleRepo          sales.SaleRepository
	itemRepo          catalog.ItemRepository
	stockMovementRepo inventory.StockMovementRepository
	accountRepo       treasury.MoneyAccountRepository
	moneyMovementRepo treasury.MoneyMovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	saleRepo sales.SaleRepository,
	itemRepo catalog.ItemRepository,
	stockMovementRepo inventory.StockMovementRepository,
	accountRepo treasury.MoneyAccountRepository,
	moneyMovementRepo treasury.MoneyMovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		saleRepo:          saleRepo,
		itemRepo:          itemRepo,
		stockMovementRepo: stockMovementRepo,
		accountRepo:       accountRepo,
		moneyMovementRepo: moneyMovementRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SaleRepo returns the sale repository
func (s *NoOpTransactionScope) SaleRepo() sales.SaleRepository { return s.saleRepo }

// ItemRepo returns the catalog item repository
func (s *NoOpTransactionScope) ItemRepo() catalog.ItemRepository { return s.itemRepo }

// StockMovementRepo returns the stock movement repository
func (s *NoOpTransactionScope) StockMovementRepo() inventory.StockMovementRepository {
	return s.stockMovementRepo
}

// AccountRepo returns the money account repository
func (s *NoOpTransactionScope) AccountRepo() treasury.MoneyAccountRepository { return s.accountRepo }

// MoneyMovementRepo returns the money movement repository
func (s *NoOpTransactionScope) MoneyMovementRepo() treasury.MoneyMovementRepository {
	return s.moneyMovementRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
