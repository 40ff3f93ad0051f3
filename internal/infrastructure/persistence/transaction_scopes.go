package persistence

import (
	"context"

	appfinance "github.com/doaddy/backend/internal/application/finance"
	appinventory "github.com/doaddy/backend/internal/application/inventory"
	apppayroll "github.com/doaddy/backend/internal/application/payroll"
	appsales "github.com/doaddy/backend/internal/application/sales"
	apptreasury "github.com/doaddy/backend/internal/application/treasury"
	"github.com/doaddy/backend/internal/domain/billing"
	"github.com/doaddy/backend/internal/domain/catalog"
	"github.com/doaddy/backend/internal/domain/finance"
	"github.com/doaddy/backend/internal/domain/inventory"
	"github.com/doaddy/backend/internal/domain/payroll"
	"github.com/doaddy/backend/internal/domain/sales"
	"github.com/doaddy/backend/internal/domain/treasury"
	"gorm.io/gorm"
)

// GormSalesTransactionScope runs POS sale operations inside a database
// transaction so the sale, stock movements and account movements commit
// or roll back together.
type GormSalesTransactionScope struct {
	db *gorm.DB
}

// NewGormSalesTransactionScope creates a new GormSalesTransactionScope
func NewGormSalesTransactionScope(db *gorm.DB) *GormSalesTransactionScope {
	return &GormSalesTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormSalesTransactionScope) Execute(ctx context.Context, fn func(repos appsales.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormSalesRepositories{tx: tx})
	})
}

type gormSalesRepositories struct {
	tx *gorm.DB
}

func (r *gormSalesRepositories) SaleRepo() sales.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

func (r *gormSalesRepositories) ItemRepo() catalog.ItemRepository {
	return NewGormItemRepository(r.tx)
}

func (r *gormSalesRepositories) StockMovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormSalesRepositories) AccountRepo() treasury.MoneyAccountRepository {
	return NewGormMoneyAccountRepository(r.tx)
}

func (r *gormSalesRepositories) MoneyMovementRepo() treasury.MoneyMovementRepository {
	return NewGormMoneyMovementRepository(r.tx)
}

// GormInventoryTransactionScope runs stock adjustments inside a database
// transaction so the item stock level and the movement row stay consistent.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepositories{tx: tx})
	})
}

type gormInventoryRepositories struct {
	tx *gorm.DB
}

func (r *gormInventoryRepositories) ItemRepo() catalog.ItemRepository {
	return NewGormItemRepository(r.tx)
}

func (r *gormInventoryRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// GormTreasuryTransactionScope runs deposits, withdrawals and transfers
// inside a database transaction so balances and ledger rows stay consistent.
type GormTreasuryTransactionScope struct {
	db *gorm.DB
}

// NewGormTreasuryTransactionScope creates a new GormTreasuryTransactionScope
func NewGormTreasuryTransactionScope(db *gorm.DB) *GormTreasuryTransactionScope {
	return &GormTreasuryTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormTreasuryTransactionScope) Execute(ctx context.Context, fn func(repos apptreasury.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTreasuryRepositories{tx: tx})
	})
}

type gormTreasuryRepositories struct {
	tx *gorm.DB
}

func (r *gormTreasuryRepositories) AccountRepo() treasury.MoneyAccountRepository {
	return NewGormMoneyAccountRepository(r.tx)
}

func (r *gormTreasuryRepositories) MovementRepo() treasury.MoneyMovementRepository {
	return NewGormMoneyMovementRepository(r.tx)
}

// GormFinanceTransactionScope runs payment receipt, allocation and
// reversal inside a database transaction.
type GormFinanceTransactionScope struct {
	db *gorm.DB
}

// NewGormFinanceTransactionScope creates a new GormFinanceTransactionScope
func NewGormFinanceTransactionScope(db *gorm.DB) *GormFinanceTransactionScope {
	return &GormFinanceTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormFinanceTransactionScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormFinanceRepositories{tx: tx})
	})
}

type gormFinanceRepositories struct {
	tx *gorm.DB
}

func (r *gormFinanceRepositories) PaymentRepo() finance.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormFinanceRepositories) InvoiceRepo() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormFinanceRepositories) AccountRepo() treasury.MoneyAccountRepository {
	return NewGormMoneyAccountRepository(r.tx)
}

func (r *gormFinanceRepositories) MoneyMovementRepo() treasury.MoneyMovementRepository {
	return NewGormMoneyMovementRepository(r.tx)
}

// GormPayrollTransactionScope runs payroll run mutations inside a
// database transaction, covering the run, employees and the paying
// account's ledger.
type GormPayrollTransactionScope struct {
	db *gorm.DB
}

// NewGormPayrollTransactionScope creates a new GormPayrollTransactionScope
func NewGormPayrollTransactionScope(db *gorm.DB) *GormPayrollTransactionScope {
	return &GormPayrollTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormPayrollTransactionScope) Execute(ctx context.Context, fn func(repos apppayroll.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormPayrollRepositories{tx: tx})
	})
}

type gormPayrollRepositories struct {
	tx *gorm.DB
}

func (r *gormPayrollRepositories) RunRepo() payroll.RunRepository {
	return NewGormPayrollRunRepository(r.tx)
}

func (r *gormPayrollRepositories) EmployeeRepo() payroll.EmployeeRepository {
	return NewGormEmployeeRepository(r.tx)
}

func (r *gormPayrollRepositories) AccountRepo() treasury.MoneyAccountRepository {
	return NewGormMoneyAccountRepository(r.tx)
}

func (r *gormPayrollRepositories) MoneyMovementRepo() treasury.MoneyMovementRepository {
	return NewGormMoneyMovementRepository(r.tx)
}

// Interface conformance checks
var (
	_ appsales.TransactionScope     = (*GormSalesTransactionScope)(nil)
	_ appinventory.TransactionScope = (*GormInventoryTransactionScope)(nil)
	_ apptreasury.TransactionScope  = (*GormTreasuryTransactionScope)(nil)
	_ appfinance.TransactionScope   = (*GormFinanceTransactionScope)(nil)
	_ apppayroll.TransactionScope   = (*GormPayrollTransactionScope)(nil)

	_ appsales.TransactionalRepositories     = (*gormSalesRepositories)(nil)
	_ appinventory.TransactionalRepositories = (*gormInventoryRepositories)(nil)
	_ apptreasury.TransactionalRepositories  = (*gormTreasuryRepositories)(nil)
	_ appfinance.TransactionalRepositories   = (*gormFinanceRepositories)(nil)
	_ apppayroll.TransactionalRepositories   = (*gormPayrollRepositories)(nil)
)
