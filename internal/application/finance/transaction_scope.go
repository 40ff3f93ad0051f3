package finance

import (
	"context"

	"github.com/doaddy/backend/internal/domain/billing"
	"github.com/doaddy/backend/internal/domain/finance"
	"github.com/doaddy/backend/internal/domain/treasury"
)

// TransactionScope provides transactional access to the repositories a
// payment operation touches. Receiving a payment moves money into an
// account; allocating one updates both the payment and the invoice.
// Each must commit or roll back as a unit.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to finance repositories
// within a transaction
type TransactionalRepositories interface {
	// PaymentRepo returns the payment repository scoped to the current transaction
	PaymentRepo() finance.PaymentRepository
	// InvoiceRepo returns the invoice repository scoped to the current transaction
	InvoiceRepo() billing.InvoiceRepository
	// AccountRepo returns the money account repository scoped to the current transaction
	AccountRepo() treasury.MoneyAccountRepository
	// MoneyMovementRepo returns the money movement repository scoped to the current transaction
	MoneyMovementRepo() treasury.MoneyMovementRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	paymentRepo       finance.PaymentRepository
	invoiceRepo       billing.InvoiceRepository
	accountRepo       treasury.MoneyAccountRepository
	moneyMovementRepo treasury.MoneyMovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	paymentRepo finance.PaymentRepository,
	invoiceRepo billing.InvoiceRepository,
	accountRepo treasury.MoneyAccountRepository,
	moneyMovementRepo treasury.MoneyMovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		paymentRepo:       paymentRepo,
		invoiceRepo:       invoiceRepo,
		accountRepo:       accountRepo,
		moneyMovementRepo: moneyMovementRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// PaymentRepo returns the payment repository
func (s *NoOpTransactionScope) PaymentRepo() finance.PaymentRepository { return s.paymentRepo }

// InvoiceRepo returns the invoice repository
func (s *NoOpTransactionScope) InvoiceRepo() billing.InvoiceRepository { return s.invoiceRepo }

// AccountRepo returns the money account repository
func (s *NoOpTransactionScope) AccountRepo() treasury.MoneyAccountRepository { return s.accountRepo }

// MoneyMovementRepo returns the money movement repository
func (s *NoOpTransactionScope) MoneyMovementRepo() treasury.MoneyMovementRepository {
	return s.moneyMovementRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
