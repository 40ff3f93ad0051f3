package finance

import (
	"context"
	"testing"
	"time"

	"github.com/doaddy/backend/internal/domain/billing"
	"github.com/doaddy/backend/internal/domain/finance"
	"github.com/doaddy/backend/internal/domain/partner"
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/domain/shared/valueobject"
	"github.com/doaddy/backend/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*finance.Payment, error) {
	args := m.Called(ctx, id, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*finance.Payment, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]*finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByCustomerForOrg(ctx context.Context, customerID, orgID uuid.UUID, filter shared.Filter) ([]*finance.Payment, error) {
	args := m.Called(ctx, customerID, orgID, filter)
	return args.Get(0).([]*finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *finance.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) SaveWithLock(ctx context.Context, payment *finance.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GeneratePaymentNumber(ctx context.Context, orgID uuid.UUID) (string, error) {
	args := m.Called(ctx, orgID)
	return args.String(0), args.Error(1)
}

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumberForOrg(ctx context.Context, number string, orgID uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, number, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*billing.Invoice, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByCustomerForOrg(ctx context.Context, customerID, orgID uuid.UUID, filter shared.Filter) ([]*billing.Invoice, error) {
	args := m.Called(ctx, customerID, orgID, filter)
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GenerateInvoiceNumber(ctx context.Context, orgID uuid.UUID) (string, error) {
	args := m.Called(ctx, orgID)
	return args.String(0), args.Error(1)
}

// MockMoneyAccountRepository is a mock implementation of treasury.MoneyAccountRepository
type MockMoneyAccountRepository struct {
	mock.Mock
}

func (m *MockMoneyAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*treasury.MoneyAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*treasury.MoneyAccount), args.Error(1)
}

func (m *MockMoneyAccountRepository) FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*treasury.MoneyAccount, error) {
	args := m.Called(ctx, id, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*treasury.MoneyAccount), args.Error(1)
}

func (m *MockMoneyAccountRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*treasury.MoneyAccount, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]*treasury.MoneyAccount), args.Error(1)
}

func (m *MockMoneyAccountRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMoneyAccountRepository) Save(ctx context.Context, account *treasury.MoneyAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockMoneyAccountRepository) SaveWithLock(ctx context.Context, account *treasury.MoneyAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockMoneyMovementRepository is a mock implementation of treasury.MoneyMovementRepository
type MockMoneyMovementRepository struct {
	mock.Mock
}

func (m *MockMoneyMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*treasury.MoneyMovement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*treasury.MoneyMovement), args.Error(1)
}

func (m *MockMoneyMovementRepository) FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*treasury.MoneyMovement, error) {
	args := m.Called(ctx, id, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*treasury.MoneyMovement), args.Error(1)
}

func (m *MockMoneyMovementRepository) FindByAccountForOrg(ctx context.Context, accountID, orgID uuid.UUID, filter shared.Filter) ([]*treasury.MoneyMovement, error) {
	args := m.Called(ctx, accountID, orgID, filter)
	return args.Get(0).([]*treasury.MoneyMovement), args.Error(1)
}

func (m *MockMoneyMovementRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMoneyMovementRepository) Save(ctx context.Context, movement *treasury.MoneyMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMoneyMovementRepository) MarkReconciled(ctx context.Context, id, orgID uuid.UUID) error {
	args := m.Called(ctx, id, orgID)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

type paymentServiceFixture struct {
	paymentRepo  *MockPaymentRepository
	invoiceRepo  *MockInvoiceRepository
	accountRepo  *MockMoneyAccountRepository
	moneyRepo    *MockMoneyMovementRepository
	customerRepo *MockCustomerRepository
	service      *PaymentService
}

func newPaymentServiceFixture() *paymentServiceFixture {
	f := &paymentServiceFixture{
		paymentRepo:  new(MockPaymentRepository),
		invoiceRepo:  new(MockInvoiceRepository),
		accountRepo:  new(MockMoneyAccountRepository),
		moneyRepo:    new(MockMoneyMovementRepository),
		customerRepo: new(MockCustomerRepository),
	}
	txScope := NewNoOpTransactionScope(f.paymentRepo, f.invoiceRepo, f.accountRepo, f.moneyRepo)
	f.service = NewPaymentService(f.paymentRepo, f.customerRepo, txScope)
	return f
}

func createTestCustomer(orgID uuid.UUID) *partner.Customer {
	customer, _ := partner.NewCustomer(orgID, "Mwila Stores", "mwila@example.com", "+260977654321")
	customer.ClearDomainEvents()
	return customer
}

func newTestOrgID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func createTestAccount(orgID uuid.UUID, balance float64) *treasury.MoneyAccount {
	account, _ := treasury.NewMoneyAccount(orgID, "Main", treasury.AccountTypeBank,
		valueobject.NewMoneyZMW(decimal.NewFromFloat(balance)))
	account.ClearDomainEvents()
	return account
}

func createSentInvoice(t *testing.T, orgID, customerID uuid.UUID, amount float64) *billing.Invoice {
	t.Helper()
	line, err := billing.NewDocumentLine(uuid.New(), "SVC-1", "Consulting",
		decimal.NewFromInt(1), decimal.Zero, decimal.NewFromFloat(amount))
	assert.NoError(t, err)
	invoice, err := billing.NewInvoice(orgID, customerID, "INV-2026-00001",
		time.Now(), time.Now().AddDate(0, 0, 30), billing.DocumentLines{line},
		billing.DiscountTypeNone, decimal.Zero, decimal.Zero, "")
	assert.NoError(t, err)
	assert.NoError(t, invoice.Send())
	invoice.ClearDomainEvents()
	return invoice
}

func TestPaymentService_Receive_Success(t *testing.T) {
	f := newPaymentServiceFixture()
	ctx := context.Background()
	orgID := newTestOrgID()

	account := createTestAccount(orgID, 100)
	customer := createTestCustomer(orgID)
	customerID := customer.ID

	f.customerRepo.On("FindByIDForOrg", ctx, orgID, customer.ID).Return(customer, nil)
	f.paymentRepo.On("GeneratePaymentNumber", ctx, orgID).Return("PAY-2026-00001", nil)
	f.accountRepo.On("FindByIDForOrg", ctx, account.ID, orgID).Return(account, nil)
	f.accountRepo.On("SaveWithLock", ctx, account).Return(nil)
	f.moneyRepo.On("Save", ctx, mock.AnythingOfType("*treasury.MoneyMovement")).Return(nil)
	f.paymentRepo.On("Save", ctx, mock.AnythingOfType("*finance.Payment")).Return(nil)

	result, err := f.service.Receive(ctx, orgID, ReceivePaymentRequest{
		CustomerID: customerID,
		AccountID:  account.ID,
		Method:     "BANK_TRANSFER",
		Amount:     decimal.NewFromInt(250),
	})

	assert.NoError(t, err)
	assert.Equal(t, "PAY-2026-00001", result.Number)
	assert.Equal(t, "UNALLOCATED", result.Status)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(350)))
	f.paymentRepo.AssertExpectations(t)
	f.accountRepo.AssertExpectations(t)
	f.moneyRepo.AssertExpectations(t)
}

func TestPaymentService_Receive_UnknownCustomer(t *testing.T) {
	f := newPaymentServiceFixture()
	ctx := context.Background()
	orgID := newTestOrgID()
	customerID := uuid.New()

	f.customerRepo.On("FindByIDForOrg", ctx, orgID, customerID).Return(nil, shared.ErrNotFound)

	result, err := f.service.Receive(ctx, orgID, ReceivePaymentRequest{
		CustomerID: customerID,
		AccountID:  uuid.New(),
		Method:     "CASH",
		Amount:     decimal.NewFromInt(250),
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	f.paymentRepo.AssertNotCalled(t, "GeneratePaymentNumber", mock.Anything, mock.Anything)
	f.paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.accountRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestPaymentService_Allocate_Success(t *testing.T) {
	f := newPaymentServiceFixture()
	ctx := context.Background()
	orgID := newTestOrgID()
	customerID := uuid.New()

	invoice := createSentInvoice(t, orgID, customerID, 200)
	payment, err := finance.NewPayment(orgID, customerID, uuid.New(), "PAY-2026-00001",
		finance.PaymentMethodCash, valueobject.NewMoneyZMW(decimal.NewFromInt(250)), time.Now(), "", "")
	assert.NoError(t, err)
	payment.ClearDomainEvents()

	f.paymentRepo.On("FindByIDForOrg", ctx, payment.ID, orgID).Return(payment, nil)
	f.invoiceRepo.On("FindByIDForOrg", ctx, invoice.ID, orgID).Return(invoice, nil)
	f.invoiceRepo.On("SaveWithLock", ctx, invoice).Return(nil)
	f.paymentRepo.On("SaveWithLock", ctx, payment).Return(nil)

	result, err := f.service.Allocate(ctx, orgID, payment.ID, AllocatePaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(200),
	})

	assert.NoError(t, err)
	assert.Equal(t, "PARTIALLY_ALLOCATED", result.Status)
	assert.True(t, result.Allocated.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, billing.InvoiceStatusPaid, invoice.Status)
	f.invoiceRepo.AssertExpectations(t)
	f.paymentRepo.AssertExpectations(t)
}

func TestPaymentService_Allocate_OverAllocation(t *testing.T) {
	f := newPaymentServiceFixture()
	ctx := context.Background()
	orgID := newTestOrgID()
	customerID := uuid.New()

	invoice := createSentInvoice(t, orgID, customerID, 200)
	payment, err := finance.NewPayment(orgID, customerID, uuid.New(), "PAY-2026-00002",
		finance.PaymentMethodCash, valueobject.NewMoneyZMW(decimal.NewFromInt(100)), time.Now(), "", "")
	assert.NoError(t, err)

	f.paymentRepo.On("FindByIDForOrg", ctx, payment.ID, orgID).Return(payment, nil)
	f.invoiceRepo.On("FindByIDForOrg", ctx, invoice.ID, orgID).Return(invoice, nil)

	result, err := f.service.Allocate(ctx, orgID, payment.ID, AllocatePaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(150),
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrOverAllocation)
	f.paymentRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestPaymentService_Allocate_CustomerMismatch(t *testing.T) {
	f := newPaymentServiceFixture()
	ctx := context.Background()
	orgID := newTestOrgID()

	invoice := createSentInvoice(t, orgID, uuid.New(), 200)
	payment, err := finance.NewPayment(orgID, uuid.New(), uuid.New(), "PAY-2026-00003",
		finance.PaymentMethodCash, valueobject.NewMoneyZMW(decimal.NewFromInt(100)), time.Now(), "", "")
	assert.NoError(t, err)

	f.paymentRepo.On("FindByIDForOrg", ctx, payment.ID, orgID).Return(payment, nil)
	f.invoiceRepo.On("FindByIDForOrg", ctx, invoice.ID, orgID).Return(invoice, nil)

	result, err := f.service.Allocate(ctx, orgID, payment.ID, AllocatePaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(100),
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CUSTOMER_MISMATCH", domainErr.Code)
}

func TestPaymentService_Deallocate_RestoresInvoice(t *testing.T) {
	f := newPaymentServiceFixture()
	ctx := context.Background()
	orgID := newTestOrgID()
	customerID := uuid.New()

	invoice := createSentInvoice(t, orgID, customerID, 200)
	payment, err := finance.NewPayment(orgID, customerID, uuid.New(), "PAY-2026-00004",
		finance.PaymentMethodCash, valueobject.NewMoneyZMW(decimal.NewFromInt(200)), time.Now(), "", "")
	assert.NoError(t, err)

	assert.NoError(t, invoice.ApplyPayment(valueobject.NewMoneyZMW(decimal.NewFromInt(200))))
	assert.NoError(t, payment.AllocateToInvoice(invoice.ID, invoice.Number, valueobject.NewMoneyZMW(decimal.NewFromInt(200))))

	f.paymentRepo.On("FindByIDForOrg", ctx, payment.ID, orgID).Return(payment, nil)
	f.invoiceRepo.On("FindByIDForOrg", ctx, invoice.ID, orgID).Return(invoice, nil)
	f.invoiceRepo.On("SaveWithLock", ctx, invoice).Return(nil)
	f.paymentRepo.On("SaveWithLock", ctx, payment).Return(nil)

	result, err := f.service.Deallocate(ctx, orgID, payment.ID, invoice.ID)

	assert.NoError(t, err)
	assert.Equal(t, "UNALLOCATED", result.Status)
	assert.True(t, invoice.AmountPaid.IsZero())
	assert.Equal(t, billing.InvoiceStatusSent, invoice.Status)
}

func TestPaymentService_Reverse_WithdrawsFromAccount(t *testing.T) {
	f := newPaymentServiceFixture()
	ctx := context.Background()
	orgID := newTestOrgID()

	account := createTestAccount(orgID, 500)
	payment, err := finance.NewPayment(orgID, uuid.New(), account.ID, "PAY-2026-00005",
		finance.PaymentMethodCash, valueobject.NewMoneyZMW(decimal.NewFromInt(300)), time.Now(), "", "")
	assert.NoError(t, err)
	payment.ClearDomainEvents()

	f.paymentRepo.On("FindByIDForOrg", ctx, payment.ID, orgID).Return(payment, nil)
	f.accountRepo.On("FindByIDForOrg", ctx, account.ID, orgID).Return(account, nil)
	f.accountRepo.On("SaveWithLock", ctx, account).Return(nil)
	f.moneyRepo.On("Save", ctx, mock.AnythingOfType("*treasury.MoneyMovement")).Return(nil)
	f.paymentRepo.On("SaveWithLock", ctx, payment).Return(nil)

	result, err := f.service.Reverse(ctx, orgID, payment.ID)

	assert.NoError(t, err)
	assert.Equal(t, "REVERSED", result.Status)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(200)))
}

func TestPaymentService_Reverse_AllocatedPaymentRejected(t *testing.T) {
	f := newPaymentServiceFixture()
	ctx := context.Background()
	orgID := newTestOrgID()

	payment, err := finance.NewPayment(orgID, uuid.New(), uuid.New(), "PAY-2026-00006",
		finance.PaymentMethodCash, valueobject.NewMoneyZMW(decimal.NewFromInt(300)), time.Now(), "", "")
	assert.NoError(t, err)
	assert.NoError(t, payment.AllocateToInvoice(uuid.New(), "INV-2026-00009", valueobject.NewMoneyZMW(decimal.NewFromInt(100))))

	f.paymentRepo.On("FindByIDForOrg", ctx, payment.ID, orgID).Return(payment, nil)

	result, err := f.service.Reverse(ctx, orgID, payment.ID)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}
