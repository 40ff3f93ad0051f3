package billing

import (
	"context"
	"testing"
	"time"

	"github.com/doaddy/backend/internal/domain/billing"
	"github.com/doaddy/backend/internal/domain/catalog"
	"github.com/doaddy/backend/internal/domain/partner"
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

// MockItemRepository is a mock implementation of catalog.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, id, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindBySKUForOrg(ctx context.Context, sku string, orgID uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, sku, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*catalog.Item, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) SaveWithLock(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) DeleteForOrg(ctx context.Context, id, orgID uuid.UUID) error {
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

func newTestOrgID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func createTestCustomer(t *testing.T, orgID uuid.UUID) *partner.Customer {
	customer, err := partner.NewCustomer(orgID, "Chanda Hardware", "chanda@example.com", "+260971234567")
	require.NoError(t, err)
	customer.ClearDomainEvents()
	return customer
}

func createTestItem(orgID uuid.UUID, sku string, price float64) *catalog.Item {
	item, _ := catalog.NewItem(orgID, "Item "+sku, sku, catalog.ItemTypeProduct,
		valueobject.NewMoneyZMW(decimal.NewFromFloat(price/2)),
		valueobject.NewMoneyZMW(decimal.NewFromFloat(price)), true)
	item.ClearDomainEvents()
	return item
}

func createTestInvoice(t *testing.T, orgID uuid.UUID, number string) *billing.Invoice {
	line, err := billing.NewDocumentLine(uuid.New(), "CEM-50", "Cement 50kg",
		decimal.NewFromInt(10), decimal.NewFromInt(95), decimal.NewFromInt(150))
	require.NoError(t, err)

	invoice, err := billing.NewInvoice(orgID, uuid.New(), number, time.Now(),
		time.Now().AddDate(0, 0, 30), billing.DocumentLines{line},
		billing.DiscountTypeNone, decimal.Zero, billing.DefaultVATRate, "")
	require.NoError(t, err)
	invoice.ClearDomainEvents()
	return invoice
}

func TestInvoiceService_Create_Success(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	itemRepo := new(MockItemRepository)
	customerRepo := new(MockCustomerRepository)
	service := NewInvoiceService(invoiceRepo, itemRepo, customerRepo)

	ctx := context.Background()
	orgID := newTestOrgID()
	item := createTestItem(orgID, "CEM-50", 150)
	customer := createTestCustomer(t, orgID)

	customerRepo.On("FindByIDForOrg", ctx, orgID, customer.ID).Return(customer, nil)
	invoiceRepo.On("GenerateInvoiceNumber", ctx, orgID).Return("INV-2026-00001", nil)
	itemRepo.On("FindByIDForOrg", ctx, item.ID, orgID).Return(item, nil)
	invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

	result, err := service.Create(ctx, orgID, CreateInvoiceRequest{
		CustomerID: customer.ID,
		DueDate:    time.Now().AddDate(0, 0, 30),
		Lines: []DocumentLineInput{
			{ItemID: item.ID, Quantity: decimal.NewFromInt(10)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "INV-2026-00001", result.Number)
	assert.Equal(t, "DRAFT", result.Status)
	assert.True(t, result.Subtotal.Equal(decimal.NewFromInt(1500)), "subtotal %s", result.Subtotal)
	assert.True(t, result.TaxAmount.Equal(decimal.NewFromInt(240)), "tax %s", result.TaxAmount)
	assert.True(t, result.Total.Equal(decimal.NewFromInt(1740)), "total %s", result.Total)
	assert.True(t, result.Outstanding.Equal(decimal.NewFromInt(1740)))
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_Create_DiscountBeforeTax(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	itemRepo := new(MockItemRepository)
	customerRepo := new(MockCustomerRepository)
	service := NewInvoiceService(invoiceRepo, itemRepo, customerRepo)

	ctx := context.Background()
	orgID := newTestOrgID()
	item := createTestItem(orgID, "CEM-50", 100)
	customer := createTestCustomer(t, orgID)

	customerRepo.On("FindByIDForOrg", ctx, orgID, customer.ID).Return(customer, nil)
	invoiceRepo.On("GenerateInvoiceNumber", ctx, orgID).Return("INV-2026-00002", nil)
	itemRepo.On("FindByIDForOrg", ctx, item.ID, orgID).Return(item, nil)
	invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

	// 10 x 100 = 1000, 10% off = 900, VAT on the discounted base = 144
	result, err := service.Create(ctx, orgID, CreateInvoiceRequest{
		CustomerID:    customer.ID,
		DueDate:       time.Now().AddDate(0, 0, 14),
		DiscountType:  "PERCENT",
		DiscountValue: decimal.NewFromInt(10),
		Lines: []DocumentLineInput{
			{ItemID: item.ID, Quantity: decimal.NewFromInt(10)},
		},
	})

	require.NoError(t, err)
	assert.True(t, result.DiscountAmount.Equal(decimal.NewFromInt(100)), "discount %s", result.DiscountAmount)
	assert.True(t, result.TaxAmount.Equal(decimal.NewFromInt(144)), "tax %s", result.TaxAmount)
	assert.True(t, result.Total.Equal(decimal.NewFromInt(1044)), "total %s", result.Total)
}

func TestInvoiceService_Create_UnknownItem(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	itemRepo := new(MockItemRepository)
	customerRepo := new(MockCustomerRepository)
	service := NewInvoiceService(invoiceRepo, itemRepo, customerRepo)

	ctx := context.Background()
	orgID := newTestOrgID()
	itemID := uuid.New()
	customer := createTestCustomer(t, orgID)

	customerRepo.On("FindByIDForOrg", ctx, orgID, customer.ID).Return(customer, nil)
	invoiceRepo.On("GenerateInvoiceNumber", ctx, orgID).Return("INV-2026-00003", nil)
	itemRepo.On("FindByIDForOrg", ctx, itemID, orgID).Return(nil, shared.ErrNotFound)

	result, err := service.Create(ctx, orgID, CreateInvoiceRequest{
		CustomerID: customer.ID,
		DueDate:    time.Now().AddDate(0, 0, 14),
		Lines: []DocumentLineInput{
			{ItemID: itemID, Quantity: decimal.NewFromInt(1)},
		},
	})

	assert.Nil(t, result)
	assert.Equal(t, shared.ErrNotFound, err)
	invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceService_Create_UnknownCustomer(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	itemRepo := new(MockItemRepository)
	customerRepo := new(MockCustomerRepository)
	service := NewInvoiceService(invoiceRepo, itemRepo, customerRepo)

	ctx := context.Background()
	orgID := newTestOrgID()
	customerID := uuid.New()

	customerRepo.On("FindByIDForOrg", ctx, orgID, customerID).Return(nil, shared.ErrNotFound)

	result, err := service.Create(ctx, orgID, CreateInvoiceRequest{
		CustomerID: customerID,
		DueDate:    time.Now().AddDate(0, 0, 14),
		Lines: []DocumentLineInput{
			{ItemID: uuid.New(), Quantity: decimal.NewFromInt(1)},
		},
	})

	assert.Nil(t, result)
	assert.Equal(t, shared.ErrNotFound, err)
	invoiceRepo.AssertNotCalled(t, "GenerateInvoiceNumber", mock.Anything, mock.Anything)
	invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceService_UpdateDraft(t *testing.T) {
	ctx := context.Background()
	orgID := newTestOrgID()

	t.Run("replaces lines and recomputes totals", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		itemRepo := new(MockItemRepository)
		service := NewInvoiceService(invoiceRepo, itemRepo, new(MockCustomerRepository))

		invoice := createTestInvoice(t, orgID, "INV-2026-00001")
		item := createTestItem(orgID, "ROOF-IBR", 200)

		invoiceRepo.On("FindByIDForOrg", ctx, invoice.ID, orgID).Return(invoice, nil).Once()
		itemRepo.On("FindByIDForOrg", ctx, item.ID, orgID).Return(item, nil).Once()
		invoiceRepo.On("SaveWithLock", ctx, invoice).Return(nil).Once()

		result, err := service.UpdateDraft(ctx, orgID, invoice.ID, UpdateInvoiceRequest{
			DueDate: time.Now().AddDate(0, 0, 45),
			Lines: []DocumentLineInput{
				{ItemID: item.ID, Quantity: decimal.NewFromInt(5)},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "DRAFT", result.Status)
		assert.Len(t, result.Lines, 1)
		assert.True(t, result.Subtotal.Equal(decimal.NewFromInt(1000)), "subtotal %s", result.Subtotal)
		assert.True(t, result.TaxAmount.Equal(decimal.NewFromInt(160)), "tax %s", result.TaxAmount)
		assert.True(t, result.Total.Equal(decimal.NewFromInt(1160)), "total %s", result.Total)
		invoiceRepo.AssertExpectations(t)
	})

	t.Run("rejects editing a sent invoice", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		itemRepo := new(MockItemRepository)
		service := NewInvoiceService(invoiceRepo, itemRepo, new(MockCustomerRepository))

		invoice := createTestInvoice(t, orgID, "INV-2026-00002")
		require.NoError(t, invoice.Send())
		item := createTestItem(orgID, "ROOF-IBR", 200)

		invoiceRepo.On("FindByIDForOrg", ctx, invoice.ID, orgID).Return(invoice, nil).Once()
		itemRepo.On("FindByIDForOrg", ctx, item.ID, orgID).Return(item, nil).Once()

		result, err := service.UpdateDraft(ctx, orgID, invoice.ID, UpdateInvoiceRequest{
			DueDate: time.Now().AddDate(0, 0, 45),
			Lines: []DocumentLineInput{
				{ItemID: item.ID, Quantity: decimal.NewFromInt(5)},
			},
		})

		assert.Nil(t, result)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestInvoiceService_Send(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	itemRepo := new(MockItemRepository)
	service := NewInvoiceService(invoiceRepo, itemRepo, new(MockCustomerRepository))

	ctx := context.Background()
	orgID := newTestOrgID()

	t.Run("sends draft invoice", func(t *testing.T) {
		invoice := createTestInvoice(t, orgID, "INV-2026-00001")

		invoiceRepo.On("FindByIDForOrg", ctx, invoice.ID, orgID).Return(invoice, nil).Once()
		invoiceRepo.On("SaveWithLock", ctx, invoice).Return(nil).Once()

		result, err := service.Send(ctx, orgID, invoice.ID)

		require.NoError(t, err)
		assert.Equal(t, "SENT", result.Status)
	})

	t.Run("rejects sending twice", func(t *testing.T) {
		invoice := createTestInvoice(t, orgID, "INV-2026-00002")
		require.NoError(t, invoice.Send())

		invoiceRepo.On("FindByIDForOrg", ctx, invoice.ID, orgID).Return(invoice, nil).Once()

		result, err := service.Send(ctx, orgID, invoice.ID)

		assert.Nil(t, result)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestInvoiceService_Cancel(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	itemRepo := new(MockItemRepository)
	service := NewInvoiceService(invoiceRepo, itemRepo, new(MockCustomerRepository))

	ctx := context.Background()
	orgID := newTestOrgID()

	t.Run("cancels unpaid invoice", func(t *testing.T) {
		invoice := createTestInvoice(t, orgID, "INV-2026-00001")
		require.NoError(t, invoice.Send())

		invoiceRepo.On("FindByIDForOrg", ctx, invoice.ID, orgID).Return(invoice, nil).Once()
		invoiceRepo.On("SaveWithLock", ctx, invoice).Return(nil).Once()

		result, err := service.Cancel(ctx, orgID, invoice.ID)

		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", result.Status)
	})

	t.Run("refuses to cancel an invoice with payments", func(t *testing.T) {
		invoice := createTestInvoice(t, orgID, "INV-2026-00002")
		require.NoError(t, invoice.Send())
		require.NoError(t, invoice.ApplyPayment(valueobject.NewMoneyZMW(decimal.NewFromInt(100))))

		invoiceRepo.On("FindByIDForOrg", ctx, invoice.ID, orgID).Return(invoice, nil).Once()

		result, err := service.Cancel(ctx, orgID, invoice.ID)

		assert.Nil(t, result)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestInvoiceService_GetByID_RefreshesOverdue(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	itemRepo := new(MockItemRepository)
	service := NewInvoiceService(invoiceRepo, itemRepo, new(MockCustomerRepository))

	ctx := context.Background()
	orgID := newTestOrgID()

	line, err := billing.NewDocumentLine(uuid.New(), "CEM-50", "Cement 50kg",
		decimal.NewFromInt(1), decimal.NewFromInt(60), decimal.NewFromInt(100))
	require.NoError(t, err)

	issued := time.Now().AddDate(0, 0, -60)
	invoice, err := billing.NewInvoice(orgID, uuid.New(), "INV-2026-00001", issued,
		issued.AddDate(0, 0, 30), billing.DocumentLines{line},
		billing.DiscountTypeNone, decimal.Zero, billing.DefaultVATRate, "")
	require.NoError(t, err)
	require.NoError(t, invoice.Send())
	invoice.ClearDomainEvents()

	invoiceRepo.On("FindByIDForOrg", ctx, invoice.ID, orgID).Return(invoice, nil)
	invoiceRepo.On("SaveWithLock", ctx, invoice).Return(nil)

	result, err := service.GetByID(ctx, orgID, invoice.ID)

	require.NoError(t, err)
	assert.Equal(t, "OVERDUE", result.Status)
	invoiceRepo.AssertCalled(t, "SaveWithLock", ctx, invoice)
}
