package billing

import (
	"context"
	"testing"
	"time"

	"github.com/doaddy/backend/internal/domain/billing"
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockQuoteRepository is a mock implementation of billing.QuoteRepository
type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*billing.Quote, error) {
	args := m.Called(ctx, id, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*billing.Quote, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]*billing.Quote), args.Error(1)
}

func (m *MockQuoteRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuoteRepository) Save(ctx context.Context, quote *billing.Quote) error {
	args := m.Called(ctx, quote)
	return args.Error(0)
}

func (m *MockQuoteRepository) SaveWithLock(ctx context.Context, quote *billing.Quote) error {
	args := m.Called(ctx, quote)
	return args.Error(0)
}

func (m *MockQuoteRepository) GenerateQuoteNumber(ctx context.Context, orgID uuid.UUID) (string, error) {
	args := m.Called(ctx, orgID)
	return args.String(0), args.Error(1)
}

type quoteServiceFixture struct {
	quoteRepo    *MockQuoteRepository
	invoiceRepo  *MockInvoiceRepository
	itemRepo     *MockItemRepository
	customerRepo *MockCustomerRepository
	service      *QuoteService
}

func newQuoteServiceFixture() *quoteServiceFixture {
	f := &quoteServiceFixture{
		quoteRepo:    new(MockQuoteRepository),
		invoiceRepo:  new(MockInvoiceRepository),
		itemRepo:     new(MockItemRepository),
		customerRepo: new(MockCustomerRepository),
	}
	f.service = NewQuoteService(f.quoteRepo, f.invoiceRepo, f.itemRepo, f.customerRepo)
	return f
}

func createTestQuote(t *testing.T, orgID uuid.UUID, number string, validUntil time.Time) *billing.Quote {
	line, err := billing.NewDocumentLine(uuid.New(), "ROOF-IBR", "IBR Roofing Sheet",
		decimal.NewFromInt(20), decimal.NewFromInt(120), decimal.NewFromInt(185))
	require.NoError(t, err)

	quote, err := billing.NewQuote(orgID, uuid.New(), number, validUntil.AddDate(0, 0, -30),
		validUntil, billing.DocumentLines{line},
		billing.DiscountTypeNone, decimal.Zero, billing.DefaultVATRate, "")
	require.NoError(t, err)
	quote.ClearDomainEvents()
	return quote
}

func TestQuoteService_Create_Success(t *testing.T) {
	f := newQuoteServiceFixture()
	ctx := context.Background()
	orgID := newTestOrgID()
	item := createTestItem(orgID, "ROOF-IBR", 185)
	customer := createTestCustomer(t, orgID)

	f.customerRepo.On("FindByIDForOrg", ctx, orgID, customer.ID).Return(customer, nil)
	f.quoteRepo.On("GenerateQuoteNumber", ctx, orgID).Return("QUO-2026-00001", nil)
	f.itemRepo.On("FindByIDForOrg", ctx, item.ID, orgID).Return(item, nil)
	f.quoteRepo.On("Save", ctx, mock.AnythingOfType("*billing.Quote")).Return(nil)

	result, err := f.service.Create(ctx, orgID, CreateQuoteRequest{
		CustomerID: customer.ID,
		ValidUntil: time.Now().AddDate(0, 0, 30),
		Lines: []DocumentLineInput{
			{ItemID: item.ID, Quantity: decimal.NewFromInt(20)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "QUO-2026-00001", result.Number)
	assert.Equal(t, "DRAFT", result.Status)
	assert.True(t, result.Subtotal.Equal(decimal.NewFromInt(3700)), "subtotal %s", result.Subtotal)
	f.quoteRepo.AssertExpectations(t)
}

func TestQuoteService_Create_UnknownCustomer(t *testing.T) {
	f := newQuoteServiceFixture()
	ctx := context.Background()
	orgID := newTestOrgID()
	customerID := uuid.New()

	f.customerRepo.On("FindByIDForOrg", ctx, orgID, customerID).Return(nil, shared.ErrNotFound)

	result, err := f.service.Create(ctx, orgID, CreateQuoteRequest{
		CustomerID: customerID,
		ValidUntil: time.Now().AddDate(0, 0, 30),
		Lines: []DocumentLineInput{
			{ItemID: uuid.New(), Quantity: decimal.NewFromInt(1)},
		},
	})

	assert.Nil(t, result)
	assert.Equal(t, shared.ErrNotFound, err)
	f.quoteRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestQuoteService_AcceptLifecycle(t *testing.T) {
	f := newQuoteServiceFixture()
	ctx := context.Background()
	orgID := newTestOrgID()

	quote := createTestQuote(t, orgID, "QUO-2026-00001", time.Now().AddDate(0, 0, 14))

	f.quoteRepo.On("FindByIDForOrg", ctx, quote.ID, orgID).Return(quote, nil)
	f.quoteRepo.On("SaveWithLock", ctx, quote).Return(nil)

	sent, err := f.service.Send(ctx, orgID, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, "SENT", sent.Status)

	accepted, err := f.service.Accept(ctx, orgID, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACCEPTED", accepted.Status)
}

func TestQuoteService_Accept_Expired(t *testing.T) {
	f := newQuoteServiceFixture()
	ctx := context.Background()
	orgID := newTestOrgID()

	quote := createTestQuote(t, orgID, "QUO-2026-00002", time.Now().AddDate(0, 0, -1))
	require.NoError(t, quote.Send())

	f.quoteRepo.On("FindByIDForOrg", ctx, quote.ID, orgID).Return(quote, nil)

	result, err := f.service.Accept(ctx, orgID, quote.ID)

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "QUOTE_EXPIRED", domainErr.Code)
}

func TestQuoteService_Reject(t *testing.T) {
	f := newQuoteServiceFixture()
	ctx := context.Background()
	orgID := newTestOrgID()

	quote := createTestQuote(t, orgID, "QUO-2026-00003", time.Now().AddDate(0, 0, 14))
	require.NoError(t, quote.Send())

	f.quoteRepo.On("FindByIDForOrg", ctx, quote.ID, orgID).Return(quote, nil)
	f.quoteRepo.On("SaveWithLock", ctx, quote).Return(nil)

	result, err := f.service.Reject(ctx, orgID, quote.ID)

	require.NoError(t, err)
	assert.Equal(t, "REJECTED", result.Status)
}

func TestQuoteService_Convert(t *testing.T) {
	t.Run("converts accepted quote into draft invoice", func(t *testing.T) {
		f := newQuoteServiceFixture()
		ctx := context.Background()
		orgID := newTestOrgID()

		quote := createTestQuote(t, orgID, "QUO-2026-00001", time.Now().AddDate(0, 0, 14))
		require.NoError(t, quote.Send())
		require.NoError(t, quote.Accept(time.Now()))
		quote.ClearDomainEvents()

		f.quoteRepo.On("FindByIDForOrg", ctx, quote.ID, orgID).Return(quote, nil)
		f.invoiceRepo.On("GenerateInvoiceNumber", ctx, orgID).Return("INV-2026-00009", nil)
		f.invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)
		f.quoteRepo.On("SaveWithLock", ctx, quote).Return(nil)

		invoice, err := f.service.Convert(ctx, orgID, quote.ID, ConvertQuoteRequest{
			DueDate: time.Now().AddDate(0, 0, 30),
		})

		require.NoError(t, err)
		assert.Equal(t, "INV-2026-00009", invoice.Number)
		assert.Equal(t, "DRAFT", invoice.Status)
		assert.Equal(t, quote.CustomerID, invoice.CustomerID)
		assert.True(t, invoice.Total.Equal(quote.Total))
		require.NotNil(t, quote.InvoiceID)
		assert.Equal(t, invoice.ID, *quote.InvoiceID)
	})

	t.Run("rejects converting twice", func(t *testing.T) {
		f := newQuoteServiceFixture()
		ctx := context.Background()
		orgID := newTestOrgID()

		quote := createTestQuote(t, orgID, "QUO-2026-00002", time.Now().AddDate(0, 0, 14))
		require.NoError(t, quote.Send())
		require.NoError(t, quote.Accept(time.Now()))
		existing := uuid.New()
		quote.InvoiceID = &existing

		f.quoteRepo.On("FindByIDForOrg", ctx, quote.ID, orgID).Return(quote, nil)
		f.invoiceRepo.On("GenerateInvoiceNumber", ctx, orgID).Return("INV-2026-00010", nil)

		result, err := f.service.Convert(ctx, orgID, quote.ID, ConvertQuoteRequest{
			DueDate: time.Now().AddDate(0, 0, 30),
		})

		assert.Nil(t, result)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_CONVERTED", domainErr.Code)
		f.invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects converting a sent quote", func(t *testing.T) {
		f := newQuoteServiceFixture()
		ctx := context.Background()
		orgID := newTestOrgID()

		quote := createTestQuote(t, orgID, "QUO-2026-00003", time.Now().AddDate(0, 0, 14))
		require.NoError(t, quote.Send())

		f.quoteRepo.On("FindByIDForOrg", ctx, quote.ID, orgID).Return(quote, nil)
		f.invoiceRepo.On("GenerateInvoiceNumber", ctx, orgID).Return("INV-2026-00011", nil)

		result, err := f.service.Convert(ctx, orgID, quote.ID, ConvertQuoteRequest{
			DueDate: time.Now().AddDate(0, 0, 30),
		})

		assert.Nil(t, result)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestQuoteService_GetByID_ExpiresStaleQuote(t *testing.T) {
	f := newQuoteServiceFixture()
	ctx := context.Background()
	orgID := newTestOrgID()

	quote := createTestQuote(t, orgID, "QUO-2026-00004", time.Now().AddDate(0, 0, -5))
	require.NoError(t, quote.Send())

	f.quoteRepo.On("FindByIDForOrg", ctx, quote.ID, orgID).Return(quote, nil)
	f.quoteRepo.On("SaveWithLock", ctx, quote).Return(nil)

	result, err := f.service.GetByID(ctx, orgID, quote.ID)

	require.NoError(t, err)
	assert.Equal(t, "EXPIRED", result.Status)
	f.quoteRepo.AssertCalled(t, "SaveWithLock", ctx, quote)
}
