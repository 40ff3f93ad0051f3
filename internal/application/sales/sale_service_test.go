package sales

import (
	"context"
	"testing"
	"time"

	"github.com/doaddy/backend/internal/domain/billing"
	"github.com/doaddy/backend/internal/domain/catalog"
	"github.com/doaddy/backend/internal/domain/inventory"
	"github.com/doaddy/backend/internal/domain/sales"
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/domain/shared/valueobject"
	"github.com/doaddy/backend/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockSaleRepository is a mock implementation of SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, id, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*sales.Sale, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) SaveWithLock(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) GenerateSaleNumber(ctx context.Context, orgID uuid.UUID) (string, error) {
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

// MockStockMovementRepository is a mock implementation of inventory.StockMovementRepository
type MockStockMovementRepository struct {
	mock.Mock
}

func (m *MockStockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockMovement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*inventory.StockMovement, error) {
	args := m.Called(ctx, id, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*inventory.StockMovement, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]*inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) FindByItemForOrg(ctx context.Context, itemID, orgID uuid.UUID, filter shared.Filter) ([]*inventory.StockMovement, error) {
	args := m.Called(ctx, itemID, orgID, filter)
	return args.Get(0).([]*inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockMovementRepository) Save(ctx context.Context, movement *inventory.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
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

type saleServiceFixture struct {
	saleRepo     *MockSaleRepository
	itemRepo     *MockItemRepository
	movementRepo *MockStockMovementRepository
	accountRepo  *MockMoneyAccountRepository
	moneyRepo    *MockMoneyMovementRepository
	service      *SaleService
}

func newSaleServiceFixture() *saleServiceFixture {
	f := &saleServiceFixture{
		saleRepo:     new(MockSaleRepository),
		itemRepo:     new(MockItemRepository),
		movementRepo: new(MockStockMovementRepository),
		accountRepo:  new(MockMoneyAccountRepository),
		moneyRepo:    new(MockMoneyMovementRepository),
	}
	txScope := NewNoOpTransactionScope(f.saleRepo, f.itemRepo, f.movementRepo, f.accountRepo, f.moneyRepo)
	f.service = NewSaleService(f.saleRepo, txScope)
	return f
}

func newTestOrgID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func createTestItem(orgID uuid.UUID, sku string, price, stock float64) *catalog.Item {
	item, _ := catalog.NewItem(orgID, "Item "+sku, sku, catalog.ItemTypeProduct,
		valueobject.NewMoneyZMW(decimal.NewFromFloat(price/2)),
		valueobject.NewMoneyZMW(decimal.NewFromFloat(price)), true)
	_ = item.IncreaseStock(decimal.NewFromFloat(stock))
	item.ClearDomainEvents()
	return item
}

func createTestAccount(orgID uuid.UUID, balance float64) *treasury.MoneyAccount {
	account, _ := treasury.NewMoneyAccount(orgID, "Till", treasury.AccountTypeCash,
		valueobject.NewMoneyZMW(decimal.NewFromFloat(balance)))
	account.ClearDomainEvents()
	return account
}

func TestSaleService_Create_Success(t *testing.T) {
	f := newSaleServiceFixture()
	ctx := context.Background()
	orgID := newTestOrgID()

	item := createTestItem(orgID, "WIDGET-1", 100, 10)
	account := createTestAccount(orgID, 0)

	f.saleRepo.On("GenerateSaleNumber", ctx, orgID).Return("SAL-2026-00001", nil)
	f.itemRepo.On("FindByIDForOrg", ctx, item.ID, orgID).Return(item, nil)
	f.itemRepo.On("SaveWithLock", ctx, item).Return(nil)
	f.movementRepo.On("Save", ctx, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)
	f.accountRepo.On("FindByIDForOrg", ctx, account.ID, orgID).Return(account, nil)
	f.accountRepo.On("SaveWithLock", ctx, account).Return(nil)
	f.moneyRepo.On("Save", ctx, mock.AnythingOfType("*treasury.MoneyMovement")).Return(nil)
	f.saleRepo.On("Save", ctx, mock.AnythingOfType("*sales.Sale")).Return(nil)

	result, err := f.service.Create(ctx, orgID, CreateSaleRequest{
		AccountID:     account.ID,
		PaymentMethod: "CASH",
		Lines: []CreateSaleLineInput{
			{ItemID: item.ID, Quantity: decimal.NewFromInt(2)},
		},
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "SAL-2026-00001", result.Number)
	assert.Equal(t, "COMPLETED", result.Status)
	assert.True(t, result.Subtotal.Equal(decimal.NewFromInt(200)), "subtotal %s", result.Subtotal)
	assert.True(t, result.TaxAmount.Equal(decimal.NewFromInt(32)), "tax %s", result.TaxAmount)
	assert.True(t, result.Total.Equal(decimal.NewFromInt(232)), "total %s", result.Total)

	// side effects: stock down, balance up
	assert.True(t, item.CurrentStock.Equal(decimal.NewFromInt(8)))
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(232)))
	f.saleRepo.AssertExpectations(t)
	f.itemRepo.AssertExpectations(t)
	f.movementRepo.AssertExpectations(t)
	f.accountRepo.AssertExpectations(t)
	f.moneyRepo.AssertExpectations(t)
}

func TestSaleService_Create_InsufficientStock(t *testing.T) {
	f := newSaleServiceFixture()
	ctx := context.Background()
	orgID := newTestOrgID()

	item := createTestItem(orgID, "WIDGET-1", 100, 1)
	account := createTestAccount(orgID, 0)

	f.saleRepo.On("GenerateSaleNumber", ctx, orgID).Return("SAL-2026-00002", nil)
	f.itemRepo.On("FindByIDForOrg", ctx, item.ID, orgID).Return(item, nil)

	result, err := f.service.Create(ctx, orgID, CreateSaleRequest{
		AccountID:     account.ID,
		PaymentMethod: "CASH",
		Lines: []CreateSaleLineInput{
			{ItemID: item.ID, Quantity: decimal.NewFromInt(5)},
		},
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
	f.saleRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSaleService_Create_BackorderAllowed(t *testing.T) {
	f := newSaleServiceFixture()
	ctx := context.Background()
	orgID := newTestOrgID()

	item := createTestItem(orgID, "WIDGET-1", 100, 1)
	account := createTestAccount(orgID, 0)

	f.saleRepo.On("GenerateSaleNumber", ctx, orgID).Return("SAL-2026-00003", nil)
	f.itemRepo.On("FindByIDForOrg", ctx, item.ID, orgID).Return(item, nil)
	f.itemRepo.On("SaveWithLock", ctx, item).Return(nil)
	f.movementRepo.On("Save", ctx, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)
	f.accountRepo.On("FindByIDForOrg", ctx, account.ID, orgID).Return(account, nil)
	f.accountRepo.On("SaveWithLock", ctx, account).Return(nil)
	f.moneyRepo.On("Save", ctx, mock.AnythingOfType("*treasury.MoneyMovement")).Return(nil)
	f.saleRepo.On("Save", ctx, mock.AnythingOfType("*sales.Sale")).Return(nil)

	result, err := f.service.Create(ctx, orgID, CreateSaleRequest{
		AccountID:      account.ID,
		PaymentMethod:  "CASH",
		AllowBackorder: true,
		Lines: []CreateSaleLineInput{
			{ItemID: item.ID, Quantity: decimal.NewFromInt(5)},
		},
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, item.CurrentStock.Equal(decimal.NewFromInt(-4)))
}

func TestSaleService_Create_InactiveItem(t *testing.T) {
	f := newSaleServiceFixture()
	ctx := context.Background()
	orgID := newTestOrgID()

	item := createTestItem(orgID, "WIDGET-1", 100, 10)
	item.Deactivate()

	f.saleRepo.On("GenerateSaleNumber", ctx, orgID).Return("SAL-2026-00004", nil)
	f.itemRepo.On("FindByIDForOrg", ctx, item.ID, orgID).Return(item, nil)

	result, err := f.service.Create(ctx, orgID, CreateSaleRequest{
		AccountID:     uuid.New(),
		PaymentMethod: "CASH",
		Lines: []CreateSaleLineInput{
			{ItemID: item.ID, Quantity: decimal.NewFromInt(1)},
		},
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ITEM_INACTIVE", domainErr.Code)
}

func TestSaleService_Create_CustomUnitPrice(t *testing.T) {
	f := newSaleServiceFixture()
	ctx := context.Background()
	orgID := newTestOrgID()

	item := createTestItem(orgID, "WIDGET-1", 100, 10)
	account := createTestAccount(orgID, 0)
	customPrice := decimal.NewFromInt(80)

	f.saleRepo.On("GenerateSaleNumber", ctx, orgID).Return("SAL-2026-00005", nil)
	f.itemRepo.On("FindByIDForOrg", ctx, item.ID, orgID).Return(item, nil)
	f.itemRepo.On("SaveWithLock", ctx, item).Return(nil)
	f.movementRepo.On("Save", ctx, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)
	f.accountRepo.On("FindByIDForOrg", ctx, account.ID, orgID).Return(account, nil)
	f.accountRepo.On("SaveWithLock", ctx, account).Return(nil)
	f.moneyRepo.On("Save", ctx, mock.AnythingOfType("*treasury.MoneyMovement")).Return(nil)
	f.saleRepo.On("Save", ctx, mock.AnythingOfType("*sales.Sale")).Return(nil)

	result, err := f.service.Create(ctx, orgID, CreateSaleRequest{
		AccountID:     account.ID,
		PaymentMethod: "CARD",
		Lines: []CreateSaleLineInput{
			{ItemID: item.ID, Quantity: decimal.NewFromInt(1), UnitPrice: &customPrice},
		},
	})

	assert.NoError(t, err)
	assert.True(t, result.Subtotal.Equal(decimal.NewFromInt(80)))
}

func TestSaleService_Void_Success(t *testing.T) {
	f := newSaleServiceFixture()
	ctx := context.Background()
	orgID := newTestOrgID()

	item := createTestItem(orgID, "WIDGET-1", 100, 10)
	account := createTestAccount(orgID, 500)

	line, err := billing.NewDocumentLine(item.ID, item.SKU, item.Name, decimal.NewFromInt(2), item.CostPrice, item.SellingPrice)
	assert.NoError(t, err)
	sale, err := sales.NewSale(orgID, nil, account.ID, "SAL-2026-00001", sales.PaymentMethodCash,
		time.Now(), billing.DocumentLines{line}, billing.DiscountTypeNone, decimal.Zero, billing.DefaultVATRate, "")
	assert.NoError(t, err)
	sale.ClearDomainEvents()

	f.saleRepo.On("FindByIDForOrg", ctx, sale.ID, orgID).Return(sale, nil)
	f.itemRepo.On("FindByIDForOrg", ctx, item.ID, orgID).Return(item, nil)
	f.itemRepo.On("SaveWithLock", ctx, item).Return(nil)
	f.movementRepo.On("Save", ctx, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)
	f.accountRepo.On("FindByIDForOrg", ctx, account.ID, orgID).Return(account, nil)
	f.accountRepo.On("SaveWithLock", ctx, account).Return(nil)
	f.moneyRepo.On("Save", ctx, mock.AnythingOfType("*treasury.MoneyMovement")).Return(nil)
	f.saleRepo.On("SaveWithLock", ctx, sale).Return(nil)

	result, err := f.service.Void(ctx, orgID, sale.ID)

	assert.NoError(t, err)
	assert.Equal(t, "VOIDED", result.Status)
	assert.True(t, item.CurrentStock.Equal(decimal.NewFromInt(12)))
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(268)), "balance %s", account.Balance)
}
