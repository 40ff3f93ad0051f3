package sales

import (
	"context"
	"time"

	"github.com/doaddy/backend/internal/domain/billing"
	"github.com/doaddy/backend/internal/domain/inventory"
	"github.com/doaddy/backend/internal/domain/sales"
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/domain/treasury"
	"github.com/google/uuid"
)

// SaleService handles point-of-sale business operations
type SaleService struct {
	saleRepo       sales.SaleRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewSaleService creates a new SaleService
func NewSaleService(saleRepo sales.SaleRepository, txScope TransactionScope) *SaleService {
	return &SaleService{
		saleRepo: saleRepo,
		txScope:  txScope,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create posts a sale: snapshots item details into lines, deducts
// tracked stock with movement records, and deposits the total into the
// settlement account. Everything happens in one transaction.
func (s *SaleService) Create(ctx context.Context, orgID uuid.UUID, req CreateSaleRequest) (*SaleResponse, error) {
	var sale *sales.Sale

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		number, err := repos.SaleRepo().GenerateSaleNumber(ctx, orgID)
		if err != nil {
			return err
		}

		lines := make(billing.DocumentLines, 0, len(req.Lines))
		for _, input := range req.Lines {
			item, err := repos.ItemRepo().FindByIDForOrg(ctx, input.ItemID, orgID)
			if err != nil {
				return err
			}
			if !item.Active {
				return shared.NewDomainError("ITEM_INACTIVE", "Cannot sell an inactive item")
			}

			unitPrice := item.SellingPrice
			if input.UnitPrice != nil {
				unitPrice = *input.UnitPrice
			}

			line, err := billing.NewDocumentLine(item.ID, item.SKU, item.Name, input.Quantity, item.CostPrice, unitPrice)
			if err != nil {
				return err
			}
			lines = append(lines, line)
		}

		discountType := billing.DiscountTypeNone
		if req.DiscountType != "" {
			discountType = billing.DiscountType(req.DiscountType)
		}

		sale, err = sales.NewSale(orgID, req.CustomerID, req.AccountID, number,
			sales.PaymentMethod(req.PaymentMethod), time.Now(), lines,
			discountType, req.DiscountValue, billing.DefaultVATRate, req.Notes)
		if err != nil {
			return err
		}

		// Stock side effects: one OUT movement per tracked line
		for _, line := range sale.Lines {
			item, err := repos.ItemRepo().FindByIDForOrg(ctx, line.ItemID, orgID)
			if err != nil {
				return err
			}
			if !item.IsStockTracked() {
				continue
			}

			stockBefore := item.CurrentStock
			if err := item.DecreaseStock(line.Quantity, req.AllowBackorder); err != nil {
				return err
			}

			movement, err := inventory.NewStockMovement(orgID, item.ID, inventory.MovementTypeOut,
				line.Quantity, stockBefore, inventory.ReferenceTypeSale, &sale.ID, "")
			if err != nil {
				return err
			}

			if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
				return err
			}
			if err := repos.StockMovementRepo().Save(ctx, movement); err != nil {
				return err
			}
		}

		// Money side effect: deposit the takings
		account, err := repos.AccountRepo().FindByIDForOrg(ctx, req.AccountID, orgID)
		if err != nil {
			return err
		}
		moneyMovement, err := account.Deposit(sale.GetTotalMoney(), treasury.ReferenceTypeSale, &sale.ID, sale.Number)
		if err != nil {
			return err
		}
		if err := repos.AccountRepo().SaveWithLock(ctx, account); err != nil {
			return err
		}
		if err := repos.MoneyMovementRepo().Save(ctx, moneyMovement); err != nil {
			return err
		}

		return repos.SaleRepo().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sale)

	response := ToSaleResponse(sale)
	return &response, nil
}

// Void cancels a sale and posts the compensating stock and money
// movements in one transaction
func (s *SaleService) Void(ctx context.Context, orgID, saleID uuid.UUID) (*SaleResponse, error) {
	var sale *sales.Sale

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByIDForOrg(ctx, saleID, orgID)
		if err != nil {
			return err
		}

		if err := sale.Void(); err != nil {
			return err
		}

		// Return tracked stock
		for _, line := range sale.Lines {
			item, err := repos.ItemRepo().FindByIDForOrg(ctx, line.ItemID, orgID)
			if err != nil {
				return err
			}
			if !item.IsStockTracked() {
				continue
			}

			stockBefore := item.CurrentStock
			if err := item.IncreaseStock(line.Quantity); err != nil {
				return err
			}

			movement, err := inventory.NewStockMovement(orgID, item.ID, inventory.MovementTypeIn,
				line.Quantity, stockBefore, inventory.ReferenceTypeSale, &sale.ID, "void "+sale.Number)
			if err != nil {
				return err
			}

			if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
				return err
			}
			if err := repos.StockMovementRepo().Save(ctx, movement); err != nil {
				return err
			}
		}

		// Return the money
		account, err := repos.AccountRepo().FindByIDForOrg(ctx, sale.AccountID, orgID)
		if err != nil {
			return err
		}
		moneyMovement, err := account.Withdraw(sale.GetTotalMoney(), treasury.ReferenceTypeSale, &sale.ID, "void "+sale.Number)
		if err != nil {
			return err
		}
		if err := repos.AccountRepo().SaveWithLock(ctx, account); err != nil {
			return err
		}
		if err := repos.MoneyMovementRepo().Save(ctx, moneyMovement); err != nil {
			return err
		}

		return repos.SaleRepo().SaveWithLock(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sale)

	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByID retrieves a sale by ID
func (s *SaleService) GetByID(ctx context.Context, orgID, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByIDForOrg(ctx, saleID, orgID)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves sales with filtering and pagination
func (s *SaleService) List(ctx context.Context, orgID uuid.UUID, filter SaleListFilter) ([]SaleResponse, int64, error) {
	domainFilter := buildSaleFilter(filter)

	results, err := s.saleRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.saleRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SaleResponse, len(results))
	for i, sale := range results {
		responses[i] = ToSaleResponse(sale)
	}

	return responses, total, nil
}

func buildSaleFilter(filter SaleListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.AccountID != nil {
		domainFilter.Filters["account_id"] = *filter.AccountID
	}
	if filter.DateFrom != nil {
		domainFilter.Filters["date_from"] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		domainFilter.Filters["date_to"] = *filter.DateTo
	}
	return domainFilter
}

func (s *SaleService) publishEvents(ctx context.Context, sale *sales.Sale) {
	if s.eventPublisher == nil || sale == nil {
		return
	}
	events := sale.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	sale.ClearDomainEvents()
}
