package inventory

import (
	"context"

	"github.com/doaddy/backend/internal/domain/catalog"
	"github.com/doaddy/backend/internal/domain/inventory"
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockService handles stock movement operations. Every stock change
// writes the item row and a movement record in one transaction.
type StockService struct {
	movementRepo   inventory.StockMovementRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewStockService creates a new StockService
func NewStockService(movementRepo inventory.StockMovementRepository, txScope TransactionScope) *StockService {
	return &StockService{
		movementRepo: movementRepo,
		txScope:      txScope,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Receive posts an IN movement for goods received
func (s *StockService) Receive(ctx context.Context, orgID, itemID uuid.UUID, req ReceiveStockRequest) (*MovementResponse, error) {
	var movement *inventory.StockMovement

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByIDForOrg(ctx, itemID, orgID)
		if err != nil {
			return err
		}

		stockBefore := item.CurrentStock
		if err := item.IncreaseStock(req.Quantity); err != nil {
			return err
		}

		movement, err = inventory.NewStockMovement(orgID, item.ID, inventory.MovementTypeIn,
			req.Quantity, stockBefore, inventory.ReferenceTypePurchase, nil, req.Notes)
		if err != nil {
			return err
		}

		if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}
		return repos.MovementRepo().Save(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, movement)

	response := ToMovementResponse(movement)
	return &response, nil
}

// Adjust posts a signed ADJUSTMENT movement, typically after a stocktake
func (s *StockService) Adjust(ctx context.Context, orgID, itemID uuid.UUID, req AdjustStockRequest) (*MovementResponse, error) {
	var movement *inventory.StockMovement

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByIDForOrg(ctx, itemID, orgID)
		if err != nil {
			return err
		}

		stockBefore := item.CurrentStock
		if req.Quantity.IsPositive() {
			if err := item.IncreaseStock(req.Quantity); err != nil {
				return err
			}
		} else {
			if err := item.DecreaseStock(req.Quantity.Neg(), false); err != nil {
				return err
			}
		}

		movement, err = inventory.NewStockMovement(orgID, item.ID, inventory.MovementTypeAdjustment,
			req.Quantity, stockBefore, inventory.ReferenceTypeManual, nil, req.Notes)
		if err != nil {
			return err
		}

		if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}
		return repos.MovementRepo().Save(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, movement)

	response := ToMovementResponse(movement)
	return &response, nil
}

// ListForItem retrieves the movement history of a single item
func (s *StockService) ListForItem(ctx context.Context, orgID, itemID uuid.UUID, filter MovementListFilter) ([]MovementResponse, int64, error) {
	domainFilter := buildMovementFilter(filter)
	domainFilter.Filters["item_id"] = itemID

	movements, err := s.movementRepo.FindByItemForOrg(ctx, itemID, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.movementRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]MovementResponse, len(movements))
	for i, m := range movements {
		responses[i] = ToMovementResponse(m)
	}

	return responses, total, nil
}

// List retrieves movements across all items
func (s *StockService) List(ctx context.Context, orgID uuid.UUID, filter MovementListFilter) ([]MovementResponse, int64, error) {
	domainFilter := buildMovementFilter(filter)

	movements, err := s.movementRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.movementRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]MovementResponse, len(movements))
	for i, m := range movements {
		responses[i] = ToMovementResponse(m)
	}

	return responses, total, nil
}

// CheckLedger replays an item's full movement history and compares the
// result against the stored stock level
func (s *StockService) CheckLedger(ctx context.Context, orgID, itemID uuid.UUID, itemRepo catalog.ItemRepository) (*LedgerCheckResponse, error) {
	item, err := itemRepo.FindByIDForOrg(ctx, itemID, orgID)
	if err != nil {
		return nil, err
	}

	movements, err := s.movementRepo.FindByItemForOrg(ctx, itemID, orgID, shared.Filter{
		Page:     1,
		PageSize: 10000,
		OrderBy:  "created_at",
		OrderDir: "asc",
	})
	if err != nil {
		return nil, err
	}

	replayed := inventory.ReplayStock(decimal.Zero, movements)

	return &LedgerCheckResponse{
		ItemID:         item.ID,
		CurrentStock:   item.CurrentStock,
		ReplayedStock:  replayed,
		Consistent:     replayed.Equal(item.CurrentStock),
		MovementsCount: len(movements),
	}, nil
}

func buildMovementFilter(filter MovementListFilter) shared.Filter {
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
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.RefType != "" {
		domainFilter.Filters["ref_type"] = filter.RefType
	}
	return domainFilter
}

func (s *StockService) publishEvents(ctx context.Context, movement *inventory.StockMovement) {
	if s.eventPublisher == nil || movement == nil {
		return
	}
	events := movement.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	movement.ClearDomainEvents()
}
