package catalog

import (
	"context"

	"github.com/doaddy/backend/internal/domain/catalog"
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ItemService handles catalog item business operations
type ItemService struct {
	itemRepo       catalog.ItemRepository
	eventPublisher shared.EventPublisher
}

// NewItemService creates a new ItemService
func NewItemService(itemRepo catalog.ItemRepository) *ItemService {
	return &ItemService{
		itemRepo: itemRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ItemService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new catalog item
func (s *ItemService) Create(ctx context.Context, orgID uuid.UUID, req CreateItemRequest) (*ItemResponse, error) {
	if existing, err := s.itemRepo.FindBySKUForOrg(ctx, req.SKU, orgID); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	item, err := catalog.NewItem(orgID, req.Name, req.SKU, catalog.ItemType(req.Type),
		valueobject.NewMoneyZMW(req.CostPrice), valueobject.NewMoneyZMW(req.SellingPrice), req.TrackStock)
	if err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, item)

	response := ToItemResponse(item)
	return &response, nil
}

// GetByID retrieves an item by ID
func (s *ItemService) GetByID(ctx context.Context, orgID, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForOrg(ctx, itemID, orgID)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// GetBySKU retrieves an item by SKU
func (s *ItemService) GetBySKU(ctx context.Context, orgID uuid.UUID, sku string) (*ItemResponse, error) {
	item, err := s.itemRepo.FindBySKUForOrg(ctx, sku, orgID)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// Update updates an item's name and prices
func (s *ItemService) Update(ctx context.Context, orgID, itemID uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForOrg(ctx, itemID, orgID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := item.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.CostPrice != nil || req.SellingPrice != nil {
		cost := item.GetCostPriceMoney()
		if req.CostPrice != nil {
			cost = valueobject.NewMoneyZMW(*req.CostPrice)
		}
		selling := item.GetSellingPriceMoney()
		if req.SellingPrice != nil {
			selling = valueobject.NewMoneyZMW(*req.SellingPrice)
		}
		if err := item.UpdatePrices(cost, selling); err != nil {
			return nil, err
		}
	}

	if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// Deactivate marks an item inactive so it no longer appears on sales screens
func (s *ItemService) Deactivate(ctx context.Context, orgID, itemID uuid.UUID) error {
	item, err := s.itemRepo.FindByIDForOrg(ctx, itemID, orgID)
	if err != nil {
		return err
	}

	item.Deactivate()

	return s.itemRepo.SaveWithLock(ctx, item)
}

// List retrieves items with filtering and pagination
func (s *ItemService) List(ctx context.Context, orgID uuid.UUID, filter ItemListFilter) ([]ItemResponse, int64, error) {
	domainFilter := buildItemFilter(filter)

	items, err := s.itemRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.itemRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ItemResponse, len(items))
	for i, item := range items {
		responses[i] = ToItemResponse(item)
	}

	return responses, total, nil
}

func buildItemFilter(filter ItemListFilter) shared.Filter {
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
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}
	return domainFilter
}

func (s *ItemService) publishEvents(ctx context.Context, item *catalog.Item) {
	if s.eventPublisher == nil {
		return
	}
	events := item.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	item.ClearDomainEvents()
}
