package catalog

import (
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate types
const (
	AggregateTypeItem = "Item"
)

// Event types
const (
	EventTypeItemCreated      = "item.created"
	EventTypeItemStockChanged = "item.stock_changed"
)

// ItemCreatedEvent is published when a new catalog item is created
type ItemCreatedEvent struct {
	shared.BaseDomainEvent
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	ItemType     ItemType        `json:"item_type"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	TrackStock   bool            `json:"track_stock"`
}

// NewItemCreatedEvent creates a new ItemCreatedEvent
func NewItemCreatedEvent(item *Item) *ItemCreatedEvent {
	return &ItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemCreated, AggregateTypeItem, item.ID, item.OrgID),
		Name:            item.Name,
		SKU:             item.SKU,
		ItemType:        item.Type,
		SellingPrice:    item.SellingPrice,
		TrackStock:      item.TrackStock,
	}
}

// EventType returns the event type
func (e *ItemCreatedEvent) EventType() string {
	return EventTypeItemCreated
}

// ItemStockChangedEvent is published when an item's stock level moves
type ItemStockChangedEvent struct {
	shared.BaseDomainEvent
	SKU           string          `json:"sku"`
	QuantityDelta decimal.Decimal `json:"quantity_delta"`
	StockAfter    decimal.Decimal `json:"stock_after"`
}

// NewItemStockChangedEvent creates a new ItemStockChangedEvent
func NewItemStockChangedEvent(item *Item, delta decimal.Decimal) *ItemStockChangedEvent {
	return &ItemStockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemStockChanged, AggregateTypeItem, item.ID, item.OrgID),
		SKU:             item.SKU,
		QuantityDelta:   delta,
		StockAfter:      item.CurrentStock,
	}
}

// EventType returns the event type
func (e *ItemStockChangedEvent) EventType() string {
	return EventTypeItemStockChanged
}
