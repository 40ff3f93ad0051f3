package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemType distinguishes physical products from services
type ItemType string

const (
	ItemTypeProduct ItemType = "PRODUCT"
	ItemTypeService ItemType = "SERVICE"
)

// IsValid checks if the item type is valid
func (t ItemType) IsValid() bool {
	return t == ItemTypeProduct || t == ItemTypeService
}

// String returns the string representation of ItemType
func (t ItemType) String() string {
	return string(t)
}

// Item represents a sellable product or service aggregate root.
// Documents snapshot name/SKU/prices at transaction time; changing an
// item never rewrites historical document lines.
type Item struct {
	shared.OrgAggregateRoot
	Name         string          `gorm:"size:200;not null"`
	SKU          string          `gorm:"size:50;not null"`
	Type         ItemType        `gorm:"size:20;not null"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TrackStock   bool            `gorm:"not null;default:false"`
	Active       bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "catalog_items"
}

// NewItem creates a new catalog item
func NewItem(orgID uuid.UUID, name, sku string, itemType ItemType, costPrice, sellingPrice valueobject.Money, trackStock bool) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Item SKU cannot be empty")
	}
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Item type must be PRODUCT or SERVICE")
	}
	if costPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Cost price cannot be negative")
	}
	if sellingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}
	if trackStock && itemType != ItemTypeProduct {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Only products can track stock")
	}

	item := &Item{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Name:             name,
		SKU:              sku,
		Type:             itemType,
		CostPrice:        costPrice.Amount(),
		SellingPrice:     sellingPrice.Amount(),
		CurrentStock:     decimal.Zero,
		TrackStock:       trackStock,
		Active:           true,
	}

	item.AddDomainEvent(NewItemCreatedEvent(item))

	return item, nil
}

// UpdatePrices updates the cost and selling prices
func (i *Item) UpdatePrices(costPrice, sellingPrice valueobject.Money) error {
	if costPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Cost price cannot be negative")
	}
	if sellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}

	i.CostPrice = costPrice.Amount()
	i.SellingPrice = sellingPrice.Amount()
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Rename updates the item's display name
func (i *Item) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	i.Name = name
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// IncreaseStock adds quantity to the tracked stock level
func (i *Item) IncreaseStock(quantity decimal.Decimal) error {
	if !i.IsStockTracked() {
		return shared.NewDomainError("STOCK_NOT_TRACKED", "Item does not track stock")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	i.CurrentStock = i.CurrentStock.Add(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// DecreaseStock removes quantity from the tracked stock level.
// A decrement that would drive stock negative is rejected unless
// allowNegative is set (explicit backorder).
func (i *Item) DecreaseStock(quantity decimal.Decimal, allowNegative bool) error {
	if !i.IsStockTracked() {
		return shared.NewDomainError("STOCK_NOT_TRACKED", "Item does not track stock")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	remaining := i.CurrentStock.Sub(quantity)
	if remaining.IsNegative() && !allowNegative {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock for %s: have %s, need %s", i.SKU, i.CurrentStock.String(), quantity.String()))
	}

	i.CurrentStock = remaining
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// IsStockTracked returns true when stock levels are meaningful for this item
func (i *Item) IsStockTracked() bool {
	return i.Type == ItemTypeProduct && i.TrackStock
}

// Deactivate marks the item inactive
func (i *Item) Deactivate() {
	i.Active = false
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// GetCostPriceMoney returns the cost price as Money
func (i *Item) GetCostPriceMoney() valueobject.Money {
	return valueobject.NewMoneyZMW(i.CostPrice)
}

// GetSellingPriceMoney returns the selling price as Money
func (i *Item) GetSellingPriceMoney() valueobject.Money {
	return valueobject.NewMoneyZMW(i.SellingPrice)
}
