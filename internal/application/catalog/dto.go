package catalog

import (
	"time"

	"github.com/doaddy/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateItemRequest represents a request to create a catalog item
type CreateItemRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	SKU          string          `json:"sku" binding:"required,min=1,max=50"`
	Type         string          `json:"type" binding:"required,oneof=PRODUCT SERVICE"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price" binding:"required"`
	TrackStock   bool            `json:"track_stock"`
}

// UpdateItemRequest represents a request to update a catalog item
type UpdateItemRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=200"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
}

// ItemListFilter represents filtering options for item lists
type ItemListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	Type     string `form:"type"`
	Active   *bool  `form:"active"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// ItemResponse represents a catalog item in API responses
type ItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Type         string          `json:"type"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	TrackStock   bool            `json:"track_stock"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToItemResponse converts an Item to an ItemResponse
func ToItemResponse(item *catalog.Item) ItemResponse {
	return ItemResponse{
		ID:           item.ID,
		Name:         item.Name,
		SKU:          item.SKU,
		Type:         string(item.Type),
		CostPrice:    item.CostPrice,
		SellingPrice: item.SellingPrice,
		CurrentStock: item.CurrentStock,
		TrackStock:   item.TrackStock,
		Active:       item.Active,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}
