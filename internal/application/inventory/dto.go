package inventory

import (
	"time"

	"github.com/doaddy/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustStockRequest represents a manual stock adjustment
type AdjustStockRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Notes    string          `json:"notes" binding:"omitempty,max=500"`
}

// ReceiveStockRequest represents goods received into stock
type ReceiveStockRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Notes    string          `json:"notes" binding:"omitempty,max=500"`
}

// MovementListFilter represents filtering options for movement lists
type MovementListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Type     string `form:"type"`
	RefType  string `form:"ref_type"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// MovementResponse represents a stock movement in API responses
type MovementResponse struct {
	ID          uuid.UUID       `json:"id"`
	ItemID      uuid.UUID       `json:"item_id"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	StockBefore decimal.Decimal `json:"stock_before"`
	StockAfter  decimal.Decimal `json:"stock_after"`
	RefType     string          `json:"ref_type"`
	RefID       *uuid.UUID      `json:"ref_id,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToMovementResponse converts a StockMovement to a MovementResponse
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:          m.ID,
		ItemID:      m.ItemID,
		Type:        string(m.Type),
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		RefType:     string(m.RefType),
		RefID:       m.RefID,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
	}
}

// LedgerCheckResponse reports whether an item's movement log agrees
// with its stored stock level
type LedgerCheckResponse struct {
	ItemID         uuid.UUID       `json:"item_id"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
	ReplayedStock  decimal.Decimal `json:"replayed_stock"`
	Consistent     bool            `json:"consistent"`
	MovementsCount int             `json:"movements_count"`
}
