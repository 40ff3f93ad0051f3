package sales

import (
	"time"

	"github.com/doaddy/backend/internal/domain/billing"
	"github.com/doaddy/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSaleLineInput represents one line of a sale request. Quantity
// is required; the unit price defaults to the item's selling price when
// omitted.
type CreateSaleLineInput struct {
	ItemID    uuid.UUID        `json:"item_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest represents a request to post a sale
type CreateSaleRequest struct {
	CustomerID     *uuid.UUID            `json:"customer_id"`
	AccountID      uuid.UUID             `json:"account_id" binding:"required"`
	PaymentMethod  string                `json:"payment_method" binding:"required,oneof=CASH CARD MOBILE_MONEY BANK_TRANSFER"`
	Lines          []CreateSaleLineInput `json:"lines" binding:"required,min=1"`
	DiscountType   string                `json:"discount_type" binding:"omitempty,oneof=NONE FLAT PERCENT"`
	DiscountValue  decimal.Decimal       `json:"discount_value"`
	AllowBackorder bool                  `json:"allow_backorder"`
	Notes          string                `json:"notes" binding:"omitempty,max=1000"`
}

// SaleListFilter represents filtering options for sale lists
type SaleListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	Status     string     `form:"status"`
	CustomerID *uuid.UUID `form:"customer_id"`
	AccountID  *uuid.UUID `form:"account_id"`
	DateFrom   *time.Time `form:"date_from"`
	DateTo     *time.Time `form:"date_to"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
}

// SaleLineResponse represents a sale line in API responses
type SaleLineResponse struct {
	ItemID      uuid.UUID       `json:"item_id"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID             uuid.UUID          `json:"id"`
	Number         string             `json:"number"`
	CustomerID     *uuid.UUID         `json:"customer_id,omitempty"`
	AccountID      uuid.UUID          `json:"account_id"`
	Status         string             `json:"status"`
	PaymentMethod  string             `json:"payment_method"`
	SaleDate       time.Time          `json:"sale_date"`
	Lines          []SaleLineResponse `json:"lines"`
	DiscountType   string             `json:"discount_type"`
	DiscountValue  decimal.Decimal    `json:"discount_value"`
	TaxRate        decimal.Decimal    `json:"tax_rate"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	Total          decimal.Decimal    `json:"total"`
	Notes          string             `json:"notes,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

// ToSaleResponse converts a Sale to a SaleResponse
func ToSaleResponse(sale *sales.Sale) SaleResponse {
	lines := make([]SaleLineResponse, len(sale.Lines))
	for i, line := range sale.Lines {
		lines[i] = toSaleLineResponse(line)
	}

	return SaleResponse{
		ID:             sale.ID,
		Number:         sale.Number,
		CustomerID:     sale.CustomerID,
		AccountID:      sale.AccountID,
		Status:         string(sale.Status),
		PaymentMethod:  string(sale.PaymentMethod),
		SaleDate:       sale.SaleDate,
		Lines:          lines,
		DiscountType:   string(sale.DiscountType),
		DiscountValue:  sale.DiscountValue,
		TaxRate:        sale.TaxRate,
		Subtotal:       sale.Subtotal,
		DiscountAmount: sale.DiscountAmount,
		TaxAmount:      sale.TaxAmount,
		Total:          sale.Total,
		Notes:          sale.Notes,
		CreatedAt:      sale.CreatedAt,
	}
}

func toSaleLineResponse(line billing.DocumentLine) SaleLineResponse {
	return SaleLineResponse{
		ItemID:      line.ItemID,
		SKU:         line.SKU,
		Description: line.Description,
		Quantity:    line.Quantity,
		UnitCost:    line.UnitCost,
		UnitPrice:   line.UnitPrice,
		LineTotal:   line.LineTotal,
	}
}
