package billing

import (
	"time"

	"github.com/doaddy/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentLineInput represents one line of an invoice or quote request
type DocumentLineInput struct {
	ItemID    uuid.UUID        `json:"item_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CreateInvoiceRequest represents a request to create an invoice
type CreateInvoiceRequest struct {
	CustomerID    uuid.UUID           `json:"customer_id" binding:"required"`
	IssueDate     *time.Time          `json:"issue_date"`
	DueDate       time.Time           `json:"due_date" binding:"required"`
	Lines         []DocumentLineInput `json:"lines" binding:"required,min=1"`
	DiscountType  string              `json:"discount_type" binding:"omitempty,oneof=NONE FLAT PERCENT"`
	DiscountValue decimal.Decimal     `json:"discount_value"`
	Notes         string              `json:"notes" binding:"omitempty,max=1000"`
}

// UpdateInvoiceRequest represents a request to edit a draft invoice.
// The lines replace the draft's existing lines wholesale.
type UpdateInvoiceRequest struct {
	IssueDate     *time.Time          `json:"issue_date"`
	DueDate       time.Time           `json:"due_date" binding:"required"`
	Lines         []DocumentLineInput `json:"lines" binding:"required,min=1"`
	DiscountType  string              `json:"discount_type" binding:"omitempty,oneof=NONE FLAT PERCENT"`
	DiscountValue decimal.Decimal     `json:"discount_value"`
	Notes         string              `json:"notes" binding:"omitempty,max=1000"`
}

// CreateQuoteRequest represents a request to create a quote
type CreateQuoteRequest struct {
	CustomerID    uuid.UUID           `json:"customer_id" binding:"required"`
	IssueDate     *time.Time          `json:"issue_date"`
	ValidUntil    time.Time           `json:"valid_until" binding:"required"`
	Lines         []DocumentLineInput `json:"lines" binding:"required,min=1"`
	DiscountType  string              `json:"discount_type" binding:"omitempty,oneof=NONE FLAT PERCENT"`
	DiscountValue decimal.Decimal     `json:"discount_value"`
	Notes         string              `json:"notes" binding:"omitempty,max=1000"`
}

// ConvertQuoteRequest represents a request to convert a quote to an invoice
type ConvertQuoteRequest struct {
	DueDate time.Time `json:"due_date" binding:"required"`
}

// InvoiceListFilter represents filtering options for invoice lists
type InvoiceListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	Status     string     `form:"status"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Search     string     `form:"search"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
}

// QuoteListFilter represents filtering options for quote lists
type QuoteListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	Status     string     `form:"status"`
	CustomerID *uuid.UUID `form:"customer_id"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
}

// LineResponse represents a document line in API responses
type LineResponse struct {
	ItemID      uuid.UUID       `json:"item_id"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID             uuid.UUID       `json:"id"`
	Number         string          `json:"number"`
	CustomerID     uuid.UUID       `json:"customer_id"`
	Status         string          `json:"status"`
	IssueDate      time.Time       `json:"issue_date"`
	DueDate        time.Time       `json:"due_date"`
	Lines          []LineResponse  `json:"lines"`
	DiscountType   string          `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToInvoiceResponse converts an Invoice to an InvoiceResponse
func ToInvoiceResponse(invoice *billing.Invoice) InvoiceResponse {
	lines := make([]LineResponse, len(invoice.Lines))
	for i, line := range invoice.Lines {
		lines[i] = toLineResponse(line)
	}

	return InvoiceResponse{
		ID:             invoice.ID,
		Number:         invoice.Number,
		CustomerID:     invoice.CustomerID,
		Status:         string(invoice.Status),
		IssueDate:      invoice.IssueDate,
		DueDate:        invoice.DueDate,
		Lines:          lines,
		DiscountType:   string(invoice.DiscountType),
		DiscountValue:  invoice.DiscountValue,
		TaxRate:        invoice.TaxRate,
		Subtotal:       invoice.Subtotal,
		DiscountAmount: invoice.DiscountAmount,
		TaxAmount:      invoice.TaxAmount,
		Total:          invoice.Total,
		AmountPaid:     invoice.AmountPaid,
		Outstanding:    invoice.Outstanding(),
		Notes:          invoice.Notes,
		CreatedAt:      invoice.CreatedAt,
		UpdatedAt:      invoice.UpdatedAt,
	}
}

// QuoteResponse represents a quote in API responses
type QuoteResponse struct {
	ID             uuid.UUID       `json:"id"`
	Number         string          `json:"number"`
	CustomerID     uuid.UUID       `json:"customer_id"`
	Status         string          `json:"status"`
	IssueDate      time.Time       `json:"issue_date"`
	ValidUntil     time.Time       `json:"valid_until"`
	Lines          []LineResponse  `json:"lines"`
	DiscountType   string          `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
	InvoiceID      *uuid.UUID      `json:"invoice_id,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToQuoteResponse converts a Quote to a QuoteResponse
func ToQuoteResponse(quote *billing.Quote) QuoteResponse {
	lines := make([]LineResponse, len(quote.Lines))
	for i, line := range quote.Lines {
		lines[i] = toLineResponse(line)
	}

	return QuoteResponse{
		ID:             quote.ID,
		Number:         quote.Number,
		CustomerID:     quote.CustomerID,
		Status:         string(quote.Status),
		IssueDate:      quote.IssueDate,
		ValidUntil:     quote.ValidUntil,
		Lines:          lines,
		DiscountType:   string(quote.DiscountType),
		DiscountValue:  quote.DiscountValue,
		TaxRate:        quote.TaxRate,
		Subtotal:       quote.Subtotal,
		DiscountAmount: quote.DiscountAmount,
		TaxAmount:      quote.TaxAmount,
		Total:          quote.Total,
		InvoiceID:      quote.InvoiceID,
		Notes:          quote.Notes,
		CreatedAt:      quote.CreatedAt,
	}
}

func toLineResponse(line billing.DocumentLine) LineResponse {
	return LineResponse{
		ItemID:      line.ItemID,
		SKU:         line.SKU,
		Description: line.Description,
		Quantity:    line.Quantity,
		UnitCost:    line.UnitCost,
		UnitPrice:   line.UnitPrice,
		LineTotal:   line.LineTotal,
	}
}
