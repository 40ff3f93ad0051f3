package finance

import (
	"time"

	"github.com/doaddy/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceivePaymentRequest represents a request to record a customer payment
type ReceivePaymentRequest struct {
	CustomerID  uuid.UUID       `json:"customer_id" binding:"required"`
	AccountID   uuid.UUID       `json:"account_id" binding:"required"`
	Method      string          `json:"method" binding:"required,oneof=CASH CARD MOBILE_MONEY BANK_TRANSFER CHEQUE"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate *time.Time      `json:"payment_date"`
	Reference   string          `json:"reference" binding:"omitempty,max=100"`
	Notes       string          `json:"notes" binding:"omitempty,max=1000"`
}

// AllocatePaymentRequest represents a request to apply part of a
// payment to an invoice
type AllocatePaymentRequest struct {
	InvoiceID uuid.UUID       `json:"invoice_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// PaymentListFilter represents filtering options for payment lists
type PaymentListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	Status     string     `form:"status"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Method     string     `form:"method"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
}

// AllocationResponse represents an allocation in API responses
type AllocationResponse struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	AllocatedAt   time.Time       `json:"allocated_at"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID          uuid.UUID            `json:"id"`
	Number      string               `json:"number"`
	CustomerID  uuid.UUID            `json:"customer_id"`
	AccountID   uuid.UUID            `json:"account_id"`
	Status      string               `json:"status"`
	Method      string               `json:"method"`
	Amount      decimal.Decimal      `json:"amount"`
	Allocated   decimal.Decimal      `json:"allocated"`
	Unallocated decimal.Decimal      `json:"unallocated"`
	Allocations []AllocationResponse `json:"allocations"`
	PaymentDate time.Time            `json:"payment_date"`
	Reference   string               `json:"reference,omitempty"`
	Notes       string               `json:"notes,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// ToPaymentResponse converts a Payment to a PaymentResponse
func ToPaymentResponse(p *finance.Payment) PaymentResponse {
	allocations := make([]AllocationResponse, len(p.Allocations))
	for i, a := range p.Allocations {
		allocations[i] = AllocationResponse{
			InvoiceID:     a.InvoiceID,
			InvoiceNumber: a.InvoiceNumber,
			Amount:        a.Amount,
			AllocatedAt:   a.AllocatedAt,
		}
	}

	return PaymentResponse{
		ID:          p.ID,
		Number:      p.Number,
		CustomerID:  p.CustomerID,
		AccountID:   p.AccountID,
		Status:      string(p.Status),
		Method:      string(p.Method),
		Amount:      p.Amount,
		Allocated:   p.Allocated,
		Unallocated: p.Unallocated(),
		Allocations: allocations,
		PaymentDate: p.PaymentDate,
		Reference:   p.Reference,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
	}
}
