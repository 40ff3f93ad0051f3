package sales

import (
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate types
const (
	AggregateTypeSale = "Sale"
)

// Event types
const (
	EventTypeSaleCompleted = "sale.completed"
	EventTypeSaleVoided    = "sale.voided"
)

// SaleCompletedEvent is published when a sale is posted
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	Number        string          `json:"number"`
	AccountID     uuid.UUID       `json:"account_id"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	LineCount     int             `json:"line_count"`
}

// NewSaleCompletedEvent creates a new SaleCompletedEvent
func NewSaleCompletedEvent(sale *Sale) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCompleted, AggregateTypeSale, sale.ID, sale.OrgID),
		Number:          sale.Number,
		AccountID:       sale.AccountID,
		PaymentMethod:   sale.PaymentMethod,
		Total:           sale.Total,
		LineCount:       len(sale.Lines),
	}
}

// EventType returns the event type
func (e *SaleCompletedEvent) EventType() string {
	return EventTypeSaleCompleted
}

// SaleVoidedEvent is published when a sale is voided
type SaleVoidedEvent struct {
	shared.BaseDomainEvent
	Number string          `json:"number"`
	Total  decimal.Decimal `json:"total"`
}

// NewSaleVoidedEvent creates a new SaleVoidedEvent
func NewSaleVoidedEvent(sale *Sale) *SaleVoidedEvent {
	return &SaleVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleVoided, AggregateTypeSale, sale.ID, sale.OrgID),
		Number:          sale.Number,
		Total:           sale.Total,
	}
}

// EventType returns the event type
func (e *SaleVoidedEvent) EventType() string {
	return EventTypeSaleVoided
}
