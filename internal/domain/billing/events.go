package billing

import (
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate types
const (
	AggregateTypeInvoice = "Invoice"
	AggregateTypeQuote   = "Quote"
)

// Event types
const (
	EventTypeInvoiceCreated        = "invoice.created"
	EventTypeInvoiceSent           = "invoice.sent"
	EventTypeInvoiceCancelled      = "invoice.cancelled"
	EventTypeInvoicePaymentApplied = "invoice.payment_applied"
	EventTypeQuoteCreated          = "quote.created"
	EventTypeQuoteAccepted         = "quote.accepted"
)

// InvoiceCreatedEvent is published when an invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	Number     string          `json:"number"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(invoice *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, invoice.ID, invoice.OrgID),
		Number:          invoice.Number,
		CustomerID:      invoice.CustomerID,
		Total:           invoice.Total,
	}
}

// EventType returns the event type
func (e *InvoiceCreatedEvent) EventType() string {
	return EventTypeInvoiceCreated
}

// InvoiceSentEvent is published when an invoice is issued to the customer
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
	Number string          `json:"number"`
	Total  decimal.Decimal `json:"total"`
}

// NewInvoiceSentEvent creates a new InvoiceSentEvent
func NewInvoiceSentEvent(invoice *Invoice) *InvoiceSentEvent {
	return &InvoiceSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceSent, AggregateTypeInvoice, invoice.ID, invoice.OrgID),
		Number:          invoice.Number,
		Total:           invoice.Total,
	}
}

// EventType returns the event type
func (e *InvoiceSentEvent) EventType() string {
	return EventTypeInvoiceSent
}

// InvoiceCancelledEvent is published when an invoice is voided
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(invoice *Invoice) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCancelled, AggregateTypeInvoice, invoice.ID, invoice.OrgID),
		Number:          invoice.Number,
	}
}

// EventType returns the event type
func (e *InvoiceCancelledEvent) EventType() string {
	return EventTypeInvoiceCancelled
}

// InvoicePaymentAppliedEvent is published when an allocation lands on an invoice
type InvoicePaymentAppliedEvent struct {
	shared.BaseDomainEvent
	Number      string          `json:"number"`
	Amount      decimal.Decimal `json:"amount"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Status      InvoiceStatus   `json:"status"`
}

// NewInvoicePaymentAppliedEvent creates a new InvoicePaymentAppliedEvent
func NewInvoicePaymentAppliedEvent(invoice *Invoice, amount decimal.Decimal) *InvoicePaymentAppliedEvent {
	return &InvoicePaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaymentApplied, AggregateTypeInvoice, invoice.ID, invoice.OrgID),
		Number:          invoice.Number,
		Amount:          amount,
		AmountPaid:      invoice.AmountPaid,
		Outstanding:     invoice.Outstanding(),
		Status:          invoice.Status,
	}
}

// EventType returns the event type
func (e *InvoicePaymentAppliedEvent) EventType() string {
	return EventTypeInvoicePaymentApplied
}

// QuoteCreatedEvent is published when a quote is created
type QuoteCreatedEvent struct {
	shared.BaseDomainEvent
	Number     string          `json:"number"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
}

// NewQuoteCreatedEvent creates a new QuoteCreatedEvent
func NewQuoteCreatedEvent(quote *Quote) *QuoteCreatedEvent {
	return &QuoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteCreated, AggregateTypeQuote, quote.ID, quote.OrgID),
		Number:          quote.Number,
		CustomerID:      quote.CustomerID,
		Total:           quote.Total,
	}
}

// EventType returns the event type
func (e *QuoteCreatedEvent) EventType() string {
	return EventTypeQuoteCreated
}

// QuoteAcceptedEvent is published when a customer accepts a quote
type QuoteAcceptedEvent struct {
	shared.BaseDomainEvent
	Number string          `json:"number"`
	Total  decimal.Decimal `json:"total"`
}

// NewQuoteAcceptedEvent creates a new QuoteAcceptedEvent
func NewQuoteAcceptedEvent(quote *Quote) *QuoteAcceptedEvent {
	return &QuoteAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteAccepted, AggregateTypeQuote, quote.ID, quote.OrgID),
		Number:          quote.Number,
		Total:           quote.Total,
	}
}

// EventType returns the event type
func (e *QuoteAcceptedEvent) EventType() string {
	return EventTypeQuoteAccepted
}
