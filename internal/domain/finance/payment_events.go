package finance

import (
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate types
const (
	AggregateTypePayment = "Payment"
)

// Event types
const (
	EventTypePaymentReceived  = "payment.received"
	EventTypePaymentAllocated = "payment.allocated"
	EventTypePaymentReversed  = "payment.reversed"
)

// PaymentReceivedEvent is published when a customer payment is recorded
type PaymentReceivedEvent struct {
	shared.BaseDomainEvent
	Number     string          `json:"number"`
	CustomerID uuid.UUID       `json:"customer_id"`
	AccountID  uuid.UUID       `json:"account_id"`
	Method     PaymentMethod   `json:"method"`
	Amount     decimal.Decimal `json:"amount"`
}

// NewPaymentReceivedEvent creates a new PaymentReceivedEvent
func NewPaymentReceivedEvent(payment *Payment) *PaymentReceivedEvent {
	return &PaymentReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentReceived, AggregateTypePayment, payment.ID, payment.OrgID),
		Number:          payment.Number,
		CustomerID:      payment.CustomerID,
		AccountID:       payment.AccountID,
		Method:          payment.Method,
		Amount:          payment.Amount,
	}
}

// EventType returns the event type
func (e *PaymentReceivedEvent) EventType() string {
	return EventTypePaymentReceived
}

// PaymentAllocatedEvent is published when a payment is applied to an invoice
type PaymentAllocatedEvent struct {
	shared.BaseDomainEvent
	Number        string          `json:"number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	Unallocated   decimal.Decimal `json:"unallocated"`
}

// NewPaymentAllocatedEvent creates a new PaymentAllocatedEvent
func NewPaymentAllocatedEvent(payment *Payment, invoiceID uuid.UUID, invoiceNumber string, amount decimal.Decimal) *PaymentAllocatedEvent {
	return &PaymentAllocatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentAllocated, AggregateTypePayment, payment.ID, payment.OrgID),
		Number:          payment.Number,
		InvoiceID:       invoiceID,
		InvoiceNumber:   invoiceNumber,
		Amount:          amount,
		Unallocated:     payment.Unallocated(),
	}
}

// EventType returns the event type
func (e *PaymentAllocatedEvent) EventType() string {
	return EventTypePaymentAllocated
}

// PaymentReversedEvent is published when a payment is voided
type PaymentReversedEvent struct {
	shared.BaseDomainEvent
	Number string          `json:"number"`
	Amount decimal.Decimal `json:"amount"`
}

// NewPaymentReversedEvent creates a new PaymentReversedEvent
func NewPaymentReversedEvent(payment *Payment) *PaymentReversedEvent {
	return &PaymentReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentReversed, AggregateTypePayment, payment.ID, payment.OrgID),
		Number:          payment.Number,
		Amount:          payment.Amount,
	}
}

// EventType returns the event type
func (e *PaymentReversedEvent) EventType() string {
	return EventTypePaymentReversed
}
