package billing

import (
	"time"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteStatus represents the lifecycle status of a quote
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "DRAFT"
	QuoteStatusSent     QuoteStatus = "SENT"
	QuoteStatusAccepted QuoteStatus = "ACCEPTED"
	QuoteStatusRejected QuoteStatus = "REJECTED"
	QuoteStatusExpired  QuoteStatus = "EXPIRED"
)

// IsValid checks if the status is valid
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusExpired:
		return true
	}
	return false
}

// IsTerminal returns true when no further transitions are possible
func (s QuoteStatus) IsTerminal() bool {
	return s == QuoteStatusAccepted || s == QuoteStatusRejected || s == QuoteStatusExpired
}

// Quote is a priced offer to a customer that can later be converted
// into an invoice. Quotes carry no payment state.
type Quote struct {
	shared.OrgAggregateRoot
	Number         string          `gorm:"size:50;not null"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status         QuoteStatus     `gorm:"size:20;not null;default:'DRAFT'"`
	IssueDate      time.Time       `gorm:"not null"`
	ValidUntil     time.Time       `gorm:"not null"`
	Lines          DocumentLines   `gorm:"type:jsonb"`
	DiscountType   DiscountType    `gorm:"size:10;not null;default:'NONE'"`
	DiscountValue  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxRate        decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0.16"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	InvoiceID      *uuid.UUID      `gorm:"type:uuid"`
	Notes          string          `gorm:"size:1000"`
}

// TableName returns the table name for GORM
func (Quote) TableName() string {
	return "quotes"
}

// NewQuote creates a new draft quote
func NewQuote(orgID, customerID uuid.UUID, number string, issueDate, validUntil time.Time, lines DocumentLines, discountType DiscountType, discountValue, taxRate decimal.Decimal, notes string) (*Quote, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Quote number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_DOCUMENT", "Quote must have at least one line")
	}
	if validUntil.Before(issueDate) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Validity date cannot be before issue date")
	}

	totals, err := ComputeTotals(lines, discountType, discountValue, taxRate)
	if err != nil {
		return nil, err
	}

	quote := &Quote{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Number:           number,
		CustomerID:       customerID,
		Status:           QuoteStatusDraft,
		IssueDate:        issueDate,
		ValidUntil:       validUntil,
		Lines:            lines,
		DiscountType:     discountType,
		DiscountValue:    discountValue,
		TaxRate:          taxRate,
		Subtotal:         totals.Subtotal,
		DiscountAmount:   totals.DiscountAmount,
		TaxAmount:        totals.TaxAmount,
		Total:            totals.Total,
		Notes:            notes,
	}

	quote.AddDomainEvent(NewQuoteCreatedEvent(quote))

	return quote, nil
}

// Send moves a draft quote to sent
func (q *Quote) Send() error {
	if q.Status != QuoteStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft quotes can be sent")
	}
	q.Status = QuoteStatusSent
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
	return nil
}

// Accept marks a sent quote as accepted by the customer
func (q *Quote) Accept(now time.Time) error {
	if q.Status != QuoteStatusSent {
		return shared.NewDomainError("INVALID_STATE", "Only sent quotes can be accepted")
	}
	if now.After(q.ValidUntil) {
		return shared.NewDomainError("QUOTE_EXPIRED", "Quote validity period has passed")
	}
	q.Status = QuoteStatusAccepted
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
	q.AddDomainEvent(NewQuoteAcceptedEvent(q))
	return nil
}

// Reject marks a sent quote as rejected
func (q *Quote) Reject() error {
	if q.Status != QuoteStatusSent {
		return shared.NewDomainError("INVALID_STATE", "Only sent quotes can be rejected")
	}
	q.Status = QuoteStatusRejected
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
	return nil
}

// MarkExpired transitions a sent quote past its validity to expired
func (q *Quote) MarkExpired(now time.Time) bool {
	if q.Status != QuoteStatusSent || !now.After(q.ValidUntil) {
		return false
	}
	q.Status = QuoteStatusExpired
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
	return true
}

// ConvertToInvoice builds an invoice from an accepted quote, copying
// its lines and pricing terms. The quote records the invoice it became.
func (q *Quote) ConvertToInvoice(invoiceNumber string, issueDate, dueDate time.Time) (*Invoice, error) {
	if q.Status != QuoteStatusAccepted {
		return nil, shared.NewDomainError("INVALID_STATE", "Only accepted quotes can be converted")
	}
	if q.InvoiceID != nil {
		return nil, shared.NewDomainError("ALREADY_CONVERTED", "Quote has already been converted to an invoice")
	}

	invoice, err := NewInvoice(q.OrgID, q.CustomerID, invoiceNumber, issueDate, dueDate,
		q.Lines, q.DiscountType, q.DiscountValue, q.TaxRate, q.Notes)
	if err != nil {
		return nil, err
	}

	q.InvoiceID = &invoice.ID
	q.UpdatedAt = time.Now()
	q.IncrementVersion()

	return invoice, nil
}
