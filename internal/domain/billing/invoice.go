package billing

import (
	"time"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusPartial   InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is valid
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPartial,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true when no further transitions are possible
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// AcceptsPayment returns true when payments may be allocated to an
// invoice in this status
func (s InvoiceStatus) AcceptsPayment() bool {
	switch s {
	case InvoiceStatusSent, InvoiceStatusPartial, InvoiceStatusOverdue:
		return true
	}
	return false
}

// CanTransitionTo checks if a manual transition to the target status is allowed
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	transitions := map[InvoiceStatus][]InvoiceStatus{
		InvoiceStatusDraft:     {InvoiceStatusSent, InvoiceStatusCancelled},
		InvoiceStatusSent:      {InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
		InvoiceStatusPartial:   {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
		InvoiceStatusOverdue:   {InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusCancelled},
		InvoiceStatusPaid:      {},
		InvoiceStatusCancelled: {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// Invoice is a billing document issued to a customer. Totals and lines
// are frozen once the invoice leaves draft; only payments and status
// change after that.
type Invoice struct {
	shared.OrgAggregateRoot
	Number         string          `gorm:"size:50;not null"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status         InvoiceStatus   `gorm:"size:20;not null;default:'DRAFT'"`
	IssueDate      time.Time       `gorm:"not null"`
	DueDate        time.Time       `gorm:"not null"`
	Lines          DocumentLines   `gorm:"type:jsonb"`
	DiscountType   DiscountType    `gorm:"size:10;not null;default:'NONE'"`
	DiscountValue  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxRate        decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0.16"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AmountPaid     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Notes          string          `gorm:"size:1000"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new draft invoice
func NewInvoice(orgID, customerID uuid.UUID, number string, issueDate, dueDate time.Time, lines DocumentLines, discountType DiscountType, discountValue, taxRate decimal.Decimal, notes string) (*Invoice, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_DOCUMENT", "Invoice must have at least one line")
	}
	if dueDate.Before(issueDate) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before issue date")
	}

	totals, err := ComputeTotals(lines, discountType, discountValue, taxRate)
	if err != nil {
		return nil, err
	}

	invoice := &Invoice{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Number:           number,
		CustomerID:       customerID,
		Status:           InvoiceStatusDraft,
		IssueDate:        issueDate,
		DueDate:          dueDate,
		Lines:            lines,
		DiscountType:     discountType,
		DiscountValue:    discountValue,
		TaxRate:          taxRate,
		Subtotal:         totals.Subtotal,
		DiscountAmount:   totals.DiscountAmount,
		TaxAmount:        totals.TaxAmount,
		Total:            totals.Total,
		AmountPaid:       decimal.Zero,
		Notes:            notes,
	}

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// UpdateDraft replaces the lines, discount, dates and notes of a draft
// invoice and recomputes its totals. Once an invoice leaves draft its
// contents are frozen.
func (i *Invoice) UpdateDraft(issueDate, dueDate time.Time, lines DocumentLines, discountType DiscountType, discountValue decimal.Decimal, notes string) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}
	if len(lines) == 0 {
		return shared.NewDomainError("EMPTY_DOCUMENT", "Invoice must have at least one line")
	}
	if dueDate.Before(issueDate) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before issue date")
	}

	totals, err := ComputeTotals(lines, discountType, discountValue, i.TaxRate)
	if err != nil {
		return err
	}

	i.IssueDate = issueDate
	i.DueDate = dueDate
	i.Lines = lines
	i.DiscountType = discountType
	i.DiscountValue = discountValue
	i.Subtotal = totals.Subtotal
	i.DiscountAmount = totals.DiscountAmount
	i.TaxAmount = totals.TaxAmount
	i.Total = totals.Total
	i.Notes = notes
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Send moves a draft invoice to sent, freezing its lines and totals
func (i *Invoice) Send() error {
	if !i.Status.CanTransitionTo(InvoiceStatusSent) {
		return shared.NewDomainError("INVALID_STATE",
			"Only draft invoices can be sent")
	}

	i.Status = InvoiceStatusSent
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.AddDomainEvent(NewInvoiceSentEvent(i))

	return nil
}

// Cancel voids the invoice. Invoices with payments applied cannot be
// cancelled; the payments must be unwound first.
func (i *Invoice) Cancel() error {
	if i.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already closed")
	}
	if i.AmountPaid.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel an invoice with payments applied")
	}

	i.Status = InvoiceStatusCancelled
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.AddDomainEvent(NewInvoiceCancelledEvent(i))

	return nil
}

// ApplyPayment records an allocated amount against the invoice.
// Allocating more than the outstanding balance is rejected.
func (i *Invoice) ApplyPayment(amount valueobject.Money) error {
	if !i.Status.AcceptsPayment() {
		return shared.NewDomainError("INVALID_STATE",
			"Invoice does not accept payments in status "+string(i.Status))
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.Amount().GreaterThan(i.Outstanding()) {
		return shared.ErrOverAllocation
	}

	i.AmountPaid = i.AmountPaid.Add(amount.Amount())
	i.Status = i.DeriveStatus(time.Now())
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.AddDomainEvent(NewInvoicePaymentAppliedEvent(i, amount.Amount()))

	return nil
}

// ReversePayment backs out a previously applied allocation
func (i *Invoice) ReversePayment(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversal amount must be positive")
	}
	if amount.Amount().GreaterThan(i.AmountPaid) {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversal exceeds the amount paid")
	}

	i.AmountPaid = i.AmountPaid.Sub(amount.Amount())
	if i.Status == InvoiceStatusPaid {
		i.Status = InvoiceStatusSent
	}
	i.Status = i.DeriveStatus(time.Now())
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Outstanding returns the unpaid portion of the invoice total
func (i *Invoice) Outstanding() decimal.Decimal {
	return i.Total.Sub(i.AmountPaid)
}

// DeriveStatus computes the status the invoice should hold at the given
// instant. It is pure and idempotent: draft and cancelled are never
// touched, a fully paid invoice stays paid, and an unpaid or partly
// paid invoice past its due date reads as overdue.
func (i *Invoice) DeriveStatus(now time.Time) InvoiceStatus {
	switch i.Status {
	case InvoiceStatusDraft, InvoiceStatusCancelled:
		return i.Status
	}

	if i.AmountPaid.GreaterThanOrEqual(i.Total) {
		return InvoiceStatusPaid
	}
	if now.After(i.DueDate) {
		return InvoiceStatusOverdue
	}
	if i.AmountPaid.GreaterThan(decimal.Zero) {
		return InvoiceStatusPartial
	}
	return InvoiceStatusSent
}

// RefreshStatus applies the derived status, incrementing the version
// only when the status actually changes
func (i *Invoice) RefreshStatus(now time.Time) bool {
	derived := i.DeriveStatus(now)
	if derived == i.Status {
		return false
	}
	i.Status = derived
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return true
}

// GetTotalMoney returns the invoice total as Money
func (i *Invoice) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyZMW(i.Total)
}

// GetOutstandingMoney returns the outstanding balance as Money
func (i *Invoice) GetOutstandingMoney() valueobject.Money {
	return valueobject.NewMoneyZMW(i.Outstanding())
}
