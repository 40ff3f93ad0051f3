package finance

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the allocation state of a customer payment
type PaymentStatus string

const (
	PaymentStatusUnallocated PaymentStatus = "UNALLOCATED"
	PaymentStatusPartial     PaymentStatus = "PARTIALLY_ALLOCATED"
	PaymentStatusAllocated   PaymentStatus = "ALLOCATED"
	PaymentStatusReversed    PaymentStatus = "REVERSED"
)

// PaymentMethod is the channel the payment arrived through
type PaymentMethod string

const (
	PaymentMethodCash        PaymentMethod = "CASH"
	PaymentMethodCard        PaymentMethod = "CARD"
	PaymentMethodMobileMoney PaymentMethod = "MOBILE_MONEY"
	PaymentMethodTransfer    PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCheque      PaymentMethod = "CHEQUE"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodMobileMoney,
		PaymentMethodTransfer, PaymentMethodCheque:
		return true
	}
	return false
}

// Allocation ties part of a payment to a specific invoice
type Allocation struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	AllocatedAt   time.Time       `json:"allocated_at"`
}

// Allocations is a slice of Allocation that implements GORM Scanner/Valuer for JSONB storage
type Allocations []Allocation

// Value implements driver.Valuer interface for GORM to store as JSONB
func (a Allocations) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (a *Allocations) Scan(value interface{}) error {
	if value == nil {
		*a = Allocations{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Allocations: unsupported type")
	}

	return json.Unmarshal(bytes, a)
}

// Payment is money received from a customer, held until allocated to
// one or more invoices. A payment may allocate to an invoice at most
// once, and never beyond its own unallocated balance.
type Payment struct {
	shared.OrgAggregateRoot
	Number      string          `gorm:"size:50;not null"`
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status      PaymentStatus   `gorm:"size:30;not null;default:'UNALLOCATED'"`
	Method      PaymentMethod   `gorm:"size:20;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Allocated   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Allocations Allocations     `gorm:"type:jsonb"`
	PaymentDate time.Time       `gorm:"not null"`
	Reference   string          `gorm:"size:100"`
	Notes       string          `gorm:"size:1000"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment records a customer payment into a money account
func NewPayment(orgID, customerID, accountID uuid.UUID, number string, method PaymentMethod, amount valueobject.Money, paymentDate time.Time, reference, notes string) (*Payment, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Payment number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Payment must land in a money account")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unsupported payment method")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	payment := &Payment{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Number:           number,
		CustomerID:       customerID,
		AccountID:        accountID,
		Status:           PaymentStatusUnallocated,
		Method:           method,
		Amount:           amount.Amount(),
		Allocated:        decimal.Zero,
		Allocations:      Allocations{},
		PaymentDate:      paymentDate,
		Reference:        reference,
		Notes:            notes,
	}

	payment.AddDomainEvent(NewPaymentReceivedEvent(payment))

	return payment, nil
}

// Unallocated returns the portion of the payment not yet applied to an invoice
func (p *Payment) Unallocated() decimal.Decimal {
	return p.Amount.Sub(p.Allocated)
}

// AllocateToInvoice applies part of the payment to an invoice. The
// amount must fit within the payment's unallocated balance and each
// invoice may appear only once per payment.
func (p *Payment) AllocateToInvoice(invoiceID uuid.UUID, invoiceNumber string, amount valueobject.Money) error {
	if p.Status == PaymentStatusReversed {
		return shared.NewDomainError("INVALID_STATE", "Cannot allocate a reversed payment")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}
	if amount.Amount().GreaterThan(p.Unallocated()) {
		return shared.ErrOverAllocation
	}
	for _, a := range p.Allocations {
		if a.InvoiceID == invoiceID {
			return shared.NewDomainError("DUPLICATE_ALLOCATION",
				"Payment is already allocated to invoice "+a.InvoiceNumber)
		}
	}

	p.Allocations = append(p.Allocations, Allocation{
		InvoiceID:     invoiceID,
		InvoiceNumber: invoiceNumber,
		Amount:        amount.Amount(),
		AllocatedAt:   time.Now(),
	})
	p.Allocated = p.Allocated.Add(amount.Amount())
	p.refreshStatus()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewPaymentAllocatedEvent(p, invoiceID, invoiceNumber, amount.Amount()))

	return nil
}

// RemoveAllocation backs out the allocation to the given invoice,
// returning the amount freed
func (p *Payment) RemoveAllocation(invoiceID uuid.UUID) (decimal.Decimal, error) {
	if p.Status == PaymentStatusReversed {
		return decimal.Zero, shared.NewDomainError("INVALID_STATE", "Cannot modify a reversed payment")
	}

	for idx, a := range p.Allocations {
		if a.InvoiceID == invoiceID {
			p.Allocations = append(p.Allocations[:idx], p.Allocations[idx+1:]...)
			p.Allocated = p.Allocated.Sub(a.Amount)
			p.refreshStatus()
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return a.Amount, nil
		}
	}

	return decimal.Zero, shared.NewDomainError("ALLOCATION_NOT_FOUND", "Payment has no allocation to this invoice")
}

// Reverse voids the payment. Only fully unallocated payments can be
// reversed; allocations must be removed first.
func (p *Payment) Reverse() error {
	if p.Status == PaymentStatusReversed {
		return shared.NewDomainError("INVALID_STATE", "Payment is already reversed")
	}
	if p.Allocated.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_STATE", "Cannot reverse a payment with allocations")
	}

	p.Status = PaymentStatusReversed
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewPaymentReversedEvent(p))

	return nil
}

func (p *Payment) refreshStatus() {
	switch {
	case p.Allocated.IsZero():
		p.Status = PaymentStatusUnallocated
	case p.Allocated.GreaterThanOrEqual(p.Amount):
		p.Status = PaymentStatusAllocated
	default:
		p.Status = PaymentStatusPartial
	}
}

// GetAmountMoney returns the payment amount as Money
func (p *Payment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyZMW(p.Amount)
}

// GetUnallocatedMoney returns the unallocated balance as Money
func (p *Payment) GetUnallocatedMoney() valueobject.Money {
	return valueobject.NewMoneyZMW(p.Unallocated())
}
