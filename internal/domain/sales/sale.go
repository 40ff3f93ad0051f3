package sales

import (
	"time"

	"github.com/doaddy/backend/internal/domain/billing"
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the lifecycle status of a point-of-sale sale
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "COMPLETED"
	SaleStatusVoided    SaleStatus = "VOIDED"
)

// PaymentMethod is how the customer settled a sale
type PaymentMethod string

const (
	PaymentMethodCash        PaymentMethod = "CASH"
	PaymentMethodCard        PaymentMethod = "CARD"
	PaymentMethodMobileMoney PaymentMethod = "MOBILE_MONEY"
	PaymentMethodTransfer    PaymentMethod = "BANK_TRANSFER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodMobileMoney, PaymentMethodTransfer:
		return true
	}
	return false
}

// Sale is a completed point-of-sale transaction. Unlike an invoice a
// sale settles immediately: posting one deducts stock and deposits the
// takings into a money account in the same transaction.
type Sale struct {
	shared.OrgAggregateRoot
	Number         string                `gorm:"size:50;not null"`
	CustomerID     *uuid.UUID            `gorm:"type:uuid;index"`
	AccountID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	Status         SaleStatus            `gorm:"size:20;not null;default:'COMPLETED'"`
	PaymentMethod  PaymentMethod         `gorm:"size:20;not null"`
	SaleDate       time.Time             `gorm:"not null"`
	Lines          billing.DocumentLines `gorm:"type:jsonb"`
	DiscountType   billing.DiscountType  `gorm:"size:10;not null;default:'NONE'"`
	DiscountValue  decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	TaxRate        decimal.Decimal       `gorm:"type:decimal(6,4);not null;default:0.16"`
	Subtotal       decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount      decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Total          decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Notes          string                `gorm:"size:1000"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a completed sale with totals computed from its lines
func NewSale(orgID uuid.UUID, customerID *uuid.UUID, accountID uuid.UUID, number string, method PaymentMethod, saleDate time.Time, lines billing.DocumentLines, discountType billing.DiscountType, discountValue, taxRate decimal.Decimal, notes string) (*Sale, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Sale number cannot be empty")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Sale must settle into a money account")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unsupported payment method")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_DOCUMENT", "Sale must have at least one line")
	}

	totals, err := billing.ComputeTotals(lines, discountType, discountValue, taxRate)
	if err != nil {
		return nil, err
	}

	sale := &Sale{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Number:           number,
		CustomerID:       customerID,
		AccountID:        accountID,
		Status:           SaleStatusCompleted,
		PaymentMethod:    method,
		SaleDate:         saleDate,
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

	sale.AddDomainEvent(NewSaleCompletedEvent(sale))

	return sale, nil
}

// Void cancels a completed sale. The caller is responsible for posting
// the compensating stock and money movements.
func (s *Sale) Void() error {
	if s.Status == SaleStatusVoided {
		return shared.NewDomainError("INVALID_STATE", "Sale is already voided")
	}

	s.Status = SaleStatusVoided
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewSaleVoidedEvent(s))

	return nil
}

// GetTotalMoney returns the sale total as Money
func (s *Sale) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyZMW(s.Total)
}
