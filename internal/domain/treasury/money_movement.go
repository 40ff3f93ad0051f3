package treasury

import (
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction indicates whether a movement adds to or draws from an account
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// IsValid checks if the direction is valid
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// ReferenceType identifies the kind of record that caused a movement
type ReferenceType string

const (
	ReferenceTypeSale     ReferenceType = "SALE"
	ReferenceTypePayment  ReferenceType = "PAYMENT"
	ReferenceTypePayroll  ReferenceType = "PAYROLL"
	ReferenceTypeExpense  ReferenceType = "EXPENSE"
	ReferenceTypeManual   ReferenceType = "MANUAL"
	ReferenceTypeTransfer ReferenceType = "TRANSFER"
)

// MoneyMovement is an append-only record of a balance change on a money
// account. Movements carry the balance before and after posting so the
// ledger can be audited without replaying from the start.
type MoneyMovement struct {
	shared.OrgAggregateRoot
	AccountID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Direction     Direction       `gorm:"size:10;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	BalanceBefore decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	RefType       ReferenceType   `gorm:"size:30"`
	RefID         *uuid.UUID      `gorm:"type:uuid;index"`
	Notes         string          `gorm:"size:500"`
	Reconciled    bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (MoneyMovement) TableName() string {
	return "money_movements"
}

// NewMoneyMovement creates a new money movement
func NewMoneyMovement(orgID, accountID uuid.UUID, direction Direction, amount, balanceBefore decimal.Decimal, refType ReferenceType, refID *uuid.UUID, notes string) (*MoneyMovement, error) {
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Direction must be IN or OUT")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}

	balanceAfter := balanceBefore.Add(amount)
	if direction == DirectionOut {
		balanceAfter = balanceBefore.Sub(amount)
	}

	return &MoneyMovement{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		AccountID:        accountID,
		Direction:        direction,
		Amount:           amount,
		BalanceBefore:    balanceBefore,
		BalanceAfter:     balanceAfter,
		RefType:          refType,
		RefID:            refID,
		Notes:            notes,
	}, nil
}

// MarkReconciled flags the movement as matched against a bank statement
func (m *MoneyMovement) MarkReconciled() {
	m.Reconciled = true
	m.IncrementVersion()
}

// SignedAmount returns the movement amount with its direction applied
func (m *MoneyMovement) SignedAmount() decimal.Decimal {
	if m.Direction == DirectionOut {
		return m.Amount.Neg()
	}
	return m.Amount
}

// ReplayBalance folds a sequence of movements over an opening balance.
// A healthy ledger replays to the account's stored balance.
func ReplayBalance(opening decimal.Decimal, movements []*MoneyMovement) decimal.Decimal {
	balance := opening
	for _, m := range movements {
		balance = balance.Add(m.SignedAmount())
	}
	return balance
}
