package treasury

import (
	"strings"
	"time"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType classifies a money account
type AccountType string

const (
	AccountTypeCash        AccountType = "CASH"
	AccountTypeBank        AccountType = "BANK"
	AccountTypeMobileMoney AccountType = "MOBILE_MONEY"
)

// IsValid checks if the account type is valid
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeCash, AccountTypeBank, AccountTypeMobileMoney:
		return true
	}
	return false
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// MoneyAccount is a cash, bank or mobile-money account whose balance is
// maintained exclusively through posted money movements. At any point
// Balance equals OpeningBalance plus the signed sum of the account's
// movements, which is what the ledger check verifies.
type MoneyAccount struct {
	shared.OrgAggregateRoot
	Name           string          `gorm:"size:200;not null"`
	Type           AccountType     `gorm:"size:20;not null"`
	Currency       string          `gorm:"size:3;not null;default:'ZMW'"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Balance        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AllowOverdraw  bool            `gorm:"not null;default:false"`
	Active         bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (MoneyAccount) TableName() string {
	return "money_accounts"
}

// NewMoneyAccount creates a new money account with an opening balance
func NewMoneyAccount(orgID uuid.UUID, name string, accountType AccountType, openingBalance valueobject.Money) (*MoneyAccount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Account type must be CASH, BANK or MOBILE_MONEY")
	}
	if openingBalance.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Opening balance cannot be negative")
	}

	account := &MoneyAccount{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Name:             name,
		Type:             accountType,
		Currency:         string(openingBalance.Currency()),
		OpeningBalance:   openingBalance.Amount(),
		Balance:          openingBalance.Amount(),
		Active:           true,
	}

	account.AddDomainEvent(NewAccountCreatedEvent(account))

	return account, nil
}

// Deposit increases the account balance and returns the posted movement
func (a *MoneyAccount) Deposit(amount valueobject.Money, refType ReferenceType, refID *uuid.UUID, notes string) (*MoneyMovement, error) {
	if err := a.checkPostable(amount); err != nil {
		return nil, err
	}

	movement, err := NewMoneyMovement(a.OrgID, a.ID, DirectionIn, amount.Amount(), a.Balance, refType, refID, notes)
	if err != nil {
		return nil, err
	}

	a.Balance = movement.BalanceAfter
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	a.AddDomainEvent(NewAccountBalanceChangedEvent(a, movement))

	return movement, nil
}

// Withdraw decreases the account balance and returns the posted
// movement. A withdrawal that would overdraw the account is rejected
// unless the account allows overdraw.
func (a *MoneyAccount) Withdraw(amount valueobject.Money, refType ReferenceType, refID *uuid.UUID, notes string) (*MoneyMovement, error) {
	if err := a.checkPostable(amount); err != nil {
		return nil, err
	}
	if a.Balance.LessThan(amount.Amount()) && !a.AllowOverdraw {
		return nil, shared.ErrInsufficientBalance
	}

	movement, err := NewMoneyMovement(a.OrgID, a.ID, DirectionOut, amount.Amount(), a.Balance, refType, refID, notes)
	if err != nil {
		return nil, err
	}

	a.Balance = movement.BalanceAfter
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	a.AddDomainEvent(NewAccountBalanceChangedEvent(a, movement))

	return movement, nil
}

func (a *MoneyAccount) checkPostable(amount valueobject.Money) error {
	if !a.Active {
		return shared.NewDomainError("ACCOUNT_INACTIVE", "Cannot post to an inactive account")
	}
	if string(amount.Currency()) != a.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH", "Amount currency does not match account currency")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	return nil
}

// Rename updates the account's display name
func (a *MoneyAccount) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	a.Name = name
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Deactivate marks the account inactive. An account holding a non-zero
// balance cannot be deactivated.
func (a *MoneyAccount) Deactivate() error {
	if !a.Balance.IsZero() {
		return shared.NewDomainError("ACCOUNT_NOT_EMPTY", "Cannot deactivate an account with a non-zero balance")
	}
	a.Active = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// GetBalanceMoney returns the balance as Money
func (a *MoneyAccount) GetBalanceMoney() valueobject.Money {
	money, err := valueobject.NewMoney(a.Balance, valueobject.Currency(a.Currency))
	if err != nil {
		return valueobject.NewMoneyZMW(a.Balance)
	}
	return money
}
