package treasury

import (
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate types
const (
	AggregateTypeMoneyAccount = "MoneyAccount"
)

// Event types
const (
	EventTypeAccountCreated        = "money_account.created"
	EventTypeAccountBalanceChanged = "money_account.balance_changed"
)

// AccountCreatedEvent is published when a money account is opened
type AccountCreatedEvent struct {
	shared.BaseDomainEvent
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"account_type"`
	Currency       string          `json:"currency"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// NewAccountCreatedEvent creates a new AccountCreatedEvent
func NewAccountCreatedEvent(account *MoneyAccount) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountCreated, AggregateTypeMoneyAccount, account.ID, account.OrgID),
		Name:            account.Name,
		AccountType:     account.Type,
		Currency:        account.Currency,
		OpeningBalance:  account.Balance,
	}
}

// EventType returns the event type
func (e *AccountCreatedEvent) EventType() string {
	return EventTypeAccountCreated
}

// AccountBalanceChangedEvent is published when a movement is posted
type AccountBalanceChangedEvent struct {
	shared.BaseDomainEvent
	MovementID   uuid.UUID       `json:"movement_id"`
	Direction    Direction       `json:"direction"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	RefType      ReferenceType   `json:"ref_type"`
}

// NewAccountBalanceChangedEvent creates a new AccountBalanceChangedEvent
func NewAccountBalanceChangedEvent(account *MoneyAccount, movement *MoneyMovement) *AccountBalanceChangedEvent {
	return &AccountBalanceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountBalanceChanged, AggregateTypeMoneyAccount, account.ID, account.OrgID),
		MovementID:      movement.ID,
		Direction:       movement.Direction,
		Amount:          movement.Amount,
		BalanceAfter:    movement.BalanceAfter,
		RefType:         movement.RefType,
	}
}

// EventType returns the event type
func (e *AccountBalanceChangedEvent) EventType() string {
	return EventTypeAccountBalanceChanged
}
