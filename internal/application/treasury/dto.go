package treasury

import (
	"time"

	"github.com/doaddy/backend/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest represents a request to open a money account
type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required,min=1,max=200"`
	Type           string          `json:"type" binding:"required,oneof=CASH BANK MOBILE_MONEY"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	AllowOverdraw  bool            `json:"allow_overdraw"`
}

// PostMovementRequest represents a manual deposit or withdrawal
type PostMovementRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Notes  string          `json:"notes" binding:"omitempty,max=500"`
}

// AccountListFilter represents filtering options for account lists
type AccountListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	Type     string `form:"type"`
	Active   *bool  `form:"active"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// MovementListFilter represents filtering options for movement lists
type MovementListFilter struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	Direction  string `form:"direction"`
	RefType    string `form:"ref_type"`
	Reconciled *bool  `form:"reconciled"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir"`
}

// AccountResponse represents a money account in API responses
type AccountResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Currency       string          `json:"currency"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Balance        decimal.Decimal `json:"balance"`
	AllowOverdraw  bool            `json:"allow_overdraw"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToAccountResponse converts a MoneyAccount to an AccountResponse
func ToAccountResponse(a *treasury.MoneyAccount) AccountResponse {
	return AccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		Type:           string(a.Type),
		Currency:       a.Currency,
		OpeningBalance: a.OpeningBalance,
		Balance:        a.Balance,
		AllowOverdraw:  a.AllowOverdraw,
		Active:         a.Active,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// LedgerCheckResponse reports whether an account's movement log agrees
// with its stored balance
type LedgerCheckResponse struct {
	AccountID       uuid.UUID       `json:"account_id"`
	OpeningBalance  decimal.Decimal `json:"opening_balance"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	ReplayedBalance decimal.Decimal `json:"replayed_balance"`
	Drift           decimal.Decimal `json:"drift"`
	Consistent      bool            `json:"consistent"`
	MovementsCount  int             `json:"movements_count"`
}

// MovementResponse represents a money movement in API responses
type MovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	AccountID     uuid.UUID       `json:"account_id"`
	Direction     string          `json:"direction"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	RefType       string          `json:"ref_type"`
	RefID         *uuid.UUID      `json:"ref_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Reconciled    bool            `json:"reconciled"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToMovementResponse converts a MoneyMovement to a MovementResponse
func ToMovementResponse(m *treasury.MoneyMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		AccountID:     m.AccountID,
		Direction:     string(m.Direction),
		Amount:        m.Amount,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		RefType:       string(m.RefType),
		RefID:         m.RefID,
		Notes:         m.Notes,
		Reconciled:    m.Reconciled,
		CreatedAt:     m.CreatedAt,
	}
}
