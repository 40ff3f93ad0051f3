package handler

import (
	treasuryapp "github.com/doaddy/backend/internal/application/treasury"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles money account API endpoints
type AccountHandler struct {
	BaseHandler
	accountService *treasuryapp.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *treasuryapp.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Create handles POST /accounts
func (h *AccountHandler) Create(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}

	var req treasuryapp.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	account, err := h.accountService.Create(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// Get handles GET /accounts/:id
func (h *AccountHandler) Get(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	accountID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	account, err := h.accountService.GetByID(c.Request.Context(), orgID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Deposit handles POST /accounts/:id/deposit
func (h *AccountHandler) Deposit(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	accountID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req treasuryapp.PostMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	movement, err := h.accountService.Deposit(c.Request.Context(), orgID, accountID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// Withdraw handles POST /accounts/:id/withdraw
func (h *AccountHandler) Withdraw(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	accountID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req treasuryapp.PostMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	movement, err := h.accountService.Withdraw(c.Request.Context(), orgID, accountID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// Reconcile handles POST /movements/:id/reconcile
func (h *AccountHandler) Reconcile(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	movementID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid movement ID")
		return
	}

	if err := h.accountService.Reconcile(c.Request.Context(), orgID, movementID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Deactivate handles DELETE /accounts/:id
func (h *AccountHandler) Deactivate(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	accountID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.accountService.Deactivate(c.Request.Context(), orgID, accountID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List handles GET /accounts
func (h *AccountHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}

	var filter treasuryapp.AccountListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	normalizePaging(&filter.Page, &filter.PageSize)
	accounts, total, err := h.accountService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, accounts, total, filter.Page, filter.PageSize)
}

// ListMovements handles GET /accounts/:id/movements
func (h *AccountHandler) ListMovements(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	accountID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var filter treasuryapp.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	normalizePaging(&filter.Page, &filter.PageSize)
	movements, total, err := h.accountService.ListMovements(c.Request.Context(), orgID, accountID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// CheckLedger handles GET /accounts/:id/ledger
func (h *AccountHandler) CheckLedger(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	accountID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	result, err := h.accountService.CheckLedger(c.Request.Context(), orgID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
