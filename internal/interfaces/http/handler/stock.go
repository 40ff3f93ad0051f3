package handler

import (
	inventoryapp "github.com/doaddy/backend/internal/application/inventory"
	"github.com/doaddy/backend/internal/domain/catalog"
	"github.com/gin-gonic/gin"
)

// StockHandler handles stock movement API endpoints
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
	itemRepo     catalog.ItemRepository
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService, itemRepo catalog.ItemRepository) *StockHandler {
	return &StockHandler{stockService: stockService, itemRepo: itemRepo}
}

// Receive handles POST /items/:id/stock/receive
func (h *StockHandler) Receive(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	itemID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req inventoryapp.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	movement, err := h.stockService.Receive(c.Request.Context(), orgID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// Adjust handles POST /items/:id/stock/adjust
func (h *StockHandler) Adjust(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	itemID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	movement, err := h.stockService.Adjust(c.Request.Context(), orgID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// ListForItem handles GET /items/:id/stock/movements
func (h *StockHandler) ListForItem(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	itemID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var filter inventoryapp.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	normalizePaging(&filter.Page, &filter.PageSize)
	movements, total, err := h.stockService.ListForItem(c.Request.Context(), orgID, itemID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// List handles GET /stock/movements
func (h *StockHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}

	var filter inventoryapp.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	normalizePaging(&filter.Page, &filter.PageSize)
	movements, total, err := h.stockService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// CheckLedger handles GET /items/:id/stock/ledger
func (h *StockHandler) CheckLedger(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	itemID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	result, err := h.stockService.CheckLedger(c.Request.Context(), orgID, itemID, h.itemRepo)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
