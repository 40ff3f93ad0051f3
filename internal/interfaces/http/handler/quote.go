package handler

import (
	billingapp "github.com/doaddy/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
)

// QuoteHandler handles quote API endpoints
type QuoteHandler struct {
	BaseHandler
	quoteService *billingapp.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *billingapp.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// Create handles POST /quotes
func (h *QuoteHandler) Create(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}

	var req billingapp.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	quote, err := h.quoteService.Create(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, quote)
}

// Get handles GET /quotes/:id
func (h *QuoteHandler) Get(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	quoteID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}

	quote, err := h.quoteService.GetByID(c.Request.Context(), orgID, quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Send handles POST /quotes/:id/send
func (h *QuoteHandler) Send(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	quoteID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}

	quote, err := h.quoteService.Send(c.Request.Context(), orgID, quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Accept handles POST /quotes/:id/accept
func (h *QuoteHandler) Accept(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	quoteID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}

	quote, err := h.quoteService.Accept(c.Request.Context(), orgID, quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Reject handles POST /quotes/:id/reject
func (h *QuoteHandler) Reject(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	quoteID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}

	quote, err := h.quoteService.Reject(c.Request.Context(), orgID, quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Convert handles POST /quotes/:id/convert
func (h *QuoteHandler) Convert(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	quoteID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}

	var req billingapp.ConvertQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.quoteService.Convert(c.Request.Context(), orgID, quoteID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// List handles GET /quotes
func (h *QuoteHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}

	var filter billingapp.QuoteListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	normalizePaging(&filter.Page, &filter.PageSize)
	quotes, total, err := h.quoteService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, quotes, total, filter.Page, filter.PageSize)
}
