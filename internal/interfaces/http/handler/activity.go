package handler

import (
	auditapp "github.com/doaddy/backend/internal/application/audit"
	"github.com/gin-gonic/gin"
)

// ActivityHandler handles activity log API endpoints
type ActivityHandler struct {
	BaseHandler
	activityService *auditapp.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService *auditapp.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// List handles GET /activities
func (h *ActivityHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}

	var filter auditapp.ActivityListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	normalizePaging(&filter.Page, &filter.PageSize)
	activities, total, err := h.activityService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, activities, total, filter.Page, filter.PageSize)
}

// ListForAggregate handles GET /activities/:aggregateType/:id
func (h *ActivityHandler) ListForAggregate(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	aggregateType := c.Param("aggregateType")
	if aggregateType == "" {
		h.BadRequest(c, "Invalid aggregate type")
		return
	}
	aggregateID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid aggregate ID")
		return
	}

	var filter auditapp.ActivityListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	normalizePaging(&filter.Page, &filter.PageSize)
	activities, err := h.activityService.ListForAggregate(c.Request.Context(), orgID, aggregateType, aggregateID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, activities)
}
