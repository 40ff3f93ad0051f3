package handler

import (
	payrollapp "github.com/doaddy/backend/internal/application/payroll"
	"github.com/gin-gonic/gin"
)

// PayrollRunHandler handles payroll run API endpoints
type PayrollRunHandler struct {
	BaseHandler
	runService *payrollapp.RunService
}

// NewPayrollRunHandler creates a new PayrollRunHandler
func NewPayrollRunHandler(runService *payrollapp.RunService) *PayrollRunHandler {
	return &PayrollRunHandler{runService: runService}
}

// Create handles POST /payroll-runs
func (h *PayrollRunHandler) Create(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}

	var req payrollapp.CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	run, err := h.runService.Create(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, run)
}

// AddEmployee handles POST /payroll-runs/:id/employees
func (h *PayrollRunHandler) AddEmployee(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	runID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payroll run ID")
		return
	}

	var req payrollapp.AddRunEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	run, err := h.runService.AddEmployee(c.Request.Context(), orgID, runID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, run)
}

// RemoveEmployee handles DELETE /payroll-runs/:id/employees/:employeeId
func (h *PayrollRunHandler) RemoveEmployee(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	runID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payroll run ID")
		return
	}
	employeeID, err := parseUUIDParam(c, "employeeId")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	run, err := h.runService.RemoveEmployee(c.Request.Context(), orgID, runID, employeeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, run)
}

// Complete handles POST /payroll-runs/:id/complete
func (h *PayrollRunHandler) Complete(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	runID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payroll run ID")
		return
	}

	run, err := h.runService.Complete(c.Request.Context(), orgID, runID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, run)
}

// Pay handles POST /payroll-runs/:id/pay
func (h *PayrollRunHandler) Pay(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	runID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payroll run ID")
		return
	}

	var req payrollapp.PayRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	run, err := h.runService.Pay(c.Request.Context(), orgID, runID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, run)
}

// Cancel handles POST /payroll-runs/:id/cancel
func (h *PayrollRunHandler) Cancel(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	runID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payroll run ID")
		return
	}

	run, err := h.runService.Cancel(c.Request.Context(), orgID, runID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, run)
}

// Get handles GET /payroll-runs/:id
func (h *PayrollRunHandler) Get(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	runID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payroll run ID")
		return
	}

	run, err := h.runService.GetByID(c.Request.Context(), orgID, runID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, run)
}

// List handles GET /payroll-runs
func (h *PayrollRunHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}

	var filter payrollapp.RunListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	normalizePaging(&filter.Page, &filter.PageSize)
	runs, total, err := h.runService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, runs, total, filter.Page, filter.PageSize)
}
