package handler

import (
	payrollapp "github.com/doaddy/backend/internal/application/payroll"
	"github.com/gin-gonic/gin"
)

// EmployeeHandler handles employee API endpoints
type EmployeeHandler struct {
	BaseHandler
	employeeService *payrollapp.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employeeService *payrollapp.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// Create handles POST /employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}

	var req payrollapp.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, employee)
}

// Get handles GET /employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	employeeID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	employee, err := h.employeeService.GetByID(c.Request.Context(), orgID, employeeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// Update handles PUT /employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	employeeID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	var req payrollapp.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), orgID, employeeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// Terminate handles DELETE /employees/:id
func (h *EmployeeHandler) Terminate(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}
	employeeID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	if err := h.employeeService.Terminate(c.Request.Context(), orgID, employeeID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List handles GET /employees
func (h *EmployeeHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization context")
		return
	}

	var filter payrollapp.EmployeeListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	normalizePaging(&filter.Page, &filter.PageSize)
	employees, total, err := h.employeeService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, employees, total, filter.Page, filter.PageSize)
}
