package payroll

import (
	"time"

	"github.com/doaddy/backend/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllowanceRequest represents one named allowance in an employee request
type AllowanceRequest struct {
	Name   string          `json:"name" binding:"required,min=1,max=100"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// DeductionRuleRequest represents one recurring deduction rule in an
// employee request. Percentage rules carry a fraction of gross pay in
// Rate; flat rules carry Amount.
type DeductionRuleRequest struct {
	Name   string          `json:"name" binding:"required,min=1,max=100"`
	Kind   string          `json:"kind" binding:"required,oneof=PERCENTAGE FLAT"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateEmployeeRequest represents a request to add an employee
type CreateEmployeeRequest struct {
	Name        string                 `json:"name" binding:"required,min=1,max=200"`
	Position    string                 `json:"position" binding:"omitempty,max=100"`
	NRCNumber   string                 `json:"nrc_number" binding:"omitempty,max=30"`
	NapsaNumber string                 `json:"napsa_number" binding:"omitempty,max=30"`
	BasicSalary decimal.Decimal        `json:"basic_salary" binding:"required"`
	Allowances  []AllowanceRequest     `json:"allowances" binding:"omitempty,dive"`
	Deductions  []DeductionRuleRequest `json:"deductions" binding:"omitempty,dive"`
	HireDate    *time.Time             `json:"hire_date"`
}

// UpdateEmployeeRequest represents a request to update an employee
type UpdateEmployeeRequest struct {
	Position    *string                 `json:"position" binding:"omitempty,max=100"`
	NRCNumber   *string                 `json:"nrc_number" binding:"omitempty,max=30"`
	NapsaNumber *string                 `json:"napsa_number" binding:"omitempty,max=30"`
	BasicSalary *decimal.Decimal        `json:"basic_salary"`
	Allowances  *[]AllowanceRequest     `json:"allowances" binding:"omitempty,dive"`
	Deductions  *[]DeductionRuleRequest `json:"deductions" binding:"omitempty,dive"`
}

func toAllowanceList(reqs []AllowanceRequest) payroll.AllowanceList {
	allowances := make(payroll.AllowanceList, len(reqs))
	for i, req := range reqs {
		allowances[i] = payroll.Allowance{Name: req.Name, Amount: req.Amount}
	}
	return allowances
}

func toDeductionRules(reqs []DeductionRuleRequest) payroll.DeductionRules {
	rules := make(payroll.DeductionRules, len(reqs))
	for i, req := range reqs {
		rules[i] = payroll.DeductionRule{
			Name:   req.Name,
			Kind:   payroll.DeductionKind(req.Kind),
			Rate:   req.Rate,
			Amount: req.Amount,
		}
	}
	return rules
}

// EmployeeListFilter represents filtering options for employee lists
type EmployeeListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Active   *bool  `form:"active"`
	Search   string `form:"search"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// EmployeeResponse represents an employee in API responses
type EmployeeResponse struct {
	ID              uuid.UUID              `json:"id"`
	Name            string                 `json:"name"`
	Position        string                 `json:"position"`
	NRCNumber       string                 `json:"nrc_number"`
	NapsaNumber     string                 `json:"napsa_number"`
	BasicSalary     decimal.Decimal        `json:"basic_salary"`
	Allowances      payroll.AllowanceList  `json:"allowances"`
	TotalAllowances decimal.Decimal        `json:"total_allowances"`
	Deductions      payroll.DeductionRules `json:"deductions"`
	GrossPay        decimal.Decimal        `json:"gross_pay"`
	HireDate        time.Time              `json:"hire_date"`
	Active          bool                   `json:"active"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// ToEmployeeResponse converts an Employee aggregate to an EmployeeResponse
func ToEmployeeResponse(e *payroll.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:              e.ID,
		Name:            e.Name,
		Position:        e.Position,
		NRCNumber:       e.NRCNumber,
		NapsaNumber:     e.NapsaNumber,
		BasicSalary:     e.BasicSalary,
		Allowances:      e.Allowances,
		TotalAllowances: e.Allowances.Total(),
		Deductions:      e.Deductions,
		GrossPay:        e.GrossPay(),
		HireDate:        e.HireDate,
		Active:          e.Active,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// CreateRunRequest represents a request to start a payroll run. When
// IncludeAll is set, every active employee is added to the draft.
type CreateRunRequest struct {
	Year       int  `json:"year" binding:"required"`
	Month      int  `json:"month" binding:"required,min=1,max=12"`
	IncludeAll bool `json:"include_all"`
}

// AddRunEmployeeRequest represents a request to add an employee to a draft run
type AddRunEmployeeRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
}

// PayRunRequest represents a request to disburse a completed run
type PayRunRequest struct {
	AccountID uuid.UUID `json:"account_id" binding:"required"`
}

// RunListFilter represents filtering options for payroll run lists
type RunListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status"`
	Year     int    `form:"year"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// RunItemResponse represents one employee's line in a payroll run
type RunItemResponse struct {
	EmployeeID      uuid.UUID               `json:"employee_id"`
	EmployeeName    string                  `json:"employee_name"`
	BasicSalary     decimal.Decimal         `json:"basic_salary"`
	Allowances      payroll.AllowanceList   `json:"allowances"`
	GrossPay        decimal.Decimal         `json:"gross_pay"`
	Tax             decimal.Decimal         `json:"tax"`
	Napsa           decimal.Decimal         `json:"napsa"`
	Deductions      []payroll.DeductionLine `json:"deductions"`
	OtherDeductions decimal.Decimal         `json:"other_deductions"`
	NetPay          decimal.Decimal         `json:"net_pay"`
}

// RunResponse represents a payroll run in API responses
type RunResponse struct {
	ID         uuid.UUID         `json:"id"`
	Number     string            `json:"number"`
	Year       int               `json:"year"`
	Month      int               `json:"month"`
	Status     string            `json:"status"`
	Items      []RunItemResponse `json:"items"`
	TotalGross decimal.Decimal   `json:"total_gross"`
	TotalTax   decimal.Decimal   `json:"total_tax"`
	TotalNapsa decimal.Decimal   `json:"total_napsa"`
	TotalNet   decimal.Decimal   `json:"total_net"`
	PaidFromID *uuid.UUID        `json:"paid_from_id,omitempty"`
	PaidAt     *time.Time        `json:"paid_at,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// ToRunResponse converts a Run aggregate to a RunResponse
func ToRunResponse(r *payroll.Run) RunResponse {
	items := make([]RunItemResponse, len(r.Items))
	for i, item := range r.Items {
		items[i] = RunItemResponse{
			EmployeeID:      item.EmployeeID,
			EmployeeName:    item.EmployeeName,
			BasicSalary:     item.BasicSalary,
			Allowances:      item.Allowances,
			GrossPay:        item.GrossPay,
			Tax:             item.Tax,
			Napsa:           item.Napsa,
			Deductions:      item.Deductions,
			OtherDeductions: item.OtherDeductions,
			NetPay:          item.NetPay,
		}
	}

	return RunResponse{
		ID:         r.ID,
		Number:     r.Number,
		Year:       r.Year,
		Month:      int(r.Month),
		Status:     string(r.Status),
		Items:      items,
		TotalGross: r.TotalGross,
		TotalTax:   r.TotalTax,
		TotalNapsa: r.TotalNapsa,
		TotalNet:   r.TotalNet,
		PaidFromID: r.PaidFromID,
		PaidAt:     r.PaidAt,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
