package payroll

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Allowance is a named amount paid on top of the basic salary each month
type Allowance struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// AllowanceList is a slice of Allowance that implements GORM Scanner/Valuer for JSONB storage
type AllowanceList []Allowance

// Value implements driver.Valuer interface for GORM to store as JSONB
func (a AllowanceList) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (a *AllowanceList) Scan(value interface{}) error {
	if value == nil {
		*a = AllowanceList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan AllowanceList: unsupported type")
	}

	return json.Unmarshal(bytes, a)
}

// Total sums the allowance amounts
func (a AllowanceList) Total() decimal.Decimal {
	total := decimal.Zero
	for _, allowance := range a {
		total = total.Add(allowance.Amount)
	}
	return total
}

func (a AllowanceList) validate() error {
	for _, allowance := range a {
		if strings.TrimSpace(allowance.Name) == "" {
			return shared.NewDomainError("INVALID_ALLOWANCE", "Allowance name cannot be empty")
		}
		if allowance.Amount.IsNegative() {
			return shared.NewDomainError("INVALID_ALLOWANCE", "Allowance amount cannot be negative")
		}
	}
	return nil
}

// DeductionKind distinguishes how a deduction rule is computed
type DeductionKind string

const (
	// DeductionKindPercentage deducts a fraction of gross pay
	DeductionKindPercentage DeductionKind = "PERCENTAGE"
	// DeductionKindFlat deducts a fixed amount, e.g. a loan repayment
	DeductionKindFlat DeductionKind = "FLAT"
)

// DeductionRule is a recurring deduction applied to an employee's pay on
// top of the statutory tax and NAPSA contributions. Percentage rules
// carry a fraction of gross pay in Rate; flat rules carry Amount.
type DeductionRule struct {
	Name   string          `json:"name"`
	Kind   DeductionKind   `json:"kind"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// AmountFor computes the deduction against a gross pay, rounded to two
// decimal places.
func (d DeductionRule) AmountFor(gross decimal.Decimal) decimal.Decimal {
	if d.Kind == DeductionKindPercentage {
		return gross.Mul(d.Rate).Round(2)
	}
	return d.Amount.Round(2)
}

// DeductionRules is a slice of DeductionRule that implements GORM Scanner/Valuer for JSONB storage
type DeductionRules []DeductionRule

// Value implements driver.Valuer interface for GORM to store as JSONB
func (d DeductionRules) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (d *DeductionRules) Scan(value interface{}) error {
	if value == nil {
		*d = DeductionRules{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan DeductionRules: unsupported type")
	}

	return json.Unmarshal(bytes, d)
}

func (d DeductionRules) validate() error {
	for _, rule := range d {
		if strings.TrimSpace(rule.Name) == "" {
			return shared.NewDomainError("INVALID_DEDUCTION", "Deduction name cannot be empty")
		}
		switch rule.Kind {
		case DeductionKindPercentage:
			if !rule.Rate.IsPositive() || rule.Rate.GreaterThan(decimal.NewFromInt(1)) {
				return shared.NewDomainError("INVALID_DEDUCTION", "Percentage deduction rate must be between 0 and 1")
			}
		case DeductionKindFlat:
			if !rule.Amount.IsPositive() {
				return shared.NewDomainError("INVALID_DEDUCTION", "Flat deduction amount must be positive")
			}
		default:
			return shared.NewDomainError("INVALID_DEDUCTION", "Deduction kind must be PERCENTAGE or FLAT")
		}
	}
	return nil
}

// Employee is a staff member on the payroll. Basic salary, allowances
// and deduction rules feed payroll runs; each run snapshots the
// computed figures, so editing an employee never changes a completed
// run.
type Employee struct {
	shared.OrgAggregateRoot
	Name        string          `gorm:"size:200;not null"`
	Position    string          `gorm:"size:100"`
	NRCNumber   string          `gorm:"size:30"`
	NapsaNumber string          `gorm:"size:30"`
	BasicSalary decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Allowances  AllowanceList   `gorm:"type:jsonb"`
	Deductions  DeductionRules  `gorm:"type:jsonb"`
	HireDate    time.Time
	Active      bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Employee) TableName() string {
	return "employees"
}

// NewEmployee creates a new employee
func NewEmployee(orgID uuid.UUID, name, position string, basicSalary valueobject.Money, allowances AllowanceList, hireDate time.Time) (*Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Employee name cannot be empty")
	}
	if !basicSalary.IsPositive() {
		return nil, shared.NewDomainError("INVALID_SALARY", "Basic salary must be positive")
	}
	if err := allowances.validate(); err != nil {
		return nil, err
	}
	if allowances == nil {
		allowances = AllowanceList{}
	}

	employee := &Employee{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Name:             name,
		Position:         position,
		BasicSalary:      basicSalary.Amount(),
		Allowances:       allowances,
		Deductions:       DeductionRules{},
		HireDate:         hireDate,
		Active:           true,
	}

	employee.AddDomainEvent(NewEmployeeHiredEvent(employee))

	return employee, nil
}

// UpdateCompensation changes the salary and allowances going forward
func (e *Employee) UpdateCompensation(basicSalary valueobject.Money, allowances AllowanceList) error {
	if !basicSalary.IsPositive() {
		return shared.NewDomainError("INVALID_SALARY", "Basic salary must be positive")
	}
	if err := allowances.validate(); err != nil {
		return err
	}
	if allowances == nil {
		allowances = AllowanceList{}
	}

	e.BasicSalary = basicSalary.Amount()
	e.Allowances = allowances
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// SetDeductions replaces the employee's deduction rules going forward
func (e *Employee) SetDeductions(rules DeductionRules) error {
	if err := rules.validate(); err != nil {
		return err
	}
	if rules == nil {
		rules = DeductionRules{}
	}

	e.Deductions = rules
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// Terminate removes the employee from future payroll runs
func (e *Employee) Terminate() {
	e.Active = false
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// GrossPay returns basic salary plus all allowances
func (e *Employee) GrossPay() decimal.Decimal {
	return e.BasicSalary.Add(e.Allowances.Total())
}
