package payroll

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Statutory deduction rates
var (
	// TaxRate is the PAYE rate applied to gross pay
	TaxRate = decimal.NewFromFloat(0.25)
	// NapsaRate is the employee NAPSA contribution rate on gross pay
	NapsaRate = decimal.NewFromFloat(0.05)
)

// RunStatus represents the lifecycle status of a payroll run
type RunStatus string

const (
	RunStatusDraft     RunStatus = "DRAFT"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusPaid      RunStatus = "PAID"
	RunStatusCancelled RunStatus = "CANCELLED"
)

// IsValid checks if the status is valid
func (s RunStatus) IsValid() bool {
	switch s {
	case RunStatusDraft, RunStatusCompleted, RunStatusPaid, RunStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true when no further transitions are possible
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusPaid || s == RunStatusCancelled
}

// DeductionLine is one computed deduction within a run item
type DeductionLine struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// RunItem is one employee's pay within a run. Salary figures are
// snapshotted from the employee record when the item is added.
type RunItem struct {
	EmployeeID      uuid.UUID       `json:"employee_id"`
	EmployeeName    string          `json:"employee_name"`
	BasicSalary     decimal.Decimal `json:"basic_salary"`
	Allowances      AllowanceList   `json:"allowances"`
	GrossPay        decimal.Decimal `json:"gross_pay"`
	Tax             decimal.Decimal `json:"tax"`
	Napsa           decimal.Decimal `json:"napsa"`
	Deductions      []DeductionLine `json:"deductions"`
	OtherDeductions decimal.Decimal `json:"other_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`
}

// CalculateRunItem computes an employee's pay for a run. Tax, NAPSA and
// every deduction rule are levied individually and rounded to two
// decimal places, then net pay is rounded again so every stored figure
// is an exact amount in ngwee. Pay whose deductions exceed gross is
// rejected rather than recorded as a negative net.
func CalculateRunItem(employee *Employee) (RunItem, error) {
	gross := employee.GrossPay()
	tax := gross.Mul(TaxRate).Round(2)
	napsa := gross.Mul(NapsaRate).Round(2)

	lines := make([]DeductionLine, 0, len(employee.Deductions))
	other := decimal.Zero
	for _, rule := range employee.Deductions {
		amount := rule.AmountFor(gross)
		lines = append(lines, DeductionLine{Name: rule.Name, Amount: amount})
		other = other.Add(amount)
	}

	net := gross.Sub(tax).Sub(napsa).Sub(other).Round(2)
	if net.IsNegative() {
		return RunItem{}, shared.NewDomainError("NEGATIVE_NET",
			fmt.Sprintf("Deductions for %s exceed gross pay", employee.Name))
	}

	return RunItem{
		EmployeeID:      employee.ID,
		EmployeeName:    employee.Name,
		BasicSalary:     employee.BasicSalary,
		Allowances:      employee.Allowances,
		GrossPay:        gross,
		Tax:             tax,
		Napsa:           napsa,
		Deductions:      lines,
		OtherDeductions: other,
		NetPay:          net,
	}, nil
}

// RunItems is a slice of RunItem that implements GORM Scanner/Valuer for JSONB storage
type RunItems []RunItem

// Value implements driver.Valuer interface for GORM to store as JSONB
func (r RunItems) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (r *RunItems) Scan(value interface{}) error {
	if value == nil {
		*r = RunItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan RunItems: unsupported type")
	}

	return json.Unmarshal(bytes, r)
}

// Run is a payroll run for one calendar month. The run total is the
// sum of the already-rounded item net pays, so the total always equals
// what is actually paid out.
type Run struct {
	shared.OrgAggregateRoot
	Number     string          `gorm:"size:50;not null"`
	Year       int             `gorm:"not null"`
	Month      time.Month      `gorm:"not null"`
	Status     RunStatus       `gorm:"size:20;not null;default:'DRAFT'"`
	Items      RunItems        `gorm:"type:jsonb"`
	TotalGross decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalTax   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalNapsa decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalNet   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaidFromID *uuid.UUID      `gorm:"type:uuid"`
	PaidAt     *time.Time
}

// TableName returns the table name for GORM
func (Run) TableName() string {
	return "payroll_runs"
}

// NewRun creates a draft payroll run for the given period
func NewRun(orgID uuid.UUID, number string, year int, month time.Month) (*Run, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Run number cannot be empty")
	}
	if year < 2000 || year > 2100 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Year is out of range")
	}
	if month < time.January || month > time.December {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Month must be between 1 and 12")
	}

	run := &Run{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Number:           number,
		Year:             year,
		Month:            month,
		Status:           RunStatusDraft,
		Items:            RunItems{},
		TotalGross:       decimal.Zero,
		TotalTax:         decimal.Zero,
		TotalNapsa:       decimal.Zero,
		TotalNet:         decimal.Zero,
	}

	run.AddDomainEvent(NewRunCreatedEvent(run))

	return run, nil
}

// AddEmployee snapshots an employee's pay into the draft run
func (r *Run) AddEmployee(employee *Employee) error {
	if r.Status != RunStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft runs can be modified")
	}
	if !employee.Active {
		return shared.NewDomainError("EMPLOYEE_INACTIVE", "Cannot pay a terminated employee")
	}
	if employee.OrgID != r.OrgID {
		return shared.NewDomainError("INVALID_EMPLOYEE", "Employee belongs to a different organisation")
	}
	for _, item := range r.Items {
		if item.EmployeeID == employee.ID {
			return shared.NewDomainError("DUPLICATE_EMPLOYEE",
				fmt.Sprintf("Employee %s is already in this run", employee.Name))
		}
	}

	item, err := CalculateRunItem(employee)
	if err != nil {
		return err
	}
	r.Items = append(r.Items, item)
	r.recalculateTotals()
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// RemoveEmployee drops an employee from the draft run
func (r *Run) RemoveEmployee(employeeID uuid.UUID) error {
	if r.Status != RunStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft runs can be modified")
	}

	for idx, item := range r.Items {
		if item.EmployeeID == employeeID {
			r.Items = append(r.Items[:idx], r.Items[idx+1:]...)
			r.recalculateTotals()
			r.UpdatedAt = time.Now()
			r.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("EMPLOYEE_NOT_IN_RUN", "Employee is not part of this run")
}

func (r *Run) recalculateTotals() {
	gross, tax, napsa, net := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, item := range r.Items {
		gross = gross.Add(item.GrossPay)
		tax = tax.Add(item.Tax)
		napsa = napsa.Add(item.Napsa)
		net = net.Add(item.NetPay)
	}
	r.TotalGross = gross
	r.TotalTax = tax
	r.TotalNapsa = napsa
	r.TotalNet = net
}

// Complete locks the run for payment
func (r *Run) Complete() error {
	if r.Status != RunStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft runs can be completed")
	}
	if len(r.Items) == 0 {
		return shared.NewDomainError("EMPTY_RUN", "Cannot complete an empty run")
	}

	r.Status = RunStatusCompleted
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewRunCompletedEvent(r))

	return nil
}

// MarkPaid records that net pay was disbursed from the given account
func (r *Run) MarkPaid(accountID uuid.UUID, paidAt time.Time) error {
	if r.Status != RunStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Only completed runs can be paid")
	}

	r.Status = RunStatusPaid
	r.PaidFromID = &accountID
	r.PaidAt = &paidAt
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewRunPaidEvent(r))

	return nil
}

// Cancel voids a run that has not been paid
func (r *Run) Cancel() error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Run is already closed")
	}

	r.Status = RunStatusCancelled
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// GetTotalNetMoney returns the run's net payout as Money
func (r *Run) GetTotalNetMoney() valueobject.Money {
	return valueobject.NewMoneyZMW(r.TotalNet)
}
