package payroll

import (
	"time"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate types
const (
	AggregateTypeEmployee   = "Employee"
	AggregateTypePayrollRun = "PayrollRun"
)

// Event types
const (
	EventTypeEmployeeHired = "employee.hired"
	EventTypeRunCreated    = "payroll_run.created"
	EventTypeRunCompleted  = "payroll_run.completed"
	EventTypeRunPaid       = "payroll_run.paid"
)

// EmployeeHiredEvent is published when an employee is added
type EmployeeHiredEvent struct {
	shared.BaseDomainEvent
	Name     string `json:"name"`
	Position string `json:"position"`
}

// NewEmployeeHiredEvent creates a new EmployeeHiredEvent
func NewEmployeeHiredEvent(employee *Employee) *EmployeeHiredEvent {
	return &EmployeeHiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEmployeeHired, AggregateTypeEmployee, employee.ID, employee.OrgID),
		Name:            employee.Name,
		Position:        employee.Position,
	}
}

// EventType returns the event type
func (e *EmployeeHiredEvent) EventType() string {
	return EventTypeEmployeeHired
}

// RunCreatedEvent is published when a payroll run is opened
type RunCreatedEvent struct {
	shared.BaseDomainEvent
	Number string     `json:"number"`
	Year   int        `json:"year"`
	Month  time.Month `json:"month"`
}

// NewRunCreatedEvent creates a new RunCreatedEvent
func NewRunCreatedEvent(run *Run) *RunCreatedEvent {
	return &RunCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRunCreated, AggregateTypePayrollRun, run.ID, run.OrgID),
		Number:          run.Number,
		Year:            run.Year,
		Month:           run.Month,
	}
}

// EventType returns the event type
func (e *RunCreatedEvent) EventType() string {
	return EventTypeRunCreated
}

// RunCompletedEvent is published when a payroll run is locked for payment
type RunCompletedEvent struct {
	shared.BaseDomainEvent
	Number        string          `json:"number"`
	EmployeeCount int             `json:"employee_count"`
	TotalNet      decimal.Decimal `json:"total_net"`
}

// NewRunCompletedEvent creates a new RunCompletedEvent
func NewRunCompletedEvent(run *Run) *RunCompletedEvent {
	return &RunCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRunCompleted, AggregateTypePayrollRun, run.ID, run.OrgID),
		Number:          run.Number,
		EmployeeCount:   len(run.Items),
		TotalNet:        run.TotalNet,
	}
}

// EventType returns the event type
func (e *RunCompletedEvent) EventType() string {
	return EventTypeRunCompleted
}

// RunPaidEvent is published when net pay is disbursed
type RunPaidEvent struct {
	shared.BaseDomainEvent
	Number   string          `json:"number"`
	TotalNet decimal.Decimal `json:"total_net"`
}

// NewRunPaidEvent creates a new RunPaidEvent
func NewRunPaidEvent(run *Run) *RunPaidEvent {
	return &RunPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRunPaid, AggregateTypePayrollRun, run.ID, run.OrgID),
		Number:          run.Number,
		TotalNet:        run.TotalNet,
	}
}

// EventType returns the event type
func (e *RunPaidEvent) EventType() string {
	return EventTypeRunPaid
}
