package payroll

import (
	"context"
	"time"

	"github.com/doaddy/backend/internal/domain/payroll"
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// EmployeeService handles employee business operations
type EmployeeService struct {
	employeeRepo   payroll.EmployeeRepository
	eventPublisher shared.EventPublisher
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employeeRepo payroll.EmployeeRepository) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *EmployeeService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds a new employee
func (s *EmployeeService) Create(ctx context.Context, orgID uuid.UUID, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	hireDate := time.Now()
	if req.HireDate != nil {
		hireDate = *req.HireDate
	}

	employee, err := payroll.NewEmployee(orgID, req.Name, req.Position,
		valueobject.NewMoneyZMW(req.BasicSalary), toAllowanceList(req.Allowances), hireDate)
	if err != nil {
		return nil, err
	}
	employee.NRCNumber = req.NRCNumber
	employee.NapsaNumber = req.NapsaNumber
	if len(req.Deductions) > 0 {
		if err := employee.SetDeductions(toDeductionRules(req.Deductions)); err != nil {
			return nil, err
		}
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, employee)

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// GetByID retrieves an employee by ID
func (s *EmployeeService) GetByID(ctx context.Context, orgID, employeeID uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByIDForOrg(ctx, employeeID, orgID)
	if err != nil {
		return nil, err
	}
	response := ToEmployeeResponse(employee)
	return &response, nil
}

// Update changes an employee's details. Compensation changes apply to
// future payroll runs only; existing runs keep their snapshots.
func (s *EmployeeService) Update(ctx context.Context, orgID, employeeID uuid.UUID, req UpdateEmployeeRequest) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByIDForOrg(ctx, employeeID, orgID)
	if err != nil {
		return nil, err
	}

	if req.Position != nil {
		employee.Position = *req.Position
	}
	if req.NRCNumber != nil {
		employee.NRCNumber = *req.NRCNumber
	}
	if req.NapsaNumber != nil {
		employee.NapsaNumber = *req.NapsaNumber
	}

	changed := false
	if req.BasicSalary != nil || req.Allowances != nil {
		basic := employee.BasicSalary
		if req.BasicSalary != nil {
			basic = *req.BasicSalary
		}
		allowances := employee.Allowances
		if req.Allowances != nil {
			allowances = toAllowanceList(*req.Allowances)
		}
		if err := employee.UpdateCompensation(valueobject.NewMoneyZMW(basic), allowances); err != nil {
			return nil, err
		}
		changed = true
	}
	if req.Deductions != nil {
		if err := employee.SetDeductions(toDeductionRules(*req.Deductions)); err != nil {
			return nil, err
		}
		changed = true
	}
	if !changed {
		employee.UpdatedAt = time.Now()
		employee.IncrementVersion()
	}

	if err := s.employeeRepo.SaveWithLock(ctx, employee); err != nil {
		return nil, err
	}

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// Terminate marks an employee as no longer on the payroll
func (s *EmployeeService) Terminate(ctx context.Context, orgID, employeeID uuid.UUID) error {
	employee, err := s.employeeRepo.FindByIDForOrg(ctx, employeeID, orgID)
	if err != nil {
		return err
	}

	employee.Terminate()

	return s.employeeRepo.SaveWithLock(ctx, employee)
}

// List retrieves employees with filtering and pagination
func (s *EmployeeService) List(ctx context.Context, orgID uuid.UUID, filter EmployeeListFilter) ([]EmployeeResponse, int64, error) {
	domainFilter := buildEmployeeFilter(filter)

	employees, err := s.employeeRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.employeeRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		responses[i] = ToEmployeeResponse(e)
	}

	return responses, total, nil
}

func buildEmployeeFilter(filter EmployeeListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}
	return domainFilter
}

func (s *EmployeeService) publishEvents(ctx context.Context, employee *payroll.Employee) {
	if s.eventPublisher == nil || employee == nil {
		return
	}
	events := employee.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	employee.ClearDomainEvents()
}
