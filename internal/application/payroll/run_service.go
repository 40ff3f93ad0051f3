package payroll

import (
	"context"
	"time"

	"github.com/doaddy/backend/internal/domain/payroll"
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/domain/treasury"
	"github.com/google/uuid"
)

// RunService handles payroll run business operations
type RunService struct {
	runRepo        payroll.RunRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewRunService creates a new RunService
func NewRunService(runRepo payroll.RunRepository, txScope TransactionScope) *RunService {
	return &RunService{
		runRepo: runRepo,
		txScope: txScope,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *RunService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create starts a draft payroll run for a period. Only one run may
// exist per organisation per month. With IncludeAll set, all active
// employees are snapshotted into the draft straight away.
func (s *RunService) Create(ctx context.Context, orgID uuid.UUID, req CreateRunRequest) (*RunResponse, error) {
	var run *payroll.Run

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if existing, err := repos.RunRepo().FindByPeriodForOrg(ctx, orgID, req.Year, time.Month(req.Month)); err == nil && existing != nil {
			return shared.NewDomainError("DUPLICATE_PERIOD", "A payroll run already exists for this period")
		}

		number, err := repos.RunRepo().GenerateRunNumber(ctx, orgID)
		if err != nil {
			return err
		}

		run, err = payroll.NewRun(orgID, number, req.Year, time.Month(req.Month))
		if err != nil {
			return err
		}

		if req.IncludeAll {
			employees, err := repos.EmployeeRepo().FindActiveForOrg(ctx, orgID)
			if err != nil {
				return err
			}
			for _, employee := range employees {
				if err := run.AddEmployee(employee); err != nil {
					return err
				}
			}
		}

		return repos.RunRepo().Save(ctx, run)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, run)

	response := ToRunResponse(run)
	return &response, nil
}

// AddEmployee snapshots an employee's current pay into a draft run
func (s *RunService) AddEmployee(ctx context.Context, orgID, runID uuid.UUID, req AddRunEmployeeRequest) (*RunResponse, error) {
	var run *payroll.Run

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		run, err = repos.RunRepo().FindByIDForOrg(ctx, runID, orgID)
		if err != nil {
			return err
		}

		employee, err := repos.EmployeeRepo().FindByIDForOrg(ctx, req.EmployeeID, orgID)
		if err != nil {
			return err
		}

		if err := run.AddEmployee(employee); err != nil {
			return err
		}

		return repos.RunRepo().SaveWithLock(ctx, run)
	})
	if err != nil {
		return nil, err
	}

	response := ToRunResponse(run)
	return &response, nil
}

// RemoveEmployee drops an employee from a draft run
func (s *RunService) RemoveEmployee(ctx context.Context, orgID, runID, employeeID uuid.UUID) (*RunResponse, error) {
	run, err := s.runRepo.FindByIDForOrg(ctx, runID, orgID)
	if err != nil {
		return nil, err
	}

	if err := run.RemoveEmployee(employeeID); err != nil {
		return nil, err
	}

	if err := s.runRepo.SaveWithLock(ctx, run); err != nil {
		return nil, err
	}

	response := ToRunResponse(run)
	return &response, nil
}

// Complete locks a draft run so it can be paid
func (s *RunService) Complete(ctx context.Context, orgID, runID uuid.UUID) (*RunResponse, error) {
	run, err := s.runRepo.FindByIDForOrg(ctx, runID, orgID)
	if err != nil {
		return nil, err
	}

	if err := run.Complete(); err != nil {
		return nil, err
	}

	if err := s.runRepo.SaveWithLock(ctx, run); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, run)

	response := ToRunResponse(run)
	return &response, nil
}

// Pay disburses a completed run from a money account. The withdrawal
// and the run's paid status move in one transaction.
func (s *RunService) Pay(ctx context.Context, orgID, runID uuid.UUID, req PayRunRequest) (*RunResponse, error) {
	var run *payroll.Run

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		run, err = repos.RunRepo().FindByIDForOrg(ctx, runID, orgID)
		if err != nil {
			return err
		}

		account, err := repos.AccountRepo().FindByIDForOrg(ctx, req.AccountID, orgID)
		if err != nil {
			return err
		}

		movement, err := account.Withdraw(run.GetTotalNetMoney(), treasury.ReferenceTypePayroll, &run.ID, run.Number)
		if err != nil {
			return err
		}

		if err := run.MarkPaid(account.ID, time.Now()); err != nil {
			return err
		}

		if err := repos.AccountRepo().SaveWithLock(ctx, account); err != nil {
			return err
		}
		if err := repos.MoneyMovementRepo().Save(ctx, movement); err != nil {
			return err
		}

		return repos.RunRepo().SaveWithLock(ctx, run)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, run)

	response := ToRunResponse(run)
	return &response, nil
}

// Cancel voids a run that has not been paid
func (s *RunService) Cancel(ctx context.Context, orgID, runID uuid.UUID) (*RunResponse, error) {
	run, err := s.runRepo.FindByIDForOrg(ctx, runID, orgID)
	if err != nil {
		return nil, err
	}

	if err := run.Cancel(); err != nil {
		return nil, err
	}

	if err := s.runRepo.SaveWithLock(ctx, run); err != nil {
		return nil, err
	}

	response := ToRunResponse(run)
	return &response, nil
}

// GetByID retrieves a payroll run by ID
func (s *RunService) GetByID(ctx context.Context, orgID, runID uuid.UUID) (*RunResponse, error) {
	run, err := s.runRepo.FindByIDForOrg(ctx, runID, orgID)
	if err != nil {
		return nil, err
	}
	response := ToRunResponse(run)
	return &response, nil
}

// List retrieves payroll runs with filtering and pagination
func (s *RunService) List(ctx context.Context, orgID uuid.UUID, filter RunListFilter) ([]RunResponse, int64, error) {
	domainFilter := buildRunFilter(filter)

	runs, err := s.runRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.runRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]RunResponse, len(runs))
	for i, r := range runs {
		responses[i] = ToRunResponse(r)
	}

	return responses, total, nil
}

func buildRunFilter(filter RunListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Year != 0 {
		domainFilter.Filters["year"] = filter.Year
	}
	return domainFilter
}

func (s *RunService) publishEvents(ctx context.Context, run *payroll.Run) {
	if s.eventPublisher == nil || run == nil {
		return
	}
	events := run.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	run.ClearDomainEvents()
}
