package payroll

import (
	"context"
	"time"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EmployeeRepository defines the interface for employee persistence
type EmployeeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*Employee, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*Employee, error)
	FindActiveForOrg(ctx context.Context, orgID uuid.UUID) ([]*Employee, error)
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, employee *Employee) error
	SaveWithLock(ctx context.Context, employee *Employee) error
}

// RunRepository defines the interface for payroll run persistence
type RunRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Run, error)
	FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*Run, error)
	FindByPeriodForOrg(ctx context.Context, orgID uuid.UUID, year int, month time.Month) (*Run, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*Run, error)
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, run *Run) error
	SaveWithLock(ctx context.Context, run *Run) error
	GenerateRunNumber(ctx context.Context, orgID uuid.UUID) (string, error)
}
