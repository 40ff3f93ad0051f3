package treasury

import (
	"context"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MoneyAccountRepository defines the interface for money account persistence
type MoneyAccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MoneyAccount, error)
	FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*MoneyAccount, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*MoneyAccount, error)
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, account *MoneyAccount) error
	SaveWithLock(ctx context.Context, account *MoneyAccount) error
}

// MoneyMovementRepository defines the interface for money movement
// persistence. Movements are append-only.
type MoneyMovementRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MoneyMovement, error)
	FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*MoneyMovement, error)
	FindByAccountForOrg(ctx context.Context, accountID, orgID uuid.UUID, filter shared.Filter) ([]*MoneyMovement, error)
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, movement *MoneyMovement) error
	MarkReconciled(ctx context.Context, id, orgID uuid.UUID) error
}
