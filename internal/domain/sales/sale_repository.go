package sales

import (
	"context"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*Sale, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*Sale, error)
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, sale *Sale) error
	SaveWithLock(ctx context.Context, sale *Sale) error
	GenerateSaleNumber(ctx context.Context, orgID uuid.UUID) (string, error)
}
