package inventory

import (
	"context"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockMovementRepository defines the interface for stock movement
// persistence. Movements are append-only; there is no update or delete.
type StockMovementRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)
	FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*StockMovement, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*StockMovement, error)
	FindByItemForOrg(ctx context.Context, itemID, orgID uuid.UUID, filter shared.Filter) ([]*StockMovement, error)
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, movement *StockMovement) error
}
