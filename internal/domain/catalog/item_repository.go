package catalog

import (
	"context"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ItemRepository defines the interface for catalog item persistence
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*Item, error)
	FindBySKUForOrg(ctx context.Context, sku string, orgID uuid.UUID) (*Item, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*Item, error)
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, item *Item) error
	SaveWithLock(ctx context.Context, item *Item) error
	DeleteForOrg(ctx context.Context, id, orgID uuid.UUID) error
}
