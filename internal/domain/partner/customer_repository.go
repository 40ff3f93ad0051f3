package partner

import (
	"context"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines persistence for customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Customer, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Customer, error)
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, customer *Customer) error
	DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error
}
