package finance

import (
	"context"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*Payment, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*Payment, error)
	FindByCustomerForOrg(ctx context.Context, customerID, orgID uuid.UUID, filter shared.Filter) ([]*Payment, error)
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, payment *Payment) error
	SaveWithLock(ctx context.Context, payment *Payment) error
	GeneratePaymentNumber(ctx context.Context, orgID uuid.UUID) (string, error)
}
