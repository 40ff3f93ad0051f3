package billing

import (
	"context"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*Invoice, error)
	FindByNumberForOrg(ctx context.Context, number string, orgID uuid.UUID) (*Invoice, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*Invoice, error)
	FindByCustomerForOrg(ctx context.Context, customerID, orgID uuid.UUID, filter shared.Filter) ([]*Invoice, error)
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, invoice *Invoice) error
	SaveWithLock(ctx context.Context, invoice *Invoice) error
	GenerateInvoiceNumber(ctx context.Context, orgID uuid.UUID) (string, error)
}

// QuoteRepository defines the interface for quote persistence
type QuoteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Quote, error)
	FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*Quote, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*Quote, error)
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, quote *Quote) error
	SaveWithLock(ctx context.Context, quote *Quote) error
	GenerateQuoteNumber(ctx context.Context, orgID uuid.UUID) (string, error)
}
