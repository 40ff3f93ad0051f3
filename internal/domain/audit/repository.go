package audit

import (
	"context"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ActivityLogRepository defines the interface for activity log
// persistence. Logs are append-only.
type ActivityLogRepository interface {
	FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*ActivityLog, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*ActivityLog, error)
	FindByAggregateForOrg(ctx context.Context, aggregateType string, aggregateID, orgID uuid.UUID, filter shared.Filter) ([]*ActivityLog, error)
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, log *ActivityLog) error
}
