package audit

import (
	"context"

	"github.com/doaddy/backend/internal/domain/audit"
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ActivityService exposes the audit trail for reading and lets other
// layers record entries directly
type ActivityService struct {
	logRepo audit.ActivityLogRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(logRepo audit.ActivityLogRepository) *ActivityService {
	return &ActivityService{
		logRepo: logRepo,
	}
}

// Record appends an entry to the audit trail
func (s *ActivityService) Record(ctx context.Context, orgID uuid.UUID, action, aggregateType string, aggregateID, actorID *uuid.UUID, details map[string]any) error {
	log, err := audit.NewActivityLog(orgID, action, aggregateType, aggregateID, actorID, details)
	if err != nil {
		return err
	}
	return s.logRepo.Save(ctx, log)
}

// List retrieves activity log entries with filtering and pagination
func (s *ActivityService) List(ctx context.Context, orgID uuid.UUID, filter ActivityListFilter) ([]ActivityResponse, int64, error) {
	domainFilter := buildActivityFilter(filter)

	logs, err := s.logRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.logRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ActivityResponse, len(logs))
	for i, l := range logs {
		responses[i] = ToActivityResponse(l)
	}

	return responses, total, nil
}

// ListForAggregate retrieves the audit trail of a single aggregate
func (s *ActivityService) ListForAggregate(ctx context.Context, orgID uuid.UUID, aggregateType string, aggregateID uuid.UUID, filter ActivityListFilter) ([]ActivityResponse, error) {
	domainFilter := buildActivityFilter(filter)

	logs, err := s.logRepo.FindByAggregateForOrg(ctx, aggregateType, aggregateID, orgID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]ActivityResponse, len(logs))
	for i, l := range logs {
		responses[i] = ToActivityResponse(l)
	}

	return responses, nil
}

func buildActivityFilter(filter ActivityListFilter) shared.Filter {
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
	if filter.Action != "" {
		domainFilter.Filters["action"] = filter.Action
	}
	if filter.AggregateType != "" {
		domainFilter.Filters["aggregate_type"] = filter.AggregateType
	}
	if filter.ActorID != nil {
		domainFilter.Filters["actor_id"] = *filter.ActorID
	}
	return domainFilter
}
