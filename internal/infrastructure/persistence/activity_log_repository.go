package persistence

import (
	"context"
	"errors"

	"github.com/doaddy/backend/internal/domain/audit"
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormActivityLogRepository implements audit.ActivityLogRepository using
// GORM. The audit trail is append-only.
type GormActivityLogRepository struct {
	db *gorm.DB
}

// NewGormActivityLogRepository creates a new GormActivityLogRepository
func NewGormActivityLogRepository(db *gorm.DB) *GormActivityLogRepository {
	return &GormActivityLogRepository{db: db}
}

// FindByIDForOrg finds an activity log entry by ID within an organization
func (r *GormActivityLogRepository) FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*audit.ActivityLog, error) {
	var entry audit.ActivityLog
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindAllForOrg finds all activity log entries within an organization matching the filter
func (r *GormActivityLogRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*audit.ActivityLog, error) {
	var entries []*audit.ActivityLog
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&audit.ActivityLog{}).Where("org_id = ?", orgID),
		filter,
	)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByAggregateForOrg finds activity log entries for a single aggregate
func (r *GormActivityLogRepository) FindByAggregateForOrg(ctx context.Context, aggregateType string, aggregateID, orgID uuid.UUID, filter shared.Filter) ([]*audit.ActivityLog, error) {
	var entries []*audit.ActivityLog
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&audit.ActivityLog{}).
			Where("org_id = ? AND aggregate_type = ? AND aggregate_id = ?", orgID, aggregateType, aggregateID),
		filter,
	)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CountForOrg counts activity log entries within an organization matching the filter
func (r *GormActivityLogRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&audit.ActivityLog{}).Where("org_id = ?", orgID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists an activity log entry. The trail is append-only.
func (r *GormActivityLogRepository) Save(ctx context.Context, entry *audit.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// applyFilter applies filter options including pagination
func (r *GormActivityLogRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ActivityLogSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormActivityLogRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "action":
			query = query.Where("action = ?", value)
		case "aggregate_type":
			query = query.Where("aggregate_type = ?", value)
		case "actor_id":
			query = query.Where("actor_id = ?", value)
		}
	}
	return query
}

// Ensure GormActivityLogRepository implements ActivityLogRepository
var _ audit.ActivityLogRepository = (*GormActivityLogRepository)(nil)
