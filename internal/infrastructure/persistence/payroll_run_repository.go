package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/doaddy/backend/internal/domain/payroll"
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPayrollRunRepository implements payroll.RunRepository using GORM
type GormPayrollRunRepository struct {
	db *gorm.DB
}

// NewGormPayrollRunRepository creates a new GormPayrollRunRepository
func NewGormPayrollRunRepository(db *gorm.DB) *GormPayrollRunRepository {
	return &GormPayrollRunRepository{db: db}
}

// FindByID finds a payroll run by ID
func (r *GormPayrollRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.Run, error) {
	var run payroll.Run
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// FindByIDForOrg finds a payroll run by ID within an organization
func (r *GormPayrollRunRepository) FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*payroll.Run, error) {
	var run payroll.Run
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// FindByPeriodForOrg finds the payroll run for a year and month within an
// organization. Cancelled runs are excluded so a period can be re-run
// after a cancellation.
func (r *GormPayrollRunRepository) FindByPeriodForOrg(ctx context.Context, orgID uuid.UUID, year int, month time.Month) (*payroll.Run, error) {
	var run payroll.Run
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND year = ? AND month = ? AND status <> ?", orgID, year, int(month), payroll.RunStatusCancelled).
		First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// FindAllForOrg finds all payroll runs within an organization matching the filter
func (r *GormPayrollRunRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*payroll.Run, error) {
	var runs []*payroll.Run
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&payroll.Run{}).Where("org_id = ?", orgID),
		filter,
	)
	if err := query.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// CountForOrg counts payroll runs within an organization matching the filter
func (r *GormPayrollRunRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&payroll.Run{}).Where("org_id = ?", orgID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a payroll run
func (r *GormPayrollRunRepository) Save(ctx context.Context, run *payroll.Run) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// SaveWithLock saves a payroll run with optimistic locking (version check).
// Returns ErrConcurrencyConflict if the version has changed.
func (r *GormPayrollRunRepository) SaveWithLock(ctx context.Context, run *payroll.Run) error {
	result := r.db.WithContext(ctx).
		Model(run).
		Where("id = ? AND version = ?", run.ID, run.Version-1).
		Select("*").
		Updates(run)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// GenerateRunNumber generates the next payroll run number for an organization.
// Format: PRN-YYYY-NNNNN (e.g. PRN-2026-00001)
func (r *GormPayrollRunRepository) GenerateRunNumber(ctx context.Context, orgID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, payroll.Run{}.TableName(), "PRN", orgID)
}

// applyFilter applies filter options including pagination
func (r *GormPayrollRunRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PayrollRunSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPayrollRunRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "year":
			query = query.Where("year = ?", value)
		}
	}
	return query
}

// Ensure GormPayrollRunRepository implements RunRepository
var _ payroll.RunRepository = (*GormPayrollRunRepository)(nil)
