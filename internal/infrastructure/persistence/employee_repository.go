package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/doaddy/backend/internal/domain/payroll"
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEmployeeRepository implements payroll.EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByID finds an employee by ID
func (r *GormEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.Employee, error) {
	var employee payroll.Employee
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// FindByIDForOrg finds an employee by ID within an organization
func (r *GormEmployeeRepository) FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*payroll.Employee, error) {
	var employee payroll.Employee
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// FindAllForOrg finds all employees within an organization matching the filter
func (r *GormEmployeeRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*payroll.Employee, error) {
	var employees []*payroll.Employee
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&payroll.Employee{}).Where("org_id = ?", orgID),
		filter,
	)
	if err := query.Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// FindActiveForOrg finds all active employees within an organization
func (r *GormEmployeeRepository) FindActiveForOrg(ctx context.Context, orgID uuid.UUID) ([]*payroll.Employee, error) {
	var employees []*payroll.Employee
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND active = ?", orgID, true).
		Order("name ASC").
		Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// CountForOrg counts employees within an organization matching the filter
func (r *GormEmployeeRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&payroll.Employee{}).Where("org_id = ?", orgID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, employee *payroll.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

// SaveWithLock saves an employee with optimistic locking (version check).
// Returns ErrConcurrencyConflict if the version has changed.
func (r *GormEmployeeRepository) SaveWithLock(ctx context.Context, employee *payroll.Employee) error {
	result := r.db.WithContext(ctx).
		Model(employee).
		Where("id = ? AND version = ?", employee.ID, employee.Version-1).
		Select("*").
		Updates(employee)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// applyFilter applies filter options including pagination
func (r *GormEmployeeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, EmployeeSortFields, "name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormEmployeeRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("name ILIKE ? OR position ILIKE ? OR nrc_number ILIKE ?", pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		}
	}

	return query
}

// Ensure GormEmployeeRepository implements EmployeeRepository
var _ payroll.EmployeeRepository = (*GormEmployeeRepository)(nil)
