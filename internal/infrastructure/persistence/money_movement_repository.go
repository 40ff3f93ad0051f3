package persistence

import (
	"context"
	"errors"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/domain/treasury"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMoneyMovementRepository implements treasury.MoneyMovementRepository
// using GORM. Movements are append-only ledger entries; the only
// mutation allowed after creation is the reconciliation flag.
type GormMoneyMovementRepository struct {
	db *gorm.DB
}

// NewGormMoneyMovementRepository creates a new GormMoneyMovementRepository
func NewGormMoneyMovementRepository(db *gorm.DB) *GormMoneyMovementRepository {
	return &GormMoneyMovementRepository{db: db}
}

// FindByID finds a money movement by ID
func (r *GormMoneyMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*treasury.MoneyMovement, error) {
	var movement treasury.MoneyMovement
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&movement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindByIDForOrg finds a money movement by ID within an organization
func (r *GormMoneyMovementRepository) FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*treasury.MoneyMovement, error) {
	var movement treasury.MoneyMovement
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&movement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindByAccountForOrg finds money movements for an account within an organization
func (r *GormMoneyMovementRepository) FindByAccountForOrg(ctx context.Context, accountID, orgID uuid.UUID, filter shared.Filter) ([]*treasury.MoneyMovement, error) {
	var movements []*treasury.MoneyMovement
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&treasury.MoneyMovement{}).
			Where("org_id = ? AND account_id = ?", orgID, accountID),
		filter,
	)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// CountForOrg counts money movements within an organization matching the filter
func (r *GormMoneyMovementRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&treasury.MoneyMovement{}).Where("org_id = ?", orgID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists a money movement. Ledger rows are append-only.
func (r *GormMoneyMovementRepository) Save(ctx context.Context, movement *treasury.MoneyMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// MarkReconciled flags a movement as matched against a bank statement
func (r *GormMoneyMovementRepository) MarkReconciled(ctx context.Context, id, orgID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&treasury.MoneyMovement{}).
		Where("org_id = ? AND id = ?", orgID, id).
		Update("reconciled", true)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options including pagination
func (r *GormMoneyMovementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, MoneyMovementSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormMoneyMovementRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "account_id":
			query = query.Where("account_id = ?", value)
		case "direction":
			query = query.Where("direction = ?", value)
		case "ref_type":
			query = query.Where("ref_type = ?", value)
		case "reconciled":
			query = query.Where("reconciled = ?", value)
		}
	}
	return query
}

// Ensure GormMoneyMovementRepository implements MoneyMovementRepository
var _ treasury.MoneyMovementRepository = (*GormMoneyMovementRepository)(nil)
