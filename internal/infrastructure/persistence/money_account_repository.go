package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/domain/treasury"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMoneyAccountRepository implements treasury.MoneyAccountRepository using GORM
type GormMoneyAccountRepository struct {
	db *gorm.DB
}

// NewGormMoneyAccountRepository creates a new GormMoneyAccountRepository
func NewGormMoneyAccountRepository(db *gorm.DB) *GormMoneyAccountRepository {
	return &GormMoneyAccountRepository{db: db}
}

// FindByID finds a money account by ID
func (r *GormMoneyAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*treasury.MoneyAccount, error) {
	var account treasury.MoneyAccount
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindByIDForOrg finds a money account by ID within an organization
func (r *GormMoneyAccountRepository) FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*treasury.MoneyAccount, error) {
	var account treasury.MoneyAccount
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAllForOrg finds all money accounts within an organization matching the filter
func (r *GormMoneyAccountRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*treasury.MoneyAccount, error) {
	var accounts []*treasury.MoneyAccount
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&treasury.MoneyAccount{}).Where("org_id = ?", orgID),
		filter,
	)
	if err := query.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// CountForOrg counts money accounts within an organization matching the filter
func (r *GormMoneyAccountRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&treasury.MoneyAccount{}).Where("org_id = ?", orgID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a money account
func (r *GormMoneyAccountRepository) Save(ctx context.Context, account *treasury.MoneyAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// SaveWithLock saves a money account with optimistic locking (version check).
// Returns ErrConcurrencyConflict if the version has changed.
func (r *GormMoneyAccountRepository) SaveWithLock(ctx context.Context, account *treasury.MoneyAccount) error {
	result := r.db.WithContext(ctx).
		Model(account).
		Where("id = ? AND version = ?", account.ID, account.Version-1).
		Select("*").
		Updates(account)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// applyFilter applies filter options including pagination
func (r *GormMoneyAccountRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, MoneyAccountSortFields, "name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormMoneyAccountRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("name ILIKE ?", pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		}
	}

	return query
}

// Ensure GormMoneyAccountRepository implements MoneyAccountRepository
var _ treasury.MoneyAccountRepository = (*GormMoneyAccountRepository)(nil)
