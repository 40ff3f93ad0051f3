package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/doaddy/backend/internal/domain/billing"
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormQuoteRepository implements billing.QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByID finds a quote by ID
func (r *GormQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Quote, error) {
	var quote billing.Quote
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// FindByIDForOrg finds a quote by ID within an organization
func (r *GormQuoteRepository) FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*billing.Quote, error) {
	var quote billing.Quote
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// FindAllForOrg finds all quotes within an organization matching the filter
func (r *GormQuoteRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*billing.Quote, error) {
	var quotes []*billing.Quote
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&billing.Quote{}).Where("org_id = ?", orgID),
		filter,
	)
	if err := query.Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// CountForOrg counts quotes within an organization matching the filter
func (r *GormQuoteRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&billing.Quote{}).Where("org_id = ?", orgID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a quote
func (r *GormQuoteRepository) Save(ctx context.Context, quote *billing.Quote) error {
	return r.db.WithContext(ctx).Save(quote).Error
}

// SaveWithLock saves a quote with optimistic locking (version check).
// Returns ErrConcurrencyConflict if the version has changed.
func (r *GormQuoteRepository) SaveWithLock(ctx context.Context, quote *billing.Quote) error {
	result := r.db.WithContext(ctx).
		Model(quote).
		Where("id = ? AND version = ?", quote.ID, quote.Version-1).
		Select("*").
		Updates(quote)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// GenerateQuoteNumber generates the next quote number for an organization.
// Format: QUO-YYYY-NNNNN (e.g. QUO-2026-00001)
func (r *GormQuoteRepository) GenerateQuoteNumber(ctx context.Context, orgID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, billing.Quote{}.TableName(), "QUO", orgID)
}

// applyFilter applies filter options including pagination
func (r *GormQuoteRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, QuoteSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormQuoteRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("number ILIKE ? OR notes ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		}
	}

	return query
}

// Ensure GormQuoteRepository implements QuoteRepository
var _ billing.QuoteRepository = (*GormQuoteRepository)(nil)
