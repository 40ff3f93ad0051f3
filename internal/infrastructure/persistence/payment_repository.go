package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/doaddy/backend/internal/domain/finance"
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentRepository implements finance.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Payment, error) {
	var payment finance.Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByIDForOrg finds a payment by ID within an organization
func (r *GormPaymentRepository) FindByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*finance.Payment, error) {
	var payment finance.Payment
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindAllForOrg finds all payments within an organization matching the filter
func (r *GormPaymentRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]*finance.Payment, error) {
	var payments []*finance.Payment
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&finance.Payment{}).Where("org_id = ?", orgID),
		filter,
	)
	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindByCustomerForOrg finds payments for a customer within an organization
func (r *GormPaymentRepository) FindByCustomerForOrg(ctx context.Context, customerID, orgID uuid.UUID, filter shared.Filter) ([]*finance.Payment, error) {
	var payments []*finance.Payment
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&finance.Payment{}).
			Where("org_id = ? AND customer_id = ?", orgID, customerID),
		filter,
	)
	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// CountForOrg counts payments within an organization matching the filter
func (r *GormPaymentRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&finance.Payment{}).Where("org_id = ?", orgID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *finance.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// SaveWithLock saves a payment with optimistic locking (version check).
// Returns ErrConcurrencyConflict if the version has changed.
func (r *GormPaymentRepository) SaveWithLock(ctx context.Context, payment *finance.Payment) error {
	result := r.db.WithContext(ctx).
		Model(payment).
		Where("id = ? AND version = ?", payment.ID, payment.Version-1).
		Select("*").
		Updates(payment)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// GeneratePaymentNumber generates the next payment number for an organization.
// Format: PAY-YYYY-NNNNN (e.g. PAY-2026-00001)
func (r *GormPaymentRepository) GeneratePaymentNumber(ctx context.Context, orgID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, finance.Payment{}.TableName(), "PAY", orgID)
}

// applyFilter applies filter options including pagination
func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PaymentSortFields, "payment_date")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPaymentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("number ILIKE ? OR reference ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "method":
			query = query.Where("method = ?", value)
		}
	}

	return query
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ finance.PaymentRepository = (*GormPaymentRepository)(nil)
