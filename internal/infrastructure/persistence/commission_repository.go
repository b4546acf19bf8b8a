package persistence

import (
	"context"
	"errors"

	"github.com/accounting/backend/internal/domain/billing"
	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCommissionRepository implements CommissionRepository using GORM
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewGormCommissionRepository creates a new GormCommissionRepository
func NewGormCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// FindByIDForCompany finds a commission by ID within a company
func (r *GormCommissionRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*billing.Commission, error) {
	var commission billing.Commission
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&commission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &commission, nil
}

// FindByInvoice finds the commission recorded for an invoice, if any
func (r *GormCommissionRepository) FindByInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) (*billing.Commission, error) {
	var commission billing.Commission
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND invoice_id = ?", companyID, invoiceID).
		First(&commission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &commission, nil
}

// FindAllForCompany finds all commissions for a company
func (r *GormCommissionRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]billing.Commission, error) {
	var commissions []billing.Commission
	query := r.applyFilters(
		r.db.WithContext(ctx).Model(&billing.Commission{}).Where("company_id = ?", companyID),
		filter,
	)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("created_at DESC").Find(&commissions).Error; err != nil {
		return nil, err
	}
	return commissions, nil
}

// Save creates or updates a commission
func (r *GormCommissionRepository) Save(ctx context.Context, commission *billing.Commission) error {
	return r.db.WithContext(ctx).Save(commission).Error
}

// DeleteForCompany deletes a commission within a company
func (r *GormCommissionRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.Commission{}, "company_id = ? AND id = ?", companyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForCompany counts commissions for a company
func (r *GormCommissionRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilters(
		r.db.WithContext(ctx).Model(&billing.Commission{}).Where("company_id = ?", companyID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCommissionRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "user_id":
			query = query.Where("user_id = ?", value)
		case "invoice_id":
			query = query.Where("invoice_id = ?", value)
		}
	}
	return query
}

// Ensure GormCommissionRepository implements CommissionRepository
var _ billing.CommissionRepository = (*GormCommissionRepository)(nil)
