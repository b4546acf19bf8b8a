package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/accounting/backend/internal/domain/billing"
	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForCompany finds an invoice by ID within a company
func (r *GormInvoiceRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAllForCompany finds all invoices for a company
func (r *GormInvoiceRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := r.applyFilters(
		r.db.WithContext(ctx).Model(&billing.Invoice{}).Where("company_id = ?", companyID),
		filter,
	)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("created_at DESC").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// ExistsByNumber checks if an invoice number is taken within the company
func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, companyID uuid.UUID, invoiceNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("company_id = ? AND invoice_number = ?", companyID, invoiceNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

// MarkPaid atomically moves an invoice that is not yet paid into the paid
// state. The status guard in the WHERE clause makes the transition happen
// at most once regardless of how many callers race on it.
func (r *GormInvoiceRepository) MarkPaid(ctx context.Context, companyID, id uuid.UUID, paidAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("company_id = ? AND id = ? AND status <> ?", companyID, id, billing.InvoiceStatusPaid).
		Updates(map[string]interface{}{
			"status":     billing.InvoiceStatusPaid,
			"paid_at":    paidAt,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// DeleteCascade deletes an invoice together with its items and commissions
func (r *GormInvoiceRepository) DeleteCascade(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&billing.Commission{}, "company_id = ? AND invoice_id = ?", companyID, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&billing.InvoiceItem{}, "invoice_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&billing.Invoice{}, "company_id = ? AND id = ?", companyID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountForCompany counts invoices for a company
func (r *GormInvoiceRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilters(
		r.db.WithContext(ctx).Model(&billing.Invoice{}).Where("company_id = ?", companyID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AddItem inserts a line item and recalculates the parent invoice's total
// in the same transaction
func (r *GormInvoiceRepository) AddItem(ctx context.Context, companyID uuid.UUID, item *billing.InvoiceItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return tx.Exec(
			`UPDATE invoices
			 SET total_amount = (SELECT COALESCE(SUM(total_amount), 0) FROM invoice_items WHERE invoice_id = ?),
			     updated_at = ?
			 WHERE company_id = ? AND id = ?`,
			item.InvoiceID, time.Now(), companyID, item.InvoiceID,
		).Error
	})
}

// FindItems lists the line items of an invoice
func (r *GormInvoiceRepository) FindItems(ctx context.Context, invoiceID uuid.UUID) ([]billing.InvoiceItem, error) {
	var items []billing.InvoiceItem
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormInvoiceRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "sold_by_user_id":
			query = query.Where("sold_by = ?", value)
		}
	}
	return query
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
