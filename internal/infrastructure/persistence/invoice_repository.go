package persistence

import (
	"context"
	"errors"

	"github.com/brokersuite/backend/internal/domain/billing"
	"github.com/brokersuite/backend/internal/domain/shared"
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

// FindByIDForTenant finds an invoice with its line items
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByNumberForTenant finds an invoice by its document number
func (r *GormInvoiceRepository) FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*billing.Invoice, error) {
	var invoice billing.Invoice
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("tenant_id = ? AND number = ?", tenantID, number).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAllForTenant lists invoices for a tenant
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Invoice, int64, error) {
	var invoices []billing.Invoice
	var total int64

	base := r.db.WithContext(ctx).Model(&billing.Invoice{}).Where("tenant_id = ?", tenantID)
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := applyListFilter(base, filter, InvoiceSortFields, "created_at DESC").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
	if err := query.Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// Create inserts a new invoice with its line items
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

// SaveWithVersion saves the invoice under an optimistic version check. The
// line-item set is replaced wholesale; totals are whatever the aggregate has
// recomputed, never re-derived here.
func (r *GormInvoiceRepository) SaveWithVersion(ctx context.Context, invoice *billing.Invoice) error {
	currentVersion := invoice.Version

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&billing.Invoice{}).
			Where("tenant_id = ? AND id = ? AND version = ?", invoice.TenantID, invoice.ID, currentVersion).
			Updates(map[string]interface{}{
				"number":                invoice.Number,
				"invoice_type":          invoice.InvoiceType,
				"status":                invoice.Status,
				"subtotal_ht":           invoice.SubtotalHT,
				"total_tax":             invoice.TotalTax,
				"total_ttc":             invoice.TotalTTC,
				"due_date":              invoice.DueDate,
				"validated_at":          invoice.ValidatedAt,
				"converted_to_final_at": invoice.ConvertedToFinalAt,
				"sent_at":               invoice.SentAt,
				"paid_at":               invoice.PaidAt,
				"cancelled_at":          invoice.CancelledAt,
				"version":               currentVersion + 1,
				"updated_at":            invoice.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&billing.LineItem{}).Error; err != nil {
			return err
		}
		if len(invoice.LineItems) > 0 {
			if err := tx.Create(&invoice.LineItems).Error; err != nil {
				return err
			}
		}

		invoice.Version = currentVersion + 1
		return nil
	})
}

// SoftDelete marks the invoice as deleted. The allocated number stays burned.
func (r *GormInvoiceRepository) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&billing.Invoice{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyListFilter applies pagination and ordering shared by the list queries.
// The sort field is checked against the caller's whitelist before it reaches
// the ORDER BY clause.
func applyListFilter(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool, defaultOrder string) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if field := ValidateSortField(filter.OrderBy, allowedFields, ""); field != "" {
		return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	}
	return query.Order(defaultOrder)
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
