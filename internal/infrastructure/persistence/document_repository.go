package persistence

import (
	"context"
	"errors"

	"github.com/brokersuite/backend/internal/domain/documents"
	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDocumentRepository implements DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByIDForTenant finds a document by its ID
func (r *GormDocumentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*documents.Document, error) {
	var doc documents.Document
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByNumberForTenant finds a document by its number
func (r *GormDocumentRepository) FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*documents.Document, error) {
	var doc documents.Document
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND number = ?", tenantID, number).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindAllForTenant lists documents for a tenant
func (r *GormDocumentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter documents.DocumentFilter) ([]documents.Document, int64, error) {
	var result []documents.Document
	var total int64

	base := r.db.WithContext(ctx).Model(&documents.Document{}).Where("tenant_id = ?", tenantID)
	if filter.Kind != nil {
		base = base.Where("kind = ?", *filter.Kind)
	}
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.CustomerID != nil {
		base = base.Where("customer_id = ?", *filter.CustomerID)
	}

	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := applyListFilter(base, filter.Filter, DocumentSortFields, "created_at DESC").Find(&result).Error; err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// Create inserts a new document
func (r *GormDocumentRepository) Create(ctx context.Context, doc *documents.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// SaveWithVersion saves the document under an optimistic version check
func (r *GormDocumentRepository) SaveWithVersion(ctx context.Context, doc *documents.Document) error {
	currentVersion := doc.Version

	result := r.db.WithContext(ctx).Model(&documents.Document{}).
		Where("tenant_id = ? AND id = ? AND version = ?", doc.TenantID, doc.ID, currentVersion).
		Updates(map[string]interface{}{
			"status":      doc.Status,
			"title":       doc.Title,
			"amount":      doc.Amount,
			"issued_at":   doc.IssuedAt,
			"archived_at": doc.ArchivedAt,
			"version":     currentVersion + 1,
			"updated_at":  doc.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	doc.Version = currentVersion + 1
	return nil
}

// SoftDelete marks the document as deleted. The allocated number stays burned.
func (r *GormDocumentRepository) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&documents.Document{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormDocumentRepository implements DocumentRepository
var _ documents.DocumentRepository = (*GormDocumentRepository)(nil)
