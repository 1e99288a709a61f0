package persistence

import (
	"context"
	"errors"

	"github.com/brokersuite/backend/internal/domain/claims"
	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClaimRepository implements ClaimRepository using GORM
type GormClaimRepository struct {
	db *gorm.DB
}

// NewGormClaimRepository creates a new GormClaimRepository
func NewGormClaimRepository(db *gorm.DB) *GormClaimRepository {
	return &GormClaimRepository{db: db}
}

// FindByIDForTenant finds a claim by its ID
func (r *GormClaimRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*claims.Claim, error) {
	var claim claims.Claim
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&claim).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &claim, nil
}

// FindByNumberForTenant finds a claim by its document number
func (r *GormClaimRepository) FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*claims.Claim, error) {
	var claim claims.Claim
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND number = ?", tenantID, number).
		First(&claim).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &claim, nil
}

// FindAllForTenant lists claims for a tenant
func (r *GormClaimRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter claims.ClaimFilter) ([]claims.Claim, int64, error) {
	var result []claims.Claim
	var total int64

	base := r.db.WithContext(ctx).Model(&claims.Claim{}).Where("tenant_id = ?", tenantID)
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.CustomerID != nil {
		base = base.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.OverdueAsOf != nil {
		base = base.Where("deadline < ? AND status = ?", *filter.OverdueAsOf, claims.ClaimStatusOpen)
	}
	if filter.MinimumLevel != nil {
		base = base.Where("escalation_level >= ?", *filter.MinimumLevel)
	}

	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := applyListFilter(base, filter.Filter, ClaimSortFields, "deadline ASC").Find(&result).Error; err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// Create inserts a new claim
func (r *GormClaimRepository) Create(ctx context.Context, claim *claims.Claim) error {
	return r.db.WithContext(ctx).Create(claim).Error
}

// SaveWithVersion saves the claim under an optimistic version check
func (r *GormClaimRepository) SaveWithVersion(ctx context.Context, claim *claims.Claim) error {
	currentVersion := claim.Version

	result := r.db.WithContext(ctx).Model(&claims.Claim{}).
		Where("tenant_id = ? AND id = ? AND version = ?", claim.TenantID, claim.ID, currentVersion).
		Updates(map[string]interface{}{
			"status":           claim.Status,
			"description":      claim.Description,
			"reception_date":   claim.ReceptionDate,
			"escalation_level": claim.EscalationLevel,
			"deadline":         claim.Deadline,
			"resolved_at":      claim.ResolvedAt,
			"closed_at":        claim.ClosedAt,
			"version":          currentVersion + 1,
			"updated_at":       claim.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	claim.Version = currentVersion + 1
	return nil
}

// SoftDelete marks the claim as deleted. The allocated number stays burned.
func (r *GormClaimRepository) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&claims.Claim{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormClaimRepository implements ClaimRepository
var _ claims.ClaimRepository = (*GormClaimRepository)(nil)
