// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLedgerMetricsProvider implements LedgerMetricsProvider using GORM.
// It queries the claims and stock_movements tables directly for aggregated metrics.
type GormLedgerMetricsProvider struct {
	db *gorm.DB
}

// NewGormLedgerMetricsProvider creates a new GormLedgerMetricsProvider.
func NewGormLedgerMetricsProvider(db *gorm.DB) *GormLedgerMetricsProvider {
	return &GormLedgerMetricsProvider{db: db}
}

// GetOverdueClaimCount returns the number of open claims past their deadline for a tenant.
func (p *GormLedgerMetricsProvider) GetOverdueClaimCount(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("claims").
		Where("tenant_id = ? AND deleted_at IS NULL", tenantID).
		Where("status = ? AND deadline < ?", "OPEN", asOf).
		Count(&count).Error

	return count, err
}

// GetNegativeBalanceCount returns the number of product/warehouse pairs whose
// derived balance is below zero. The balance is folded from the movement
// ledger, signing outbound quantities negative.
func (p *GormLedgerMetricsProvider) GetNegativeBalanceCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	inbound := []string{"PURCHASE", "RETURN", "ADJUSTMENT_INCREASE", "TRANSFER_IN"}

	rows := p.db.WithContext(ctx).
		Table("stock_movements").
		Select("product_id, warehouse_id").
		Where("tenant_id = ?", tenantID).
		Group("product_id, warehouse_id").
		Having("SUM(CASE WHEN movement_type IN ? THEN quantity ELSE -quantity END) < 0", inbound)

	var count int64
	err := p.db.WithContext(ctx).Table("(?) AS negative_balances", rows).Count(&count).Error
	return count, err
}

// GormTenantProvider implements TenantProvider using GORM.
// Active tenants are derived from the sequence counter table: any tenant that
// has allocated at least one document number shows up there.
type GormTenantProvider struct {
	db *gorm.DB
}

// NewGormTenantProvider creates a new GormTenantProvider.
func NewGormTenantProvider(db *gorm.DB) *GormTenantProvider {
	return &GormTenantProvider{db: db}
}

// GetActiveTenantIDs returns all tenant IDs that have allocated document numbers.
func (p *GormTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("sequence_counters").
		Distinct("tenant_id").
		Find(&ids).Error

	return ids, err
}
