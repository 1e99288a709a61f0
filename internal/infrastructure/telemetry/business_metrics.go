// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the suite.
// It tracks document issuance, invoice activity, and ledger health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	documentIssuedTotal   *Counter
	invoiceAmountTotal    *Counter
	invoiceConvertedTotal *Counter
	stockMovementTotal    *Counter

	// Gauge metrics (point-in-time values)
	claimsOverdueCount        *Gauge
	stockNegativeBalanceCount *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	ledgerProvider LedgerMetricsProvider
}

// LedgerMetricsProvider provides derived state for periodic metrics collection.
// The interface keeps the telemetry layer from depending on the claims and
// stock domains directly.
type LedgerMetricsProvider interface {
	// GetOverdueClaimCount returns the number of open claims past their deadline for a tenant
	GetOverdueClaimCount(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (int64, error)

	// GetNegativeBalanceCount returns the number of product/warehouse pairs with a negative balance
	GetNegativeBalanceCount(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	LedgerProvider  LedgerMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:          cfg.Meter,
		logger:         logger,
		stopChan:       make(chan struct{}),
		ledgerProvider: cfg.LedgerProvider,
	}

	// Initialize counter metrics
	var err error

	// Document numbering metrics
	bm.documentIssuedTotal, err = NewCounter(
		cfg.Meter,
		"broker_document_issued_total",
		"Total number of documents issued with an allocated number",
		"{documents}",
	)
	if err != nil {
		return nil, err
	}

	// Invoice metrics
	bm.invoiceAmountTotal, err = NewCounter(
		cfg.Meter,
		"broker_invoice_amount_total",
		"Total invoiced amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	bm.invoiceConvertedTotal, err = NewCounter(
		cfg.Meter,
		"broker_invoice_converted_total",
		"Total number of proforma invoices converted to final",
		"{invoices}",
	)
	if err != nil {
		return nil, err
	}

	// Stock metrics
	bm.stockMovementTotal, err = NewCounter(
		cfg.Meter,
		"broker_stock_movement_total",
		"Total number of stock movements recorded",
		"{movements}",
	)
	if err != nil {
		return nil, err
	}

	// Ledger gauge metrics
	bm.claimsOverdueCount, err = NewGauge(
		cfg.Meter,
		"broker_claims_overdue_count",
		"Number of open claims past their escalation deadline",
		"{claims}",
	)
	if err != nil {
		return nil, err
	}

	bm.stockNegativeBalanceCount, err = NewGauge(
		cfg.Meter,
		"broker_stock_negative_balance_count",
		"Number of product/warehouse pairs with a negative stock balance",
		"{products}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Document Metrics
// =============================================================================

// RecordDocumentIssued records the issuance of a numbered document.
// This should be called from the application layer after a number is allocated.
func (bm *BusinessMetrics) RecordDocumentIssued(ctx context.Context, tenantID uuid.UUID, documentType string) {
	bm.documentIssuedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrDocumentType.String(documentType),
	)
}

// =============================================================================
// Invoice Metrics
// =============================================================================

// RecordInvoiceAmount records an invoiced amount.
// Amount should be in the smallest currency unit (cents).
func (bm *BusinessMetrics) RecordInvoiceAmount(ctx context.Context, tenantID uuid.UUID, documentType string, amountCents int64) {
	bm.invoiceAmountTotal.Add(ctx, amountCents,
		AttrTenantID.String(tenantID.String()),
		AttrDocumentType.String(documentType),
	)
}

// RecordInvoiceIssuedWithAmount is a convenience method that records both
// the issuance count and the invoiced amount.
func (bm *BusinessMetrics) RecordInvoiceIssuedWithAmount(ctx context.Context, tenantID uuid.UUID, documentType string, amount decimal.Decimal) {
	bm.RecordDocumentIssued(ctx, tenantID, documentType)

	// Convert to cents (multiply by 100)
	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.RecordInvoiceAmount(ctx, tenantID, documentType, amountCents)
}

// RecordInvoiceConverted records a proforma-to-final conversion.
func (bm *BusinessMetrics) RecordInvoiceConverted(ctx context.Context, tenantID uuid.UUID) {
	bm.invoiceConvertedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
	)
}

// =============================================================================
// Stock Metrics
// =============================================================================

// RecordStockMovement records a movement appended to the stock ledger.
func (bm *BusinessMetrics) RecordStockMovement(ctx context.Context, tenantID, warehouseID uuid.UUID, movementType string) {
	bm.stockMovementTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrWarehouseID.String(warehouseID.String()),
		AttrMovementType.String(movementType),
	)
}

// RecordOverdueClaimCount records the number of open claims past deadline.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOverdueClaimCount(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.claimsOverdueCount.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
}

// RecordNegativeBalanceCount records the number of negative stock balances.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordNegativeBalanceCount(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.stockNegativeBalanceCount.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// TenantProvider provides tenant IDs for periodic metrics collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects ledger metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectLedgerMetrics(ctx, tenantProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectLedgerMetrics(ctx, tenantProvider)
		}
	}
}

// collectLedgerMetrics collects ledger gauge metrics for all tenants.
func (bm *BusinessMetrics) collectLedgerMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if bm.ledgerProvider == nil {
		bm.logger.Debug("No ledger provider configured, skipping ledger metrics collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		bm.collectTenantLedgerMetrics(ctx, tenantID)
	}
}

// collectTenantLedgerMetrics collects ledger metrics for a single tenant.
func (bm *BusinessMetrics) collectTenantLedgerMetrics(ctx context.Context, tenantID uuid.UUID) {
	// Collect overdue claim count
	overdueCount, err := bm.ledgerProvider.GetOverdueClaimCount(ctx, tenantID, time.Now())
	if err != nil {
		bm.logger.Warn("Failed to get overdue claim count for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordOverdueClaimCount(ctx, tenantID, overdueCount)
	}

	// Collect negative balance count
	negativeCount, err := bm.ledgerProvider.GetNegativeBalanceCount(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get negative balance count for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordNegativeBalanceCount(ctx, tenantID, negativeCount)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
