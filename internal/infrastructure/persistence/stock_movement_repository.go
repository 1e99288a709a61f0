package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/brokersuite/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements MovementRepository using GORM.
// The ledger is append-only: this repository exposes no update or delete.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Append writes a new movement
func (r *GormStockMovementRepository) Append(ctx context.Context, movement *stock.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByIDForTenant finds a movement by its ID
func (r *GormStockMovementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*stock.StockMovement, error) {
	var movement stock.StockMovement
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&movement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindAllForTenant lists movements, newest first
func (r *GormStockMovementRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter stock.MovementFilter) ([]stock.StockMovement, int64, error) {
	var movements []stock.StockMovement
	var total int64

	base := r.applyMovementFilter(
		r.db.WithContext(ctx).Model(&stock.StockMovement{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := applyListFilter(base, filter.Filter, StockMovementSortFields, "occurred_at DESC")
	if err := query.Find(&movements).Error; err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

// balanceRow receives the SQL aggregate for a balance projection
type balanceRow struct {
	ProductID      uuid.UUID
	QuantityOnHand decimal.Decimal
	Valuation      decimal.Decimal
	MovementCount  int64
}

const balanceSelectSQL = `
product_id,
COALESCE(SUM(CASE WHEN movement_type IN ? THEN quantity ELSE -quantity END), 0) AS quantity_on_hand,
COALESCE(SUM(CASE WHEN movement_type IN ? THEN total_cost ELSE -total_cost END), 0) AS valuation,
COUNT(*) AS movement_count`

func inboundTypes() []stock.MovementType {
	return []stock.MovementType{
		stock.MovementTypePurchase,
		stock.MovementTypeReturn,
		stock.MovementTypeAdjustmentIncrease,
		stock.MovementTypeTransferIn,
	}
}

// BalanceFor derives the current balance for one product in one warehouse by
// aggregating the full ledger in a single query
func (r *GormStockMovementRepository) BalanceFor(ctx context.Context, tenantID, productID, warehouseID uuid.UUID) (stock.Balance, error) {
	var row balanceRow
	err := r.db.WithContext(ctx).
		Model(&stock.StockMovement{}).
		Select(balanceSelectSQL, inboundTypes(), inboundTypes()).
		Where("tenant_id = ? AND product_id = ? AND warehouse_id = ?", tenantID, productID, warehouseID).
		Group("product_id").
		Scan(&row).Error
	if err != nil {
		return stock.Balance{}, err
	}
	return rowToBalance(row, tenantID, productID, warehouseID), nil
}

// BalancesForWarehouse derives the balance of every product with movements in
// the warehouse
func (r *GormStockMovementRepository) BalancesForWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) ([]stock.Balance, error) {
	var rows []balanceRow
	err := r.db.WithContext(ctx).
		Model(&stock.StockMovement{}).
		Select(balanceSelectSQL, inboundTypes(), inboundTypes()).
		Where("tenant_id = ? AND warehouse_id = ?", tenantID, warehouseID).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	balances := make([]stock.Balance, 0, len(rows))
	for _, row := range rows {
		balances = append(balances, rowToBalance(row, tenantID, row.ProductID, warehouseID))
	}
	return balances, nil
}

func rowToBalance(row balanceRow, tenantID, productID, warehouseID uuid.UUID) stock.Balance {
	return stock.Balance{
		TenantID:       tenantID,
		ProductID:      productID,
		WarehouseID:    warehouseID,
		QuantityOnHand: row.QuantityOnHand,
		Valuation:      row.Valuation,
		MovementCount:  row.MovementCount,
		AsOf:           time.Now(),
	}
}

// applyMovementFilter applies the domain filter fields; pagination and
// ordering are handled by applyListFilter
func (r *GormStockMovementRepository) applyMovementFilter(query *gorm.DB, filter stock.MovementFilter) *gorm.DB {
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.MovementType != nil {
		query = query.Where("movement_type = ?", *filter.MovementType)
	}
	if filter.From != nil {
		query = query.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("occurred_at <= ?", *filter.To)
	}
	return query
}

// Ensure GormStockMovementRepository implements MovementRepository
var _ stock.MovementRepository = (*GormStockMovementRepository)(nil)
