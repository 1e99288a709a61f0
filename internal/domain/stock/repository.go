package stock

import (
	"context"
	"time"

	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MovementFilter narrows ledger queries
type MovementFilter struct {
	shared.Filter
	ProductID    *uuid.UUID
	WarehouseID  *uuid.UUID
	MovementType *MovementType
	From         *time.Time
	To           *time.Time
}

// MovementRepository persists the append-only stock ledger
type MovementRepository interface {
	// Append writes a new movement. The ledger offers no update or delete.
	Append(ctx context.Context, movement *StockMovement) error

	// FindByIDForTenant loads a single movement
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockMovement, error)

	// FindAllForTenant lists movements, newest first
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter MovementFilter) ([]StockMovement, int64, error)

	// BalanceFor derives the current balance for one product in one warehouse
	// by aggregating the full ledger
	BalanceFor(ctx context.Context, tenantID, productID, warehouseID uuid.UUID) (Balance, error)

	// BalancesForWarehouse derives the balance of every product that has at
	// least one movement in the warehouse
	BalancesForWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) ([]Balance, error)
}
