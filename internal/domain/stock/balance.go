package stock

import (
	"time"

	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance is the derived stock position for one product in one warehouse.
// It is a read model computed from the movement ledger, not a stored row.
type Balance struct {
	TenantID       uuid.UUID       `json:"tenant_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	WarehouseID    uuid.UUID       `json:"warehouse_id"`
	QuantityOnHand decimal.Decimal `json:"quantity_on_hand"` // Sum of signed quantities
	Valuation      decimal.Decimal `json:"valuation"`        // Sum of signed total costs
	MovementCount  int64           `json:"movement_count"`
	AsOf           time.Time       `json:"as_of"`
}

// ComputeBalance folds a movement history into a balance.
// Used by in-memory projections and tests; repositories compute the same
// aggregate in SQL.
func ComputeBalance(tenantID, productID, warehouseID uuid.UUID, movements []StockMovement, asOf time.Time) Balance {
	balance := Balance{
		TenantID:       tenantID,
		ProductID:      productID,
		WarehouseID:    warehouseID,
		QuantityOnHand: decimal.Zero,
		Valuation:      decimal.Zero,
		AsOf:           asOf,
	}
	for i := range movements {
		balance.QuantityOnHand = balance.QuantityOnHand.Add(movements[i].SignedQuantity())
		balance.Valuation = balance.Valuation.Add(movements[i].SignedTotalCost())
		balance.MovementCount++
	}
	return balance
}

// IsNegative reports whether the on-hand quantity has gone below zero
func (b Balance) IsNegative() bool {
	return b.QuantityOnHand.IsNegative()
}

// Policy controls how the ledger treats outbound movements that would drive
// the on-hand quantity below zero. The permissive default records the
// movement anyway; the physical stock room is the source of truth and the
// ledger must not block a technician who already took the part.
type Policy struct {
	AllowNegative bool
}

// DefaultPolicy returns the permissive policy
func DefaultPolicy() Policy {
	return Policy{AllowNegative: true}
}

// StrictPolicy returns the policy that rejects movements driving stock negative
func StrictPolicy() Policy {
	return Policy{AllowNegative: false}
}

// Check validates a movement against the current balance. Under the strict
// policy an outbound movement that would leave the quantity negative is
// rejected with ErrInsufficientStock.
func (p Policy) Check(current Balance, movement *StockMovement) error {
	if p.AllowNegative {
		return nil
	}
	if !movement.MovementType.IsOutbound() {
		return nil
	}
	if current.QuantityOnHand.Sub(movement.Quantity).IsNegative() {
		return shared.ErrInsufficientStock
	}
	return nil
}
