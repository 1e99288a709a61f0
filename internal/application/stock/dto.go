package stock

import (
	"time"

	"github.com/brokersuite/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordMovementRequest represents a request to append a ledger movement
type RecordMovementRequest struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	WarehouseID    uuid.UUID       `json:"warehouse_id" binding:"required"`
	MovementType   string          `json:"movement_type" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Reference      string          `json:"reference" binding:"max=100"`
	Reason         string          `json:"reason" binding:"max=255"`
	InterventionID *uuid.UUID      `json:"intervention_id"`
	OperatorID     *uuid.UUID      `json:"operator_id"`
	OccurredAt     *time.Time      `json:"occurred_at"`
}

// MovementListFilter represents filter options for the movement list
type MovementListFilter struct {
	ProductID    *uuid.UUID `form:"product_id"`
	WarehouseID  *uuid.UUID `form:"warehouse_id"`
	MovementType *string    `form:"movement_type"`
	From         *time.Time `form:"from" time_format:"2006-01-02"`
	To           *time.Time `form:"to" time_format:"2006-01-02"`
	Page         int        `form:"page" binding:"min=0"`
	PageSize     int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// MovementResponse represents a ledger movement in API responses
type MovementResponse struct {
	ID             uuid.UUID       `json:"id"`
	TenantID       uuid.UUID       `json:"tenant_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	WarehouseID    uuid.UUID       `json:"warehouse_id"`
	MovementType   string          `json:"movement_type"`
	Quantity       decimal.Decimal `json:"quantity"`
	SignedQuantity decimal.Decimal `json:"signed_quantity"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	Reference      string          `json:"reference,omitempty"`
	Reason         string          `json:"reason,omitempty"`
	InterventionID *uuid.UUID      `json:"intervention_id,omitempty"`
	OperatorID     *uuid.UUID      `json:"operator_id,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
	CreatedAt      time.Time       `json:"created_at"`
}

// RecordMovementResponse couples the recorded movement with the balance it produced
type RecordMovementResponse struct {
	Movement     MovementResponse `json:"movement"`
	BalanceAfter decimal.Decimal  `json:"balance_after"`
}

// BalanceResponse represents a derived stock position in API responses
type BalanceResponse struct {
	TenantID       uuid.UUID       `json:"tenant_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	WarehouseID    uuid.UUID       `json:"warehouse_id"`
	QuantityOnHand decimal.Decimal `json:"quantity_on_hand"`
	Valuation      decimal.Decimal `json:"valuation"`
	MovementCount  int64           `json:"movement_count"`
	Negative       bool            `json:"negative"`
	AsOf           time.Time       `json:"as_of"`
}

// ToMovementResponse converts a ledger movement to its API representation
func ToMovementResponse(m *stock.StockMovement) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		TenantID:       m.TenantID,
		ProductID:      m.ProductID,
		WarehouseID:    m.WarehouseID,
		MovementType:   m.MovementType.String(),
		Quantity:       m.Quantity,
		SignedQuantity: m.SignedQuantity(),
		UnitCost:       m.UnitCost,
		TotalCost:      m.TotalCost,
		Reference:      m.Reference,
		Reason:         m.Reason,
		InterventionID: m.InterventionID,
		OperatorID:     m.OperatorID,
		OccurredAt:     m.OccurredAt,
		CreatedAt:      m.CreatedAt,
	}
}

// ToMovementResponses converts movements to their API representation
func ToMovementResponses(movements []stock.StockMovement) []MovementResponse {
	items := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		items = append(items, ToMovementResponse(&movements[i]))
	}
	return items
}

// ToBalanceResponse converts a derived balance to its API representation
func ToBalanceResponse(b stock.Balance) BalanceResponse {
	return BalanceResponse{
		TenantID:       b.TenantID,
		ProductID:      b.ProductID,
		WarehouseID:    b.WarehouseID,
		QuantityOnHand: b.QuantityOnHand,
		Valuation:      b.Valuation,
		MovementCount:  b.MovementCount,
		Negative:       b.IsNegative(),
		AsOf:           b.AsOf,
	}
}

// ToBalanceResponses converts balances to their API representation
func ToBalanceResponses(balances []stock.Balance) []BalanceResponse {
	items := make([]BalanceResponse, 0, len(balances))
	for _, b := range balances {
		items = append(items, ToBalanceResponse(b))
	}
	return items
}
