package stock

import (
	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for the stock ledger
const AggregateTypeStockMovement = "StockMovement"

// Event type constants for the stock ledger
const (
	EventTypeStockMovementRecorded = "StockMovementRecorded"
	EventTypeStockWentNegative     = "StockWentNegative"
)

// StockMovementRecordedEvent is raised when a movement is appended to the ledger
type StockMovementRecordedEvent struct {
	shared.BaseDomainEvent
	MovementID   uuid.UUID       `json:"movement_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	WarehouseID  uuid.UUID       `json:"warehouse_id"`
	MovementType MovementType    `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// NewStockMovementRecordedEvent creates a new StockMovementRecordedEvent
func NewStockMovementRecordedEvent(movement *StockMovement, balanceAfter decimal.Decimal) *StockMovementRecordedEvent {
	return &StockMovementRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockMovementRecorded, AggregateTypeStockMovement, movement.ID, movement.TenantID),
		MovementID:      movement.ID,
		ProductID:       movement.ProductID,
		WarehouseID:     movement.WarehouseID,
		MovementType:    movement.MovementType,
		Quantity:        movement.SignedQuantity(),
		BalanceAfter:    balanceAfter,
	}
}

// StockWentNegativeEvent is raised when a permissive outbound movement leaves
// the on-hand quantity below zero. Consumers use it to alert stock managers.
type StockWentNegativeEvent struct {
	shared.BaseDomainEvent
	MovementID   uuid.UUID       `json:"movement_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	WarehouseID  uuid.UUID       `json:"warehouse_id"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// NewStockWentNegativeEvent creates a new StockWentNegativeEvent
func NewStockWentNegativeEvent(movement *StockMovement, balanceAfter decimal.Decimal) *StockWentNegativeEvent {
	return &StockWentNegativeEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockWentNegative, AggregateTypeStockMovement, movement.ID, movement.TenantID),
		MovementID:      movement.ID,
		ProductID:       movement.ProductID,
		WarehouseID:     movement.WarehouseID,
		BalanceAfter:    balanceAfter,
	}
}
