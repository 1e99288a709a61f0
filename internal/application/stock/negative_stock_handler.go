package stock

import (
	"context"
	"fmt"

	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/brokersuite/backend/internal/domain/stock"
	"go.uber.org/zap"
)

// NegativeStockHandler reacts to outbound movements that drive a balance
// below zero under the permissive policy. Stock managers use the alerts to
// reconcile physical stock against the ledger.
type NegativeStockHandler struct {
	logger *zap.Logger
}

// NewNegativeStockHandler creates a new handler for negative balance events
func NewNegativeStockHandler(logger *zap.Logger) *NegativeStockHandler {
	return &NegativeStockHandler{
		logger: logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *NegativeStockHandler) EventTypes() []string {
	return []string{stock.EventTypeStockWentNegative}
}

// Handle processes a StockWentNegativeEvent
func (h *NegativeStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	negative, ok := event.(*stock.StockWentNegativeEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", stock.EventTypeStockWentNegative),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			stock.EventTypeStockWentNegative, event.EventType())
	}

	h.logger.Warn("stock balance went negative",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("movement_id", negative.MovementID.String()),
		zap.String("product_id", negative.ProductID.String()),
		zap.String("warehouse_id", negative.WarehouseID.String()),
		zap.String("balance_after", negative.BalanceAfter.String()),
	)

	return nil
}

// Ensure NegativeStockHandler implements shared.EventHandler
var _ shared.EventHandler = (*NegativeStockHandler)(nil)
