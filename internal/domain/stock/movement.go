package stock

import (
	"time"

	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType represents the type of stock movement
type MovementType string

const (
	// MovementTypePurchase represents parts received from a supplier
	MovementTypePurchase MovementType = "PURCHASE"
	// MovementTypeSale represents parts sold directly to a customer
	MovementTypeSale MovementType = "SALE"
	// MovementTypeReturn represents parts returned into stock
	MovementTypeReturn MovementType = "RETURN"
	// MovementTypeIntervention represents parts consumed on a field intervention
	MovementTypeIntervention MovementType = "INTERVENTION"
	// MovementTypeLoss represents parts written off (breakage, theft, expiry)
	MovementTypeLoss MovementType = "LOSS"
	// MovementTypeAdjustmentIncrease represents a positive count correction
	MovementTypeAdjustmentIncrease MovementType = "ADJUSTMENT_INCREASE"
	// MovementTypeAdjustmentDecrease represents a negative count correction
	MovementTypeAdjustmentDecrease MovementType = "ADJUSTMENT_DECREASE"
	// MovementTypeTransferIn represents parts transferred in from another depot
	MovementTypeTransferIn MovementType = "TRANSFER_IN"
	// MovementTypeTransferOut represents parts transferred out to another depot
	MovementTypeTransferOut MovementType = "TRANSFER_OUT"
)

// String returns the string representation of MovementType
func (m MovementType) String() string {
	return string(m)
}

// IsValid returns true if the movement type is valid
func (m MovementType) IsValid() bool {
	switch m {
	case MovementTypePurchase,
		MovementTypeSale,
		MovementTypeReturn,
		MovementTypeIntervention,
		MovementTypeLoss,
		MovementTypeAdjustmentIncrease,
		MovementTypeAdjustmentDecrease,
		MovementTypeTransferIn,
		MovementTypeTransferOut:
		return true
	}
	return false
}

// IsInbound returns true if this movement type increases the on-hand quantity
func (m MovementType) IsInbound() bool {
	switch m {
	case MovementTypePurchase,
		MovementTypeReturn,
		MovementTypeAdjustmentIncrease,
		MovementTypeTransferIn:
		return true
	}
	return false
}

// IsOutbound returns true if this movement type decreases the on-hand quantity
func (m MovementType) IsOutbound() bool {
	return m.IsValid() && !m.IsInbound()
}

// StockMovement is an immutable record in the stock ledger. Movements are
// never updated or deleted once written; corrections are new movements of an
// adjustment type. On-hand quantity is always derived from the ledger, never
// stored as an editable field.
type StockMovement struct {
	shared.BaseEntity
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_mv_tenant_time,priority:1"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_mv_product"`
	WarehouseID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_mv_warehouse"`
	MovementType   MovementType    `gorm:"type:varchar(30);not null;index:idx_stock_mv_type"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Always positive, direction determined by type
	UnitCost       decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Cost per unit at time of movement
	TotalCost      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Quantity * UnitCost
	Reference      string          `gorm:"type:varchar(100)"`           // Source document number (invoice, delivery note)
	Reason         string          `gorm:"type:varchar(255)"`
	InterventionID *uuid.UUID      `gorm:"type:uuid;index"` // Field intervention that consumed the parts (optional)
	OperatorID     *uuid.UUID      `gorm:"type:uuid"`
	OccurredAt     time.Time       `gorm:"not null;index:idx_stock_mv_tenant_time,priority:2"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new stock movement
func NewStockMovement(
	tenantID uuid.UUID,
	productID uuid.UUID,
	warehouseID uuid.UUID,
	movementType MovementType,
	quantity decimal.Decimal,
	unitCost decimal.Decimal,
) (*StockMovement, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if quantity.IsNegative() || quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	return &StockMovement{
		BaseEntity:   shared.NewBaseEntity(),
		TenantID:     tenantID,
		ProductID:    productID,
		WarehouseID:  warehouseID,
		MovementType: movementType,
		Quantity:     quantity,
		UnitCost:     unitCost,
		TotalCost:    quantity.Mul(unitCost),
		OccurredAt:   time.Now(),
	}, nil
}

// WithReference sets the source document reference
func (m *StockMovement) WithReference(reference string) *StockMovement {
	m.Reference = reference
	return m
}

// WithReason sets the reason for the movement
func (m *StockMovement) WithReason(reason string) *StockMovement {
	m.Reason = reason
	return m
}

// WithInterventionID links the movement to a field intervention
func (m *StockMovement) WithInterventionID(interventionID uuid.UUID) *StockMovement {
	m.InterventionID = &interventionID
	return m
}

// WithOperatorID sets the user who recorded the movement
func (m *StockMovement) WithOperatorID(operatorID uuid.UUID) *StockMovement {
	m.OperatorID = &operatorID
	return m
}

// WithOccurredAt sets when the movement physically happened
func (m *StockMovement) WithOccurredAt(at time.Time) *StockMovement {
	m.OccurredAt = at
	return m
}

// SignedQuantity returns the quantity with sign based on movement type.
// Positive for inbound movements, negative for outbound.
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	if m.MovementType.IsOutbound() {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// SignedTotalCost returns the total cost with sign based on movement type
func (m *StockMovement) SignedTotalCost() decimal.Decimal {
	if m.MovementType.IsOutbound() {
		return m.TotalCost.Neg()
	}
	return m.TotalCost
}
