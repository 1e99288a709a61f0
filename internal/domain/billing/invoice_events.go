package billing

import (
	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for Invoice
const AggregateTypeInvoice = "Invoice"

// Event type constants for Invoice
const (
	EventTypeInvoiceCreated   = "InvoiceCreated"
	EventTypeInvoiceValidated = "InvoiceValidated"
	EventTypeInvoiceConverted = "InvoiceConvertedToFinal"
	EventTypeInvoiceSent      = "InvoiceSent"
	EventTypeInvoicePaid      = "InvoicePaid"
	EventTypeInvoiceCancelled = "InvoiceCancelled"
)

// InvoiceCreatedEvent is raised when a new proforma invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID    uuid.UUID   `json:"invoice_id"`
	Number       string      `json:"number"`
	InvoiceType  InvoiceType `json:"invoice_type"`
	CustomerID   uuid.UUID   `json:"customer_id"`
	CustomerName string      `json:"customer_name"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
		InvoiceType:     inv.InvoiceType,
		CustomerID:      inv.CustomerID,
		CustomerName:    inv.CustomerName,
	}
}

// InvoiceValidatedEvent is raised when a proforma is validated
type InvoiceValidatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Number    string          `json:"number"`
	TotalTTC  decimal.Decimal `json:"total_ttc"`
}

// NewInvoiceValidatedEvent creates a new InvoiceValidatedEvent
func NewInvoiceValidatedEvent(inv *Invoice) *InvoiceValidatedEvent {
	return &InvoiceValidatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceValidated, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
		TotalTTC:        inv.TotalTTC,
	}
}

// InvoiceConvertedEvent is raised when a proforma becomes a final invoice
type InvoiceConvertedEvent struct {
	shared.BaseDomainEvent
	InvoiceID      uuid.UUID       `json:"invoice_id"`
	ProformaNumber string          `json:"proforma_number"`
	FinalNumber    string          `json:"final_number"`
	TotalTTC       decimal.Decimal `json:"total_ttc"`
}

// NewInvoiceConvertedEvent creates a new InvoiceConvertedEvent
func NewInvoiceConvertedEvent(inv *Invoice, proformaNumber string) *InvoiceConvertedEvent {
	return &InvoiceConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceConverted, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		ProformaNumber:  proformaNumber,
		FinalNumber:     inv.Number,
		TotalTTC:        inv.TotalTTC,
	}
}

// InvoiceSentEvent is raised when a final invoice is dispatched
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID `json:"invoice_id"`
	Number     string    `json:"number"`
	CustomerID uuid.UUID `json:"customer_id"`
}

// NewInvoiceSentEvent creates a new InvoiceSentEvent
func NewInvoiceSentEvent(inv *Invoice) *InvoiceSentEvent {
	return &InvoiceSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceSent, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
		CustomerID:      inv.CustomerID,
	}
}

// InvoicePaidEvent is raised when an invoice is settled
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Number    string          `json:"number"`
	TotalTTC  decimal.Decimal `json:"total_ttc"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
		TotalTTC:        inv.TotalTTC,
	}
}

// InvoiceCancelledEvent is raised when an invoice is voided
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID `json:"invoice_id"`
	Number    string    `json:"number"`
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(inv *Invoice) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCancelled, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
	}
}
