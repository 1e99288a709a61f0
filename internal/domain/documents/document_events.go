package documents

import (
	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for Document
const AggregateTypeDocument = "Document"

// Event type constants for Document
const (
	EventTypeDocumentCreated = "DocumentCreated"
	EventTypeDocumentIssued  = "DocumentIssued"
)

// DocumentCreatedEvent is raised when a new document is created
type DocumentCreatedEvent struct {
	shared.BaseDomainEvent
	DocumentID uuid.UUID    `json:"document_id"`
	Number     string       `json:"number"`
	Kind       DocumentKind `json:"kind"`
	CustomerID uuid.UUID    `json:"customer_id"`
}

// NewDocumentCreatedEvent creates a new DocumentCreatedEvent
func NewDocumentCreatedEvent(doc *Document) *DocumentCreatedEvent {
	return &DocumentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentCreated, AggregateTypeDocument, doc.ID, doc.TenantID),
		DocumentID:      doc.ID,
		Number:          doc.Number,
		Kind:            doc.Kind,
		CustomerID:      doc.CustomerID,
	}
}

// DocumentIssuedEvent is raised when a document is issued to the customer
type DocumentIssuedEvent struct {
	shared.BaseDomainEvent
	DocumentID uuid.UUID       `json:"document_id"`
	Number     string          `json:"number"`
	Kind       DocumentKind    `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
}

// NewDocumentIssuedEvent creates a new DocumentIssuedEvent
func NewDocumentIssuedEvent(doc *Document) *DocumentIssuedEvent {
	return &DocumentIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentIssued, AggregateTypeDocument, doc.ID, doc.TenantID),
		DocumentID:      doc.ID,
		Number:          doc.Number,
		Kind:            doc.Kind,
		Amount:          doc.Amount,
	}
}
