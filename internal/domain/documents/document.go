package documents

import (
	"time"

	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DocumentKind distinguishes the numbered commercial documents that share
// this aggregate
type DocumentKind string

const (
	// DocumentKindQuote is a service quote (DEV numbers)
	DocumentKindQuote DocumentKind = "QUOTE"
	// DocumentKindLease is a property lease (BAIL numbers)
	DocumentKindLease DocumentKind = "LEASE"
)

// String returns the string representation of DocumentKind
func (k DocumentKind) String() string {
	return string(k)
}

// IsValid returns true if the document kind is valid
func (k DocumentKind) IsValid() bool {
	return k == DocumentKindQuote || k == DocumentKindLease
}

// DocumentStatus represents the issuance status of a document
type DocumentStatus string

const (
	DocumentStatusDraft    DocumentStatus = "DRAFT"
	DocumentStatusIssued   DocumentStatus = "ISSUED"
	DocumentStatusArchived DocumentStatus = "ARCHIVED"
)

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// Document is a numbered commercial document (quote or lease). Its number is
// allocated once at creation and survives soft deletion; deleting a quote
// never frees DEV-2025-00007 for reuse.
type Document struct {
	shared.TenantAggregateRoot
	Number       string          `gorm:"type:varchar(30);not null;index:idx_document_number" json:"number"`
	Kind         DocumentKind    `gorm:"type:varchar(20);not null;index" json:"kind"`
	Status       DocumentStatus  `gorm:"type:varchar(20);not null;index" json:"status"`
	CustomerID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	CustomerName string          `gorm:"type:varchar(200);not null" json:"customer_name"`
	Title        string          `gorm:"type:varchar(255);not null" json:"title"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	IssuedAt     *time.Time      `json:"issued_at,omitempty"`
	ArchivedAt   *time.Time      `json:"archived_at,omitempty"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "documents"
}

// NewDocument creates a new draft document
func NewDocument(
	tenantID uuid.UUID,
	number string,
	kind DocumentKind,
	customerID uuid.UUID,
	customerName string,
	title string,
) (*Document, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Document number cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Invalid document kind")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Document title cannot be empty")
	}

	doc := &Document{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		Kind:                kind,
		Status:              DocumentStatusDraft,
		CustomerID:          customerID,
		CustomerName:        customerName,
		Title:               title,
		Amount:              decimal.Zero,
	}
	doc.AddDomainEvent(NewDocumentCreatedEvent(doc))
	return doc, nil
}

// SetAmount sets the document amount while in draft
func (d *Document) SetAmount(amount decimal.Decimal) error {
	if d.Status != DocumentStatusDraft {
		return shared.ErrInvalidTransition
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Document amount cannot be negative")
	}
	d.Amount = amount
	d.UpdatedAt = time.Now()
	return nil
}

// SetTitle renames the document while in draft
func (d *Document) SetTitle(title string) error {
	if d.Status != DocumentStatusDraft {
		return shared.ErrInvalidTransition
	}
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Document title cannot be empty")
	}
	d.Title = title
	d.UpdatedAt = time.Now()
	return nil
}

// Issue marks the document as sent to the customer
func (d *Document) Issue() error {
	if d.Status != DocumentStatusDraft {
		return shared.ErrInvalidTransition
	}
	now := time.Now()
	d.Status = DocumentStatusIssued
	d.IssuedAt = &now
	d.UpdatedAt = now
	d.AddDomainEvent(NewDocumentIssuedEvent(d))
	return nil
}

// Archive retires the document. Archived documents keep their number.
func (d *Document) Archive() error {
	if d.Status == DocumentStatusArchived {
		return shared.ErrInvalidTransition
	}
	now := time.Now()
	d.Status = DocumentStatusArchived
	d.ArchivedAt = &now
	d.UpdatedAt = now
	return nil
}
