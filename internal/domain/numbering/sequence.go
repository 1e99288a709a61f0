package numbering

import (
	"time"

	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentType identifies a numbered legal/financial document family.
// Proforma and final invoices are separate types on purpose: they draw their
// numbers from independent sequences even though both format with the FAC prefix.
type DocumentType string

const (
	// DocumentTypeClaim is an insurance claim file (REC)
	DocumentTypeClaim DocumentType = "CLAIM"
	// DocumentTypeInvoiceProforma is a preliminary, non-binding invoice (FAC)
	DocumentTypeInvoiceProforma DocumentType = "INVOICE_PROFORMA"
	// DocumentTypeInvoiceFinal is a legally numbered final invoice (FAC)
	DocumentTypeInvoiceFinal DocumentType = "INVOICE_FINAL"
	// DocumentTypeQuote is a commercial quote (DEV)
	DocumentTypeQuote DocumentType = "QUOTE"
	// DocumentTypeLease is a property lease contract (BAIL)
	DocumentTypeLease DocumentType = "BAIL"
)

// String returns the string representation of DocumentType
func (t DocumentType) String() string {
	return string(t)
}

// IsValid returns true if the document type is valid
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeClaim,
		DocumentTypeInvoiceProforma,
		DocumentTypeInvoiceFinal,
		DocumentTypeQuote,
		DocumentTypeLease:
		return true
	}
	return false
}

// Prefix returns the document number prefix for this type
func (t DocumentType) Prefix() string {
	switch t {
	case DocumentTypeClaim:
		return "REC"
	case DocumentTypeInvoiceProforma, DocumentTypeInvoiceFinal:
		return "FAC"
	case DocumentTypeQuote:
		return "DEV"
	case DocumentTypeLease:
		return "BAIL"
	}
	return ""
}

// Scope is the key under which numbers are allocated independently:
// one counter per (tenant, document type, period).
type Scope struct {
	TenantID     uuid.UUID
	DocumentType DocumentType
	PeriodKey    string
}

// NewYearScope builds a scope with a calendar-year period key for the given time
func NewYearScope(tenantID uuid.UUID, docType DocumentType, at time.Time) Scope {
	return Scope{
		TenantID:     tenantID,
		DocumentType: docType,
		PeriodKey:    at.Format("2006"),
	}
}

// Validate checks that the scope is complete
func (s Scope) Validate() error {
	if s.TenantID == uuid.Nil {
		return shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if !s.DocumentType.IsValid() {
		return shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Invalid document type")
	}
	if s.PeriodKey == "" {
		return shared.NewDomainError("INVALID_PERIOD", "Period key cannot be empty")
	}
	return nil
}

// SequenceCounter is the durable per-scope counter row. It is created lazily on
// first allocation, mutated only by the allocator, and never deleted, so a value
// is never reused even if every document in the period is later soft-deleted.
// LastValue is monotonically non-decreasing.
type SequenceCounter struct {
	shared.BaseEntity
	TenantID     uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:uq_seq_scope,priority:1"`
	DocumentType DocumentType `gorm:"type:varchar(30);not null;uniqueIndex:uq_seq_scope,priority:2"`
	PeriodKey    string       `gorm:"type:varchar(10);not null;uniqueIndex:uq_seq_scope,priority:3"`
	LastValue    int64        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SequenceCounter) TableName() string {
	return "sequence_counters"
}

// NewSequenceCounter creates a counter row for a scope, starting at zero
func NewSequenceCounter(scope Scope) (*SequenceCounter, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return &SequenceCounter{
		BaseEntity:   shared.NewBaseEntity(),
		TenantID:     scope.TenantID,
		DocumentType: scope.DocumentType,
		PeriodKey:    scope.PeriodKey,
		LastValue:    0,
	}, nil
}

// Scope returns the counter's scope key
func (c *SequenceCounter) Scope() Scope {
	return Scope{
		TenantID:     c.TenantID,
		DocumentType: c.DocumentType,
		PeriodKey:    c.PeriodKey,
	}
}
