package billing

import (
	"context"

	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository persists invoice aggregates
type InvoiceRepository interface {
	// FindByIDForTenant loads an invoice with its line items
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindByNumberForTenant loads an invoice by its document number
	FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*Invoice, error)

	// FindAllForTenant lists invoices for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, int64, error)

	// Create inserts a new invoice with its line items
	Create(ctx context.Context, invoice *Invoice) error

	// SaveWithVersion writes the invoice and its line items under an optimistic
	// version check. Two concurrent transitions on the same invoice cannot both
	// succeed; the loser gets ErrConcurrencyConflict and must reload.
	SaveWithVersion(ctx context.Context, invoice *Invoice) error

	// SoftDelete marks the invoice as deleted without freeing its number
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error
}
