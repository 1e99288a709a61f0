package documents

import (
	"context"

	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentFilter narrows document queries
type DocumentFilter struct {
	shared.Filter
	Kind       *DocumentKind
	Status     *DocumentStatus
	CustomerID *uuid.UUID
}

// DocumentRepository persists document aggregates
type DocumentRepository interface {
	// FindByIDForTenant loads a document
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Document, error)

	// FindByNumberForTenant loads a document by its number
	FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*Document, error)

	// FindAllForTenant lists documents for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter DocumentFilter) ([]Document, int64, error)

	// Create inserts a new document
	Create(ctx context.Context, doc *Document) error

	// SaveWithVersion writes the document under an optimistic version check
	SaveWithVersion(ctx context.Context, doc *Document) error

	// SoftDelete marks the document as deleted without freeing its number
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error
}
