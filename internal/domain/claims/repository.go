package claims

import (
	"context"
	"time"

	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClaimFilter narrows claim queries
type ClaimFilter struct {
	shared.Filter
	Status       *ClaimStatus
	CustomerID   *uuid.UUID
	OverdueAsOf  *time.Time
	MinimumLevel *int
}

// ClaimRepository persists claim aggregates
type ClaimRepository interface {
	// FindByIDForTenant loads a claim
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Claim, error)

	// FindByNumberForTenant loads a claim by its document number
	FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*Claim, error)

	// FindAllForTenant lists claims for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ClaimFilter) ([]Claim, int64, error)

	// Create inserts a new claim
	Create(ctx context.Context, claim *Claim) error

	// SaveWithVersion writes the claim under an optimistic version check
	SaveWithVersion(ctx context.Context, claim *Claim) error

	// SoftDelete marks the claim as deleted without freeing its number
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error
}
