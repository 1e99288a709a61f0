package claims

import (
	"context"
	"time"

	"github.com/brokersuite/backend/internal/domain/claims"
	"github.com/brokersuite/backend/internal/domain/numbering"
	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/brokersuite/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// ClaimService handles claim registration, escalation and deadline tracking
type ClaimService struct {
	claimRepo       claims.ClaimRepository
	numbers         *numbering.Allocator
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewClaimService creates a new ClaimService
func NewClaimService(claimRepo claims.ClaimRepository, numbers *numbering.Allocator) *ClaimService {
	return &ClaimService{
		claimRepo: claimRepo,
		numbers:   numbers,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ClaimService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *ClaimService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Register creates a claim with a freshly allocated REC number. The number's
// period follows the reception date, so a claim received in December 2025 and
// registered in January still numbers under 2025.
func (s *ClaimService) Register(ctx context.Context, tenantID uuid.UUID, req RegisterClaimRequest) (*ClaimResponse, error) {
	number, err := s.numbers.NextNumber(ctx, tenantID, numbering.DocumentTypeClaim, req.ReceptionDate)
	if err != nil {
		return nil, err
	}

	claim, err := claims.NewClaim(tenantID, number, req.CustomerID, req.CustomerName, req.PolicyNumber, req.ReceptionDate)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		claim.SetDescription(req.Description)
	}

	if err := s.claimRepo.Create(ctx, claim); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordDocumentIssued(ctx, tenantID, numbering.DocumentTypeClaim.String())
	}

	s.publishEvents(ctx, claim)

	response := ToClaimResponse(claim)
	return &response, nil
}

// GetByID retrieves a claim by ID
func (s *ClaimService) GetByID(ctx context.Context, tenantID, claimID uuid.UUID) (*ClaimResponse, error) {
	claim, err := s.claimRepo.FindByIDForTenant(ctx, tenantID, claimID)
	if err != nil {
		return nil, err
	}
	response := ToClaimResponse(claim)
	return &response, nil
}

// GetByNumber retrieves a claim by document number
func (s *ClaimService) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*ClaimResponse, error) {
	claim, err := s.claimRepo.FindByNumberForTenant(ctx, tenantID, number)
	if err != nil {
		return nil, err
	}
	response := ToClaimResponse(claim)
	return &response, nil
}

// List retrieves claims with filtering and pagination. The overdue flag
// filters to open claims whose deadline already passed.
func (s *ClaimService) List(ctx context.Context, tenantID uuid.UUID, filter ClaimListFilter) ([]ClaimResponse, int64, error) {
	domainFilter := claims.ClaimFilter{
		Filter:       shared.DefaultFilter(),
		Status:       filter.Status,
		CustomerID:   filter.CustomerID,
		MinimumLevel: filter.MinimumLevel,
	}
	if filter.Overdue {
		now := time.Now()
		domainFilter.OverdueAsOf = &now
	}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}

	items, total, err := s.claimRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToClaimResponses(items), total, nil
}

// UpdateReceptionDate corrects the reception date, recomputing the deadline
func (s *ClaimService) UpdateReceptionDate(ctx context.Context, tenantID, claimID uuid.UUID, req UpdateReceptionDateRequest) (*ClaimResponse, error) {
	return s.mutate(ctx, tenantID, claimID, func(c *claims.Claim) error {
		return c.SetReceptionDate(req.ReceptionDate)
	})
}

// UpdateDescription replaces the free-text description
func (s *ClaimService) UpdateDescription(ctx context.Context, tenantID, claimID uuid.UUID, req UpdateDescriptionRequest) (*ClaimResponse, error) {
	return s.mutate(ctx, tenantID, claimID, func(c *claims.Claim) error {
		c.SetDescription(req.Description)
		return nil
	})
}

// Escalate moves the claim to the next escalation level with a fresh window
func (s *ClaimService) Escalate(ctx context.Context, tenantID, claimID uuid.UUID) (*ClaimResponse, error) {
	return s.mutate(ctx, tenantID, claimID, (*claims.Claim).Escalate)
}

// Resolve marks the claim as settled with the insurer
func (s *ClaimService) Resolve(ctx context.Context, tenantID, claimID uuid.UUID) (*ClaimResponse, error) {
	return s.mutate(ctx, tenantID, claimID, (*claims.Claim).Resolve)
}

// Close marks the claim as closed without resolution
func (s *ClaimService) Close(ctx context.Context, tenantID, claimID uuid.UUID) (*ClaimResponse, error) {
	return s.mutate(ctx, tenantID, claimID, (*claims.Claim).Close)
}

// Delete soft-deletes a claim. Its number stays consumed.
func (s *ClaimService) Delete(ctx context.Context, tenantID, claimID uuid.UUID) error {
	return s.claimRepo.SoftDelete(ctx, tenantID, claimID)
}

// mutate loads, applies a change and saves with the version check
func (s *ClaimService) mutate(ctx context.Context, tenantID, claimID uuid.UUID, apply func(*claims.Claim) error) (*ClaimResponse, error) {
	claim, err := s.claimRepo.FindByIDForTenant(ctx, tenantID, claimID)
	if err != nil {
		return nil, err
	}

	if err := apply(claim); err != nil {
		return nil, err
	}

	if err := s.claimRepo.SaveWithVersion(ctx, claim); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, claim)

	response := ToClaimResponse(claim)
	return &response, nil
}

// publishEvents drains the aggregate's pending events to the bus
func (s *ClaimService) publishEvents(ctx context.Context, claim *claims.Claim) {
	if s.eventPublisher == nil {
		return
	}
	if events := claim.GetDomainEvents(); len(events) > 0 {
		// Event delivery is best effort; the state change is already durable
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	claim.ClearDomainEvents()
}
