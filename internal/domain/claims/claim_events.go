package claims

import (
	"time"

	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for Claim
const AggregateTypeClaim = "Claim"

// Event type constants for Claim
const (
	EventTypeClaimRegistered = "ClaimRegistered"
	EventTypeClaimEscalated  = "ClaimEscalated"
	EventTypeClaimResolved   = "ClaimResolved"
	EventTypeClaimClosed     = "ClaimClosed"
)

// ClaimRegisteredEvent is raised when a new claim is registered
type ClaimRegisteredEvent struct {
	shared.BaseDomainEvent
	ClaimID       uuid.UUID `json:"claim_id"`
	Number        string    `json:"number"`
	CustomerID    uuid.UUID `json:"customer_id"`
	PolicyNumber  string    `json:"policy_number"`
	ReceptionDate time.Time `json:"reception_date"`
	Deadline      time.Time `json:"deadline"`
}

// NewClaimRegisteredEvent creates a new ClaimRegisteredEvent
func NewClaimRegisteredEvent(claim *Claim) *ClaimRegisteredEvent {
	return &ClaimRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClaimRegistered, AggregateTypeClaim, claim.ID, claim.TenantID),
		ClaimID:         claim.ID,
		Number:          claim.Number,
		CustomerID:      claim.CustomerID,
		PolicyNumber:    claim.PolicyNumber,
		ReceptionDate:   claim.ReceptionDate,
		Deadline:        claim.Deadline,
	}
}

// ClaimEscalatedEvent is raised when a claim moves up an escalation level
type ClaimEscalatedEvent struct {
	shared.BaseDomainEvent
	ClaimID       uuid.UUID `json:"claim_id"`
	Number        string    `json:"number"`
	PreviousLevel int       `json:"previous_level"`
	NewLevel      int       `json:"new_level"`
	NewDeadline   time.Time `json:"new_deadline"`
}

// NewClaimEscalatedEvent creates a new ClaimEscalatedEvent
func NewClaimEscalatedEvent(claim *Claim, previousLevel int) *ClaimEscalatedEvent {
	return &ClaimEscalatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClaimEscalated, AggregateTypeClaim, claim.ID, claim.TenantID),
		ClaimID:         claim.ID,
		Number:          claim.Number,
		PreviousLevel:   previousLevel,
		NewLevel:        claim.EscalationLevel,
		NewDeadline:     claim.Deadline,
	}
}

// ClaimResolvedEvent is raised when a claim is settled
type ClaimResolvedEvent struct {
	shared.BaseDomainEvent
	ClaimID uuid.UUID `json:"claim_id"`
	Number  string    `json:"number"`
}

// NewClaimResolvedEvent creates a new ClaimResolvedEvent
func NewClaimResolvedEvent(claim *Claim) *ClaimResolvedEvent {
	return &ClaimResolvedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClaimResolved, AggregateTypeClaim, claim.ID, claim.TenantID),
		ClaimID:         claim.ID,
		Number:          claim.Number,
	}
}

// ClaimClosedEvent is raised when a claim is closed without resolution
type ClaimClosedEvent struct {
	shared.BaseDomainEvent
	ClaimID uuid.UUID `json:"claim_id"`
	Number  string    `json:"number"`
}

// NewClaimClosedEvent creates a new ClaimClosedEvent
func NewClaimClosedEvent(claim *Claim) *ClaimClosedEvent {
	return &ClaimClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClaimClosed, AggregateTypeClaim, claim.ID, claim.TenantID),
		ClaimID:         claim.ID,
		Number:          claim.Number,
	}
}
