package claims

import (
	"time"

	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClaimStatus represents the handling status of a claim
type ClaimStatus string

const (
	// ClaimStatusOpen means the claim awaits a response within its current window
	ClaimStatusOpen ClaimStatus = "OPEN"
	// ClaimStatusResolved means the claim was settled with the insurer
	ClaimStatusResolved ClaimStatus = "RESOLVED"
	// ClaimStatusClosed means the claim was closed without resolution
	ClaimStatusClosed ClaimStatus = "CLOSED"
)

// String returns the string representation of ClaimStatus
func (s ClaimStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are allowed
func (s ClaimStatus) IsTerminal() bool {
	return s == ClaimStatusResolved || s == ClaimStatusClosed
}

// Claim is an insurance claim tracked against regulatory response deadlines.
// The claim number is allocated once at creation and never reused, even after
// soft deletion. The deadline is derived from the reception date and the
// escalation level, never edited directly.
type Claim struct {
	shared.TenantAggregateRoot
	Number          string         `gorm:"type:varchar(30);not null;index:idx_claim_number" json:"number"`
	CustomerID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"customer_id"`
	CustomerName    string         `gorm:"type:varchar(200);not null" json:"customer_name"`
	PolicyNumber    string         `gorm:"type:varchar(50);not null" json:"policy_number"`
	Description     string         `gorm:"type:text" json:"description"`
	Status          ClaimStatus    `gorm:"type:varchar(20);not null;index" json:"status"`
	ReceptionDate   time.Time      `gorm:"not null" json:"reception_date"`
	EscalationLevel int            `gorm:"not null;default:1" json:"escalation_level"`
	Deadline        time.Time      `gorm:"not null;index" json:"deadline"`
	ResolvedAt      *time.Time     `json:"resolved_at,omitempty"`
	ClosedAt        *time.Time     `json:"closed_at,omitempty"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the table name for GORM
func (Claim) TableName() string {
	return "claims"
}

// NewClaim creates a new claim at escalation level 1
func NewClaim(
	tenantID uuid.UUID,
	number string,
	customerID uuid.UUID,
	customerName string,
	policyNumber string,
	receptionDate time.Time,
) (*Claim, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Claim number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	if receptionDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_RECEPTION_DATE", "Reception date cannot be empty")
	}

	deadline, err := ComputeDeadline(receptionDate, 1)
	if err != nil {
		return nil, err
	}

	claim := &Claim{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		CustomerID:          customerID,
		CustomerName:        customerName,
		PolicyNumber:        policyNumber,
		Status:              ClaimStatusOpen,
		ReceptionDate:       receptionDate,
		EscalationLevel:     1,
		Deadline:            deadline,
	}
	claim.AddDomainEvent(NewClaimRegisteredEvent(claim))
	return claim, nil
}

// SetDescription sets the free-text description
func (c *Claim) SetDescription(description string) {
	c.Description = description
	c.UpdatedAt = time.Now()
}

// SetReceptionDate corrects the reception date and recomputes the deadline
// for the current escalation level
func (c *Claim) SetReceptionDate(receptionDate time.Time) error {
	if c.Status.IsTerminal() {
		return shared.ErrInvalidTransition
	}
	if receptionDate.IsZero() {
		return shared.NewDomainError("INVALID_RECEPTION_DATE", "Reception date cannot be empty")
	}
	deadline, err := ComputeDeadline(receptionDate, c.EscalationLevel)
	if err != nil {
		return err
	}
	c.ReceptionDate = receptionDate
	c.Deadline = deadline
	c.UpdatedAt = time.Now()
	return nil
}

// Escalate moves the claim to the next escalation level and grants a fresh
// response window counted from the reception date
func (c *Claim) Escalate() error {
	if c.Status.IsTerminal() {
		return shared.ErrInvalidTransition
	}
	if c.EscalationLevel >= MaxEscalationLevel {
		return shared.NewDomainError("MAX_ESCALATION_REACHED", "Claim is already at the highest escalation level")
	}

	previousLevel := c.EscalationLevel
	deadline, err := ComputeDeadline(c.ReceptionDate, c.EscalationLevel+1)
	if err != nil {
		return err
	}

	c.EscalationLevel++
	c.Deadline = deadline
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewClaimEscalatedEvent(c, previousLevel))
	return nil
}

// Resolve marks the claim as settled
func (c *Claim) Resolve() error {
	if c.Status.IsTerminal() {
		return shared.ErrInvalidTransition
	}
	now := time.Now()
	c.Status = ClaimStatusResolved
	c.ResolvedAt = &now
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewClaimResolvedEvent(c))
	return nil
}

// Close marks the claim as closed without resolution
func (c *Claim) Close() error {
	if c.Status.IsTerminal() {
		return shared.ErrInvalidTransition
	}
	now := time.Now()
	c.Status = ClaimStatusClosed
	c.ClosedAt = &now
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewClaimClosedEvent(c))
	return nil
}

// IsOverdue returns true if the claim is still open past its deadline
func (c *Claim) IsOverdue(now time.Time) bool {
	if c.Status.IsTerminal() {
		return false
	}
	return now.After(c.Deadline)
}

// CanEscalate returns true if the claim has escalation levels left
func (c *Claim) CanEscalate() bool {
	return !c.Status.IsTerminal() && c.EscalationLevel < MaxEscalationLevel
}
