package claims

import (
	"time"

	"github.com/brokersuite/backend/internal/domain/claims"
	"github.com/google/uuid"
)

// RegisterClaimRequest represents a request to register a new claim
type RegisterClaimRequest struct {
	CustomerID    uuid.UUID `json:"customer_id" binding:"required"`
	CustomerName  string    `json:"customer_name" binding:"required,min=1,max=200"`
	PolicyNumber  string    `json:"policy_number" binding:"required,max=50"`
	Description   string    `json:"description"`
	ReceptionDate time.Time `json:"reception_date" binding:"required" time_format:"2006-01-02"`
}

// UpdateReceptionDateRequest corrects the reception date of an open claim
type UpdateReceptionDateRequest struct {
	ReceptionDate time.Time `json:"reception_date" binding:"required" time_format:"2006-01-02"`
}

// UpdateDescriptionRequest replaces the free-text description
type UpdateDescriptionRequest struct {
	Description string `json:"description"`
}

// ClaimListFilter represents filter options for the claim list
type ClaimListFilter struct {
	Status       *claims.ClaimStatus `form:"status"`
	CustomerID   *uuid.UUID          `form:"customer_id"`
	Overdue      bool                `form:"overdue"`
	MinimumLevel *int                `form:"minimum_level" binding:"omitempty,min=1,max=3"`
	Page         int                 `form:"page" binding:"min=0"`
	PageSize     int                 `form:"page_size" binding:"min=0,max=100"`
	OrderBy      string              `form:"order_by"`
	OrderDir     string              `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ClaimResponse represents a claim in API responses
type ClaimResponse struct {
	ID              uuid.UUID  `json:"id"`
	TenantID        uuid.UUID  `json:"tenant_id"`
	Number          string     `json:"number"`
	CustomerID      uuid.UUID  `json:"customer_id"`
	CustomerName    string     `json:"customer_name"`
	PolicyNumber    string     `json:"policy_number"`
	Description     string     `json:"description,omitempty"`
	Status          string     `json:"status"`
	ReceptionDate   time.Time  `json:"reception_date"`
	EscalationLevel int        `json:"escalation_level"`
	Deadline        time.Time  `json:"deadline"`
	Overdue         bool       `json:"overdue"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Version         int        `json:"version"`
}

// ToClaimResponse converts a claim aggregate to its API representation
func ToClaimResponse(c *claims.Claim) ClaimResponse {
	return ClaimResponse{
		ID:              c.ID,
		TenantID:        c.TenantID,
		Number:          c.Number,
		CustomerID:      c.CustomerID,
		CustomerName:    c.CustomerName,
		PolicyNumber:    c.PolicyNumber,
		Description:     c.Description,
		Status:          c.Status.String(),
		ReceptionDate:   c.ReceptionDate,
		EscalationLevel: c.EscalationLevel,
		Deadline:        c.Deadline,
		Overdue:         c.IsOverdue(time.Now()),
		ResolvedAt:      c.ResolvedAt,
		ClosedAt:        c.ClosedAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Version:         c.Version,
	}
}

// ToClaimResponses converts claims to their API representation
func ToClaimResponses(items []claims.Claim) []ClaimResponse {
	responses := make([]ClaimResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToClaimResponse(&items[i]))
	}
	return responses
}
