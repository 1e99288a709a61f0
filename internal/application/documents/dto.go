package documents

import (
	"time"

	"github.com/brokersuite/backend/internal/domain/documents"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDocumentRequest represents a request to create a quote or lease
type CreateDocumentRequest struct {
	Kind         string           `json:"kind" binding:"required,oneof=QUOTE LEASE"`
	CustomerID   uuid.UUID        `json:"customer_id" binding:"required"`
	CustomerName string           `json:"customer_name" binding:"required,min=1,max=200"`
	Title        string           `json:"title" binding:"required,min=1,max=255"`
	Amount       *decimal.Decimal `json:"amount"`
}

// UpdateDocumentRequest represents draft edits to a document
type UpdateDocumentRequest struct {
	Title  *string          `json:"title" binding:"omitempty,min=1,max=255"`
	Amount *decimal.Decimal `json:"amount"`
}

// DocumentListFilter represents filter options for the document list
type DocumentListFilter struct {
	Kind       *documents.DocumentKind   `form:"kind"`
	Status     *documents.DocumentStatus `form:"status"`
	CustomerID *uuid.UUID                `form:"customer_id"`
	Page       int                       `form:"page" binding:"min=0"`
	PageSize   int                       `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string                    `form:"order_by"`
	OrderDir   string                    `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// DocumentResponse represents a document in API responses
type DocumentResponse struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	Number       string          `json:"number"`
	Kind         string          `json:"kind"`
	Status       string          `json:"status"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Title        string          `json:"title"`
	Amount       decimal.Decimal `json:"amount"`
	IssuedAt     *time.Time      `json:"issued_at,omitempty"`
	ArchivedAt   *time.Time      `json:"archived_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// ToDocumentResponse converts a document aggregate to its API representation
func ToDocumentResponse(d *documents.Document) DocumentResponse {
	return DocumentResponse{
		ID:           d.ID,
		TenantID:     d.TenantID,
		Number:       d.Number,
		Kind:         d.Kind.String(),
		Status:       d.Status.String(),
		CustomerID:   d.CustomerID,
		CustomerName: d.CustomerName,
		Title:        d.Title,
		Amount:       d.Amount,
		IssuedAt:     d.IssuedAt,
		ArchivedAt:   d.ArchivedAt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		Version:      d.Version,
	}
}

// ToDocumentResponses converts documents to their API representation
func ToDocumentResponses(items []documents.Document) []DocumentResponse {
	responses := make([]DocumentResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToDocumentResponse(&items[i]))
	}
	return responses
}
