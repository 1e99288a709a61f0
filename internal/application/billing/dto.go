package billing

import (
	"time"

	"github.com/brokersuite/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest represents a request to create a proforma invoice
type CreateInvoiceRequest struct {
	CustomerID   uuid.UUID             `json:"customer_id" binding:"required"`
	CustomerName string                `json:"customer_name" binding:"required,min=1,max=255"`
	DueDate      *time.Time            `json:"due_date"`
	LineItems    []CreateLineItemInput `json:"line_items"`
}

// CreateLineItemInput represents a line in the create invoice request
type CreateLineItemInput struct {
	Description string          `json:"description" binding:"required,min=1,max=255"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPriceHT decimal.Decimal `json:"unit_price_ht" binding:"required"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// UpdateLineItemRequest represents a request to update an invoice line
type UpdateLineItemRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=255"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPriceHT decimal.Decimal `json:"unit_price_ht" binding:"required"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	InvoiceType *billing.InvoiceType   `form:"invoice_type"`
	Status      *billing.InvoiceStatus `form:"status"`
	CustomerID  *uuid.UUID             `form:"customer_id"`
	Page        int                    `form:"page" binding:"min=0"`
	PageSize    int                    `form:"page_size" binding:"min=0,max=100"`
	OrderBy     string                 `form:"order_by"`
	OrderDir    string                 `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LineItemResponse represents an invoice line in API responses
type LineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Position    int             `json:"position"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPriceHT decimal.Decimal `json:"unit_price_ht"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	SubtotalHT  decimal.Decimal `json:"subtotal_ht"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TotalTTC    decimal.Decimal `json:"total_ttc"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID                 uuid.UUID          `json:"id"`
	TenantID           uuid.UUID          `json:"tenant_id"`
	Number             string             `json:"number"`
	InvoiceType        string             `json:"invoice_type"`
	Status             string             `json:"status"`
	CustomerID         uuid.UUID          `json:"customer_id"`
	CustomerName       string             `json:"customer_name"`
	LineItems          []LineItemResponse `json:"line_items"`
	SubtotalHT         decimal.Decimal    `json:"subtotal_ht"`
	TotalTax           decimal.Decimal    `json:"total_tax"`
	TotalTTC           decimal.Decimal    `json:"total_ttc"`
	DueDate            *time.Time         `json:"due_date,omitempty"`
	ValidatedAt        *time.Time         `json:"validated_at,omitempty"`
	ConvertedToFinalAt *time.Time         `json:"converted_to_final_at,omitempty"`
	SentAt             *time.Time         `json:"sent_at,omitempty"`
	PaidAt             *time.Time         `json:"paid_at,omitempty"`
	CancelledAt        *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	Version            int                `json:"version"`
}

// InvoiceListItemResponse represents an invoice in list responses (less detail)
type InvoiceListItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	Number       string          `json:"number"`
	InvoiceType  string          `json:"invoice_type"`
	Status       string          `json:"status"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	TotalTTC     decimal.Decimal `json:"total_ttc"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToInvoiceResponse converts an invoice aggregate to its API representation
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	lines := make([]LineItemResponse, 0, len(inv.LineItems))
	for i := range inv.LineItems {
		li := &inv.LineItems[i]
		lines = append(lines, LineItemResponse{
			ID:          li.ID,
			Position:    li.Position,
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPriceHT: li.UnitPriceHT,
			TaxRate:     li.TaxRate,
			SubtotalHT:  li.SubtotalHT,
			TaxAmount:   li.TaxAmount,
			TotalTTC:    li.TotalTTC,
		})
	}

	return InvoiceResponse{
		ID:                 inv.ID,
		TenantID:           inv.TenantID,
		Number:             inv.Number,
		InvoiceType:        inv.InvoiceType.String(),
		Status:             inv.Status.String(),
		CustomerID:         inv.CustomerID,
		CustomerName:       inv.CustomerName,
		LineItems:          lines,
		SubtotalHT:         inv.SubtotalHT,
		TotalTax:           inv.TotalTax,
		TotalTTC:           inv.TotalTTC,
		DueDate:            inv.DueDate,
		ValidatedAt:        inv.ValidatedAt,
		ConvertedToFinalAt: inv.ConvertedToFinalAt,
		SentAt:             inv.SentAt,
		PaidAt:             inv.PaidAt,
		CancelledAt:        inv.CancelledAt,
		CreatedAt:          inv.CreatedAt,
		UpdatedAt:          inv.UpdatedAt,
		Version:            inv.Version,
	}
}

// ToInvoiceListItemResponses converts invoices to their list representation
func ToInvoiceListItemResponses(invoices []billing.Invoice) []InvoiceListItemResponse {
	items := make([]InvoiceListItemResponse, 0, len(invoices))
	for i := range invoices {
		inv := &invoices[i]
		items = append(items, InvoiceListItemResponse{
			ID:           inv.ID,
			Number:       inv.Number,
			InvoiceType:  inv.InvoiceType.String(),
			Status:       inv.Status.String(),
			CustomerID:   inv.CustomerID,
			CustomerName: inv.CustomerName,
			TotalTTC:     inv.TotalTTC,
			DueDate:      inv.DueDate,
			CreatedAt:    inv.CreatedAt,
			UpdatedAt:    inv.UpdatedAt,
		})
	}
	return items
}
