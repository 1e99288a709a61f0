package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// Common allowed sort fields for entities with base fields
// These are the common fields present in most entities

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"number":        true,
	"invoice_type":  true,
	"status":        true,
	"customer_id":   true,
	"customer_name": true,
	"subtotal_ht":   true,
	"total_ttc":     true,
	"due_date":      true,
	"sent_at":       true,
	"paid_at":       true,
}

// ClaimSortFields contains allowed sort fields for claims
var ClaimSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"number":           true,
	"customer_id":      true,
	"customer_name":    true,
	"policy_number":    true,
	"status":           true,
	"reception_date":   true,
	"escalation_level": true,
	"deadline":         true,
}

// DocumentSortFields contains allowed sort fields for documents
var DocumentSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"number":        true,
	"kind":          true,
	"status":        true,
	"customer_id":   true,
	"customer_name": true,
	"title":         true,
	"amount":        true,
	"issued_at":     true,
}

// StockMovementSortFields contains allowed sort fields for stock movements
var StockMovementSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"product_id":    true,
	"warehouse_id":  true,
	"movement_type": true,
	"quantity":      true,
	"unit_cost":     true,
	"total_cost":    true,
	"occurred_at":   true,
}
