package billing

import (
	"fmt"
	"time"

	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceType represents the legal nature of an invoice
type InvoiceType string

const (
	// InvoiceTypeProforma is a preliminary, non-legally-binding invoice
	InvoiceTypeProforma InvoiceType = "PROFORMA"
	// InvoiceTypeFinal is the legally numbered invoice issued after validation
	InvoiceTypeFinal InvoiceType = "FINAL"
)

// IsValid returns true if the invoice type is valid
func (t InvoiceType) IsValid() bool {
	return t == InvoiceTypeProforma || t == InvoiceTypeFinal
}

// String returns the string representation of InvoiceType
func (t InvoiceType) String() string {
	return string(t)
}

// InvoiceStatus represents the delivery/settlement status of an invoice.
// It is an axis independent from InvoiceType: a proforma stays DRAFT until
// converted, a final invoice moves DRAFT -> SENT -> PAID/OVERDUE/CANCELLED.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid returns true if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further status change is allowed
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// LineItem represents a billed line. It is owned exclusively by its invoice
// and its derived amounts are recomputed from quantity, unit price and rate.
type LineItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Position    int             `gorm:"not null" json:"position"`
	Description string          `gorm:"type:varchar(255);not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitPriceHT decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price_ht"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(6,3);not null" json:"tax_rate"` // percentage, e.g. 20 for 20%
	SubtotalHT  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal_ht"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"tax_amount"`
	TotalTTC    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_ttc"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName returns the table name for GORM
func (LineItem) TableName() string {
	return "invoice_line_items"
}

// recalculate refreshes the derived amounts from the editable fields
func (li *LineItem) recalculate() {
	li.SubtotalHT = li.Quantity.Mul(li.UnitPriceHT)
	li.TaxAmount = li.SubtotalHT.Mul(li.TaxRate).Div(decimal.NewFromInt(100))
	li.TotalTTC = li.SubtotalHT.Add(li.TaxAmount)
}

func validateLineItemInput(description string, quantity, unitPriceHT, taxRate decimal.Decimal) error {
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Line item description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Line item quantity must be positive")
	}
	if unitPriceHT.IsNegative() {
		return shared.NewDomainError("INVALID_UNIT_PRICE", "Unit price cannot be negative")
	}
	if taxRate.IsNegative() {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}
	return nil
}

// Invoice represents an invoice aggregate root with a two-axis lifecycle:
// the type axis (PROFORMA -> FINAL, one-way) and the status axis
// (DRAFT -> SENT -> PAID/OVERDUE/CANCELLED). Totals are always recomputed
// from the full line-item set, never hand-edited.
type Invoice struct {
	shared.TenantAggregateRoot
	Number             string          `gorm:"type:varchar(30);not null;index:idx_invoice_number" json:"number"`
	InvoiceType        InvoiceType     `gorm:"type:varchar(20);not null;index" json:"invoice_type"`
	Status             InvoiceStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	CustomerID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	CustomerName       string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	LineItems          []LineItem      `gorm:"foreignKey:InvoiceID;references:ID" json:"line_items"`
	SubtotalHT         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal_ht"`
	TotalTax           decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_tax"`
	TotalTTC           decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_ttc"`
	DueDate            *time.Time      `json:"due_date"`
	ValidatedAt        *time.Time      `json:"validated_at"`
	ConvertedToFinalAt *time.Time      `json:"converted_to_final_at"`
	SentAt             *time.Time      `json:"sent_at"`
	PaidAt             *time.Time      `json:"paid_at"`
	CancelledAt        *time.Time      `json:"cancelled_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new proforma invoice in DRAFT status.
// The number must come from the proforma numbering scope.
func NewInvoice(
	tenantID uuid.UUID,
	number string,
	customerID uuid.UUID,
	customerName string,
) (*Invoice, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		InvoiceType:         InvoiceTypeProforma,
		Status:              InvoiceStatusDraft,
		CustomerID:          customerID,
		CustomerName:        customerName,
		LineItems:           make([]LineItem, 0),
		SubtotalHT:          decimal.Zero,
		TotalTax:            decimal.Zero,
		TotalTTC:            decimal.Zero,
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// SetDueDate sets the payment due date
func (inv *Invoice) SetDueDate(due time.Time) {
	inv.DueDate = &due
	inv.UpdatedAt = time.Now()
}

// AddLineItem appends a billed line and recomputes the invoice totals
func (inv *Invoice) AddLineItem(description string, quantity, unitPriceHT, taxRate decimal.Decimal) (*LineItem, error) {
	if err := inv.ensureEditable(); err != nil {
		return nil, err
	}
	if err := validateLineItemInput(description, quantity, unitPriceHT, taxRate); err != nil {
		return nil, err
	}

	item := LineItem{
		ID:          uuid.New(),
		InvoiceID:   inv.ID,
		Position:    len(inv.LineItems) + 1,
		Description: description,
		Quantity:    quantity,
		UnitPriceHT: unitPriceHT,
		TaxRate:     taxRate,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	item.recalculate()

	inv.LineItems = append(inv.LineItems, item)
	inv.recomputeTotals()
	inv.UpdatedAt = time.Now()
	return &inv.LineItems[len(inv.LineItems)-1], nil
}

// UpdateLineItem replaces the editable fields of a line and recomputes totals
func (inv *Invoice) UpdateLineItem(itemID uuid.UUID, description string, quantity, unitPriceHT, taxRate decimal.Decimal) error {
	if err := inv.ensureEditable(); err != nil {
		return err
	}
	if err := validateLineItemInput(description, quantity, unitPriceHT, taxRate); err != nil {
		return err
	}

	for i := range inv.LineItems {
		if inv.LineItems[i].ID == itemID {
			item := &inv.LineItems[i]
			item.Description = description
			item.Quantity = quantity
			item.UnitPriceHT = unitPriceHT
			item.TaxRate = taxRate
			item.UpdatedAt = time.Now()
			item.recalculate()

			inv.recomputeTotals()
			inv.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RemoveLineItem deletes a line and recomputes totals
func (inv *Invoice) RemoveLineItem(itemID uuid.UUID) error {
	if err := inv.ensureEditable(); err != nil {
		return err
	}

	for i := range inv.LineItems {
		if inv.LineItems[i].ID == itemID {
			inv.LineItems = append(inv.LineItems[:i], inv.LineItems[i+1:]...)
			for j := range inv.LineItems {
				inv.LineItems[j].Position = j + 1
			}
			inv.recomputeTotals()
			inv.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// ensureEditable guards line-item mutations: only DRAFT invoices are editable
func (inv *Invoice) ensureEditable() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify line items of a %s invoice", inv.Status))
	}
	return nil
}

// recomputeTotals derives the invoice totals from the full line-item set.
// Tax is computed per line then summed, so mixed tax rates are exact.
func (inv *Invoice) recomputeTotals() {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for i := range inv.LineItems {
		subtotal = subtotal.Add(inv.LineItems[i].SubtotalHT)
		tax = tax.Add(inv.LineItems[i].TaxAmount)
	}
	inv.SubtotalHT = subtotal
	inv.TotalTax = tax
	inv.TotalTTC = subtotal.Add(tax)
}

// Validate marks a proforma as validated, gating its conversion to final.
// Fails without side effects on a non-proforma or an already validated invoice.
func (inv *Invoice) Validate() error {
	if inv.InvoiceType != InvoiceTypeProforma {
		return shared.ErrInvalidTransition
	}
	if inv.ValidatedAt != nil {
		return shared.ErrInvalidTransition
	}

	now := time.Now()
	inv.ValidatedAt = &now
	inv.UpdatedAt = now
	inv.AddDomainEvent(NewInvoiceValidatedEvent(inv))

	return nil
}

// ConvertToFinal turns a validated proforma into a final invoice. The type
// transition is one-way and mints a brand-new number allocated from the
// final numbering scope; the proforma number is not carried over.
func (inv *Invoice) ConvertToFinal(finalNumber string) error {
	if inv.InvoiceType != InvoiceTypeProforma {
		return shared.ErrInvalidTransition
	}
	if inv.ValidatedAt == nil {
		return shared.ErrPreconditionNotMet
	}
	if finalNumber == "" {
		return shared.NewDomainError("INVALID_NUMBER", "Final invoice number cannot be empty")
	}

	previousNumber := inv.Number
	now := time.Now()
	inv.InvoiceType = InvoiceTypeFinal
	inv.Number = finalNumber
	inv.ConvertedToFinalAt = &now
	inv.UpdatedAt = now
	inv.AddDomainEvent(NewInvoiceConvertedEvent(inv, previousNumber))

	return nil
}

// MarkSent records the dispatch of a final invoice and moves it to SENT.
// Proformas cannot be sent, and an invoice is sent at most once.
func (inv *Invoice) MarkSent() error {
	if inv.InvoiceType != InvoiceTypeFinal {
		return shared.ErrInvalidTransition
	}
	if inv.SentAt != nil || inv.Status != InvoiceStatusDraft {
		return shared.ErrInvalidTransition
	}

	now := time.Now()
	inv.Status = InvoiceStatusSent
	inv.SentAt = &now
	inv.UpdatedAt = now
	inv.AddDomainEvent(NewInvoiceSentEvent(inv))

	return nil
}

// MarkPaid records the settlement of a sent invoice (administrative action)
func (inv *Invoice) MarkPaid() error {
	if inv.Status != InvoiceStatusSent && inv.Status != InvoiceStatusOverdue {
		return shared.ErrInvalidTransition
	}

	now := time.Now()
	inv.Status = InvoiceStatusPaid
	inv.PaidAt = &now
	inv.UpdatedAt = now
	inv.AddDomainEvent(NewInvoicePaidEvent(inv))

	return nil
}

// MarkOverdue flags a sent invoice as overdue (administrative action).
// IsOverdue is the computed predicate; this stored status mirrors the
// legacy behaviour of the surrounding system.
func (inv *Invoice) MarkOverdue() error {
	if inv.Status != InvoiceStatusSent {
		return shared.ErrInvalidTransition
	}

	inv.Status = InvoiceStatusOverdue
	inv.UpdatedAt = time.Now()
	return nil
}

// Cancel voids the invoice. Allowed from any non-terminal status.
func (inv *Invoice) Cancel() error {
	if inv.Status.IsTerminal() {
		return shared.ErrInvalidTransition
	}

	now := time.Now()
	inv.Status = InvoiceStatusCancelled
	inv.CancelledAt = &now
	inv.UpdatedAt = now
	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv))

	return nil
}

// IsOverdue reports whether the invoice is past due and unsettled at the
// given time, regardless of the stored OVERDUE status.
func (inv *Invoice) IsOverdue(now time.Time) bool {
	if inv.DueDate == nil {
		return false
	}
	if inv.Status == InvoiceStatusPaid || inv.Status == InvoiceStatusCancelled {
		return false
	}
	return now.After(*inv.DueDate)
}

// IsProforma returns true if the invoice is still a proforma
func (inv *Invoice) IsProforma() bool {
	return inv.InvoiceType == InvoiceTypeProforma
}

// IsFinal returns true if the invoice has been converted to final
func (inv *Invoice) IsFinal() bool {
	return inv.InvoiceType == InvoiceTypeFinal
}

// IsValidated returns true if the proforma has been validated
func (inv *Invoice) IsValidated() bool {
	return inv.ValidatedAt != nil
}

// LineItemCount returns the number of billed lines
func (inv *Invoice) LineItemCount() int {
	return len(inv.LineItems)
}
