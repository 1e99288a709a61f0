package billing

import (
	"context"
	"time"

	"github.com/brokersuite/backend/internal/domain/billing"
	"github.com/brokersuite/backend/internal/domain/numbering"
	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/brokersuite/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// InvoiceService handles invoice lifecycle operations
type InvoiceService struct {
	invoiceRepo     billing.InvoiceRepository
	numbers         *numbering.Allocator
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository, numbers *numbering.Allocator) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		numbers:     numbers,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *InvoiceService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create creates a proforma invoice with a freshly allocated number.
// The number is allocated before the insert; if the insert fails the number
// stays consumed, which is the accepted gap-over-duplicate trade-off.
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	number, err := s.numbers.NextNumber(ctx, tenantID, numbering.DocumentTypeInvoiceProforma, time.Now())
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoice(tenantID, number, req.CustomerID, req.CustomerName)
	if err != nil {
		return nil, err
	}

	if req.DueDate != nil {
		invoice.SetDueDate(*req.DueDate)
	}

	for _, line := range req.LineItems {
		if _, err := invoice.AddLineItem(line.Description, line.Quantity, line.UnitPriceHT, line.TaxRate); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordInvoiceIssuedWithAmount(ctx, tenantID, numbering.DocumentTypeInvoiceProforma.String(), invoice.TotalTTC)
	}

	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByNumber retrieves an invoice by document number
func (s *InvoiceService) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByNumberForTenant(ctx, tenantID, number)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter) ([]InvoiceListItemResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
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

	invoices, total, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInvoiceListItemResponses(invoices), total, nil
}

// AddLineItem adds a billed line to a draft invoice
func (s *InvoiceService) AddLineItem(ctx context.Context, tenantID, invoiceID uuid.UUID, req CreateLineItemInput) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if _, err := invoice.AddLineItem(req.Description, req.Quantity, req.UnitPriceHT, req.TaxRate); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithVersion(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// UpdateLineItem updates a billed line of a draft invoice
func (s *InvoiceService) UpdateLineItem(ctx context.Context, tenantID, invoiceID, itemID uuid.UUID, req UpdateLineItemRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.UpdateLineItem(itemID, req.Description, req.Quantity, req.UnitPriceHT, req.TaxRate); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithVersion(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// RemoveLineItem removes a billed line from a draft invoice
func (s *InvoiceService) RemoveLineItem(ctx context.Context, tenantID, invoiceID, itemID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.RemoveLineItem(itemID); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithVersion(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Validate marks a proforma as validated, gating its conversion to final
func (s *InvoiceService) Validate(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Validate(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithVersion(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// ConvertToFinal converts a validated proforma into a final invoice with a
// brand-new number from the final scope. The preconditions are checked before
// allocating so an invalid conversion does not consume a final number.
func (s *InvoiceService) ConvertToFinal(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if !invoice.IsProforma() {
		return nil, shared.ErrInvalidTransition
	}
	if !invoice.IsValidated() {
		return nil, shared.ErrPreconditionNotMet
	}

	finalNumber, err := s.numbers.NextNumber(ctx, tenantID, numbering.DocumentTypeInvoiceFinal, time.Now())
	if err != nil {
		return nil, err
	}

	if err := invoice.ConvertToFinal(finalNumber); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithVersion(ctx, invoice); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordInvoiceConverted(ctx, tenantID)
		s.businessMetrics.RecordInvoiceIssuedWithAmount(ctx, tenantID, numbering.DocumentTypeInvoiceFinal.String(), invoice.TotalTTC)
	}

	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// MarkSent records the dispatch of a final invoice
func (s *InvoiceService) MarkSent(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, tenantID, invoiceID, (*billing.Invoice).MarkSent)
}

// MarkPaid records the settlement of a sent invoice
func (s *InvoiceService) MarkPaid(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, tenantID, invoiceID, (*billing.Invoice).MarkPaid)
}

// MarkOverdue flags a sent invoice as overdue
func (s *InvoiceService) MarkOverdue(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, tenantID, invoiceID, (*billing.Invoice).MarkOverdue)
}

// Cancel voids a non-terminal invoice
func (s *InvoiceService) Cancel(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, tenantID, invoiceID, (*billing.Invoice).Cancel)
}

// Delete soft-deletes an invoice. Its number stays consumed.
func (s *InvoiceService) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	return s.invoiceRepo.SoftDelete(ctx, tenantID, invoiceID)
}

// transition loads, applies a status transition and saves with the version check
func (s *InvoiceService) transition(ctx context.Context, tenantID, invoiceID uuid.UUID, apply func(*billing.Invoice) error) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := apply(invoice); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithVersion(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// publishEvents drains the aggregate's pending events to the bus
func (s *InvoiceService) publishEvents(ctx context.Context, invoice *billing.Invoice) {
	if s.eventPublisher == nil {
		return
	}
	if events := invoice.GetDomainEvents(); len(events) > 0 {
		// Event delivery is best effort; the state change is already durable
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	invoice.ClearDomainEvents()
}
