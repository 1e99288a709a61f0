package documents

import (
	"context"
	"time"

	"github.com/brokersuite/backend/internal/domain/documents"
	"github.com/brokersuite/backend/internal/domain/numbering"
	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/brokersuite/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// DocumentService handles quotes and leases, the numbered commercial documents
type DocumentService struct {
	documentRepo    documents.DocumentRepository
	numbers         *numbering.Allocator
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(documentRepo documents.DocumentRepository, numbers *numbering.Allocator) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		numbers:      numbers,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *DocumentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *DocumentService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// documentTypeFor maps a document kind to its numbering sequence
func documentTypeFor(kind documents.DocumentKind) (numbering.DocumentType, error) {
	switch kind {
	case documents.DocumentKindQuote:
		return numbering.DocumentTypeQuote, nil
	case documents.DocumentKindLease:
		return numbering.DocumentTypeLease, nil
	default:
		return "", shared.NewDomainError("INVALID_KIND", "Invalid document kind")
	}
}

// Create creates a draft document with a freshly allocated DEV or BAIL number
func (s *DocumentService) Create(ctx context.Context, tenantID uuid.UUID, req CreateDocumentRequest) (*DocumentResponse, error) {
	kind := documents.DocumentKind(req.Kind)
	docType, err := documentTypeFor(kind)
	if err != nil {
		return nil, err
	}

	number, err := s.numbers.NextNumber(ctx, tenantID, docType, time.Now())
	if err != nil {
		return nil, err
	}

	doc, err := documents.NewDocument(tenantID, number, kind, req.CustomerID, req.CustomerName, req.Title)
	if err != nil {
		return nil, err
	}
	if req.Amount != nil {
		if err := doc.SetAmount(*req.Amount); err != nil {
			return nil, err
		}
	}

	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, doc)

	response := ToDocumentResponse(doc)
	return &response, nil
}

// GetByID retrieves a document by ID
func (s *DocumentService) GetByID(ctx context.Context, tenantID, documentID uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.documentRepo.FindByIDForTenant(ctx, tenantID, documentID)
	if err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc)
	return &response, nil
}

// GetByNumber retrieves a document by its number
func (s *DocumentService) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*DocumentResponse, error) {
	doc, err := s.documentRepo.FindByNumberForTenant(ctx, tenantID, number)
	if err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc)
	return &response, nil
}

// List retrieves documents with filtering and pagination
func (s *DocumentService) List(ctx context.Context, tenantID uuid.UUID, filter DocumentListFilter) ([]DocumentResponse, int64, error) {
	domainFilter := documents.DocumentFilter{
		Filter:     shared.DefaultFilter(),
		Kind:       filter.Kind,
		Status:     filter.Status,
		CustomerID: filter.CustomerID,
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

	items, total, err := s.documentRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToDocumentResponses(items), total, nil
}

// Update edits a draft document's title and amount
func (s *DocumentService) Update(ctx context.Context, tenantID, documentID uuid.UUID, req UpdateDocumentRequest) (*DocumentResponse, error) {
	return s.mutate(ctx, tenantID, documentID, func(d *documents.Document) error {
		if req.Title != nil {
			if err := d.SetTitle(*req.Title); err != nil {
				return err
			}
		}
		if req.Amount != nil {
			if err := d.SetAmount(*req.Amount); err != nil {
				return err
			}
		}
		return nil
	})
}

// Issue marks a draft document as sent to the customer
func (s *DocumentService) Issue(ctx context.Context, tenantID, documentID uuid.UUID) (*DocumentResponse, error) {
	resp, err := s.mutate(ctx, tenantID, documentID, (*documents.Document).Issue)
	if err != nil {
		return nil, err
	}
	if s.businessMetrics != nil {
		s.businessMetrics.RecordDocumentIssued(ctx, tenantID, resp.Kind)
	}
	return resp, nil
}

// Archive retires a document. Its number stays consumed.
func (s *DocumentService) Archive(ctx context.Context, tenantID, documentID uuid.UUID) (*DocumentResponse, error) {
	return s.mutate(ctx, tenantID, documentID, (*documents.Document).Archive)
}

// Delete soft-deletes a document. Its number stays consumed.
func (s *DocumentService) Delete(ctx context.Context, tenantID, documentID uuid.UUID) error {
	return s.documentRepo.SoftDelete(ctx, tenantID, documentID)
}

// mutate loads, applies a change and saves with the version check
func (s *DocumentService) mutate(ctx context.Context, tenantID, documentID uuid.UUID, apply func(*documents.Document) error) (*DocumentResponse, error) {
	doc, err := s.documentRepo.FindByIDForTenant(ctx, tenantID, documentID)
	if err != nil {
		return nil, err
	}

	if err := apply(doc); err != nil {
		return nil, err
	}

	if err := s.documentRepo.SaveWithVersion(ctx, doc); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, doc)

	response := ToDocumentResponse(doc)
	return &response, nil
}

// publishEvents drains the aggregate's pending events to the bus
func (s *DocumentService) publishEvents(ctx context.Context, doc *documents.Document) {
	if s.eventPublisher == nil {
		return
	}
	if events := doc.GetDomainEvents(); len(events) > 0 {
		// Event delivery is best effort; the state change is already durable
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	doc.ClearDomainEvents()
}
