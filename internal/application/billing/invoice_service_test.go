package billing

import (
	"context"
	"testing"

	"github.com/brokersuite/backend/internal/domain/billing"
	"github.com/brokersuite/backend/internal/domain/numbering"
	"github.com/brokersuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockInvoiceRepository is a mock implementation of InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Invoice, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]billing.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithVersion(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockSequenceRepository is a mock implementation of numbering.SequenceRepository
type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) Next(ctx context.Context, scope numbering.Scope) (int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSequenceRepository) Current(ctx context.Context, scope numbering.Scope) (int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(int64), args.Error(1)
}

var (
	testTenantID     = uuid.New()
	testCustomerID   = uuid.New()
	testCustomerName = "Cabinet Durand Assurances"
)

func newTestService(invoiceRepo *MockInvoiceRepository, seqRepo *MockSequenceRepository) *InvoiceService {
	return NewInvoiceService(invoiceRepo, numbering.NewAllocator(seqRepo))
}

func scopeOfType(docType numbering.DocumentType) interface{} {
	return mock.MatchedBy(func(scope numbering.Scope) bool {
		return scope.DocumentType == docType && scope.TenantID == testTenantID
	})
}

func createTestProforma(t *testing.T, number string) *billing.Invoice {
	t.Helper()
	invoice, err := billing.NewInvoice(testTenantID, number, testCustomerID, testCustomerName)
	require.NoError(t, err)
	_, err = invoice.AddLineItem("Honoraires de gestion", decimal.NewFromInt(2), decimal.NewFromInt(100), decimal.NewFromInt(20))
	require.NoError(t, err)
	invoice.ClearDomainEvents()
	return invoice
}

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("allocates a proforma number and persists", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		seqRepo := new(MockSequenceRepository)
		seqRepo.On("Next", ctx, scopeOfType(numbering.DocumentTypeInvoiceProforma)).Return(int64(1), nil)
		invoiceRepo.On("Create", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		service := newTestService(invoiceRepo, seqRepo)
		resp, err := service.Create(ctx, testTenantID, CreateInvoiceRequest{
			CustomerID:   testCustomerID,
			CustomerName: testCustomerName,
			LineItems: []CreateLineItemInput{
				{Description: "Honoraires", Quantity: decimal.NewFromInt(1), UnitPriceHT: decimal.NewFromInt(500), TaxRate: decimal.NewFromInt(20)},
			},
		})

		require.NoError(t, err)
		assert.Contains(t, resp.Number, "FAC-")
		assert.Equal(t, "PROFORMA", resp.InvoiceType)
		assert.Equal(t, "DRAFT", resp.Status)
		assert.True(t, resp.TotalTTC.Equal(decimal.NewFromInt(600)))
		invoiceRepo.AssertExpectations(t)
		seqRepo.AssertExpectations(t)
	})

	t.Run("does not persist when allocation fails", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		seqRepo := new(MockSequenceRepository)
		seqRepo.On("Next", ctx, mock.Anything).Return(int64(0), shared.ErrSequenceAllocationFailed)

		service := newTestService(invoiceRepo, seqRepo)
		_, err := service.Create(ctx, testTenantID, CreateInvoiceRequest{
			CustomerID:   testCustomerID,
			CustomerName: testCustomerName,
		})

		assert.ErrorIs(t, err, shared.ErrSequenceAllocationFailed)
		invoiceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestInvoiceService_ConvertToFinal(t *testing.T) {
	ctx := context.Background()

	t.Run("validated proforma gets a fresh final number", func(t *testing.T) {
		invoice := createTestProforma(t, "FAC-2025-00005")
		require.NoError(t, invoice.Validate())
		invoice.ClearDomainEvents()

		invoiceRepo := new(MockInvoiceRepository)
		seqRepo := new(MockSequenceRepository)
		invoiceRepo.On("FindByIDForTenant", ctx, testTenantID, invoice.ID).Return(invoice, nil)
		seqRepo.On("Next", ctx, scopeOfType(numbering.DocumentTypeInvoiceFinal)).Return(int64(2), nil)
		invoiceRepo.On("SaveWithVersion", ctx, invoice).Return(nil)

		service := newTestService(invoiceRepo, seqRepo)
		resp, err := service.ConvertToFinal(ctx, testTenantID, invoice.ID)

		require.NoError(t, err)
		assert.Equal(t, "FINAL", resp.InvoiceType)
		assert.Contains(t, resp.Number, "-00002")
		invoiceRepo.AssertExpectations(t)
		seqRepo.AssertExpectations(t)
	})

	t.Run("unvalidated proforma does not consume a final number", func(t *testing.T) {
		invoice := createTestProforma(t, "FAC-2025-00006")

		invoiceRepo := new(MockInvoiceRepository)
		seqRepo := new(MockSequenceRepository)
		invoiceRepo.On("FindByIDForTenant", ctx, testTenantID, invoice.ID).Return(invoice, nil)

		service := newTestService(invoiceRepo, seqRepo)
		_, err := service.ConvertToFinal(ctx, testTenantID, invoice.ID)

		assert.ErrorIs(t, err, shared.ErrPreconditionNotMet)
		seqRepo.AssertNotCalled(t, "Next", mock.Anything, mock.Anything)
		invoiceRepo.AssertNotCalled(t, "SaveWithVersion", mock.Anything, mock.Anything)
	})

	t.Run("already final invoice is rejected", func(t *testing.T) {
		invoice := createTestProforma(t, "FAC-2025-00007")
		require.NoError(t, invoice.Validate())
		require.NoError(t, invoice.ConvertToFinal("FAC-2025-00008"))
		invoice.ClearDomainEvents()

		invoiceRepo := new(MockInvoiceRepository)
		seqRepo := new(MockSequenceRepository)
		invoiceRepo.On("FindByIDForTenant", ctx, testTenantID, invoice.ID).Return(invoice, nil)

		service := newTestService(invoiceRepo, seqRepo)
		_, err := service.ConvertToFinal(ctx, testTenantID, invoice.ID)

		assert.ErrorIs(t, err, shared.ErrInvalidTransition)
		seqRepo.AssertNotCalled(t, "Next", mock.Anything, mock.Anything)
	})
}

func TestInvoiceService_StatusTransitions(t *testing.T) {
	ctx := context.Background()

	newFinalInvoice := func(t *testing.T) *billing.Invoice {
		invoice := createTestProforma(t, "FAC-2025-00010")
		require.NoError(t, invoice.Validate())
		require.NoError(t, invoice.ConvertToFinal("FAC-2025-00011"))
		invoice.ClearDomainEvents()
		return invoice
	}

	t.Run("send then pay", func(t *testing.T) {
		invoice := newFinalInvoice(t)

		invoiceRepo := new(MockInvoiceRepository)
		seqRepo := new(MockSequenceRepository)
		invoiceRepo.On("FindByIDForTenant", ctx, testTenantID, invoice.ID).Return(invoice, nil)
		invoiceRepo.On("SaveWithVersion", ctx, invoice).Return(nil)

		service := newTestService(invoiceRepo, seqRepo)

		resp, err := service.MarkSent(ctx, testTenantID, invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, "SENT", resp.Status)

		resp, err = service.MarkPaid(ctx, testTenantID, invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, "PAID", resp.Status)
	})

	t.Run("proforma cannot be sent", func(t *testing.T) {
		invoice := createTestProforma(t, "FAC-2025-00012")

		invoiceRepo := new(MockInvoiceRepository)
		seqRepo := new(MockSequenceRepository)
		invoiceRepo.On("FindByIDForTenant", ctx, testTenantID, invoice.ID).Return(invoice, nil)

		service := newTestService(invoiceRepo, seqRepo)
		_, err := service.MarkSent(ctx, testTenantID, invoice.ID)

		assert.ErrorIs(t, err, shared.ErrInvalidTransition)
	})

	t.Run("save conflict propagates", func(t *testing.T) {
		invoice := newFinalInvoice(t)

		invoiceRepo := new(MockInvoiceRepository)
		seqRepo := new(MockSequenceRepository)
		invoiceRepo.On("FindByIDForTenant", ctx, testTenantID, invoice.ID).Return(invoice, nil)
		invoiceRepo.On("SaveWithVersion", ctx, invoice).Return(shared.ErrConcurrencyConflict)

		service := newTestService(invoiceRepo, seqRepo)
		_, err := service.MarkSent(ctx, testTenantID, invoice.ID)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestInvoiceService_LineItems(t *testing.T) {
	ctx := context.Background()

	t.Run("add line recomputes totals", func(t *testing.T) {
		invoice := createTestProforma(t, "FAC-2025-00020")

		invoiceRepo := new(MockInvoiceRepository)
		seqRepo := new(MockSequenceRepository)
		invoiceRepo.On("FindByIDForTenant", ctx, testTenantID, invoice.ID).Return(invoice, nil)
		invoiceRepo.On("SaveWithVersion", ctx, invoice).Return(nil)

		service := newTestService(invoiceRepo, seqRepo)
		resp, err := service.AddLineItem(ctx, testTenantID, invoice.ID, CreateLineItemInput{
			Description: "Frais de dossier",
			Quantity:    decimal.NewFromInt(1),
			UnitPriceHT: decimal.NewFromInt(50),
			TaxRate:     decimal.NewFromInt(10),
		})

		require.NoError(t, err)
		require.Len(t, resp.LineItems, 2)
		// 2x100 @20% = 240, plus 50 @10% = 55
		assert.True(t, resp.TotalTTC.Equal(decimal.NewFromInt(295)))
	})

	t.Run("remove last line zeroes totals", func(t *testing.T) {
		invoice := createTestProforma(t, "FAC-2025-00021")
		itemID := invoice.LineItems[0].ID

		invoiceRepo := new(MockInvoiceRepository)
		seqRepo := new(MockSequenceRepository)
		invoiceRepo.On("FindByIDForTenant", ctx, testTenantID, invoice.ID).Return(invoice, nil)
		invoiceRepo.On("SaveWithVersion", ctx, invoice).Return(nil)

		service := newTestService(invoiceRepo, seqRepo)
		resp, err := service.RemoveLineItem(ctx, testTenantID, invoice.ID, itemID)

		require.NoError(t, err)
		assert.Empty(t, resp.LineItems)
		assert.True(t, resp.TotalTTC.IsZero())
	})
}

func TestInvoiceService_List(t *testing.T) {
	ctx := context.Background()

	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)

	invoice := createTestProforma(t, "FAC-2025-00030")
	invoiceRepo.On("FindAllForTenant", ctx, testTenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20
	})).Return([]billing.Invoice{*invoice}, int64(1), nil)

	service := newTestService(invoiceRepo, seqRepo)
	items, total, err := service.List(ctx, testTenantID, InvoiceListFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "FAC-2025-00030", items[0].Number)
}

func TestInvoiceService_Delete(t *testing.T) {
	ctx := context.Background()
	invoiceID := uuid.New()

	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)
	invoiceRepo.On("SoftDelete", ctx, testTenantID, invoiceID).Return(nil)

	service := newTestService(invoiceRepo, seqRepo)
	require.NoError(t, service.Delete(ctx, testTenantID, invoiceID))
	invoiceRepo.AssertExpectations(t)
}
