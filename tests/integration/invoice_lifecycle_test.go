package integration

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingapp "github.com/brokersuite/backend/internal/application/billing"
	"github.com/brokersuite/backend/internal/domain/billing"
	"github.com/brokersuite/backend/internal/domain/numbering"
	"github.com/brokersuite/backend/internal/infrastructure/persistence"
)

func newInvoiceService(t *testing.T, testDB *TestDB) *billingapp.InvoiceService {
	t.Helper()

	invoiceRepo := persistence.NewGormInvoiceRepository(testDB.DB)
	sequenceRepo := persistence.NewGormSequenceRepository(testDB.DB)
	return billingapp.NewInvoiceService(invoiceRepo, numbering.NewAllocator(sequenceRepo))
}

// TestInvoiceLifecycle_Integration drives a full proforma-to-paid flow
// through the application service against a real PostgreSQL database.
func TestInvoiceLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	service := newInvoiceService(t, testDB)
	ctx := context.Background()

	t.Run("proforma to paid final invoice", func(t *testing.T) {
		tenantID := uuid.New()
		customerID := uuid.New()

		created, err := service.Create(ctx, tenantID, billingapp.CreateInvoiceRequest{
			CustomerID:   customerID,
			CustomerName: "Cabinet Martin",
		})
		require.NoError(t, err)
		assert.Equal(t, string(billing.InvoiceTypeProforma), created.InvoiceType)
		assert.Equal(t, string(billing.InvoiceStatusDraft), created.Status)
		assert.True(t, strings.HasPrefix(created.Number, "FAC-"))

		withLine, err := service.AddLineItem(ctx, tenantID, created.ID, billingapp.CreateLineItemInput{
			Description: "Remplacement compresseur",
			Quantity:    decimal.NewFromInt(2),
			UnitPriceHT: decimal.NewFromFloat(450.00),
			TaxRate:     decimal.NewFromFloat(0.20),
		})
		require.NoError(t, err)
		assert.Equal(t, "900", withLine.SubtotalHT.String())
		assert.Equal(t, "180", withLine.TotalTax.String())
		assert.Equal(t, "1080", withLine.TotalTTC.String())

		validated, err := service.Validate(ctx, tenantID, created.ID)
		require.NoError(t, err)
		require.NotNil(t, validated.ValidatedAt)

		converted, err := service.ConvertToFinal(ctx, tenantID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, string(billing.InvoiceTypeFinal), converted.InvoiceType)
		require.NotNil(t, converted.ConvertedToFinalAt)

		// The final invoice carries a freshly allocated number, not the
		// proforma one.
		assert.NotEqual(t, created.Number, converted.Number)
		assert.True(t, strings.HasPrefix(converted.Number, "FAC-"))

		sent, err := service.MarkSent(ctx, tenantID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, string(billing.InvoiceStatusSent), sent.Status)

		paid, err := service.MarkPaid(ctx, tenantID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, string(billing.InvoiceStatusPaid), paid.Status)
		require.NotNil(t, paid.PaidAt)

		// The stored row reflects the whole journey
		final, err := service.GetByNumber(ctx, tenantID, converted.Number)
		require.NoError(t, err)
		assert.Equal(t, string(billing.InvoiceStatusPaid), final.Status)
		assert.Len(t, final.LineItems, 1)
	})

	t.Run("conversion requires prior validation", func(t *testing.T) {
		tenantID := uuid.New()

		created, err := service.Create(ctx, tenantID, billingapp.CreateInvoiceRequest{
			CustomerID:   uuid.New(),
			CustomerName: "SCI Bellevue",
			LineItems: []billingapp.CreateLineItemInput{
				{
					Description: "Entretien annuel",
					Quantity:    decimal.NewFromInt(1),
					UnitPriceHT: decimal.NewFromFloat(120.00),
					TaxRate:     decimal.NewFromFloat(0.20),
				},
			},
		})
		require.NoError(t, err)

		_, err = service.ConvertToFinal(ctx, tenantID, created.ID)
		require.Error(t, err)
	})

	t.Run("final invoice lines are immutable", func(t *testing.T) {
		tenantID := uuid.New()

		created, err := service.Create(ctx, tenantID, billingapp.CreateInvoiceRequest{
			CustomerID:   uuid.New(),
			CustomerName: "Garage Lefort",
			LineItems: []billingapp.CreateLineItemInput{
				{
					Description: "Diagnostic",
					Quantity:    decimal.NewFromInt(1),
					UnitPriceHT: decimal.NewFromFloat(80.00),
					TaxRate:     decimal.NewFromFloat(0.20),
				},
			},
		})
		require.NoError(t, err)

		_, err = service.Validate(ctx, tenantID, created.ID)
		require.NoError(t, err)
		_, err = service.ConvertToFinal(ctx, tenantID, created.ID)
		require.NoError(t, err)

		_, err = service.AddLineItem(ctx, tenantID, created.ID, billingapp.CreateLineItemInput{
			Description: "Ligne tardive",
			Quantity:    decimal.NewFromInt(1),
			UnitPriceHT: decimal.NewFromFloat(10.00),
			TaxRate:     decimal.NewFromFloat(0.20),
		})
		require.Error(t, err)
	})

	t.Run("cancelled invoice refuses further transitions", func(t *testing.T) {
		tenantID := uuid.New()

		created, err := service.Create(ctx, tenantID, billingapp.CreateInvoiceRequest{
			CustomerID:   uuid.New(),
			CustomerName: "Mme Roussel",
		})
		require.NoError(t, err)

		cancelled, err := service.Cancel(ctx, tenantID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, string(billing.InvoiceStatusCancelled), cancelled.Status)

		_, err = service.MarkSent(ctx, tenantID, created.ID)
		require.Error(t, err)
		_, err = service.MarkPaid(ctx, tenantID, created.ID)
		require.Error(t, err)
	})
}
