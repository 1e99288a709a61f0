package documents

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDocument(t *testing.T, kind DocumentKind) *Document {
	t.Helper()
	doc, err := NewDocument(uuid.New(), "DEV-2025-00001", kind, uuid.New(), "Immobilière du Parc", "Remplacement chaudière")
	require.NoError(t, err)
	doc.ClearDomainEvents()
	return doc
}

func TestNewDocument(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		tenantID := uuid.New()
		customerID := uuid.New()

		doc, err := NewDocument(tenantID, "BAIL-2025-00001", DocumentKindLease, customerID, "Immobilière du Parc", "Bail commercial 12 rue Verte")

		require.NoError(t, err)
		assert.Equal(t, DocumentStatusDraft, doc.Status)
		assert.Equal(t, DocumentKindLease, doc.Kind)
		assert.True(t, doc.Amount.IsZero())
		assert.Len(t, doc.GetDomainEvents(), 1)
	})

	t.Run("invalid kind", func(t *testing.T) {
		_, err := NewDocument(uuid.New(), "X-2025-00001", DocumentKind("MEMO"), uuid.New(), "Client", "Titre")
		require.Error(t, err)
	})

	t.Run("empty number", func(t *testing.T) {
		_, err := NewDocument(uuid.New(), "", DocumentKindQuote, uuid.New(), "Client", "Titre")
		require.Error(t, err)
	})

	t.Run("empty title", func(t *testing.T) {
		_, err := NewDocument(uuid.New(), "DEV-2025-00001", DocumentKindQuote, uuid.New(), "Client", "")
		require.Error(t, err)
	})
}

func TestDocument_DraftEditing(t *testing.T) {
	t.Run("amount and title editable in draft", func(t *testing.T) {
		doc := createTestDocument(t, DocumentKindQuote)

		require.NoError(t, doc.SetAmount(decimal.NewFromFloat(1850.50)))
		require.NoError(t, doc.SetTitle("Remplacement chaudière + thermostat"))

		assert.True(t, doc.Amount.Equal(decimal.NewFromFloat(1850.50)))
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		doc := createTestDocument(t, DocumentKindQuote)
		require.Error(t, doc.SetAmount(decimal.NewFromInt(-1)))
	})

	t.Run("issued documents are frozen", func(t *testing.T) {
		doc := createTestDocument(t, DocumentKindQuote)
		require.NoError(t, doc.Issue())

		require.Error(t, doc.SetAmount(decimal.NewFromInt(100)))
		require.Error(t, doc.SetTitle("nouveau titre"))
	})
}

func TestDocument_Lifecycle(t *testing.T) {
	t.Run("issue from draft", func(t *testing.T) {
		doc := createTestDocument(t, DocumentKindQuote)

		require.NoError(t, doc.Issue())

		assert.Equal(t, DocumentStatusIssued, doc.Status)
		require.NotNil(t, doc.IssuedAt)
		assert.Len(t, doc.GetDomainEvents(), 1)
	})

	t.Run("double issue rejected", func(t *testing.T) {
		doc := createTestDocument(t, DocumentKindQuote)
		require.NoError(t, doc.Issue())
		require.Error(t, doc.Issue())
	})

	t.Run("archive keeps the number", func(t *testing.T) {
		doc := createTestDocument(t, DocumentKindLease)
		require.NoError(t, doc.Archive())
		assert.Equal(t, DocumentStatusArchived, doc.Status)
		assert.Equal(t, "DEV-2025-00001", doc.Number)

		require.Error(t, doc.Archive())
	})
}
