package claims

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestClaim(t *testing.T) *Claim {
	t.Helper()
	claim, err := NewClaim(
		uuid.New(),
		"REC-2025-00001",
		uuid.New(),
		"Dupont SARL",
		"POL-88421",
		date(2025, time.January, 10),
	)
	require.NoError(t, err)
	claim.ClearDomainEvents()
	return claim
}

func TestNewClaim(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		tenantID := uuid.New()
		customerID := uuid.New()
		reception := date(2025, time.January, 10)

		claim, err := NewClaim(tenantID, "REC-2025-00001", customerID, "Dupont SARL", "POL-88421", reception)

		require.NoError(t, err)
		assert.Equal(t, ClaimStatusOpen, claim.Status)
		assert.Equal(t, 1, claim.EscalationLevel)
		assert.Equal(t, date(2025, time.January, 24), claim.Deadline)
		assert.Len(t, claim.GetDomainEvents(), 1)
	})

	t.Run("empty number", func(t *testing.T) {
		_, err := NewClaim(uuid.New(), "", uuid.New(), "Dupont SARL", "POL-88421", date(2025, time.January, 10))
		require.Error(t, err)
	})

	t.Run("zero reception date", func(t *testing.T) {
		_, err := NewClaim(uuid.New(), "REC-2025-00001", uuid.New(), "Dupont SARL", "POL-88421", time.Time{})
		require.Error(t, err)
	})
}

func TestClaim_Escalate(t *testing.T) {
	t.Run("escalation extends the deadline from the reception date", func(t *testing.T) {
		claim := createTestClaim(t)

		require.NoError(t, claim.Escalate())

		assert.Equal(t, 2, claim.EscalationLevel)
		assert.Equal(t, date(2025, time.February, 7), claim.Deadline)

		events := claim.GetDomainEvents()
		require.Len(t, events, 1)
		escalated, ok := events[0].(*ClaimEscalatedEvent)
		require.True(t, ok)
		assert.Equal(t, 1, escalated.PreviousLevel)
		assert.Equal(t, 2, escalated.NewLevel)
	})

	t.Run("stops at the highest level", func(t *testing.T) {
		claim := createTestClaim(t)
		require.NoError(t, claim.Escalate())
		require.NoError(t, claim.Escalate())
		assert.Equal(t, 3, claim.EscalationLevel)
		assert.False(t, claim.CanEscalate())

		err := claim.Escalate()

		require.Error(t, err)
		assert.ErrorContains(t, err, "highest escalation level")
		assert.Equal(t, 3, claim.EscalationLevel)
	})

	t.Run("resolved claims cannot escalate", func(t *testing.T) {
		claim := createTestClaim(t)
		require.NoError(t, claim.Resolve())
		require.Error(t, claim.Escalate())
	})
}

func TestClaim_SetReceptionDate(t *testing.T) {
	t.Run("recomputes the deadline for the current level", func(t *testing.T) {
		claim := createTestClaim(t)
		require.NoError(t, claim.Escalate())

		err := claim.SetReceptionDate(date(2025, time.January, 17))

		require.NoError(t, err)
		assert.Equal(t, date(2025, time.February, 14), claim.Deadline)
	})

	t.Run("rejected on terminal claims", func(t *testing.T) {
		claim := createTestClaim(t)
		require.NoError(t, claim.Close())
		require.Error(t, claim.SetReceptionDate(date(2025, time.January, 17)))
	})
}

func TestClaim_Lifecycle(t *testing.T) {
	t.Run("resolve", func(t *testing.T) {
		claim := createTestClaim(t)
		require.NoError(t, claim.Resolve())
		assert.Equal(t, ClaimStatusResolved, claim.Status)
		require.NotNil(t, claim.ResolvedAt)
	})

	t.Run("close", func(t *testing.T) {
		claim := createTestClaim(t)
		require.NoError(t, claim.Close())
		assert.Equal(t, ClaimStatusClosed, claim.Status)
		require.NotNil(t, claim.ClosedAt)
	})

	t.Run("terminal claims reject further transitions", func(t *testing.T) {
		claim := createTestClaim(t)
		require.NoError(t, claim.Resolve())
		require.Error(t, claim.Close())
		require.Error(t, claim.Resolve())
	})
}

func TestClaim_IsOverdue(t *testing.T) {
	claim := createTestClaim(t) // deadline 2025-01-24

	assert.False(t, claim.IsOverdue(date(2025, time.January, 24)))
	assert.True(t, claim.IsOverdue(date(2025, time.January, 25)))

	require.NoError(t, claim.Resolve())
	assert.False(t, claim.IsOverdue(date(2025, time.January, 25)))
}
