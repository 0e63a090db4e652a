package affiliate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approvedCommission(t *testing.T, affiliateID uuid.UUID, amount int64) *Commission {
	t.Helper()
	c, err := NewCommission(affiliateID, uuid.New(), decimal.NewFromInt(amount*10), decimal.NewFromFloat(0.10))
	require.NoError(t, err)
	require.NoError(t, c.Approve(uuid.New()))
	return c
}

func TestNewPayout(t *testing.T) {
	affiliateID := uuid.New()
	actor := uuid.New()

	t.Run("sums approved commissions and captures count", func(t *testing.T) {
		commissions := []*Commission{
			approvedCommission(t, affiliateID, 100),
			approvedCommission(t, affiliateID, 250),
		}

		p, err := NewPayout(affiliateID, commissions, "BANK_TRANSFER", actor)
		require.NoError(t, err)

		assert.Equal(t, PayoutStatusPending, p.Status)
		assert.Equal(t, 2, p.CommissionCount)
		assert.True(t, p.TotalAmount.Equal(decimal.NewFromInt(350)))
	})

	t.Run("rejects a batch containing a foreign commission", func(t *testing.T) {
		commissions := []*Commission{
			approvedCommission(t, affiliateID, 100),
			approvedCommission(t, uuid.New(), 50),
		}

		_, err := NewPayout(affiliateID, commissions, "BANK_TRANSFER", actor)
		assert.Error(t, err)
	})

	t.Run("rejects a batch containing a non-approved commission", func(t *testing.T) {
		pending, err := NewCommission(affiliateID, uuid.New(), decimal.NewFromInt(100), decimal.NewFromFloat(0.10))
		require.NoError(t, err)

		_, err = NewPayout(affiliateID, []*Commission{pending}, "BANK_TRANSFER", actor)
		assert.Error(t, err)
	})

	t.Run("rejects an empty batch", func(t *testing.T) {
		_, err := NewPayout(affiliateID, nil, "BANK_TRANSFER", actor)
		assert.Error(t, err)
	})

	t.Run("rejects missing payout method", func(t *testing.T) {
		_, err := NewPayout(affiliateID, []*Commission{approvedCommission(t, affiliateID, 100)}, "", actor)
		assert.Error(t, err)
	})
}

func TestPayoutLifecycle(t *testing.T) {
	affiliateID := uuid.New()
	actor := uuid.New()

	newPayout := func(t *testing.T) *Payout {
		p, err := NewPayout(affiliateID, []*Commission{approvedCommission(t, affiliateID, 100)}, "BANK_TRANSFER", actor)
		require.NoError(t, err)
		return p
	}

	t.Run("complete stamps settlement metadata", func(t *testing.T) {
		p := newPayout(t)
		require.NoError(t, p.Complete("TXN-123", actor, "June payouts"))

		assert.Equal(t, PayoutStatusCompleted, p.Status)
		require.NotNil(t, p.ProcessedAt)
		assert.Equal(t, "TXN-123", p.PaymentReference)
	})

	t.Run("completing twice is an invalid state", func(t *testing.T) {
		p := newPayout(t)
		require.NoError(t, p.Complete("TXN-123", actor, ""))
		assert.Error(t, p.Complete("TXN-456", actor, ""))
	})

	t.Run("processing transition requires pending", func(t *testing.T) {
		p := newPayout(t)
		require.NoError(t, p.MarkProcessing())
		assert.Error(t, p.MarkProcessing())
	})

	t.Run("failed payouts cannot be completed", func(t *testing.T) {
		p := newPayout(t)
		require.NoError(t, p.MarkFailed("gateway rejected"))
		assert.Error(t, p.Complete("TXN-123", actor, ""))
	})

	t.Run("completed payouts cannot fail", func(t *testing.T) {
		p := newPayout(t)
		require.NoError(t, p.Complete("TXN-123", actor, ""))
		assert.Error(t, p.MarkFailed("late failure"))
	})
}
