package affiliate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingCommission(t *testing.T) *Commission {
	t.Helper()
	c, err := NewCommission(uuid.New(), uuid.New(), decimal.NewFromInt(1000), decimal.NewFromFloat(0.10))
	require.NoError(t, err)
	return c
}

func TestCommissionStatus(t *testing.T) {
	t.Run("IsValid returns true for valid statuses", func(t *testing.T) {
		valid := []CommissionStatus{
			CommissionStatusPending,
			CommissionStatusApproved,
			CommissionStatusPaid,
			CommissionStatusCancelled,
			CommissionStatusDisputed,
		}
		for _, s := range valid {
			assert.True(t, s.IsValid(), "Expected %s to be valid", s)
		}
	})

	t.Run("IsValid returns false for invalid status", func(t *testing.T) {
		assert.False(t, CommissionStatus("INVALID").IsValid())
	})

	t.Run("terminal states are paid and cancelled", func(t *testing.T) {
		assert.True(t, CommissionStatusPaid.IsTerminal())
		assert.True(t, CommissionStatusCancelled.IsTerminal())
		assert.False(t, CommissionStatusPending.IsTerminal())
		assert.False(t, CommissionStatusApproved.IsTerminal())
		assert.False(t, CommissionStatusDisputed.IsTerminal())
	})
}

func TestNewCommission(t *testing.T) {
	t.Run("snapshots amount as total times rate", func(t *testing.T) {
		c, err := NewCommission(uuid.New(), uuid.New(), decimal.NewFromInt(1000), decimal.NewFromFloat(0.10))
		require.NoError(t, err)

		assert.Equal(t, CommissionStatusPending, c.Status)
		assert.True(t, c.CommissionAmount.Equal(decimal.NewFromInt(100)),
			"expected 100, got %s", c.CommissionAmount)
		assert.True(t, c.CommissionAmount.Equal(c.OrderTotal.Mul(c.CommissionRate)))
		assert.False(t, c.IsCompensating())
	})

	t.Run("rejects negative order total", func(t *testing.T) {
		_, err := NewCommission(uuid.New(), uuid.New(), decimal.NewFromInt(-1), decimal.NewFromFloat(0.10))
		assert.Error(t, err)
	})

	t.Run("rejects rate outside unit interval", func(t *testing.T) {
		_, err := NewCommission(uuid.New(), uuid.New(), decimal.NewFromInt(100), decimal.NewFromFloat(1.5))
		assert.Error(t, err)
	})
}

func TestCommissionStateMachine(t *testing.T) {
	actor := uuid.New()

	t.Run("pending to approved", func(t *testing.T) {
		c := newPendingCommission(t)
		require.NoError(t, c.Approve(actor))
		assert.Equal(t, CommissionStatusApproved, c.Status)
		require.NotNil(t, c.UpdatedBy)
		assert.Equal(t, actor, *c.UpdatedBy)
	})

	t.Run("approve requires pending", func(t *testing.T) {
		c := newPendingCommission(t)
		require.NoError(t, c.Approve(actor))
		assert.Error(t, c.Approve(actor))
	})

	t.Run("mark paid records settlement metadata", func(t *testing.T) {
		c := newPendingCommission(t)
		require.NoError(t, c.Approve(actor))
		require.NoError(t, c.MarkPaid("BANK_TRANSFER", "PAY-001", actor, "June batch"))

		assert.Equal(t, CommissionStatusPaid, c.Status)
		require.NotNil(t, c.PaidAt)
		assert.Equal(t, "BANK_TRANSFER", c.PaymentMethod)
		assert.Equal(t, "PAY-001", c.PaymentReference)
	})

	t.Run("mark paid is idempotent", func(t *testing.T) {
		c := newPendingCommission(t)
		require.NoError(t, c.MarkPaid("BANK_TRANSFER", "PAY-001", actor, ""))
		paidAt := c.PaidAt
		require.NoError(t, c.MarkPaid("BANK_TRANSFER", "PAY-002", actor, ""))
		assert.Equal(t, paidAt, c.PaidAt)
		assert.Equal(t, "PAY-001", c.PaymentReference)
	})

	t.Run("cancelled commissions cannot be paid", func(t *testing.T) {
		c := newPendingCommission(t)
		require.NoError(t, c.Cancel(actor))
		assert.Error(t, c.MarkPaid("BANK_TRANSFER", "PAY-001", actor, ""))
	})

	t.Run("dispute freezes pending and approved only", func(t *testing.T) {
		c := newPendingCommission(t)
		require.NoError(t, c.Dispute(actor))
		assert.Equal(t, CommissionStatusDisputed, c.Status)

		paid := newPendingCommission(t)
		require.NoError(t, paid.MarkPaid("BANK_TRANSFER", "PAY-001", actor, ""))
		assert.Error(t, paid.Dispute(actor))
	})

	t.Run("cancel requires pending or approved", func(t *testing.T) {
		c := newPendingCommission(t)
		require.NoError(t, c.Dispute(actor))
		assert.Error(t, c.Cancel(actor))
	})
}

func TestCommissionApplyRefund(t *testing.T) {
	actor := uuid.New()

	t.Run("partial refund recomputes amount from reduced total", func(t *testing.T) {
		c := newPendingCommission(t)
		require.NoError(t, c.ApplyRefund(decimal.NewFromInt(500), actor))

		assert.True(t, c.OrderTotal.Equal(decimal.NewFromInt(500)))
		assert.True(t, c.CommissionAmount.Equal(decimal.NewFromInt(50)))
		assert.True(t, c.CommissionAmount.Equal(c.OrderTotal.Mul(c.CommissionRate)),
			"snapshot invariant must hold after adjustment")
	})

	t.Run("full refund zeroes the commission", func(t *testing.T) {
		c := newPendingCommission(t)
		require.NoError(t, c.ApplyRefund(decimal.NewFromInt(1000), actor))

		assert.True(t, c.OrderTotal.IsZero())
		assert.True(t, c.CommissionAmount.IsZero())
	})

	t.Run("refund cannot exceed order total", func(t *testing.T) {
		c := newPendingCommission(t)
		assert.Error(t, c.ApplyRefund(decimal.NewFromInt(1001), actor))
	})

	t.Run("paid commissions cannot be adjusted in place", func(t *testing.T) {
		c := newPendingCommission(t)
		require.NoError(t, c.MarkPaid("BANK_TRANSFER", "PAY-001", actor, ""))
		assert.Error(t, c.ApplyRefund(decimal.NewFromInt(100), actor))
	})
}

func TestNewCompensatingCommission(t *testing.T) {
	actor := uuid.New()

	t.Run("full refund reverses the original amount exactly", func(t *testing.T) {
		original := newPendingCommission(t)
		require.NoError(t, original.MarkPaid("BANK_TRANSFER", "PAY-001", actor, ""))

		entry, err := NewCompensatingCommission(original, decimal.NewFromInt(1000), actor)
		require.NoError(t, err)

		assert.Equal(t, CommissionStatusApproved, entry.Status)
		assert.True(t, entry.OrderTotal.Equal(decimal.NewFromInt(-1000)))
		assert.True(t, entry.CommissionAmount.Equal(original.CommissionAmount.Neg()))
		assert.True(t, entry.IsCompensating())
		assert.Equal(t, original.OrderID, entry.OrderID)
		assert.Equal(t, original.AffiliateID, entry.AffiliateID)
	})

	t.Run("partial refund reverses proportionally", func(t *testing.T) {
		original := newPendingCommission(t)
		entry, err := NewCompensatingCommission(original, decimal.NewFromInt(500), actor)
		require.NoError(t, err)

		assert.True(t, entry.OrderTotal.Equal(decimal.NewFromInt(-500)))
		assert.True(t, entry.CommissionAmount.Equal(decimal.NewFromInt(-50)))
	})

	t.Run("rejects non-positive refund amounts", func(t *testing.T) {
		original := newPendingCommission(t)
		_, err := NewCompensatingCommission(original, decimal.Zero, actor)
		assert.Error(t, err)
	})

	t.Run("rejects refunds above the original total", func(t *testing.T) {
		original := newPendingCommission(t)
		_, err := NewCompensatingCommission(original, decimal.NewFromInt(1500), actor)
		assert.Error(t, err)
	})
}
