package affiliate

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopcore/backend/internal/domain/affiliate"
	"github.com/shopcore/backend/internal/domain/shared"
)

func newCommissionService() (*CommissionService, *MockCommissionRepository, *MockRefundEventStore) {
	commissionRepo := new(MockCommissionRepository)
	refundEvents := new(MockRefundEventStore)
	svc := NewCommissionService(commissionRepo, refundEvents, zap.NewNop())
	return svc, commissionRepo, refundEvents
}

func pendingCommission(t *testing.T) *affiliate.Commission {
	t.Helper()
	c, err := affiliate.NewCommission(uuid.New(), uuid.New(), decimal.NewFromInt(1000), decimal.NewFromFloat(0.10))
	require.NoError(t, err)
	return c
}

func TestCommissionService_Approve(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("approves through a conditional update on pending", func(t *testing.T) {
		svc, commissionRepo, _ := newCommissionService()
		c := pendingCommission(t)

		commissionRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		commissionRepo.On("UpdateIf", ctx, c, affiliate.CommissionStatusPending).Return(nil)

		require.NoError(t, svc.Approve(ctx, c.ID, actor))
		assert.Equal(t, affiliate.CommissionStatusApproved, c.Status)
	})

	t.Run("concurrent transition surfaces as conflict", func(t *testing.T) {
		svc, commissionRepo, _ := newCommissionService()
		c := pendingCommission(t)

		commissionRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		commissionRepo.On("UpdateIf", ctx, c, affiliate.CommissionStatusPending).
			Return(shared.ErrConcurrencyConflict)

		assert.ErrorIs(t, svc.Approve(ctx, c.ID, actor), shared.ErrConcurrencyConflict)
	})

	t.Run("requires an actor", func(t *testing.T) {
		svc, commissionRepo, _ := newCommissionService()

		err := svc.Approve(ctx, uuid.New(), uuid.Nil)
		assert.Error(t, err)
		commissionRepo.AssertNotCalled(t, "FindByID")
	})
}

func TestCommissionService_MarkPaid(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("already paid is a no-op", func(t *testing.T) {
		svc, commissionRepo, _ := newCommissionService()
		c := pendingCommission(t)
		require.NoError(t, c.Approve(actor))
		require.NoError(t, c.MarkPaid("bank_transfer", "TX-1", actor, ""))

		commissionRepo.On("FindByID", ctx, c.ID).Return(c, nil)

		require.NoError(t, svc.MarkPaid(ctx, c.ID, "bank_transfer", "TX-1", actor, ""))
		commissionRepo.AssertNotCalled(t, "UpdateIf")
	})

	t.Run("settles an approved commission", func(t *testing.T) {
		svc, commissionRepo, _ := newCommissionService()
		c := pendingCommission(t)
		require.NoError(t, c.Approve(actor))

		commissionRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		commissionRepo.On("UpdateIf", ctx, c, affiliate.CommissionStatusApproved).Return(nil)

		require.NoError(t, svc.MarkPaid(ctx, c.ID, "paypal", "TX-2", actor, "manual correction"))
		assert.Equal(t, affiliate.CommissionStatusPaid, c.Status)
		assert.Equal(t, "TX-2", c.PaymentReference)
	})
}

func TestCommissionService_HandleRefund(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("adjusts an unsettled commission in place", func(t *testing.T) {
		svc, commissionRepo, refundEvents := newCommissionService()
		c := pendingCommission(t)
		orderID := c.OrderID

		refundEvents.On("MarkProcessed", ctx, mock.Anything, mock.Anything).Return(true, nil)
		commissionRepo.On("FindOriginalByOrderID", ctx, orderID).Return(c, nil)
		commissionRepo.On("UpdateIf", ctx, c, affiliate.CommissionStatusPending).Return(nil)

		require.NoError(t, svc.HandleRefund(ctx, orderID, decimal.NewFromInt(500), actor, "RF-1"))

		assert.True(t, c.OrderTotal.Equal(decimal.NewFromInt(500)))
		assert.True(t, c.CommissionAmount.Equal(decimal.NewFromInt(50)))
		commissionRepo.AssertNotCalled(t, "Create")
	})

	t.Run("paid commission gets a compensating entry", func(t *testing.T) {
		svc, commissionRepo, refundEvents := newCommissionService()
		c := pendingCommission(t)
		require.NoError(t, c.Approve(actor))
		require.NoError(t, c.MarkPaid("bank_transfer", "TX-1", actor, ""))

		refundEvents.On("MarkProcessed", ctx, mock.Anything, mock.Anything).Return(true, nil)
		commissionRepo.On("FindOriginalByOrderID", ctx, c.OrderID).Return(c, nil)
		commissionRepo.On("Create", ctx, mock.AnythingOfType("*affiliate.Commission")).Return(nil)

		require.NoError(t, svc.HandleRefund(ctx, c.OrderID, decimal.NewFromInt(500), actor, "RF-2"))

		entry := commissionRepo.Calls[1].Arguments.Get(1).(*affiliate.Commission)
		assert.True(t, entry.IsCompensating())
		assert.True(t, entry.OrderTotal.Equal(decimal.NewFromInt(-500)))
		assert.True(t, entry.CommissionAmount.Equal(decimal.NewFromInt(-50)))
		assert.Equal(t, affiliate.CommissionStatusApproved, entry.Status)

		// settled row stays untouched
		assert.Equal(t, affiliate.CommissionStatusPaid, c.Status)
		assert.True(t, c.CommissionAmount.Equal(decimal.NewFromInt(100)))
		commissionRepo.AssertNotCalled(t, "UpdateIf")
	})

	t.Run("duplicate refund event is ignored", func(t *testing.T) {
		svc, commissionRepo, refundEvents := newCommissionService()
		orderID := uuid.New()

		refundEvents.On("MarkProcessed", ctx, "refund:"+orderID.String()+":RF-3", mock.Anything).
			Return(false, nil)

		require.NoError(t, svc.HandleRefund(ctx, orderID, decimal.NewFromInt(100), actor, "RF-3"))
		commissionRepo.AssertNotCalled(t, "FindOriginalByOrderID")
	})

	t.Run("amount keys the event when no reference is given", func(t *testing.T) {
		svc, commissionRepo, refundEvents := newCommissionService()
		orderID := uuid.New()

		refundEvents.On("MarkProcessed", ctx, "refund:"+orderID.String()+":100", mock.Anything).
			Return(false, nil)

		require.NoError(t, svc.HandleRefund(ctx, orderID, decimal.NewFromInt(100), actor, ""))
		commissionRepo.AssertNotCalled(t, "FindOriginalByOrderID")
	})

	t.Run("unavailable dedupe store does not block the refund", func(t *testing.T) {
		svc, commissionRepo, refundEvents := newCommissionService()
		c := pendingCommission(t)

		refundEvents.On("MarkProcessed", ctx, mock.Anything, mock.Anything).
			Return(false, errors.New("connection refused"))
		commissionRepo.On("FindOriginalByOrderID", ctx, c.OrderID).Return(c, nil)
		commissionRepo.On("UpdateIf", ctx, c, affiliate.CommissionStatusPending).Return(nil)

		assert.NoError(t, svc.HandleRefund(ctx, c.OrderID, decimal.NewFromInt(200), actor, "RF-4"))
	})

	t.Run("refund on non-attributed order is a no-op", func(t *testing.T) {
		svc, commissionRepo, refundEvents := newCommissionService()
		orderID := uuid.New()

		refundEvents.On("MarkProcessed", ctx, mock.Anything, mock.Anything).Return(true, nil)
		commissionRepo.On("FindOriginalByOrderID", ctx, orderID).Return(nil, shared.ErrNotFound)

		assert.NoError(t, svc.HandleRefund(ctx, orderID, decimal.NewFromInt(100), actor, "RF-5"))
		commissionRepo.AssertNotCalled(t, "Create")
		commissionRepo.AssertNotCalled(t, "UpdateIf")
	})

	t.Run("rejects non-positive refund amounts", func(t *testing.T) {
		svc, _, refundEvents := newCommissionService()

		assert.Error(t, svc.HandleRefund(ctx, uuid.New(), decimal.Zero, actor, "RF-6"))
		assert.Error(t, svc.HandleRefund(ctx, uuid.New(), decimal.NewFromInt(-10), actor, "RF-7"))
		refundEvents.AssertNotCalled(t, "MarkProcessed")
	})
}
