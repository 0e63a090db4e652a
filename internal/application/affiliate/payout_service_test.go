package affiliate

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopcore/backend/internal/application/notify"
	"github.com/shopcore/backend/internal/domain/affiliate"
	"github.com/shopcore/backend/internal/domain/shared"
)

func newPayoutService() (*PayoutService, *MockPayoutRepository, *MockCommissionRepository) {
	payoutRepo := new(MockPayoutRepository)
	commissionRepo := new(MockCommissionRepository)
	svc := NewPayoutService(payoutRepo, commissionRepo, notify.NopNotifier{}, zap.NewNop())
	return svc, payoutRepo, commissionRepo
}

func approvedCommissions(t *testing.T, affiliateID uuid.UUID, actor uuid.UUID, totals ...int64) ([]*affiliate.Commission, []uuid.UUID) {
	t.Helper()
	commissions := make([]*affiliate.Commission, len(totals))
	ids := make([]uuid.UUID, len(totals))
	for i, total := range totals {
		c, err := affiliate.NewCommission(affiliateID, uuid.New(), decimal.NewFromInt(total), decimal.NewFromFloat(0.10))
		require.NoError(t, err)
		require.NoError(t, c.Approve(actor))
		commissions[i] = c
		ids[i] = c.ID
	}
	return commissions, ids
}

func TestPayoutService_CreatePayout(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("batches approved commissions and sums the total", func(t *testing.T) {
		svc, payoutRepo, commissionRepo := newPayoutService()
		affiliateID := uuid.New()
		commissions, ids := approvedCommissions(t, affiliateID, actor, 1000, 500)

		commissionRepo.On("FindApprovedByIDs", ctx, affiliateID, ids).Return(commissions, nil)
		payoutRepo.On("Create", ctx, mock.AnythingOfType("*affiliate.Payout"), ids).Return(nil)

		resp, err := svc.CreatePayout(ctx, affiliateID, ids, "bank_transfer", actor)
		require.NoError(t, err)
		assert.Equal(t, affiliate.PayoutStatusPending.String(), resp.Status)
		assert.Equal(t, 2, resp.CommissionCount)
		assert.InDelta(t, 150.0, resp.TotalAmount, 0.001)
	})

	t.Run("rejects the whole batch when any id is not approved", func(t *testing.T) {
		svc, payoutRepo, commissionRepo := newPayoutService()
		affiliateID := uuid.New()
		commissions, ids := approvedCommissions(t, affiliateID, actor, 1000)
		ids = append(ids, uuid.New())

		commissionRepo.On("FindApprovedByIDs", ctx, affiliateID, ids).Return(commissions, nil)

		_, err := svc.CreatePayout(ctx, affiliateID, ids, "bank_transfer", actor)
		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_INPUT", derr.Code)
		payoutRepo.AssertNotCalled(t, "Create")
	})

	t.Run("requires commission ids and an actor", func(t *testing.T) {
		svc, _, commissionRepo := newPayoutService()

		_, err := svc.CreatePayout(ctx, uuid.New(), nil, "bank_transfer", actor)
		assert.Error(t, err)

		_, err = svc.CreatePayout(ctx, uuid.New(), []uuid.UUID{uuid.New()}, "bank_transfer", uuid.Nil)
		assert.Error(t, err)

		commissionRepo.AssertNotCalled(t, "FindApprovedByIDs")
	})
}

func TestPayoutService_ProcessPayout(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	pendingPayout := func(t *testing.T) (*affiliate.Payout, []uuid.UUID) {
		t.Helper()
		affiliateID := uuid.New()
		commissions, ids := approvedCommissions(t, affiliateID, actor, 1000)
		p, err := affiliate.NewPayout(affiliateID, commissions, "bank_transfer", actor)
		require.NoError(t, err)
		return p, ids
	}

	t.Run("completes the payout and cascades paid onto commissions", func(t *testing.T) {
		svc, payoutRepo, commissionRepo := newPayoutService()
		p, ids := pendingPayout(t)

		payoutRepo.On("FindByID", ctx, p.ID).Return(p, nil)
		payoutRepo.On("UpdateIf", ctx, p, affiliate.PayoutStatusPending).Return(nil)
		payoutRepo.On("CommissionIDs", ctx, p.ID).Return(ids, nil)
		commissionRepo.On("MarkPaidByIDs", ctx, ids, "bank_transfer", "TX-99", actor, mock.Anything).
			Return(int64(len(ids)), nil)

		require.NoError(t, svc.ProcessPayout(ctx, p.ID, "TX-99", actor, "august batch"))
		assert.Equal(t, affiliate.PayoutStatusCompleted, p.Status)
		assert.Equal(t, "TX-99", p.PaymentReference)
	})

	t.Run("partial cascade surfaces as a conflict", func(t *testing.T) {
		svc, payoutRepo, commissionRepo := newPayoutService()
		p, ids := pendingPayout(t)

		payoutRepo.On("FindByID", ctx, p.ID).Return(p, nil)
		payoutRepo.On("UpdateIf", ctx, p, affiliate.PayoutStatusPending).Return(nil)
		payoutRepo.On("CommissionIDs", ctx, p.ID).Return(ids, nil)
		commissionRepo.On("MarkPaidByIDs", ctx, ids, "bank_transfer", "TX-100", actor, mock.Anything).
			Return(int64(0), nil)

		err := svc.ProcessPayout(ctx, p.ID, "TX-100", actor, "")
		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "CONCURRENCY_CONFLICT", derr.Code)
	})

	t.Run("already completed payout is rejected", func(t *testing.T) {
		svc, payoutRepo, commissionRepo := newPayoutService()
		p, _ := pendingPayout(t)
		require.NoError(t, p.Complete("TX-1", actor, ""))

		payoutRepo.On("FindByID", ctx, p.ID).Return(p, nil)

		assert.Error(t, svc.ProcessPayout(ctx, p.ID, "TX-2", actor, ""))
		commissionRepo.AssertNotCalled(t, "MarkPaidByIDs")
	})
}
