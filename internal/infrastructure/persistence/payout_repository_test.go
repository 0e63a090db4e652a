package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shopcore/backend/internal/domain/affiliate"
	"github.com/shopcore/backend/internal/domain/shared"
)

func createTestPayout(t *testing.T, db *gorm.DB, affiliateID uuid.UUID, totals ...int64) (*affiliate.Payout, []uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	actor := uuid.New()

	commissionRepo := NewGormCommissionRepository(db)
	commissions := make([]*affiliate.Commission, 0, len(totals))
	ids := make([]uuid.UUID, 0, len(totals))
	for _, total := range totals {
		c := createTestCommission(t, commissionRepo, affiliateID, total)
		require.NoError(t, c.Approve(actor))
		require.NoError(t, commissionRepo.UpdateIf(ctx, c, affiliate.CommissionStatusPending))
		commissions = append(commissions, c)
		ids = append(ids, c.ID)
	}

	p, err := affiliate.NewPayout(affiliateID, commissions, "bank_transfer", actor)
	require.NoError(t, err)
	require.NoError(t, NewGormPayoutRepository(db).Create(ctx, p, ids))
	return p, ids
}

func TestGormPayoutRepository_Create(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormPayoutRepository(db)
	affiliateID := uuid.New()

	p, ids := createTestPayout(t, db, affiliateID, 1000, 500)

	stored, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, affiliate.PayoutStatusPending, stored.Status)
	assert.Equal(t, 2, stored.CommissionCount)
	assert.True(t, stored.TotalAmount.Equal(decimal.NewFromInt(150)))

	// the join rows round-trip
	members, err := repo.CommissionIDs(ctx, p.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, members)
}

func TestGormPayoutRepository_UpdateIf(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("settles a pending payout", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormPayoutRepository(db)
		p, _ := createTestPayout(t, db, uuid.New(), 1000)

		require.NoError(t, p.Complete("TX-1", actor, ""))
		require.NoError(t, repo.UpdateIf(ctx, p, affiliate.PayoutStatusPending))

		stored, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, affiliate.PayoutStatusCompleted, stored.Status)
		assert.Equal(t, "TX-1", stored.PaymentReference)
		assert.NotNil(t, stored.ProcessedAt)
	})

	t.Run("reports a conflict when the status moved on", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormPayoutRepository(db)
		p, _ := createTestPayout(t, db, uuid.New(), 1000)

		first, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		require.NoError(t, first.Complete("TX-1", actor, ""))
		require.NoError(t, repo.UpdateIf(ctx, first, affiliate.PayoutStatusPending))

		require.NoError(t, p.MarkFailed("gateway timeout"))
		err = repo.UpdateIf(ctx, p, affiliate.PayoutStatusPending)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("reports not found for a missing payout", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormPayoutRepository(db)
		commissionRepo := NewGormCommissionRepository(db)
		c := createTestCommission(t, commissionRepo, uuid.New(), 100)
		require.NoError(t, c.Approve(actor))

		p, err := affiliate.NewPayout(c.AffiliateID, []*affiliate.Commission{c}, "bank_transfer", actor)
		require.NoError(t, err)

		err = repo.UpdateIf(ctx, p, affiliate.PayoutStatusPending)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormPayoutRepository_List(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormPayoutRepository(db)
	affiliateID := uuid.New()

	createTestPayout(t, db, affiliateID, 1000)
	createTestPayout(t, db, affiliateID, 500)
	createTestPayout(t, db, uuid.New(), 9000)

	payouts, total, err := repo.List(ctx, affiliate.PayoutFilter{AffiliateID: &affiliateID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, payouts, 2)
}
