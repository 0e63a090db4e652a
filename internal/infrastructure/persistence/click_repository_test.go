package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopcore/backend/internal/domain/affiliate"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/infrastructure/persistence/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.AffiliateModel{},
		&models.LinkModel{},
		&models.ClickModel{},
		&models.CommissionModel{},
		&models.PayoutModel{},
		&models.PayoutCommissionModel{},
		&models.FraudLogModel{},
		&models.OrderModel{},
	))
	return db
}

func createTestClick(t *testing.T, repo *GormClickRepository, affiliateID uuid.UUID, meta affiliate.ClickMeta) *affiliate.Click {
	t.Helper()
	click, err := affiliate.NewClick(affiliateID, meta)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), click))
	return click
}

func TestGormClickRepository_MarkConverted(t *testing.T) {
	ctx := context.Background()

	t.Run("binds an open session to an order", func(t *testing.T) {
		repo := NewGormClickRepository(setupTestDB(t))
		click := createTestClick(t, repo, uuid.New(), affiliate.ClickMeta{})
		orderID := uuid.New()

		converted, err := repo.MarkConverted(ctx, click.SessionToken, orderID)
		require.NoError(t, err)
		assert.True(t, converted.Converted)
		require.NotNil(t, converted.OrderID)
		assert.Equal(t, orderID, *converted.OrderID)
		assert.NotNil(t, converted.ConvertedAt)
	})

	t.Run("replay for the same token updates nothing", func(t *testing.T) {
		repo := NewGormClickRepository(setupTestDB(t))
		click := createTestClick(t, repo, uuid.New(), affiliate.ClickMeta{})
		firstOrder := uuid.New()

		_, err := repo.MarkConverted(ctx, click.SessionToken, firstOrder)
		require.NoError(t, err)

		_, err = repo.MarkConverted(ctx, click.SessionToken, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)

		// the original binding survives
		stored, err := repo.FindBySessionToken(ctx, click.SessionToken)
		require.NoError(t, err)
		assert.Equal(t, firstOrder, *stored.OrderID)
	})

	t.Run("unknown token reports not found", func(t *testing.T) {
		repo := NewGormClickRepository(setupTestDB(t))

		_, err := repo.MarkConverted(ctx, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormClickRepository_ConversionStats(t *testing.T) {
	ctx := context.Background()
	repo := NewGormClickRepository(setupTestDB(t))
	affiliateID := uuid.New()

	for i := 0; i < 4; i++ {
		createTestClick(t, repo, affiliateID, affiliate.ClickMeta{IPAddress: "203.0.113.9"})
	}
	converted := createTestClick(t, repo, affiliateID, affiliate.ClickMeta{})
	_, err := repo.MarkConverted(ctx, converted.SessionToken, uuid.New())
	require.NoError(t, err)

	total, conversions, err := repo.ConversionStats(ctx, affiliateID, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Equal(t, int64(1), conversions)

	count, err := repo.CountByAffiliateAndIP(ctx, affiliateID, "203.0.113.9", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestGormAffiliateRepository_FindActiveByCode(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormAffiliateRepository(db)

	pending, err := affiliate.NewAffiliate(uuid.New(), "PENDING1", "pending@example.com", "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, pending))

	active, err := affiliate.NewAffiliate(uuid.New(), "ACTIVE01", "active@example.com", "")
	require.NoError(t, err)
	require.NoError(t, active.Approve())
	require.NoError(t, repo.Create(ctx, active))

	t.Run("resolves active codes", func(t *testing.T) {
		found, err := repo.FindActiveByCode(ctx, "ACTIVE01")
		require.NoError(t, err)
		assert.Equal(t, active.ID, found.ID)
		assert.True(t, found.CommissionRate.Equal(decimal.NewFromFloat(0.10)))
	})

	t.Run("pending codes resolve by plain lookup only", func(t *testing.T) {
		_, err := repo.FindActiveByCode(ctx, "PENDING1")
		assert.ErrorIs(t, err, shared.ErrNotFound)

		found, err := repo.FindByCode(ctx, "PENDING1")
		require.NoError(t, err)
		assert.Equal(t, pending.ID, found.ID)
	})

	t.Run("tracks code existence", func(t *testing.T) {
		exists, err := repo.ExistsByCode(ctx, "ACTIVE01")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByCode(ctx, "NOPE0000")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
