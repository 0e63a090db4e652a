package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcore/backend/internal/domain/affiliate"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/infrastructure/persistence/models"
)

// GormClickRepository implements ClickRepository using GORM
type GormClickRepository struct {
	db *gorm.DB
}

// NewGormClickRepository creates a new GormClickRepository
func NewGormClickRepository(db *gorm.DB) *GormClickRepository {
	return &GormClickRepository{db: db}
}

// Create inserts a new attribution session
func (r *GormClickRepository) Create(ctx context.Context, c *affiliate.Click) error {
	model := models.ClickModelFromDomain(c)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindBySessionToken finds an attribution session by token
func (r *GormClickRepository) FindBySessionToken(ctx context.Context, token uuid.UUID) (*affiliate.Click, error) {
	var model models.ClickModel
	if err := r.db.WithContext(ctx).
		First(&model, "session_token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// MarkConverted binds an open session to an order with a single conditional
// UPDATE. The converted = false predicate makes the flip one-way: a
// concurrent or repeated conversion for the same token updates zero rows
// and reports ErrNotFound, exactly like an unknown token.
func (r *GormClickRepository) MarkConverted(ctx context.Context, token, orderID uuid.UUID) (*affiliate.Click, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.ClickModel{}).
		Where("session_token = ? AND converted = ?", token, false).
		Updates(map[string]interface{}{
			"converted":    true,
			"order_id":     orderID,
			"converted_at": now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, shared.ErrNotFound
	}
	return r.FindBySessionToken(ctx, token)
}

// ListByAffiliate lists an affiliate's clicks with filtering and pagination
func (r *GormClickRepository) ListByAffiliate(ctx context.Context, affiliateID uuid.UUID, filter affiliate.ClickFilter) ([]*affiliate.Click, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ClickModel{}).
		Where("affiliate_id = ?", affiliateID)
	if filter.ConvertedOnly {
		query = query.Where("converted = ?", true)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	var clickModels []models.ClickModel
	if err := query.Find(&clickModels).Error; err != nil {
		return nil, 0, err
	}
	clicks := make([]*affiliate.Click, len(clickModels))
	for i := range clickModels {
		clicks[i] = clickModels[i].ToDomain()
	}
	return clicks, total, nil
}

// CountByAffiliateAndIP counts clicks from one network address since the
// given time
func (r *GormClickRepository) CountByAffiliateAndIP(ctx context.Context, affiliateID uuid.UUID, ipAddress string, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ClickModel{}).
		Where("affiliate_id = ? AND ip_address = ? AND created_at >= ?", affiliateID, ipAddress, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ConversionStats returns total and converted click counts since the given
// time
func (r *GormClickRepository) ConversionStats(ctx context.Context, affiliateID uuid.UUID, since time.Time) (int64, int64, error) {
	var total, converted int64
	if err := r.db.WithContext(ctx).
		Model(&models.ClickModel{}).
		Where("affiliate_id = ? AND created_at >= ?", affiliateID, since).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ClickModel{}).
		Where("affiliate_id = ? AND created_at >= ? AND converted = ?", affiliateID, since, true).
		Count(&converted).Error; err != nil {
		return 0, 0, err
	}
	return total, converted, nil
}

// Ensure GormClickRepository implements affiliate.ClickRepository
var _ affiliate.ClickRepository = (*GormClickRepository)(nil)
