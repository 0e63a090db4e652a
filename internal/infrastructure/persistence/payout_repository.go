package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcore/backend/internal/domain/affiliate"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/infrastructure/persistence/models"
)

// GormPayoutRepository implements PayoutRepository using GORM
type GormPayoutRepository struct {
	db *gorm.DB
}

// NewGormPayoutRepository creates a new GormPayoutRepository
func NewGormPayoutRepository(db *gorm.DB) *GormPayoutRepository {
	return &GormPayoutRepository{db: db}
}

// Create persists the payout and its commission join rows in one
// transaction
func (r *GormPayoutRepository) Create(ctx context.Context, p *affiliate.Payout, commissionIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.PayoutModelFromDomain(p)).Error; err != nil {
			return err
		}
		joins := make([]models.PayoutCommissionModel, len(commissionIDs))
		for i, id := range commissionIDs {
			joins[i] = models.PayoutCommissionModel{PayoutID: p.ID, CommissionID: id}
		}
		return tx.Create(&joins).Error
	})
}

// FindByID finds a payout by ID
func (r *GormPayoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*affiliate.Payout, error) {
	var model models.PayoutModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List lists payouts with optional filters and pagination
func (r *GormPayoutRepository) List(ctx context.Context, filter affiliate.PayoutFilter) ([]*affiliate.Payout, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PayoutModel{})
	if filter.AffiliateID != nil {
		query = query.Where("affiliate_id = ?", *filter.AffiliateID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
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

	var payoutModels []models.PayoutModel
	if err := query.Find(&payoutModels).Error; err != nil {
		return nil, 0, err
	}
	payouts := make([]*affiliate.Payout, len(payoutModels))
	for i := range payoutModels {
		payouts[i] = payoutModels[i].ToDomain()
	}
	return payouts, total, nil
}

// UpdateIf persists the entity only when the stored status still equals
// expected, same contract as the commission ledger
func (r *GormPayoutRepository) UpdateIf(ctx context.Context, p *affiliate.Payout, expected affiliate.PayoutStatus) error {
	model := models.PayoutModelFromDomain(p)
	result := r.db.WithContext(ctx).
		Model(&models.PayoutModel{}).
		Where("id = ? AND status = ?", p.ID, expected).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.PayoutModel{}).
			Where("id = ?", p.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CommissionIDs returns the ids of the payout's member commissions
func (r *GormPayoutRepository) CommissionIDs(ctx context.Context, payoutID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.PayoutCommissionModel{}).
		Where("payout_id = ?", payoutID).
		Pluck("commission_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Ensure GormPayoutRepository implements affiliate.PayoutRepository
var _ affiliate.PayoutRepository = (*GormPayoutRepository)(nil)
