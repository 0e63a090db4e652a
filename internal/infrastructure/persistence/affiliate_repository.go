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

// GormAffiliateRepository implements AffiliateRepository using GORM
type GormAffiliateRepository struct {
	db *gorm.DB
}

// NewGormAffiliateRepository creates a new GormAffiliateRepository
func NewGormAffiliateRepository(db *gorm.DB) *GormAffiliateRepository {
	return &GormAffiliateRepository{db: db}
}

// Create inserts a new affiliate
func (r *GormAffiliateRepository) Create(ctx context.Context, a *affiliate.Affiliate) error {
	model := models.AffiliateModelFromDomain(a)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save updates an existing affiliate
func (r *GormAffiliateRepository) Save(ctx context.Context, a *affiliate.Affiliate) error {
	model := models.AffiliateModelFromDomain(a)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds an affiliate by ID
func (r *GormAffiliateRepository) FindByID(ctx context.Context, id uuid.UUID) (*affiliate.Affiliate, error) {
	var model models.AffiliateModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds an affiliate by referral code regardless of status
func (r *GormAffiliateRepository) FindByCode(ctx context.Context, code string) (*affiliate.Affiliate, error) {
	var model models.AffiliateModel
	if err := r.db.WithContext(ctx).
		First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByCode resolves a referral code to an active affiliate only
func (r *GormAffiliateRepository) FindActiveByCode(ctx context.Context, code string) (*affiliate.Affiliate, error) {
	var model models.AffiliateModel
	if err := r.db.WithContext(ctx).
		First(&model, "code = ? AND status = ?", code, affiliate.StatusActive).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUserID finds an affiliate by owning user
func (r *GormAffiliateRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*affiliate.Affiliate, error) {
	var model models.AffiliateModel
	if err := r.db.WithContext(ctx).
		First(&model, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByCode checks whether a referral code is taken
func (r *GormAffiliateRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AffiliateModel{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List lists affiliates with an optional status filter and pagination
func (r *GormAffiliateRepository) List(ctx context.Context, filter affiliate.AffiliateFilter) ([]*affiliate.Affiliate, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AffiliateModel{})
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

	var affiliateModels []models.AffiliateModel
	if err := query.Find(&affiliateModels).Error; err != nil {
		return nil, 0, err
	}
	affiliates := make([]*affiliate.Affiliate, len(affiliateModels))
	for i := range affiliateModels {
		affiliates[i] = affiliateModels[i].ToDomain()
	}
	return affiliates, total, nil
}

// Ensure GormAffiliateRepository implements affiliate.AffiliateRepository
var _ affiliate.AffiliateRepository = (*GormAffiliateRepository)(nil)
