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

// GormLinkRepository implements LinkRepository using GORM
type GormLinkRepository struct {
	db *gorm.DB
}

// NewGormLinkRepository creates a new GormLinkRepository
func NewGormLinkRepository(db *gorm.DB) *GormLinkRepository {
	return &GormLinkRepository{db: db}
}

// Create inserts a new tracked link
func (r *GormLinkRepository) Create(ctx context.Context, l *affiliate.Link) error {
	model := models.LinkModelFromDomain(l)
	return r.db.WithContext(ctx).Create(model).Error
}

// Save updates an existing tracked link
func (r *GormLinkRepository) Save(ctx context.Context, l *affiliate.Link) error {
	model := models.LinkModelFromDomain(l)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a tracked link by ID
func (r *GormLinkRepository) FindByID(ctx context.Context, id uuid.UUID) (*affiliate.Link, error) {
	var model models.LinkModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListByAffiliate lists all tracked links of one affiliate
func (r *GormLinkRepository) ListByAffiliate(ctx context.Context, affiliateID uuid.UUID) ([]*affiliate.Link, error) {
	var linkModels []models.LinkModel
	if err := r.db.WithContext(ctx).
		Where("affiliate_id = ?", affiliateID).
		Order("created_at DESC").
		Find(&linkModels).Error; err != nil {
		return nil, err
	}
	links := make([]*affiliate.Link, len(linkModels))
	for i := range linkModels {
		links[i] = linkModels[i].ToDomain()
	}
	return links, nil
}

// Ensure GormLinkRepository implements affiliate.LinkRepository
var _ affiliate.LinkRepository = (*GormLinkRepository)(nil)
