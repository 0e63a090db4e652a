package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/infrastructure/persistence/models"
)

// GormOrderGateway reads order totals from the orders table and writes
// back attribution metadata. The affiliate context does not own orders;
// this is its only touch point with them.
type GormOrderGateway struct {
	db *gorm.DB
}

// NewGormOrderGateway creates a new GormOrderGateway
func NewGormOrderGateway(db *gorm.DB) *GormOrderGateway {
	return &GormOrderGateway{db: db}
}

// TotalAmount returns the order's total
func (g *GormOrderGateway) TotalAmount(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	var model models.OrderModel
	if err := g.db.WithContext(ctx).
		Select("id", "total_amount").
		First(&model, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, shared.ErrNotFound
		}
		return decimal.Zero, err
	}
	return model.TotalAmount, nil
}

// AnnotateAttribution stamps attribution metadata onto the order row
func (g *GormOrderGateway) AnnotateAttribution(ctx context.Context, orderID, affiliateID, clickID uuid.UUID, commissionAmount decimal.Decimal) error {
	result := g.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"affiliate_id":      affiliateID,
			"click_id":          clickID,
			"commission_amount": commissionAmount,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
