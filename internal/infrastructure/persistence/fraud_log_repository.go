package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcore/backend/internal/domain/affiliate"
	"github.com/shopcore/backend/internal/infrastructure/persistence/models"
)

// GormFraudLogRepository implements FraudLogRepository using GORM.
// The log is append-only; there is no update path.
type GormFraudLogRepository struct {
	db *gorm.DB
}

// NewGormFraudLogRepository creates a new GormFraudLogRepository
func NewGormFraudLogRepository(db *gorm.DB) *GormFraudLogRepository {
	return &GormFraudLogRepository{db: db}
}

// Create appends a fraud log entry
func (r *GormFraudLogRepository) Create(ctx context.Context, l *affiliate.FraudLog) error {
	model := models.FraudLogModelFromDomain(l)
	return r.db.WithContext(ctx).Create(model).Error
}

// ListByAffiliate lists an affiliate's fraud log entries, newest first
func (r *GormFraudLogRepository) ListByAffiliate(ctx context.Context, affiliateID uuid.UUID) ([]*affiliate.FraudLog, error) {
	var logModels []models.FraudLogModel
	if err := r.db.WithContext(ctx).
		Where("affiliate_id = ?", affiliateID).
		Order("created_at DESC").
		Find(&logModels).Error; err != nil {
		return nil, err
	}
	logs := make([]*affiliate.FraudLog, len(logModels))
	for i := range logModels {
		logs[i] = logModels[i].ToDomain()
	}
	return logs, nil
}

// StatsByAffiliate returns the total flag count, the count since
// recentSince, and the average risk score over all entries
func (r *GormFraudLogRepository) StatsByAffiliate(ctx context.Context, affiliateID uuid.UUID, recentSince time.Time) (int64, int64, float64, error) {
	var row struct {
		Total        int64
		Recent       int64
		AverageScore float64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.FraudLogModel{}).
		Where("affiliate_id = ?", affiliateID).
		Select(`
			COUNT(*) AS total,
			SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END) AS recent,
			COALESCE(AVG(risk_score), 0) AS average_score`, recentSince).
		Scan(&row).Error; err != nil {
		return 0, 0, 0, err
	}
	return row.Total, row.Recent, row.AverageScore, nil
}

// Ensure GormFraudLogRepository implements affiliate.FraudLogRepository
var _ affiliate.FraudLogRepository = (*GormFraudLogRepository)(nil)
