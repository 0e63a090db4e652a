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

// GormCommissionRepository implements CommissionRepository using GORM
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewGormCommissionRepository creates a new GormCommissionRepository
func NewGormCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// Create inserts a new commission ledger row
func (r *GormCommissionRepository) Create(ctx context.Context, c *affiliate.Commission) error {
	model := models.CommissionModelFromDomain(c)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a commission by ID
func (r *GormCommissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*affiliate.Commission, error) {
	var model models.CommissionModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOriginalByOrderID returns the earliest non-compensating commission
// for an order. Compensating entries carry negative amounts, so the
// original is the earliest row with a non-negative amount.
func (r *GormCommissionRepository) FindOriginalByOrderID(ctx context.Context, orderID uuid.UUID) (*affiliate.Commission, error) {
	var model models.CommissionModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND commission_amount >= 0", orderID).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List lists commissions with optional filters and pagination
func (r *GormCommissionRepository) List(ctx context.Context, filter affiliate.CommissionFilter) ([]*affiliate.Commission, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CommissionModel{}), filter)

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

	var commissionModels []models.CommissionModel
	if err := query.Find(&commissionModels).Error; err != nil {
		return nil, 0, err
	}
	commissions := make([]*affiliate.Commission, len(commissionModels))
	for i := range commissionModels {
		commissions[i] = commissionModels[i].ToDomain()
	}
	return commissions, total, nil
}

// FindApprovedByIDs fetches commissions matching affiliate, approved status
// and the given ids
func (r *GormCommissionRepository) FindApprovedByIDs(ctx context.Context, affiliateID uuid.UUID, ids []uuid.UUID) ([]*affiliate.Commission, error) {
	var commissionModels []models.CommissionModel
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND affiliate_id = ? AND status = ?", ids, affiliateID, affiliate.CommissionStatusApproved).
		Find(&commissionModels).Error; err != nil {
		return nil, err
	}
	commissions := make([]*affiliate.Commission, len(commissionModels))
	for i := range commissionModels {
		commissions[i] = commissionModels[i].ToDomain()
	}
	return commissions, nil
}

// UpdateIf persists the entity only when the stored status still equals
// expected. Zero rows affected means either the row is gone or another
// writer transitioned the status first; the two are told apart with a
// follow-up existence check.
func (r *GormCommissionRepository) UpdateIf(ctx context.Context, c *affiliate.Commission, expected affiliate.CommissionStatus) error {
	model := models.CommissionModelFromDomain(c)
	result := r.db.WithContext(ctx).
		Model(&models.CommissionModel{}).
		Where("id = ? AND status = ?", c.ID, expected).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.CommissionModel{}).
			Where("id = ?", c.ID).
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

// MarkPaidByIDs cascades settlement onto a payout's commissions. Only
// approved rows transition; the returned count lets the caller detect a
// partial cascade.
func (r *GormCommissionRepository) MarkPaidByIDs(ctx context.Context, ids []uuid.UUID, method, reference string, actorID uuid.UUID, paidAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CommissionModel{}).
		Where("id IN ? AND status = ?", ids, affiliate.CommissionStatusApproved).
		Updates(map[string]interface{}{
			"status":            affiliate.CommissionStatusPaid,
			"paid_at":           paidAt,
			"payment_method":    method,
			"payment_reference": reference,
			"updated_by":        actorID,
			"updated_at":        time.Now(),
		})
	return result.RowsAffected, result.Error
}

// DisputeByOrderID freezes the order's unsettled commissions
func (r *GormCommissionRepository) DisputeByOrderID(ctx context.Context, orderID, actorID uuid.UUID) (int64, error) {
	updates := map[string]interface{}{
		"status":     affiliate.CommissionStatusDisputed,
		"updated_at": time.Now(),
	}
	if actorID != uuid.Nil {
		updates["updated_by"] = actorID
	}
	result := r.db.WithContext(ctx).
		Model(&models.CommissionModel{}).
		Where("order_id = ? AND status IN ?", orderID, []affiliate.CommissionStatus{
			affiliate.CommissionStatusPending,
			affiliate.CommissionStatusApproved,
		}).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// Stats aggregates counts and summed amounts per status in a single query
func (r *GormCommissionRepository) Stats(ctx context.Context, filter affiliate.CommissionFilter) (*affiliate.CommissionStats, error) {
	var row struct {
		TotalCount     int64
		PendingCount   int64
		ApprovedCount  int64
		PaidCount      int64
		DisputedCount  int64
		CancelledCount int64
		TotalAmount    float64
		PendingAmount  float64
		ApprovedAmount float64
		PaidAmount     float64
	}

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CommissionModel{}), filter)
	if err := query.Select(`
		COUNT(*) AS total_count,
		SUM(CASE WHEN status = 'PENDING' THEN 1 ELSE 0 END) AS pending_count,
		SUM(CASE WHEN status = 'APPROVED' THEN 1 ELSE 0 END) AS approved_count,
		SUM(CASE WHEN status = 'PAID' THEN 1 ELSE 0 END) AS paid_count,
		SUM(CASE WHEN status = 'DISPUTED' THEN 1 ELSE 0 END) AS disputed_count,
		SUM(CASE WHEN status = 'CANCELLED' THEN 1 ELSE 0 END) AS cancelled_count,
		COALESCE(SUM(commission_amount), 0) AS total_amount,
		COALESCE(SUM(CASE WHEN status = 'PENDING' THEN commission_amount ELSE 0 END), 0) AS pending_amount,
		COALESCE(SUM(CASE WHEN status = 'APPROVED' THEN commission_amount ELSE 0 END), 0) AS approved_amount,
		COALESCE(SUM(CASE WHEN status = 'PAID' THEN commission_amount ELSE 0 END), 0) AS paid_amount`).
		Scan(&row).Error; err != nil {
		return nil, err
	}

	return &affiliate.CommissionStats{
		TotalCount:     row.TotalCount,
		PendingCount:   row.PendingCount,
		ApprovedCount:  row.ApprovedCount,
		PaidCount:      row.PaidCount,
		DisputedCount:  row.DisputedCount,
		CancelledCount: row.CancelledCount,
		TotalAmount:    row.TotalAmount,
		PendingAmount:  row.PendingAmount,
		ApprovedAmount: row.ApprovedAmount,
		PaidAmount:     row.PaidAmount,
	}, nil
}

// CountByAffiliateSince counts commissions attributed to an affiliate since
// the given time
func (r *GormCommissionRepository) CountByAffiliateSince(ctx context.Context, affiliateID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CommissionModel{}).
		Where("affiliate_id = ? AND created_at >= ?", affiliateID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCommissionRepository) applyFilter(query *gorm.DB, filter affiliate.CommissionFilter) *gorm.DB {
	if filter.AffiliateID != nil {
		query = query.Where("affiliate_id = ?", *filter.AffiliateID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at <= ?", *filter.DateTo)
	}
	return query
}

// Ensure GormCommissionRepository implements affiliate.CommissionRepository
var _ affiliate.CommissionRepository = (*GormCommissionRepository)(nil)
