package affiliate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopcore/backend/internal/domain/affiliate"
	"github.com/shopcore/backend/internal/domain/shared"
)

// Fraud heuristic windows and limits
const (
	clickFloodWindow   = 24 * time.Hour
	clickFloodLimit    = 10
	conversionWindow   = 30 * 24 * time.Hour
	conversionRateMax  = 0.5
	orderBurstWindow   = time.Hour
	orderBurstLimit    = 5
	newAffiliateWindow = 7 * 24 * time.Hour
)

// whaleOrderThreshold is the order total above which a new affiliate's
// order counts as a whale order, in currency units.
var whaleOrderThreshold = decimal.NewFromInt(5000)

// FraudService scores order/affiliate pairs for suspicious patterns and
// can auto-suspend affiliates or dispute commissions. Fraud detection is
// advisory: it never hard-gates order completion, and any internal
// failure during evaluation degrades to a non-suspicious zero score.
type FraudService struct {
	affiliateRepo  affiliate.AffiliateRepository
	clickRepo      affiliate.ClickRepository
	commissionRepo affiliate.CommissionRepository
	fraudRepo      affiliate.FraudLogRepository
	orders         OrderGateway
	logger         *zap.Logger
}

// NewFraudService creates a new FraudService
func NewFraudService(
	affiliateRepo affiliate.AffiliateRepository,
	clickRepo affiliate.ClickRepository,
	commissionRepo affiliate.CommissionRepository,
	fraudRepo affiliate.FraudLogRepository,
	orders OrderGateway,
	logger *zap.Logger,
) *FraudService {
	return &FraudService{
		affiliateRepo:  affiliateRepo,
		clickRepo:      clickRepo,
		commissionRepo: commissionRepo,
		fraudRepo:      fraudRepo,
		orders:         orders,
		logger:         logger,
	}
}

// Evaluate scores an order/affiliate pair. Each signal is independently
// computable and additive; the total is clamped to 100 and the pair is
// suspicious at 50 or above.
func (s *FraudService) Evaluate(ctx context.Context, orderID, affiliateID uuid.UUID, customerEmail, ipAddress string) *affiliate.FraudCheckResult {
	result, err := s.evaluate(ctx, orderID, affiliateID, customerEmail, ipAddress)
	if err != nil {
		s.logger.Error("Fraud evaluation failed, degrading to zero score",
			zap.String("order_id", orderID.String()),
			zap.String("affiliate_id", affiliateID.String()),
			zap.Error(err))
		return &affiliate.FraudCheckResult{Suspicious: false, Reasons: []string{}, RiskScore: 0}
	}
	return result
}

func (s *FraudService) evaluate(ctx context.Context, orderID, affiliateID uuid.UUID, customerEmail, ipAddress string) (*affiliate.FraudCheckResult, error) {
	result := &affiliate.FraudCheckResult{Reasons: []string{}}
	now := time.Now()

	a, err := s.affiliateRepo.FindByID(ctx, affiliateID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return result, nil
		}
		return nil, err
	}

	// Signal 1: self-referral
	if a.Email != "" && strings.EqualFold(a.Email, customerEmail) {
		result.Reasons = append(result.Reasons, "Self-referral detected: customer email matches affiliate email")
		result.RiskScore += affiliate.ScoreSelfReferral
	}

	// Signal 2: click flooding from one network address
	if ipAddress != "" {
		clicks, err := s.clickRepo.CountByAffiliateAndIP(ctx, affiliateID, ipAddress, now.Add(-clickFloodWindow))
		if err != nil {
			return nil, err
		}
		if clicks > clickFloodLimit {
			result.Reasons = append(result.Reasons,
				fmt.Sprintf("Suspicious click pattern: %d clicks from same address in 24 hours", clicks))
			result.RiskScore += affiliate.ScoreClickFlooding
		}
	}

	// Signal 3: abnormal conversion rate
	total, converted, err := s.clickRepo.ConversionStats(ctx, affiliateID, now.Add(-conversionWindow))
	if err != nil {
		return nil, err
	}
	if total > 0 {
		rate := float64(converted) / float64(total)
		if rate > conversionRateMax {
			result.Reasons = append(result.Reasons,
				fmt.Sprintf("Unusually high conversion rate: %.1f%%", rate*100))
			result.RiskScore += affiliate.ScoreAbnormalConversion
		}
	}

	// Signal 4: order burst
	recentOrders, err := s.commissionRepo.CountByAffiliateSince(ctx, affiliateID, now.Add(-orderBurstWindow))
	if err != nil {
		return nil, err
	}
	if recentOrders > orderBurstLimit {
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("Multiple orders in short timeframe: %d orders in last hour", recentOrders))
		result.RiskScore += affiliate.ScoreOrderBurst
	}

	// Signal 5: new affiliate with a whale order
	if a.Age(now) < newAffiliateWindow {
		orderTotal, err := s.orders.TotalAmount(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if orderTotal.GreaterThan(whaleOrderThreshold) {
			result.Reasons = append(result.Reasons, "New affiliate with high-value order")
			result.RiskScore += affiliate.ScoreNewAffiliateWhale
		}
	}

	result.Clamp()
	return result, nil
}

// Flag appends a fraud log entry for the evaluation and applies the
// automatic interventions: auto-suspension at score 80+, commission
// dispute when suspicious. The log append is mandatory; interventions are
// best-effort and logged on failure.
func (s *FraudService) Flag(ctx context.Context, affiliateID, orderID uuid.UUID, result *affiliate.FraudCheckResult) error {
	entry, err := affiliate.NewFraudLog(affiliateID, orderID, result.RiskScore, result.Reasons)
	if err != nil {
		return err
	}
	if err := s.fraudRepo.Create(ctx, entry); err != nil {
		return err
	}

	if result.RiskScore >= affiliate.AutoSuspendThreshold {
		if err := s.suspendAffiliate(ctx, affiliateID); err != nil {
			s.logger.Error("Failed to auto-suspend affiliate",
				zap.String("affiliate_id", affiliateID.String()),
				zap.Error(err))
		} else {
			s.logger.Warn("Affiliate auto-suspended for high fraud risk",
				zap.String("affiliate_id", affiliateID.String()),
				zap.Int("risk_score", result.RiskScore))
		}
	}

	if result.Suspicious {
		if _, err := s.commissionRepo.DisputeByOrderID(ctx, orderID, uuid.Nil); err != nil {
			s.logger.Error("Failed to dispute commission for suspicious order",
				zap.String("order_id", orderID.String()),
				zap.Error(err))
		}
	}
	return nil
}

// RiskProfile classifies an affiliate from its fraud log history
func (s *FraudService) RiskProfile(ctx context.Context, affiliateID uuid.UUID) (*RiskProfileResponse, error) {
	total, recent, avg, err := s.fraudRepo.StatsByAffiliate(ctx, affiliateID, time.Now().Add(-conversionWindow))
	if err != nil {
		return nil, err
	}

	return &RiskProfileResponse{
		AffiliateID:      affiliateID.String(),
		RiskLevel:        affiliate.ClassifyRisk(avg, recent).String(),
		TotalFlags:       total,
		RecentFlags:      recent,
		AverageRiskScore: avg,
	}, nil
}

func (s *FraudService) suspendAffiliate(ctx context.Context, affiliateID uuid.UUID) error {
	a, err := s.affiliateRepo.FindByID(ctx, affiliateID)
	if err != nil {
		return err
	}
	a.Suspend()
	return s.affiliateRepo.Save(ctx, a)
}
