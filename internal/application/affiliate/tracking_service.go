package affiliate

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopcore/backend/internal/domain/affiliate"
	"github.com/shopcore/backend/internal/domain/shared"
)

// TrackingService records referral clicks and attributes conversions.
// Attribution and commission creation are the transactional core; order
// annotation is advisory.
type TrackingService struct {
	affiliateRepo  affiliate.AffiliateRepository
	clickRepo      affiliate.ClickRepository
	linkRepo       affiliate.LinkRepository
	commissionRepo affiliate.CommissionRepository
	orders         OrderGateway
	logger         *zap.Logger
}

// NewTrackingService creates a new TrackingService
func NewTrackingService(
	affiliateRepo affiliate.AffiliateRepository,
	clickRepo affiliate.ClickRepository,
	linkRepo affiliate.LinkRepository,
	commissionRepo affiliate.CommissionRepository,
	orders OrderGateway,
	logger *zap.Logger,
) *TrackingService {
	return &TrackingService{
		affiliateRepo:  affiliateRepo,
		clickRepo:      clickRepo,
		linkRepo:       linkRepo,
		commissionRepo: commissionRepo,
		orders:         orders,
		logger:         logger,
	}
}

// TrackClick resolves a referral code to an active affiliate, mints an
// attribution session and persists the click. Pending or suspended codes
// are rejected as invalid referrals. The click row is the only side
// effect: affiliate aggregate counters are derived projections.
func (s *TrackingService) TrackClick(ctx context.Context, code string, linkID *uuid.UUID, meta affiliate.ClickMeta) (uuid.UUID, error) {
	a, err := s.affiliateRepo.FindActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, shared.ErrInvalidReferral
		}
		return uuid.Nil, err
	}

	click, err := affiliate.NewClick(a.ID, meta)
	if err != nil {
		return uuid.Nil, err
	}
	if linkID != nil {
		// Link association is advisory metadata; a stale or foreign link
		// id must not lose the click.
		if l, lerr := s.linkRepo.FindByID(ctx, *linkID); lerr == nil && l.AffiliateID == a.ID {
			click.WithLinkID(l.ID)
		} else if lerr != nil && !errors.Is(lerr, shared.ErrNotFound) {
			s.logger.Warn("Link lookup failed while tracking click",
				zap.String("link_id", linkID.String()), zap.Error(lerr))
		}
	}

	if err := s.clickRepo.Create(ctx, click); err != nil {
		return uuid.Nil, err
	}

	s.logger.Debug("Referral click tracked",
		zap.String("affiliate_id", a.ID.String()),
		zap.String("session_token", click.SessionToken.String()))
	return click.SessionToken, nil
}

// AttributeConversion binds a completed order to an open attribution
// session, at most once. The converted flag flips through a single
// conditional write; when no open session matches the token (unknown
// token, already converted, or a direct purchase) the call is a silent
// no-op. On a match it snapshots the affiliate's current rate and the
// order total into a pending commission, then best-effort annotates the
// order.
func (s *TrackingService) AttributeConversion(ctx context.Context, sessionToken, orderID uuid.UUID) error {
	click, err := s.clickRepo.MarkConverted(ctx, sessionToken, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Debug("No open attribution session for conversion",
				zap.String("session_token", sessionToken.String()),
				zap.String("order_id", orderID.String()))
			return nil
		}
		return err
	}

	a, err := s.affiliateRepo.FindByID(ctx, click.AffiliateID)
	if err != nil {
		return err
	}

	orderTotal, err := s.orders.TotalAmount(ctx, orderID)
	if err != nil {
		return err
	}

	commission, err := affiliate.NewCommission(a.ID, orderID, orderTotal, a.CommissionRate)
	if err != nil {
		return err
	}
	commission.WithClickID(click.ID)

	if err := s.commissionRepo.Create(ctx, commission); err != nil {
		return err
	}

	s.logger.Info("Conversion attributed",
		zap.String("affiliate_id", a.ID.String()),
		zap.String("order_id", orderID.String()),
		zap.String("commission_id", commission.ID.String()))

	// Advisory annotation: the commission already exists, so a failure
	// here must not roll back or fail the attribution.
	if err := s.orders.AnnotateAttribution(ctx, orderID, a.ID, click.ID, commission.CommissionAmount); err != nil {
		s.logger.Warn("Failed to annotate order with attribution metadata",
			zap.String("order_id", orderID.String()),
			zap.Error(err))
	}
	return nil
}

// GetAttribution returns the attribution session for a token
func (s *TrackingService) GetAttribution(ctx context.Context, sessionToken uuid.UUID) (*ClickResponse, error) {
	click, err := s.clickRepo.FindBySessionToken(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	resp := ToClickResponse(click)
	return &resp, nil
}

// ListClicks lists an affiliate's clicks with date filtering
func (s *TrackingService) ListClicks(ctx context.Context, affiliateID uuid.UUID, filter affiliate.ClickFilter) ([]ClickResponse, int64, error) {
	clicks, total, err := s.clickRepo.ListByAffiliate(ctx, affiliateID, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ClickResponse, len(clicks))
	for i, c := range clicks {
		responses[i] = ToClickResponse(c)
	}
	return responses, total, nil
}
