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

	"github.com/shopcore/backend/internal/application/notify"
	"github.com/shopcore/backend/internal/domain/affiliate"
	"github.com/shopcore/backend/internal/domain/shared"
)

// codeGenerationAttempts bounds the retry loop when a generated referral
// code collides with an existing one.
const codeGenerationAttempts = 5

// RegistryService owns affiliate identity, status and rate configuration
type RegistryService struct {
	affiliateRepo  affiliate.AffiliateRepository
	linkRepo       affiliate.LinkRepository
	clickRepo      affiliate.ClickRepository
	commissionRepo affiliate.CommissionRepository
	emails         notify.EmailSender
	logger         *zap.Logger
}

// NewRegistryService creates a new RegistryService
func NewRegistryService(
	affiliateRepo affiliate.AffiliateRepository,
	linkRepo affiliate.LinkRepository,
	clickRepo affiliate.ClickRepository,
	commissionRepo affiliate.CommissionRepository,
	emails notify.EmailSender,
	logger *zap.Logger,
) *RegistryService {
	return &RegistryService{
		affiliateRepo:  affiliateRepo,
		linkRepo:       linkRepo,
		clickRepo:      clickRepo,
		commissionRepo: commissionRepo,
		emails:         emails,
		logger:         logger,
	}
}

// Register creates a new affiliate application in pending status with a
// freshly generated, unique referral code.
func (s *RegistryService) Register(ctx context.Context, input RegisterAffiliateInput) (*AffiliateResponse, error) {
	code, err := s.generateCode(ctx)
	if err != nil {
		return nil, err
	}

	a, err := affiliate.NewAffiliate(input.UserID, code, input.Email, input.BusinessName)
	if err != nil {
		return nil, err
	}
	a.WithWebsiteURL(input.WebsiteURL).WithDescription(input.Description)

	if err := s.affiliateRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("Affiliate registered",
		zap.String("affiliate_id", a.ID.String()),
		zap.String("code", a.Code))

	resp := ToAffiliateResponse(a)
	return &resp, nil
}

// GetByID looks up an affiliate by id
func (s *RegistryService) GetByID(ctx context.Context, id uuid.UUID) (*AffiliateResponse, error) {
	a, err := s.affiliateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToAffiliateResponse(a)
	return &resp, nil
}

// GetByCode looks up an affiliate by referral code regardless of status
func (s *RegistryService) GetByCode(ctx context.Context, code string) (*AffiliateResponse, error) {
	a, err := s.affiliateRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := ToAffiliateResponse(a)
	return &resp, nil
}

// GetByUserID looks up an affiliate by owning user
func (s *RegistryService) GetByUserID(ctx context.Context, userID uuid.UUID) (*AffiliateResponse, error) {
	a, err := s.affiliateRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToAffiliateResponse(a)
	return &resp, nil
}

// List lists affiliates with an optional status filter
func (s *RegistryService) List(ctx context.Context, filter affiliate.AffiliateFilter) ([]AffiliateResponse, int64, error) {
	affiliates, total, err := s.affiliateRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]AffiliateResponse, len(affiliates))
	for i, a := range affiliates {
		responses[i] = ToAffiliateResponse(a)
	}
	return responses, total, nil
}

// Approve activates a pending affiliate and sends a best-effort approval
// email. The email never fails the approval.
func (s *RegistryService) Approve(ctx context.Context, affiliateID, actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Actor ID is required for approval")
	}

	a, err := s.affiliateRepo.FindByID(ctx, affiliateID)
	if err != nil {
		return err
	}
	if err := a.Approve(); err != nil {
		return err
	}
	if err := s.affiliateRepo.Save(ctx, a); err != nil {
		return err
	}

	s.logger.Info("Affiliate approved",
		zap.String("affiliate_id", a.ID.String()),
		zap.String("actor_id", actorID.String()))

	go s.sendApprovalEmail(a)
	return nil
}

// Suspend blocks the affiliate from earning. Idempotent at the status
// level: suspending an already suspended affiliate succeeds.
func (s *RegistryService) Suspend(ctx context.Context, affiliateID, actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Actor ID is required for suspension")
	}

	a, err := s.affiliateRepo.FindByID(ctx, affiliateID)
	if err != nil {
		return err
	}
	a.Suspend()
	if err := s.affiliateRepo.Save(ctx, a); err != nil {
		return err
	}

	s.logger.Info("Affiliate suspended",
		zap.String("affiliate_id", a.ID.String()),
		zap.String("actor_id", actorID.String()))
	return nil
}

// SetCommissionRate updates the rate, validated to [0,1]
func (s *RegistryService) SetCommissionRate(ctx context.Context, affiliateID uuid.UUID, rate decimal.Decimal, actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Actor ID is required to change the commission rate")
	}

	a, err := s.affiliateRepo.FindByID(ctx, affiliateID)
	if err != nil {
		return err
	}
	if err := a.SetCommissionRate(rate); err != nil {
		return err
	}
	return s.affiliateRepo.Save(ctx, a)
}

// GenerateLink creates a tracked link for an active affiliate
func (s *RegistryService) GenerateLink(ctx context.Context, affiliateID uuid.UUID, input GenerateLinkInput) (*LinkResponse, error) {
	a, err := s.affiliateRepo.FindByID(ctx, affiliateID)
	if err != nil {
		return nil, err
	}
	if !a.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Affiliate account is not active")
	}

	l, err := affiliate.NewLink(affiliateID, input.LinkType, input.TargetURL)
	if err != nil {
		return nil, err
	}
	if input.CampaignName != "" {
		l.WithCampaignName(input.CampaignName)
	}

	if err := s.linkRepo.Create(ctx, l); err != nil {
		return nil, err
	}

	resp := ToLinkResponse(l)
	return &resp, nil
}

// ListLinks lists an affiliate's tracked links
func (s *RegistryService) ListLinks(ctx context.Context, affiliateID uuid.UUID) ([]LinkResponse, error) {
	links, err := s.linkRepo.ListByAffiliate(ctx, affiliateID)
	if err != nil {
		return nil, err
	}
	responses := make([]LinkResponse, len(links))
	for i, l := range links {
		responses[i] = ToLinkResponse(l)
	}
	return responses, nil
}

// Stats returns traffic and commission projections for one affiliate over
// an optional trailing window starting at from.
func (s *RegistryService) Stats(ctx context.Context, affiliateID uuid.UUID, from *time.Time) (*AffiliateStatsResponse, error) {
	if _, err := s.affiliateRepo.FindByID(ctx, affiliateID); err != nil {
		return nil, err
	}

	since := time.Time{}
	if from != nil {
		since = *from
	}
	totalClicks, conversions, err := s.clickRepo.ConversionStats(ctx, affiliateID, since)
	if err != nil {
		return nil, err
	}

	commissionStats, err := s.commissionRepo.Stats(ctx, affiliate.CommissionFilter{
		AffiliateID: &affiliateID,
		DateFrom:    from,
	})
	if err != nil {
		return nil, err
	}

	resp := &AffiliateStatsResponse{
		AffiliateID:      affiliateID.String(),
		TotalClicks:      totalClicks,
		TotalConversions: conversions,
		TotalCommissions: commissionStats.TotalCount,
		TotalAmount:      commissionStats.TotalAmount,
		PendingAmount:    commissionStats.PendingAmount,
		PaidAmount:       commissionStats.PaidAmount,
	}
	if totalClicks > 0 {
		resp.ConversionRate = float64(conversions) / float64(totalClicks) * 100
	}
	return resp, nil
}

// ProgramStats returns program-wide projections
func (s *RegistryService) ProgramStats(ctx context.Context) (*ProgramStatsResponse, error) {
	_, total, err := s.affiliateRepo.List(ctx, affiliate.AffiliateFilter{Page: 1, PageSize: 1})
	if err != nil {
		return nil, err
	}
	active := affiliate.StatusActive
	_, activeCount, err := s.affiliateRepo.List(ctx, affiliate.AffiliateFilter{Status: &active, Page: 1, PageSize: 1})
	if err != nil {
		return nil, err
	}
	pending := affiliate.StatusPending
	_, pendingCount, err := s.affiliateRepo.List(ctx, affiliate.AffiliateFilter{Status: &pending, Page: 1, PageSize: 1})
	if err != nil {
		return nil, err
	}

	commissionStats, err := s.commissionRepo.Stats(ctx, affiliate.CommissionFilter{})
	if err != nil {
		return nil, err
	}

	return &ProgramStatsResponse{
		TotalAffiliates:   total,
		ActiveAffiliates:  activeCount,
		PendingAffiliates: pendingCount,
		TotalCommissions:  commissionStats.TotalCount,
		TotalAmount:       commissionStats.TotalAmount,
		PendingAmount:     commissionStats.PendingAmount,
		PaidAmount:        commissionStats.PaidAmount,
	}, nil
}

func (s *RegistryService) generateCode(ctx context.Context) (string, error) {
	for i := 0; i < codeGenerationAttempts; i++ {
		code := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
		exists, err := s.affiliateRepo.ExistsByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", shared.NewDomainError("ALREADY_EXISTS", "Could not generate a unique affiliate code")
}

func (s *RegistryService) sendApprovalEmail(a *affiliate.Affiliate) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	subject := "Your affiliate application has been approved"
	html := fmt.Sprintf("<p>Welcome aboard! Your referral code is <strong>%s</strong>.</p>", a.Code)
	text := fmt.Sprintf("Welcome aboard! Your referral code is %s.", a.Code)

	if err := s.emails.Send(ctx, a.Email, subject, html, text); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("Failed to send approval email",
			zap.String("affiliate_id", a.ID.String()),
			zap.Error(err))
	}
}
