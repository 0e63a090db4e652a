package affiliate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopcore/backend/internal/application/notify"
	"github.com/shopcore/backend/internal/domain/affiliate"
	"github.com/shopcore/backend/internal/domain/shared"
)

// PayoutService aggregates approved commissions into payout batches and
// settles them. Batch membership is all-or-nothing; settlement cascades
// paid status onto every linked commission.
type PayoutService struct {
	payoutRepo     affiliate.PayoutRepository
	commissionRepo affiliate.CommissionRepository
	notifier       notify.Notifier
	logger         *zap.Logger
}

// NewPayoutService creates a new PayoutService
func NewPayoutService(
	payoutRepo affiliate.PayoutRepository,
	commissionRepo affiliate.CommissionRepository,
	notifier notify.Notifier,
	logger *zap.Logger,
) *PayoutService {
	return &PayoutService{
		payoutRepo:     payoutRepo,
		commissionRepo: commissionRepo,
		notifier:       notifier,
		logger:         logger,
	}
}

// CreatePayout batches the given approved commissions into one pending
// payout. Any mismatched, foreign, or non-approved id invalidates the
// whole batch: the fetched set must cover every requested id.
func (s *PayoutService) CreatePayout(ctx context.Context, affiliateID uuid.UUID, commissionIDs []uuid.UUID, payoutMethod string, actorID uuid.UUID) (*PayoutResponse, error) {
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Actor ID is required to create a payout")
	}
	if len(commissionIDs) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payout requires at least one commission id")
	}

	commissions, err := s.commissionRepo.FindApprovedByIDs(ctx, affiliateID, commissionIDs)
	if err != nil {
		return nil, err
	}
	if len(commissions) != len(commissionIDs) {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Batch rejected: %d of %d commissions are not approved commissions of this affiliate",
				len(commissionIDs)-len(commissions), len(commissionIDs)))
	}

	p, err := affiliate.NewPayout(affiliateID, commissions, payoutMethod, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.payoutRepo.Create(ctx, p, commissionIDs); err != nil {
		return nil, err
	}

	s.logger.Info("Payout created",
		zap.String("payout_id", p.ID.String()),
		zap.String("affiliate_id", affiliateID.String()),
		zap.Int("commission_count", p.CommissionCount),
		zap.String("total_amount", p.TotalAmount.String()))

	go s.notifyPayoutCreated(p)

	resp := ToPayoutResponse(p)
	return &resp, nil
}

// ProcessPayout transitions the payout to completed and cascades paid
// status onto every linked commission. Payout update and cascade form one
// logical unit: a partial cascade is surfaced as a conflict, never
// swallowed.
func (s *PayoutService) ProcessPayout(ctx context.Context, payoutID uuid.UUID, paymentReference string, actorID uuid.UUID, notes string) error {
	if actorID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Actor ID is required to process a payout")
	}

	p, err := s.payoutRepo.FindByID(ctx, payoutID)
	if err != nil {
		return err
	}
	expected := p.Status
	if err := p.Complete(paymentReference, actorID, notes); err != nil {
		return err
	}
	if err := s.payoutRepo.UpdateIf(ctx, p, expected); err != nil {
		return err
	}

	commissionIDs, err := s.payoutRepo.CommissionIDs(ctx, payoutID)
	if err != nil {
		return fmt.Errorf("payout %s completed but commission lookup failed: %w", payoutID, err)
	}

	updated, err := s.commissionRepo.MarkPaidByIDs(ctx, commissionIDs, p.PayoutMethod, paymentReference, actorID, *p.ProcessedAt)
	if err != nil {
		return fmt.Errorf("payout %s completed but commission cascade failed: %w", payoutID, err)
	}
	if updated != int64(len(commissionIDs)) {
		return shared.NewDomainError("CONCURRENCY_CONFLICT",
			fmt.Sprintf("Payout %s settled but only %d of %d commissions were marked paid", payoutID, updated, len(commissionIDs)))
	}

	s.logger.Info("Payout processed",
		zap.String("payout_id", payoutID.String()),
		zap.String("payment_reference", paymentReference),
		zap.Int64("commissions_paid", updated))
	return nil
}

// Get returns one payout
func (s *PayoutService) Get(ctx context.Context, payoutID uuid.UUID) (*PayoutResponse, error) {
	p, err := s.payoutRepo.FindByID(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	resp := ToPayoutResponse(p)
	return &resp, nil
}

// List lists payouts with optional affiliate/status filters
func (s *PayoutService) List(ctx context.Context, filter affiliate.PayoutFilter) ([]PayoutResponse, int64, error) {
	payouts, total, err := s.payoutRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]PayoutResponse, len(payouts))
	for i, p := range payouts {
		responses[i] = ToPayoutResponse(p)
	}
	return responses, total, nil
}

func (s *PayoutService) notifyPayoutCreated(p *affiliate.Payout) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := fmt.Sprintf("Payout %s created for affiliate %s: %s across %d commissions",
		p.ID, p.AffiliateID, p.TotalAmount, p.CommissionCount)
	if err := s.notifier.Send(ctx, msg); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("Failed to send payout notification",
			zap.String("payout_id", p.ID.String()),
			zap.Error(err))
	}
}
