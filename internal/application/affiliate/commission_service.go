package affiliate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopcore/backend/internal/domain/affiliate"
	"github.com/shopcore/backend/internal/domain/shared"
)

// refundEventTTL bounds how long refund events are remembered for
// deduplication. Refund replays arrive within minutes in practice; the
// window is generous.
const refundEventTTL = 90 * 24 * time.Hour

// CommissionService manages the commission status lifecycle and refund
// adjustments. All status mutations go through conditional updates keyed
// on the expected current status.
type CommissionService struct {
	commissionRepo affiliate.CommissionRepository
	refundEvents   RefundEventStore
	logger         *zap.Logger
}

// NewCommissionService creates a new CommissionService
func NewCommissionService(
	commissionRepo affiliate.CommissionRepository,
	refundEvents RefundEventStore,
	logger *zap.Logger,
) *CommissionService {
	return &CommissionService{
		commissionRepo: commissionRepo,
		refundEvents:   refundEvents,
		logger:         logger,
	}
}

// Approve promotes a pending commission to approved
func (s *CommissionService) Approve(ctx context.Context, commissionID, actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Actor ID is required for approval")
	}

	c, err := s.commissionRepo.FindByID(ctx, commissionID)
	if err != nil {
		return err
	}
	expected := c.Status
	if err := c.Approve(actorID); err != nil {
		return err
	}
	return s.commissionRepo.UpdateIf(ctx, c, expected)
}

// MarkPaid settles a commission directly, recording payment metadata.
// Typically invoked through the payout cascade; direct settlement is for
// one-off corrections.
func (s *CommissionService) MarkPaid(ctx context.Context, commissionID uuid.UUID, method, reference string, actorID uuid.UUID, notes string) error {
	if actorID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Actor ID is required to mark a commission paid")
	}

	c, err := s.commissionRepo.FindByID(ctx, commissionID)
	if err != nil {
		return err
	}
	if c.Status == affiliate.CommissionStatusPaid {
		return nil
	}
	expected := c.Status
	if err := c.MarkPaid(method, reference, actorID, notes); err != nil {
		return err
	}
	return s.commissionRepo.UpdateIf(ctx, c, expected)
}

// Dispute freezes a commission against approval and payout until
// externally cleared
func (s *CommissionService) Dispute(ctx context.Context, commissionID, actorID uuid.UUID) error {
	c, err := s.commissionRepo.FindByID(ctx, commissionID)
	if err != nil {
		return err
	}
	expected := c.Status
	if err := c.Dispute(actorID); err != nil {
		return err
	}
	return s.commissionRepo.UpdateIf(ctx, c, expected)
}

// Cancel voids an unsettled commission
func (s *CommissionService) Cancel(ctx context.Context, commissionID, actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Actor ID is required for cancellation")
	}

	c, err := s.commissionRepo.FindByID(ctx, commissionID)
	if err != nil {
		return err
	}
	expected := c.Status
	if err := c.Cancel(actorID); err != nil {
		return err
	}
	return s.commissionRepo.UpdateIf(ctx, c, expected)
}

// Get returns one commission
func (s *CommissionService) Get(ctx context.Context, commissionID uuid.UUID) (*CommissionResponse, error) {
	c, err := s.commissionRepo.FindByID(ctx, commissionID)
	if err != nil {
		return nil, err
	}
	resp := ToCommissionResponse(c)
	return &resp, nil
}

// List lists commissions with optional affiliate/status/date filters
func (s *CommissionService) List(ctx context.Context, filter affiliate.CommissionFilter) ([]CommissionResponse, int64, error) {
	commissions, total, err := s.commissionRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]CommissionResponse, len(commissions))
	for i, c := range commissions {
		responses[i] = ToCommissionResponse(c)
	}
	return responses, total, nil
}

// Stats returns per-status counts and summed amounts. Pure projection.
func (s *CommissionService) Stats(ctx context.Context, filter affiliate.CommissionFilter) (*CommissionStatsResponse, error) {
	stats, err := s.commissionRepo.Stats(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := ToCommissionStatsResponse(stats)
	return &resp, nil
}

// HandleRefund reverses or discounts the order's commission in proportion
// to the refunded amount. Orders without a commission are a no-op (they
// were not affiliate-attributed). A paid commission is never mutated:
// the refund inserts a compensating entry instead. Refund events are
// deduplicated by (order, reference) so a replayed event cannot
// double-adjust.
func (s *CommissionService) HandleRefund(ctx context.Context, orderID uuid.UUID, refundAmount decimal.Decimal, actorID uuid.UUID, refundReference string) error {
	if actorID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Actor ID is required for refund handling")
	}
	if refundAmount.IsNegative() || refundAmount.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "Refund amount must be positive")
	}

	if fresh, err := s.markRefundEvent(ctx, orderID, refundAmount, refundReference); err != nil {
		// The dedupe store is a guard, not a gate: if it is unreachable
		// the refund still applies, at the cost of replay protection.
		s.logger.Warn("Refund event store unavailable, proceeding without dedupe",
			zap.String("order_id", orderID.String()), zap.Error(err))
	} else if !fresh {
		s.logger.Info("Duplicate refund event ignored",
			zap.String("order_id", orderID.String()),
			zap.String("refund_reference", refundReference))
		return nil
	}

	c, err := s.commissionRepo.FindOriginalByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Debug("Refund on non-attributed order",
				zap.String("order_id", orderID.String()))
			return nil
		}
		return err
	}

	if c.Status == affiliate.CommissionStatusPaid {
		entry, err := affiliate.NewCompensatingCommission(c, refundAmount, actorID)
		if err != nil {
			return err
		}
		if err := s.commissionRepo.Create(ctx, entry); err != nil {
			return err
		}
		s.logger.Info("Compensating commission created for refund on paid commission",
			zap.String("order_id", orderID.String()),
			zap.String("commission_id", entry.ID.String()),
			zap.String("amount", entry.CommissionAmount.String()))
		return nil
	}

	expected := c.Status
	if err := c.ApplyRefund(refundAmount, actorID); err != nil {
		return err
	}
	if err := s.commissionRepo.UpdateIf(ctx, c, expected); err != nil {
		return err
	}
	s.logger.Info("Commission adjusted in place for refund",
		zap.String("order_id", orderID.String()),
		zap.String("commission_id", c.ID.String()),
		zap.String("new_amount", c.CommissionAmount.String()))
	return nil
}

func (s *CommissionService) markRefundEvent(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal, reference string) (bool, error) {
	if s.refundEvents == nil {
		return true, nil
	}
	key := reference
	if key == "" {
		key = amount.String()
	}
	eventID := fmt.Sprintf("refund:%s:%s", orderID, key)
	return s.refundEvents.MarkProcessed(ctx, eventID, refundEventTTL)
}
