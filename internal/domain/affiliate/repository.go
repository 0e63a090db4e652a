package affiliate

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AffiliateFilter contains filter options for listing affiliates
type AffiliateFilter struct {
	Status   *Status
	Page     int
	PageSize int
}

// ClickFilter contains filter options for listing attribution clicks
type ClickFilter struct {
	ConvertedOnly bool
	DateFrom      *time.Time
	DateTo        *time.Time
	Page          int
	PageSize      int
}

// CommissionFilter contains filter options for listing commissions
type CommissionFilter struct {
	AffiliateID *uuid.UUID
	Status      *CommissionStatus
	DateFrom    *time.Time
	DateTo      *time.Time
	Page        int
	PageSize    int
}

// PayoutFilter contains filter options for listing payouts
type PayoutFilter struct {
	AffiliateID *uuid.UUID
	Status      *PayoutStatus
	Page        int
	PageSize    int
}

// CommissionStats aggregates counts and summed amounts per status.
// Pure projection, computed by the store.
type CommissionStats struct {
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

// AffiliateRepository defines the interface for affiliate persistence
type AffiliateRepository interface {
	Create(ctx context.Context, a *Affiliate) error
	Save(ctx context.Context, a *Affiliate) error
	FindByID(ctx context.Context, id uuid.UUID) (*Affiliate, error)
	FindByCode(ctx context.Context, code string) (*Affiliate, error)
	// FindActiveByCode resolves a referral code to an active affiliate only
	FindActiveByCode(ctx context.Context, code string) (*Affiliate, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Affiliate, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, filter AffiliateFilter) ([]*Affiliate, int64, error)
}

// LinkRepository defines the interface for tracked link persistence
type LinkRepository interface {
	Create(ctx context.Context, l *Link) error
	Save(ctx context.Context, l *Link) error
	FindByID(ctx context.Context, id uuid.UUID) (*Link, error)
	ListByAffiliate(ctx context.Context, affiliateID uuid.UUID) ([]*Link, error)
}

// ClickRepository defines the interface for attribution session persistence
type ClickRepository interface {
	Create(ctx context.Context, c *Click) error
	FindBySessionToken(ctx context.Context, token uuid.UUID) (*Click, error)

	// MarkConverted binds an open session to an order with a single
	// conditional write (converted = false is part of the predicate) and
	// returns the updated click. ErrNotFound means there was no open
	// session for the token: unknown, already converted, or a direct
	// purchase.
	MarkConverted(ctx context.Context, token, orderID uuid.UUID) (*Click, error)

	ListByAffiliate(ctx context.Context, affiliateID uuid.UUID, filter ClickFilter) ([]*Click, int64, error)
	// CountByAffiliateAndIP counts clicks from one network address since
	// the given time, for flood detection
	CountByAffiliateAndIP(ctx context.Context, affiliateID uuid.UUID, ipAddress string, since time.Time) (int64, error)
	// ConversionStats returns total and converted click counts since the
	// given time
	ConversionStats(ctx context.Context, affiliateID uuid.UUID, since time.Time) (total, converted int64, err error)
}

// CommissionRepository defines the interface for commission ledger persistence
type CommissionRepository interface {
	Create(ctx context.Context, c *Commission) error
	FindByID(ctx context.Context, id uuid.UUID) (*Commission, error)
	// FindOriginalByOrderID returns the earliest non-compensating
	// commission for an order, or ErrNotFound when the order was not
	// affiliate-attributed
	FindOriginalByOrderID(ctx context.Context, orderID uuid.UUID) (*Commission, error)
	List(ctx context.Context, filter CommissionFilter) ([]*Commission, int64, error)
	// FindApprovedByIDs fetches commissions matching affiliate, approved
	// status and the given ids; callers compare result size against the
	// request for all-or-nothing batch validation
	FindApprovedByIDs(ctx context.Context, affiliateID uuid.UUID, ids []uuid.UUID) ([]*Commission, error)

	// UpdateIf persists the entity only when the stored status still equals
	// expected. Returns ErrNotFound for missing rows and
	// ErrConcurrencyConflict when another writer changed the status first.
	UpdateIf(ctx context.Context, c *Commission, expected CommissionStatus) error

	// MarkPaidByIDs cascades settlement onto a payout's commissions and
	// returns the number of rows updated so partial cascades surface
	MarkPaidByIDs(ctx context.Context, ids []uuid.UUID, method, reference string, actorID uuid.UUID, paidAt time.Time) (int64, error)
	// DisputeByOrderID freezes the order's unsettled commissions
	DisputeByOrderID(ctx context.Context, orderID, actorID uuid.UUID) (int64, error)

	Stats(ctx context.Context, filter CommissionFilter) (*CommissionStats, error)
	CountByAffiliateSince(ctx context.Context, affiliateID uuid.UUID, since time.Time) (int64, error)
}

// PayoutRepository defines the interface for payout batch persistence
type PayoutRepository interface {
	// Create persists the payout and its commission join rows as one unit
	Create(ctx context.Context, p *Payout, commissionIDs []uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Payout, error)
	List(ctx context.Context, filter PayoutFilter) ([]*Payout, int64, error)
	// UpdateIf persists the entity only when the stored status still
	// equals expected (optimistic concurrency, same contract as
	// CommissionRepository.UpdateIf)
	UpdateIf(ctx context.Context, p *Payout, expected PayoutStatus) error
	CommissionIDs(ctx context.Context, payoutID uuid.UUID) ([]uuid.UUID, error)
}

// FraudLogRepository defines the interface for the append-only fraud log
type FraudLogRepository interface {
	Create(ctx context.Context, l *FraudLog) error
	ListByAffiliate(ctx context.Context, affiliateID uuid.UUID) ([]*FraudLog, error)
	// StatsByAffiliate returns the total flag count, the count since
	// recentSince, and the average risk score over all entries
	StatsByAffiliate(ctx context.Context, affiliateID uuid.UUID, recentSince time.Time) (total, recent int64, averageScore float64, err error)
}
