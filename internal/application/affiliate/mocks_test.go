package affiliate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/shopcore/backend/internal/domain/affiliate"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockAffiliateRepository is a mock implementation of AffiliateRepository
type MockAffiliateRepository struct {
	mock.Mock
}

func (m *MockAffiliateRepository) Create(ctx context.Context, a *affiliate.Affiliate) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAffiliateRepository) Save(ctx context.Context, a *affiliate.Affiliate) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAffiliateRepository) FindByID(ctx context.Context, id uuid.UUID) (*affiliate.Affiliate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*affiliate.Affiliate), args.Error(1)
}

func (m *MockAffiliateRepository) FindByCode(ctx context.Context, code string) (*affiliate.Affiliate, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*affiliate.Affiliate), args.Error(1)
}

func (m *MockAffiliateRepository) FindActiveByCode(ctx context.Context, code string) (*affiliate.Affiliate, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*affiliate.Affiliate), args.Error(1)
}

func (m *MockAffiliateRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*affiliate.Affiliate, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*affiliate.Affiliate), args.Error(1)
}

func (m *MockAffiliateRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockAffiliateRepository) List(ctx context.Context, filter affiliate.AffiliateFilter) ([]*affiliate.Affiliate, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*affiliate.Affiliate), args.Get(1).(int64), args.Error(2)
}

// MockLinkRepository is a mock implementation of LinkRepository
type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) Create(ctx context.Context, l *affiliate.Link) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLinkRepository) Save(ctx context.Context, l *affiliate.Link) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLinkRepository) FindByID(ctx context.Context, id uuid.UUID) (*affiliate.Link, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*affiliate.Link), args.Error(1)
}

func (m *MockLinkRepository) ListByAffiliate(ctx context.Context, affiliateID uuid.UUID) ([]*affiliate.Link, error) {
	args := m.Called(ctx, affiliateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*affiliate.Link), args.Error(1)
}

// MockClickRepository is a mock implementation of ClickRepository
type MockClickRepository struct {
	mock.Mock
}

func (m *MockClickRepository) Create(ctx context.Context, c *affiliate.Click) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClickRepository) FindBySessionToken(ctx context.Context, token uuid.UUID) (*affiliate.Click, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*affiliate.Click), args.Error(1)
}

func (m *MockClickRepository) MarkConverted(ctx context.Context, token, orderID uuid.UUID) (*affiliate.Click, error) {
	args := m.Called(ctx, token, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*affiliate.Click), args.Error(1)
}

func (m *MockClickRepository) ListByAffiliate(ctx context.Context, affiliateID uuid.UUID, filter affiliate.ClickFilter) ([]*affiliate.Click, int64, error) {
	args := m.Called(ctx, affiliateID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*affiliate.Click), args.Get(1).(int64), args.Error(2)
}

func (m *MockClickRepository) CountByAffiliateAndIP(ctx context.Context, affiliateID uuid.UUID, ipAddress string, since time.Time) (int64, error) {
	args := m.Called(ctx, affiliateID, ipAddress, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClickRepository) ConversionStats(ctx context.Context, affiliateID uuid.UUID, since time.Time) (int64, int64, error) {
	args := m.Called(ctx, affiliateID, since)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// MockCommissionRepository is a mock implementation of CommissionRepository
type MockCommissionRepository struct {
	mock.Mock
}

func (m *MockCommissionRepository) Create(ctx context.Context, c *affiliate.Commission) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCommissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*affiliate.Commission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*affiliate.Commission), args.Error(1)
}

func (m *MockCommissionRepository) FindOriginalByOrderID(ctx context.Context, orderID uuid.UUID) (*affiliate.Commission, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*affiliate.Commission), args.Error(1)
}

func (m *MockCommissionRepository) List(ctx context.Context, filter affiliate.CommissionFilter) ([]*affiliate.Commission, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*affiliate.Commission), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommissionRepository) FindApprovedByIDs(ctx context.Context, affiliateID uuid.UUID, ids []uuid.UUID) ([]*affiliate.Commission, error) {
	args := m.Called(ctx, affiliateID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*affiliate.Commission), args.Error(1)
}

func (m *MockCommissionRepository) UpdateIf(ctx context.Context, c *affiliate.Commission, expected affiliate.CommissionStatus) error {
	args := m.Called(ctx, c, expected)
	return args.Error(0)
}

func (m *MockCommissionRepository) MarkPaidByIDs(ctx context.Context, ids []uuid.UUID, method, reference string, actorID uuid.UUID, paidAt time.Time) (int64, error) {
	args := m.Called(ctx, ids, method, reference, actorID, paidAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommissionRepository) DisputeByOrderID(ctx context.Context, orderID, actorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orderID, actorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommissionRepository) Stats(ctx context.Context, filter affiliate.CommissionFilter) (*affiliate.CommissionStats, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*affiliate.CommissionStats), args.Error(1)
}

func (m *MockCommissionRepository) CountByAffiliateSince(ctx context.Context, affiliateID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(ctx, affiliateID, since)
	return args.Get(0).(int64), args.Error(1)
}

// MockPayoutRepository is a mock implementation of PayoutRepository
type MockPayoutRepository struct {
	mock.Mock
}

func (m *MockPayoutRepository) Create(ctx context.Context, p *affiliate.Payout, commissionIDs []uuid.UUID) error {
	args := m.Called(ctx, p, commissionIDs)
	return args.Error(0)
}

func (m *MockPayoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*affiliate.Payout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*affiliate.Payout), args.Error(1)
}

func (m *MockPayoutRepository) List(ctx context.Context, filter affiliate.PayoutFilter) ([]*affiliate.Payout, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*affiliate.Payout), args.Get(1).(int64), args.Error(2)
}

func (m *MockPayoutRepository) UpdateIf(ctx context.Context, p *affiliate.Payout, expected affiliate.PayoutStatus) error {
	args := m.Called(ctx, p, expected)
	return args.Error(0)
}

func (m *MockPayoutRepository) CommissionIDs(ctx context.Context, payoutID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, payoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockFraudLogRepository is a mock implementation of FraudLogRepository
type MockFraudLogRepository struct {
	mock.Mock
}

func (m *MockFraudLogRepository) Create(ctx context.Context, l *affiliate.FraudLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockFraudLogRepository) ListByAffiliate(ctx context.Context, affiliateID uuid.UUID) ([]*affiliate.FraudLog, error) {
	args := m.Called(ctx, affiliateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*affiliate.FraudLog), args.Error(1)
}

func (m *MockFraudLogRepository) StatsByAffiliate(ctx context.Context, affiliateID uuid.UUID, recentSince time.Time) (int64, int64, float64, error) {
	args := m.Called(ctx, affiliateID, recentSince)
	return args.Get(0).(int64), args.Get(1).(int64), args.Get(2).(float64), args.Error(3)
}

// =============================================================================
// Mock Collaborators
// =============================================================================

// MockOrderGateway is a mock implementation of OrderGateway
type MockOrderGateway struct {
	mock.Mock
}

func (m *MockOrderGateway) TotalAmount(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockOrderGateway) AnnotateAttribution(ctx context.Context, orderID, affiliateID, clickID uuid.UUID, commissionAmount decimal.Decimal) error {
	args := m.Called(ctx, orderID, affiliateID, clickID, commissionAmount)
	return args.Error(0)
}

// MockRefundEventStore is a mock implementation of RefundEventStore
type MockRefundEventStore struct {
	mock.Mock
}

func (m *MockRefundEventStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, ttl)
	return args.Bool(0), args.Error(1)
}
