package affiliate

import (
	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/shared"
)

// Fraud signal weights. Each signal is independently computable and the
// total is clamped to 100.
const (
	ScoreSelfReferral       = 50
	ScoreClickFlooding      = 30
	ScoreAbnormalConversion = 25
	ScoreOrderBurst         = 20
	ScoreNewAffiliateWhale  = 15

	// MaxRiskScore caps the additive score
	MaxRiskScore = 100
	// SuspiciousThreshold marks a check result as suspicious
	SuspiciousThreshold = 50
	// AutoSuspendThreshold triggers automatic affiliate suspension
	AutoSuspendThreshold = 80
)

// FraudLogStatus represents the review state of a fraud log entry
type FraudLogStatus string

const (
	// FraudLogStatusFlagged is the initial state of every log entry
	FraudLogStatusFlagged FraudLogStatus = "FLAGGED"
	// FraudLogStatusReviewed was manually reviewed
	FraudLogStatusReviewed FraudLogStatus = "REVIEWED"
	// FraudLogStatusDismissed was reviewed and found benign
	FraudLogStatusDismissed FraudLogStatus = "DISMISSED"
)

// String returns the string representation of FraudLogStatus
func (s FraudLogStatus) String() string {
	return string(s)
}

// FraudLog is an append-only record of one risk evaluation
type FraudLog struct {
	shared.BaseEntity
	AffiliateID uuid.UUID
	OrderID     uuid.UUID
	RiskScore   int
	Reasons     []string
	Status      FraudLogStatus
}

// NewFraudLog creates a fraud log entry for an evaluation result
func NewFraudLog(affiliateID, orderID uuid.UUID, riskScore int, reasons []string) (*FraudLog, error) {
	if affiliateID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Affiliate ID cannot be empty")
	}
	if riskScore < 0 || riskScore > MaxRiskScore {
		return nil, shared.NewDomainError("INVALID_INPUT", "Risk score must be between 0 and 100")
	}

	return &FraudLog{
		BaseEntity:  shared.NewBaseEntity(),
		AffiliateID: affiliateID,
		OrderID:     orderID,
		RiskScore:   riskScore,
		Reasons:     reasons,
		Status:      FraudLogStatusFlagged,
	}, nil
}

// FraudCheckResult is the outcome of evaluating one order/affiliate pair
type FraudCheckResult struct {
	Suspicious bool
	Reasons    []string
	RiskScore  int
}

// Clamp caps the risk score and derives the suspicious flag
func (r *FraudCheckResult) Clamp() {
	if r.RiskScore > MaxRiskScore {
		r.RiskScore = MaxRiskScore
	}
	r.Suspicious = r.RiskScore >= SuspiciousThreshold
}

// RiskLevel classifies an affiliate's historical fraud exposure
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

// String returns the string representation of RiskLevel
func (l RiskLevel) String() string {
	return string(l)
}

// RiskProfile summarizes an affiliate's fraud log history
type RiskProfile struct {
	RiskLevel        RiskLevel
	TotalFlags       int64
	RecentFlags      int64
	AverageRiskScore float64
}

// ClassifyRisk derives a risk level from historical fraud log aggregates:
// high when the average score reaches 70 or there are 5+ flags in the
// trailing window, medium at average 40 or 2+ recent flags, low otherwise.
func ClassifyRisk(averageScore float64, recentFlags int64) RiskLevel {
	switch {
	case averageScore >= 70 || recentFlags >= 5:
		return RiskLevelHigh
	case averageScore >= 40 || recentFlags >= 2:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}
