package affiliate

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/affiliate"
)

// AffiliateResponse represents an affiliate in service responses
type AffiliateResponse struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Code           string     `json:"code"`
	Email          string     `json:"email"`
	Status         string     `json:"status"`
	CommissionRate float64    `json:"commission_rate"`
	BusinessName   string     `json:"business_name,omitempty"`
	WebsiteURL     string     `json:"website_url,omitempty"`
	Description    string     `json:"description,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ToAffiliateResponse converts a domain affiliate to a response DTO
func ToAffiliateResponse(a *affiliate.Affiliate) AffiliateResponse {
	return AffiliateResponse{
		ID:             a.ID.String(),
		UserID:         a.UserID.String(),
		Code:           a.Code,
		Email:          a.Email,
		Status:         a.Status.String(),
		CommissionRate: a.CommissionRate.InexactFloat64(),
		BusinessName:   a.BusinessName,
		WebsiteURL:     a.WebsiteURL,
		Description:    a.Description,
		ApprovedAt:     a.ApprovedAt,
		CreatedAt:      a.CreatedAt,
	}
}

// LinkResponse represents a tracked link in service responses
type LinkResponse struct {
	ID               string     `json:"id"`
	AffiliateID      string     `json:"affiliate_id"`
	LinkType         string     `json:"link_type"`
	TargetURL        string     `json:"target_url"`
	CampaignName     string     `json:"campaign_name,omitempty"`
	ClickCount       int64      `json:"click_count"`
	ConversionCount  int64      `json:"conversion_count"`
	RevenueGenerated float64    `json:"revenue_generated"`
	IsActive         bool       `json:"is_active"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ToLinkResponse converts a domain link to a response DTO
func ToLinkResponse(l *affiliate.Link) LinkResponse {
	return LinkResponse{
		ID:               l.ID.String(),
		AffiliateID:      l.AffiliateID.String(),
		LinkType:         l.LinkType.String(),
		TargetURL:        l.TargetURL,
		CampaignName:     l.CampaignName,
		ClickCount:       l.ClickCount,
		ConversionCount:  l.ConversionCount,
		RevenueGenerated: l.RevenueGenerated.InexactFloat64(),
		IsActive:         l.IsActive,
		ExpiresAt:        l.ExpiresAt,
		CreatedAt:        l.CreatedAt,
	}
}

// ClickResponse represents an attribution session in service responses
type ClickResponse struct {
	ID           string     `json:"id"`
	AffiliateID  string     `json:"affiliate_id"`
	LinkID       *string    `json:"link_id,omitempty"`
	SessionToken string     `json:"session_token"`
	IPAddress    string     `json:"ip_address,omitempty"`
	Referrer     string     `json:"referrer,omitempty"`
	LandingPage  string     `json:"landing_page,omitempty"`
	Campaign     string     `json:"campaign,omitempty"`
	Converted    bool       `json:"converted"`
	OrderID      *string    `json:"order_id,omitempty"`
	ConvertedAt  *time.Time `json:"converted_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToClickResponse converts a domain click to a response DTO
func ToClickResponse(c *affiliate.Click) ClickResponse {
	resp := ClickResponse{
		ID:           c.ID.String(),
		AffiliateID:  c.AffiliateID.String(),
		SessionToken: c.SessionToken.String(),
		IPAddress:    c.IPAddress,
		Referrer:     c.Referrer,
		LandingPage:  c.LandingPage,
		Campaign:     c.Campaign,
		Converted:    c.Converted,
		ConvertedAt:  c.ConvertedAt,
		CreatedAt:    c.CreatedAt,
	}
	if c.LinkID != nil {
		s := c.LinkID.String()
		resp.LinkID = &s
	}
	if c.OrderID != nil {
		s := c.OrderID.String()
		resp.OrderID = &s
	}
	return resp
}

// CommissionResponse represents a commission ledger row in service responses
type CommissionResponse struct {
	ID               string     `json:"id"`
	AffiliateID      string     `json:"affiliate_id"`
	OrderID          string     `json:"order_id"`
	ClickID          *string    `json:"click_id,omitempty"`
	OrderTotal       float64    `json:"order_total"`
	CommissionRate   float64    `json:"commission_rate"`
	CommissionAmount float64    `json:"commission_amount"`
	Status           string     `json:"status"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	PaymentMethod    string     `json:"payment_method,omitempty"`
	PaymentReference string     `json:"payment_reference,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ToCommissionResponse converts a domain commission to a response DTO
func ToCommissionResponse(c *affiliate.Commission) CommissionResponse {
	resp := CommissionResponse{
		ID:               c.ID.String(),
		AffiliateID:      c.AffiliateID.String(),
		OrderID:          c.OrderID.String(),
		OrderTotal:       c.OrderTotal.InexactFloat64(),
		CommissionRate:   c.CommissionRate.InexactFloat64(),
		CommissionAmount: c.CommissionAmount.InexactFloat64(),
		Status:           c.Status.String(),
		PaidAt:           c.PaidAt,
		PaymentMethod:    c.PaymentMethod,
		PaymentReference: c.PaymentReference,
		CreatedAt:        c.CreatedAt,
	}
	if c.ClickID != nil {
		s := c.ClickID.String()
		resp.ClickID = &s
	}
	return resp
}

// PayoutResponse represents a payout batch in service responses
type PayoutResponse struct {
	ID               string     `json:"id"`
	AffiliateID      string     `json:"affiliate_id"`
	TotalAmount      float64    `json:"total_amount"`
	CommissionCount  int        `json:"commission_count"`
	PayoutMethod     string     `json:"payout_method"`
	Status           string     `json:"status"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty"`
	PaymentReference string     `json:"payment_reference,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ToPayoutResponse converts a domain payout to a response DTO
func ToPayoutResponse(p *affiliate.Payout) PayoutResponse {
	return PayoutResponse{
		ID:               p.ID.String(),
		AffiliateID:      p.AffiliateID.String(),
		TotalAmount:      p.TotalAmount.InexactFloat64(),
		CommissionCount:  p.CommissionCount,
		PayoutMethod:     p.PayoutMethod,
		Status:           p.Status.String(),
		ProcessedAt:      p.ProcessedAt,
		PaymentReference: p.PaymentReference,
		Notes:            p.Notes,
		CreatedAt:        p.CreatedAt,
	}
}

// FraudCheckResponse represents a fraud evaluation result
type FraudCheckResponse struct {
	Suspicious bool     `json:"suspicious"`
	Reasons    []string `json:"reasons"`
	RiskScore  int      `json:"risk_score"`
}

// ToFraudCheckResponse converts a domain fraud check result to a response DTO
func ToFraudCheckResponse(r *affiliate.FraudCheckResult) FraudCheckResponse {
	reasons := r.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return FraudCheckResponse{
		Suspicious: r.Suspicious,
		Reasons:    reasons,
		RiskScore:  r.RiskScore,
	}
}

// RiskProfileResponse represents an affiliate risk classification
type RiskProfileResponse struct {
	AffiliateID      string  `json:"affiliate_id"`
	RiskLevel        string  `json:"risk_level"`
	TotalFlags       int64   `json:"total_flags"`
	RecentFlags      int64   `json:"recent_flags"`
	AverageRiskScore float64 `json:"average_risk_score"`
}

// AffiliateStatsResponse aggregates traffic and commission projections for
// one affiliate
type AffiliateStatsResponse struct {
	AffiliateID      string  `json:"affiliate_id"`
	TotalClicks      int64   `json:"total_clicks"`
	TotalConversions int64   `json:"total_conversions"`
	ConversionRate   float64 `json:"conversion_rate"`
	TotalCommissions int64   `json:"total_commissions"`
	TotalAmount      float64 `json:"total_amount"`
	PendingAmount    float64 `json:"pending_amount"`
	PaidAmount       float64 `json:"paid_amount"`
}

// ProgramStatsResponse aggregates program-wide projections
type ProgramStatsResponse struct {
	TotalAffiliates   int64   `json:"total_affiliates"`
	ActiveAffiliates  int64   `json:"active_affiliates"`
	PendingAffiliates int64   `json:"pending_affiliates"`
	TotalCommissions  int64   `json:"total_commissions"`
	TotalAmount       float64 `json:"total_amount"`
	PendingAmount     float64 `json:"pending_amount"`
	PaidAmount        float64 `json:"paid_amount"`
}

// CommissionStatsResponse mirrors the per-status ledger aggregates
type CommissionStatsResponse struct {
	TotalCount     int64   `json:"total_count"`
	PendingCount   int64   `json:"pending_count"`
	ApprovedCount  int64   `json:"approved_count"`
	PaidCount      int64   `json:"paid_count"`
	DisputedCount  int64   `json:"disputed_count"`
	CancelledCount int64   `json:"cancelled_count"`
	TotalAmount    float64 `json:"total_amount"`
	PendingAmount  float64 `json:"pending_amount"`
	ApprovedAmount float64 `json:"approved_amount"`
	PaidAmount     float64 `json:"paid_amount"`
}

// ToCommissionStatsResponse converts repository aggregates to a response DTO
func ToCommissionStatsResponse(s *affiliate.CommissionStats) CommissionStatsResponse {
	return CommissionStatsResponse{
		TotalCount:     s.TotalCount,
		PendingCount:   s.PendingCount,
		ApprovedCount:  s.ApprovedCount,
		PaidCount:      s.PaidCount,
		DisputedCount:  s.DisputedCount,
		CancelledCount: s.CancelledCount,
		TotalAmount:    s.TotalAmount,
		PendingAmount:  s.PendingAmount,
		ApprovedAmount: s.ApprovedAmount,
		PaidAmount:     s.PaidAmount,
	}
}

// RegisterAffiliateInput carries a new affiliate application
type RegisterAffiliateInput struct {
	UserID       uuid.UUID
	Email        string
	BusinessName string
	WebsiteURL   string
	Description  string
}

// GenerateLinkInput carries a tracked link request
type GenerateLinkInput struct {
	LinkType     affiliate.LinkType
	TargetURL    string
	CampaignName string
}
