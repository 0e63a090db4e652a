package affiliate

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/shared"
)

// LinkType represents the kind of tracked URL an affiliate shares
type LinkType string

const (
	// LinkTypeGeneral points at the storefront root
	LinkTypeGeneral LinkType = "GENERAL"
	// LinkTypeProduct points at a single product page
	LinkTypeProduct LinkType = "PRODUCT"
	// LinkTypeCategory points at a category listing
	LinkTypeCategory LinkType = "CATEGORY"
)

// String returns the string representation of LinkType
func (t LinkType) String() string {
	return string(t)
}

// IsValid returns true if the link type is valid
func (t LinkType) IsValid() bool {
	switch t {
	case LinkTypeGeneral, LinkTypeProduct, LinkTypeCategory:
		return true
	}
	return false
}

// Link represents a named tracked URL variant owned by one affiliate.
// The type is immutable once created; only the active flag can be toggled.
// Counters are reporting projections, not ledger state.
type Link struct {
	shared.BaseEntity
	AffiliateID      uuid.UUID
	LinkType         LinkType
	TargetURL        string
	CampaignName     string
	ClickCount       int64
	ConversionCount  int64
	RevenueGenerated decimal.Decimal
	IsActive         bool
	ExpiresAt        *time.Time
	LastClickedAt    *time.Time
}

// NewLink creates a new tracked link for an affiliate
func NewLink(affiliateID uuid.UUID, linkType LinkType, targetURL string) (*Link, error) {
	if affiliateID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Affiliate ID cannot be empty")
	}
	if !linkType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid link type")
	}
	targetURL = strings.TrimSpace(targetURL)
	if targetURL == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Target URL cannot be empty")
	}

	return &Link{
		BaseEntity:       shared.NewBaseEntity(),
		AffiliateID:      affiliateID,
		LinkType:         linkType,
		TargetURL:        targetURL,
		RevenueGenerated: decimal.Zero,
		IsActive:         true,
	}, nil
}

// WithCampaignName sets the campaign name
func (l *Link) WithCampaignName(name string) *Link {
	l.CampaignName = name
	return l
}

// WithExpiresAt sets an expiry for the link
func (l *Link) WithExpiresAt(at time.Time) *Link {
	l.ExpiresAt = &at
	return l
}

// Deactivate disables the link
func (l *Link) Deactivate() {
	l.IsActive = false
	l.UpdatedAt = time.Now()
}

// Activate re-enables the link
func (l *Link) Activate() {
	l.IsActive = true
	l.UpdatedAt = time.Now()
}

// IsExpired returns true if the link has an expiry in the past
func (l *Link) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

// RecordClick bumps the click projection counters
func (l *Link) RecordClick(at time.Time) {
	l.ClickCount++
	l.LastClickedAt = &at
}

// RecordConversion bumps the conversion projection counters
func (l *Link) RecordConversion(revenue decimal.Decimal) {
	l.ConversionCount++
	l.RevenueGenerated = l.RevenueGenerated.Add(revenue)
}
