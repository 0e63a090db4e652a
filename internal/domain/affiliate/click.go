package affiliate

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/shared"
)

// ClickMeta carries the request metadata captured with a referral click
type ClickMeta struct {
	IPAddress   string
	UserAgent   string
	Referrer    string
	LandingPage string
	Campaign    string
}

// Click is the attribution session created when a visitor follows a
// tracked link. It correlates the visit to a later order through the
// session token. A click converts at most once: the converted flag is a
// one-way transition enforced with a conditional write at the store.
type Click struct {
	shared.BaseEntity
	AffiliateID  uuid.UUID
	LinkID       *uuid.UUID
	SessionToken uuid.UUID
	IPAddress    string
	UserAgent    string
	Referrer     string
	LandingPage  string
	Campaign     string
	Converted    bool
	OrderID      *uuid.UUID
	ConvertedAt  *time.Time
}

// NewClick creates a new attribution session with a freshly minted token
func NewClick(affiliateID uuid.UUID, meta ClickMeta) (*Click, error) {
	if affiliateID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Affiliate ID cannot be empty")
	}

	return &Click{
		BaseEntity:   shared.NewBaseEntity(),
		AffiliateID:  affiliateID,
		SessionToken: uuid.New(),
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Referrer:     meta.Referrer,
		LandingPage:  meta.LandingPage,
		Campaign:     meta.Campaign,
		Converted:    false,
	}, nil
}

// WithLinkID associates the click with a specific tracked link
func (c *Click) WithLinkID(linkID uuid.UUID) *Click {
	c.LinkID = &linkID
	return c
}

// MarkConverted binds the session to an order. Converting an already
// converted session is an invalid state; the repository additionally
// guards this with a converted=false write predicate.
func (c *Click) MarkConverted(orderID uuid.UUID) error {
	if c.Converted {
		return shared.NewDomainError("INVALID_STATE", "Attribution session has already converted")
	}
	if orderID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Order ID cannot be empty")
	}
	now := time.Now()
	c.Converted = true
	c.OrderID = &orderID
	c.ConvertedAt = &now
	c.UpdatedAt = now
	return nil
}
