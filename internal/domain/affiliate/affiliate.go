package affiliate

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/shared"
)

// Status represents the lifecycle status of an affiliate account
type Status string

const (
	// StatusPending represents a freshly registered, not yet reviewed affiliate
	StatusPending Status = "PENDING"
	// StatusActive represents an approved affiliate whose code can be tracked
	StatusActive Status = "ACTIVE"
	// StatusSuspended represents an affiliate blocked from earning commissions
	StatusSuspended Status = "SUSPENDED"
	// StatusRejected represents a rejected application
	StatusRejected Status = "REJECTED"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended, StatusRejected:
		return true
	}
	return false
}

// DefaultCommissionRate is applied to new affiliates until an admin sets one.
var DefaultCommissionRate = decimal.NewFromFloat(0.10)

// Affiliate represents a partner who refers customers through a tracked code.
// The commission rate is a fraction in [0,1] and is snapshotted onto each
// commission at conversion time, so later rate changes never rewrite history.
type Affiliate struct {
	shared.BaseEntity
	UserID         uuid.UUID
	Code           string
	Email          string
	Status         Status
	CommissionRate decimal.Decimal
	BusinessName   string
	WebsiteURL     string
	Description    string
	ApprovedAt     *time.Time
	LastActiveAt   *time.Time
}

// NewAffiliate creates a new affiliate application in pending status
func NewAffiliate(userID uuid.UUID, code, email, businessName string) (*Affiliate, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "User ID cannot be empty")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Affiliate code cannot be empty")
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_INPUT", "A valid email address is required")
	}

	return &Affiliate{
		BaseEntity:     shared.NewBaseEntity(),
		UserID:         userID,
		Code:           code,
		Email:          email,
		Status:         StatusPending,
		CommissionRate: DefaultCommissionRate,
		BusinessName:   businessName,
	}, nil
}

// WithWebsiteURL sets the website URL
func (a *Affiliate) WithWebsiteURL(url string) *Affiliate {
	a.WebsiteURL = url
	return a
}

// WithDescription sets the description
func (a *Affiliate) WithDescription(description string) *Affiliate {
	a.Description = description
	return a
}

// IsActive returns true if the affiliate can earn commissions
func (a *Affiliate) IsActive() bool {
	return a.Status == StatusActive
}

// Approve activates a pending affiliate. Approving an already active
// affiliate is a no-op; rejected accounts cannot be approved.
func (a *Affiliate) Approve() error {
	switch a.Status {
	case StatusActive:
		return nil
	case StatusPending, StatusSuspended:
		now := time.Now()
		a.Status = StatusActive
		a.ApprovedAt = &now
		a.UpdatedAt = now
		return nil
	default:
		return shared.NewDomainError("INVALID_STATE", "Cannot approve affiliate in status "+a.Status.String())
	}
}

// Suspend blocks the affiliate from earning. Suspending an already
// suspended affiliate is a no-op.
func (a *Affiliate) Suspend() {
	if a.Status == StatusSuspended {
		return
	}
	a.Status = StatusSuspended
	a.UpdatedAt = time.Now()
}

// Reject rejects a pending application
func (a *Affiliate) Reject() error {
	if a.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending affiliates can be rejected")
	}
	a.Status = StatusRejected
	a.UpdatedAt = time.Now()
	return nil
}

// SetCommissionRate updates the commission rate, bounded to [0,1]
func (a *Affiliate) SetCommissionRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_INPUT", "Commission rate must be between 0 and 1")
	}
	a.CommissionRate = rate
	a.UpdatedAt = time.Now()
	return nil
}

// TouchActivity records the last time the affiliate produced traffic
func (a *Affiliate) TouchActivity() {
	now := time.Now()
	a.LastActiveAt = &now
}

// Age returns how long ago the affiliate registered
func (a *Affiliate) Age(now time.Time) time.Duration {
	return now.Sub(a.CreatedAt)
}
