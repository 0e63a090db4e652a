package affiliate

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/shared"
)

// CommissionStatus represents the lifecycle state of a commission
type CommissionStatus string

const (
	// CommissionStatusPending awaits administrative review
	CommissionStatusPending CommissionStatus = "PENDING"
	// CommissionStatusApproved is cleared for payout
	CommissionStatusApproved CommissionStatus = "APPROVED"
	// CommissionStatusPaid has been settled through a payout (terminal)
	CommissionStatusPaid CommissionStatus = "PAID"
	// CommissionStatusCancelled was voided before settlement (terminal)
	CommissionStatusCancelled CommissionStatus = "CANCELLED"
	// CommissionStatusDisputed is frozen pending fraud resolution
	CommissionStatusDisputed CommissionStatus = "DISPUTED"
)

// String returns the string representation of CommissionStatus
func (s CommissionStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s CommissionStatus) IsValid() bool {
	switch s {
	case CommissionStatusPending, CommissionStatusApproved, CommissionStatusPaid,
		CommissionStatusCancelled, CommissionStatusDisputed:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are allowed
func (s CommissionStatus) IsTerminal() bool {
	return s == CommissionStatusPaid || s == CommissionStatusCancelled
}

// Commission is a ledger row binding one order to one affiliate. Order
// total and rate are snapshots taken at conversion time, so
// CommissionAmount == OrderTotal * CommissionRate holds at creation and is
// recomputed on every in-place adjustment. Once paid, a commission is never
// mutated: refunds against paid rows produce compensating entries instead.
type Commission struct {
	shared.BaseEntity
	AffiliateID      uuid.UUID
	OrderID          uuid.UUID
	ClickID          *uuid.UUID
	OrderTotal       decimal.Decimal
	CommissionRate   decimal.Decimal
	CommissionAmount decimal.Decimal
	Status           CommissionStatus
	PaidAt           *time.Time
	PaymentMethod    string
	PaymentReference string
	PaymentNotes     string
	CreatedBy        *uuid.UUID
	UpdatedBy        *uuid.UUID
}

// NewCommission creates a pending commission from a conversion, freezing
// the order total and the affiliate's current rate onto the row.
func NewCommission(affiliateID, orderID uuid.UUID, orderTotal, rate decimal.Decimal) (*Commission, error) {
	if affiliateID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Affiliate ID cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Order ID cannot be empty")
	}
	if orderTotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Order total cannot be negative")
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Commission rate must be between 0 and 1")
	}

	return &Commission{
		BaseEntity:       shared.NewBaseEntity(),
		AffiliateID:      affiliateID,
		OrderID:          orderID,
		OrderTotal:       orderTotal,
		CommissionRate:   rate,
		CommissionAmount: orderTotal.Mul(rate),
		Status:           CommissionStatusPending,
	}, nil
}

// NewCompensatingCommission creates the reversing ledger entry for a
// refund against an already paid commission. Both total and amount are
// negative, and the entry is created approved so it nets out in the next
// payout instead of rewriting the settled row.
func NewCompensatingCommission(original *Commission, refundAmount decimal.Decimal, actorID uuid.UUID) (*Commission, error) {
	if original == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Original commission is required")
	}
	if refundAmount.IsNegative() || refundAmount.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Refund amount must be positive")
	}
	if refundAmount.GreaterThan(original.OrderTotal) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Refund amount exceeds original order total")
	}

	adjustment := refundAmount.Mul(original.CommissionRate)
	entry := &Commission{
		BaseEntity:       shared.NewBaseEntity(),
		AffiliateID:      original.AffiliateID,
		OrderID:          original.OrderID,
		OrderTotal:       refundAmount.Neg(),
		CommissionRate:   original.CommissionRate,
		CommissionAmount: adjustment.Neg(),
		Status:           CommissionStatusApproved,
	}
	if actorID != uuid.Nil {
		entry.CreatedBy = &actorID
		entry.UpdatedBy = &actorID
	}
	return entry, nil
}

// WithClickID associates the originating attribution session
func (c *Commission) WithClickID(clickID uuid.UUID) *Commission {
	c.ClickID = &clickID
	return c
}

// IsCompensating returns true for refund reversal entries
func (c *Commission) IsCompensating() bool {
	return c.CommissionAmount.IsNegative()
}

// Approve transitions pending -> approved
func (c *Commission) Approve(actorID uuid.UUID) error {
	if c.Status != CommissionStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending commissions can be approved")
	}
	c.Status = CommissionStatusApproved
	c.stampActor(actorID)
	return nil
}

// MarkPaid settles the commission, recording payment metadata. Marking an
// already paid commission is a no-op so payout cascades stay idempotent.
func (c *Commission) MarkPaid(method, reference string, actorID uuid.UUID, notes string) error {
	if c.Status == CommissionStatusPaid {
		return nil
	}
	if c.Status == CommissionStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cancelled commissions cannot be paid")
	}
	now := time.Now()
	c.Status = CommissionStatusPaid
	c.PaidAt = &now
	c.PaymentMethod = method
	c.PaymentReference = reference
	c.PaymentNotes = notes
	c.stampActor(actorID)
	return nil
}

// Dispute freezes an unsettled commission against approval and payout
func (c *Commission) Dispute(actorID uuid.UUID) error {
	if c.Status != CommissionStatusPending && c.Status != CommissionStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only pending or approved commissions can be disputed")
	}
	c.Status = CommissionStatusDisputed
	c.stampActor(actorID)
	return nil
}

// Cancel voids an unsettled commission
func (c *Commission) Cancel(actorID uuid.UUID) error {
	if c.Status != CommissionStatusPending && c.Status != CommissionStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only pending or approved commissions can be cancelled")
	}
	c.Status = CommissionStatusCancelled
	c.stampActor(actorID)
	return nil
}

// ApplyRefund adjusts an unsettled commission in place for a partial or
// full refund. The amount is recomputed from the reduced total so the
// snapshot invariant keeps holding. Paid commissions must go through
// NewCompensatingCommission instead.
func (c *Commission) ApplyRefund(refundAmount decimal.Decimal, actorID uuid.UUID) error {
	if c.Status == CommissionStatusPaid || c.Status == CommissionStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Settled commissions cannot be adjusted in place")
	}
	if refundAmount.IsNegative() || refundAmount.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "Refund amount must be positive")
	}
	if refundAmount.GreaterThan(c.OrderTotal) {
		return shared.NewDomainError("INVALID_INPUT", "Refund amount exceeds order total")
	}

	c.OrderTotal = c.OrderTotal.Sub(refundAmount)
	c.CommissionAmount = c.OrderTotal.Mul(c.CommissionRate)
	c.stampActor(actorID)
	return nil
}

func (c *Commission) stampActor(actorID uuid.UUID) {
	if actorID != uuid.Nil {
		c.UpdatedBy = &actorID
	}
	c.UpdatedAt = time.Now()
}
