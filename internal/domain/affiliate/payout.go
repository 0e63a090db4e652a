package affiliate

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/shared"
)

// PayoutStatus represents the settlement state of a payout batch
type PayoutStatus string

const (
	// PayoutStatusPending is created but not yet executed
	PayoutStatusPending PayoutStatus = "PENDING"
	// PayoutStatusProcessing is handed off to payment execution
	PayoutStatusProcessing PayoutStatus = "PROCESSING"
	// PayoutStatusCompleted is settled; linked commissions are paid
	PayoutStatusCompleted PayoutStatus = "COMPLETED"
	// PayoutStatusFailed could not be executed
	PayoutStatusFailed PayoutStatus = "FAILED"
)

// String returns the string representation of PayoutStatus
func (s PayoutStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s PayoutStatus) IsValid() bool {
	switch s {
	case PayoutStatusPending, PayoutStatusProcessing, PayoutStatusCompleted, PayoutStatusFailed:
		return true
	}
	return false
}

// Payout is an atomic batch of approved commissions for one affiliate.
// Total amount and commission count are captured at creation time and do
// not change when member commissions are later queried independently.
type Payout struct {
	shared.BaseEntity
	AffiliateID      uuid.UUID
	TotalAmount      decimal.Decimal
	CommissionCount  int
	PayoutMethod     string
	Status           PayoutStatus
	ProcessedAt      *time.Time
	ProcessedBy      *uuid.UUID
	PaymentReference string
	Notes            string
}

// NewPayout batches approved commissions into a payout. Every member must
// be approved and belong to the given affiliate; a single mismatch rejects
// the whole batch.
func NewPayout(affiliateID uuid.UUID, commissions []*Commission, payoutMethod string, actorID uuid.UUID) (*Payout, error) {
	if affiliateID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Affiliate ID cannot be empty")
	}
	if len(commissions) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payout requires at least one commission")
	}
	if payoutMethod == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payout method cannot be empty")
	}

	total := decimal.Zero
	for _, c := range commissions {
		if c.AffiliateID != affiliateID {
			return nil, shared.NewDomainError("INVALID_INPUT", "Commission does not belong to the affiliate")
		}
		if c.Status != CommissionStatusApproved {
			return nil, shared.NewDomainError("INVALID_INPUT", "Commission "+c.ID.String()+" is not approved")
		}
		total = total.Add(c.CommissionAmount)
	}

	p := &Payout{
		BaseEntity:      shared.NewBaseEntity(),
		AffiliateID:     affiliateID,
		TotalAmount:     total,
		CommissionCount: len(commissions),
		PayoutMethod:    payoutMethod,
		Status:          PayoutStatusPending,
	}
	if actorID != uuid.Nil {
		p.ProcessedBy = &actorID
	}
	return p, nil
}

// MarkProcessing hands the payout off to payment execution
func (p *Payout) MarkProcessing() error {
	if p.Status != PayoutStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending payouts can start processing")
	}
	p.Status = PayoutStatusProcessing
	p.UpdatedAt = time.Now()
	return nil
}

// Complete settles the payout with the external payment reference
func (p *Payout) Complete(reference string, actorID uuid.UUID, notes string) error {
	if p.Status == PayoutStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Payout is already completed")
	}
	if p.Status == PayoutStatusFailed {
		return shared.NewDomainError("INVALID_STATE", "Failed payouts cannot be completed")
	}
	now := time.Now()
	p.Status = PayoutStatusCompleted
	p.ProcessedAt = &now
	p.PaymentReference = reference
	p.Notes = notes
	if actorID != uuid.Nil {
		p.ProcessedBy = &actorID
	}
	p.UpdatedAt = now
	return nil
}

// MarkFailed records a failed payment execution
func (p *Payout) MarkFailed(notes string) error {
	if p.Status == PayoutStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Completed payouts cannot fail")
	}
	p.Status = PayoutStatusFailed
	p.Notes = notes
	p.UpdatedAt = time.Now()
	return nil
}
