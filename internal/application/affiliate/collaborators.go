package affiliate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderGateway is the narrow interface through which the ledger reads and
// annotates orders. Order creation and the rest of the order lifecycle are
// external collaborators.
type OrderGateway interface {
	// TotalAmount returns the order's total at conversion time
	TotalAmount(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)

	// AnnotateAttribution stamps affiliate attribution metadata onto the
	// order. Advisory: callers treat failures as best-effort.
	AnnotateAttribution(ctx context.Context, orderID, affiliateID, clickID uuid.UUID, commissionAmount decimal.Decimal) error
}

// RefundEventStore deduplicates refund events so a replayed refund cannot
// double-adjust a commission. MarkProcessed atomically records the event
// key and reports whether it was seen for the first time.
type RefundEventStore interface {
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
}
