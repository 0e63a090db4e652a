package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	app "github.com/shopcore/backend/internal/application/affiliate"
	"github.com/shopcore/backend/internal/domain/affiliate"
)

// CommissionHandler handles commission ledger API endpoints
type CommissionHandler struct {
	BaseHandler
	commissions *app.CommissionService
}

// NewCommissionHandler creates a new CommissionHandler
func NewCommissionHandler(commissions *app.CommissionService) *CommissionHandler {
	return &CommissionHandler{commissions: commissions}
}

// MarkCommissionPaidRequest represents a manual settlement outside a payout
// batch
type MarkCommissionPaidRequest struct {
	PaymentMethod    string `json:"payment_method" binding:"required,max=50"`
	PaymentReference string `json:"payment_reference" binding:"max=200"`
	Notes            string `json:"notes" binding:"max=1000"`
}

// RefundEventRequest represents a refund event from the order system
type RefundEventRequest struct {
	OrderID   string  `json:"order_id" binding:"required,uuid"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Reference string  `json:"reference" binding:"max=200"`
}

// Get returns one commission ledger row
func (h *CommissionHandler) Get(c *gin.Context) {
	commissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid commission ID format")
		return
	}

	resp, err := h.commissions.Get(c.Request.Context(), commissionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a filtered, paginated ledger listing
func (h *CommissionHandler) List(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	commissions, total, err := h.commissions.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, commissions, total, filter.Page, filter.PageSize)
}

// Stats returns per-status ledger aggregates for the given filter
func (h *CommissionHandler) Stats(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	resp, err := h.commissions.Stats(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Approve moves a pending commission to approved
func (h *CommissionHandler) Approve(c *gin.Context) {
	h.transition(c, h.commissions.Approve)
}

// Dispute freezes a commission pending investigation
func (h *CommissionHandler) Dispute(c *gin.Context) {
	h.transition(c, h.commissions.Dispute)
}

// Cancel voids a commission before settlement
func (h *CommissionHandler) Cancel(c *gin.Context) {
	h.transition(c, h.commissions.Cancel)
}

// MarkPaid settles a single approved commission outside a payout batch
func (h *CommissionHandler) MarkPaid(c *gin.Context) {
	commissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid commission ID format")
		return
	}
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req MarkCommissionPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	err = h.commissions.MarkPaid(c.Request.Context(), commissionID,
		req.PaymentMethod, req.PaymentReference, actorID, req.Notes)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// HandleRefund ingests a refund event and adjusts or compensates the
// attributed commission
func (h *CommissionHandler) HandleRefund(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req RefundEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	err = h.commissions.HandleRefund(c.Request.Context(), orderID, toDecimal(req.Amount), actorID, req.Reference)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *CommissionHandler) transition(c *gin.Context, op func(ctx context.Context, commissionID, actorID uuid.UUID) error) {
	commissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid commission ID format")
		return
	}
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := op(c.Request.Context(), commissionID, actorID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *CommissionHandler) bindFilter(c *gin.Context) (affiliate.CommissionFilter, bool) {
	filter := affiliate.CommissionFilter{Page: 1, PageSize: 20}
	if err := bindPagination(c, &filter.Page, &filter.PageSize); err != nil {
		h.BadRequest(c, err.Error())
		return filter, false
	}
	if idStr := c.Query("affiliate_id"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			h.BadRequest(c, "Invalid affiliate_id filter")
			return filter, false
		}
		filter.AffiliateID = &id
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := affiliate.CommissionStatus(strings.ToUpper(statusStr))
		if !status.IsValid() {
			h.BadRequest(c, "Invalid status filter")
			return filter, false
		}
		filter.Status = &status
	}
	return filter, true
}
