package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	app "github.com/shopcore/backend/internal/application/affiliate"
	"github.com/shopcore/backend/internal/domain/affiliate"
)

// PayoutHandler handles payout batch API endpoints
type PayoutHandler struct {
	BaseHandler
	payouts *app.PayoutService
}

// NewPayoutHandler creates a new PayoutHandler
func NewPayoutHandler(payouts *app.PayoutService) *PayoutHandler {
	return &PayoutHandler{payouts: payouts}
}

// CreatePayoutRequest represents a payout batch request
type CreatePayoutRequest struct {
	AffiliateID   string   `json:"affiliate_id" binding:"required,uuid"`
	CommissionIDs []string `json:"commission_ids" binding:"required,min=1,dive,uuid"`
	PayoutMethod  string   `json:"payout_method" binding:"required,max=50"`
}

// ProcessPayoutRequest represents payout settlement details
type ProcessPayoutRequest struct {
	PaymentReference string `json:"payment_reference" binding:"required,max=200"`
	Notes            string `json:"notes" binding:"max=1000"`
}

// Create batches approved commissions into a pending payout
func (h *PayoutHandler) Create(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	affiliateID, err := uuid.Parse(req.AffiliateID)
	if err != nil {
		h.BadRequest(c, "Invalid affiliate ID format")
		return
	}
	commissionIDs := make([]uuid.UUID, len(req.CommissionIDs))
	for i, idStr := range req.CommissionIDs {
		id, err := uuid.Parse(idStr)
		if err != nil {
			h.BadRequest(c, "Invalid commission ID format")
			return
		}
		commissionIDs[i] = id
	}

	resp, err := h.payouts.CreatePayout(c.Request.Context(), affiliateID, commissionIDs, req.PayoutMethod, actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Process settles a payout and cascades the paid status to its members
func (h *PayoutHandler) Process(c *gin.Context) {
	payoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payout ID format")
		return
	}
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ProcessPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	err = h.payouts.ProcessPayout(c.Request.Context(), payoutID, req.PaymentReference, actorID, req.Notes)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	resp, err := h.payouts.Get(c.Request.Context(), payoutID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get returns one payout batch
func (h *PayoutHandler) Get(c *gin.Context) {
	payoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payout ID format")
		return
	}

	resp, err := h.payouts.Get(c.Request.Context(), payoutID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a filtered, paginated payout listing
func (h *PayoutHandler) List(c *gin.Context) {
	filter := affiliate.PayoutFilter{Page: 1, PageSize: 20}
	if err := bindPagination(c, &filter.Page, &filter.PageSize); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if idStr := c.Query("affiliate_id"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			h.BadRequest(c, "Invalid affiliate_id filter")
			return
		}
		filter.AffiliateID = &id
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := affiliate.PayoutStatus(strings.ToUpper(statusStr))
		if !status.IsValid() {
			h.BadRequest(c, "Invalid status filter")
			return
		}
		filter.Status = &status
	}

	payouts, total, err := h.payouts.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, payouts, total, filter.Page, filter.PageSize)
}
