package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	app "github.com/shopcore/backend/internal/application/affiliate"
	"github.com/shopcore/backend/internal/domain/affiliate"
)

// TrackingHandler handles the public click and conversion endpoints
type TrackingHandler struct {
	BaseHandler
	tracking *app.TrackingService
}

// NewTrackingHandler creates a new TrackingHandler
func NewTrackingHandler(tracking *app.TrackingService) *TrackingHandler {
	return &TrackingHandler{tracking: tracking}
}

// TrackClickRequest represents an incoming referral click
type TrackClickRequest struct {
	Code        string  `json:"code" binding:"required,max=20"`
	LinkID      *string `json:"link_id" binding:"omitempty,uuid"`
	Referrer    string  `json:"referrer" binding:"max=500"`
	LandingPage string  `json:"landing_page" binding:"max=500"`
	Campaign    string  `json:"campaign" binding:"max=200"`
}

// TrackClickData carries the session token handed back to the storefront
type TrackClickData struct {
	SessionToken string `json:"session_token"`
}

// AttributeConversionRequest binds a completed order to a referral session
type AttributeConversionRequest struct {
	SessionToken string `json:"session_token" binding:"required,uuid"`
	OrderID      string `json:"order_id" binding:"required,uuid"`
}

// TrackClick records a referral click and returns the session token the
// storefront stores in the visitor's cookie
func (h *TrackingHandler) TrackClick(c *gin.Context) {
	var req TrackClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var linkID *uuid.UUID
	if req.LinkID != nil {
		id, err := uuid.Parse(*req.LinkID)
		if err != nil {
			h.BadRequest(c, "Invalid link ID format")
			return
		}
		linkID = &id
	}

	token, err := h.tracking.TrackClick(c.Request.Context(), req.Code, linkID, affiliate.ClickMeta{
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		Referrer:    req.Referrer,
		LandingPage: req.LandingPage,
		Campaign:    req.Campaign,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, TrackClickData{SessionToken: token.String()})
}

// AttributeConversion binds an order to its referral session. A session
// that is unknown or already converted is acknowledged without effect, so
// checkout never fails on attribution.
func (h *TrackingHandler) AttributeConversion(c *gin.Context) {
	var req AttributeConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sessionToken, err := uuid.Parse(req.SessionToken)
	if err != nil {
		h.BadRequest(c, "Invalid session token format")
		return
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	if err := h.tracking.AttributeConversion(c.Request.Context(), sessionToken, orderID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// GetAttribution returns the attribution session for a token
func (h *TrackingHandler) GetAttribution(c *gin.Context) {
	sessionToken, err := uuid.Parse(c.Param("token"))
	if err != nil {
		h.BadRequest(c, "Invalid session token format")
		return
	}

	resp, err := h.tracking.GetAttribution(c.Request.Context(), sessionToken)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListClicks returns the click history of one affiliate
func (h *TrackingHandler) ListClicks(c *gin.Context) {
	affiliateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid affiliate ID format")
		return
	}

	filter := affiliate.ClickFilter{Page: 1, PageSize: 20}
	if err := bindPagination(c, &filter.Page, &filter.PageSize); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.ConvertedOnly = c.Query("converted") == "true"
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.BadRequest(c, "Invalid 'from' timestamp, expected RFC3339")
			return
		}
		filter.DateFrom = &parsed
	}

	clicks, total, err := h.tracking.ListClicks(c.Request.Context(), affiliateID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, clicks, total, filter.Page, filter.PageSize)
}
