package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	app "github.com/shopcore/backend/internal/application/affiliate"
)

// FraudHandler handles fraud screening API endpoints
type FraudHandler struct {
	BaseHandler
	fraud *app.FraudService
}

// NewFraudHandler creates a new FraudHandler
func NewFraudHandler(fraud *app.FraudService) *FraudHandler {
	return &FraudHandler{fraud: fraud}
}

// FraudCheckRequest represents a conversion to screen
type FraudCheckRequest struct {
	OrderID       string `json:"order_id" binding:"required,uuid"`
	AffiliateID   string `json:"affiliate_id" binding:"required,uuid"`
	CustomerEmail string `json:"customer_email" binding:"omitempty,email,max=200"`
	IPAddress     string `json:"ip_address" binding:"max=45"`
}

// Check screens one conversion against the fraud signals and records a
// flag when the evaluation is suspicious
func (h *FraudHandler) Check(c *gin.Context) {
	var req FraudCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}
	affiliateID, err := uuid.Parse(req.AffiliateID)
	if err != nil {
		h.BadRequest(c, "Invalid affiliate ID format")
		return
	}

	ctx := c.Request.Context()
	result := h.fraud.Evaluate(ctx, orderID, affiliateID, req.CustomerEmail, req.IPAddress)
	if result.Suspicious {
		if err := h.fraud.Flag(ctx, affiliateID, orderID, result); err != nil {
			h.HandleDomainError(c, err)
			return
		}
	}

	h.Success(c, app.ToFraudCheckResponse(result))
}

// RiskProfile returns the accumulated risk classification of one affiliate
func (h *FraudHandler) RiskProfile(c *gin.Context) {
	affiliateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid affiliate ID format")
		return
	}

	resp, err := h.fraud.RiskProfile(c.Request.Context(), affiliateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
