package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	app "github.com/shopcore/backend/internal/application/affiliate"
	"github.com/shopcore/backend/internal/domain/affiliate"
)

// AffiliateHandler handles affiliate registry API endpoints
type AffiliateHandler struct {
	BaseHandler
	registry *app.RegistryService
}

// NewAffiliateHandler creates a new AffiliateHandler
func NewAffiliateHandler(registry *app.RegistryService) *AffiliateHandler {
	return &AffiliateHandler{registry: registry}
}

// RegisterAffiliateRequest represents an affiliate application
type RegisterAffiliateRequest struct {
	Email        string `json:"email" binding:"required,email,max=200"`
	BusinessName string `json:"business_name" binding:"max=200"`
	WebsiteURL   string `json:"website_url" binding:"max=500"`
	Description  string `json:"description" binding:"max=1000"`
}

// SetCommissionRateRequest represents a commission rate override
type SetCommissionRateRequest struct {
	Rate float64 `json:"rate" binding:"required"`
}

// GenerateLinkRequest represents a tracked link request
type GenerateLinkRequest struct {
	LinkType     string `json:"link_type" binding:"required,oneof=GENERAL PRODUCT CATEGORY"`
	TargetURL    string `json:"target_url" binding:"required,max=500"`
	CampaignName string `json:"campaign_name" binding:"max=200"`
}

// Register handles affiliate self-registration. The applicant is the
// authenticated user.
func (h *AffiliateHandler) Register(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req RegisterAffiliateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.registry.Register(c.Request.Context(), app.RegisterAffiliateInput{
		UserID:       userID,
		Email:        req.Email,
		BusinessName: req.BusinessName,
		WebsiteURL:   req.WebsiteURL,
		Description:  req.Description,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID returns one affiliate by ID
func (h *AffiliateHandler) GetByID(c *gin.Context) {
	affiliateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid affiliate ID format")
		return
	}

	resp, err := h.registry.GetByID(c.Request.Context(), affiliateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByCode returns one affiliate by referral code
func (h *AffiliateHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Referral code is required")
		return
	}

	resp, err := h.registry.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetMine returns the affiliate record of the authenticated user
func (h *AffiliateHandler) GetMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.registry.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a paginated affiliate listing with optional status filter
func (h *AffiliateHandler) List(c *gin.Context) {
	filter := affiliate.AffiliateFilter{Page: 1, PageSize: 20}
	if err := bindPagination(c, &filter.Page, &filter.PageSize); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := affiliate.Status(strings.ToUpper(statusStr))
		if !status.IsValid() {
			h.BadRequest(c, "Invalid status filter")
			return
		}
		filter.Status = &status
	}

	affiliates, total, err := h.registry.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, affiliates, total, filter.Page, filter.PageSize)
}

// Approve activates a pending affiliate
func (h *AffiliateHandler) Approve(c *gin.Context) {
	affiliateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid affiliate ID format")
		return
	}
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.registry.Approve(c.Request.Context(), affiliateID, actorID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	resp, err := h.registry.GetByID(c.Request.Context(), affiliateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Suspend suspends an affiliate
func (h *AffiliateHandler) Suspend(c *gin.Context) {
	affiliateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid affiliate ID format")
		return
	}
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.registry.Suspend(c.Request.Context(), affiliateID, actorID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// SetCommissionRate overrides an affiliate's commission rate
func (h *AffiliateHandler) SetCommissionRate(c *gin.Context) {
	affiliateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid affiliate ID format")
		return
	}
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SetCommissionRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.registry.SetCommissionRate(c.Request.Context(), affiliateID, toDecimal(req.Rate), actorID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// GenerateLink creates a tracked link for an active affiliate
func (h *AffiliateHandler) GenerateLink(c *gin.Context) {
	affiliateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid affiliate ID format")
		return
	}

	var req GenerateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.registry.GenerateLink(c.Request.Context(), affiliateID, app.GenerateLinkInput{
		LinkType:     affiliate.LinkType(req.LinkType),
		TargetURL:    req.TargetURL,
		CampaignName: req.CampaignName,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListLinks returns all tracked links of an affiliate
func (h *AffiliateHandler) ListLinks(c *gin.Context) {
	affiliateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid affiliate ID format")
		return
	}

	links, err := h.registry.ListLinks(c.Request.Context(), affiliateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, links)
}

// Stats returns traffic and earning aggregates for one affiliate
func (h *AffiliateHandler) Stats(c *gin.Context) {
	affiliateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid affiliate ID format")
		return
	}

	var from *time.Time
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.BadRequest(c, "Invalid 'from' timestamp, expected RFC3339")
			return
		}
		from = &parsed
	}

	resp, err := h.registry.Stats(c.Request.Context(), affiliateID, from)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ProgramStats returns program-wide aggregates
func (h *AffiliateHandler) ProgramStats(c *gin.Context) {
	resp, err := h.registry.ProgramStats(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
