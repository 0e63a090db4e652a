package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shopcore/backend/internal/interfaces/http/router"
)

// AffiliateRoutes creates the route group for the affiliate program. The
// /track subtree stays public so storefront traffic can record clicks and
// conversions without a session; everything else requires auth.
func AffiliateRoutes(
	affiliates *AffiliateHandler,
	tracking *TrackingHandler,
	authMiddleware gin.HandlerFunc,
) *router.DomainGroup {
	group := router.NewDomainGroup("affiliates", "/affiliates")
	group.Use(authMiddleware)

	// public tracking endpoints, skipped by the auth middleware
	group.POST("/track/click", tracking.TrackClick)
	group.POST("/track/convert", tracking.AttributeConversion)
	group.GET("/track/session/:token", tracking.GetAttribution)

	// registry
	group.POST("", affiliates.Register)
	group.GET("", affiliates.List)
	group.GET("/me", affiliates.GetMine)
	group.GET("/code/:code", affiliates.GetByCode)
	group.GET("/stats/program", affiliates.ProgramStats)
	group.GET("/:id", affiliates.GetByID)
	group.POST("/:id/approve", affiliates.Approve)
	group.POST("/:id/suspend", affiliates.Suspend)
	group.PUT("/:id/commission-rate", affiliates.SetCommissionRate)

	// links and traffic
	group.POST("/:id/links", affiliates.GenerateLink)
	group.GET("/:id/links", affiliates.ListLinks)
	group.GET("/:id/clicks", tracking.ListClicks)
	group.GET("/:id/stats", affiliates.Stats)

	return group
}

// CommissionRoutes creates the route group for the commission ledger
func CommissionRoutes(commissions *CommissionHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("commissions", "/commissions")
	group.Use(authMiddleware)

	group.GET("", commissions.List)
	group.GET("/stats", commissions.Stats)
	group.GET("/:id", commissions.Get)
	group.POST("/:id/approve", commissions.Approve)
	group.POST("/:id/dispute", commissions.Dispute)
	group.POST("/:id/cancel", commissions.Cancel)
	group.POST("/:id/pay", commissions.MarkPaid)
	group.POST("/refunds", commissions.HandleRefund)

	return group
}

// PayoutRoutes creates the route group for payout batches
func PayoutRoutes(payouts *PayoutHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("payouts", "/payouts")
	group.Use(authMiddleware)

	group.POST("", payouts.Create)
	group.GET("", payouts.List)
	group.GET("/:id", payouts.Get)
	group.POST("/:id/process", payouts.Process)

	return group
}

// FraudRoutes creates the route group for fraud screening
func FraudRoutes(fraud *FraudHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("fraud", "/fraud")
	group.Use(authMiddleware)

	group.POST("/check", fraud.Check)
	group.GET("/affiliates/:id/risk-profile", fraud.RiskProfile)

	return group
}
