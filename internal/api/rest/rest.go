package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/satoshe-sluggers/ownership-indexer/internal/api/middleware"
	"github.com/satoshe-sluggers/ownership-indexer/internal/config"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg config.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		// Grid and detail reads (public)
		v1.GET("/tokens", handler.ListTokens)
		v1.GET("/tokens/:id", handler.GetToken)

		// Aggregate counts (public)
		v1.GET("/counts", handler.GetCounts)

		// Purchase confirmation callback from the wallet layer (public; the
		// event is validated and journaled, replays are ignored)
		v1.POST("/purchases", handler.CreatePurchase)

		// Live purchase feed for storefront grids (public)
		v1.GET("/purchases/stream", handler.StreamPurchases)

		// Forced re-resolution (requires authentication)
		v1.POST("/refresh", middleware.Auth(authCfg), handler.TriggerRefresh)
	}
}
