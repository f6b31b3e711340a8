package ecommerce_routes

import (
	"time"

	store_filter "github.com/AngelinaFiera614/wrenchmark-sub010/controllers/ecommerce/filter_controller"
	"github.com/AngelinaFiera614/wrenchmark-sub010/middleware"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func SetupStorefrontRoutes(router *gin.RouterGroup, redisClient *redis.Client, rateLimit int, rateWindow time.Duration) {
	store := router.Group("/store")

	// Public filter vocabulary (no auth required)
	filters := store.Group("/filters")
	{
		filters.GET("/metadata", store_filter.GetFilterMetadata)
		filters.GET("/active-count", store_filter.GetActiveFilterCount)
	}

	// Filter sessions (per user, rate limited)
	sessions := store.Group("/filter-sessions")
	sessions.Use(middleware.AuthMiddleware())
	sessions.Use(middleware.RateLimiter(redisClient, rateLimit, rateWindow))
	{
		sessions.POST("", store_filter.CreateFilterSession)
		sessions.GET("/:id", store_filter.GetFilterSession)
		sessions.PUT("/:id", store_filter.UpdateFilterSession)
		sessions.DELETE("/:id", store_filter.DeleteFilterSession)
		sessions.POST("/:id/reset", store_filter.ResetFilterSession)
		sessions.GET("/:id/snapshot", store_filter.GetFilterSnapshot)
	}
}
