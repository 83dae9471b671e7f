package http

import (
	"github.com/dinebook/backend/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(NewIPRateLimiter(cfg.RateLimit.PerIP, cfg.RateLimit.Burst)))
	{
		vibe := v1.Group("/vibe")
		{
			vibe.GET("/questions", handler.GetQuestions)
			vibe.GET("/regions", handler.GetRegions)
			vibe.POST("/recommendations", handler.Recommend)

			if cfg.Server.AdminToken != "" {
				vibe.POST("/catalog/refresh", AdminTokenMiddleware(cfg.Server.AdminToken), handler.RefreshCatalog)
			}

			sessions := vibe.Group("/sessions")
			{
				sessions.POST("", handler.StartSession)
				sessions.GET("/:id", handler.GetSession)
				sessions.POST("/:id/answer", handler.AnswerSession)
				sessions.POST("/:id/back", handler.BackSession)
				sessions.POST("/:id/reset", handler.ResetSession)
			}
		}
	}

	return router
}
