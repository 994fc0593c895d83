package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/arbitration-backend/internal/config"
	"github.com/ignatzorin/arbitration-backend/internal/http/handlers"
	"github.com/ignatzorin/arbitration-backend/internal/http/middleware"
	"github.com/ignatzorin/arbitration-backend/internal/interface/http/handler"
	"github.com/ignatzorin/arbitration-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	wsHandler *handlers.WSHandler,
	arbitrationHandler *handler.ArbitrationHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", handlers.Metrics())

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	api.GET("/ws", wsHandler.Handle)

	// Уведомления токен-леджера защищены общим секретом, а не JWT.
	api.POST("/ledger/transfers", middleware.LedgerTokenMiddleware(cfg.LedgerWebhookToken), arbitrationHandler.Deposit)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/actions", arbitrationHandler.ListActions)
		protected.POST("/actions/:action", middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod), arbitrationHandler.Execute)

		protected.GET("/config", arbitrationHandler.GetConfig)
		protected.GET("/balance", arbitrationHandler.GetBalance)
		protected.GET("/accounts/:owner/balance", arbitrationHandler.GetBalance)

		protected.GET("/cases", arbitrationHandler.ListCases)
		protected.GET("/cases/:id", arbitrationHandler.GetCase)

		protected.GET("/arbitrators", arbitrationHandler.ListArbitrators)
		protected.GET("/arbitrators/:name", arbitrationHandler.GetArbitrator)
		protected.GET("/nominees", arbitrationHandler.ListNominees)
		protected.GET("/elections", arbitrationHandler.ListElections)
		protected.GET("/elections/:id", arbitrationHandler.GetElection)

		protected.GET("/transfers", arbitrationHandler.ListTransfers)
		protected.GET("/transfers/:id", middleware.UUIDValidator("id"), arbitrationHandler.GetTransfer)
	}

	return r
}
