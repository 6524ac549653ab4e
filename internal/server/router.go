package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	types "github.com/chanotech/chanote-backend/internal/domain"
	"github.com/chanotech/chanote-backend/internal/http/handlers"
	"github.com/chanotech/chanote-backend/internal/http/middleware"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log                 *logger.Logger
	AllowOrigins        []string
	AuthMiddleware      *middleware.AuthMiddleware
	HealthHandler       *handlers.HealthHandler
	AuthHandler         *handlers.AuthHandler
	UserHandler         *handlers.UserHandler
	DeedHandler         *handlers.DeedHandler
	LoanHandler         *handlers.LoanHandler
	RewardHandler       *handlers.RewardHandler
	NotificationHandler *handlers.NotificationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// Protected
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.GET("/me", cfg.UserHandler.Me)

	deeds := protected.Group("/deeds")
	{
		deeds.GET("", cfg.DeedHandler.List)
		deeds.POST("/upload", cfg.DeedHandler.Upload)
		deeds.POST("/upload-batch", cfg.DeedHandler.UploadBatch)
		deeds.POST("/analyze", cfg.DeedHandler.Analyze)
		deeds.POST("/lookup", cfg.DeedHandler.Lookup)
		deeds.POST("/valuation", cfg.DeedHandler.Valuation)
		deeds.POST("/:id/confirm", cfg.DeedHandler.Confirm)
	}

	loans := protected.Group("/loans")
	{
		loans.POST("", cfg.LoanHandler.Create)
		loans.GET("", cfg.LoanHandler.List)
		loans.GET("/:id", cfg.LoanHandler.Get)
		loans.POST("/:id/submit", cfg.LoanHandler.Submit)
		loans.GET("/:id/payments", cfg.LoanHandler.Payments)
		loans.POST("/:id/payments", cfg.LoanHandler.RecordPayment)
	}

	staff := loans.Group("/")
	staff.Use(cfg.AuthMiddleware.RequireRole(types.RoleAgent, types.RoleAdmin))
	{
		staff.POST("/:id/decide", cfg.LoanHandler.Decide)
		staff.POST("/:id/disburse", cfg.LoanHandler.Disburse)
	}

	protected.GET("/rewards", cfg.RewardHandler.List)
	protected.GET("/notifications", cfg.NotificationHandler.List)
	protected.POST("/notifications/:id/read", cfg.NotificationHandler.MarkRead)

	return router
}
