package app

import (
	"github.com/gin-gonic/gin"

	"github.com/chanotech/chanote-backend/internal/http/handlers"
	"github.com/chanotech/chanote-backend/internal/http/middleware"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
	"github.com/chanotech/chanote-backend/internal/server"
)

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

type Handlers struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Deed         *handlers.DeedHandler
	Loan         *handlers.LoanHandler
	Reward       *handlers.RewardHandler
	Notification *handlers.NotificationHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, reposet Repos) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       handlers.NewHealthHandler(),
		Auth:         handlers.NewAuthHandler(log, serviceset.Auth),
		User:         handlers.NewUserHandler(log, reposet.User),
		Deed:         handlers.NewDeedHandler(log, serviceset.Storage, serviceset.Resolution, serviceset.Deed, serviceset.Valuation),
		Loan:         handlers.NewLoanHandler(log, serviceset.Loan, serviceset.Deed, serviceset.Notification),
		Reward:       handlers.NewRewardHandler(log, reposet.Reward),
		Notification: handlers.NewNotificationHandler(log, serviceset.Notification),
	}
}

func wireMiddleware(log *logger.Logger, serviceset Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: middleware.NewAuthMiddleware(log, serviceset.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlerset Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Log:                 log,
		AllowOrigins:        cfg.AllowOrigins,
		AuthMiddleware:      mw.Auth,
		HealthHandler:       handlerset.Health,
		AuthHandler:         handlerset.Auth,
		UserHandler:         handlerset.User,
		DeedHandler:         handlerset.Deed,
		LoanHandler:         handlerset.Loan,
		RewardHandler:       handlerset.Reward,
		NotificationHandler: handlerset.Notification,
	})
}
