package app

import (
	"gorm.io/gorm"

	"github.com/chanotech/chanote-backend/internal/data/repos"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
)

type Repos struct {
	User         repos.UserRepo
	UserToken    repos.UserTokenRepo
	TitleDeed    repos.TitleDeedRepo
	Loan         repos.LoanRepo
	Payment      repos.PaymentRepo
	Reward       repos.RewardRepo
	Notification repos.NotificationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		UserToken:    repos.NewUserTokenRepo(db, log),
		TitleDeed:    repos.NewTitleDeedRepo(db, log),
		Loan:         repos.NewLoanRepo(db, log),
		Payment:      repos.NewPaymentRepo(db, log),
		Reward:       repos.NewRewardRepo(db, log),
		Notification: repos.NewNotificationRepo(db, log),
	}
}
