package repos

import (
	"gorm.io/gorm"

	"github.com/chanotech/chanote-backend/internal/data/repos/deeds"
	"github.com/chanotech/chanote-backend/internal/data/repos/lending"
	"github.com/chanotech/chanote-backend/internal/data/repos/notify"
	"github.com/chanotech/chanote-backend/internal/data/repos/user"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = user.UserTokenRepo

type TitleDeedRepo = deeds.TitleDeedRepo

type LoanRepo = lending.LoanRepo
type PaymentRepo = lending.PaymentRepo
type RewardRepo = lending.RewardRepo

type NotificationRepo = notify.NotificationRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return user.NewUserTokenRepo(db, baseLog)
}

func NewTitleDeedRepo(db *gorm.DB, baseLog *logger.Logger) TitleDeedRepo {
	return deeds.NewTitleDeedRepo(db, baseLog)
}

func NewLoanRepo(db *gorm.DB, baseLog *logger.Logger) LoanRepo {
	return lending.NewLoanRepo(db, baseLog)
}

func NewPaymentRepo(db *gorm.DB, baseLog *logger.Logger) PaymentRepo {
	return lending.NewPaymentRepo(db, baseLog)
}

func NewRewardRepo(db *gorm.DB, baseLog *logger.Logger) RewardRepo {
	return lending.NewRewardRepo(db, baseLog)
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return notify.NewNotificationRepo(db, baseLog)
}
