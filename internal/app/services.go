package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/chanotech/chanote-backend/internal/platform/logger"
	"github.com/chanotech/chanote-backend/internal/refdata"
	"github.com/chanotech/chanote-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	Storage      services.StorageService
	Extraction   services.ExtractionService
	RefCode      services.RefCodeService
	Resolution   services.DeedResolutionService
	Valuation    services.ValuationService
	Deed         services.DeedService
	Loan         services.LoanService
	Notification services.NotificationService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	authService, err := services.NewAuthService(log, reposet.User, reposet.UserToken)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	provinces, err := refdata.Provinces()
	if err != nil {
		return Services{}, fmt.Errorf("load province reference table: %w", err)
	}
	amphurs, err := refdata.Amphurs()
	if err != nil {
		return Services{}, fmt.Errorf("load amphur reference table: %w", err)
	}

	storageService := services.NewStorageService(log, clients.Bucket)
	extractionService := services.NewExtractionService(log, clients.Openai)
	refCodeService := services.NewRefCodeService(log, clients.Openai, provinces, amphurs)
	resolutionService := services.NewDeedResolutionService(log, extractionService, refCodeService, clients.Registry)
	valuationService := services.NewValuationService(log, clients.Openai)
	deedService := services.NewDeedService(log, reposet.TitleDeed)
	loanService := services.NewLoanService(db, log, reposet.Loan, reposet.Payment, reposet.Reward, cfg.MonthlyRatePercent)
	notificationService := services.NewNotificationService(log, reposet.Notification)

	return Services{
		Auth:         authService,
		Storage:      storageService,
		Extraction:   extractionService,
		RefCode:      refCodeService,
		Resolution:   resolutionService,
		Valuation:    valuationService,
		Deed:         deedService,
		Loan:         loanService,
		Notification: notificationService,
	}, nil
}
