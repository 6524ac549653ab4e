package app

import (
	"strings"

	"github.com/chanotech/chanote-backend/internal/platform/envutil"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
)

type Config struct {
	Port               string
	AllowOrigins       []string
	MonthlyRatePercent float64
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:               envutil.String("PORT", "8080"),
		MonthlyRatePercent: envutil.Float("LOAN_MONTHLY_RATE_PERCENT", 1.25),
	}

	origins := envutil.String("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}

	log.Info("Config loaded",
		"port", cfg.Port,
		"monthly_rate_percent", cfg.MonthlyRatePercent,
		"allow_origins", cfg.AllowOrigins,
	)
	return cfg
}
