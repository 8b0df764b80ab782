package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/posledger/internal/config"
)

// Settings are the tunables shared by query and analytics use cases.
type Settings struct {
	Location     *time.Location
	ProfitMargin decimal.Decimal
}

// NewSettings derives use case settings from application config.
func NewSettings(cfg *config.Config) Settings {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return Settings{Location: loc, ProfitMargin: decimal.NewFromFloat(cfg.ProfitMargin)}
}
