package config

import "time"

// ResetConfig - параметры сброса пароля.
type ResetConfig struct {
	TokenTTL     time.Duration `yaml:"token_ttl" env:"ACCOUNT_RESET_TOKEN_TTL" env-default:"15m"`
	DashboardURL string        `yaml:"dashboard_url" env:"ACCOUNT_DASHBOARD_URL" env-default:"http://localhost:5173"`
}

// PortfolioConfig - публичный профиль владельца.
type PortfolioConfig struct {
	OwnerID       string        `yaml:"owner_id" env:"PORTFOLIO_OWNER_ID"`
	OwnerCacheTTL time.Duration `yaml:"owner_cache_ttl" env:"ACCOUNT_OWNER_CACHE_TTL" env-default:"5m"`
}
