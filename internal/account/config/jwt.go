package config

import "time"

// JWTConfig содержит настройки сессионных токенов и хеширования паролей.
type JWTConfig struct {
	SecretKey  string        `yaml:"secret_key" env:"ACCOUNT_JWT_SECRET_KEY" env-required:"true"`
	SessionTTL time.Duration `yaml:"session_ttl" env:"ACCOUNT_JWT_SESSION_TTL" env-default:"168h"`
	Issuer     string        `yaml:"issuer" env:"ACCOUNT_JWT_ISSUER" env-default:"portfolio-account"`
	BCryptCost int           `yaml:"bcrypt_cost" env:"ACCOUNT_JWT_BCRYPT_COST" env-default:"10"`
}
