// Package config содержит конфигурацию сервиса аккаунта.
package config

import (
	"context"

	"go.uber.org/zap"

	"portfolio/pkg/config"
	"portfolio/pkg/logger"
)

const (
	serviceName = "account"

	msgConfigSummary = "account service configuration"
)

// Config представляет полную конфигурацию сервиса.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	JWT        JWTConfig        `yaml:"jwt"`
	Cookie     CookieConfig     `yaml:"cookie"`
	Logging    LoggingConfig    `yaml:"logging"`
	Shutdown   ShutdownConfig   `yaml:"shutdown"`
	Redis      RedisConfig      `yaml:"redis"`
	Storage    StorageConfig    `yaml:"storage"`
	Mail       MailConfig       `yaml:"mail"`
	Reset      ResetConfig      `yaml:"reset"`
	Portfolio  PortfolioConfig  `yaml:"portfolio"`
	Resilience ResilienceConfig `yaml:"resilience"`
}

// Load загружает конфигурацию из файла path (если задан) и переменных окружения.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg, err := config.Load[Config](ctx, serviceName, path)
	if err != nil {
		return nil, err
	}

	logger.Log(ctx).Info(ctx, msgConfigSummary,
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.String("redis_address", cfg.Redis.ToClientConfig().Addr()),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.String("storage_bucket", cfg.Storage.Bucket),
		zap.Bool("mail_enabled", cfg.Mail.Enabled()),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Duration("shutdown_timeout", cfg.Shutdown.GetTimeout()),
		zap.Bool("owner_configured", cfg.Portfolio.OwnerID != ""))

	return cfg, nil
}

// Usage возвращает описание переменных окружения.
func Usage() string {
	return config.Usage[Config]("Account service environment variables:")
}
