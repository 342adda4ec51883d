package config

import "time"

// ResilienceConfig - повторы и автомат отключения для хранилища медиа и почты.
type ResilienceConfig struct {
	RetryAttempts    int           `yaml:"retry_attempts" env:"ACCOUNT_RESILIENCE_RETRY_ATTEMPTS" env-default:"3"`
	InitialBackoff   time.Duration `yaml:"initial_backoff" env:"ACCOUNT_RESILIENCE_INITIAL_BACKOFF" env-default:"100ms"`
	MaxBackoff       time.Duration `yaml:"max_backoff" env:"ACCOUNT_RESILIENCE_MAX_BACKOFF" env-default:"2s"`
	BreakerThreshold int           `yaml:"breaker_threshold" env:"ACCOUNT_RESILIENCE_BREAKER_THRESHOLD" env-default:"5"`
	BreakerTimeout   time.Duration `yaml:"breaker_timeout" env:"ACCOUNT_RESILIENCE_BREAKER_TIMEOUT" env-default:"30s"`
}
