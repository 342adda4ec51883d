package config

import (
	"time"

	"portfolio/pkg/db/redis"
)

// RedisConfig представляет конфигурацию кэша профиля владельца.
type RedisConfig struct {
	Enabled        bool          `yaml:"enabled" env:"ACCOUNT_REDIS_ENABLED" env-default:"true"`
	Host           string        `yaml:"host" env:"ACCOUNT_REDIS_HOST" env-default:"localhost"`
	Port           int           `yaml:"port" env:"ACCOUNT_REDIS_PORT" env-default:"6379"`
	Password       string        `yaml:"password" env:"ACCOUNT_REDIS_PASSWORD" env-default:""`
	DB             int           `yaml:"db" env:"ACCOUNT_REDIS_DB" env-default:"0"`
	PoolSize       int           `yaml:"pool_size" env:"ACCOUNT_REDIS_POOL_SIZE" env-default:"10"`
	MinIdle        int           `yaml:"min_idle" env:"ACCOUNT_REDIS_MIN_IDLE" env-default:"2"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"ACCOUNT_REDIS_CONNECT_TIMEOUT" env-default:"5s"`
	Timeout        time.Duration `yaml:"timeout" env:"ACCOUNT_REDIS_TIMEOUT" env-default:"3s"`
	KeyPrefix      string        `yaml:"key_prefix" env:"ACCOUNT_REDIS_KEY_PREFIX" env-default:"account:"`
}

// ToClientConfig возвращает настройки клиента Redis.
func (c *RedisConfig) ToClientConfig() redis.Config {
	return redis.Config{
		Host:           c.Host,
		Port:           c.Port,
		Password:       c.Password,
		DB:             c.DB,
		PoolSize:       c.PoolSize,
		MinIdleConns:   c.MinIdle,
		ConnectTimeout: c.ConnectTimeout,
		Timeout:        c.Timeout,
	}
}
