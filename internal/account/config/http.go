package config

import (
	"fmt"
	"time"
)

// HTTPConfig представляет конфигурацию HTTP сервера.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"ACCOUNT_HTTP_HOST" env-default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"ACCOUNT_HTTP_PORT" env-default:"4000"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"ACCOUNT_HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"ACCOUNT_HTTP_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"ACCOUNT_HTTP_IDLE_TIMEOUT" env-default:"60s"`
	// BodyLimit - предельный размер тела запроса в байтах, с учетом файлов.
	BodyLimit      int      `yaml:"body_limit" env:"ACCOUNT_HTTP_BODY_LIMIT" env-default:"10485760"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"ACCOUNT_HTTP_ALLOWED_ORIGINS" env-separator:","`
}

// GetAddress возвращает адрес HTTP сервера.
func (c *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CookieConfig - параметры сессионной cookie.
type CookieConfig struct {
	Secure bool   `yaml:"secure" env:"ACCOUNT_COOKIE_SECURE" env-default:"true"`
	Domain string `yaml:"domain" env:"ACCOUNT_COOKIE_DOMAIN"`
}
