package config

import "time"

// MailConfig - параметры SMTP. Пустой Host отключает отправку: письма пишутся в лог.
type MailConfig struct {
	Host      string        `yaml:"host" env:"ACCOUNT_SMTP_HOST"`
	Port      int           `yaml:"port" env:"ACCOUNT_SMTP_PORT" env-default:"587"`
	Username  string        `yaml:"username" env:"ACCOUNT_SMTP_USERNAME"`
	Password  string        `yaml:"password" env:"ACCOUNT_SMTP_PASSWORD"`
	AuthType  string        `yaml:"auth_type" env:"ACCOUNT_SMTP_AUTH_TYPE" env-default:"plain"`
	SSL       bool          `yaml:"ssl" env:"ACCOUNT_SMTP_SSL" env-default:"false"`
	TLSPolicy string        `yaml:"tls_policy" env:"ACCOUNT_SMTP_TLS_POLICY" env-default:"mandatory"`
	From      string        `yaml:"from" env:"ACCOUNT_SMTP_FROM" env-default:"no-reply@localhost"`
	Timeout   time.Duration `yaml:"timeout" env:"ACCOUNT_SMTP_TIMEOUT" env-default:"10s"`
}

// Enabled сообщает, настроен ли SMTP.
func (c *MailConfig) Enabled() bool {
	return c.Host != ""
}
