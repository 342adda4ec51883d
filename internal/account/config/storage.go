package config

// StorageConfig - S3-совместимое хранилище аватаров и резюме.
type StorageConfig struct {
	Endpoint     string `yaml:"endpoint" env:"ACCOUNT_S3_ENDPOINT"`
	Region       string `yaml:"region" env:"ACCOUNT_S3_REGION" env-default:"us-east-1"`
	Bucket       string `yaml:"bucket" env:"ACCOUNT_S3_BUCKET" env-default:"portfolio"`
	AccessKey    string `yaml:"access_key" env:"ACCOUNT_S3_ACCESS_KEY"`
	SecretKey    string `yaml:"secret_key" env:"ACCOUNT_S3_SECRET_KEY"`
	UsePathStyle bool   `yaml:"use_path_style" env:"ACCOUNT_S3_USE_PATH_STYLE" env-default:"true"`
	// PublicURL - базовый адрес, по которому объекты доступны клиентам.
	PublicURL string `yaml:"public_url" env:"ACCOUNT_S3_PUBLIC_URL" env-required:"true"`
}
