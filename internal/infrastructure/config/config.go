package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	BaseURL  string `env:"BASE_URL, default=http://localhost:8080"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth    AuthConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	SMTP    SMTPConfig
	Storage StorageConfig
}

type AuthConfig struct {
	// AppKey signs verification links and password-reset tokens.
	AppKey   string        `env:"APP_KEY"`
	OTPTTL   time.Duration `env:"OTP_TTL,   default=10m"`
	ResetTTL time.Duration `env:"RESET_TTL, default=1h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=exam_manager"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Addr string `env:"SMTP_ADDR"`
	From string `env:"SMTP_FROM, default=no-reply@exam-manager.local"`
	User string `env:"SMTP_USER"`
	Pass string `env:"SMTP_PASS"`
}

type StorageConfig struct {
	// Root is the directory uploaded documents are stored under.
	Root string `env:"STORAGE_ROOT, default=storage/uploads"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
