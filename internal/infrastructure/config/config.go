package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// AppURL is the public base URL embedded in verification and reset links.
	AppURL string `env:"APP_URL, default=http://localhost:8080"`

	JWT      JWTConfig
	Security SecurityConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
}

type JWTConfig struct {
	Key      string        `env:"JWT_KEY"`
	Issuer   string        `env:"JWT_ISSUER,   default=account-service"`
	Audience string        `env:"JWT_AUDIENCE, default=account-service-clients"`
	TTL      time.Duration `env:"JWT_TTL,      default=5m"`
}

type SecurityConfig struct {
	// Pepper is the server-wide secret mixed into every password before
	// hashing. Absence is a fatal misconfiguration reported only in logs.
	Pepper string `env:"SECURITY_PEPPER"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=account_service"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=localhost"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM, default=no-reply@example.com"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
