package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port            int           `envconfig:"PORT" default:"8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL     string        `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret       string        `envconfig:"JWT_SECRET" required:"true"`
	JWTExpiry       time.Duration `envconfig:"JWT_EXPIRES_IN" default:"8h"`
	AuditLogDir     string        `envconfig:"AUDIT_LOG_DIR" default:"logs"`
	LoginRateBurst  int           `envconfig:"LOGIN_RATE_BURST" default:"10"`
	LoginRatePerMin int           `envconfig:"LOGIN_RATE_PER_MIN" default:"30"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3008"`
	Version         string        `envconfig:"VERSION" default:"dev"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
