package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the process-wide configuration, built once at startup and passed
// by reference into the components that need it.
type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// DatabaseURL and JWTSecretKey have no defaults on purpose: starting
	// without either is a fatal configuration error.
	DatabaseURL  string `env:"DATABASE_URL,   required"`
	JWTSecretKey string `env:"JWT_SECRET_KEY, required"`

	TokenTTL   time.Duration `env:"TOKEN_TTL,    default=24h"`
	BcryptCost int           `env:"BCRYPT_COST,  default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
