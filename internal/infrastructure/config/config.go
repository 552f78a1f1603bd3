package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// DefaultJWTSecret is substituted when JWT_SECRET is not set. It exists so
// the service can start in development; running with it in production means
// anyone can forge tokens. Startup logs a warning when it is in effect.
const DefaultJWTSecret = "defaultSecretKey"

type Config struct {
	Port      string `env:"PORT,      default=5000"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// TokenTTL of 0 issues tokens without an expiry claim.
	TokenTTL time.Duration `env:"TOKEN_TTL, default=0"`

	// AuditWorkers sizes the audit dispatcher pool; 0 uses the default.
	AuditWorkers int `env:"AUDIT_WORKERS, default=0"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=account_service"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// SecretOrDefault returns the configured signing secret, falling back to
// the insecure development default. The second return reports whether the
// fallback was used.
func (c *Config) SecretOrDefault() (string, bool) {
	if c.JWTSecret == "" {
		return DefaultJWTSecret, true
	}
	return c.JWTSecret, false
}
