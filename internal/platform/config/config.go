package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config captures all service configuration. Values come from the environment
// so main stays lean; godotenv loads a local .env file first in development.
type Config struct {
	Addr        string `envconfig:"SAFETRAIL_ADDR" default:":8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// RedisURL is optional; when empty the location sample cache falls back
	// to an in-process implementation.
	RedisURL string `envconfig:"REDIS_URL"`

	JWTSigningKey string `envconfig:"JWT_SIGNING_KEY" required:"true"`
	JWTIssuer     string `envconfig:"JWT_ISSUER" default:"safetrail"`
	JWTAudience   string `envconfig:"JWT_AUDIENCE" default:"safetrail-api"`

	// Object storage for identity documents.
	S3Bucket    string `envconfig:"S3_BUCKET" required:"true"`
	S3Region    string `envconfig:"S3_REGION" default:"eu-west-1"`
	S3PublicURL string `envconfig:"S3_PUBLIC_URL"`

	// VerifyBaseURL is the public prefix for credential verification links.
	VerifyBaseURL string `envconfig:"VERIFY_BASE_URL" default:"https://verify.safetrail.app"`

	// LocationThrottle is the minimum interval between accepted location
	// samples; LocationFreshness bounds how long a cached sample may back an
	// emergency alert.
	LocationThrottle  time.Duration `envconfig:"LOCATION_THROTTLE" default:"30s"`
	LocationFreshness time.Duration `envconfig:"LOCATION_FRESHNESS" default:"5m"`

	MigrationsFile string `envconfig:"MIGRATIONS_FILE" default:"migrations/001_init.sql"`
}

// Load builds a Config from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
