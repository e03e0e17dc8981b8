package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all deployment-provided settings for the API process.
//
// It is constructed once at startup and passed explicitly to the components
// that need it; nothing reads the environment after Load returns.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `envconfig:"PORT" default:"3000"`

	// JWTSecret is the shared HS256 secret used to verify bearer tokens.
	// Required when AuthMode is "jwt".
	JWTSecret string `envconfig:"JWT_SECRET" default:""`

	// DatabaseURL is the Postgres DSN. Required when StorageBackend is "postgres".
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`

	// AuthMode selects bearer-token verification ("jwt") or the local dev
	// shim ("dev") that trusts X-Debug-Subject.
	AuthMode string `envconfig:"AUTH_MODE" default:"jwt"`

	// DevSubject is the fallback subject used by the dev auth shim.
	DevSubject string `envconfig:"DEV_SUBJECT" default:"dev|local"`

	// StorageBackend selects the repository implementation ("memory" or "postgres").
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"memory"`
}

// Load reads configuration from the environment, applying defaults for
// anything unset, and validates cross-field requirements.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env config: %w", err)
	}

	switch cfg.AuthMode {
	case "jwt":
		if cfg.JWTSecret == "" {
			return Config{}, fmt.Errorf("JWT_SECRET is required when AUTH_MODE=jwt")
		}
	case "dev":
	default:
		return Config{}, fmt.Errorf("AUTH_MODE must be jwt or dev, got %q", cfg.AuthMode)
	}

	switch cfg.StorageBackend {
	case "memory":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		return Config{}, fmt.Errorf("STORAGE_BACKEND must be memory or postgres, got %q", cfg.StorageBackend)
	}

	return cfg, nil
}
