package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.TokenSecret) < 32 {
		return fmt.Errorf("auth.token_secret must be at least 32 characters (got %d)", len(c.Auth.TokenSecret))
	}

	if strings.TrimSpace(c.Auth.Realm) == "" {
		return fmt.Errorf("auth.realm must not be empty")
	}

	if err := c.Storage.validate(c.Database); err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	if c.Payment.Enabled() {
		u, err := url.Parse(c.Payment.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("payment.base_url must be an absolute URL (got %q)", c.Payment.BaseURL)
		}
	}

	if c.Public.RateLimitRPS <= 0 {
		return fmt.Errorf("public.rate_limit_rps must be > 0 (got %v)", c.Public.RateLimitRPS)
	}
	if c.Public.RateLimitBurst < 1 {
		return fmt.Errorf("public.rate_limit_burst must be >= 1 (got %d)", c.Public.RateLimitBurst)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with / (got %q)", c.Metrics.Path)
	}

	return nil
}

func (s StorageConfig) validate(db DatabaseConfig) error {
	switch s.DriverName() {
	case DriverMemory:
		return nil
	case DriverPostgres:
		if db.DSN == "" {
			return fmt.Errorf("database.dsn is required for the %s driver", DriverPostgres)
		}
		if db.MinConns > db.MaxConns {
			return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)", db.MinConns, db.MaxConns)
		}
		return nil
	case DriverBadger:
		if strings.TrimSpace(s.BadgerPath) == "" {
			return fmt.Errorf("badger_path is required for the %s driver", DriverBadger)
		}
		return nil
	default:
		return fmt.Errorf("unknown driver %q (want %s, %s or %s)", s.Driver, DriverMemory, DriverPostgres, DriverBadger)
	}
}
