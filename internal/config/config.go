package config

import (
	"strings"
	"time"
)

// Storage drivers understood by Config.Storage.Driver.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverBadger   = "badger"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Payment  PaymentConfig  `yaml:"payment"`
	Public   PublicConfig   `yaml:"public"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,PATCH,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StorageConfig selects the entity store backend.
type StorageConfig struct {
	Driver     string `yaml:"driver"      env:"STORAGE_DRIVER"      env-default:"memory"`
	BadgerPath string `yaml:"badger_path" env:"STORAGE_BADGER_PATH" env-default:"./data/badger"`
}

// DatabaseConfig holds PostgreSQL connection settings.
// DSN is only required when the postgres storage driver is selected.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
}

// AuthConfig holds Basic authentication and document token settings.
type AuthConfig struct {
	Realm             string `yaml:"realm"              env:"AUTH_REALM"              env-default:"BeaverNet"`
	TokenSecret       string `yaml:"token_secret"       env:"AUTH_TOKEN_SECRET"       env-required:"true"`
	TokenIssuer       string `yaml:"token_issuer"       env:"AUTH_TOKEN_ISSUER"       env-default:"beavernet"`
	BootstrapUsername string `yaml:"bootstrap_username" env:"AUTH_BOOTSTRAP_USERNAME" env-default:"admin"`
	BootstrapPassword string `yaml:"bootstrap_password" env:"AUTH_BOOTSTRAP_PASSWORD"`
}

// HasBootstrapAdmin reports whether an initial admin account should be ensured on startup.
func (c AuthConfig) HasBootstrapAdmin() bool {
	return c.BootstrapUsername != "" && c.BootstrapPassword != ""
}

// PaymentConfig holds the payment gateway credentials.
type PaymentConfig struct {
	BaseURL      string        `yaml:"base_url"      env:"PAYMENT_BASE_URL"      env-default:"https://api-m.sandbox.paypal.com"`
	ClientID     string        `yaml:"client_id"     env:"PAYMENT_CLIENT_ID"`
	ClientSecret string        `yaml:"client_secret" env:"PAYMENT_CLIENT_SECRET"`
	Timeout      time.Duration `yaml:"timeout"       env:"PAYMENT_TIMEOUT"       env-default:"15s"`
}

// Enabled reports whether gateway credentials are configured.
func (c PaymentConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// PublicConfig holds limits for the unauthenticated endpoints.
type PublicConfig struct {
	RateLimitRPS   float64 `yaml:"rate_limit_rps"   env:"PUBLIC_RATE_LIMIT_RPS"   env-default:"5"`
	RateLimitBurst int     `yaml:"rate_limit_burst" env:"PUBLIC_RATE_LIMIT_BURST" env-default:"10"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path"    env:"METRICS_PATH"    env-default:"/metrics"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// DriverName returns the normalized storage driver name.
func (c StorageConfig) DriverName() string {
	return strings.ToLower(strings.TrimSpace(c.Driver))
}
