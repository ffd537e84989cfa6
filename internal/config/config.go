package config

import (
	"time"

	"csvexplorer/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment variable, e.g. EXPLORER_SERVER_PORT.
const EnvPrefix = "EXPLORER"

// devSessionSecret is only suitable for local runs; set EXPLORER_SESSION_SECRET elsewhere.
const devSessionSecret = "csvexplorer-dev-secret-change-me-please"

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `envconfig:"SERVER"`
	Session SessionConfig `envconfig:"SESSION"`
	Data    DataConfig    `envconfig:"DATA"`
	Log     LogConfig     `envconfig:"LOG"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	GinMode         string        `envconfig:"GIN_MODE" default:"release" validate:"oneof=debug release test"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s" validate:"gt=0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`
}

// SessionConfig holds browser session settings
type SessionConfig struct {
	Secret          string        `envconfig:"SECRET" validate:"required,min=32"`
	CookieName      string        `envconfig:"COOKIE" default:"csvexplorer_session" validate:"required"`
	TTL             time.Duration `envconfig:"TTL" default:"2h" validate:"gt=0"`
	JanitorInterval time.Duration `envconfig:"JANITOR_INTERVAL" default:"5m" validate:"gt=0"`
}

// DataConfig holds upload and view settings
type DataConfig struct {
	MaxUploadBytes   int64 `envconfig:"MAX_UPLOAD_BYTES" default:"52428800" validate:"gt=0"`
	PreviewRows      int   `envconfig:"PREVIEW_ROWS" default:"5" validate:"gt=0"`
	MissingRowsLimit int   `envconfig:"MISSING_ROWS_LIMIT" default:"5" validate:"gt=0"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `envconfig:"LEVEL" default:"INFO" validate:"omitempty,oneof=ERROR WARN INFO DEBUG TRACE error warn info debug trace"`
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to load configuration from environment")
	}

	if cfg.Session.Secret == "" {
		cfg.Session.Secret = devSessionSecret
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return cfg, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			GinMode:         "release",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Session: SessionConfig{
			Secret:          devSessionSecret,
			CookieName:      "csvexplorer_session",
			TTL:             2 * time.Hour,
			JanitorInterval: 5 * time.Minute,
		},
		Data: DataConfig{
			MaxUploadBytes:   50 * 1024 * 1024,
			PreviewRows:      5,
			MissingRowsLimit: 5,
		},
		Log: LogConfig{Level: "INFO"},
	}
}

// Validate checks struct tags on the configuration
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return errors.ConfigInvalid(err.Error())
	}
	return nil
}

// UsingDevSecret reports whether the built-in development session secret is active
func (c *Config) UsingDevSecret() bool {
	return c.Session.Secret == devSessionSecret
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}
