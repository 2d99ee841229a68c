package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment variable name, e.g. COOPS_LOG_LEVEL.
const EnvPrefix = "COOPS"

// Bounds for figure dimensions, in pixels.
const (
	MinDimension = 200
	MaxDimension = 4000
)

// Config holds all settings, populated from COOPS_* environment variables.
type Config struct {
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	DataDir      string `envconfig:"DATA_DIR" default:"."`
	Manifest     string `envconfig:"MANIFEST"`
	LenientKinds bool   `envconfig:"LENIENT_KINDS" default:"false"`

	FigureWidth     int `envconfig:"FIGURE_WIDTH" default:"1400"`
	PanelHeight     int `envconfig:"PANEL_HEIGHT" default:"450"`
	RenderCacheSize int `envconfig:"RENDER_CACHE_SIZE" default:"16"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges that struct tags cannot express.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid %s_LOG_LEVEL %q", EnvPrefix, c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid %s_LOG_FORMAT %q", EnvPrefix, c.LogFormat)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%s_SHUTDOWN_TIMEOUT must be positive", EnvPrefix)
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("%s_HTTP_ADDR is required", EnvPrefix)
	}
	if err := CheckDimension("FIGURE_WIDTH", c.FigureWidth); err != nil {
		return err
	}
	if err := CheckDimension("PANEL_HEIGHT", c.PanelHeight); err != nil {
		return err
	}
	if c.RenderCacheSize < 0 {
		return errors.New(EnvPrefix + "_RENDER_CACHE_SIZE must not be negative")
	}
	return nil
}

// CheckDimension reports whether a pixel dimension is within [MinDimension, MaxDimension].
func CheckDimension(name string, v int) error {
	if v < MinDimension || v > MaxDimension {
		return fmt.Errorf("%s must be between %d and %d, got %d", name, MinDimension, MaxDimension, v)
	}
	return nil
}
