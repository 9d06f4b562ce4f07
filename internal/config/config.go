// Package config loads runtime settings. Precedence, lowest first: built-in
// defaults, the JSONC config file, TIMELINE_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/tailscale/hujson"
)

var (
	ErrConfigInvalid      = errors.New("invalid config")
	ErrConfigFileNotFound = errors.New("config file not found")
)

// Config holds all configuration options.
type Config struct {
	DBPath string `env:"TIMELINE_DB"`

	ZoomFactor       float64       `env:"TIMELINE_ZOOM_FACTOR"`
	ClickThresholdPx float64       `env:"TIMELINE_CLICK_THRESHOLD_PX"`
	MinViewport      time.Duration `env:"TIMELINE_MIN_VIEWPORT"`
	MaxViewport      time.Duration `env:"TIMELINE_MAX_VIEWPORT"`
	// Initial viewport is today minus/plus these many calendar months.
	InitialMonthsBefore int `env:"TIMELINE_INITIAL_MONTHS_BEFORE"`
	InitialMonthsAfter  int `env:"TIMELINE_INITIAL_MONTHS_AFTER"`

	LogUseCases  bool   `env:"TIMELINE_LOG_USE_CASES"`
	OTLPEndpoint string `env:"TIMELINE_OTLP_ENDPOINT"`
	OTLPInsecure bool   `env:"TIMELINE_OTLP_INSECURE"`

	// Source is the config file that was merged, if any.
	Source string
}

// fileConfig is the on-disk shape. Absent keys leave the lower layer alone.
type fileConfig struct {
	DBPath              *string  `json:"db_path"`
	ZoomFactor          *float64 `json:"zoom_factor"`
	ClickThresholdPx    *float64 `json:"click_threshold_px"`
	MinViewport         *string  `json:"min_viewport"`
	MaxViewport         *string  `json:"max_viewport"`
	InitialMonthsBefore *int     `json:"initial_months_before"`
	InitialMonthsAfter  *int     `json:"initial_months_after"`
	LogUseCases         *bool    `json:"log_use_cases"`
	OTLPEndpoint        *string  `json:"otlp_endpoint"`
	OTLPInsecure        *bool    `json:"otlp_insecure"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBPath:              defaultDBPath(),
		ZoomFactor:          0.1,
		ClickThresholdPx:    5,
		MinViewport:         time.Minute,
		MaxViewport:         50 * 365 * 24 * time.Hour,
		InitialMonthsBefore: 1,
		InitialMonthsAfter:  1,
	}
}

// Load builds the configuration from environ (os.Environ() format). The file
// named by TIMELINE_CONFIG must exist; the default ~/.timeline/config.jsonc
// is optional.
func Load(environ []string) (Config, error) {
	cfg := Default()
	vars := env.ToMap(environ)

	path, mustExist := vars["TIMELINE_CONFIG"], true
	if path == "" {
		path, mustExist = defaultConfigPath(), false
	}
	if path != "" {
		loaded, err := mergeFile(&cfg, path, mustExist)
		if err != nil {
			return Config{}, err
		}
		if loaded {
			cfg.Source = path
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("%w: parse env: %w", ErrConfigInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the viewport and click logic cannot work with.
func (c Config) Validate() error {
	switch {
	case c.DBPath == "":
		return fmt.Errorf("%w: db path is empty", ErrConfigInvalid)
	case c.ZoomFactor <= 0 || c.ZoomFactor >= 1:
		return fmt.Errorf("%w: zoom factor %v must be in (0, 1)", ErrConfigInvalid, c.ZoomFactor)
	case c.ClickThresholdPx <= 0:
		return fmt.Errorf("%w: click threshold must be positive", ErrConfigInvalid)
	case c.MinViewport <= 0 || c.MinViewport >= c.MaxViewport:
		return fmt.Errorf("%w: viewport bounds %s..%s", ErrConfigInvalid, c.MinViewport, c.MaxViewport)
	case c.InitialMonthsBefore < 0 || c.InitialMonthsAfter < 0 ||
		c.InitialMonthsBefore+c.InitialMonthsAfter == 0:
		return fmt.Errorf("%w: initial viewport must span at least one month", ErrConfigInvalid)
	}
	return nil
}

// InitialWindow returns the start and end of the first viewport around now.
func (c Config) InitialWindow(now time.Time) (time.Time, time.Time) {
	return now.AddDate(0, -c.InitialMonthsBefore, 0), now.AddDate(0, c.InitialMonthsAfter, 0)
}

func mergeFile(cfg *Config, path string, mustExist bool) (bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		return false, fmt.Errorf("reading config %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return false, fmt.Errorf("%w %s: invalid JSONC: %w", ErrConfigInvalid, path, err)
	}
	var fc fileConfig
	if err := json.Unmarshal(standardized, &fc); err != nil {
		return false, fmt.Errorf("%w %s: invalid JSON: %w", ErrConfigInvalid, path, err)
	}
	if err := fc.mergeInto(cfg); err != nil {
		return false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}
	return true, nil
}

func (fc fileConfig) mergeInto(cfg *Config) error {
	if fc.DBPath != nil {
		cfg.DBPath = *fc.DBPath
	}
	if fc.ZoomFactor != nil {
		cfg.ZoomFactor = *fc.ZoomFactor
	}
	if fc.ClickThresholdPx != nil {
		cfg.ClickThresholdPx = *fc.ClickThresholdPx
	}
	if fc.MinViewport != nil {
		d, err := time.ParseDuration(*fc.MinViewport)
		if err != nil {
			return fmt.Errorf("min_viewport: %w", err)
		}
		cfg.MinViewport = d
	}
	if fc.MaxViewport != nil {
		d, err := time.ParseDuration(*fc.MaxViewport)
		if err != nil {
			return fmt.Errorf("max_viewport: %w", err)
		}
		cfg.MaxViewport = d
	}
	if fc.InitialMonthsBefore != nil {
		cfg.InitialMonthsBefore = *fc.InitialMonthsBefore
	}
	if fc.InitialMonthsAfter != nil {
		cfg.InitialMonthsAfter = *fc.InitialMonthsAfter
	}
	if fc.LogUseCases != nil {
		cfg.LogUseCases = *fc.LogUseCases
	}
	if fc.OTLPEndpoint != nil {
		cfg.OTLPEndpoint = *fc.OTLPEndpoint
	}
	if fc.OTLPInsecure != nil {
		cfg.OTLPInsecure = *fc.OTLPInsecure
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "timeline.db"
	}
	return filepath.Join(home, ".timeline", "timeline.db")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".timeline", "config.jsonc")
}
