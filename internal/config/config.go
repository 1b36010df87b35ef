// Package config loads and stores the librecurd YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	str2duration "github.com/xhit/go-str2duration/v2"
	"gopkg.in/yaml.v3"
)

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Driver is "memory" or "sqlite".
	Driver string `yaml:"driver" json:"driver"`
	// DSN is the sqlite data source, a file path or ":memory:".
	DSN string `yaml:"dsn,omitempty" json:"dsn,omitempty"`
}

// Config is the top-level daemon configuration.
type Config struct {
	// Listen is the HTTP listen address for the calendar API.
	Listen string `yaml:"listen" json:"listen"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Storage selects and parameterizes the persistence backend.
	Storage StorageConfig `yaml:"storage" json:"storage"`

	// FeedEnabled toggles the iCalendar feed endpoint. Only an explicit
	// false disables it; an absent key reads as true.
	FeedEnabled *bool `yaml:"feed_enabled" json:"feed_enabled"`

	// ReminderCron is a cron-style schedule string (e.g. "*/5 * * * *")
	// driving the reminder scan.
	ReminderCron string `yaml:"reminder_cron" json:"reminder_cron"`

	// ReminderHorizon is how far ahead a reminder scan looks, as a
	// duration string ("15m", "1h").
	ReminderHorizon string `yaml:"reminder_horizon" json:"reminder_horizon"`

	// CacheTTL is how long expanded occurrences stay cached, as a
	// duration string ("15m", "1d").
	CacheTTL string `yaml:"cache_ttl" json:"cache_ttl"`

	// SentryDSN, if non-empty, enables Sentry error reporting.
	SentryDSN string `yaml:"sentry_dsn,omitempty" json:"sentry_dsn,omitempty"`

	// SampleRate is the Sentry event sample rate in (0, 1].
	SampleRate float64 `yaml:"sample_rate" json:"sample_rate"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	enabled := true
	return &Config{
		Listen:          "127.0.0.1:8080",
		LogLevel:        "info",
		Storage:         StorageConfig{Driver: "memory"},
		FeedEnabled:     &enabled,
		ReminderCron:    "*/5 * * * *",
		ReminderHorizon: "15m",
		CacheTTL:        "15m",
		SentryDSN:       "",
		SampleRate:      1.0,
	}
}

// Normalize fills in missing or invalid values with defaults so that
// partially-filled configs (e.g., older versions) still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}

	// LogLevel default & validation.
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// ok
	case "":
		c.LogLevel = "info"
	default:
		// Unknown value; fall back to info rather than silencing logs.
		c.LogLevel = "info"
	}

	// Storage driver default & validation.
	switch c.Storage.Driver {
	case "memory", "sqlite":
		// ok
	case "":
		c.Storage.Driver = "memory"
	default:
		// Unknown value; fall back to memory so the daemon still starts.
		c.Storage.Driver = "memory"
	}
	if c.Storage.Driver == "sqlite" && c.Storage.DSN == "" {
		c.Storage.DSN = "librecur.db"
	}

	if c.FeedEnabled == nil {
		enabled := true
		c.FeedEnabled = &enabled
	}

	if c.ReminderCron == "" {
		c.ReminderCron = "*/5 * * * *"
	}

	// Duration strings that do not parse fall back to their defaults.
	if _, err := str2duration.ParseDuration(c.ReminderHorizon); err != nil {
		c.ReminderHorizon = "15m"
	}
	if _, err := str2duration.ParseDuration(c.CacheTTL); err != nil {
		c.CacheTTL = "15m"
	}

	if c.SampleRate <= 0 || c.SampleRate > 1 {
		c.SampleRate = 1.0
	}
}

// ReminderHorizonDuration parses ReminderHorizon. Day suffixes work:
// "1d12h" is a day and a half.
func (c *Config) ReminderHorizonDuration() (time.Duration, error) {
	d, err := str2duration.ParseDuration(c.ReminderHorizon)
	if err != nil {
		return 0, fmt.Errorf("invalid reminder_horizon %q: %w", c.ReminderHorizon, err)
	}
	return d, nil
}

// CacheTTLDuration parses CacheTTL.
func (c *Config) CacheTTLDuration() (time.Duration, error) {
	d, err := str2duration.ParseDuration(c.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache_ttl %q: %w", c.CacheTTL, err)
	}
	return d, nil
}

// SlogLevel maps LogLevel onto a slog level. Unknown values read as info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".librecurd-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	// Flush and close before chmod/rename.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// Set permissions to 0600 on temp file before rename.
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	// Rename over the target path.
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method on Config that delegates to the package-level
// Save function:
//
//	cfg, _ := config.Load(path)
//	// ... mutate cfg ...
//	if err := cfg.Save(path); err != nil { ... }
func (c *Config) Save(path string) error {
	return Save(path, c)
}
