// Package config loads energipro settings from a TOML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/theirongolddev/energipro/internal/plan"
)

const appName = "energipro"

// Config holds all energipro configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Plans      PlansConfig      `toml:"plans"`
	Appearance AppearanceConfig `toml:"appearance"`
	Welcome    WelcomeConfig    `toml:"welcome"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds storage settings.
type GeneralConfig struct {
	DataDir string `toml:"data_dir,omitempty" env:"ENERGIPRO_DATA_DIR"`
}

// PlansConfig holds subscription settings.
type PlansConfig struct {
	FreeMonthlyQuota int    `toml:"free_monthly_quota" env:"ENERGIPRO_FREE_QUOTA"`
	CheckoutURL      string `toml:"checkout_url" env:"ENERGIPRO_CHECKOUT_URL"`
}

// AppearanceConfig holds theme and number formatting settings.
type AppearanceConfig struct {
	Theme          string `toml:"theme" env:"ENERGIPRO_THEME"`
	Locale         string `toml:"locale" env:"ENERGIPRO_LOCALE"`
	CurrencySymbol string `toml:"currency_symbol"`
}

// WelcomeConfig tunes the post-login pulse animation.
type WelcomeConfig struct {
	Pulses          int `toml:"pulses"`
	PulseIntervalMS int `toml:"pulse_interval_ms"`
	SettleMS        int `toml:"settle_ms"`
}

// PulseInterval returns the delay between pulses.
func (w WelcomeConfig) PulseInterval() time.Duration {
	return time.Duration(w.PulseIntervalMS) * time.Millisecond
}

// Settle returns the pause after the last pulse.
func (w WelcomeConfig) Settle() time.Duration {
	return time.Duration(w.SettleMS) * time.Millisecond
}

// LogConfig holds logging settings. An empty File means the default log
// file under the data directory.
type LogConfig struct {
	Level string `toml:"level" env:"LOG_LEVEL"`
	File  string `toml:"file,omitempty" env:"ENERGIPRO_LOG_FILE"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Plans: PlansConfig{
			FreeMonthlyQuota: plan.DefaultFreeMonthlyQuota,
			CheckoutURL:      plan.DefaultCheckoutURL,
		},
		Appearance: AppearanceConfig{
			Theme:          "energipro",
			Locale:         "pt-BR",
			CurrencySymbol: "R$",
		},
		Welcome: WelcomeConfig{
			Pulses:          6,
			PulseIntervalMS: 400,
			SettleMS:        500,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Policy returns the plan policy described by the config.
func (c Config) Policy() plan.Policy {
	return plan.Policy{FreeMonthlyQuota: c.Plans.FreeMonthlyQuota}
}

// Validate rejects settings the rest of the program cannot work with.
func (c Config) Validate() error {
	if c.Plans.FreeMonthlyQuota < 0 {
		return fmt.Errorf("plans.free_monthly_quota must be >= 0, got %d", c.Plans.FreeMonthlyQuota)
	}
	if c.Welcome.Pulses < 0 || c.Welcome.PulseIntervalMS < 0 || c.Welcome.SettleMS < 0 {
		return errors.New("welcome timings must be >= 0")
	}
	return nil
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the directory holding the session database and log.
func (c Config) DataDir() string {
	if c.General.DataDir != "" {
		return c.General.DataDir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// DBPath returns the session database path.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir(), appName+".db")
}

// LogPath returns the log file used while the TUI owns the terminal.
func (c Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.DataDir(), appName+".log")
}

// Load reads the config file and applies environment overrides.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path, returning defaults if it doesn't
// exist, then applies environment overrides.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's config location
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overlays ENERGIPRO_* and LOG_LEVEL variables onto cfg. Unset
// variables leave the current values alone.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec // config dir
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is the user's config location
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
