// Package config loads the TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/msamunetogetoge/pomodorouri/internal/pomodoro"
	"github.com/msamunetogetoge/pomodorouri/internal/store"
)

const appName = "pomodorouri"

// EnvDBPath overrides Config.DBPath when set.
const EnvDBPath = "POMODOROURI_DB"

// Config is the on-disk configuration. Interval lengths are deliberately
// absent: they are fixed.
type Config struct {
	DBPath   string       `toml:"db_path"`
	LogFile  string       `toml:"log_file"`
	LogLevel string       `toml:"log_level"`
	BreakEnd string       `toml:"break_end"`
	Notify   NotifyConfig `toml:"notify"`
}

// NotifyConfig selects the transports used when a work interval finishes.
type NotifyConfig struct {
	Bell    bool     `toml:"bell"`
	Desktop bool     `toml:"desktop"`
	Command []string `toml:"command"`
}

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/pomodorouri/config.toml
//  2. ~/.config/pomodorouri/config.toml
//
// If no file exists, returns DefaultConfig().
func Load() (*Config, error) {
	for _, p := range searchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path. A missing file
// yields the defaults.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader decodes TOML over the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	dataDir := defaultDataDir()
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		dbPath = filepath.Join(dataDir, "history.db")
	}
	return &Config{
		DBPath:   dbPath,
		LogFile:  filepath.Join(dataDir, "pomodorouri.log"),
		LogLevel: "info",
		BreakEnd: "hold",
		Notify: NotifyConfig{
			Bell:    true,
			Desktop: false,
		},
	}
}

// Validate reports values the application cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path must not be empty"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if _, err := pomodoro.ParseBreakPolicy(c.BreakEnd); err != nil {
		errs = append(errs, fmt.Errorf("break_end: %w", err))
	}
	if c.Notify.Command != nil && (len(c.Notify.Command) == 0 || strings.TrimSpace(c.Notify.Command[0]) == "") {
		errs = append(errs, errors.New("notify.command must name a program"))
	}
	return errors.Join(errs...)
}

// BreakPolicy returns the parsed break_end value.
func (c *Config) BreakPolicy() pomodoro.BreakPolicy {
	p, _ := pomodoro.ParseBreakPolicy(c.BreakEnd)
	return p
}

// ParseLevel maps a log_level string to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}
}

func searchPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, appName, "config.toml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}
	return paths
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appName)
	}
	return "."
}
