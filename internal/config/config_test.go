package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/msamunetogetoge/pomodorouri/internal/pomodoro"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DBPath == "" || cfg.LogFile == "" {
		t.Fatal("default paths should be set")
	}
	if cfg.LogLevel != "info" || cfg.BreakEnd != "hold" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.Notify.Bell || cfg.Notify.Desktop {
		t.Fatalf("expected bell only by default, got %+v", cfg.Notify)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.BreakPolicy() != pomodoro.HoldAtZero {
		t.Fatal("default break policy should hold at zero")
	}
}

func TestLoadFromReader(t *testing.T) {
	input := `
db_path = "/tmp/pomo.db"
log_level = "debug"
break_end = "cycle"

[notify]
bell = false
desktop = true
command = ["notify-send", "Pomodoro", "Break time"]
`
	t.Setenv(EnvDBPath, "")
	cfg, err := LoadFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/tmp/pomo.db" {
		t.Fatalf("db_path = %q", cfg.DBPath)
	}
	if cfg.LogLevel != "debug" || cfg.BreakPolicy() != pomodoro.Cycle {
		t.Fatalf("unexpected values: %+v", cfg)
	}
	if cfg.Notify.Bell || !cfg.Notify.Desktop {
		t.Fatalf("unexpected notify: %+v", cfg.Notify)
	}
	if len(cfg.Notify.Command) != 3 || cfg.Notify.Command[0] != "notify-send" {
		t.Fatalf("unexpected command: %v", cfg.Notify.Command)
	}
	if cfg.LogFile == "" {
		t.Fatal("unset keys should keep their defaults")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFromReaderRejectsUnknownKeys(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("work_minutes = 50\n"))
	if err == nil || !strings.Contains(err.Error(), "work_minutes") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadFromReaderBadSyntax(t *testing.T) {
	if _, err := LoadFromReader(strings.NewReader("db_path = ")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "info" {
		t.Fatal("missing file should give defaults")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`log_level = "warn"`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("log_level = %q", cfg.LogLevel)
	}
}

func TestLoadSearchesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvDBPath, "")
	if err := os.MkdirAll(filepath.Join(dir, appName), 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, appName, "config.toml")
	if err := os.WriteFile(path, []byte(`break_end = "cycle"`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BreakEnd != "cycle" {
		t.Fatalf("expected XDG config to be loaded, got %+v", cfg)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv(EnvDBPath, "/srv/history.db")
	cfg, err := LoadFromReader(strings.NewReader(`db_path = "/tmp/a.db"`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/srv/history.db" {
		t.Fatalf("env should override file, got %q", cfg.DBPath)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty db", func(c *Config) { c.DBPath = "" }, "db_path"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"bad break_end", func(c *Config) { c.BreakEnd = "forever" }, "break_end"},
		{"empty command", func(c *Config) { c.Notify.Command = []string{""} }, "notify.command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}
