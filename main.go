// Command pomodorouri is a terminal Pomodoro timer.
//
// Usage:
//
//	pomodorouri [flags]
//
// Flags:
//
//	-config string   Path to configuration file
//	-v               Enable debug logging
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/msamunetogetoge/pomodorouri/internal/config"
	"github.com/msamunetogetoge/pomodorouri/internal/notify"
	"github.com/msamunetogetoge/pomodorouri/internal/pomodoro"
	"github.com/msamunetogetoge/pomodorouri/internal/store"
	"github.com/msamunetogetoge/pomodorouri/internal/tui"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to configuration file")
		verbose    = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	if err := run(*configPath, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, verbose bool) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// The terminal belongs to the TUI, so logs only go to the file.
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	level, _ := config.ParseLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}))
	logger.Info("starting", "db", cfg.DBPath, "break_end", cfg.BreakEnd)

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	notifier, closeNotifier := buildNotifier(cfg, s, logger)
	defer closeNotifier()

	runner, err := pomodoro.NewRunner(
		pomodoro.DefaultDurations(),
		pomodoro.RealClock{},
		notifier,
		logger,
		pomodoro.WithBreakPolicy(cfg.BreakPolicy()),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshots := runner.Subscribe(1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("timer stopped", "error", err)
		}
	}()

	p := tea.NewProgram(tui.NewApp(s, runner, snapshots), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()

	stop()
	<-done
	logger.Info("shutdown")

	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// buildNotifier assembles the configured transports plus the history
// recorder. The returned func releases transport resources.
func buildNotifier(cfg *config.Config, s *store.Store, logger *slog.Logger) (notify.Multi, func()) {
	var n notify.Multi
	closeFn := func() {}

	n = append(n, notify.Func(func(context.Context) error {
		iv, err := s.RecordInterval(pomodoro.WorkDuration, time.Now())
		if err != nil {
			return fmt.Errorf("record interval: %w", err)
		}
		logger.Debug("interval recorded", "id", iv.ID)
		return nil
	}))

	if cfg.Notify.Bell {
		n = append(n, notify.NewBell(os.Stderr))
	}
	if cfg.Notify.Desktop {
		d, err := notify.NewDesktop()
		if err != nil {
			logger.Warn("desktop notifications unavailable", "error", err)
		} else {
			n = append(n, d)
			closeFn = func() { d.Close() }
		}
	}
	if len(cfg.Notify.Command) > 0 {
		c, err := notify.NewCommand(cfg.Notify.Command)
		if err != nil {
			logger.Warn("notify command ignored", "error", err)
		} else {
			n = append(n, c)
		}
	}
	return n, closeFn
}
