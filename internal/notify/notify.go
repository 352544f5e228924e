// Package notify implements the host side of the "work interval finished"
// capability: terminal bell, freedesktop desktop notifications, an external
// command, and fan-out over several of them.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

const (
	appName = "pomodorouri"
	summary = "Work interval complete"
	body    = "Time for a break."
)

// Notifier matches pomodoro.Notifier.
type Notifier interface {
	NotifyWorkComplete(ctx context.Context) error
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context) error

func (f Func) NotifyWorkComplete(ctx context.Context) error { return f(ctx) }

// Bell rings the terminal bell.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) NotifyWorkComplete(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := io.WriteString(b.w, "\a"); err != nil {
		return fmt.Errorf("ring bell: %w", err)
	}
	return nil
}

// ErrEmptyCommand is returned by NewCommand for an empty argv.
var ErrEmptyCommand = errors.New("notify command is empty")

// Command runs an external program, e.g. notify-send or a sound player.
type Command struct {
	argv []string
}

func NewCommand(argv []string) (*Command, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, ErrEmptyCommand
	}
	return &Command{argv: append([]string(nil), argv...)}, nil
}

func (c *Command) NotifyWorkComplete(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, c.argv[0], c.argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("run %s: %w: %s", c.argv[0], err, msg)
		}
		return fmt.Errorf("run %s: %w", c.argv[0], err)
	}
	return nil
}

// Multi delivers to every notifier in order and joins their errors. One
// failing transport does not prevent the others.
type Multi []Notifier

func (m Multi) NotifyWorkComplete(ctx context.Context) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.NotifyWorkComplete(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
