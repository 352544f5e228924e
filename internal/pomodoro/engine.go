package pomodoro

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

const defaultNotifyTimeout = 10 * time.Second

// Notifier is the host's "work interval finished" capability.
type Notifier interface {
	NotifyWorkComplete(ctx context.Context) error
}

// Engine is the work/break state machine. It is not safe for concurrent use:
// every method, and every fire callback of its tick sources, must run on the
// same goroutine. Runner provides that goroutine.
type Engine struct {
	durations     Durations
	clock         Clock
	notifier      Notifier
	policy        BreakPolicy
	dispatch      func(func())
	notifyTimeout time.Duration
	logger        *slog.Logger

	phase     Phase
	remaining time.Duration
	completed int

	// source is the only live tick source; nil means stopped.
	source TickSource
	// seq identifies source. Firings carrying another value are stale.
	seq uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithBreakPolicy selects the behavior at the end of a break.
func WithBreakPolicy(p BreakPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithLogger sets the logger used for transitions and notification failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDispatch replaces the detached-goroutine dispatch of notifications.
func WithDispatch(d func(func())) Option {
	return func(e *Engine) {
		if d != nil {
			e.dispatch = d
		}
	}
}

// WithNotifyTimeout bounds each notification call.
func WithNotifyTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.notifyTimeout = d
		}
	}
}

// ErrNilClock is returned by New when no clock is given.
var ErrNilClock = errors.New("nil clock")

// New validates d and returns an engine in its initial configuration: Work
// phase, full work countdown, not running. The clock's fire callbacks must
// reach the engine on its own goroutine; NewRunner builds such a clock.
func New(d Durations, clock Clock, n Notifier, opts ...Option) (*Engine, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		return nil, ErrNilClock
	}
	e := &Engine{
		durations:     d,
		clock:         clock,
		notifier:      n,
		dispatch:      func(f func()) { go f() },
		notifyTimeout: defaultNotifyTimeout,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		phase:         Work,
		remaining:     d.Work,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Start begins ticking. It does nothing if the engine is already running.
func (e *Engine) Start() {
	if e.source != nil {
		return
	}
	e.startSource()
	e.logger.Debug("timer started", "phase", e.phase, "remaining", e.remaining)
}

// Stop pauses the countdown. Phase and remaining time are kept.
func (e *Engine) Stop() {
	if e.source == nil {
		return
	}
	e.stopSource()
	e.logger.Debug("timer stopped", "phase", e.phase, "remaining", e.remaining)
}

// Reset stops the engine and reloads a full work countdown.
func (e *Engine) Reset() {
	e.Stop()
	e.phase = Work
	e.remaining = e.durations.Work
	e.completed = 0
	e.logger.Debug("timer reset")
}

// OnTick applies one elapsed second. Ticks delivered while stopped are
// ignored. The tick that brings the countdown to zero performs the phase
// transition.
func (e *Engine) OnTick() {
	if e.source == nil {
		return
	}
	if e.remaining > 0 {
		e.remaining -= time.Second
		if e.remaining < 0 {
			e.remaining = 0
		}
	}
	if e.remaining > 0 {
		return
	}

	switch e.phase {
	case Work:
		e.stopSource()
		e.notify()
		e.completed++
		e.enter(Break)
		e.startSource()
	case Break:
		if e.policy != Cycle {
			return
		}
		e.stopSource()
		e.enter(Work)
		e.startSource()
	}
}

func (e *Engine) Phase() Phase              { return e.phase }
func (e *Engine) Remaining() time.Duration { return e.remaining }
func (e *Engine) Running() bool            { return e.source != nil }
func (e *Engine) Durations() Durations     { return e.durations }

// Snapshot returns a copy of the display state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Phase:     e.phase,
		Remaining: e.remaining,
		Running:   e.source != nil,
		Completed: e.completed,
		Total:     e.durations.For(e.phase),
	}
}

func (e *Engine) enter(p Phase) {
	from := e.phase
	e.phase = p
	e.remaining = e.durations.For(p)
	e.logger.Info("phase transition", "from", from, "to", p, "remaining", e.remaining)
}

// startSource must only run with no live source.
func (e *Engine) startSource() {
	e.seq++
	seq := e.seq
	e.source = e.clock.NewTickSource(TickPeriod, func() { e.fire(seq) })
}

// stopSource cancels before clearing the slot, and bumps seq so a firing
// already in flight from the old source is dropped.
func (e *Engine) stopSource() {
	if e.source == nil {
		return
	}
	e.source.Cancel()
	e.source = nil
	e.seq++
}

func (e *Engine) fire(seq uint64) {
	if seq != e.seq {
		return
	}
	e.OnTick()
}

func (e *Engine) notify() {
	if e.notifier == nil {
		return
	}
	n, timeout, logger := e.notifier, e.notifyTimeout, e.logger
	e.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := n.NotifyWorkComplete(ctx); err != nil {
			logger.Warn("work complete notification failed", "error", err)
		}
	})
}
