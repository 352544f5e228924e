package pomodoro

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

type eventKind int

const (
	eventStart eventKind = iota
	eventStop
	eventReset
	eventTick
)

var eventNames = map[eventKind]string{
	eventStart: "start",
	eventStop:  "stop",
	eventReset: "reset",
	eventTick:  "tick",
}

type event struct {
	kind eventKind
	fire func()
}

// Runner owns an Engine and applies commands and ticks to it one at a time
// from a single event channel. Its Start, Stop, Reset and Subscribe methods
// are safe for concurrent use.
type Runner struct {
	engine *Engine
	events chan event
	quit   chan struct{}
	logger *slog.Logger

	mu      sync.Mutex
	subs    []chan Snapshot
	last    Snapshot
	running bool
	closed  bool
}

// NewRunner builds the engine with a clock whose firings are routed through
// the runner's event channel.
func NewRunner(d Durations, clock Clock, n Notifier, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Runner{
		events: make(chan event, 16),
		quit:   make(chan struct{}),
		logger: logger,
	}

	loopClock := ClockFunc(func(period time.Duration, fire func()) TickSource {
		return clock.NewTickSource(period, func() {
			r.post(event{kind: eventTick, fire: fire})
		})
	})

	opts = append([]Option{WithLogger(logger)}, opts...)
	e, err := New(d, loopClock, n, opts...)
	if err != nil {
		return nil, err
	}
	r.engine = e
	r.last = e.Snapshot()
	return r, nil
}

func (r *Runner) Start() { r.post(event{kind: eventStart}) }
func (r *Runner) Stop()  { r.post(event{kind: eventStop}) }
func (r *Runner) Reset() { r.post(event{kind: eventReset}) }

// Snapshot returns the most recently published state.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Subscribe returns a channel that receives the state after every processed
// event. A slow reader only ever misses intermediate states: the newest one
// replaces whatever is still buffered. The channel is closed when Run returns.
func (r *Runner) Subscribe(buffer int) <-chan Snapshot {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		close(ch)
		return ch
	}
	ch <- r.last
	r.subs = append(r.subs, ch)
	return ch
}

// Run processes events until ctx is cancelled. It can only be called once.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.running || r.closed {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.mu.Unlock()

	defer r.shutdown()

	r.logger.Info("timer loop started", "work", r.engine.durations.Work, "break", r.engine.durations.Break)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-r.events:
			r.handle(ev)
			r.publish()
		}
	}
}

func (r *Runner) handle(ev event) {
	switch ev.kind {
	case eventStart:
		r.engine.Start()
	case eventStop:
		r.engine.Stop()
	case eventReset:
		r.engine.Reset()
	case eventTick:
		ev.fire()
	}
	if ev.kind != eventTick {
		r.logger.Debug("command applied", "command", eventNames[ev.kind])
	}
}

func (r *Runner) post(ev event) {
	select {
	case r.events <- ev:
	case <-r.quit:
	}
}

func (r *Runner) publish() {
	snap := r.engine.Snapshot()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = snap
	for _, ch := range r.subs {
		offer(ch, snap)
	}
}

func (r *Runner) shutdown() {
	r.engine.Stop()
	close(r.quit)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = r.engine.Snapshot()
	r.closed = true
	for _, ch := range r.subs {
		close(ch)
	}
	r.subs = nil
	r.logger.Info("timer loop stopped")
}

// offer sends without blocking, discarding the oldest buffered value when
// the channel is full. Only the loop goroutine sends, so the retry cannot
// race another sender.
func offer(ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}
