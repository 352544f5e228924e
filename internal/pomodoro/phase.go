package pomodoro

import (
	"errors"
	"fmt"
	"time"
)

// Production interval lengths.
const (
	WorkDuration  = 25 * time.Minute
	BreakDuration = 5 * time.Minute

	// TickPeriod is the firing period of every TickSource the engine creates.
	TickPeriod = time.Second
)

// ErrInvalidDuration is returned when an interval length is non-positive or
// not a whole number of seconds.
var ErrInvalidDuration = errors.New("invalid interval duration")

// Phase is the countdown currently loaded into the engine.
type Phase int

const (
	Work Phase = iota
	Break
)

var phaseNames = map[Phase]string{
	Work:  "work",
	Break: "break",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// BreakPolicy decides what happens when a break countdown reaches zero.
type BreakPolicy int

const (
	// HoldAtZero leaves the break at 00:00 with no further transition.
	HoldAtZero BreakPolicy = iota
	// Cycle loads a fresh work countdown and keeps going.
	Cycle
)

// ParseBreakPolicy maps the config spelling ("hold", "cycle") to a policy.
func ParseBreakPolicy(s string) (BreakPolicy, error) {
	switch s {
	case "", "hold":
		return HoldAtZero, nil
	case "cycle":
		return Cycle, nil
	}
	return HoldAtZero, fmt.Errorf("unknown break policy %q", s)
}

// Durations holds the full length of each phase.
type Durations struct {
	Work  time.Duration
	Break time.Duration
}

// DefaultDurations returns the 25/5 production intervals.
func DefaultDurations() Durations {
	return Durations{Work: WorkDuration, Break: BreakDuration}
}

// Validate reports malformed interval lengths. It runs before an engine is
// constructed so a bad value never reaches the state machine.
func (d Durations) Validate() error {
	if err := validateDuration("work", d.Work); err != nil {
		return err
	}
	return validateDuration("break", d.Break)
}

// For returns the full length of phase p.
func (d Durations) For(p Phase) time.Duration {
	if p == Break {
		return d.Break
	}
	return d.Work
}

func validateDuration(name string, v time.Duration) error {
	if v <= 0 {
		return fmt.Errorf("%s duration %v must be positive: %w", name, v, ErrInvalidDuration)
	}
	if v%time.Second != 0 {
		return fmt.Errorf("%s duration %v is not whole seconds: %w", name, v, ErrInvalidDuration)
	}
	return nil
}
