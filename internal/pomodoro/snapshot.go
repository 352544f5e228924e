package pomodoro

import (
	"fmt"
	"time"
)

// Snapshot is a copy of the engine state a renderer needs.
type Snapshot struct {
	Phase     Phase
	Remaining time.Duration
	Running   bool
	// Completed counts finished work intervals since the last reset.
	Completed int
	// Total is the full length of the current phase.
	Total time.Duration
}

// Display renders the remaining time as MM:SS.
func (s Snapshot) Display() string {
	return FormatClock(s.Remaining)
}

// Progress is the elapsed fraction of the current phase, in [0, 1].
func (s Snapshot) Progress() float64 {
	if s.Total <= 0 {
		return 0
	}
	p := 1 - float64(s.Remaining)/float64(s.Total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// FormatClock renders d as MM:SS. Negative values clamp to 00:00.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
