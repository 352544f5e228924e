package pomodoro

import (
	"sync"
	"time"
)

// TickSource is a cancellable repeating timer. Cancel is safe to call more
// than once.
type TickSource interface {
	Cancel()
}

// Clock creates tick sources. fire runs once per period until the returned
// source is cancelled; it may be called from any goroutine. One firing that
// already passed its cancellation check may still complete after Cancel
// returns, so callers must tolerate a late call.
type Clock interface {
	NewTickSource(period time.Duration, fire func()) TickSource
}

// ClockFunc adapts a function to Clock.
type ClockFunc func(period time.Duration, fire func()) TickSource

func (f ClockFunc) NewTickSource(period time.Duration, fire func()) TickSource {
	return f(period, fire)
}

// RealClock drives tick sources from time.Ticker.
type RealClock struct{}

func (RealClock) NewTickSource(period time.Duration, fire func()) TickSource {
	s := &tickerSource{
		ticker: time.NewTicker(period),
		done:   make(chan struct{}),
	}
	go s.run(fire)
	return s
}

type tickerSource struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (s *tickerSource) run(fire func()) {
	defer s.ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C:
			// A tick and a cancel can be ready at the same time.
			select {
			case <-s.done:
				return
			default:
			}
			fire()
		}
	}
}

func (s *tickerSource) Cancel() {
	s.once.Do(func() {
		close(s.done)
	})
}
