package store

import "time"

// Interval is one finished work interval.
type Interval struct {
	ID          int64
	DurationSec int64
	CompletedAt time.Time
}

// IntervalFilter is used to filter intervals in queries.
type IntervalFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// DailyCount aggregates finished intervals per day.
type DailyCount struct {
	Date         string
	Count        int
	TotalSeconds int64
}
