package store

import (
	"database/sql"
	"fmt"
	"time"
)

// RecordInterval stores a finished interval of the given length.
func (s *Store) RecordInterval(duration time.Duration, completedAt time.Time) (*Interval, error) {
	res, err := s.db.Exec(
		`INSERT INTO intervals (duration, completed_at) VALUES (?, ?)`,
		int64(duration/time.Second), completedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("record interval: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("record interval: %w", err)
	}
	return s.GetInterval(id)
}

func (s *Store) GetInterval(id int64) (*Interval, error) {
	iv := &Interval{}
	var completedAt string
	err := s.db.QueryRow(
		`SELECT id, duration, completed_at FROM intervals WHERE id = ?`, id,
	).Scan(&iv.ID, &iv.DurationSec, &completedAt)
	if err != nil {
		return nil, fmt.Errorf("get interval %d: %w", id, err)
	}
	iv.CompletedAt, _ = time.Parse(time.RFC3339, completedAt)
	return iv, nil
}

// ListIntervals returns intervals newest first.
func (s *Store) ListIntervals(f IntervalFilter) ([]Interval, error) {
	query := `SELECT id, duration, completed_at FROM intervals WHERE 1=1`
	var args []any

	if f.From != nil {
		query += ` AND completed_at >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND completed_at < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY completed_at DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list intervals: %w", err)
	}
	defer rows.Close()

	var intervals []Interval
	for rows.Next() {
		var iv Interval
		var completedAt string
		if err := rows.Scan(&iv.ID, &iv.DurationSec, &completedAt); err != nil {
			return nil, err
		}
		iv.CompletedAt, _ = time.Parse(time.RFC3339, completedAt)
		intervals = append(intervals, iv)
	}
	return intervals, rows.Err()
}

// GetDailyCounts groups intervals completed in [from, to) by UTC day.
func (s *Store) GetDailyCounts(from, to time.Time) ([]DailyCount, error) {
	rows, err := s.db.Query(`
		SELECT date(completed_at) AS day, COUNT(*), COALESCE(SUM(duration), 0)
		FROM intervals
		WHERE completed_at >= ? AND completed_at < ?
		GROUP BY day
		ORDER BY day`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	defer rows.Close()

	var counts []DailyCount
	for rows.Next() {
		var dc DailyCount
		if err := rows.Scan(&dc.Date, &dc.Count, &dc.TotalSeconds); err != nil {
			return nil, err
		}
		counts = append(counts, dc)
	}
	return counts, rows.Err()
}

// GetTodayCount returns the number of intervals and their total length for
// the current UTC day.
func (s *Store) GetTodayCount() (int, int64, error) {
	today := time.Now().UTC().Format("2006-01-02")
	var count int
	var total sql.NullInt64
	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(duration), 0)
		FROM intervals
		WHERE date(completed_at) = ?`, today,
	).Scan(&count, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("today count: %w", err)
	}
	return count, total.Int64, nil
}
