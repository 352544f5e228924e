package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/msamunetogetoge/pomodorouri/internal/store"
)

// ToCSV writes the interval history to path, one row per interval.
func ToCSV(intervals []store.Interval, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Completed", "Duration (s)", "Duration"}); err != nil {
		return err
	}

	for _, iv := range intervals {
		row := []string{
			fmt.Sprintf("%d", iv.ID),
			iv.CompletedAt.Local().Format(time.RFC3339),
			fmt.Sprintf("%d", iv.DurationSec),
			formatDuration(iv.DurationSec),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
