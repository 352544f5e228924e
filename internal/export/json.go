package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/msamunetogetoge/pomodorouri/internal/store"
)

type jsonExport struct {
	ExportedAt   string         `json:"exported_at"`
	Count        int            `json:"count"`
	TotalSeconds int64          `json:"total_seconds"`
	Intervals    []jsonInterval `json:"intervals"`
}

type jsonInterval struct {
	ID          int64  `json:"id"`
	CompletedAt string `json:"completed_at"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
}

// ToJSON writes the interval history to path as an indented document.
func ToJSON(intervals []store.Interval, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(intervals),
	}

	for _, iv := range intervals {
		export.TotalSeconds += iv.DurationSec
		export.Intervals = append(export.Intervals, jsonInterval{
			ID:          iv.ID,
			CompletedAt: iv.CompletedAt.Local().Format(time.RFC3339),
			DurationSec: iv.DurationSec,
			Duration:    formatDuration(iv.DurationSec),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
