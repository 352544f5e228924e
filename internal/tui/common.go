package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/msamunetogetoge/pomodorouri/internal/pomodoro"
)

// Controller is the command side of the timer. *pomodoro.Runner satisfies it.
type Controller interface {
	Start()
	Stop()
	Reset()
}

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewHistory
)

var viewNames = []string{"Timer", "History"}

// --- Messages ---

type snapshotMsg pomodoro.Snapshot

// runnerClosedMsg is sent once the snapshot subscription is closed.
type runnerClosedMsg struct{}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func formatHours(secs int64) string {
	h := float64(secs) / 3600
	return fmt.Sprintf("%.1fh", h)
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

// todayMsg carries today's totals from the history store.
type todayMsg struct {
	count   int
	seconds int64
}

type refreshHistoryMsg struct{}
