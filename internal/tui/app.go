package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/msamunetogetoge/pomodorouri/internal/export"
	"github.com/msamunetogetoge/pomodorouri/internal/pomodoro"
	"github.com/msamunetogetoge/pomodorouri/internal/store"
)

// historyDelay gives the asynchronous history recorder time to write the
// finished interval before the views re-query it.
const historyDelay = 500 * time.Millisecond

// App is the root Bubble Tea model.
type App struct {
	store     *store.Store
	snapshots <-chan pomodoro.Snapshot
	width     int
	height    int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     string

	pomodoro pomodoroModel
	history  historyModel

	help        help.Model
	status      string
	statusError bool
}

// NewApp builds the UI. Commands go to ctl; state arrives on snapshots,
// which must be closed when the timer shuts down.
func NewApp(s *store.Store, ctl Controller, snapshots <-chan pomodoro.Snapshot) App {
	h := help.New()
	h.ShowAll = false

	dir, err := os.UserHomeDir()
	if err != nil {
		dir = "."
	}

	initial := pomodoro.Snapshot{
		Phase:     pomodoro.Work,
		Remaining: pomodoro.WorkDuration,
		Total:     pomodoro.WorkDuration,
	}

	return App{
		store:      s,
		snapshots:  snapshots,
		activeView: viewTimer,
		exportDir:  dir,
		pomodoro:   newPomodoroModel(ctl, initial),
		history:    newHistoryModel(s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		waitForSnapshot(a.snapshots),
		a.history.refresh(),
		a.history.loadToday(),
	)
}

// waitForSnapshot blocks on the next published snapshot.
func waitForSnapshot(ch <-chan pomodoro.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return runnerClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.pomodoro.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// The reset confirmation captures all input.
		if a.pomodoro.formActive {
			var cmd tea.Cmd
			a.pomodoro, cmd = a.pomodoro.update(msg)
			return a, cmd
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTimer
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewHistory
			return a, a.history.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			if a.activeView == viewHistory {
				return a, a.history.refresh()
			}
			return a, nil
		}

		// Timer keys work from every view.
		if key.Matches(msg, keys.Start, keys.Stop, keys.Reset) {
			if key.Matches(msg, keys.Reset) && a.pomodoro.snap.Running {
				a.activeView = viewTimer
			}
			var cmd tea.Cmd
			a.pomodoro, cmd = a.pomodoro.update(msg)
			return a, cmd
		}

	case snapshotMsg:
		prev := a.pomodoro.snap.Completed
		var cmd tea.Cmd
		a.pomodoro, cmd = a.pomodoro.update(msg)
		cmds := []tea.Cmd{cmd, waitForSnapshot(a.snapshots)}
		if msg.Completed > prev {
			cmds = append(cmds, tea.Tick(historyDelay, func(time.Time) tea.Msg {
				return refreshHistoryMsg{}
			}))
		}
		return a, tea.Batch(cmds...)

	case runnerClosedMsg:
		return a, tea.Quit

	case refreshHistoryMsg:
		return a, tea.Batch(a.history.refresh(), a.history.loadToday())

	case historyDataMsg:
		var cmd tea.Cmd
		a.history, cmd = a.history.update(msg)
		return a, cmd

	case todayMsg:
		var cmd tea.Cmd
		a.pomodoro, cmd = a.pomodoro.update(msg)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusError = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimer:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimer:
		content = a.pomodoro.view()
	case viewHistory:
		content = a.history.view()
	}

	contentHeight := max(a.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("pomodorouri")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Countdown indicator, visible from every view.
	snap := a.pomodoro.snap
	timerInfo := ""
	if a.pomodoro.started {
		label := fmt.Sprintf(" %s %s", snap.Phase, snap.Display())
		switch {
		case !snap.Running:
			timerInfo = warningStyle.Render(" ⏸" + label)
		case snap.Phase == pomodoro.Break:
			timerInfo = successStyle.Render(" ●" + label)
		default:
			timerInfo = accentStyle.Render(" ●" + label)
		}
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export History"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		intervals, err := a.store.ListIntervals(store.IntervalFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		name := "pomodorouri-export-" + time.Now().Format("2006-01-02")
		var path string
		if format == 0 {
			path = filepath.Join(a.exportDir, name+".csv")
			if err := export.ToCSV(intervals, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(a.exportDir, name+".json")
			if err := export.ToJSON(intervals, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
