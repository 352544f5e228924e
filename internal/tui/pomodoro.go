package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/msamunetogetoge/pomodorouri/internal/pomodoro"
)

// pomodoroModel renders engine snapshots and turns keys into commands. It
// holds no timer state of its own.
type pomodoroModel struct {
	ctl    Controller
	width  int
	height int

	snap     pomodoro.Snapshot
	bar      progress.Model
	started  bool // a countdown has run since the last reset
	today    int
	todaySec int64

	formActive bool
	form       *huh.Form
	// Form value as pointer (survives value copies)
	confirmReset *bool
}

func newPomodoroModel(ctl Controller, initial pomodoro.Snapshot) pomodoroModel {
	confirm := false
	return pomodoroModel{
		ctl:          ctl,
		snap:         initial,
		bar:          progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		confirmReset: &confirm,
	}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
	p.bar.Width = max(10, min(w-12, 60))
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case snapshotMsg:
		prev := p.snap
		p.snap = pomodoro.Snapshot(msg)
		if p.snap.Running {
			p.started = true
		}
		if !p.snap.Running && p.snap.Completed == 0 && p.snap.Remaining == p.snap.Total {
			p.started = false
		}
		if p.snap.Completed > prev.Completed {
			return p, statusCmd("Work interval complete. Break time!", false)
		}
		return p, nil

	case todayMsg:
		p.today = msg.count
		p.todaySec = msg.seconds
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if p.snap.Running {
				return p, nil
			}
			p.ctl.Start()
			return p, statusCmd("Timer started", false)
		case key.Matches(msg, keys.Stop):
			if !p.snap.Running {
				return p, nil
			}
			p.ctl.Stop()
			return p, statusCmd("Timer stopped", false)
		case key.Matches(msg, keys.Reset):
			if p.snap.Running {
				return p.showResetForm()
			}
			p.ctl.Reset()
			return p, statusCmd("Timer reset", false)
		}
	}
	return p, nil
}

func (p pomodoroModel) showResetForm() (pomodoroModel, tea.Cmd) {
	*p.confirmReset = false
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Reset the running timer?").
				Description("The current countdown is discarded.").
				Affirmative("Reset").
				Negative("Keep going").
				Value(p.confirmReset),
		),
	).WithShowHelp(false)

	p.formActive = true
	return p, p.form.Init()
}

func (p pomodoroModel) updateForm(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}
	// Snapshots keep flowing while the form is open.
	if snap, ok := msg.(snapshotMsg); ok {
		p.snap = pomodoro.Snapshot(snap)
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	switch p.form.State {
	case huh.StateCompleted:
		p.formActive = false
		p.form = nil
		if *p.confirmReset {
			p.ctl.Reset()
			return p, statusCmd("Timer reset", false)
		}
		return p, nil
	case huh.StateAborted:
		p.formActive = false
		p.form = nil
		return p, nil
	}

	return p, cmd
}

func (p pomodoroModel) view() string {
	w := p.width - 4

	title := titleStyle.Render("Pomodoro Timer")

	clock := p.snap.Display()
	var timeDisplay, phaseLabel, indicator string

	switch {
	case !p.started:
		timeDisplay = timerStyle.Width(w - 6).Render(clock)
		phaseLabel = mutedStyle.Render("Ready to start")
		indicator = mutedStyle.Render("Press s to begin")
	case p.snap.Phase == pomodoro.Work:
		style := accentStyle
		if !p.snap.Running {
			style = warningStyle
		}
		timeDisplay = style.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(clock)
		phaseLabel = style.Bold(true).Render(p.phaseLabel("WORK"))
		indicator = p.bar.ViewAs(p.snap.Progress())
	default:
		style := successStyle
		if !p.snap.Running {
			style = warningStyle
		}
		label := "BREAK"
		if p.snap.Remaining == 0 {
			label = "BREAK OVER"
		}
		timeDisplay = style.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(clock)
		phaseLabel = style.Bold(true).Render(p.phaseLabel(label))
		indicator = p.bar.ViewAs(p.snap.Progress())
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		phaseLabel,
		"",
		indicator,
		"",
		p.renderTally(),
	)

	if p.formActive && p.form != nil {
		content = lipgloss.JoinVertical(lipgloss.Center, content, "", p.form.View())
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", p.renderControls()),
	)
}

func (p pomodoroModel) phaseLabel(name string) string {
	if p.snap.Running {
		return name
	}
	return name + " (paused)"
}

func (p pomodoroModel) renderControls() string {
	switch {
	case p.formActive:
		return mutedStyle.Render("enter: confirm  esc: cancel")
	case p.snap.Running:
		return mutedStyle.Render("x: stop  r: reset")
	case p.started:
		return mutedStyle.Render("s: resume  r: reset  q: quit")
	}
	return mutedStyle.Render("s: start  q: quit")
}

// renderTally shows one dot per work interval finished since the last reset,
// plus today's total from the history.
func (p pomodoroModel) renderTally() string {
	var parts []string
	for i := 0; i < p.snap.Completed; i++ {
		parts = append(parts, successStyle.Render("●"))
	}
	if p.started && p.snap.Phase == pomodoro.Work {
		parts = append(parts, accentStyle.Render("◐"))
	}
	dots := strings.Join(parts, " ")
	today := mutedStyle.Render(fmt.Sprintf("today: %d (%s)", p.today, formatHours(p.todaySec)))
	if dots == "" {
		return today
	}
	return dots + "  " + today
}
