package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/msamunetogetoge/pomodorouri/internal/store"
)

type historyMode int

const (
	historyDaily historyMode = iota
	historyWeekly
)

// historyModel charts completed work intervals per day.
type historyModel struct {
	store  *store.Store
	width  int
	height int

	mode   historyMode
	counts []store.DailyCount
	offset int // weeks or 7-day blocks back from today (0 = current)
	err    error

	chart barchart.Model
}

func newHistoryModel(s *store.Store) historyModel {
	return historyModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (h *historyModel) setSize(w, hgt int) {
	h.width = w
	h.height = hgt
}

type historyDataMsg struct {
	counts []store.DailyCount
	err    error
}

func (h historyModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := h.dateRange(time.Now())
		counts, err := h.store.GetDailyCounts(from, to)
		return historyDataMsg{counts: counts, err: err}
	}
}

func (h historyModel) loadToday() tea.Cmd {
	return func() tea.Msg {
		count, secs, err := h.store.GetTodayCount()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("History error: %v", err), isError: true}
		}
		return todayMsg{count: count, seconds: secs}
	}
}

// dateRange returns the half-open [from, to) day range shown for the
// current mode and offset.
func (h historyModel) dateRange(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if h.mode == historyWeekly {
		weekday := today.Weekday()
		if weekday == time.Sunday {
			weekday = 7
		}
		monday := today.AddDate(0, 0, -int(weekday-time.Monday)-7*h.offset)
		return monday, monday.AddDate(0, 0, 7)
	}
	end := today.AddDate(0, 0, 1-7*h.offset)
	return end.AddDate(0, 0, -7), end
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		h.counts = msg.counts
		h.err = msg.err
		h.buildChart()
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			h.offset++
			return h, h.refresh()
		case key.Matches(msg, keys.Right):
			if h.offset > 0 {
				h.offset--
			}
			return h, h.refresh()
		case key.Matches(msg, keys.Mode):
			if h.mode == historyDaily {
				h.mode = historyWeekly
			} else {
				h.mode = historyDaily
			}
			h.offset = 0
			return h, h.refresh()
		}
	}
	return h, nil
}

func (h *historyModel) buildChart() {
	chartWidth := max(h.width-8, 20)
	chartHeight := 12
	if h.height > 30 {
		chartHeight = 16
	}

	h.chart = barchart.New(chartWidth, chartHeight)

	byDate := make(map[string]store.DailyCount, len(h.counts))
	for _, c := range h.counts {
		byDate[c.Date] = c
	}

	barStyle := lipgloss.NewStyle().Foreground(colorAccent)
	emptyStyle := lipgloss.NewStyle().Foreground(colorSubtle)

	from, to := h.dateRange(time.Now())
	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		c := byDate[d.Format("2006-01-02")]
		style := barStyle
		if c.Count == 0 {
			style = emptyStyle
		}
		bars = append(bars, barchart.BarData{
			Label:  d.Format("Mon 02"),
			Values: []barchart.BarValue{{Name: "work", Value: float64(c.Count), Style: style}},
		})
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h historyModel) view() string {
	w := h.width - 4

	dailyTab := inactiveTabStyle.Render("Daily")
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if h.mode == historyDaily {
		dailyTab = activeTabStyle.Render("Daily")
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	from, to := h.dateRange(time.Now())
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ", modeTabs, "  ", dateLabel,
	)

	nav := mutedStyle.Render("  ←/→: navigate  m: daily/weekly")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", h.chart.View(), "", h.renderSummaryTable(w), "", nav,
		),
	)
}

func (h historyModel) renderSummaryTable(w int) string {
	if h.err != nil {
		return errorStyle.Render("  " + h.err.Error())
	}
	if len(h.counts) == 0 {
		return mutedStyle.Render("  No pomodoros in this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %10s %10s", "Date", "Pomodoros", "Focused")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 34))))

	var total int
	var totalSecs int64
	for _, c := range h.counts {
		rows = append(rows, fmt.Sprintf("  %-12s %10d %10s", c.Date, c.Count, formatSeconds(c.TotalSeconds)))
		total += c.Count
		totalSecs += c.TotalSeconds
	}
	rows = append(rows, highlightStyle.Render(fmt.Sprintf("  %-12s %10d %10s", "Total", total, formatSeconds(totalSecs))))

	return strings.Join(rows, "\n")
}
