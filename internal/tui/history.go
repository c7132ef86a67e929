package tui

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/goalify/internal/dates"
	"github.com/sadopc/goalify/internal/history"
	"github.com/sadopc/goalify/internal/tasks"
)

type historyMode int

const (
	historyWeek historyMode = iota
	historyRange
)

// historyModel charts completions per day, for all tasks or one task.
type historyModel struct {
	mgr    *tasks.Manager
	width  int
	height int

	mode      historyMode
	rangeDays int // length of the long range, from the history_days setting
	offset    int // ranges back from today (0 = current)
	filter    string

	series history.Series
	chart  barchart.Model
}

func newHistoryModel(m *tasks.Manager) historyModel {
	return historyModel{
		mgr:       m,
		rangeDays: tasks.DefaultWindowDays,
		chart:     barchart.New(60, 12),
	}
}

func (r *historyModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

func (r historyModel) refresh() tea.Cmd {
	start, end := r.dateRange()
	return run("", func(ctx context.Context) error {
		return r.mgr.LoadHistoricalTasks(ctx, start, end)
	})
}

func (r historyModel) span() int {
	if r.mode == historyWeek {
		return 7
	}
	return max(1, r.rangeDays)
}

// dateRange is the inclusive range currently shown.
func (r historyModel) dateRange() (string, string) {
	n := r.span()
	today, _ := dates.Parse(r.mgr.Today())
	end := today.AddDate(0, 0, -n*r.offset)
	start := end.AddDate(0, 0, 1-n)
	return dates.Format(start), dates.Format(end)
}

func (r historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		r.rebuild()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			r.rebuild()
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			r.rebuild()
			return r, r.refresh()
		case key.Matches(msg, keys.Mode):
			if r.mode == historyWeek {
				r.mode = historyRange
			} else {
				r.mode = historyWeek
			}
			r.offset = 0
			r.rebuild()
			return r, r.refresh()
		case key.Matches(msg, keys.Filter):
			r.filter = r.nextFilter()
			r.rebuild()
			return r, nil
		}
	}
	return r, nil
}

// nextFilter cycles through all tasks, then each template name in order.
func (r historyModel) nextFilter() string {
	var names []string
	for _, dt := range r.mgr.DefaultTasks() {
		names = append(names, dt.Name)
	}
	for _, n := range r.series.Names {
		if !slices.Contains(names, n) {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return ""
	}
	if r.filter == "" {
		return names[0]
	}
	for i, n := range names {
		if n == r.filter && i+1 < len(names) {
			return names[i+1]
		}
	}
	return ""
}

func (r *historyModel) rebuild() {
	start, end := r.dateRange()
	completed := r.mgr.CompletedTasks(start, end)
	if r.filter != "" {
		completed = r.mgr.CompletedTasksByName(r.filter, start, end)
	}
	s, err := history.Build(completed, r.mgr.DefaultTasks(), start, end)
	if err != nil {
		return
	}
	if r.filter != "" {
		s = s.Filter(r.filter)
	}
	r.series = s
	r.buildChart()
}

func (r *historyModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	labelFormat := "Mon 02"
	if len(r.series.Days) > 7 {
		labelFormat = "02"
	}

	var bars []barchart.BarData
	for _, d := range r.series.Days {
		label := d.Date
		if t, err := time.Parse(dates.Layout, d.Date); err == nil {
			label = t.Format(labelFormat)
		}

		names := make([]string, 0, len(d.ByName))
		for n := range d.ByName {
			names = append(names, n)
		}
		sort.Strings(names)

		var values []barchart.BarValue
		for _, n := range names {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(r.series.Colors[n]))
			values = append(values, barchart.BarValue{
				Name:  n,
				Value: float64(d.ByName[n]),
				Style: style,
			})
		}

		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: values,
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r historyModel) view() string {
	w := r.width - 4

	rangeLabel := fmt.Sprintf("%d days", max(1, r.rangeDays))
	weekTab := inactiveTabStyle.Render("Week")
	rangeTab := inactiveTabStyle.Render(rangeLabel)
	if r.mode == historyWeek {
		weekTab = activeTabStyle.Render("Week")
	} else {
		rangeTab = activeTabStyle.Render(rangeLabel)
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, weekTab, rangeTab)

	start, end := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s to %s", start, end))

	filterLabel := mutedStyle.Render("all tasks")
	if r.filter != "" {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(r.series.Colors[r.filter])).Render("●")
		filterLabel = dot + " " + highlightStyle.Render(r.filter)
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ", modeTabs, "  ", dateLabel, "  ", filterLabel,
	)

	summary := highlightStyle.Render(fmt.Sprintf("  %d completed, best day %d", r.series.Total(), r.series.Max()))

	nav := mutedStyle.Render("  ←/→: navigate  m: switch range  f: filter task")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderLegend(), summary, "", r.renderRecent(w), "", nav,
		),
	)
}

func (r historyModel) renderLegend() string {
	var items []string
	for _, n := range r.series.Names {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(r.series.Colors[n])).Render("●")
		items = append(items, fmt.Sprintf("%s %s", dot, n))
	}
	if len(items) == 0 {
		return mutedStyle.Render("  No completions in this period")
	}
	return "  " + strings.Join(items, "  ")
}

// renderRecent lists the latest completions with their notes.
func (r historyModel) renderRecent(w int) string {
	start, end := r.dateRange()
	completed := r.mgr.CompletedTasks(start, end)
	if r.filter != "" {
		completed = r.mgr.CompletedTasksByName(r.filter, start, end)
	}
	if len(completed) == 0 {
		return ""
	}

	limit := 5
	if r.height > 40 {
		limit = 10
	}

	rows := []string{mutedStyle.Render(fmt.Sprintf("  %-12s %-24s %s", "Date", "Task", "Note"))}
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 54))))
	for i, t := range completed {
		if i == limit {
			break
		}
		note := ""
		if t.Note != nil {
			note = *t.Note
		}
		rows = append(rows, fmt.Sprintf("  %-12s %-24s %s", t.Date, truncate(t.Name, 24), mutedStyle.Render(truncate(note, w-44))))
	}
	return strings.Join(rows, "\n")
}
