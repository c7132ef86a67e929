package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/goalify/internal/dates"
	"github.com/sadopc/goalify/internal/tasks"
	"github.com/sadopc/goalify/internal/validate"
)

// calendarModel is a month grid for browsing past days and planning
// one-off tasks on any date.
type calendarModel struct {
	mgr    *tasks.Manager
	width  int
	height int

	selected  time.Time
	weekStart time.Weekday

	formActive bool
	form       *huh.Form
	formName   *string
	formColor  *string
}

func newCalendarModel(m *tasks.Manager) calendarModel {
	name, color := "", validate.Palette[0]
	sel, _ := dates.Parse(m.Today())
	return calendarModel{
		mgr:       m,
		selected:  sel,
		weekStart: time.Monday,
		formName:  &name,
		formColor: &color,
	}
}

func (c *calendarModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c *calendarModel) setWeekStart(s string) {
	if s == "sunday" {
		c.weekStart = time.Sunday
	} else {
		c.weekStart = time.Monday
	}
}

// refresh pulls the completed tasks of the visible month from the store.
func (c calendarModel) refresh() tea.Cmd {
	start, end := monthRange(c.selected)
	return run("", func(ctx context.Context) error {
		return c.mgr.LoadHistoricalTasks(ctx, start, end)
	})
}

func monthRange(t time.Time) (string, string) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return dates.Format(first), dates.Format(first.AddDate(0, 1, -1))
}

func (c calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	month := c.selected.Month()
	switch {
	case key.Matches(km, keys.Left):
		c.selected = c.selected.AddDate(0, 0, -1)
	case key.Matches(km, keys.Right):
		c.selected = c.selected.AddDate(0, 0, 1)
	case key.Matches(km, keys.Up):
		c.selected = c.selected.AddDate(0, 0, -7)
	case key.Matches(km, keys.Down):
		c.selected = c.selected.AddDate(0, 0, 7)
	case key.Matches(km, keys.PrevMonth):
		c.selected = c.selected.AddDate(0, -1, 0)
	case key.Matches(km, keys.NextMonth):
		c.selected = c.selected.AddDate(0, 1, 0)
	case key.Matches(km, keys.AddAdhoc), key.Matches(km, keys.New):
		return c.showAdhocForm()
	}

	if c.selected.Month() != month {
		return c, c.refresh()
	}
	return c, nil
}

func (c calendarModel) showAdhocForm() (calendarModel, tea.Cmd) {
	*c.formName = ""
	*c.formColor = validate.Palette[0]
	c.form = newTaskForm("Task Name", c.formName, c.formColor)
	c.formActive = true
	return c, c.form.Init()
}

func (c calendarModel) updateForm(msg tea.Msg) (calendarModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		date, name, color := dates.Format(c.selected), *c.formName, *c.formColor
		return c, run(fmt.Sprintf("Added %s on %s", name, date), func(ctx context.Context) error {
			_, err := c.mgr.AddAdhocTask(ctx, date, name, color, 0)
			return err
		})
	}
	return c, cmd
}

func (c calendarModel) view() string {
	w := c.width - 4
	date := dates.Format(c.selected)

	if c.formActive && c.form != nil {
		title := titleStyle.Render("New Task for " + date)
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", c.form.View()))
	}

	title := titleStyle.Render(c.selected.Format("January 2006"))
	grid := c.renderMonth()

	dayTitle := titleStyle.Render(c.selected.Format("Monday, Jan 02"))
	list := c.mgr.TasksByDate(date)
	rows := []string{dayTitle}
	if len(list) == 0 {
		rows = append(rows, mutedStyle.Render("  No tasks"))
	}
	for _, t := range list {
		rows = append(rows, renderTaskRow(t, false, w/2))
	}

	left := lipgloss.JoinVertical(lipgloss.Left, title, "", grid)
	right := strings.Join(rows, "\n")
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(34).Render(left),
		right,
	)

	nav := mutedStyle.Render("  ←/→/↑/↓: move  [/]: month  a: add task on this day")
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, body, "", nav))
}

// renderMonth draws the grid of the selected month. Days where everything
// was done are green, days with some progress are amber.
func (c calendarModel) renderMonth() string {
	first := time.Date(c.selected.Year(), c.selected.Month(), 1, 0, 0, 0, 0, c.selected.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()
	today := c.mgr.Today()

	var header []string
	for i := range 7 {
		wd := time.Weekday((int(c.weekStart) + i) % 7)
		header = append(header, calDayStyle.Render(wd.String()[:2]))
	}

	lines := []string{calHeaderStyle.Render(strings.Join(header, ""))}

	offset := (int(first.Weekday()) - int(c.weekStart) + 7) % 7
	rows := (offset + daysInMonth + 6) / 7
	for row := range rows {
		var cells []string
		for col := range 7 {
			day := row*7 + col - offset + 1
			if day < 1 || day > daysInMonth {
				cells = append(cells, calDayStyle.Render(""))
				continue
			}
			d := dates.Format(first.AddDate(0, 0, day-1))
			cells = append(cells, c.renderDay(d, day, today))
		}
		lines = append(lines, strings.Join(cells, ""))
	}
	return strings.Join(lines, "\n")
}

func (c calendarModel) renderDay(date string, day int, today string) string {
	style := calDayStyle
	done, total := 0, 0
	for _, t := range c.mgr.TasksByDate(date) {
		if !t.Enabled {
			continue
		}
		total++
		if t.Completed {
			done++
		}
	}
	switch {
	case total > 0 && done == total:
		style = calDoneStyle
	case done > 0:
		style = calPartialStyle
	}
	if date == today {
		style = style.Inherit(calTodayStyle)
	}
	if date == dates.Format(c.selected) {
		style = style.Inherit(calSelectedStyle)
	}
	return style.Render(fmt.Sprintf("%d", day))
}
