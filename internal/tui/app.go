package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/goalify/internal/dates"
	"github.com/sadopc/goalify/internal/export"
	"github.com/sadopc/goalify/internal/store"
	"github.com/sadopc/goalify/internal/tasks"
)

// tickInterval is how often the app checks for a new calendar day.
const tickInterval = 30 * time.Second

// App is the root Bubble Tea model.
type App struct {
	mgr      *tasks.Manager
	settings settingsModel
	user     string
	width    int
	height   int

	// changes carries manager state into the program.
	changes chan tasks.State
	day     string

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	today    todayModel
	calendar calendarModel
	history  historyModel
	defaults defaultsModel

	help   help.Model
	status string
	isErr  bool
}

func NewApp(m *tasks.Manager, s SettingsStore, user string) App {
	h := help.New()
	h.ShowAll = false

	changes := make(chan tasks.State, 1)
	m.Subscribe(func(st tasks.State) {
		// Keep only the latest state; views read from the manager anyway.
		select {
		case changes <- st:
		default:
			select {
			case <-changes:
			default:
			}
			select {
			case changes <- st:
			default:
			}
		}
	})

	return App{
		mgr:        m,
		user:       user,
		changes:    changes,
		day:        m.Today(),
		activeView: viewToday,
		today:      newTodayModel(m),
		calendar:   newCalendarModel(m),
		history:    newHistoryModel(m),
		defaults:   newDefaultsModel(m),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.initialize(),
		a.waitForState(),
		a.settings.refresh(),
		tickCmd(),
	)
}

func (a App) initialize() tea.Cmd {
	return run("", func(ctx context.Context) error {
		return a.mgr.Initialize(ctx)
	})
}

func (a App) waitForState() tea.Cmd {
	return func() tea.Msg {
		return stateMsg{state: <-a.changes}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.today.setSize(a.width, contentHeight)
		a.calendar.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.defaults.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		a.history.rebuild()
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
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
			a.activeView = viewToday
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewCalendar
			return a, a.calendar.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewHistory
			a.history.rebuild()
			return a, a.history.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewDefaults
			return a, nil
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case stateMsg:
		cmds = append(cmds, a.waitForState())
		var cmd tea.Cmd
		a.today, cmd = a.today.update(msg)
		cmds = append(cmds, cmd)
		a.defaults, cmd = a.defaults.update(msg)
		cmds = append(cmds, cmd)
		a.history, cmd = a.history.update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case tickMsg:
		return a, tea.Batch(tickCmd(), a.checkDay())

	case dayChangedMsg:
		a.day = msg.day
		a.status = "Good morning! New day: " + msg.day
		a.isErr = false
		return a, run("", func(ctx context.Context) error {
			return a.mgr.InitializeDailyTasks(ctx)
		})

	case settingsDataMsg:
		a.calendar.setWeekStart(a.settingValue(msg, store.SettingWeekStart, "monday"))
		if n, err := strconv.Atoi(a.settingValue(msg, store.SettingHistoryDays, "")); err == nil && n > 0 {
			a.history.rangeDays = n
			a.history.rebuild()
		}
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		a.isErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.isErr = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// checkDay reports a date rollover since the last check, or nil.
func (a App) checkDay() tea.Cmd {
	day := a.mgr.Today()
	if day == a.day {
		return nil
	}
	return func() tea.Msg { return dayChangedMsg{day: day} }
}

func (a App) settingValue(msg settingsDataMsg, k, fallback string) string {
	for _, s := range msg.settings {
		if s.Key == k {
			return s.Value
		}
	}
	return fallback
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewCalendar:
		a.calendar, cmd = a.calendar.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewDefaults:
		a.defaults, cmd = a.defaults.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewToday:
		return a.today.formActive
	case viewCalendar:
		return a.calendar.formActive
	case viewDefaults:
		return a.defaults.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewCalendar:
		return a.calendar.refresh()
	case viewHistory:
		return a.history.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.today.view()
	case viewCalendar:
		content = a.calendar.view()
	case viewHistory:
		content = a.history.view()
	case viewDefaults:
		content = a.defaults.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

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

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("goalify")
	if a.user != "" {
		title += mutedStyle.Render(" · " + a.user)
	}
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
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
		if a.isErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	progress := ""
	if a.mgr.Loading() {
		progress = warningStyle.Render(" ⟳ syncing")
	} else if done, total := a.mgr.Progress(); total > 0 {
		progress = successStyle.Render(fmt.Sprintf(" ✓ %d/%d", done, total))
	}

	left := footerStyle.Render(helpView)
	right := progress + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Completed Tasks")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("Last %d days", a.history.rangeDays)))
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
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
	end := a.mgr.Today()
	days := max(1, a.history.rangeDays)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		start, err := dates.AddDays(end, 1-days)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		if err := a.mgr.LoadHistoricalTasks(ctx, start, end); err != nil {
			return statusMsg{text: "Export error: " + errorText(err), isError: true}
		}
		completed := a.mgr.CompletedTasks(start, end)

		home, _ := os.UserHomeDir()

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("goalify-export-%s.csv", end))
			if err := export.ToCSV(completed, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("goalify-export-%s.json", end))
			if err := export.ToJSON(completed, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
