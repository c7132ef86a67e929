package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/goalify/internal/store"
	"github.com/sadopc/goalify/internal/tasks"
	"github.com/sadopc/goalify/internal/validate"
)

// todayModel shows the task to do next, today's progress and the full list
// for the day.
type todayModel struct {
	mgr    *tasks.Manager
	width  int
	height int

	cursor int

	formActive bool
	form       *huh.Form
	formType   string // "note", "adhoc"
	completeID string

	// Form field pointers (survive value copies)
	formNote  *string
	formName  *string
	formColor *string
}

func newTodayModel(m *tasks.Manager) todayModel {
	note, name, color := "", "", validate.Palette[0]
	return todayModel{
		mgr:       m,
		formNote:  &note,
		formName:  &name,
		formColor: &color,
	}
}

func (d *todayModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case stateMsg:
		if n := len(d.mgr.TodayTasks()); d.cursor >= n {
			d.cursor = max(0, n-1)
		}
		return d, nil

	case tea.KeyMsg:
		list := d.mgr.TodayTasks()
		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(list)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.Complete):
			cur, ok := d.mgr.CurrentTask()
			if !ok {
				return d, nil
			}
			return d.showNoteForm(cur)
		case key.Matches(msg, keys.Enter):
			if d.cursor < len(list) && !list[d.cursor].Completed {
				return d.showNoteForm(list[d.cursor])
			}
		case key.Matches(msg, keys.AddAdhoc):
			return d.showAdhocForm()
		}
	}
	return d, nil
}

func (d todayModel) showNoteForm(t store.Task) (todayModel, tea.Cmd) {
	*d.formNote = ""
	d.formType = "note"
	d.completeID = t.ID

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Note for "+t.Name).
				Description("Optional. Leave empty to complete without a note.").
				CharLimit(validate.MaxNoteLength).
				Value(d.formNote),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d todayModel) showAdhocForm() (todayModel, tea.Cmd) {
	*d.formName = ""
	*d.formColor = validate.Palette[0]
	d.formType = "adhoc"

	d.form = newTaskForm("Task Name", d.formName, d.formColor)
	d.formActive = true
	return d, d.form.Init()
}

func (d todayModel) updateForm(msg tea.Msg) (todayModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		switch d.formType {
		case "note":
			id, note := d.completeID, *d.formNote
			return d, run("Task completed", func(ctx context.Context) error {
				_, err := d.mgr.CompleteTask(ctx, id, &note)
				return err
			})
		case "adhoc":
			name, color := *d.formName, *d.formColor
			today := d.mgr.Today()
			return d, run("Added "+name, func(ctx context.Context) error {
				_, err := d.mgr.AddAdhocTask(ctx, today, name, color, 0)
				return err
			})
		}
	}

	return d, cmd
}

func (d todayModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	if d.formActive && d.form != nil {
		title := titleStyle.Render("Complete Task")
		if d.formType == "adhoc" {
			title = titleStyle.Render("New Task for Today")
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View()))
	}

	if !d.mgr.Initialized() {
		msg := "Loading your tasks..."
		if err := d.mgr.Err(); err != nil {
			msg = errorStyle.Render(errorText(err))
		}
		return panelStyle.Width(w).Render(mutedStyle.Render(msg))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderFocusPanel(w),
		d.renderListPanel(w),
	)
}

func (d todayModel) renderFocusPanel(w int) string {
	done, total := d.mgr.Progress()
	progress := fmt.Sprintf("%s  %d/%d", progressBar(done, total, min(30, w-16)), done, total)

	if d.mgr.IsAllCompleted() {
		content := lipgloss.JoinVertical(lipgloss.Center,
			allDoneStyle.Width(w-6).Render("All done for today!"),
			successStyle.Render(progress),
		)
		return activePanelStyle.Width(w).Render(content)
	}

	cur, ok := d.mgr.CurrentTask()
	if !ok {
		content := lipgloss.JoinVertical(lipgloss.Center,
			focusStyle.Width(w-6).Render("Nothing planned"),
			mutedStyle.Render("Press a to add a task for today"),
		)
		return panelStyle.Width(w).Render(content)
	}

	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(cur.Color)).Render("●")
	content := lipgloss.JoinVertical(lipgloss.Center,
		focusStyle.Width(w-6).Render(dot+" "+cur.Name),
		highlightStyle.Render(progress),
		mutedStyle.Render("Press c to complete"),
	)
	return activePanelStyle.Width(w).Render(content)
}

func (d todayModel) renderListPanel(w int) string {
	title := titleStyle.Render("Today") + "  " + mutedStyle.Render(d.mgr.Today())
	list := d.mgr.TodayTasks()
	if len(list) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No tasks today"),
		))
	}

	rows := []string{title}
	for i, t := range list {
		rows = append(rows, renderTaskRow(t, i == d.cursor, w-8))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  c: complete next  enter: complete selected  a: add task"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// renderTaskRow draws one task instance line, shared by the today and
// calendar views.
func renderTaskRow(t store.Task, selected bool, width int) string {
	cursor := "  "
	style := normalItemStyle
	if selected {
		cursor = "> "
		style = selectedItemStyle
	}
	check := "○"
	if t.Completed {
		check = "✓"
		style = doneItemStyle
	}
	if !t.Enabled {
		style = disabledItemStyle
	}
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)).Render("●")
	kind := ""
	if t.Kind == store.KindAdhoc {
		kind = mutedStyle.Render(" (extra)")
	}
	row := cursor + check + " " + dot + " " + style.Render(truncate(t.Name, width-16)) + kind
	if t.Note != nil {
		row += "\n      " + mutedStyle.Render(truncate(*t.Note, width-8))
	}
	return row
}

// newTaskForm builds the name + palette color form used for templates and
// ad-hoc tasks.
func newTaskForm(nameTitle string, name, color *string) *huh.Form {
	colorOptions := make([]huh.Option[string], len(validate.Palette))
	for i, c := range validate.Palette {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("●")
		colorOptions[i] = huh.NewOption(fmt.Sprintf("%s %s", dot, c), c)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(nameTitle).
				CharLimit(validate.MaxNameLength).
				Validate(func(s string) error {
					_, err := validate.TaskName(s)
					return err
				}).
				Value(name),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Height(8).Value(color),
		),
	).WithShowHelp(true).WithShowErrors(true)
}
