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

// defaultsModel edits the recurring task templates. Changes apply from the
// next day materialized; today's instances are left alone.
type defaultsModel struct {
	mgr    *tasks.Manager
	width  int
	height int

	cursor int

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit", "delete"

	// Form field pointers (survive value copies)
	formName    *string
	formColor   *string
	formConfirm *bool

	editingID string
}

func newDefaultsModel(m *tasks.Manager) defaultsModel {
	name, color, confirm := "", validate.Palette[0], false
	return defaultsModel{
		mgr:         m,
		formName:    &name,
		formColor:   &color,
		formConfirm: &confirm,
	}
}

func (p *defaultsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p defaultsModel) update(msg tea.Msg) (defaultsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case stateMsg:
		if n := len(msg.state.DefaultTasks); p.cursor >= n {
			p.cursor = max(0, n-1)
		}
		return p, nil

	case tea.KeyMsg:
		return p.updateList(msg)
	}
	return p, nil
}

func (p defaultsModel) updateList(msg tea.KeyMsg) (defaultsModel, tea.Cmd) {
	list := p.mgr.DefaultTasks()

	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(list)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.New):
		return p.showNewForm()
	case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
		if p.cursor < len(list) {
			return p.showEditForm(list[p.cursor])
		}
	case key.Matches(msg, keys.Delete):
		if p.cursor < len(list) {
			return p.showDeleteForm(list[p.cursor])
		}
	case key.Matches(msg, keys.Toggle):
		if p.cursor < len(list) {
			dt := list[p.cursor]
			enabled := !dt.Enabled
			verb := "Disabled"
			if enabled {
				verb = "Enabled"
			}
			return p, run(verb+" "+dt.Name, func(ctx context.Context) error {
				return p.mgr.UpdateDefaultTask(ctx, dt.ID, store.DefaultTaskPatch{Enabled: &enabled})
			})
		}
	case key.Matches(msg, keys.MoveUp):
		if p.cursor > 0 && p.cursor < len(list) {
			seq := moveTask(list, p.cursor, p.cursor-1)
			p.cursor--
			return p, p.reorder(seq)
		}
	case key.Matches(msg, keys.MoveDown):
		if p.cursor < len(list)-1 {
			seq := moveTask(list, p.cursor, p.cursor+1)
			p.cursor++
			return p, p.reorder(seq)
		}
	}
	return p, nil
}

// moveTask returns a copy of list with the item at from moved to to.
func moveTask(list []store.DefaultTask, from, to int) []store.DefaultTask {
	out := make([]store.DefaultTask, 0, len(list))
	item := list[from]
	for i, dt := range list {
		if i == from {
			continue
		}
		out = append(out, dt)
	}
	out = append(out[:to], append([]store.DefaultTask{item}, out[to:]...)...)
	return out
}

func (p defaultsModel) reorder(seq []store.DefaultTask) tea.Cmd {
	return run("", func(ctx context.Context) error {
		return p.mgr.ReorderDefaultTasks(ctx, seq)
	})
}

func (p defaultsModel) showNewForm() (defaultsModel, tea.Cmd) {
	*p.formName = ""
	*p.formColor = validate.Palette[0]
	p.formType = "new"

	p.form = newTaskForm("Task Name", p.formName, p.formColor)
	p.formActive = true
	return p, p.form.Init()
}

func (p defaultsModel) showEditForm(dt store.DefaultTask) (defaultsModel, tea.Cmd) {
	*p.formName = dt.Name
	*p.formColor = dt.Color
	p.formType = "edit"
	p.editingID = dt.ID

	p.form = newTaskForm("Task Name", p.formName, p.formColor)
	p.formActive = true
	return p, p.form.Init()
}

func (p defaultsModel) showDeleteForm(dt store.DefaultTask) (defaultsModel, tea.Cmd) {
	*p.formConfirm = false
	p.formType = "delete"
	p.editingID = dt.ID

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", dt.Name)).
				Description("Past days keep their tasks.").
				Affirmative("Delete").
				Negative("Keep").
				Value(p.formConfirm),
		),
	).WithShowHelp(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p defaultsModel) updateForm(msg tea.Msg) (defaultsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		id, name, color := p.editingID, *p.formName, *p.formColor
		switch p.formType {
		case "new":
			return p, run("Added "+name, func(ctx context.Context) error {
				_, err := p.mgr.AddDefaultTask(ctx, name, color)
				return err
			})
		case "edit":
			return p, run("Saved "+name, func(ctx context.Context) error {
				return p.mgr.UpdateDefaultTask(ctx, id, store.DefaultTaskPatch{Name: &name, Color: &color})
			})
		case "delete":
			if !*p.formConfirm {
				return p, nil
			}
			return p, run("Deleted", func(ctx context.Context) error {
				return p.mgr.RemoveDefaultTask(ctx, id)
			})
		}
	}

	return p, cmd
}

func (p defaultsModel) view() string {
	w := p.width - 4

	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Daily Task")
		switch p.formType {
		case "edit":
			title = titleStyle.Render("Edit Daily Task")
		case "delete":
			title = titleStyle.Render("Delete Daily Task")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Daily Tasks")
	list := p.mgr.DefaultTasks()

	if len(list) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No daily tasks. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render("Each new day starts with these tasks, in this order."))
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-4s %-30s %-10s %s", "#", "Name", "Color", "Status"))
	rows = append(rows, header)

	for i, dt := range list {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(dt.Color)).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		status := successStyle.Render("on")
		if !dt.Enabled {
			status = mutedStyle.Render("off")
			if i != p.cursor {
				style = disabledItemStyle
			}
		}
		row := style.Render(fmt.Sprintf("%s%-4d %s %-28s %-10s", cursor, dt.Order, colorDot, truncate(dt.Name, 28), dt.Color))
		rows = append(rows, row+" "+status)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  space: on/off  K/J: move  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
