package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/goalify/internal/tasks"
	"github.com/sadopc/goalify/internal/validate"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewCalendar
	viewHistory
	viewDefaults
	viewSettings
)

var viewNames = []string{"Today", "Calendar", "History", "Defaults", "Settings"}

// --- Messages ---

// stateMsg is delivered whenever the task manager state changes.
type stateMsg struct {
	state tasks.State
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// dayChangedMsg is sent when the local date rolls over while the app runs.
type dayChangedMsg struct {
	day string
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// opTimeout bounds a whole user action; the manager applies its own
// per-call timeout inside it.
const opTimeout = 30 * time.Second

// run executes fn as a command and reports its outcome in the status bar.
func run(ok string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			return statusMsg{text: errorText(err), isError: true}
		}
		if ok == "" {
			return nil
		}
		return statusMsg{text: ok}
	}
}

// errorText turns manager errors into a short status line.
func errorText(err error) string {
	var opErr *tasks.OpError
	switch {
	case validate.IsValidation(err):
		return err.Error()
	case errors.Is(err, tasks.ErrTimeout):
		return "The database did not answer in time"
	case errors.As(err, &opErr):
		return "Could not " + opErr.Op + ": " + opErr.Kind.Error()
	}
	return "Error: " + err.Error()
}

func progressBar(done, total, width int) string {
	if width < 1 {
		width = 1
	}
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '█'
		} else {
			bar[i] = '░'
		}
	}
	return string(bar)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
