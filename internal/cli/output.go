package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/sadopc/goalify/internal/store"
)

var (
	bold   = color.New(color.Bold)
	title  = color.New(color.Bold, color.Underline)
	faint  = color.New(color.Faint)
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

func printTitle(w io.Writer, s string) {
	_, _ = title.Fprintln(w, s)
}

func checkMark(done bool) string {
	if done {
		return green("✓")
	}
	return "○"
}

func noteText(n *string) string {
	if n == nil {
		return ""
	}
	return *n
}

// printTasks renders task instances as a table, in the order given.
func printTasks(w io.Writer, list []store.Task) {
	if len(list) == 0 {
		_, _ = faint.Fprintln(w, "  none")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 50
	tbl.Wrap = true
	tbl.AddRow("", bold.Sprint("Task"), bold.Sprint("Type"), bold.Sprint("Note"), bold.Sprint("ID"))
	for _, t := range list {
		name := t.Name
		if !t.Enabled {
			name = faint.Sprint(name + " (off)")
		}
		kind := ""
		if t.Kind == store.KindAdhoc {
			kind = yellow("extra")
		}
		tbl.AddRow(checkMark(t.Completed), name, kind, noteText(t.Note), faint.Sprint(shortID(t.ID)))
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func printDefaults(w io.Writer, list []store.DefaultTask) {
	if len(list) == 0 {
		_, _ = faint.Fprintln(w, "  none")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("#"), bold.Sprint("Task"), bold.Sprint("Color"), bold.Sprint("Status"), bold.Sprint("ID"))
	for _, dt := range list {
		status := green("on")
		if !dt.Enabled {
			status = red("off")
		}
		tbl.AddRow(dt.Order, dt.Name, dt.Color, status, faint.Sprint(shortID(dt.ID)))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(w, tbl)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// matchRef reports whether ref names the item with id and name: a full id,
// an id prefix of at least 4 characters, or a case-insensitive name.
func matchRef(ref, id, name string) bool {
	if ref == id || strings.EqualFold(ref, name) {
		return true
	}
	return len(ref) >= 4 && strings.HasPrefix(id, ref)
}
