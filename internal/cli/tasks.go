package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/goalify/internal/dates"
	"github.com/sadopc/goalify/internal/store"
	"github.com/sadopc/goalify/internal/validate"
)

func newTodayCmd(e *env) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's tasks and what to do next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := e.mgr.Initialize(ctx); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			day := e.mgr.Today()
			if date != "" {
				if err := validate.Date(date); err != nil {
					return err
				}
				day = date
				if err := e.mgr.LoadHistoricalTasks(ctx, day, day); err != nil {
					return err
				}
			}

			printTitle(out, day)
			printTasks(out, e.mgr.TasksByDate(day))

			if day != e.mgr.Today() {
				return nil
			}
			done, total := e.mgr.Progress()
			switch {
			case e.mgr.IsAllCompleted():
				fmt.Fprintf(out, "%s all %d done for today\n", green("✓"), total)
			default:
				if cur, ok := e.mgr.CurrentTask(); ok {
					fmt.Fprintf(out, "%d/%d done, next: %s\n", done, total, bold.Sprint(cur.Name))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "show another day (YYYY-MM-DD)")
	return cmd
}

func newCompleteCmd(e *env) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "complete [task]",
		Short: "Mark a task of today as done",
		Long: `Mark a task of today as done. The task is given by name or id; without
one, the next open task is completed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := e.mgr.Initialize(ctx); err != nil {
				return err
			}

			var target store.Task
			if len(args) == 0 {
				cur, ok := e.mgr.CurrentTask()
				if !ok {
					return errors.New("nothing left to do today")
				}
				target = cur
			} else {
				t, err := findTask(e.mgr.TodayTasks(), args[0])
				if err != nil {
					return err
				}
				target = t
			}

			var n *string
			if cmd.Flags().Changed("note") {
				n = &note
			}
			if _, err := e.mgr.CompleteTask(ctx, target.ID, n); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("✓"), target.Name)
			if e.mgr.IsAllCompleted() {
				fmt.Fprintln(cmd.OutOrStdout(), "All done for today!")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&note, "note", "n", "", "attach a note")
	return cmd
}

func newAdhocCmd(e *env) *cobra.Command {
	var (
		date  string
		color string
		order int
	)

	cmd := &cobra.Command{
		Use:   "adhoc <name>",
		Short: "Add a one-off task to a day",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := e.mgr.Initialize(ctx); err != nil {
				return err
			}
			if date == "" {
				date = e.mgr.Today()
			}
			name := strings.Join(args, " ")
			t, err := e.mgr.AddAdhocTask(ctx, date, name, color, order)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s on %s\n", bold.Sprint(t.Name), t.Date)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day of the task (default today)")
	cmd.Flags().StringVar(&color, "color", validate.Palette[0], "task color from the palette")
	cmd.Flags().IntVar(&order, "order", 0, "position among the day's tasks (default last)")
	return cmd
}

func findTask(list []store.Task, ref string) (store.Task, error) {
	var found []store.Task
	for _, t := range list {
		if matchRef(ref, t.ID, t.Name) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return store.Task{}, fmt.Errorf("no task %q today", ref)
	case 1:
		return found[0], nil
	}
	return store.Task{}, fmt.Errorf("%q matches %d tasks, use the id", ref, len(found))
}

// dateRange resolves --from/--to, defaulting to the last days days.
func dateRange(today, from, to string, days int) (string, string, error) {
	if to == "" {
		to = today
	}
	if from == "" {
		f, err := dates.AddDays(to, 1-days)
		if err != nil {
			return "", "", err
		}
		from = f
	}
	if err := validate.Date(from); err != nil {
		return "", "", err
	}
	if err := validate.Date(to); err != nil {
		return "", "", err
	}
	from, to = dates.Normalize(from, to)
	return from, to, nil
}
