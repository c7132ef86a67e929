package cli

import (
	"fmt"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/sadopc/goalify/internal/history"
	"github.com/sadopc/goalify/internal/store"
)

func newHistoryCmd(e *env) *cobra.Command {
	var (
		from, to string
		task     string
		days     int
		notes    bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show completed tasks per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := e.mgr.Initialize(ctx); err != nil {
				return err
			}
			if !cmd.Flags().Changed("days") {
				days = e.store.GetIntSetting(ctx, store.SettingHistoryDays, days)
			}
			start, end, err := dateRange(e.mgr.Today(), from, to, days)
			if err != nil {
				return err
			}
			if err := e.mgr.LoadHistoricalTasks(ctx, start, end); err != nil {
				return err
			}

			completed := e.mgr.CompletedTasks(start, end)
			if task != "" {
				completed = e.mgr.CompletedTasksByName(task, start, end)
			}
			s, err := history.Build(completed, e.mgr.DefaultTasks(), start, end)
			if err != nil {
				return err
			}
			if task != "" {
				s = s.Filter(task)
			}

			out := cmd.OutOrStdout()
			label := "all tasks"
			if task != "" {
				label = task
			}
			printTitle(out, fmt.Sprintf("%s to %s, %s", s.Start, s.End, label))

			tbl := uitable.New()
			tbl.Separator = "  "
			peak := max(1, s.Max())
			for _, d := range s.Days {
				bar := strings.Repeat("█", d.Total*30/peak)
				tbl.AddRow(d.Date, d.Total, green(bar))
			}
			tbl.RightAlign(1)
			fmt.Fprintln(out, tbl)
			fmt.Fprintf(out, "%d completed, best day %d\n", s.Total(), s.Max())

			if notes {
				for _, t := range completed {
					if t.Note == nil {
						continue
					}
					fmt.Fprintf(out, "%s  %s: %s\n", t.Date, bold.Sprint(t.Name), *t.Note)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day (default today)")
	cmd.Flags().StringVar(&task, "task", "", "only this task name")
	cmd.Flags().IntVar(&days, "days", 30, "days to show when --from is not set")
	cmd.Flags().BoolVar(&notes, "notes", false, "list notes of completed tasks")
	return cmd
}
