package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sadopc/goalify/internal/export"
)

func newExportCmd(e *env) *cobra.Command {
	var (
		format   string
		from, to string
		days     int
		out      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write completed tasks to CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if format != "csv" && format != "json" {
				return fmt.Errorf("unknown format %q, want csv or json", format)
			}
			if err := e.mgr.Initialize(ctx); err != nil {
				return err
			}
			start, end, err := dateRange(e.mgr.Today(), from, to, days)
			if err != nil {
				return err
			}
			if err := e.mgr.LoadHistoricalTasks(ctx, start, end); err != nil {
				return err
			}
			completed := e.mgr.CompletedTasks(start, end)

			if out == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				out = filepath.Join(home, fmt.Sprintf("goalify-export-%s.%s", end, format))
			}

			if format == "csv" {
				err = export.ToCSV(completed, out)
			} else {
				err = export.ToJSON(completed, out)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s\n", len(completed), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or json")
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day (default today)")
	cmd.Flags().IntVar(&days, "days", 30, "days to export when --from is not set")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default ~/goalify-export-<date>.<format>)")
	return cmd
}
