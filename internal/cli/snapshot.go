package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/goalify/internal/snapshot"
)

func newSnapshotCmd(e *env) *cobra.Command {
	var wipe bool

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Show the locally saved copy of your tasks",
		Long: `Show the copy of templates and tasks saved on disk after the last
successful change, as stored on disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if wipe {
				if err := e.snap.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(out, "Snapshot cleared")
				return nil
			}

			b, err := e.snap.Load()
			if errors.Is(err, snapshot.ErrNoSnapshot) {
				_, _ = faint.Fprintln(out, "No snapshot yet. Run any command to create one.")
				return nil
			}
			if err != nil {
				return err
			}

			printTitle(out, "Snapshot from "+b.SavedAt.Local().Format("2006-01-02 15:04"))
			fmt.Fprintf(out, "%d daily tasks, %d tasks\n\n", len(b.DefaultTasks), len(b.Tasks))
			printDefaults(out, b.DefaultTasks)
			return nil
		},
	}
	cmd.Flags().BoolVar(&wipe, "clear", false, "delete the snapshot")
	return cmd
}
