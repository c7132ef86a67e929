package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/goalify/internal/store"
	"github.com/sadopc/goalify/internal/validate"
)

func newDefaultsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "defaults",
		Aliases: []string{"daily"},
		Short:   "Manage the tasks created every day",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listDefaults(cmd, e)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List daily tasks",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return listDefaults(cmd, e)
			},
		},
		newDefaultsAddCmd(e),
		&cobra.Command{
			Use:     "remove <task>",
			Aliases: []string{"rm"},
			Short:   "Delete a daily task; past days keep theirs",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				dt, err := e.findDefault(cmd, args[0])
				if err != nil {
					return err
				}
				if err := e.mgr.RemoveDefaultTask(cmd.Context(), dt.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", dt.Name)
				return nil
			},
		},
		newDefaultsToggleCmd(e, "enable", true),
		newDefaultsToggleCmd(e, "disable", false),
		&cobra.Command{
			Use:   "rename <task> <new name>",
			Short: "Rename a daily task",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				dt, err := e.findDefault(cmd, args[0])
				if err != nil {
					return err
				}
				name := strings.Join(args[1:], " ")
				if err := e.mgr.UpdateDefaultTask(cmd.Context(), dt.ID, store.DefaultTaskPatch{Name: &name}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", dt.Name, strings.TrimSpace(name))
				return nil
			},
		},
		newDefaultsColorCmd(e),
		newDefaultsReorderCmd(e),
	)
	return cmd
}

func listDefaults(cmd *cobra.Command, e *env) error {
	if err := e.mgr.Initialize(cmd.Context()); err != nil {
		return err
	}
	printTitle(cmd.OutOrStdout(), "Daily tasks")
	printDefaults(cmd.OutOrStdout(), e.mgr.DefaultTasks())
	return nil
}

func newDefaultsAddCmd(e *env) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a daily task after the last one",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.mgr.Initialize(cmd.Context()); err != nil {
				return err
			}
			dt, err := e.mgr.AddDefaultTask(cmd.Context(), strings.Join(args, " "), color)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s at position %d\n", bold.Sprint(dt.Name), dt.Order)
			return nil
		},
	}
	cmd.Flags().StringVar(&color, "color", validate.Palette[0], "task color from the palette")
	return cmd
}

func newDefaultsToggleCmd(e *env, verb string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <task>",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a daily task from the next day on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, err := e.findDefault(cmd, args[0])
			if err != nil {
				return err
			}
			if err := e.mgr.UpdateDefaultTask(cmd.Context(), dt.ID, store.DefaultTaskPatch{Enabled: &enabled}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%sd %s\n", strings.ToUpper(verb[:1])+verb[1:], dt.Name)
			return nil
		},
	}
}

func newDefaultsColorCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:       "color <task> <color>",
		Short:     "Change the color of a daily task",
		Args:      cobra.ExactArgs(2),
		ValidArgs: validate.Palette,
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, err := e.findDefault(cmd, args[0])
			if err != nil {
				return err
			}
			c := args[1]
			if err := e.mgr.UpdateDefaultTask(cmd.Context(), dt.ID, store.DefaultTaskPatch{Color: &c}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", dt.Name, strings.ToLower(c))
			return nil
		},
	}
}

func newDefaultsReorderCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <task>...",
		Short: "Set the order of daily tasks",
		Long: `Set the order of daily tasks. The tasks given come first, in that order;
the rest keep their relative order after them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.mgr.Initialize(cmd.Context()); err != nil {
				return err
			}
			current := e.mgr.DefaultTasks()

			seq := make([]store.DefaultTask, 0, len(current))
			picked := make(map[string]bool)
			for _, ref := range args {
				dt, err := findDefault(current, ref)
				if err != nil {
					return err
				}
				if picked[dt.ID] {
					return fmt.Errorf("%s is listed twice", dt.Name)
				}
				picked[dt.ID] = true
				seq = append(seq, dt)
			}
			for _, dt := range current {
				if !picked[dt.ID] {
					seq = append(seq, dt)
				}
			}

			if err := e.mgr.ReorderDefaultTasks(cmd.Context(), seq); err != nil {
				return err
			}
			printDefaults(cmd.OutOrStdout(), e.mgr.DefaultTasks())
			return nil
		},
	}
}

func (e *env) findDefault(cmd *cobra.Command, ref string) (store.DefaultTask, error) {
	if err := e.mgr.Initialize(cmd.Context()); err != nil {
		return store.DefaultTask{}, err
	}
	return findDefault(e.mgr.DefaultTasks(), ref)
}

func findDefault(list []store.DefaultTask, ref string) (store.DefaultTask, error) {
	var found []store.DefaultTask
	for _, dt := range list {
		if matchRef(ref, dt.ID, dt.Name) {
			found = append(found, dt)
		}
	}
	switch len(found) {
	case 0:
		return store.DefaultTask{}, fmt.Errorf("no daily task %q", ref)
	case 1:
		return found[0], nil
	}
	return store.DefaultTask{}, fmt.Errorf("%q matches %d daily tasks, use the id", ref, len(found))
}
