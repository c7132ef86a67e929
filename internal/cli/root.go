// Package cli wires configuration, storage and the task manager into the
// goalify command tree.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sadopc/goalify/internal/auth"
	"github.com/sadopc/goalify/internal/config"
	"github.com/sadopc/goalify/internal/snapshot"
	"github.com/sadopc/goalify/internal/store"
	"github.com/sadopc/goalify/internal/tasks"
	"github.com/sadopc/goalify/internal/tui"
)

// env is everything a command needs once configuration is loaded.
type env struct {
	cfg     *config.Config
	store   *store.Store
	session *auth.Session
	mgr     *tasks.Manager
	snap    *snapshot.Snapshot
	logger  *log.Logger

	closers []func() error
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i]()
	}
}

// NewRootCmd builds the command tree. Without a subcommand it starts the TUI.
func NewRootCmd() *cobra.Command {
	v := config.New()
	e := &env{}
	var cfgFile string

	root := &cobra.Command{
		Use:   "goalify",
		Short: "Daily habit tracker",
		Long: `goalify keeps a list of daily tasks, creates them fresh every morning
and shows what to do next.

Run without arguments to open the interactive view.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.open(cmd, v, cfgFile)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			e.close()
		},
		RunE: e.runTUI,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default goalify.yaml in the user config dir)")
	flags.String("db", "", "database path")
	flags.String("user", "", "user to sign in as")
	flags.Bool("debug", false, "write debug logs")
	_ = v.BindPFlag(config.KeyDB, flags.Lookup("db"))
	_ = v.BindPFlag(config.KeyUser, flags.Lookup("user"))
	_ = v.BindPFlag(config.KeyDebug, flags.Lookup("debug"))

	root.AddCommand(
		newTodayCmd(e),
		newCompleteCmd(e),
		newAdhocCmd(e),
		newDefaultsCmd(e),
		newHistoryCmd(e),
		newExportCmd(e),
		newSnapshotCmd(e),
	)
	return root
}

// Execute runs the root command.
func Execute(version string) error {
	root := NewRootCmd()
	root.Version = version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (e *env) open(cmd *cobra.Command, v *viper.Viper, cfgFile string) error {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	e.cfg = cfg

	if err := e.setupLogging(cmd); err != nil {
		return err
	}

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	e.store = s
	e.closers = append(e.closers, s.Close)

	e.session = auth.NewSession(s)
	if _, err := e.session.SignIn(cmd.Context(), cfg.User); err != nil {
		return err
	}

	e.mgr = tasks.New(s, e.session,
		tasks.WithTimeout(cfg.Timeout),
		tasks.WithWindowDays(cfg.WindowDays),
		tasks.WithLogger(e.logger),
	)

	e.snap = snapshot.Open(cfg.SnapshotDir)
	e.mgr.Subscribe(func(st tasks.State) {
		if !st.Initialized || st.Loading {
			return
		}
		if err := e.snap.Save(st.Tasks, st.DefaultTasks); err != nil {
			e.logger.Printf("snapshot: %v", err)
		}
	})
	return nil
}

// setupLogging sends logs to a file for the TUI, which owns the terminal,
// and to stderr for plain commands. Without debug they are dropped.
func (e *env) setupLogging(cmd *cobra.Command) error {
	if !e.cfg.Debug {
		e.logger = log.New(io.Discard, "", 0)
		return nil
	}
	if cmd != cmd.Root() {
		e.logger = log.New(cmd.ErrOrStderr(), "goalify: ", log.LstdFlags)
		return nil
	}

	f, err := tea.LogToFile(e.cfg.LogFile, "goalify")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	e.closers = append(e.closers, f.Close)
	e.logger = log.Default()
	return nil
}

func (e *env) runTUI(cmd *cobra.Command, args []string) error {
	app := tui.NewApp(e.mgr, e.store, e.cfg.User)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err := p.Run()
	return err
}
