package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stefanpenner/planlog/pkg/settings"
	"github.com/stefanpenner/planlog/pkg/store"
	"github.com/stefanpenner/planlog/pkg/tui"
)

// app carries state shared by every command once flags are parsed.
type app struct {
	configPath string
	jsonOut    bool

	// now and newID are overridden in tests.
	now   func() time.Time
	newID func() string

	settings *settings.Settings
	log      *slog.Logger
	store    *store.Store
}

func newRootCmd() *cobra.Command {
	return (&app{now: time.Now}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "planlog",
		Short: "Track goals, their plans and a dated progress log",
		Long: `planlog keeps a collection of goals, each with a date range, a checklist of
plans and a log of dated notes. Progress and status are derived from plan
completion and the current date.

Goals can be imported from and exported to a TOML document:

  [goal]
  title = "Run a marathon"
  description = "Spring race"
  start_date = "2026-01-01"
  end_date = "2026-04-30"

  [[plans]]
  title = "Base miles"

  [[logs]]
  date = "2026-01-03"
  content = "First 5k"
  related_plans = ["Base miles"]

Run without a command to open the terminal UI.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runTUI,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default is <user config dir>/planlog/config.yaml)")
	pf.String("dir", "", "data directory (env PLANLOG_DIR)")
	pf.BoolVar(&a.jsonOut, "json", false, "print machine-readable JSON")

	root.AddCommand(
		a.listCmd(),
		a.showCmd(),
		a.createCmd(),
		a.editCmd(),
		a.deleteCmd(),
		a.importCmd(),
		a.exportCmd(),
		a.planCmd("complete", true),
		a.planCmd("incomplete", false),
		a.logCmd(),
		&cobra.Command{
			Use:   "tui",
			Short: "Open the terminal UI",
			Args:  cobra.NoArgs,
			RunE:  a.runTUI,
		},
	)

	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	loader := settings.NewLoader(a.configPath)
	if err := loader.BindFlag("dir", cmd.Root().PersistentFlags().Lookup("dir")); err != nil {
		return err
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	a.settings = cfg
	a.log = cfg.Log.NewLogger(cmd.ErrOrStderr())
	if cfg.ConfigFile != "" {
		a.log.Debug("config loaded", "file", cfg.ConfigFile)
	}

	opts := []store.Option{store.WithLogger(a.log), store.WithClock(a.now)}
	if a.newID != nil {
		opts = append(opts, store.WithIDGenerator(a.newID))
	}
	s, err := store.NewStore(cfg.Dir, opts...)
	if err != nil {
		return err
	}
	a.store = s
	return nil
}

func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	// Diagnostics would tear the alternate screen.
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := store.NewStore(a.store.Root, store.WithLogger(quiet), store.WithClock(a.now))
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(s), tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	cleanup, err := tui.StartWatcher(s.CollectionPath(), p)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: file watcher failed: %v\n", err)
	} else {
		defer cleanup()
	}

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// resolveGoal looks a goal up by full ID or unique ID prefix.
func (a *app) resolveGoal(ref string) (*store.Goal, error) {
	id, err := a.store.ResolveGoalID(ref)
	if err != nil {
		return nil, err
	}
	g, ok, err := a.store.Goal(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrGoalNotFound, ref)
	}
	return g, nil
}

func (a *app) printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
