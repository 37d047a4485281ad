package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alexanderramin/roadmap/internal/config"
	"github.com/alexanderramin/roadmap/internal/logging"
	"github.com/alexanderramin/roadmap/internal/render"
	"github.com/alexanderramin/roadmap/internal/service"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// skipConnect marks commands that run on configuration alone.
const skipConnect = "skip-connect"

// App holds the configuration and services CLI commands act on.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Progress service.ProgressService
	Renderer *render.Renderer

	// Connect populates the services from the final configuration before a
	// command runs and returns a function releasing them. Nil leaves
	// pre-wired services in place.
	Connect func(ctx context.Context, app *App) (closer func() error, err error)

	// IsInteractive reports whether stdin is a terminal. Prompts are only
	// shown when it returns true.
	IsInteractive func() bool

	// Confirm asks a yes/no question. Nil uses a huh confirmation form.
	Confirm func(title string) (bool, error)

	closer func() error
}

// Close releases whatever Connect opened.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer()
	a.closer = nil
	return err
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) confirm(title string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	var ok bool
	if err := wizardConfirm(title, &ok).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

type rootFlags struct {
	configPath string
	content    string
	storage    string
	dbPath     string
	stateFile  string
	logLevel   string
}

// NewRootCmd creates the top-level "roadmap" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           "roadmap",
		Short:         "Track progress through a week-by-week learning roadmap",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd.Flags(), &cfg, flags)
			if err := cfg.Validate(); err != nil {
				return err
			}
			app.Config = cfg

			logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			app.Logger = logger

			if cmd.Annotations[skipConnect] != "" || app.Connect == nil {
				return nil
			}
			closer, err := app.Connect(cmd.Context(), app)
			if err != nil {
				return err
			}
			app.closer = closer
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Config file (default ~/.roadmap/config.toml)")
	pf.StringVar(&flags.content, "content", "", "Roadmap content file (.json or .yaml)")
	pf.StringVar(&flags.storage, "storage", "", "Progress storage: sqlite, file or memory")
	pf.StringVar(&flags.dbPath, "db", "", "SQLite database path")
	pf.StringVar(&flags.stateFile, "state-file", "", "Progress file for file storage")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	root.AddCommand(
		newWeeksCmd(app),
		newTreeCmd(app),
		newDayCmd(app),
		newMarkCmd(app, "done", "Mark tasks as done", markDone),
		newMarkCmd(app, "undo", "Mark tasks as not done", markUndo),
		newMarkCmd(app, "toggle", "Flip task completion", markToggle),
		newResetCmd(app),
		newStatusCmd(app),
		newValidateCmd(app),
		newExportCmd(app),
		newServeCmd(app),
		newBoardCmd(app),
	)

	return root
}

// applyFlags layers explicitly set flags over file and environment values.
func applyFlags(fs *pflag.FlagSet, cfg *config.Config, flags rootFlags) {
	set := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	set("content", &cfg.ContentPath, flags.content)
	set("storage", &cfg.Storage, flags.storage)
	set("db", &cfg.DBPath, flags.dbPath)
	set("state-file", &cfg.StateFile, flags.stateFile)
	set("log-level", &cfg.LogLevel, flags.logLevel)
}
