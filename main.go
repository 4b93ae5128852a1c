package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/inn/internal/commands"
	"github.com/hay-kot/inn/internal/core/config"
	"github.com/hay-kot/inn/internal/core/logging"
	"github.com/hay-kot/inn/internal/core/styles"
	"github.com/hay-kot/inn/internal/inn"
	"github.com/hay-kot/inn/internal/store/yamlfile"
	"github.com/hay-kot/inn/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		innApp    = &inn.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "inn",
		Usage:     "Organise work into outlines and track attention spent on it",
		UsageText: "inn [global options] command [command options]",
		Description: `inn keeps named contexts: outlines of headings, notes, goals and timeboxes
stored as plain YAML documents in the data directory.

Timeboxes record when attention started, paused and finished, and report the
time accrued against their budget. One context is "current" at a time; the
cursor commands move between them.

Run 'inn init starter' to create an example context.`,
		Version:               build(),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("INN_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/inn.log)",
				Sources:     cli.EnvVars("INN_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("INN_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("INN_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "inn.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.Render.Theme)
			styles.SetTheme(palette)

			var (
				docs   = yamlfile.NewDocuments(cfg.DocumentsPath(), cfg.Extension)
				cursor = yamlfile.NewStateStore(cfg.StateFile())
				svcLog = logging.Component("inn")
			)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*innApp = *inn.NewApp(cfg, docs, cursor, nil, svcLog)

			warnings, err := innApp.Open()
			if err != nil {
				return ctx, fmt.Errorf("open contexts: %w", err)
			}
			for _, w := range warnings {
				log.Warn().Err(w).Msg("skipping unreadable context document")
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewInitCmd(flags, innApp).Register(app)
	app = commands.NewAddCmd(flags, innApp).Register(app)
	app = commands.NewNowCmd(flags, innApp).Register(app)
	app = commands.NewLsCmd(flags, innApp).Register(app)
	app = commands.NewSearchCmd(flags, innApp).Register(app)
	app = commands.NewCursorCmd(flags, innApp).Register(app)
	app = commands.NewMarkCmd(flags, innApp).Register(app)
	app = commands.NewRmCmd(flags, innApp).Register(app)
	app = commands.NewDoctorCmd(flags, innApp).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)
	app = commands.NewSetupCmd(flags).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
