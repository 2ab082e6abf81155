package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/balboard/balboard/config"
	"github.com/balboard/balboard/dataset"
	"github.com/balboard/balboard/model"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "balboard"

type App struct {
	logger zerolog.Logger
	cfg    *config.Config
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
	}
	app.cli = &cli.App{
		Name:  AppName,
		Usage: "Track client adoption of Block Access Lists from hive results",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose (debug) logging",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   fmt.Sprintf("Path to the config file (default: ./%s if present)", config.FileName),
			},
		},
		Before: func(ctx *cli.Context) error {
			if ctx.Bool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			cfg, err := config.Load(ctx.String("config"))
			if err != nil {
				return err
			}
			app.cfg = cfg
			return nil
		},
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Run hive for every testable EIP of a fork and ingest the results",
		ArgsUsage: "[FORK]",
		Action:    app.run,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "keep-going",
				Usage: "Continue with the next EIP when one fails (overrides error_policy)",
			},
			&cli.StringFlag{
				Name:  "eip",
				Usage: "Only run the given EIP",
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "parse",
		Usage:     "Ingest an existing hive export without running hive",
		ArgsUsage: "[FORK]",
		Action:    app.parse,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "eip",
				Usage:    "EIP number the export belongs to",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "simulation",
				Aliases: []string{"s"},
				Usage:   fmt.Sprintf("Simulation to ingest (%s or %s)", model.SimulationRLP, model.SimulationEngine),
				Value:   string(model.SimulationRLP),
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "sync",
		Usage:     "Sync test catalogs from the EIP test case documents",
		ArgsUsage: "[FORK]",
		Action:    app.sync,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "keep-going",
				Usage: "Continue with the next EIP when one fails (overrides error_policy)",
			},
			&cli.StringFlag{
				Name:  "eip",
				Usage: "Only sync the given EIP",
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "serve",
		Usage:  "Serve the adoption API",
		Action: app.serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (overrides api.addr)",
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "summary",
		Usage:     "Print adoption progress per EIP",
		ArgsUsage: "[FORK]",
		Action:    app.summary,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List previous hive invocations",
		Action: app.list,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "eip",
				Usage: "Filter by EIP number",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Limit number of results (default: 20)",
				Value:   20,
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:            "view",
		Usage:           "View a hive invocation from history",
		ArgsUsage:       "[ID|INDEX] [-- PATTERN...]",
		Action:          app.view,
		SkipFlagParsing: true,
		Description: `View a hive invocation from history.

Arguments:
  0           View last invocation (default)
  -1          View 2nd last invocation
  -2          View 3rd last invocation
  <hex-id>    View invocation matching the hex ID prefix

Any further arguments filter the captured output to lines containing
one of them.

Examples:
  balboard view                 # View last invocation
  balboard view -1              # View 2nd last invocation
  balboard view abc123          # View invocation with ID starting with abc123
  balboard view 0 -- FAIL err   # Only show output lines containing FAIL or err`,
	})
	return app
}

// Run executes the command line until it finishes or the process is
// interrupted.
func (a *App) Run(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.cli.RunContext(ctx, args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		if len(commit) > 8 {
			commit = commit[:8]
		}
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	}
}

func (a *App) layout() *dataset.Layout {
	return dataset.New(a.cfg.DataDir)
}

// forkArg returns the first positional argument, falling back to the
// configured current fork.
func (a *App) forkArg(ctx *cli.Context) string {
	if fork := ctx.Args().First(); fork != "" {
		return fork
	}
	return a.cfg.CurrentFork
}
