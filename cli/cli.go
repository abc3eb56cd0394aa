package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "esmf-branch-summary"

type App struct {
	logger zerolog.Logger
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
		cli: &cli.App{
			Name:  AppName,
			Usage: "Aggregate ESMF test results from artifact branches into summary tables",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "summarize",
		Usage:     "Compile branch summaries from a test artifacts repository",
		ArgsUsage: "<artifacts-repo-path>",
		Action:    app.summarize,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "branches",
				Aliases: []string{"b"},
				Usage:   "Branch(es) to summarize (default: all branches of the upstream repository)",
			},
			&cli.StringSliceFlag{
				Name:  "machines",
				Usage: "Machine(s) whose artifact branches are scanned",
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "Number of recent hashes to compile per machine/branch pair",
				Value:   1,
			},
			&cli.StringFlag{
				Name:  "workdir",
				Usage: "Scratch directory for the archive database and the summaries clone",
				Value: ".",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a YAML config file",
			},
			&cli.BoolFlag{
				Name:  "skip-push",
				Usage: "Commit summaries locally without pushing",
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "report",
		Usage:  "Print the per-branch rollup for an archived hash",
		Action: app.report,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "branch",
				Aliases: []string{"b"},
				Usage:   "Branch to report on",
				Value:   "develop",
			},
			&cli.StringFlag{
				Name:  "hash",
				Usage: "Branch hash to report on (default: most recently archived)",
			},
			&cli.StringFlag{
				Name:  "workdir",
				Usage: "Directory holding the archive database",
				Value: ".",
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List recently archived branch hashes",
		Action: app.list,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Limit number of results",
				Value:   20,
			},
			&cli.StringFlag{
				Name:  "workdir",
				Usage: "Directory holding the archive database",
				Value: ".",
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "reset",
		Usage:  "Delete the archive database and scratch directories",
		Action: app.reset,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "workdir",
				Usage: "Scratch directory to clean",
				Value: ".",
			},
		},
	})
	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}
