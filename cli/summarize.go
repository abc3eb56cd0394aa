package cli

// This file contains the summarize command, the main operation: compile
// summaries from an artifacts repository and publish them.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/esmf-org/esmf-branch-summary/archive"
	"github.com/esmf-org/esmf-branch-summary/git"
	"github.com/esmf-org/esmf-branch-summary/job"
)

func (a *App) summarize(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one argument: the path to the artifacts repository")
	}
	artifactsPath, err := filepath.Abs(ctx.Args().First())
	if err != nil {
		return fmt.Errorf("invalid artifacts path: %w", err)
	}
	if _, err := os.Stat(artifactsPath); err != nil {
		return fmt.Errorf("artifacts repository not found: %w", err)
	}

	cfg, err := LoadConfig(ctx.String("config"))
	if err != nil {
		return err
	}
	if machines := ctx.StringSlice("machines"); len(machines) > 0 {
		cfg.Machines = machines
	}
	if branches := ctx.StringSlice("branches"); len(branches) > 0 {
		cfg.Branches = branches
	}
	if ctx.IsSet("count") {
		cfg.HistoryIncrements = ctx.Int("count")
	}

	workDir, err := filepath.Abs(ctx.String("workdir"))
	if err != nil {
		return fmt.Errorf("invalid workdir: %w", err)
	}
	compass := job.NewCompass(workDir, artifactsPath)

	// The run log is published alongside the summaries, so mirror console
	// output into a file in the scratch directory.
	logFile, err := os.OpenFile(compass.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	logger := a.logger.Output(zerolog.MultiLevelWriter(
		zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339Nano},
		logFile,
	))

	arch, err := archive.Open(compass.ArchivePath())
	if err != nil {
		return err
	}
	defer arch.Close()

	summaries, err := git.Clone(logger, cfg.SummariesRepo, compass.SummariesPath)
	if err != nil {
		return fmt.Errorf("failed to clone summaries repository: %w", err)
	}

	gw := job.Gateway{
		Artifacts: git.New(logger, artifactsPath),
		Summaries: summaries,
		Archive:   arch,
		Compass:   compass,
	}

	started := time.Now()
	processor := job.New(logger, cfg.Machines, cfg.Branches, cfg.HistoryIncrements, cfg.UpstreamRepo, ctx.Bool("skip-push"), gw)
	if err := processor.Run(); err != nil {
		return err
	}
	logger.Info().Dur("elapsed", time.Since(started)).Msg("Finished")
	return nil
}
