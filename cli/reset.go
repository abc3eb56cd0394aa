package cli

// This file contains the reset command for deleting state persisted by
// previous runs.

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/esmf-org/esmf-branch-summary/job"
)

func (a *App) reset(ctx *cli.Context) error {
	workDir, err := filepath.Abs(ctx.String("workdir"))
	if err != nil {
		return err
	}
	compass := job.NewCompass(workDir, "")

	for _, path := range []string{compass.ArchivePath(), compass.LogPath(), compass.SummariesPath} {
		if err := os.RemoveAll(path); err != nil {
			return err
		}
		a.logger.Info().Str("path", path).Msg("Removed")
	}
	return nil
}
