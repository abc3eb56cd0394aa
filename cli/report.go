package cli

// This file contains the report command for printing per-branch rollups
// from the archive.

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/esmf-org/esmf-branch-summary/archive"
	"github.com/esmf-org/esmf-branch-summary/render"
)

func (a *App) report(ctx *cli.Context) error {
	arch, err := openArchive(ctx.String("workdir"))
	if err != nil {
		return err
	}
	defer arch.Close()

	hash := ctx.String("hash")
	if hash == "" {
		hash, err = arch.LastHash(ctx.String("branch"))
		if err != nil {
			return err
		}
	}

	rows, err := arch.FetchRowsByHash(hash)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no archived rows for hash %q", hash)
	}

	totals, err := render.Rollup(rows)
	if err != nil {
		return fmt.Errorf("failed to aggregate rows: %w", err)
	}

	fmt.Printf("\n=== %s (%d rows) ===\n\n", hash, len(rows))
	fmt.Print(render.RollupTable(totals))
	return nil
}

func openArchive(workDir string) (*archive.Archive, error) {
	path, err := filepath.Abs(filepath.Join(workDir, "summaries.db"))
	if err != nil {
		return nil, err
	}
	return archive.Open(path)
}
