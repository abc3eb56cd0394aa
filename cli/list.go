package cli

// This file contains the list command for displaying recently archived
// branch hashes.

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func (a *App) list(ctx *cli.Context) error {
	arch, err := openArchive(ctx.String("workdir"))
	if err != nil {
		return err
	}
	defer arch.Close()

	hashes, err := arch.RecentHashes(ctx.Int("limit"))
	if err != nil {
		return err
	}
	if len(hashes) == 0 {
		fmt.Println("No archived summaries found")
		return nil
	}

	fmt.Printf("\n=== Archived hashes (%d) ===\n\n", len(hashes))
	for _, h := range hashes {
		status := "✓"
		if h.BuildsPass < h.Rows {
			status = "✗"
		}
		fmt.Printf("%s  %s  %s  rows=%d  builds=%d/%d (%.0f%%)\n",
			status,
			h.Modified.Format("2006-01-02 15:04:05"),
			h.BranchHash,
			h.Rows,
			h.BuildsPass, h.Rows, h.PassRate()*100)
		fmt.Printf("   Branch: %s\n\n", h.Branch)
	}
	fmt.Println("View a rollup: esmf-branch-summary report --hash <hash>")
	return nil
}
