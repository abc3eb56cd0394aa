package archive

import (
	"database/sql"
	"fmt"
	"time"
)

// HashSummary describes one archived branch hash for listing.
type HashSummary struct {
	Branch     string
	BranchHash string
	Rows       int
	BuildsPass int
	Modified   time.Time
}

// PassRate returns the fraction of rows whose build passed, or 0 when the
// hash has no rows.
func (h HashSummary) PassRate() float64 {
	if h.Rows == 0 {
		return 0
	}
	return float64(h.BuildsPass) / float64(h.Rows)
}

// LastHash returns the most recently archived branch hash for branch.
func (a *Archive) LastHash(branch string) (string, error) {
	var hash string
	err := a.db.QueryRow(
		`SELECT branch_hash FROM summaries WHERE branch = ? ORDER BY modified DESC LIMIT 1`,
		branch,
	).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("no archived summaries for branch %q", branch)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query last hash: %w", err)
	}
	return hash, nil
}

// RecentHashes lists the most recently archived branch hashes, newest
// first, with per-hash row and passing-build counts.
func (a *Archive) RecentHashes(limit int) ([]HashSummary, error) {
	rows, err := a.db.Query(`SELECT
		branch, branch_hash, COUNT(*), SUM(build), MAX(modified)
	FROM summaries
	GROUP BY branch, branch_hash
	ORDER BY MAX(modified) DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent hashes: %w", err)
	}
	defer rows.Close()

	var summaries []HashSummary
	for rows.Next() {
		var s HashSummary
		var modified int64
		if err := rows.Scan(&s.Branch, &s.BranchHash, &s.Rows, &s.BuildsPass, &modified); err != nil {
			return nil, fmt.Errorf("failed to scan hash summary: %w", err)
		}
		s.Modified = time.Unix(modified, 0)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
