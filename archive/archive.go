// Package archive persists compiled summary rows to a local SQLite
// database so summaries can be rebuilt and queried without rescanning the
// artifacts repository.
package archive

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/esmf-org/esmf-branch-summary/model"
)

// Archive stores summary rows in a SQLite database.
type Archive struct {
	db *sql.DB
}

// Open opens (creating if necessary) the archive database at path.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}
	a := &Archive{db: db}
	if err := a.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize archive schema: %w", err)
	}
	return a, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS summaries (
		id TEXT PRIMARY KEY,
		branch TEXT NOT NULL,
		host TEXT NOT NULL,
		compiler TEXT NOT NULL,
		c_version TEXT NOT NULL,
		mpi TEXT NOT NULL,
		m_version TEXT NOT NULL,
		o_g TEXT NOT NULL,
		os TEXT NOT NULL,
		unit_pass INTEGER NOT NULL,
		unit_fail INTEGER NOT NULL,
		system_pass INTEGER NOT NULL,
		system_fail INTEGER NOT NULL,
		example_pass INTEGER NOT NULL,
		example_fail INTEGER NOT NULL,
		nuopc_pass INTEGER NOT NULL,
		nuopc_fail INTEGER NOT NULL,
		build INTEGER NOT NULL,
		artifacts_hash TEXT NOT NULL,
		branch_hash TEXT NOT NULL,
		modified INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_summaries_branch_hash ON summaries(branch_hash);
	CREATE INDEX IF NOT EXISTS idx_summaries_branch ON summaries(branch);
	`
	_, err := a.db.Exec(schema)
	return err
}

// InsertRows writes rows to the archive, replacing rows with the same
// derived id so re-running a summary is idempotent. Returns the number of
// rows written.
func (a *Archive) InsertRows(rows []model.TestResult) (int, error) {
	tx, err := a.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO summaries (
		id, branch, host, compiler, c_version, mpi, m_version, o_g, os,
		unit_pass, unit_fail, system_pass, system_fail,
		example_pass, example_fail, nuopc_pass, nuopc_fail,
		build, artifacts_hash, branch_hash, modified
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	modified := time.Now().Unix()
	for _, row := range rows {
		build := 0
		if row.BuildPassed {
			build = 1
		}
		_, err := stmt.Exec(
			row.ID(), row.Branch, row.Host, row.Compiler, row.CompilerVersion,
			row.Mpi, row.MpiVersion, row.Optimization, row.OS,
			row.UnitPass, row.UnitFail, row.SystemPass, row.SystemFail,
			row.ExamplePass, row.ExampleFail, row.NuopcPass, row.NuopcFail,
			build, row.ArtifactsHash, row.BranchHash, modified,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert row %s: %w", row.ID(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit insert: %w", err)
	}
	return len(rows), nil
}

// Row is a summary row read back from the archive.
type Row struct {
	model.TestResult
	Modified time.Time
}

// FetchRowsByHash returns all archived rows for branchHash.
func (a *Archive) FetchRowsByHash(branchHash string) ([]Row, error) {
	rows, err := a.db.Query(`SELECT
		branch, host, compiler, c_version, mpi, m_version, o_g, os,
		unit_pass, unit_fail, system_pass, system_fail,
		example_pass, example_fail, nuopc_pass, nuopc_fail,
		build, artifacts_hash, branch_hash, modified
	FROM summaries WHERE branch_hash = ?`, branchHash)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows for %s: %w", branchHash, err)
	}
	defer rows.Close()

	var results []Row
	for rows.Next() {
		var r Row
		var build int
		var modified int64
		err := rows.Scan(
			&r.Branch, &r.Host, &r.Compiler, &r.CompilerVersion,
			&r.Mpi, &r.MpiVersion, &r.Optimization, &r.OS,
			&r.UnitPass, &r.UnitFail, &r.SystemPass, &r.SystemFail,
			&r.ExamplePass, &r.ExampleFail, &r.NuopcPass, &r.NuopcFail,
			&build, &r.ArtifactsHash, &r.BranchHash, &modified,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		r.BuildPassed = build == 1
		r.Modified = time.Unix(modified, 0)
		results = append(results, r)
	}
	return results, rows.Err()
}
