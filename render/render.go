// Package render writes archived summary rows out as GitHub-flavored
// markdown tables and CSV files, the formats the summary repository
// serves.
package render

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/esmf-org/esmf-branch-summary/archive"
	"github.com/esmf-org/esmf-branch-summary/model"
)

// ArtifactsRepoURL is the repository the artifact links point into.
const ArtifactsRepoURL = "https://github.com/esmf-org/esmf-test-artifacts"

var header = []string{
	"branch", "host", "compiler", "mpi", "o_g", "os", "build",
	"u_pass", "u_fail", "s_pass", "s_fail", "e_pass", "e_fail",
	"nuopc_pass", "nuopc_fail", "artifacts", "modified",
}

// formatRow flattens an archived row into display cells: versions joined
// onto their component, sentinels replaced with "pending"/"fail", build
// as pass/fail, and the artifacts hash as a link.
func formatRow(row archive.Row) []string {
	build := "fail"
	if row.BuildPassed {
		build = "pass"
	}
	return []string{
		row.Branch,
		row.Host,
		row.Compiler + "/" + row.CompilerVersion,
		row.Mpi + "/" + row.MpiVersion,
		row.Optimization,
		row.OS,
		build,
		formatCount(row.UnitPass), formatCount(row.UnitFail),
		formatCount(row.SystemPass), formatCount(row.SystemFail),
		formatCount(row.ExamplePass), formatCount(row.ExampleFail),
		formatCount(row.NuopcPass), formatCount(row.NuopcFail),
		ArtifactsLink(row.ArtifactsHash),
		row.Modified.Format("2006-01-02 15:04:05"),
	}
}

func formatCount(count int) string {
	switch count {
	case model.CountQueued:
		return "pending"
	case model.CountInvalid:
		return "fail"
	default:
		return fmt.Sprintf("%d", count)
	}
}

// ArtifactsLink renders a markdown link to the artifact tree at hash.
func ArtifactsLink(hash string) string {
	return fmt.Sprintf("[artifacts](%s/tree/%s)", ArtifactsRepoURL, hash)
}

// sortRows orders rows by their concatenated identity key so tables are
// stable across runs.
func sortRows(rows []archive.Row) {
	sort.Slice(rows, func(i, j int) bool {
		return identityKey(rows[i]) < identityKey(rows[j])
	})
}

func identityKey(row archive.Row) string {
	return row.Branch + row.Host + row.Compiler + row.CompilerVersion +
		row.Mpi + row.MpiVersion + row.Optimization
}

// Markdown renders rows as a GitHub-flavored markdown table with a
// leading index column.
func Markdown(rows []archive.Row) string {
	sortRows(rows)

	var b strings.Builder
	b.WriteString("| |")
	for _, col := range header {
		b.WriteString(" " + col + " |")
	}
	b.WriteString("\n|---|")
	for range header {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for i, row := range rows {
		b.WriteString(fmt.Sprintf("| %d |", i))
		for _, cell := range formatRow(row) {
			b.WriteString(" " + cell + " |")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// markdownDocument is the full file content: the row table plus a totals
// footer rolled up per branch.
func markdownDocument(rows []archive.Row) string {
	content := Markdown(rows)
	if totals, err := Rollup(rows); err == nil && len(totals) > 0 {
		content += "\n**Totals**\n\n" + RollupTable(totals)
	}
	return content
}

// WriteMarkdown writes the markdown table for rows to pathPrefix.md.
func WriteMarkdown(rows []archive.Row, pathPrefix string) error {
	return os.WriteFile(pathPrefix+".md", []byte(markdownDocument(rows)), 0644)
}

// WriteLatest writes the markdown table for rows as -latest.md next to
// pathPrefix, marking the newest hash of the branch.
func WriteLatest(rows []archive.Row, pathPrefix string) error {
	latest := filepath.Join(filepath.Dir(pathPrefix), "-latest.md")
	return os.WriteFile(latest, []byte(markdownDocument(rows)), 0644)
}

// WriteCSV writes rows as CSV to pathPrefix.csv.
func WriteCSV(rows []archive.Row, pathPrefix string) error {
	sortRows(rows)

	f, err := os.Create(pathPrefix + ".csv")
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(formatRow(row)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
