package render

import (
	"fmt"
	"strings"

	"github.com/esmf-org/esmf-branch-summary/archive"
	"github.com/esmf-org/esmf-branch-summary/model"
	"github.com/esmf-org/esmf-branch-summary/summary"
)

// ResultsFromRows flattens archived rows into one result per suite (plus
// the build itself) so they can be aggregated by the summary builder.
// Archived suite rows carry no timing, so durations are zero.
func ResultsFromRows(rows []archive.Row) []summary.Result {
	var results []summary.Result
	for _, row := range rows {
		combo := fmt.Sprintf("%s/%s/%s/%s/%s",
			row.Host, row.Compiler, row.CompilerVersion, row.Mpi, row.Optimization)

		buildStatus := summary.StatusFail
		if row.BuildPassed {
			buildStatus = summary.StatusPass
		}
		results = append(results, summary.Result{
			Branch: row.Branch,
			Test:   combo + " build",
			Status: buildStatus,
		})

		suites := []struct {
			name       string
			pass, fail int
		}{
			{"unit", row.UnitPass, row.UnitFail},
			{"system", row.SystemPass, row.SystemFail},
			{"example", row.ExamplePass, row.ExampleFail},
			{"nuopc", row.NuopcPass, row.NuopcFail},
		}
		for _, s := range suites {
			results = append(results, summary.Result{
				Branch: row.Branch,
				Test:   combo + " " + s.name,
				Status: suiteStatus(s.pass, s.fail),
			})
		}
	}
	return results
}

func suiteStatus(pass, fail int) summary.Status {
	switch {
	case pass == model.CountQueued || fail == model.CountQueued:
		return summary.StatusSkip
	case pass == model.CountInvalid || fail == model.CountInvalid:
		return summary.StatusFail
	case fail > 0:
		return summary.StatusFail
	default:
		return summary.StatusPass
	}
}

// Rollup aggregates archived rows into per-branch totals.
func Rollup(rows []archive.Row) ([]summary.BranchSummary, error) {
	return summary.Build(ResultsFromRows(rows))
}

// RollupTable renders branch summaries as a markdown table.
func RollupTable(summaries []summary.BranchSummary) string {
	var b strings.Builder
	b.WriteString("| branch | pass | fail | pending | total |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, s := range summaries {
		b.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %d |\n",
			s.Branch, s.Passed, s.Failed, s.Skipped, s.Total()))
	}
	return b.String()
}
