package render

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/esmf-org/esmf-branch-summary/archive"
	"github.com/esmf-org/esmf-branch-summary/model"
)

func sampleRows() []archive.Row {
	modified := time.Date(2022, 3, 1, 12, 30, 0, 0, time.UTC)
	return []archive.Row{
		{
			TestResult: model.TestResult{
				Branch: "develop", Host: "hera", Compiler: "intel", CompilerVersion: "2021.4",
				Mpi: "impi", MpiVersion: "2021.4", Optimization: "O", OS: "Linux",
				UnitPass: 10, UnitFail: 1,
				SystemPass: model.CountQueued, SystemFail: model.CountQueued,
				ExamplePass: 4, ExampleFail: 0,
				NuopcPass: model.CountInvalid, NuopcFail: model.CountInvalid,
				BuildPassed:   true,
				ArtifactsHash: "abc1234",
				BranchHash:    "v8.3.0b08-5-g64eb133",
			},
			Modified: modified,
		},
		{
			TestResult: model.TestResult{
				Branch: "develop", Host: "cheyenne", Compiler: "gfortran", CompilerVersion: "10.3.0",
				Mpi: "mpich3", MpiVersion: "8.1.7", Optimization: "g", OS: "Linux",
				UnitPass: 12, UnitFail: 0,
				SystemPass: 3, SystemFail: 0,
				ExamplePass: 2, ExampleFail: 0,
				NuopcPass: 8, NuopcFail: 0,
				BuildPassed:   false,
				ArtifactsHash: "def5678",
				BranchHash:    "v8.3.0b08-5-g64eb133",
			},
			Modified: modified,
		},
	}
}

func TestMarkdown(t *testing.T) {
	table := Markdown(sampleRows())
	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")
	require.Len(t, lines, 4)

	require.Contains(t, lines[0], "| branch |")
	require.Contains(t, lines[1], "|---|")

	// Rows sorted by identity key: cheyenne/gfortran before hera/intel.
	require.Contains(t, lines[2], "cheyenne")
	require.Contains(t, lines[2], "gfortran/10.3.0")
	require.Contains(t, lines[2], "| fail |")
	require.Contains(t, lines[3], "hera")
	require.Contains(t, lines[3], "| pass |")
	require.Contains(t, lines[3], "pending")
	require.Contains(t, lines[3], "[artifacts](https://github.com/esmf-org/esmf-test-artifacts/tree/abc1234)")
}

func TestFormatCount(t *testing.T) {
	require.Equal(t, "pending", formatCount(model.CountQueued))
	require.Equal(t, "fail", formatCount(model.CountInvalid))
	require.Equal(t, "0", formatCount(0))
	require.Equal(t, "42", formatCount(42))
}

func TestWriteMarkdownAndLatest(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "v8.3.0b08-5-g64eb133")

	require.NoError(t, WriteMarkdown(sampleRows(), prefix))
	require.NoError(t, WriteLatest(sampleRows(), prefix))

	content, err := os.ReadFile(prefix + ".md")
	require.NoError(t, err)
	require.Contains(t, string(content), "**Totals**")
	require.Contains(t, string(content), "| develop |")

	latest, err := os.ReadFile(filepath.Join(dir, "-latest.md"))
	require.NoError(t, err)
	require.Equal(t, content, latest)
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "v8.3.0b08-5-g64eb133")
	require.NoError(t, WriteCSV(sampleRows(), prefix))

	f, err := os.Open(prefix + ".csv")
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, header, records[0])
	require.Equal(t, "cheyenne", records[1][1])
	require.Equal(t, "hera", records[2][1])
}
