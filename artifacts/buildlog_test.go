package artifacts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func writeBuildLog(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "build.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644))
	return path
}

func TestIsBuildPassing(t *testing.T) {
	path := writeBuildLog(t, []string{
		"compiling ESMF_Base.F90",
		"linking libesmf.so",
		"ESMF library built successfully on Tue Mar 1",
	})
	require.True(t, IsBuildPassing(zerolog.Nop(), path))
}

func TestIsBuildPassing_Failure(t *testing.T) {
	path := writeBuildLog(t, []string{
		"compiling ESMF_Base.F90",
		"Error: undefined reference",
	})
	require.False(t, IsBuildPassing(zerolog.Nop(), path))
}

func TestIsBuildPassing_SuccessOutsideTail(t *testing.T) {
	// Only the last 200 lines count; a success message buried earlier in
	// the log belongs to a previous build attempt.
	lines := []string{"ESMF library built successfully"}
	for i := 0; i < 300; i++ {
		lines = append(lines, "make: retrying")
	}
	path := writeBuildLog(t, lines)
	require.False(t, IsBuildPassing(zerolog.Nop(), path))
}

func TestIsBuildPassing_MissingFile(t *testing.T) {
	require.False(t, IsBuildPassing(zerolog.Nop(), filepath.Join(t.TempDir(), "missing.log")))
}

func TestBuildPassingResults(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "develop", "cheyenne", "gfortran", "10.3.0", "g", "mpich3", "8.1.7", "out")
	require.NoError(t, os.MkdirAll(logPath, 0755))
	file := filepath.Join(logPath, "build.log")
	require.NoError(t, os.WriteFile(file, []byte("ESMF library built successfully\n"), 0644))

	results := BuildPassingResults(zerolog.Nop(), []string{file})
	require.Len(t, results, 1)

	attrs, err := AttributesFromPath(file)
	require.NoError(t, err)
	require.True(t, results[attrs])
}
