package job

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompassLayout(t *testing.T) {
	root := t.TempDir()
	c := NewCompass(root, filepath.Join(root, "esmf-test-artifacts"))

	require.Equal(t, filepath.Join(root, "summaries.db"), c.ArchivePath())
	require.Equal(t, filepath.Join(root, "esmf-branch-summary.log"), c.LogPath())
	require.Equal(t, filepath.Join(root, "esmf-test-summary"), c.SummariesPath)
}

func TestCompassBranchPath(t *testing.T) {
	c := NewCompass(t.TempDir(), "")

	path, err := c.BranchPath("feature_io")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(c.SummariesPath, "feature_io"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	// Idempotent
	again, err := c.BranchPath("feature_io")
	require.NoError(t, err)
	require.Equal(t, path, again)
}
