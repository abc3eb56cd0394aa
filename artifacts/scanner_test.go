package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestFindFiles(t *testing.T) {
	hash := "v8.3.0b08-5-g64eb133"
	root := writeTree(t, map[string]string{
		"develop/cheyenne/a/summary.dat":     "results for " + hash + "\n",
		"develop/cheyenne/b/summary.dat":     "results for some other hash\n",
		"develop/hera/c/summary.dat":         "results for " + hash + "\n",
		"develop/cheyenne/d/summary.dat.swp": "results for " + hash + "\n",
		"develop/cheyenne/e/build.log":       "log for " + hash + "\n",
	})

	found, err := FindFiles(root,
		[]string{hash},
		[]string{"summary.dat", "develop", "cheyenne"},
		[]string{".swp"},
	)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "develop/cheyenne/a/summary.dat")}, found)
}

func TestFindFiles_SortedResults(t *testing.T) {
	root := writeTree(t, map[string]string{
		"z/summary.dat": "needle\n",
		"a/summary.dat": "needle\n",
		"m/summary.dat": "needle\n",
	})

	found, err := FindFiles(root, []string{"needle"}, []string{"summary.dat"}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(root, "a/summary.dat"),
		filepath.Join(root, "m/summary.dat"),
		filepath.Join(root, "z/summary.dat"),
	}, found)
}

func TestFindFiles_EmptyContents(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a/build.log": "anything\n",
	})

	found, err := FindFiles(root, nil, []string{"build.log"}, nil)
	require.NoError(t, err)
	require.Len(t, found, 1)
}

func TestFindFiles_InvalidRoot(t *testing.T) {
	_, err := FindFiles(filepath.Join(t.TempDir(), "missing"), nil, nil, nil)
	require.Error(t, err)
}

func TestFindFiles_SkipsGitDir(t *testing.T) {
	root := writeTree(t, map[string]string{
		".git/objects/summary.dat": "needle\n",
		"a/summary.dat":            "needle\n",
	})

	found, err := FindFiles(root, []string{"needle"}, []string{"summary.dat"}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "a/summary.dat")}, found)
}
