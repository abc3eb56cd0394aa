package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Len(t, cfg.Machines, 12)
	require.Contains(t, cfg.Machines, "cheyenne")
	require.Contains(t, cfg.Machines, "hera")
	require.Empty(t, cfg.Branches)
	require.Equal(t, "https://github.com/esmf-org/esmf", cfg.UpstreamRepo)
	require.Equal(t, 1, cfg.HistoryIncrements)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `machines:
  - hera
  - cheyenne
branches:
  - develop
history_increments: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, []string{"hera", "cheyenne"}, cfg.Machines)
	require.Equal(t, []string{"develop"}, cfg.Branches)
	require.Equal(t, 3, cfg.HistoryIncrements)

	// Fields the file omits keep their defaults.
	require.Equal(t, DefaultConfig().SummariesRepo, cfg.SummariesRepo)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
