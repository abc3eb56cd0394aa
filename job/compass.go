package job

import (
	"fmt"
	"os"
	"path/filepath"
)

// Compass tracks the directories a summarization run works in: the
// scratch root, the artifacts clone and the summaries clone.
type Compass struct {
	Root          string
	ArtifactsPath string
	SummariesPath string
}

// NewCompass lays out the working directories under root, with the
// artifacts repository at artifactsPath.
func NewCompass(root, artifactsPath string) Compass {
	return Compass{
		Root:          root,
		ArtifactsPath: artifactsPath,
		SummariesPath: filepath.Join(root, "esmf-test-summary"),
	}
}

// ArchivePath is where the local database file is written.
func (c Compass) ArchivePath() string {
	return filepath.Join(c.Root, "summaries.db")
}

// LogPath is where the run log file is written.
func (c Compass) LogPath() string {
	return filepath.Join(c.Root, "esmf-branch-summary.log")
}

// BranchPath returns the directory for branchName inside the summaries
// repository, creating it if needed.
func (c Compass) BranchPath(branchName string) (string, error) {
	path := filepath.Join(c.SummariesPath, branchName)
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("failed to create branch directory: %w", err)
	}
	return path, nil
}
