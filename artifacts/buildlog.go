package artifacts

import (
	"bufio"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/esmf-org/esmf-branch-summary/model"
)

// buildSuccessMessage is printed by the ESMF makefile at the end of a
// successful library build.
const buildSuccessMessage = "ESMF library built successfully"

// Only the tail of the log is relevant; build.log files can run to
// hundreds of megabytes.
const buildLogTailLines = 200

// IsBuildPassing reports whether the build.log at path ends in a
// successful build. A missing or unreadable file counts as failing.
func IsBuildPassing(logger zerolog.Logger, path string) bool {
	f, err := os.Open(path)
	if err != nil {
		logger.Error().Err(err).Str("file", path).Msg("Cannot read build log")
		return false
	}
	defer f.Close()

	tail := make([]string, 0, buildLogTailLines)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		tail = append(tail, scanner.Text())
		if len(tail) > buildLogTailLines {
			tail = tail[1:]
		}
	}
	for _, line := range tail {
		if strings.Contains(line, buildSuccessMessage) {
			return true
		}
	}
	logger.Debug().Str("file", path).Msg("Build success message not found")
	return false
}

// BuildPassingResults scans each build log and returns a map from the job
// attributes encoded in its path to whether that build passed.
func BuildPassingResults(logger zerolog.Logger, logPaths []string) map[model.JobAttributes]bool {
	results := make(map[model.JobAttributes]bool, len(logPaths))
	for _, path := range logPaths {
		attrs, err := AttributesFromPath(path)
		if err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("Cannot derive job attributes from path")
			continue
		}
		results[attrs] = IsBuildPassing(logger, path)
	}
	return results
}
