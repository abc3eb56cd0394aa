package artifacts

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"

	"github.com/esmf-org/esmf-branch-summary/model"
)

// summary.dat files are written on HPC login nodes and arrive as
// ISO-8859-1, not UTF-8.
var summaryEncoding = charmap.ISO8859_1

// ParseSummaryFile reads a summary.dat file and returns the test result
// row it describes. Counts for suites the file does not mention stay at
// the queued sentinel; count lines that cannot be parsed are recorded as
// invalid rather than aborting the scan.
func ParseSummaryFile(logger zerolog.Logger, path string) (model.TestResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.TestResult{}, fmt.Errorf("failed to open summary file: %w", err)
	}
	defer f.Close()
	return parseSummary(logger, summaryEncoding.NewDecoder().Reader(f), path)
}

func parseSummary(logger zerolog.Logger, r io.Reader, path string) (model.TestResult, error) {
	result := model.TestResult{
		UnitPass: model.CountQueued, UnitFail: model.CountQueued,
		SystemPass: model.CountQueued, SystemFail: model.CountQueued,
		ExamplePass: model.CountQueued, ExampleFail: model.CountQueued,
		NuopcPass: model.CountQueued, NuopcFail: model.CountQueued,
	}
	sawBuildLine := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		// Build for = gfortran_10.3.0_mpich3_g_develop, mpi version 8.1.7 on acorn esmf_os: Linux
		if strings.Contains(line, "Build for") {
			if err := parseBuildAttributes(line, &result); err != nil {
				return model.TestResult{}, fmt.Errorf("%s: %w", path, err)
			}
			sawBuildLine = true
		}

		// unit test results \tPASS 12 \tFAIL 0
		if strings.Contains(line, "test results") {
			suite, pass, fail, err := parseCountLine(line)
			if err != nil {
				logger.Error().Err(err).Str("file", path).Msg("No numeric test results, recording as fail")
				suite = suiteOf(line)
				pass, fail = model.CountInvalid, model.CountInvalid
			}
			applyCounts(&result, suite, pass, fail)
		}
	}
	if err := scanner.Err(); err != nil {
		return model.TestResult{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !sawBuildLine {
		return model.TestResult{}, fmt.Errorf("no build attribute line in %s", path)
	}
	return result, nil
}

// parseBuildAttributes extracts the build combination from the
// "Build for =" line. The left group is compiler_version_mpi_og_branch;
// the right group carries the mpi version, host and OS as space-separated
// words.
func parseBuildAttributes(line string, result *model.TestResult) error {
	parts := strings.SplitN(line, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("malformed build attribute line %q", line)
	}
	groups := strings.SplitN(strings.TrimSpace(parts[1]), ",", 2)
	if len(groups) != 2 {
		return fmt.Errorf("malformed build attribute line %q", line)
	}

	left := strings.SplitN(strings.TrimSpace(groups[0]), "_", 5)
	if len(left) != 5 {
		return fmt.Errorf("malformed build combination %q", groups[0])
	}
	result.Compiler = left[0]
	result.CompilerVersion = left[1]
	result.Mpi = left[2]
	result.Optimization = left[3]
	result.Branch = left[4]

	right := strings.Fields(strings.TrimSpace(groups[1]))
	// mpi version <ver> on <host> esmf_os: <os>
	if len(right) != 7 {
		return fmt.Errorf("malformed build host group %q", groups[1])
	}
	result.MpiVersion = strings.ToLower(right[2])
	result.Host = right[4]
	result.OS = right[6]
	return nil
}

// suiteOf returns the first word of a count line, which names the suite.
func suiteOf(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func parseCountLine(line string) (suite string, pass, fail int, err error) {
	parts := strings.SplitN(line, "\t", 2)
	if len(parts) != 2 {
		return "", 0, 0, fmt.Errorf("no tab separator in %q", line)
	}
	suite = suiteOf(parts[0])

	value := strings.NewReplacer("PASS", "", "FAIL", "", "\n", "").Replace(parts[1])
	counts := strings.Fields(value)
	if len(counts) != 2 {
		return suite, 0, 0, fmt.Errorf("expected two counts in %q", parts[1])
	}
	pass, err = strconv.Atoi(counts[0])
	if err != nil {
		return suite, 0, 0, fmt.Errorf("bad pass count %q: %w", counts[0], err)
	}
	fail, err = strconv.Atoi(counts[1])
	if err != nil {
		return suite, 0, 0, fmt.Errorf("bad fail count %q: %w", counts[1], err)
	}
	return suite, pass, fail, nil
}

func applyCounts(result *model.TestResult, suite string, pass, fail int) {
	switch suite {
	case "unit":
		result.UnitPass, result.UnitFail = pass, fail
	case "system":
		result.SystemPass, result.SystemFail = pass, fail
	case "example":
		result.ExamplePass, result.ExampleFail = pass, fail
	case "nuopc":
		result.NuopcPass, result.NuopcFail = pass, fail
	}
}
