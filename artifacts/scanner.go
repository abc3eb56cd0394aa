// Package artifacts locates and parses the files a test run leaves behind
// in the artifacts repository: summary.dat result tables and build.log
// output.
package artifacts

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindFiles walks root and returns the sorted paths of files whose path
// contains every string in nameHas, none in nameSkip, and whose content
// has at least one line containing any string in contents. Unreadable
// files are skipped; artifact trees routinely contain binary leftovers.
func FindFiles(root string, contents, nameHas, nameSkip []string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("invalid search root %s: %w", root, err)
	}

	var results []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		for _, skip := range nameSkip {
			if strings.Contains(path, skip) {
				return nil
			}
		}
		for _, want := range nameHas {
			if !strings.Contains(path, want) {
				return nil
			}
		}
		ok, err := fileContainsAny(path, contents)
		if err != nil {
			return nil
		}
		if ok {
			results = append(results, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(results)
	return results, nil
}

func fileContainsAny(path string, needles []string) (bool, error) {
	if len(needles) == 0 {
		return true, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		for _, needle := range needles {
			if strings.Contains(line, needle) {
				return true, nil
			}
		}
	}
	return false, scanner.Err()
}

// MatchingSummaries returns the summary.dat files under root that mention
// hash and belong to branch on machine.
func MatchingSummaries(root, hash, branch, machine string) ([]string, error) {
	return FindFiles(root,
		[]string{hash},
		[]string{"summary.dat", branch, machine},
		[]string{".swp"},
	)
}

// MatchingBuildLogs returns the build.log files under root that mention
// hash and belong to branch on machine.
func MatchingBuildLogs(root, hash, branch, machine string) ([]string, error) {
	return FindFiles(root,
		[]string{hash},
		[]string{"build.log", branch, machine},
		[]string{"module", "python", ".swp"},
	)
}
