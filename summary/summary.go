// Package summary aggregates individual test results into per-branch
// rollups. It is a pure function over its input: no IO, no shared state,
// safe to call concurrently on independent inputs.
package summary

import (
	"errors"
	"fmt"
	"sort"
)

// Status is the outcome of a single test execution.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// ErrInvalidRecord is returned when a result carries an unrecognized
// status or a negative duration. A single invalid record aborts the whole
// aggregation; there are no partial results.
var ErrInvalidRecord = errors.New("invalid record")

// Result is a single test execution outcome on a branch.
type Result struct {
	// Branch the test ran against
	Branch string
	// Test name
	Test string
	// Outcome of the execution
	Status Status
	// Duration in seconds
	Duration float64
}

// BranchSummary holds the aggregated outcome counts for one branch.
// It is derived entirely from the Result set sharing its branch name.
type BranchSummary struct {
	Branch   string
	Passed   int
	Failed   int
	Skipped  int
	Duration float64
}

// Total returns the number of results aggregated into the summary.
func (s BranchSummary) Total() int {
	return s.Passed + s.Failed + s.Skipped
}

// Build groups results by branch name, counts each status and sums
// durations. Output is sorted by branch name ascending. An empty input
// yields an empty output. The aggregation is order-independent.
func Build(results []Result) ([]BranchSummary, error) {
	byBranch := make(map[string]*BranchSummary)
	for i, r := range results {
		if err := validate(r); err != nil {
			return nil, fmt.Errorf("record %d (branch %q, test %q): %w", i, r.Branch, r.Test, err)
		}
		s, ok := byBranch[r.Branch]
		if !ok {
			s = &BranchSummary{Branch: r.Branch}
			byBranch[r.Branch] = s
		}
		switch r.Status {
		case StatusPass:
			s.Passed++
		case StatusFail:
			s.Failed++
		case StatusSkip:
			s.Skipped++
		}
		s.Duration += r.Duration
	}

	summaries := make([]BranchSummary, 0, len(byBranch))
	for _, s := range byBranch {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Branch < summaries[j].Branch
	})
	return summaries, nil
}

func validate(r Result) error {
	switch r.Status {
	case StatusPass, StatusFail, StatusSkip:
	default:
		return fmt.Errorf("%w: unrecognized status %q", ErrInvalidRecord, r.Status)
	}
	if r.Duration < 0 {
		return fmt.Errorf("%w: negative duration %f", ErrInvalidRecord, r.Duration)
	}
	return nil
}
