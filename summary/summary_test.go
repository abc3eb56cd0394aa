package summary

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	results := []Result{
		{Branch: "branchA", Test: "t1", Status: StatusPass, Duration: 1.0},
		{Branch: "branchA", Test: "t2", Status: StatusFail, Duration: 2.0},
		{Branch: "branchB", Test: "t3", Status: StatusPass, Duration: 0.5},
	}

	summaries, err := Build(results)
	require.NoError(t, err)
	require.Equal(t, []BranchSummary{
		{Branch: "branchA", Passed: 1, Failed: 1, Duration: 3.0},
		{Branch: "branchB", Passed: 1, Duration: 0.5},
	}, summaries)
}

func TestBuild_EmptyInput(t *testing.T) {
	summaries, err := Build(nil)
	require.NoError(t, err)
	require.Empty(t, summaries)

	summaries, err = Build([]Result{})
	require.NoError(t, err)
	require.Empty(t, summaries)
}

func TestBuild_InvalidStatus(t *testing.T) {
	summaries, err := Build([]Result{
		{Branch: "develop", Test: "t1", Status: StatusPass},
		{Branch: "develop", Test: "t2", Status: Status("unknown")},
	})
	require.ErrorIs(t, err, ErrInvalidRecord)
	require.Nil(t, summaries)
}

func TestBuild_NegativeDuration(t *testing.T) {
	summaries, err := Build([]Result{
		{Branch: "develop", Test: "t1", Status: StatusPass, Duration: -0.1},
	})
	require.ErrorIs(t, err, ErrInvalidRecord)
	require.Nil(t, summaries)
}

func TestBuild_CountsSumToInputLength(t *testing.T) {
	statuses := []Status{StatusPass, StatusFail, StatusSkip}
	branches := []string{"develop", "main", "feature/io", "release/8.4"}

	rng := rand.New(rand.NewSource(42))
	var results []Result
	for i := 0; i < 500; i++ {
		results = append(results, Result{
			Branch:   branches[rng.Intn(len(branches))],
			Test:     "t",
			Status:   statuses[rng.Intn(len(statuses))],
			Duration: rng.Float64(),
		})
	}

	summaries, err := Build(results)
	require.NoError(t, err)

	total := 0
	for _, s := range summaries {
		total += s.Total()
	}
	require.Equal(t, len(results), total)
}

func TestBuild_OrderIndependent(t *testing.T) {
	results := []Result{
		{Branch: "b", Test: "t1", Status: StatusPass, Duration: 1.5},
		{Branch: "a", Test: "t2", Status: StatusSkip, Duration: 0.25},
		{Branch: "a", Test: "t3", Status: StatusFail, Duration: 0.75},
		{Branch: "c", Test: "t4", Status: StatusPass, Duration: 2.0},
	}

	want, err := Build(results)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffled := make([]Result, len(results))
		copy(shuffled, results)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got, err := Build(shuffled)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestBuild_SortedByBranch(t *testing.T) {
	summaries, err := Build([]Result{
		{Branch: "zeta", Status: StatusPass},
		{Branch: "alpha", Status: StatusPass},
		{Branch: "mid", Status: StatusSkip},
	})
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	require.Equal(t, "alpha", summaries[0].Branch)
	require.Equal(t, "mid", summaries[1].Branch)
	require.Equal(t, "zeta", summaries[2].Branch)
}
