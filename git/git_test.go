package git

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGitError(t *testing.T) {
	cause := errors.New("exit status 128")
	err := &GitError{
		Args:   []string{"checkout", "missing"},
		Stderr: "error: pathspec 'missing' did not match any file(s)\n",
		Err:    cause,
	}
	require.Equal(t, "git checkout missing: error: pathspec 'missing' did not match any file(s)", err.Error())
	require.ErrorIs(t, err, cause)
}

func TestStderrOf(t *testing.T) {
	require.Equal(t, "boom", stderrOf(&GitError{Stderr: "boom"}))
	require.Equal(t, "", stderrOf(errors.New("plain")))
}
