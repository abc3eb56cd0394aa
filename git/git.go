// Package git wraps the git CLI for the repository operations the
// summarizer needs. Commands run with exec and surface stderr through
// *GitError so callers can decide what is fatal.
package git

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/rs/zerolog"
)

// Stderr lines that are reported by git as errors but are expected during
// normal operation. These downgrade to a warning instead of failing.
var toleratedWarnings = []string{
	"not something we can merge",
}

// GitError wraps a failed git invocation with its captured stderr.
type GitError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *GitError) Error() string {
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), strings.TrimSpace(e.Stderr))
}

func (e *GitError) Unwrap() error {
	return e.Err
}

// Git runs git commands against a single repository working tree.
type Git struct {
	logger   zerolog.Logger
	RepoPath string
}

// New returns a Git bound to the repository at repoPath.
func New(logger zerolog.Logger, repoPath string) *Git {
	return &Git{logger: logger, RepoPath: repoPath}
}

// Clone clones url into targetPath (shallow, depth 500, matching the
// amount of history the hash scan needs) and returns a Git bound to it.
func Clone(logger zerolog.Logger, url, targetPath string) (*Git, error) {
	if err := os.MkdirAll(targetPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create clone directory: %w", err)
	}
	g := New(logger, targetPath)
	if _, err := g.run("clone", "--depth=500", url, targetPath); err != nil {
		// Cloning into an existing checkout is how repeated runs reuse
		// their workspace; anything else is fatal.
		if strings.Contains(stderrOf(err), "already exists and is not an empty directory") {
			logger.Debug().Str("path", targetPath).Msg("Reusing existing clone")
			return g, nil
		}
		return nil, err
	}
	return g, nil
}

func stderrOf(err error) string {
	if gitErr, ok := err.(*GitError); ok {
		return gitErr.Stderr
	}
	return ""
}

// run executes git with args in the repository directory. On a non-zero
// exit it returns stdout plus a *GitError, unless stderr only contains a
// tolerated warning.
func (g *Git) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.RepoPath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	g.logger.Debug().
		Str("dir", g.RepoPath).
		Str("cmd", shellescape.QuoteCommand(append([]string{"git"}, args...))).
		Msg("Running git command")

	if err := cmd.Run(); err != nil {
		for _, warning := range toleratedWarnings {
			if strings.Contains(stderr.String(), warning) {
				g.logger.Warn().Str("stderr", strings.TrimSpace(stderr.String())).Msg("Tolerated git warning")
				return stdout.String(), nil
			}
		}
		return stdout.String(), &GitError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return stdout.String(), nil
}

// Fetch runs git fetch.
func (g *Git) Fetch() error {
	_, err := g.run("fetch")
	return err
}

// Checkout checks out branchName.
func (g *Git) Checkout(branchName string) error {
	_, err := g.run("checkout", branchName)
	return err
}

// CheckoutFile checks out pathSpec from branchName into the working tree.
func (g *Git) CheckoutFile(branchName, pathSpec string) error {
	_, err := g.run("checkout", branchName, "--", pathSpec)
	return err
}

// Pull pulls branch (or the current branch when empty) from remote.
func (g *Git) Pull(remote, branch string) error {
	args := []string{"pull", remote}
	if branch != "" {
		args = append(args, branch)
	}
	_, err := g.run(args...)
	return err
}

// Push pushes branch (or the current branch when empty) to remote.
func (g *Git) Push(remote, branch string) error {
	args := []string{"push", remote}
	if branch != "" {
		args = append(args, branch)
	}
	_, err := g.run(args...)
	return err
}

// Add stages path, or everything when path is empty.
func (g *Git) Add(path string) error {
	args := []string{"add", "--all"}
	if path != "" {
		args = []string{"add", path}
	}
	_, err := g.run(args...)
	return err
}

// Commit commits staged changes with message. A commit with nothing
// staged is not an error; git reports it on stdout and exits non-zero,
// which the tolerated-warning path does not cover, so it is checked here.
func (g *Git) Commit(message string) error {
	out, err := g.run("commit", "-m", message)
	if err != nil && strings.Contains(out, "nothing to commit") {
		g.logger.Debug().Msg("Nothing to commit")
		return nil
	}
	return err
}

// Merge merges ref into the current branch.
func (g *Git) Merge(ref string) error {
	_, err := g.run("merge", ref)
	return err
}

// Rebase rebases the current branch onto origin/branchName.
func (g *Git) Rebase(branchName string) error {
	_, err := g.run("rebase", "origin/"+branchName)
	return err
}

// Log returns the raw output of git log with args.
func (g *Git) Log(args ...string) (string, error) {
	return g.run(append([]string{"log"}, args...)...)
}

// Snapshot lists the branch names currently present on the remote at url,
// via ls-remote --heads --refs.
func (g *Git) Snapshot(url string) ([]string, error) {
	out, err := g.run("ls-remote", "--heads", "--refs", url)
	if err != nil {
		return nil, err
	}
	var branches []string
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		branches = append(branches, strings.TrimPrefix(fields[1], "refs/heads/"))
	}
	return branches, nil
}

// LastCommitOf returns the most recent commit hash touching path, or an
// empty string when the path has no history.
func (g *Git) LastCommitOf(path string) (string, error) {
	out, err := g.Log("--format=%H", "--", path)
	if err != nil {
		return "", err
	}
	lines := strings.SplitN(out, "\n", 2)
	return strings.TrimSpace(lines[0]), nil
}
