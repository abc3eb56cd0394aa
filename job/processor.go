// Package job drives a summarization run: it permutes machines and
// branches into job requests, compiles test results for the most recent
// release hashes of each pair, archives them and publishes the rendered
// summaries.
package job

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/esmf-org/esmf-branch-summary/archive"
	"github.com/esmf-org/esmf-branch-summary/artifacts"
	"github.com/esmf-org/esmf-branch-summary/git"
	"github.com/esmf-org/esmf-branch-summary/model"
	"github.com/esmf-org/esmf-branch-summary/render"
)

// Gateway bundles the external collaborators a Processor needs.
type Gateway struct {
	Artifacts *git.Git
	Summaries *git.Git
	Archive   *archive.Archive
	Compass   Compass
}

// Processor aggregates and summarizes processing jobs.
type Processor struct {
	logger      zerolog.Logger
	machines    []string
	branches    []string
	increments  int
	upstreamURL string
	skipPush    bool
	gw          Gateway
}

// New returns a Processor over machines and branches. When branches is
// empty they are discovered from the upstream repository at upstreamURL.
// increments is how many recent hashes to compile per machine/branch pair.
func New(logger zerolog.Logger, machines, branches []string, increments int, upstreamURL string, skipPush bool, gw Gateway) *Processor {
	return &Processor{
		logger:      logger,
		machines:    machines,
		branches:    branches,
		increments:  increments,
		upstreamURL: upstreamURL,
		skipPush:    skipPush,
		gw:          gw,
	}
}

// Branches returns the branches to summarize, discovering them from the
// upstream repository when none were configured. When ls-remote fails
// (offline mirrors), branch names are recovered from the artifact commit
// log instead.
func (p *Processor) Branches() ([]string, error) {
	if len(p.branches) > 0 {
		return p.branches, nil
	}
	if err := p.gw.Artifacts.Fetch(); err != nil {
		return nil, fmt.Errorf("failed to fetch artifacts repository: %w", err)
	}
	branches, err := p.gw.Artifacts.Snapshot(p.upstreamURL)
	if err != nil {
		p.logger.Debug().Err(err).Msg("Snapshot failed, parsing branch names from git log")
		branches, err = p.branchesFromLog()
		if err != nil {
			return nil, err
		}
	}
	p.branches = branches
	return p.branches, nil
}

// Artifact commits are titled like:
//
//	update for test of gfortran_8.3.0_mpiuni_O_develop with hash v8.3.0b08-5-g64eb133 on discover
//
// The branch name sits between the optimization flag and "with".
var logLineBranchPattern = regexp.MustCompile(`(_[Og]_)(.*)(\swith.*)`)

func extractBranchFromLogLine(line string) string {
	match := logLineBranchPattern.FindStringSubmatch(line)
	if match == nil {
		return ""
	}
	return match[2]
}

func (p *Processor) branchesFromLog() ([]string, error) {
	out, err := p.gw.Artifacts.Log("--all")
	if err != nil {
		return nil, fmt.Errorf("failed to read artifacts log: %w", err)
	}
	seen := make(map[string]struct{})
	var branches []string
	for _, line := range strings.Split(out, "\n") {
		branch := extractBranchFromLogLine(line)
		if branch == "" {
			continue
		}
		if _, ok := seen[branch]; ok {
			continue
		}
		seen[branch] = struct{}{}
		branches = append(branches, branch)
	}
	return branches, nil
}

// Jobs returns one request per machine/branch permutation.
func (p *Processor) Jobs() ([]model.JobRequest, error) {
	branches, err := p.Branches()
	if err != nil {
		return nil, err
	}
	return Permutations(p.machines, branches, p.increments), nil
}

// Permutations pairs every machine with every branch.
func Permutations(machines, branches []string, qty int) []model.JobRequest {
	jobs := make([]model.JobRequest, 0, len(machines)*len(branches))
	for _, machine := range machines {
		for _, branch := range branches {
			jobs = append(jobs, model.JobRequest{MachineName: machine, BranchName: branch, Qty: qty})
		}
	}
	return jobs
}

// Run processes every job, then publishes the run log and archive
// database to the summaries repository.
func (p *Processor) Run() error {
	jobs, err := p.Jobs()
	if err != nil {
		return err
	}
	for _, j := range jobs {
		if err := p.generateSummaries(j); err != nil {
			return fmt.Errorf("job %s/%s: %w", j.BranchName, j.MachineName, err)
		}
		p.logger.Info().
			Str("branch", j.BranchName).
			Str("machine", j.MachineName).
			Msg("Finished summaries")
	}

	p.logger.Debug().Msg("Pushing to summary repository")
	if err := p.copyRunFilesToSummaries(); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to copy run files into summaries repository")
	}
	if err := p.gw.Summaries.Add(""); err != nil {
		return err
	}
	if err := p.gw.Summaries.Commit("updating test artifacts"); err != nil {
		return err
	}
	if p.skipPush {
		p.logger.Info().Msg("Skipping push")
		return nil
	}
	return p.gw.Summaries.Push("origin", "")
}

func (p *Processor) copyRunFilesToSummaries() error {
	for _, name := range []string{p.gw.Compass.LogPath(), p.gw.Compass.ArchivePath()} {
		if err := copyFile(name, filepath.Join(p.gw.Compass.SummariesPath, filepath.Base(name))); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

// generateSummaries compiles and publishes summaries for every recent
// hash of the job's machine/branch pair.
func (p *Processor) generateSummaries(j model.JobRequest) error {
	p.logger.Info().
		Str("branch", j.BranchName).
		Str("machine", j.MachineName).
		Msg("Generating summaries")

	p.logger.Debug().Str("machine", j.MachineName).Msg("Checking out machine branch")
	if err := p.gw.Artifacts.Checkout(j.MachineName); err != nil {
		return err
	}
	if err := p.gw.Artifacts.Pull("origin", ""); err != nil {
		return err
	}

	hashes, err := p.recentBranchHashes(j)
	if err != nil {
		return err
	}
	for idx, hash := range hashes {
		rows, err := p.generateSummary(hash, j)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			p.logger.Info().
				Str("hash", hash).
				Str("branch", j.BranchName).
				Str("machine", j.MachineName).
				Msg("Missing summary data")
			continue
		}
		if err := p.sendSummary(j, rows, hash, idx == 0); err != nil {
			return err
		}
	}
	return nil
}

// recentBranchHashes returns the most recent release hashes for the
// job's branch on its machine, newest first, capped at the job quantity.
func (p *Processor) recentBranchHashes(j model.JobRequest) ([]string, error) {
	out, err := p.gw.Artifacts.Log("--format=%B", "origin/"+j.MachineName)
	if err != nil {
		return nil, fmt.Errorf("failed to read log for %s: %w", j.MachineName, err)
	}
	branchDir := model.SanitizeBranchName(j.BranchName)

	var candidates []string
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, branchDir) || !strings.Contains(line, j.MachineName) {
			continue
		}
		candidates = append(candidates, artifacts.ParseHash(line))
	}
	hashes := artifacts.UniqueHashes(candidates)
	if j.Qty > 0 && len(hashes) > j.Qty {
		hashes = hashes[:j.Qty]
	}
	return hashes, nil
}

// generateSummary compiles the test result rows for one hash of a job.
func (p *Processor) generateSummary(hash string, j model.JobRequest) ([]model.TestResult, error) {
	p.logger.Debug().Str("hash", hash).Msg("Generating summary")
	branchDir := model.SanitizeBranchName(j.BranchName)
	root := p.gw.Compass.ArtifactsPath

	logs, err := artifacts.MatchingBuildLogs(root, hash, branchDir, j.MachineName)
	if err != nil {
		return nil, err
	}
	p.logger.Debug().Int("count", len(logs)).Msg("Matching build logs")
	if len(logs) == 0 {
		p.logger.Warn().Str("hash", hash).Msg("No build.log found, no build data can be collected")
	}

	summaries, err := artifacts.MatchingSummaries(root, hash, branchDir, j.MachineName)
	if err != nil {
		return nil, err
	}
	p.logger.Debug().Int("count", len(summaries)).Msg("Matching summary files")
	if len(summaries) == 0 {
		p.logger.Warn().Str("hash", hash).Msg("No summary.dat found, no test data can be collected")
	}

	buildPassing := artifacts.BuildPassingResults(p.logger, logs)
	p.logger.Debug().Msg("Finished reading logs")

	return p.compileTestResults(summaries, buildPassing, hash)
}

// compileTestResults parses each summary file and joins it against the
// build results and the commit history of the file itself.
func (p *Processor) compileTestResults(summaryPaths []string, buildPassing map[model.JobAttributes]bool, hash string) ([]model.TestResult, error) {
	var rows []model.TestResult
	for _, path := range summaryPaths {
		row, err := artifacts.ParseSummaryFile(p.logger, path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		row.BuildPassed = buildPassing[row.Attributes()]
		row.BranchHash = hash

		rel, err := filepath.Rel(p.gw.Compass.ArtifactsPath, path)
		if err != nil {
			rel = path
		}
		commit, err := p.gw.Artifacts.LastCommitOf(rel)
		if err != nil {
			p.logger.Warn().Err(err).Str("file", path).Msg("Cannot determine artifact commit")
		}
		row.ArtifactsHash = commit

		rows = append(rows, row)
	}
	return rows, nil
}

// sendSummary archives rows and commits the rendered files for one hash
// to the summaries repository.
func (p *Processor) sendSummary(j model.JobRequest, rows []model.TestResult, hash string, isLatest bool) error {
	branchPath, err := p.gw.Compass.BranchPath(model.SanitizeBranchName(j.BranchName))
	if err != nil {
		return err
	}
	pathPrefix := filepath.Join(branchPath, hash)

	count, err := p.gw.Archive.InsertRows(rows)
	if err != nil {
		return fmt.Errorf("failed to archive rows: %w", err)
	}
	p.logger.Info().Int("rows", count).Str("hash", hash).Msg("Archived rows")

	if err := p.writeFiles(hash, pathPrefix, isLatest); err != nil {
		return err
	}

	p.logger.Debug().Msg("Adding modified summary files")
	if err := p.gw.Summaries.Add(""); err != nil {
		return err
	}
	if err := p.gw.Summaries.Commit(CommitMessage(j.BranchName, hash)); err != nil {
		return err
	}

	p.logger.Info().
		Str("branch", j.BranchName).
		Str("machine", j.MachineName).
		Str("hash", hash).
		Msg("Finished summary")
	return nil
}

// writeFiles renders the archived rows for hash as markdown and CSV.
func (p *Processor) writeFiles(hash, pathPrefix string, isLatest bool) error {
	p.logger.Debug().Str("prefix", pathPrefix).Msg("Writing summary files")
	rows, err := p.gw.Archive.FetchRowsByHash(hash)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		p.logger.Warn().Msg("No new summary data collected")
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(pathPrefix), 0755); err != nil {
		return fmt.Errorf("failed to create summary directory: %w", err)
	}
	if isLatest {
		if err := render.WriteLatest(rows, pathPrefix); err != nil {
			return err
		}
	}
	if err := render.WriteMarkdown(rows, pathPrefix); err != nil {
		return err
	}
	return render.WriteCSV(rows, pathPrefix)
}

// CommitMessage is the canned message for summary commits.
func CommitMessage(branchName, hash string) string {
	return fmt.Sprintf("updated summary for hash %s on %s", hash, branchName)
}
