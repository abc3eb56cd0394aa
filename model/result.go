package model

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// Count sentinels stored in the archive. Suites that have not reported
// yet carry CountQueued; count lines that could not be parsed carry
// CountInvalid.
const (
	CountQueued  = -1
	CountInvalid = -2
)

// TestResult is one compiled result row: a single (branch, host, compiler,
// mpi, optimization) combination at a given branch hash.
type TestResult struct {
	Branch          string
	Host            string
	Compiler        string
	CompilerVersion string
	Mpi             string
	MpiVersion      string
	Optimization    string
	OS              string

	UnitPass    int
	UnitFail    int
	SystemPass  int
	SystemFail  int
	ExamplePass int
	ExampleFail int
	NuopcPass   int
	NuopcFail   int

	BuildPassed bool

	// Commit of the artifact files this row was compiled from
	ArtifactsHash string
	// Release hash the row belongs to (e.g. ESMF_8_4_0_beta_snapshot_01-8-g...)
	BranchHash string
}

// Attributes returns the identifying attributes of the row, usable as a
// map key when joining build logs against summary files.
func (r TestResult) Attributes() JobAttributes {
	return JobAttributes{
		Branch:          strings.ToLower(r.Branch),
		Host:            strings.ToLower(r.Host),
		Compiler:        strings.ToLower(r.Compiler),
		CompilerVersion: strings.ToLower(r.CompilerVersion),
		Optimization:    strings.ToLower(r.Optimization),
		Mpi:             strings.ToLower(r.Mpi),
		MpiVersion:      strings.ToLower(r.MpiVersion),
	}
}

// ID derives the archive primary key from the identifying columns plus the
// branch hash, so re-running a summary replaces rather than duplicates rows.
func (r TestResult) ID() string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s%s%s%s%s%s%s%s%s",
		r.Branch, r.Host, r.OS, r.Compiler, r.CompilerVersion,
		r.Mpi, strings.ToLower(r.MpiVersion), r.Optimization, r.BranchHash)))
	return hex.EncodeToString(sum[:])
}

// JobRequest is one unit of summarization work: a machine/branch pair and
// how many recent hashes to compile.
type JobRequest struct {
	MachineName string
	BranchName  string
	Qty         int
}

// JobAttributes identifies a build/test combination by the attributes
// encoded in artifact paths. Comparable so it can key a map.
type JobAttributes struct {
	Branch          string
	Host            string
	Compiler        string
	CompilerVersion string
	Optimization    string
	Mpi             string
	MpiVersion      string
}

// SanitizeBranchName converts a git branch name into the directory form
// used by the artifact and summary repositories.
func SanitizeBranchName(name string) string {
	return strings.ReplaceAll(name, "/", "_")
}
