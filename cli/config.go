package cli

// This file provides support for loading run configuration from a YAML
// file, with flags overriding file values and built-in defaults covering
// the rest.

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Config is the run configuration for a summarization.
type Config struct {
	// Machines whose artifact branches are scanned
	Machines []string `yaml:"machines"`
	// Branches to summarize; empty means all branches of the upstream repo
	Branches []string `yaml:"branches"`
	// Upstream repository used to discover branch names
	UpstreamRepo string `yaml:"upstream_repo"`
	// Repository the rendered summaries are pushed to
	SummariesRepo string `yaml:"summaries_repo"`
	// Number of recent hashes to compile per machine/branch pair
	HistoryIncrements int `yaml:"history_increments"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	machines := []string{
		"cheyenne",
		"hera",
		"orion",
		"jet",
		"gaea",
		"discover",
		"chianti",
		"acorn",
		"gaffney",
		"izumi",
		"koehr",
		"onyx",
	}
	sort.Strings(machines)
	return Config{
		Machines:          machines,
		UpstreamRepo:      "https://github.com/esmf-org/esmf",
		SummariesRepo:     "git@github.com:esmf-org/esmf-test-summary.git",
		HistoryIncrements: 1,
	}
}

// LoadConfig reads a YAML config from path, falling back to defaults for
// fields the file does not set. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}
