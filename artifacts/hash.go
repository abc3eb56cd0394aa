package artifacts

import "regexp"

// Release hashes appear in commit subjects either as snapshot tags
// (ESMF_8_4_0_beta_snapshot_01-8-g1a2b3c4) or as version tags
// (v8.3.0b08-5-g64eb133).
var hashPatterns = []*regexp.Regexp{
	regexp.MustCompile(`ESMF_\S*`),
	regexp.MustCompile(`v\S*\.\S*\.\S*`),
}

// ParseHash extracts the release hash from a commit subject line, or
// returns an empty string when the line does not carry one.
func ParseHash(line string) string {
	for _, pattern := range hashPatterns {
		if match := pattern.FindString(line); match != "" {
			return match
		}
	}
	return ""
}

// UniqueHashes drops empty values and duplicates while preserving the
// order of first appearance, newest first as git log emits them.
func UniqueHashes(hashes []string) []string {
	seen := make(map[string]struct{}, len(hashes))
	var unique []string
	for _, h := range hashes {
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		unique = append(unique, h)
	}
	return unique
}
