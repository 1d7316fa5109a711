package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

// maxLevenshteinDistance is the maximum edit distance for "did you mean?"
// suggestions when unknown config keys are detected.
const maxLevenshteinDistance = 3

// knownKeys lists the valid keys of each config section.
var knownKeys = map[string][]string{
	"library": {"root"},
	"catalog": {"url", "api_key", "page_size", "lookup_page_size"},
	"remote":  {"endpoint", "accepted_gender"},
	"logging": {"log_level", "log_format", "issue_log"},
	"network": {"timeout", "user_agent"},
	"watch":   {"settle", "pid_file"},
}

// knownSectionsList is the sorted list of section names. Sorted for
// deterministic suggestions when two candidates have the same edit distance.
var knownSectionsList = func() []string {
	sections := make([]string, 0, len(knownKeys))
	for s := range knownKeys {
		sections = append(sections, s)
	}

	sort.Strings(sections)

	return sections
}()

// leafSections maps each leaf key to its section, so a key misplaced at the
// top level can be suggested with its qualified name.
var leafSections = func() map[string]string {
	m := make(map[string]string)
	for section, leaves := range knownKeys {
		for _, leaf := range leaves {
			m[leaf] = section
		}
	}

	return m
}()

// checkUnknownKeys inspects TOML metadata for undecoded keys and returns
// an error with "did you mean?" suggestions for each unknown key. An
// unknown section is reported once, not once per key inside it.
func checkUnknownKeys(md *toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}

	var errs []error

	reported := make(map[string]bool)

	for _, key := range undecoded {
		section := key[0]

		leaves, known := knownKeys[section]
		if !known {
			if !reported[section] {
				reported[section] = true
				errs = append(errs, buildTopLevelKeyError(section))
			}

			continue
		}

		if len(key) < 2 {
			continue
		}

		errs = append(errs, buildSectionKeyError(section, key[1], leaves))
	}

	return errors.Join(errs...)
}

// buildTopLevelKeyError describes an unknown top-level name, suggesting the
// closest section or the qualified form of a misplaced leaf key.
func buildTopLevelKeyError(name string) error {
	candidates := make([]string, 0, len(knownSectionsList)+len(leafSections))
	candidates = append(candidates, knownSectionsList...)

	for leaf := range leafSections {
		candidates = append(candidates, leaf)
	}

	sort.Strings(candidates)

	suggestion := closestMatch(name, candidates)
	if section, ok := leafSections[suggestion]; ok {
		suggestion = section + "." + suggestion
	}

	if suggestion != "" {
		return fmt.Errorf("unknown config key %q; did you mean %q?", name, suggestion)
	}

	return fmt.Errorf("unknown config key %q", name)
}

// buildSectionKeyError describes an unknown key inside a known section.
func buildSectionKeyError(section, field string, leaves []string) error {
	name := section + "." + field

	if suggestion := closestMatch(field, leaves); suggestion != "" {
		return fmt.Errorf("unknown config key %q; did you mean %q?", name, section+"."+suggestion)
	}

	return fmt.Errorf("unknown config key %q", name)
}

// closestMatch finds the closest known key by Levenshtein distance.
// Returns empty string if no match is within maxLevenshteinDistance.
func closestMatch(unknown string, known []string) string {
	best := ""
	bestDist := maxLevenshteinDistance + 1

	for _, k := range known {
		d := levenshtein(unknown, k)
		if d < bestDist {
			bestDist = d
			best = k
		}
	}

	if bestDist <= maxLevenshteinDistance {
		return best
	}

	return ""
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	if a == "" {
		return len(b)
	}

	if b == "" {
		return len(a)
	}

	// Single-row optimization avoids allocating a full matrix.
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := range len(a) {
		curr[0] = i + 1

		for j := range len(b) {
			cost := 1
			if a[i] == b[j] {
				cost = 0
			}

			curr[j+1] = min(curr[j]+1, prev[j+1]+1, prev[j]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(b)]
}
