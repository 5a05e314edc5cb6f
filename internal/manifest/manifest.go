// Package manifest parses the SPLIT_MANIFEST block from a
// project-manifest.md file.
package manifest

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/randalmurphal/deepsplit/internal/workflow"
)

// blockPattern extracts the SPLIT_MANIFEST comment block.
var blockPattern = regexp.MustCompile(`(?s)<!--\s*SPLIT_MANIFEST\s*\n(.*?)\nEND_MANIFEST\s*-->`)

// Parsed is the result of parsing a manifest file.
type Parsed struct {
	// Splits are the validated split names, in manifest order.
	Splits []string `json:"splits"`
	// Errors holds validation problems; empty means the manifest is valid.
	Errors []string `json:"errors"`
}

// Valid reports whether the manifest parsed without errors.
func (p *Parsed) Valid() bool {
	return len(p.Errors) == 0
}

func parseError(message string) *Parsed {
	return &Parsed{Splits: []string{}, Errors: []string{message}}
}

// Parse extracts and validates the SPLIT_MANIFEST block.
//
// Each non-empty line inside the block must be a valid split directory
// name. Duplicate indices are errors; non-sequential indices are reported
// as well so the host can ask for a corrected manifest.
func Parse(manifestPath string) *Parsed {
	content, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return parseError(fmt.Sprintf("Manifest file not found: %s", manifestPath))
		}
		return parseError(fmt.Sprintf("Cannot read manifest: %v", err))
	}

	match := blockPattern.FindSubmatch(content)
	if match == nil {
		return parseError(
			"No SPLIT_MANIFEST block found. Expected format:\n" +
				"<!-- SPLIT_MANIFEST\n01-name\n02-name\nEND_MANIFEST -->")
	}

	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(string(match[1])), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return parseError("SPLIT_MANIFEST block is empty")
	}

	splits := []string{}
	errors := []string{}
	for _, line := range lines {
		if !workflow.IsValidSplitDir(line) {
			errors = append(errors, fmt.Sprintf(
				"Invalid split name '%s': must match pattern NN-kebab-case (e.g., 01-backend, 02-api-gateway)", line))
			continue
		}
		splits = append(splits, line)
	}

	// Duplicate indices
	seen := make(map[int]bool)
	indices := make([]int, 0, len(splits))
	for _, s := range splits {
		idx := workflow.SplitIndex(s)
		indices = append(indices, idx)
		if seen[idx] {
			errors = append(errors, fmt.Sprintf("Duplicate index %02d in split '%s'", idx, s))
		}
		seen[idx] = true
	}

	// Sequential-from-01 check, only when otherwise clean
	if len(splits) > 0 && len(errors) == 0 {
		sorted := append([]int(nil), indices...)
		sort.Ints(sorted)
		sequential := true
		for i, idx := range sorted {
			if idx != i+1 {
				sequential = false
				break
			}
		}
		if !sequential {
			found := make([]string, len(sorted))
			for i, idx := range sorted {
				found[i] = fmt.Sprintf("%02d", idx)
			}
			errors = append(errors, fmt.Sprintf(
				"Split indices should be sequential starting from 01. Found: [%s]",
				strings.Join(found, " ")))
		}
	}

	return &Parsed{Splits: splits, Errors: errors}
}
