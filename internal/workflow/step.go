// Package workflow defines the fixed project-splitting workflow: its steps,
// the state detector that derives the current step from filesystem
// checkpoints, and the task model projected onto the external task store.
package workflow

import (
	"regexp"
	"strconv"
)

// Step is a discrete workflow position.
type Step int

// Workflow steps. Step 0 is setup/validation, steps 1-7 are the main
// phases. Steps 3 and 5 happen inline within the preceding resumable step
// and are never a resume point themselves.
const (
	StepSetup               Step = 0
	StepInterview           Step = 1
	StepSplitAnalysis       Step = 2
	StepDependencyDiscovery Step = 3
	StepUserConfirmation    Step = 4
	StepDirectoryCreation   Step = 5
	StepSpecGeneration      Step = 6
	StepComplete            Step = 7
)

var stepNames = map[Step]string{
	StepSetup:               "setup",
	StepInterview:           "interview",
	StepSplitAnalysis:       "split_analysis",
	StepDependencyDiscovery: "dependency_discovery",
	StepUserConfirmation:    "user_confirmation",
	StepDirectoryCreation:   "directory_creation",
	StepSpecGeneration:      "spec_generation",
	StepComplete:            "complete",
}

// String returns the step name.
func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsResumable reports whether the step can be a resume point.
func (s Step) IsResumable() bool {
	return s != StepDependencyDiscovery && s != StepDirectoryCreation
}

// splitDirPattern is the strict pattern for split directories: a two-digit
// index, a hyphen, then kebab-case segments. Examples: "01-backend",
// "12-multi-word-name".
var splitDirPattern = regexp.MustCompile(`^\d{2}-[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsValidSplitDir reports whether a directory name matches the split
// directory pattern.
func IsValidSplitDir(name string) bool {
	return splitDirPattern.MatchString(name)
}

// SplitIndex extracts the numeric index from a valid split directory name.
func SplitIndex(name string) int {
	n, _ := strconv.Atoi(name[:2])
	return n
}
