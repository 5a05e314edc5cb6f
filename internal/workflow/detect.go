package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/randalmurphal/deepsplit/internal/config"
)

// Detection is the workflow state derived from filesystem checkpoints.
type Detection struct {
	InterviewComplete  bool     `json:"interview_complete"`
	ManifestCreated    bool     `json:"manifest_created"`
	DirectoriesCreated bool     `json:"directories_created"`
	Splits             []string `json:"splits"`
	SplitsWithSpecs    []string `json:"splits_with_specs"`
	ResumeStep         Step     `json:"resume_step"`
}

// Detect derives the current workflow state from file existence in the
// planning directory:
//
//   - interview transcript exists       -> interview complete
//   - manifest exists                   -> proposal complete
//   - NN-name/ directories exist        -> user confirmed, output started
//   - NN-name/spec.md for every split   -> complete
//
// The filesystem is the single source of truth: a crashed process can
// never leave this state lying about progress. Directories whose names
// don't match the split pattern are invisible here, not errors.
func Detect(planningDir string) (*Detection, error) {
	interviewComplete := fileExists(filepath.Join(planningDir, config.InterviewFileName))
	manifestCreated := fileExists(filepath.Join(planningDir, config.ManifestFileName))

	entries, err := os.ReadDir(planningDir)
	if err != nil {
		return nil, fmt.Errorf("read planning directory: %w", err)
	}

	splits := []string{}
	for _, entry := range entries {
		if entry.IsDir() && IsValidSplitDir(entry.Name()) {
			splits = append(splits, entry.Name())
		}
	}
	// Numeric index order, not lexicographic: 02 sorts before 10.
	// ReadDir returns names sorted, so equal indexes keep name order.
	sort.SliceStable(splits, func(i, j int) bool {
		return SplitIndex(splits[i]) < SplitIndex(splits[j])
	})

	splitsWithSpecs := []string{}
	for _, s := range splits {
		if fileExists(filepath.Join(planningDir, s, config.SpecFileName)) {
			splitsWithSpecs = append(splitsWithSpecs, s)
		}
	}

	directoriesCreated := len(splits) > 0

	// Decision table, first match wins. Steps 3 and 5 never appear: they
	// run inline within steps 2 and 4.
	var resume Step
	switch {
	case directoriesCreated && len(splitsWithSpecs) == len(splits):
		resume = StepComplete
	case directoriesCreated:
		resume = StepSpecGeneration
	case manifestCreated:
		resume = StepUserConfirmation
	case interviewComplete:
		resume = StepSplitAnalysis
	default:
		resume = StepInterview
	}

	return &Detection{
		InterviewComplete:  interviewComplete,
		ManifestCreated:    manifestCreated,
		DirectoriesCreated: directoriesCreated,
		Splits:             splits,
		SplitsWithSpecs:    splitsWithSpecs,
		ResumeStep:         resume,
	}, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
