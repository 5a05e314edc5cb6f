// Package naming builds validated split directory names.
package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	dserrors "github.com/randalmurphal/deepsplit/internal/errors"
	"github.com/randalmurphal/deepsplit/internal/workflow"
)

// MaxNameLength caps the kebab-case portion of a directory name.
const MaxNameLength = 50

var (
	disallowedChars = regexp.MustCompile(`[^a-z0-9-]`)
	multiHyphen     = regexp.MustCompile(`-+`)
)

// ToKebabCase converts a free-text name to strict kebab-case: lowercase,
// spaces and underscores become hyphens, everything else non-alphanumeric
// is dropped, runs of hyphens collapse, and the result is trimmed and
// truncated to MaxNameLength.
func ToKebabCase(name string) string {
	result := strings.ToLower(name)
	result = strings.ReplaceAll(result, " ", "-")
	result = strings.ReplaceAll(result, "_", "-")
	result = disallowedChars.ReplaceAllString(result, "")
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	if len(result) > MaxNameLength {
		result = strings.TrimRight(result[:MaxNameLength], "-")
	}
	return result
}

// NextIndex returns the next available split index for a planning
// directory: max existing index + 1, or 1 when no split directories exist.
// A gap in the sequence is not reused.
func NextIndex(planningDir string) (int, error) {
	entries, err := os.ReadDir(planningDir)
	if err != nil {
		return 0, fmt.Errorf("read planning directory: %w", err)
	}

	max := 0
	for _, entry := range entries {
		if entry.IsDir() && workflow.IsValidSplitDir(entry.Name()) {
			if idx := workflow.SplitIndex(entry.Name()); idx > max {
				max = idx
			}
		}
	}
	return max + 1, nil
}

// FormatSplitDirName builds a "<NN>-<kebab>" directory name from an index
// and a free-text name.
func FormatSplitDirName(index int, name string) (string, error) {
	if index < 1 || index > 99 {
		return "", dserrors.ErrNameInvalid(fmt.Sprintf("split index must be 1-99, got %d", index))
	}
	kebab := ToKebabCase(name)
	if kebab == "" {
		return "", dserrors.ErrNameInvalid(fmt.Sprintf("name %q is empty after sanitization", name))
	}
	return fmt.Sprintf("%02d-%s", index, kebab), nil
}

// UniqueName returns a split directory name that does not collide with an
// existing entry in the planning directory, appending a numeric suffix
// (-2, -3, ...) when needed.
func UniqueName(planningDir string, index int, baseName string) (string, error) {
	base, err := FormatSplitDirName(index, baseName)
	if err != nil {
		return "", err
	}

	if !exists(planningDir, base) {
		return base, nil
	}
	for suffix := 2; suffix < 100; suffix++ {
		candidate := fmt.Sprintf("%s-%d", base, suffix)
		if !exists(planningDir, candidate) {
			return candidate, nil
		}
	}
	return "", dserrors.ErrNameInvalid(
		fmt.Sprintf("cannot generate unique name for index %d, name %q", index, baseName))
}

func exists(planningDir, name string) bool {
	_, err := os.Stat(filepath.Join(planningDir, name))
	return err == nil
}
