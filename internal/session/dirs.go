package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/randalmurphal/deepsplit/internal/config"
	dserrors "github.com/randalmurphal/deepsplit/internal/errors"
	"github.com/randalmurphal/deepsplit/internal/manifest"
)

// DirsResult reports split-directory creation against the manifest.
type DirsResult struct {
	Success bool          `json:"success"`
	Created []string      `json:"created"`
	Skipped []string      `json:"skipped"`
	Splits  []string      `json:"splits,omitempty"`
	Errors  []string      `json:"errors,omitempty"`
	Message string        `json:"message,omitempty"`
	Code    dserrors.Code `json:"code,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// CreateSplitDirs parses the manifest block in the planning directory and
// creates one directory per declared split. Existing directories are left
// untouched and reported as skipped, so the operation is safe to re-run.
func CreateSplitDirs(planningDir string) *DirsResult {
	res := &DirsResult{Created: []string{}, Skipped: []string{}}

	info, err := os.Stat(planningDir)
	if err != nil {
		if os.IsNotExist(err) {
			derr := dserrors.ErrInputInvalid(planningDir, "Planning directory not found")
			res.Code = derr.Code
			res.Error = derr.Error()
			return res
		}
		derr := dserrors.ErrInputInvalid(planningDir, err.Error())
		res.Code = derr.Code
		res.Error = derr.Error()
		return res
	}
	if !info.IsDir() {
		derr := dserrors.ErrInputInvalid(planningDir, "Expected a directory")
		res.Code = derr.Code
		res.Error = derr.Error()
		return res
	}

	manifestPath := filepath.Join(planningDir, config.ManifestFileName)
	parsed := manifest.Parse(manifestPath)
	res.Splits = parsed.Splits
	if !parsed.Valid() {
		res.Errors = parsed.Errors
		derr := dserrors.ErrManifestInvalid(manifestPath, parsed.Errors)
		res.Code = derr.Code
		res.Error = derr.Error()
		return res
	}

	for _, name := range parsed.Splits {
		dir := filepath.Join(planningDir, name)
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			res.Skipped = append(res.Skipped, name)
			continue
		}
		if err := os.Mkdir(dir, 0o755); err != nil {
			derr := dserrors.ErrWriteFailed(fmt.Sprintf("create split directory %s", name), err)
			res.Code = derr.Code
			res.Error = derr.Error()
			return res
		}
		res.Created = append(res.Created, name)
	}

	res.Success = true
	res.Message = fmt.Sprintf("Created %d split directories (%d already existed)",
		len(res.Created), len(res.Skipped))
	return res
}
