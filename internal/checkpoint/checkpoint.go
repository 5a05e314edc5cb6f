// Package checkpoint provides the durable session checkpoint for a
// planning directory.
//
// The checkpoint is deliberately minimal: it records only what cannot be
// derived from the filesystem (the original input file hash, for drift
// detection, and a creation timestamp). Workflow progress itself is derived
// from file existence by the workflow package, so a crashed process can
// never leave the checkpoint lying about progress.
package checkpoint

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/randalmurphal/deepsplit/internal/config"
	dserrors "github.com/randalmurphal/deepsplit/internal/errors"
	"github.com/randalmurphal/deepsplit/internal/util"
)

// HashAlgorithm prefixes every stored content hash.
const HashAlgorithm = "sha256"

// Checkpoint is the minimal persisted session state.
// Once created it is immutable; InputFileHash is compared against the live
// file, never updated.
type Checkpoint struct {
	// InputFileHash is the content hash of the originating requirements
	// document, in "<algorithm>:<hex digest>" form.
	InputFileHash string `json:"input_file_hash"`

	// CreatedAt is the RFC 3339 timestamp of checkpoint creation.
	CreatedAt string `json:"created_at"`
}

// New builds a checkpoint for the given input file.
func New(inputFile string) (*Checkpoint, error) {
	hash, err := ComputeFileHash(inputFile)
	if err != nil {
		return nil, fmt.Errorf("hash input file: %w", err)
	}
	return &Checkpoint{
		InputFileHash: hash,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Path returns the checkpoint file path for a planning directory.
func Path(planningDir string) string {
	return filepath.Join(planningDir, config.CheckpointFileName)
}

// Exists reports whether a checkpoint exists for the planning directory.
func Exists(planningDir string) bool {
	_, err := os.Stat(Path(planningDir))
	return err == nil
}

// Load reads the checkpoint for a planning directory.
// Returns (nil, nil) when no checkpoint exists. A checkpoint file that
// exists but cannot be parsed, or that is missing required fields, is a
// distinct corrupted-state error — callers must not conflate it with
// absence.
func Load(planningDir string) (*Checkpoint, error) {
	path := Path(planningDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, dserrors.ErrStateCorrupted(path, err)
	}
	if cp.InputFileHash == "" {
		return nil, dserrors.ErrStateCorrupted(path, fmt.Errorf("missing required field input_file_hash"))
	}

	return &cp, nil
}

// Save persists the checkpoint atomically. Concurrent writers are
// serialized by the write lock; readers see either the old or the new
// checkpoint, never a partial one.
func Save(planningDir string, cp *Checkpoint) error {
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	if err := util.AtomicWriteFile(Path(planningDir), data, 0644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}

// ComputeFileHash computes the content hash of a file as
// "sha256:<hex digest>". Two files with identical bytes hash identically
// regardless of path or name.
func ComputeFileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return fmt.Sprintf("%s:%x", HashAlgorithm, h.Sum(nil)), nil
}

// FileChangedSince compares the live content hash of inputFile against the
// checkpoint for the planning directory. known is false exactly when no
// checkpoint exists yet.
func FileChangedSince(planningDir, inputFile string) (changed bool, known bool, err error) {
	cp, err := Load(planningDir)
	if err != nil {
		return false, false, err
	}
	if cp == nil {
		return false, false, nil
	}

	current, err := ComputeFileHash(inputFile)
	if err != nil {
		return false, true, err
	}
	return current != cp.InputFileHash, true, nil
}
