// Package errors provides structured error types for deepsplit.
package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Code represents a unique error code.
type Code string

// Error codes for deepsplit.
const (
	// Input validation errors
	CodeInputInvalid Code = "INPUT_INVALID"

	// Persisted state errors
	CodeStateCorrupted Code = "STATE_CORRUPTED"

	// Manifest and naming errors
	CodeManifestInvalid Code = "MANIFEST_INVALID"
	CodeNameInvalid     Code = "NAME_INVALID"

	// Task store errors
	CodeNoTaskList    Code = "NO_TASK_LIST"
	CodeTasksConflict Code = "TASKS_CONFLICT"
	CodeWriteFailed   Code = "WRITE_FAILED"
)

// Category groups error codes by failure mode.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryValidation
	CategoryCorruption
	CategoryConflict
	CategoryMissing
	CategoryIO
)

// codeCategories maps error codes to their categories.
var codeCategories = map[Code]Category{
	CodeInputInvalid:    CategoryValidation,
	CodeStateCorrupted:  CategoryCorruption,
	CodeManifestInvalid: CategoryValidation,
	CodeNameInvalid:     CategoryValidation,
	CodeNoTaskList:      CategoryMissing,
	CodeTasksConflict:   CategoryConflict,
	CodeWriteFailed:     CategoryIO,
}

// DeepError is the structured error type for deepsplit.
type DeepError struct {
	Code  Code   `json:"code"`
	What  string `json:"what"`
	Why   string `json:"why,omitempty"`
	Fix   string `json:"fix,omitempty"`
	Cause error  `json:"-"`
}

// Error implements the error interface.
func (e *DeepError) Error() string {
	var b strings.Builder
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString(": ")
		b.WriteString(e.Why)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *DeepError) Unwrap() error {
	return e.Cause
}

// UserMessage returns a user-friendly message for CLI output.
func (e *DeepError) UserMessage() string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString("\n\nWhy: ")
		b.WriteString(e.Why)
	}
	if e.Fix != "" {
		b.WriteString("\n\nFix: ")
		b.WriteString(e.Fix)
	}
	return b.String()
}

// Category returns the error category.
func (e *DeepError) Category() Category {
	if cat, ok := codeCategories[e.Code]; ok {
		return cat
	}
	return CategoryUnknown
}

// MarshalJSON implements json.Marshaler.
func (e *DeepError) MarshalJSON() ([]byte, error) {
	type alias DeepError
	aux := struct {
		*alias
		CauseMsg string `json:"cause,omitempty"`
	}{
		alias: (*alias)(e),
	}
	if e.Cause != nil {
		aux.CauseMsg = e.Cause.Error()
	}
	return json.Marshal(aux)
}

// Is reports whether target is a DeepError with the same code.
func (e *DeepError) Is(target error) bool {
	t, ok := target.(*DeepError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause.
func (e *DeepError) WithCause(err error) *DeepError {
	return &DeepError{
		Code:  e.Code,
		What:  e.What,
		Why:   e.Why,
		Fix:   e.Fix,
		Cause: err,
	}
}

// --- Error constructors ---

// ErrInputInvalid returns an error for an unusable input file.
func ErrInputInvalid(path, reason string) *DeepError {
	return &DeepError{
		Code: CodeInputInvalid,
		What: fmt.Sprintf("input file %s is not usable", path),
		Why:  reason,
		Fix:  "Point --file at a non-empty markdown (.md) requirements document",
	}
}

// ErrStateCorrupted returns an error for unparseable persisted state.
// Callers must treat this as distinct from absent state.
func ErrStateCorrupted(path string, cause error) *DeepError {
	return &DeepError{
		Code:  CodeStateCorrupted,
		What:  fmt.Sprintf("session state at %s is corrupted", path),
		Why:   "The checkpoint file exists but does not contain valid JSON",
		Fix:   "Remove the file to start a fresh session; filesystem checkpoints are preserved",
		Cause: cause,
	}
}

// ErrManifestInvalid returns an error for a manifest that failed validation.
func ErrManifestInvalid(path string, problems []string) *DeepError {
	return &DeepError{
		Code: CodeManifestInvalid,
		What: fmt.Sprintf("manifest %s failed validation", path),
		Why:  strings.Join(problems, "; "),
		Fix:  "Fix the SPLIT_MANIFEST block entries and re-run",
	}
}

// ErrNameInvalid returns an error for an unusable split name or index.
func ErrNameInvalid(reason string) *DeepError {
	return &DeepError{
		Code: CodeNameInvalid,
		What: "split directory name is not valid",
		Why:  reason,
		Fix:  "Use a name with at least one alphanumeric character and an index from 1 to 99",
	}
}

// ErrNoTaskList returns an error when no task list identity is resolvable.
func ErrNoTaskList() *DeepError {
	return &DeepError{
		Code: CodeNoTaskList,
		What: "no task list id available",
		Why:  "No session id was passed, and neither CLAUDE_CODE_TASK_LIST_ID nor CLAUDE_SESSION_ID is set",
		Fix:  "Pass --session-id, or set CLAUDE_CODE_TASK_LIST_ID to pin a task list",
	}
}

// ErrTasksConflict returns an error when a user-specified task list
// already holds live tasks.
func ErrTasksConflict(listID string, existing int, samples []string) *DeepError {
	why := fmt.Sprintf("Task list %q already has %d live task(s)", listID, existing)
	if len(samples) > 0 {
		why += ": " + strings.Join(samples, ", ")
	}
	return &DeepError{
		Code: CodeTasksConflict,
		What: "user-specified task list is not empty",
		Why:  why,
		Fix:  "Re-run with --force to overwrite, or choose a different CLAUDE_CODE_TASK_LIST_ID",
	}
}

// ErrWriteFailed returns an error for a storage failure during reconciliation.
func ErrWriteFailed(what string, cause error) *DeepError {
	return &DeepError{
		Code:  CodeWriteFailed,
		What:  what,
		Why:   "The underlying filesystem operation failed",
		Fix:   "Check permissions and free space on the task store directory",
		Cause: cause,
	}
}
