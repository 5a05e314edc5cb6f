// Package task provides the task records deepsplit projects onto the
// Claude Code task store, the resolver for the target task list identity,
// and the reconciler that writes records to disk.
package task

import (
	"encoding/json"
	"strconv"
)

// Status represents a task status in the Claude Code task system.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}

// IsValidStatus returns true if the status is a valid status value.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// ObsoleteSubject is the sentinel subject marking a retired task record.
// A record with this subject and completed status is permanently retired
// and must never be reverted to a live state by reconciliation.
const ObsoleteSubject = "[obsolete]"

// Task is a task to write to the external store.
//
// Position is the stable 1-based identity: the external store names each
// record by its position, so the same position always addresses the same
// record across repeated reconciliation runs.
type Task struct {
	Position    int
	Subject     string
	Description string
	ActiveForm  string
	Status      Status

	// Blocks and BlockedBy hold position strings. A dependency graph
	// passed to the store overrides both.
	Blocks    []string
	BlockedBy []string
}

// Edges is the resolved dependency adjacency for one position.
type Edges struct {
	Blocks    []string
	BlockedBy []string
}

// Graph maps positions to their resolved dependency edges.
type Graph map[int]Edges

// Record is the on-disk JSON form of a task, one file per position.
type Record struct {
	ID          string   `json:"id"`
	Subject     string   `json:"subject"`
	Description string   `json:"description"`
	ActiveForm  string   `json:"activeForm"`
	Status      Status   `json:"status"`
	Blocks      []string `json:"blocks"`
	BlockedBy   []string `json:"blockedBy"`
}

// Record converts the task to its on-disk form. Slice fields are never nil
// so the JSON always carries arrays, not null.
func (t Task) Record() Record {
	return Record{
		ID:          strconv.Itoa(t.Position),
		Subject:     t.Subject,
		Description: t.Description,
		ActiveForm:  t.ActiveForm,
		Status:      t.Status,
		Blocks:      emptyIfNil(t.Blocks),
		BlockedBy:   emptyIfNil(t.BlockedBy),
	}
}

// IsObsolete reports whether the record is retired.
func (r Record) IsObsolete() bool {
	return r.Subject == ObsoleteSubject && r.Status == StatusCompleted
}

// MarshalIndent renders the record as the store's JSON format.
func (r Record) MarshalIndent() ([]byte, error) {
	r.Blocks = emptyIfNil(r.Blocks)
	r.BlockedBy = emptyIfNil(r.BlockedBy)
	return json.MarshalIndent(r, "", "  ")
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

