package task

import "github.com/randalmurphal/deepsplit/internal/config"

// Source identifies where a task list id came from.
type Source string

const (
	// SourceContext is a session id passed explicitly by the invoking
	// hook context. Assistant-controlled, most reliable.
	SourceContext Source = "context"
	// SourceUserEnv is the user-specified CLAUDE_CODE_TASK_LIST_ID
	// override. The only source subject to conflict detection.
	SourceUserEnv Source = "user_env"
	// SourceSession is the ambient CLAUDE_SESSION_ID value. May be stale
	// after a /clear reset.
	SourceSession Source = "session"
	// SourceNone means no task list id was available.
	SourceNone Source = "none"
)

// ListContext is the resolved target for task list operations.
type ListContext struct {
	// TaskListID is the resolved id, empty when Source is SourceNone.
	TaskListID string `json:"task_list_id,omitempty"`

	// Source is where the id came from.
	Source Source `json:"source"`

	// IsUserSpecified is true only for SourceUserEnv. A human deliberately
	// pinned the target list, so it may already hold unrelated tasks.
	IsUserSpecified bool `json:"is_user_specified"`

	// SessionIDMatched reports whether the context session id and the
	// ambient env session id agreed. nil when either is missing; false is
	// a stale-session signal (post /clear), not an error.
	SessionIDMatched *bool `json:"session_id_matched,omitempty"`
}

// Resolve determines the task list id for this invocation.
//
// Priority order, first available wins:
//  1. contextSessionID from the hook's additionalContext
//  2. the user-specified CLAUDE_CODE_TASK_LIST_ID override
//  3. the ambient CLAUDE_SESSION_ID value
//
// Exactly one source is used; the result is never a blend.
func Resolve(contextSessionID string, env config.Env) ListContext {
	// Diagnostic: did the context id and env id agree? Unknown unless
	// both are present.
	var matched *bool
	if contextSessionID != "" && env.SessionID != "" {
		m := contextSessionID == env.SessionID
		matched = &m
	}

	if contextSessionID != "" {
		return ListContext{
			TaskListID:       contextSessionID,
			Source:           SourceContext,
			IsUserSpecified:  false,
			SessionIDMatched: matched,
		}
	}

	if env.TaskListID != "" {
		return ListContext{
			TaskListID:      env.TaskListID,
			Source:          SourceUserEnv,
			IsUserSpecified: true,
		}
	}

	if env.SessionID != "" {
		return ListContext{
			TaskListID:      env.SessionID,
			Source:          SourceSession,
			IsUserSpecified: false,
		}
	}

	return ListContext{
		Source:          SourceNone,
		IsUserSpecified: false,
	}
}
