package config

import "os"

// Environment variables consumed at the process boundary.
const (
	// EnvSessionID is the ambient Claude session id. May be stale after
	// a /clear reset.
	EnvSessionID = "CLAUDE_SESSION_ID"
	// EnvTaskListID is the user-specified task list override.
	EnvTaskListID = "CLAUDE_CODE_TASK_LIST_ID"
	// EnvFileVar points at the shell env file hooks may append to.
	EnvFileVar = "CLAUDE_ENV_FILE"
	// EnvDeepSessionID is the session id exported by the SessionStart hook.
	EnvDeepSessionID = "DEEP_SESSION_ID"
)

// Env is a snapshot of environment-derived identity state. It is built once
// at the process boundary and passed down by parameter, never read ad hoc
// inside core logic.
type Env struct {
	// SessionID is the ambient session id from CLAUDE_SESSION_ID.
	SessionID string

	// TaskListID is the user-specified list id from CLAUDE_CODE_TASK_LIST_ID.
	TaskListID string

	// DeepSessionID is the last session id captured by the hook.
	DeepSessionID string

	// EnvFile is the path hooks append export lines to, if configured.
	EnvFile string
}

// EnvFromProcess captures the identity environment of the current process.
func EnvFromProcess() Env {
	return Env{
		SessionID:     os.Getenv(EnvSessionID),
		TaskListID:    os.Getenv(EnvTaskListID),
		DeepSessionID: os.Getenv(EnvDeepSessionID),
		EnvFile:       os.Getenv(EnvFileVar),
	}
}
