// Package hook processes Claude Code hook payloads.
package hook

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/randalmurphal/deepsplit/internal/config"
)

// Output is the hook response consumed by Claude Code.
type Output struct {
	HookSpecificOutput SpecificOutput `json:"hookSpecificOutput"`
}

// SpecificOutput carries the additional context injected into the session.
type SpecificOutput struct {
	HookEventName     string `json:"hookEventName"`
	AdditionalContext string `json:"additionalContext"`
}

// Result reports what the SessionStart hook did.
type Result struct {
	// SessionID is the captured session id, empty when the payload had none.
	SessionID string

	// Context is the JSON hook output to emit on stdout, nil when the
	// ambient value already matched.
	Context []byte

	// EnvFileUpdated is true when export lines were appended.
	EnvFileUpdated bool
}

// SessionStart captures the session id from a hook payload.
//
// The id is surfaced two ways: as additionalContext output (the reliable
// path — the assistant sees it directly), and as export lines appended to
// the configured env file for shell commands. Hooks must never fail, so a
// malformed payload or an env-file write problem yields an empty or
// partial result, not an error.
func SessionStart(payload []byte, env config.Env) *Result {
	if !gjson.ValidBytes(payload) {
		return &Result{}
	}
	sessionID := gjson.GetBytes(payload, "session_id").String()
	if sessionID == "" {
		return &Result{}
	}
	transcriptPath := gjson.GetBytes(payload, "transcript_path").String()

	res := &Result{SessionID: sessionID}

	if env.DeepSessionID != sessionID {
		out, err := json.Marshal(Output{
			HookSpecificOutput: SpecificOutput{
				HookEventName:     "SessionStart",
				AdditionalContext: fmt.Sprintf("%s=%s", config.EnvDeepSessionID, sessionID),
			},
		})
		if err == nil {
			res.Context = out
		}
	}

	if env.EnvFile != "" {
		res.EnvFileUpdated = appendEnvFile(env.EnvFile, sessionID, transcriptPath)
	}

	return res
}

// appendEnvFile appends export lines for values not already present.
// Failures are swallowed: the additionalContext path already carried the id.
func appendEnvFile(path, sessionID, transcriptPath string) bool {
	existing := ""
	if data, err := os.ReadFile(path); err == nil {
		existing = string(data)
	}

	var lines []string
	if !strings.Contains(existing, fmt.Sprintf("%s=%s", config.EnvDeepSessionID, sessionID)) {
		lines = append(lines, fmt.Sprintf("export %s=%s\n", config.EnvDeepSessionID, sessionID))
	}
	if transcriptPath != "" && !strings.Contains(existing, fmt.Sprintf("CLAUDE_TRANSCRIPT_PATH=%s", transcriptPath)) {
		lines = append(lines, fmt.Sprintf("export CLAUDE_TRANSCRIPT_PATH=%s\n", transcriptPath))
	}
	if len(lines) == 0 {
		return false
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		slog.Debug("env file not writable", "path", path, "error", err)
		return false
	}
	defer f.Close()
	if _, err := f.WriteString(strings.Join(lines, "")); err != nil {
		slog.Debug("env file append failed", "path", path, "error", err)
		return false
	}
	return true
}
