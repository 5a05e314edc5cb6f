package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/deepsplit/internal/config"
)

func TestResolve_ContextWins(t *testing.T) {
	env := config.Env{SessionID: "env-session", TaskListID: "user-list"}

	ctx := Resolve("ctx-session", env)
	assert.Equal(t, "ctx-session", ctx.TaskListID)
	assert.Equal(t, SourceContext, ctx.Source)
	assert.False(t, ctx.IsUserSpecified)
}

func TestResolve_UserEnvBeatsSession(t *testing.T) {
	env := config.Env{SessionID: "env-session", TaskListID: "user-list"}

	ctx := Resolve("", env)
	assert.Equal(t, "user-list", ctx.TaskListID)
	assert.Equal(t, SourceUserEnv, ctx.Source)
	assert.True(t, ctx.IsUserSpecified)
	assert.Nil(t, ctx.SessionIDMatched)
}

func TestResolve_SessionFallback(t *testing.T) {
	env := config.Env{SessionID: "env-session"}

	ctx := Resolve("", env)
	assert.Equal(t, "env-session", ctx.TaskListID)
	assert.Equal(t, SourceSession, ctx.Source)
	assert.False(t, ctx.IsUserSpecified)
}

func TestResolve_NoneAvailable(t *testing.T) {
	ctx := Resolve("", config.Env{})
	assert.Empty(t, ctx.TaskListID)
	assert.Equal(t, SourceNone, ctx.Source)
	assert.False(t, ctx.IsUserSpecified)
	assert.Nil(t, ctx.SessionIDMatched)
}

func TestResolve_SessionIDMatchedDiagnostic(t *testing.T) {
	// Both present and equal
	ctx := Resolve("abc", config.Env{SessionID: "abc"})
	require.NotNil(t, ctx.SessionIDMatched)
	assert.True(t, *ctx.SessionIDMatched)

	// Both present, differing: stale env after a /clear reset
	ctx = Resolve("abc", config.Env{SessionID: "old"})
	require.NotNil(t, ctx.SessionIDMatched)
	assert.False(t, *ctx.SessionIDMatched)

	// Only one present: unknown, not false
	ctx = Resolve("abc", config.Env{})
	assert.Nil(t, ctx.SessionIDMatched)
}
