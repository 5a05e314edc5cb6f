package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/deepsplit/internal/checkpoint"
	"github.com/randalmurphal/deepsplit/internal/config"
	dserrors "github.com/randalmurphal/deepsplit/internal/errors"
	"github.com/randalmurphal/deepsplit/internal/task"
	"github.com/randalmurphal/deepsplit/internal/workflow"
)

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "requirements.md")
	require.NoError(t, os.WriteFile(path, []byte("# Project\n\nBuild the thing.\n"), 0o644))
	return path
}

func testOptions(t *testing.T, inputFile string) Options {
	t.Helper()
	return Options{
		InputFile: inputFile,
		Env:       config.Env{SessionID: "sess-test"},
		Store:     task.NewStore(t.TempDir()),
	}
}

func TestSetup_NewSession(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(t, writeInput(t, dir))

	res, err := Setup(opts)
	require.NoError(t, err)
	require.True(t, res.Success, "error: %s", res.Error)

	assert.Equal(t, ModeNew, res.Mode)
	assert.Equal(t, workflow.StepInterview, res.ResumeStep)
	assert.Equal(t, dir, res.PlanningDir)
	assert.True(t, checkpoint.Exists(dir))

	require.NotNil(t, res.TaskList)
	assert.Equal(t, task.SourceSession, res.TaskList.Source)
	assert.Equal(t, "sess-test", res.TaskList.TaskListID)

	require.NotNil(t, res.TaskSync)
	assert.Equal(t, 11, res.TaskSync.TasksWritten)
}

func TestSetup_ResumeDetectsState(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	opts := testOptions(t, input)

	res, err := Setup(opts)
	require.NoError(t, err)
	require.True(t, res.Success)

	// Interview artifact appears between invocations.
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, config.InterviewFileName), []byte("notes"), 0o644))

	res, err = Setup(opts)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, ModeResume, res.Mode)
	assert.Equal(t, workflow.StepSplitAnalysis, res.ResumeStep)
	require.NotNil(t, res.State)
	assert.True(t, res.State.InterviewComplete)
}

func TestSetup_InputValidation(t *testing.T) {
	dir := t.TempDir()
	store := task.NewStore(t.TempDir())

	run := func(input string) *Result {
		res, err := Setup(Options{
			InputFile: input,
			Env:       config.Env{SessionID: "sess-test"},
			Store:     store,
		})
		require.NoError(t, err)
		return res
	}

	res := run(filepath.Join(dir, "missing.md"))
	assert.False(t, res.Success)
	assert.Equal(t, dserrors.CodeInputInvalid, res.Code)

	res = run(dir)
	assert.False(t, res.Success)
	assert.Equal(t, dserrors.CodeInputInvalid, res.Code)

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hi"), 0o644))
	res = run(txt)
	assert.False(t, res.Success)
	assert.Equal(t, dserrors.CodeInputInvalid, res.Code)

	empty := filepath.Join(dir, "empty.md")
	require.NoError(t, os.WriteFile(empty, []byte("  \n\t\n"), 0o644))
	res = run(empty)
	assert.False(t, res.Success)
	assert.Equal(t, dserrors.CodeInputInvalid, res.Code)
}

func TestSetup_NoValidationArtifacts(t *testing.T) {
	// A failed validation must not leave a checkpoint behind.
	dir := t.TempDir()
	opts := testOptions(t, filepath.Join(dir, "missing.md"))

	res, err := Setup(opts)
	require.NoError(t, err)
	require.False(t, res.Success)
	assert.False(t, checkpoint.Exists(dir))
}

func TestSetup_DriftWarning(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	opts := testOptions(t, input)

	res, err := Setup(opts)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Empty(t, res.Warnings)

	require.NoError(t, os.WriteFile(input, []byte("# Project\n\nRevised.\n"), 0o644))

	res, err = Setup(opts)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "changed since session started")

	// The stored hash is never rewritten: the warning persists.
	res, err = Setup(opts)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
}

func TestSetup_NoTaskList(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(t, writeInput(t, dir))
	opts.Env = config.Env{}

	res, err := Setup(opts)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, dserrors.CodeNoTaskList, res.Code)
	// State is still reported so the host can decide what to do.
	assert.NotNil(t, res.State)
}

func TestSetup_UserListConflict(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(t, writeInput(t, dir))
	opts.Env = config.Env{SessionID: "sess-test", TaskListID: "my-list"}

	// Pre-existing live task on the pinned list.
	existing := opts.Store.Write("my-list", []task.Task{{
		Position: 1, Subject: "Old work", Status: task.StatusPending,
	}}, nil)
	require.True(t, existing.Success)

	res, err := Setup(opts)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, dserrors.CodeTasksConflict, res.Code)
	require.NotNil(t, res.Conflict)
	assert.Equal(t, 1, res.Conflict.Existing)
	assert.Contains(t, res.Conflict.Samples[0], "Old work")

	opts.Force = true
	res, err = Setup(opts)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "my-list", res.TaskList.TaskListID)
}

func TestSetup_SessionListNeverConflicts(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(t, writeInput(t, dir))

	res, err := Setup(opts)
	require.NoError(t, err)
	require.True(t, res.Success)

	// Re-running against our own session list is a resume, not a conflict.
	res, err = Setup(opts)
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestSetup_StaleSessionWarning(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(t, writeInput(t, dir))
	opts.ContextSessionID = "sess-hook"
	opts.Env = config.Env{SessionID: "sess-stale"}

	res, err := Setup(opts)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, task.SourceContext, res.TaskList.Source)
	assert.Equal(t, "sess-hook", res.TaskList.TaskListID)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "stale")
}

func TestSetup_CorruptedCheckpoint(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(t, writeInput(t, dir))

	require.NoError(t, os.WriteFile(checkpoint.Path(dir), []byte("{not json"), 0o644))

	res, err := Setup(opts)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, dserrors.CodeStateCorrupted, res.Code)
}
