// Package session orchestrates a deepsplit invocation: input validation,
// checkpoint management, state detection, task projection, and
// reconciliation against the external task store.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/randalmurphal/deepsplit/internal/checkpoint"
	"github.com/randalmurphal/deepsplit/internal/config"
	dserrors "github.com/randalmurphal/deepsplit/internal/errors"
	"github.com/randalmurphal/deepsplit/internal/task"
	"github.com/randalmurphal/deepsplit/internal/workflow"
)

// Mode distinguishes a fresh session from a resumed one.
type Mode string

const (
	ModeNew    Mode = "new"
	ModeResume Mode = "resume"
)

// Options configures a setup invocation. Environment-derived state arrives
// through Env, captured once at the process boundary.
type Options struct {
	// InputFile is the requirements document (.md).
	InputFile string

	// PluginRoot is the host plugin root, surfaced via a context task.
	PluginRoot string

	// ContextSessionID is the session id passed by the invoking hook
	// context, if any.
	ContextSessionID string

	// Force overwrites a conflicting user-specified task list.
	Force bool

	// Env is the identity environment snapshot.
	Env config.Env

	// Store is the external task store.
	Store *task.Store
}

// ConflictInfo describes pre-existing live tasks on a user-specified list.
type ConflictInfo struct {
	Existing int      `json:"existing"`
	Samples  []string `json:"samples,omitempty"`
}

// Result is the single structured outcome of a setup invocation.
type Result struct {
	Success     bool                `json:"success"`
	Mode        Mode                `json:"mode,omitempty"`
	PlanningDir string              `json:"planning_dir,omitempty"`
	InitialFile string              `json:"initial_file,omitempty"`
	PluginRoot  string              `json:"plugin_root,omitempty"`
	ResumeStep  workflow.Step       `json:"resume_from_step"`
	State       *workflow.Detection `json:"state,omitempty"`
	Warnings    []string            `json:"warnings,omitempty"`
	Message     string              `json:"message,omitempty"`
	TaskList    *task.ListContext   `json:"task_list,omitempty"`
	TaskSync    *task.WriteResult   `json:"task_sync,omitempty"`
	Conflict    *ConflictInfo       `json:"conflict,omitempty"`
	Code        dserrors.Code       `json:"code,omitempty"`
	Error       string              `json:"error,omitempty"`
}

func (r *Result) fail(err *dserrors.DeepError) *Result {
	r.Success = false
	r.Code = err.Code
	r.Error = err.Error()
	return r
}

// Setup runs the full pipeline: validate input, load-or-create the
// checkpoint, detect workflow state, expand it into the expected task set,
// resolve the target task list, and reconcile the store.
//
// Expected failure modes (bad input, corrupted state, identity conflicts,
// missing identity, storage failures) come back as a structured Result
// with Success=false. The returned error is reserved for faults outside
// the taxonomy and propagates undisguised.
func Setup(opts Options) (*Result, error) {
	res := &Result{PluginRoot: opts.PluginRoot}

	inputPath, verr, err := validateInputFile(opts.InputFile)
	if err != nil {
		return nil, err
	}
	if verr != nil {
		return res.fail(verr), nil
	}

	planningDir := filepath.Dir(inputPath)
	res.PlanningDir = planningDir
	res.InitialFile = inputPath

	// Load or create the minimal checkpoint. Created once, never updated.
	cp, err := checkpoint.Load(planningDir)
	if err != nil {
		var derr *dserrors.DeepError
		if errors.As(err, &derr) {
			return res.fail(derr), nil
		}
		return nil, err
	}
	wasCreated := false
	if cp == nil {
		cp, err = checkpoint.New(inputPath)
		if err != nil {
			return nil, err
		}
		if err := checkpoint.Save(planningDir, cp); err != nil {
			return res.fail(dserrors.ErrWriteFailed("write session checkpoint", err)), nil
		}
		wasCreated = true
	}

	// Drift check: a changed input file is a warning, never an error, and
	// the stored hash is never silently updated.
	if !wasCreated {
		changed, known, err := checkpoint.FileChangedSince(planningDir, inputPath)
		if err == nil && known && changed {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("Input file has changed since session started: %s", inputPath))
		}
	}

	detection, err := workflow.Detect(planningDir)
	if err != nil {
		return nil, err
	}
	res.State = detection

	if wasCreated {
		res.Mode = ModeNew
		res.ResumeStep = workflow.StepInterview
	} else {
		res.Mode = ModeResume
		res.ResumeStep = detection.ResumeStep
	}

	tasks := workflow.ExpectedTasks(res.ResumeStep, workflow.Params{
		PluginRoot:  opts.PluginRoot,
		PlanningDir: planningDir,
		InitialFile: inputPath,
	})
	graph := workflow.ExpectedGraph(tasks)

	listCtx := task.Resolve(opts.ContextSessionID, opts.Env)
	res.TaskList = &listCtx
	if listCtx.SessionIDMatched != nil && !*listCtx.SessionIDMatched {
		res.Warnings = append(res.Warnings,
			"Ambient CLAUDE_SESSION_ID does not match the hook session id; the env value is likely stale")
	}

	if listCtx.Source == task.SourceNone {
		return res.fail(dserrors.ErrNoTaskList()), nil
	}

	// Only a user-pinned list can conflict: session-scoped identities are
	// a legitimate resume of our own previous write.
	if listCtx.IsUserSpecified && !opts.Force {
		existing, samples, err := opts.Store.CountLive(listCtx.TaskListID)
		if err != nil {
			return res.fail(dserrors.ErrWriteFailed("inspect task list", err)), nil
		}
		if existing > 0 {
			res.Conflict = &ConflictInfo{Existing: existing, Samples: samples}
			return res.fail(dserrors.ErrTasksConflict(listCtx.TaskListID, existing, samples)), nil
		}
	}

	sync := opts.Store.Write(listCtx.TaskListID, tasks, graph)
	res.TaskSync = sync
	if !sync.Success {
		res.Success = false
		res.Code = sync.Code
		res.Error = sync.Error
		return res, nil
	}

	slog.Debug("session setup complete",
		"mode", res.Mode, "resume_step", res.ResumeStep, "list_id", listCtx.TaskListID)

	res.Success = true
	verb := "Resuming"
	if res.Mode == ModeNew {
		verb = "Starting new"
	}
	res.Message = fmt.Sprintf("%s session in: %s", verb, planningDir)
	return res, nil
}

// validateInputFile checks the requirements document is usable. Returns a
// structured validation error for the expected rejection reasons; read
// errors outside the taxonomy come back as a plain error.
func validateInputFile(path string) (string, *dserrors.DeepError, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", dserrors.ErrInputInvalid(path, "File not found"), nil
		}
		return "", nil, err
	}
	if info.IsDir() {
		return "", dserrors.ErrInputInvalid(path, "Expected a file, got a directory"), nil
	}
	if filepath.Ext(path) != ".md" {
		return "", dserrors.ErrInputInvalid(path,
			fmt.Sprintf("Expected markdown file (.md), got %q", filepath.Ext(path))), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return "", dserrors.ErrInputInvalid(path, "Cannot read file (permission denied)"), nil
		}
		// Unexpected read faults propagate undisguised.
		return "", nil, err
	}
	if strings.TrimSpace(string(content)) == "" {
		return "", dserrors.ErrInputInvalid(path, "File is empty"), nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, err
	}
	return abs, nil, nil
}
