package workflow

import (
	"fmt"
	"strconv"

	"github.com/randalmurphal/deepsplit/internal/task"
)

// Semantic task ids for the workflow steps, in step order.
var stepTaskIDs = map[Step]string{
	StepSetup:               "validate-setup",
	StepInterview:           "conduct-interview",
	StepSplitAnalysis:       "analyze-splits",
	StepDependencyDiscovery: "write-manifest",
	StepUserConfirmation:    "confirm-splits",
	StepDirectoryCreation:   "create-directories",
	StepSpecGeneration:      "generate-specs",
	StepComplete:            "output-summary",
}

// ContextTaskIDs are the session-parameter tasks, emitted after the
// workflow tasks in this fixed order.
var ContextTaskIDs = []string{
	"context-plugin-root",
	"context-planning-dir",
	"context-initial-file",
}

// Definition holds the display strings for a workflow task.
type Definition struct {
	// Subject is the task title shown in the task list.
	Subject string
	// Description is the detailed description of the task.
	Description string
	// ActiveForm is the present-tense label shown while in progress.
	ActiveForm string
}

// Definitions maps semantic ids to their display strings.
var Definitions = map[string]Definition{
	"validate-setup": {
		Subject:     "Validate input and setup session",
		Description: "Validate the input file exists and is readable. Initialize session state.",
		ActiveForm:  "Setting up session",
	},
	"conduct-interview": {
		Subject:     "Conduct interview",
		Description: "Interview the user to understand project requirements and constraints.",
		ActiveForm:  "Interviewing user",
	},
	"analyze-splits": {
		Subject:     "Analyze splits",
		Description: "Analyze the requirements and propose how to split the project.",
		ActiveForm:  "Analyzing splits",
	},
	"write-manifest": {
		Subject:     "Discover dependencies and write manifest",
		Description: "Discover dependencies between splits and write project-manifest.md.",
		ActiveForm:  "Writing manifest",
	},
	"confirm-splits": {
		Subject:     "Confirm splits with user",
		Description: "Present the proposed splits to the user for confirmation or revision.",
		ActiveForm:  "Confirming splits",
	},
	"create-directories": {
		Subject:     "Create split directories",
		Description: "Create the NN-name/ directories for each confirmed split.",
		ActiveForm:  "Creating directories",
	},
	"generate-specs": {
		Subject:     "Generate spec files",
		Description: "Generate spec.md files for each split directory.",
		ActiveForm:  "Generating specs",
	},
	"output-summary": {
		Subject:     "Output summary",
		Description: "Output a summary of the completed workflow.",
		ActiveForm:  "Outputting summary",
	},
}

// Dependencies declares what each task is blocked by, as semantic ids.
// The chain is strictly linear; the inline steps (write-manifest,
// create-directories) still participate so the graph stays connected.
var Dependencies = map[string][]string{
	"validate-setup":     {},
	"conduct-interview":  {"validate-setup"},
	"analyze-splits":     {"conduct-interview"},
	"write-manifest":     {"analyze-splits"},
	"confirm-splits":     {"write-manifest"},
	"create-directories": {"confirm-splits"},
	"generate-specs":     {"create-directories"},
	"output-summary":     {"generate-specs"},
}

// allTaskIDs returns every semantic id in emission order: workflow tasks
// by step, then context tasks.
func allTaskIDs() []string {
	ids := make([]string, 0, len(stepTaskIDs)+len(ContextTaskIDs))
	for s := StepSetup; s <= StepComplete; s++ {
		ids = append(ids, stepTaskIDs[s])
	}
	ids = append(ids, ContextTaskIDs...)
	return ids
}

// PositionMap assigns stable positions to semantic ids: workflow tasks get
// 1..8 in step order, context tasks follow at 9..11. Stability matters
// because the external store identifies records by position — the same
// position must address the same record across runs.
func PositionMap() map[string]int {
	mapping := make(map[string]int)
	position := 1
	for _, id := range allTaskIDs() {
		mapping[id] = position
		position++
	}
	return mapping
}

// Params are the session parameters surfaced through context tasks.
type Params struct {
	PluginRoot  string
	PlanningDir string
	InitialFile string
}

// ExpectedTasks expands the current step into the full task set.
//
// Workflow tasks before the current step are completed, the current step is
// in_progress, later steps are pending — exactly one task is ever
// in_progress. Context tasks carry their parameter value in the subject,
// stay pending, and are blocked by the output-summary position so they
// never surface as actionable until the workflow finishes.
func ExpectedTasks(current Step, params Params) []task.Task {
	positions := PositionMap()
	tasks := make([]task.Task, 0, len(stepTaskIDs)+len(ContextTaskIDs))

	for s := StepSetup; s <= StepComplete; s++ {
		id := stepTaskIDs[s]
		def := Definitions[id]

		var status task.Status
		switch {
		case s < current:
			status = task.StatusCompleted
		case s == current:
			status = task.StatusInProgress
		default:
			status = task.StatusPending
		}

		tasks = append(tasks, task.Task{
			Position:    positions[id],
			Subject:     def.Subject,
			Description: def.Description,
			ActiveForm:  def.ActiveForm,
			Status:      status,
		})
	}

	finalPos := positions[stepTaskIDs[StepComplete]]
	contextValues := []string{
		fmt.Sprintf("plugin_root=%s", params.PluginRoot),
		fmt.Sprintf("planning_dir=%s", params.PlanningDir),
		fmt.Sprintf("initial_file=%s", params.InitialFile),
	}
	for i, id := range ContextTaskIDs {
		tasks = append(tasks, task.Task{
			Position:    positions[id],
			Subject:     contextValues[i], // value in subject for visibility
			Description: "Session context item",
			ActiveForm:  "Context",
			Status:      task.StatusPending,
			BlockedBy:   []string{strconv.Itoa(finalPos)},
		})
	}

	return tasks
}

// BuildDependencyGraph resolves declared semantic dependencies into
// per-position blocks/blockedBy edges for the given task set. Edges whose
// endpoints are missing from the position map or the task set are dropped
// silently — a partial or rebuilt task set must not crash reconciliation.
// blocks is purely the inverse of the resolved blockedBy relation.
func BuildDependencyGraph(tasks []task.Task, deps map[string][]string, positions map[string]int) task.Graph {
	blocks := make(map[int][]string)
	blockedBy := make(map[int][]string)
	for _, t := range tasks {
		blocks[t.Position] = []string{}
		blockedBy[t.Position] = []string{}
	}

	// Resolve blockedBy in deterministic id order so repeated runs emit
	// identical records.
	for _, id := range allTaskIDs() {
		declared, ok := deps[id]
		if !ok {
			continue
		}
		position, ok := positions[id]
		if !ok {
			continue
		}
		if _, ok := blockedBy[position]; !ok {
			continue
		}
		for _, depID := range declared {
			depPos, ok := positions[depID]
			if !ok {
				continue
			}
			blockedBy[position] = append(blockedBy[position], strconv.Itoa(depPos))
		}
	}

	// blocks = inverse of blockedBy
	for _, t := range tasks {
		for _, depStr := range blockedBy[t.Position] {
			depPos, _ := strconv.Atoi(depStr)
			if _, ok := blocks[depPos]; ok {
				blocks[depPos] = append(blocks[depPos], strconv.Itoa(t.Position))
			}
		}
	}

	graph := make(task.Graph, len(blocks))
	for pos := range blocks {
		graph[pos] = task.Edges{Blocks: blocks[pos], BlockedBy: blockedBy[pos]}
	}
	return graph
}

// ExpectedGraph is a convenience wrapper building the dependency graph for
// an expected task set, wiring context tasks to the final workflow task.
func ExpectedGraph(tasks []task.Task) task.Graph {
	positions := PositionMap()
	deps := make(map[string][]string, len(Dependencies)+len(ContextTaskIDs))
	for id, d := range Dependencies {
		deps[id] = d
	}
	for _, id := range ContextTaskIDs {
		deps[id] = []string{stepTaskIDs[StepComplete]}
	}
	return BuildDependencyGraph(tasks, deps, positions)
}
