package task

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	dserrors "github.com/randalmurphal/deepsplit/internal/errors"
	"github.com/randalmurphal/deepsplit/internal/util"
)

// sampleLimit caps the task subjects reported in a conflict outcome.
const sampleLimit = 3

// Store reads and writes task records under a tasks root directory.
// Each task list is a subdirectory of the root holding one JSON file per
// position, named by the position's decimal string.
type Store struct {
	root string
}

// NewStore creates a store rooted at the given tasks directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the tasks root directory.
func (s *Store) Root() string {
	return s.root
}

// ListDir returns the directory for a task list id.
func (s *Store) ListDir(listID string) string {
	return filepath.Join(s.root, listID)
}

// WriteResult reports the outcome of a reconciliation run.
type WriteResult struct {
	Success      bool          `json:"success"`
	TaskListID   string        `json:"task_list_id"`
	TasksWritten int           `json:"tasks_written"`
	TasksDir     string        `json:"tasks_dir,omitempty"`
	Code         dserrors.Code `json:"code,omitempty"`
	Error        string        `json:"error,omitempty"`
}

func writeOK(listID string, written int, dir string) *WriteResult {
	return &WriteResult{Success: true, TaskListID: listID, TasksWritten: written, TasksDir: dir}
}

func writeErr(listID string, err *dserrors.DeepError) *WriteResult {
	return &WriteResult{Success: false, TaskListID: listID, Code: err.Code, Error: err.Error()}
}

// Write reconciles the task list on disk with the given task set.
//
// Every task is serialized to its position's record, overwriting any
// existing record at that position. When a dependency graph is provided it
// overrides the blocks/blockedBy embedded on the tasks. Existing records
// at positions beyond the highest written position are retired with the
// obsolete sentinel; records that are already retired are left untouched,
// so repeated reconciliation is idempotent.
//
// Storage failures are reported as a structured failure, never raised.
// Records written before a failure are not rolled back: each write is
// self-contained and the next successful run rewrites the set wholesale.
func (s *Store) Write(listID string, tasks []Task, graph Graph) *WriteResult {
	if listID == "" {
		return writeErr("", dserrors.ErrNoTaskList())
	}

	dir := s.ListDir(listID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return writeErr(listID, dserrors.ErrWriteFailed("create task list directory", err))
	}

	maxWritten := 0
	for _, t := range tasks {
		rec := t.Record()
		if edges, ok := graph[t.Position]; ok {
			rec.Blocks = edges.Blocks
			rec.BlockedBy = edges.BlockedBy
		}

		data, err := rec.MarshalIndent()
		if err != nil {
			return writeErr(listID, dserrors.ErrWriteFailed(fmt.Sprintf("marshal task %d", t.Position), err))
		}
		path := filepath.Join(dir, strconv.Itoa(t.Position)+".json")
		if err := util.AtomicWriteFile(path, data, 0644); err != nil {
			return writeErr(listID, dserrors.ErrWriteFailed(fmt.Sprintf("write task %d", t.Position), err))
		}
		if t.Position > maxWritten {
			maxWritten = t.Position
		}
	}

	if err := s.markExtraObsolete(dir, maxWritten); err != nil {
		return writeErr(listID, dserrors.ErrWriteFailed("retire stale tasks", err))
	}

	return writeOK(listID, len(tasks), dir)
}

// markExtraObsolete retires records at positions beyond maxWritten. When a
// plan shrinks, stale records are retired rather than deleted so any
// out-of-band history survives. Already-retired records are skipped
// field-for-field.
func (s *Store) markExtraObsolete(dir string, maxWritten int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		pos, err := strconv.Atoi(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		if pos <= maxWritten {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			slog.Debug("skipping unparseable task record", "path", path, "error", err)
			continue
		}
		if rec.IsObsolete() {
			continue
		}

		rec.Subject = ObsoleteSubject
		rec.Status = StatusCompleted
		out, err := rec.MarshalIndent()
		if err != nil {
			return err
		}
		if err := util.AtomicWriteFile(path, out, 0644); err != nil {
			return err
		}
	}
	return nil
}

// CountLive counts the non-retired records in a task list and returns up
// to sampleLimit of their subjects, ordered by position. A missing list
// directory counts as empty.
func (s *Store) CountLive(listID string) (int, []string, error) {
	dir := s.ListDir(listID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil, nil
		}
		return 0, nil, fmt.Errorf("read task list directory: %w", err)
	}

	type live struct {
		pos     int
		subject string
	}
	var found []live
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		pos, err := strconv.Atoi(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return 0, nil, fmt.Errorf("read task record: %w", err)
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		if rec.IsObsolete() {
			continue
		}
		found = append(found, live{pos: pos, subject: rec.Subject})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	var samples []string
	for _, l := range found {
		if len(samples) == sampleLimit {
			break
		}
		samples = append(samples, l.subject)
	}
	return len(found), samples, nil
}

// Read loads the record at a position, or (nil, nil) if absent.
func (s *Store) Read(listID string, position int) (*Record, error) {
	path := filepath.Join(s.ListDir(listID), strconv.Itoa(position)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read task record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, dserrors.ErrStateCorrupted(path, err)
	}
	return &rec, nil
}
