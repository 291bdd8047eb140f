// Package dashboard keeps the visible task list in step with the server.
//
// The Controller never applies a change before the server confirms it: every
// mutation waits for the response and merges the returned canonical record.
// A failure only sets the error message; the task list and the user's
// transient input are left as they were.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"taskdash/internal/logging"
	"taskdash/internal/service"
)

// User-facing error messages, one per operation.
const (
	MsgFetchFailed  = "Failed to fetch tasks"
	MsgAddFailed    = "Failed to add task"
	MsgDeleteFailed = "Failed to delete task"
	MsgUpdateFailed = "Failed to update task"
)

var (
	// ErrEmptyTitle is returned when a title is empty after trimming.
	// No request is sent.
	ErrEmptyTitle = errors.New("title required")

	// ErrNotEditing is returned by SaveEdit when no task is selected.
	ErrNotEditing = errors.New("no task selected for editing")

	// ErrInvalidStatus is returned by ChangeStatus for unknown statuses.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrTaskNotFound is returned by BeginEdit for an unknown id.
	ErrTaskNotFound = errors.New("task not found")
)

// State is a point-in-time copy of the controller state.
type State struct {
	Tasks   []service.Task
	Draft   string
	Editing *service.Task
	Err     string
}

// Controller owns the task list and the transient input state.
// It is safe for concurrent use.
type Controller struct {
	svc    service.TaskService
	logger *slog.Logger
	locks  *keyedLocks

	mu      sync.Mutex
	tasks   []service.Task
	draft   string
	editing *service.Task
	lastErr string
}

// New creates a Controller over svc.
func New(svc service.TaskService, logger *slog.Logger) *Controller {
	return &Controller{
		svc:    svc,
		logger: logging.OrDiscard(logger),
		locks:  newKeyedLocks(),
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		Tasks: append([]service.Task(nil), c.tasks...),
		Draft: c.draft,
		Err:   c.lastErr,
	}
	if c.editing != nil {
		e := *c.editing
		st.Editing = &e
	}
	return st
}

// Task returns the task with the given id.
func (c *Controller) Task(id string) (service.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return service.Task{}, false
	}
	return c.tasks[i], true
}

// Fetch replaces the task list with the server's.
func (c *Controller) Fetch(ctx context.Context) error {
	tasks, err := c.svc.ListTasks(ctx)
	if err != nil {
		return c.fail("fetch", MsgFetchFailed, err)
	}

	c.mu.Lock()
	c.tasks = tasks
	c.lastErr = ""
	c.mu.Unlock()
	return nil
}

// SetDraft sets the pending new-task title.
func (c *Controller) SetDraft(title string) {
	c.mu.Lock()
	c.draft = title
	c.mu.Unlock()
}

// Add creates a task from the draft and appends the server's record.
// The draft is cleared on success and kept on failure.
func (c *Controller) Add(ctx context.Context) error {
	c.mu.Lock()
	draft := c.draft
	c.mu.Unlock()

	title := strings.TrimSpace(draft)
	if title == "" {
		return ErrEmptyTitle
	}

	task, err := c.svc.CreateTask(ctx, title)
	if err != nil {
		return c.fail("add", MsgAddFailed, err)
	}

	c.mu.Lock()
	c.tasks = append(c.tasks, task)
	// Keep anything typed while the request was in flight.
	if c.draft == draft {
		c.draft = ""
	}
	c.lastErr = ""
	c.mu.Unlock()
	return nil
}

// Delete removes the task with the given id once the server confirms.
func (c *Controller) Delete(ctx context.Context, id string) error {
	release, err := c.locks.acquire(ctx, id)
	if err != nil {
		return c.fail("delete", MsgDeleteFailed, err)
	}
	defer release()

	if err := c.svc.DeleteTask(ctx, id); err != nil {
		return c.fail("delete", MsgDeleteFailed, err)
	}

	c.mu.Lock()
	if i := c.indexOf(id); i >= 0 {
		c.tasks = append(c.tasks[:i:i], c.tasks[i+1:]...)
	}
	if c.editing != nil && c.editing.ID == id {
		c.editing = nil
	}
	c.lastErr = ""
	c.mu.Unlock()
	return nil
}

// ChangeStatus sets the task's status and swaps in the server's record.
// The title sent along is the one confirmed when the request starts, so a
// change queued behind an edit of the same task keeps the edit.
func (c *Controller) ChangeStatus(ctx context.Context, task service.Task, status service.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return c.updateStatus(ctx, "update status", task, func(service.Status) service.Status { return status })
}

// CycleStatus advances the task with the given id to the status after its
// confirmed one, once earlier operations on the task have finished.
func (c *Controller) CycleStatus(ctx context.Context, id string) error {
	task, ok := c.Task(id)
	if !ok {
		return ErrTaskNotFound
	}
	return c.updateStatus(ctx, "cycle status", task, service.Status.Next)
}

// updateStatus sends the status picked from the confirmed record of task.
// task is only used as is when it was deleted from the list meanwhile.
func (c *Controller) updateStatus(ctx context.Context, op string, task service.Task, pick func(service.Status) service.Status) error {
	release, err := c.locks.acquire(ctx, task.ID)
	if err != nil {
		return c.fail(op, MsgUpdateFailed, err)
	}
	defer release()

	c.mu.Lock()
	if i := c.indexOf(task.ID); i >= 0 {
		task = c.tasks[i]
	}
	c.mu.Unlock()

	title := task.Title
	status := pick(task.Status)
	updated, err := c.svc.UpdateTask(ctx, task.ID, service.TaskPatch{Title: &title, Status: &status})
	if err != nil {
		return c.fail(op, MsgUpdateFailed, err)
	}

	c.mu.Lock()
	c.replace(updated)
	c.lastErr = ""
	c.mu.Unlock()
	return nil
}

// BeginEdit selects the task with the given id for title editing.
func (c *Controller) BeginEdit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return ErrTaskNotFound
	}
	e := c.tasks[i]
	c.editing = &e
	return nil
}

// SetEditTitle changes the edited title. It is a no-op without a selection.
func (c *Controller) SetEditTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editing != nil {
		c.editing.Title = title
	}
}

// CancelEdit drops the edit selection.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	c.editing = nil
	c.mu.Unlock()
}

// SaveEdit sends the edited title. The selection is cleared on success and
// kept, with the typed title, on failure.
func (c *Controller) SaveEdit(ctx context.Context) error {
	c.mu.Lock()
	if c.editing == nil {
		c.mu.Unlock()
		return ErrNotEditing
	}
	edit := *c.editing
	c.mu.Unlock()

	if strings.TrimSpace(edit.Title) == "" {
		return ErrEmptyTitle
	}

	release, err := c.locks.acquire(ctx, edit.ID)
	if err != nil {
		return c.fail("edit", MsgUpdateFailed, err)
	}
	defer release()

	title := edit.Title
	updated, err := c.svc.UpdateTask(ctx, edit.ID, service.TaskPatch{Title: &title})
	if err != nil {
		return c.fail("edit", MsgUpdateFailed, err)
	}

	c.mu.Lock()
	c.replace(updated)
	if c.editing != nil && c.editing.ID == edit.ID {
		c.editing = nil
	}
	c.lastErr = ""
	c.mu.Unlock()
	return nil
}

// fail records msg as the visible error and returns err wrapped with it.
func (c *Controller) fail(op, msg string, err error) error {
	c.logger.Debug("operation failed", slog.String("op", op), slog.String("error", err.Error()))
	c.mu.Lock()
	c.lastErr = msg
	c.mu.Unlock()
	return fmt.Errorf("%s: %w", msg, err)
}

// replace swaps in t at the position of the task with the same id.
// A task deleted meanwhile is not brought back. Caller holds c.mu.
func (c *Controller) replace(t service.Task) {
	if i := c.indexOf(t.ID); i >= 0 {
		c.tasks[i] = t
	}
}

// indexOf returns the position of id, or -1. Caller holds c.mu.
func (c *Controller) indexOf(id string) int {
	for i, t := range c.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
