// Package tui renders the task dashboard in the terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdash/internal/dashboard"
	"taskdash/internal/output"
	"taskdash/internal/service"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

// opDoneMsg reports a finished controller operation.
type opDoneMsg struct {
	op  string
	err error
}

// expiredMsg is sent when a 401 purged the session.
type expiredMsg struct{ path string }

// Model is the bubbletea model of the dashboard. All task state lives in the
// controller; the model only keeps the cursor and the input widgets.
type Model struct {
	ctx    context.Context
	ctrl   *dashboard.Controller
	user   *service.User
	logout func() error

	mode      mode
	cursor    int
	pending   int
	notice    string
	expired   bool
	loggedOut bool
	width     int

	addInput  textinput.Model
	editInput textinput.Model
	spinner   spinner.Model
}

// New creates the dashboard model. logout may be nil.
func New(ctx context.Context, ctrl *dashboard.Controller, user *service.User, logout func() error) *Model {
	add := textinput.New()
	add.Placeholder = "New task title"
	add.CharLimit = 200

	edit := textinput.New()
	edit.CharLimit = 200

	s := spinner.New()
	s.Spinner = spinner.Dot

	return &Model{
		ctx:       ctx,
		ctrl:      ctrl,
		user:      user,
		logout:    logout,
		addInput:  add,
		editInput: edit,
		spinner:   s,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh())
}

// run executes fn on a goroutine and reports back with an opDoneMsg.
func (m *Model) run(op string, fn func(ctx context.Context) error) tea.Cmd {
	m.pending++
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

func (m *Model) refresh() tea.Cmd {
	return m.run("fetch", m.ctrl.Fetch)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case opDoneMsg:
		return m.handleDone(msg)

	case expiredMsg:
		m.expired = true
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeEdit:
			return m.updateEdit(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *Model) handleDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	if m.pending > 0 {
		m.pending--
	}
	m.notice = ""
	if msg.err != nil && isLocalError(msg.err) {
		m.notice = msg.err.Error()
	}

	st := m.ctrl.Snapshot()
	switch msg.op {
	case "add":
		if msg.err == nil {
			m.addInput.SetValue(st.Draft)
		}
	case "edit":
		if st.Editing == nil && m.mode == modeEdit {
			m.mode = modeList
			m.editInput.Blur()
		}
	}
	m.clampCursor(len(st.Tasks))
	return m, nil
}

func isLocalError(err error) bool {
	return errors.Is(err, dashboard.ErrEmptyTitle) ||
		errors.Is(err, dashboard.ErrNotEditing) ||
		errors.Is(err, dashboard.ErrInvalidStatus)
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.ctrl.Snapshot().Tasks
	m.notice = ""

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "a":
		m.mode = modeAdd
		return m, m.addInput.Focus()
	case "r":
		return m, m.refresh()
	case "L":
		if m.logout != nil {
			if err := m.logout(); err != nil {
				m.notice = "logout failed: " + err.Error()
				return m, nil
			}
		}
		m.loggedOut = true
		return m, tea.Quit
	}

	task, ok := m.selected(tasks)
	if !ok {
		return m, nil
	}

	switch msg.String() {
	case "e", "enter":
		if err := m.ctrl.BeginEdit(task.ID); err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m.editInput.SetValue(task.Title)
		m.editInput.CursorEnd()
		m.mode = modeEdit
		return m, m.editInput.Focus()
	case "d", "x":
		return m, m.run("delete", func(ctx context.Context) error {
			return m.ctrl.Delete(ctx, task.ID)
		})
	case "s", " ":
		id := task.ID
		return m, m.run("status", func(ctx context.Context) error {
			return m.ctrl.CycleStatus(ctx, id)
		})
	case "1", "2", "3":
		idx := int(msg.String()[0] - '1')
		return m, m.setStatus(task, service.Statuses[idx])
	}
	return m, nil
}

func (m *Model) setStatus(task service.Task, status service.Status) tea.Cmd {
	return m.run("status", func(ctx context.Context) error {
		return m.ctrl.ChangeStatus(ctx, task, status)
	})
}

func (m *Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.addInput.Blur()
		return m, nil
	case "enter":
		m.ctrl.SetDraft(m.addInput.Value())
		return m, m.run("add", m.ctrl.Add)
	}

	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	m.ctrl.SetDraft(m.addInput.Value())
	return m, cmd
}

func (m *Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ctrl.CancelEdit()
		m.mode = modeList
		m.editInput.Blur()
		return m, nil
	case "enter":
		m.ctrl.SetEditTitle(m.editInput.Value())
		return m, m.run("edit", m.ctrl.SaveEdit)
	}

	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	m.ctrl.SetEditTitle(m.editInput.Value())
	return m, cmd
}

func (m *Model) selected(tasks []service.Task) (service.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return service.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *Model) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	st := m.ctrl.Snapshot()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Task Management"))
	if m.user != nil && m.user.Name != "" {
		b.WriteString("  " + userStyle.Render("Welcome, "+m.user.Name))
	}
	b.WriteString("\n\n")

	if st.Err != "" {
		b.WriteString(errorStyle.Render(st.Err) + "\n\n")
	}
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice) + "\n\n")
	}

	if m.mode == modeAdd {
		b.WriteString("Add: " + m.addInput.View() + "\n\n")
	}

	if len(st.Tasks) == 0 {
		b.WriteString(dimStyle.Render("No tasks yet.") + "\n")
	}
	for i, t := range st.Tasks {
		b.WriteString(m.renderTask(i, t) + "\n")
	}

	if m.mode == modeEdit && st.Editing != nil {
		b.WriteString("\n" + dialogStyle.Render("Edit task\n"+m.editInput.View()) + "\n")
	}

	if m.pending > 0 {
		b.WriteString("\n" + m.spinner.View() + " Working...\n")
	}

	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

func (m *Model) renderTask(i int, t service.Task) string {
	prefix := "  "
	title := t.Title
	if i == m.cursor && m.mode != modeAdd {
		prefix = cursorStyle.Render("> ")
		title = cursorStyle.Render(title)
	}
	status := t.Status.OrDefault()
	label := statusStyles[string(status)].Render(fmt.Sprintf("[%s]", status.Label()))
	return fmt.Sprintf("%s%s  %s  %s", prefix, title, label, dimStyle.Render("Created: "+output.FormatDate(t)))
}

func (m *Model) helpLine() string {
	switch m.mode {
	case modeAdd:
		return "enter: add • esc: back"
	case modeEdit:
		return "enter: save • esc: cancel"
	}
	return "j/k: move • a: add • e: edit • d: delete • s: next status • 1/2/3: set status • r: refresh • L: logout • q: quit"
}
