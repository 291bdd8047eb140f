package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"taskdash/internal/dashboard"
	"taskdash/internal/service"
	"taskdash/internal/testutil"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// finish runs an operation command synchronously and feeds its result back.
func finish(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(opDoneMsg)
	if !ok {
		t.Fatal("expected an operation result")
	}
	m.Update(msg)
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func newModel(t *testing.T, svc *testutil.FakeService) *Model {
	t.Helper()
	ctrl := dashboard.New(svc, nil)
	m := New(context.Background(), ctrl, &service.User{Name: "Ada"}, nil)
	finish(t, m, m.refresh())
	return m
}

func TestView_ShowsGreetingAndTasks(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("1", "Write report", "")
	m := newModel(t, svc)

	view := m.View()
	for _, want := range []string{"Task Management", "Welcome, Ada", "Write report", "[Pending]", "Created: "} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q, got:\n%s", want, view)
		}
	}
}

func TestView_ShowsFetchError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = errors.New("down")
	m := newModel(t, svc)

	if !strings.Contains(m.View(), dashboard.MsgFetchFailed) {
		t.Errorf("expected fetch error in view, got:\n%s", m.View())
	}
}

func TestAddTask(t *testing.T) {
	svc := testutil.NewFakeService()
	m := newModel(t, svc)

	m.Update(key("a"))
	if m.mode != modeAdd {
		t.Fatalf("expected add mode, got %v", m.mode)
	}
	typeText(m, "Buy milk")
	_, cmd := m.Update(key("enter"))
	finish(t, m, cmd)

	tasks := m.ctrl.Snapshot().Tasks
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" {
		t.Fatalf("expected task added, got %+v", tasks)
	}
	if m.addInput.Value() != "" {
		t.Errorf("expected input cleared, got %q", m.addInput.Value())
	}
	if m.pending != 0 {
		t.Errorf("expected no pending operations, got %d", m.pending)
	}
}

func TestAddTask_EmptyShowsNotice(t *testing.T) {
	svc := testutil.NewFakeService()
	m := newModel(t, svc)

	m.Update(key("a"))
	_, cmd := m.Update(key("enter"))
	finish(t, m, cmd)

	if svc.CreateCalls != 0 {
		t.Errorf("expected no request, got %d", svc.CreateCalls)
	}
	if !strings.Contains(m.View(), dashboard.ErrEmptyTitle.Error()) {
		t.Errorf("expected notice in view, got:\n%s", m.View())
	}
}

func TestAddTask_FailureKeepsInput(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.CreateTaskErr = errors.New("boom")
	m := newModel(t, svc)

	m.Update(key("a"))
	typeText(m, "X")
	_, cmd := m.Update(key("enter"))
	finish(t, m, cmd)

	if m.addInput.Value() != "X" {
		t.Errorf("expected input kept, got %q", m.addInput.Value())
	}
	if !strings.Contains(m.View(), dashboard.MsgAddFailed) {
		t.Errorf("expected add error in view, got:\n%s", m.View())
	}
}

func TestCycleStatus(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("1", "A", service.StatusPending)
	svc.AddTask("2", "B", service.StatusPending)
	m := newModel(t, svc)

	m.Update(key("j"))
	_, cmd := m.Update(key("s"))
	finish(t, m, cmd)

	got, _ := m.ctrl.Task("2")
	if got.Status != service.StatusInProgress {
		t.Errorf("expected in-progress, got %q", got.Status)
	}

	_, cmd = m.Update(key("3"))
	finish(t, m, cmd)
	got, _ = m.ctrl.Task("2")
	if got.Status != service.StatusCompleted {
		t.Errorf("expected completed, got %q", got.Status)
	}
}

func TestCycleStatus_TwoPressesBeforeEitherCompletes(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("1", "A", service.StatusPending)
	m := newModel(t, svc)

	_, first := m.Update(key("s"))
	_, second := m.Update(key("s"))
	finish(t, m, first)
	finish(t, m, second)

	got, _ := m.ctrl.Task("1")
	if got.Status != service.StatusCompleted {
		t.Errorf("expected two steps to completed, got %q", got.Status)
	}
}

func TestEditTask(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("1", "Old", service.StatusPending)
	m := newModel(t, svc)

	m.Update(key("e"))
	if m.mode != modeEdit || m.editInput.Value() != "Old" {
		t.Fatalf("expected edit mode with title, got mode %v value %q", m.mode, m.editInput.Value())
	}
	typeText(m, "er")
	_, cmd := m.Update(key("enter"))
	finish(t, m, cmd)

	got, _ := m.ctrl.Task("1")
	if got.Title != "Older" {
		t.Errorf("expected Older, got %q", got.Title)
	}
	if m.mode != modeList {
		t.Errorf("expected list mode after save, got %v", m.mode)
	}
}

func TestEditTask_EscCancels(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("1", "Old", service.StatusPending)
	m := newModel(t, svc)

	m.Update(key("e"))
	typeText(m, "!!")
	m.Update(key("esc"))

	if m.ctrl.Snapshot().Editing != nil {
		t.Error("expected edit selection dropped")
	}
	if svc.UpdateCalls != 0 {
		t.Errorf("expected no request, got %d", svc.UpdateCalls)
	}
}

func TestDeleteTask_ClampsCursor(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("1", "A", service.StatusPending)
	svc.AddTask("2", "B", service.StatusPending)
	m := newModel(t, svc)

	m.Update(key("down"))
	_, cmd := m.Update(key("d"))
	finish(t, m, cmd)

	if n := len(m.ctrl.Snapshot().Tasks); n != 1 {
		t.Fatalf("expected 1 task left, got %d", n)
	}
	if m.cursor != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", m.cursor)
	}
}

func TestExpiredQuits(t *testing.T) {
	m := newModel(t, testutil.NewFakeService())

	_, cmd := m.Update(expiredMsg{path: "/login"})
	if !m.expired {
		t.Error("expected expired flag")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected quit")
	}
}

func TestLogout(t *testing.T) {
	called := false
	ctrl := dashboard.New(testutil.NewFakeService(), nil)
	m := New(context.Background(), ctrl, nil, func() error {
		called = true
		return nil
	})

	_, cmd := m.Update(key("L"))
	if !called || !m.loggedOut {
		t.Error("expected logout to run")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected quit")
	}
}
