package googletasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taskdash/internal/service"
	"taskdash/internal/session"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *session.FileStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save(session.Session{Token: session.BearerToken("tok")}); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}

	opts = append(opts, WithEndpoint(srv.URL+"/"))
	c, err := NewWithHTTPClient(context.Background(), srv.Client(), store, opts...)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c, store
}

func TestListTasks_MapsStatuses(t *testing.T) {
	var query string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/lists/@default/tasks") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		query = r.URL.RawQuery
		fmt.Fprint(w, `{"items":[
			{"id":"g1","title":"A","status":"needsAction","updated":"2024-03-01T10:00:00.000Z"},
			{"id":"g2","title":"B","status":"completed"}
		]}`)
	})

	got, err := c.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got))
	}
	if got[0].Status != service.StatusPending || got[1].Status != service.StatusCompleted {
		t.Errorf("unexpected statuses %q, %q", got[0].Status, got[1].Status)
	}
	if !got[0].CreatedAt.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected timestamp %v", got[0].CreatedAt)
	}
	if !strings.Contains(query, "showCompleted=true") {
		t.Errorf("expected completed tasks requested, got %q", query)
	}
}

func TestUpdateTask_RejectsInProgress(t *testing.T) {
	called := false
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	status := service.StatusInProgress
	_, err := c.UpdateTask(context.Background(), "g1", service.TaskPatch{Status: &status})
	if !service.IsKind(err, service.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if called {
		t.Error("expected no request")
	}
}

func TestUpdateTask_ReopenClearsCompletion(t *testing.T) {
	var body map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&body)
		fmt.Fprint(w, `{"id":"g1","title":"A","status":"needsAction"}`)
	})

	status := service.StatusPending
	title := "A"
	task, err := c.UpdateTask(context.Background(), "g1", service.TaskPatch{Title: &title, Status: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["status"] != "needsAction" || body["title"] != "A" {
		t.Errorf("unexpected body %v", body)
	}
	if v, ok := body["completed"]; !ok || v != nil {
		t.Errorf("expected completed sent as null, got %v", body)
	}
	if task.Status != service.StatusPending {
		t.Errorf("unexpected task %+v", task)
	}
}

func TestCreateAndDelete(t *testing.T) {
	var methods []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		fmt.Fprint(w, `{"id":"g9","title":"New","status":"needsAction"}`)
	})

	task, err := c.CreateTask(context.Background(), "New")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != "g9" || task.Status != service.StatusPending {
		t.Errorf("unexpected task %+v", task)
	}
	if err := c.DeleteTask(context.Background(), "g9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(methods) != 2 || methods[0] != http.MethodPost || methods[1] != http.MethodDelete {
		t.Errorf("unexpected requests %v", methods)
	}
}

func TestUnauthorizedPurgesSession(t *testing.T) {
	calls := 0
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"code":401,"message":"Invalid Credentials"}}`)
	}, WithUnauthorizedHandler(func() { calls++ }))

	_, err := c.ListTasks(context.Background())
	if !service.IsKind(err, service.KindAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected handler once, got %d", calls)
	}
	if store.HasToken() {
		t.Error("expected session purged")
	}
}

func TestNotFoundIsClientError(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"code":404,"message":"Task not found"}}`)
	})

	err := c.DeleteTask(context.Background(), "missing")
	if !service.IsKind(err, service.KindClient) {
		t.Fatalf("expected client error, got %v", err)
	}
	if !store.HasToken() {
		t.Error("session must survive a 404")
	}
}

func TestAuthOperationsUnsupported(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	if _, err := c.Login(context.Background(), "a", "b"); !service.IsKind(err, service.KindClient) {
		t.Errorf("expected client error, got %v", err)
	}
	if _, err := c.Profile(context.Background()); !service.IsKind(err, service.KindClient) {
		t.Errorf("expected client error, got %v", err)
	}
}

func TestAwaitCode(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	go func() {
		resp, err := http.Get("http://" + listener.Addr().String() + "/callback?code=abc")
		if err == nil {
			resp.Body.Close()
		}
	}()

	code, err := awaitCode(context.Background(), listener)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "abc" {
		t.Errorf("expected code abc, got %q", code)
	}
}

func TestTokenValid_NoRefreshToken(t *testing.T) {
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	store.Save(session.Session{Token: session.BearerToken("access-only")})

	if TokenValid(context.Background(), nil, store) {
		t.Error("expected token without refresh token to be invalid")
	}
}
