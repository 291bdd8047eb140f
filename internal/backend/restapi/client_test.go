package restapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"taskdash/internal/service"
	"taskdash/internal/session"
)

// newTestClient starts a server with handler and returns a client whose
// session store lives in a temp dir.
func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *session.FileStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	return New(srv.URL+"/api/", store, opts...), store
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Write([]byte(`[]`))
	})
	if err := store.Save(session.Session{Token: session.BearerToken("secret")}); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}

	if _, err := client.ListTasks(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if gotPath != "/api/tasks" {
		t.Errorf("expected /api/tasks, got %q", gotPath)
	}
}

func TestClient_NoTokenSendsUnauthenticated(t *testing.T) {
	var gotAuth string
	sawHeader := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, sawHeader = r.Header["Authorization"]
		w.Write([]byte(`[]`))
	})

	if _, err := client.ListTasks(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sawHeader {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestClient_UnauthorizedClearsSessionAndNavigates(t *testing.T) {
	calls := 0
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Token expired"}`))
	}, WithUnauthorizedHandler(func() { calls++ }))
	if err := store.Save(session.Session{Token: session.BearerToken("stale"), User: &service.User{Name: "Ada"}}); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}

	_, err := client.CreateTask(context.Background(), "A")
	if !service.IsKind(err, service.KindAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected unauthorized handler to run once, ran %d times", calls)
	}
	if store.HasToken() {
		t.Error("expected session to be purged")
	}
	if store.User() != nil {
		t.Error("expected user to be purged with the token")
	}
}

func TestClient_UnauthorizedWithoutHandler(t *testing.T) {
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	if err := store.Save(session.Session{Token: session.BearerToken("stale")}); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}

	_, err := client.ListTasks(context.Background())
	if !service.IsKind(err, service.KindAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if store.HasToken() {
		t.Error("expected session to be purged")
	}
}

func TestClient_ListTasksDecodesWireFormat(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"_id":"a1","title":"A","status":"in-progress","createdAt":"2024-03-01T10:00:00Z"},
			{"id":2,"title":"B"}
		]`))
	})

	tasks, err := client.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != "a1" || tasks[0].Status != service.StatusInProgress {
		t.Errorf("unexpected first task %+v", tasks[0])
	}
	if !tasks[0].CreatedAt.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected createdAt %v", tasks[0].CreatedAt)
	}
	if tasks[1].ID != "2" {
		t.Errorf("expected numeric id to decode as \"2\", got %q", tasks[1].ID)
	}
	if tasks[1].Status != "" {
		t.Errorf("missing status must stay empty, got %q", tasks[1].Status)
	}
	if tasks[1].Status.OrDefault() != service.StatusPending {
		t.Errorf("expected pending display fallback")
	}
}

func TestClient_CreateTaskSendsTitle(t *testing.T) {
	var body map[string]any
	var method string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"_id":"n1","title":"Buy milk","status":"pending","createdAt":"2024-03-01T10:00:00Z"}`))
	})

	task, err := client.CreateTask(context.Background(), "Buy milk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if method != http.MethodPost {
		t.Errorf("expected POST, got %s", method)
	}
	if body["title"] != "Buy milk" || len(body) != 1 {
		t.Errorf("unexpected request body %v", body)
	}
	if task.ID != "n1" || task.Title != "Buy milk" {
		t.Errorf("unexpected task %+v", task)
	}
}

func TestClient_UpdateTaskSendsOnlyPatchedFields(t *testing.T) {
	var body map[string]any
	var method, path string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.EscapedPath()
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"_id":"a/1","title":"A","status":"completed"}`))
	})

	status := service.StatusCompleted
	task, err := client.UpdateTask(context.Background(), "a/1", service.TaskPatch{Status: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if method != http.MethodPatch {
		t.Errorf("expected PATCH, got %s", method)
	}
	if path != "/api/tasks/a%2F1" {
		t.Errorf("expected escaped id in path, got %q", path)
	}
	if len(body) != 1 || body["status"] != "completed" {
		t.Errorf("expected only status in body, got %v", body)
	}
	if task.Status != service.StatusCompleted {
		t.Errorf("unexpected task %+v", task)
	}
}

func TestClient_DeleteTask(t *testing.T) {
	var method, path string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteTask(context.Background(), "a1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if method != http.MethodDelete || path != "/api/tasks/a1" {
		t.Errorf("unexpected request %s %s", method, path)
	}
}

func TestClient_ErrorKinds(t *testing.T) {
	cases := []struct {
		status  int
		body    string
		kind    service.ErrorKind
		message string
	}{
		{http.StatusBadRequest, `{"message":"Title is required"}`, service.KindValidation, "Title is required"},
		{http.StatusNotFound, `{"error":"Task not found"}`, service.KindClient, "Task not found"},
		{http.StatusConflict, ``, service.KindConflict, "conflict"},
		{http.StatusBadGateway, `<html>oops</html>`, service.KindServer, "bad gateway"},
	}

	for _, tc := range cases {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			io.WriteString(w, tc.body)
		})

		err := client.DeleteTask(context.Background(), "x")
		apiErr, ok := err.(*service.APIError)
		if !ok {
			t.Fatalf("status %d: expected *service.APIError, got %T (%v)", tc.status, err, err)
		}
		if apiErr.Kind != tc.kind {
			t.Errorf("status %d: expected kind %v, got %v", tc.status, tc.kind, apiErr.Kind)
		}
		if apiErr.Message != tc.message {
			t.Errorf("status %d: expected message %q, got %q", tc.status, tc.message, apiErr.Message)
		}
		if apiErr.StatusCode != tc.status {
			t.Errorf("expected status code %d, got %d", tc.status, apiErr.StatusCode)
		}
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	client := New(url, store)

	_, err := client.ListTasks(context.Background())
	if !service.IsKind(err, service.KindNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestClient_LoginRejectedIsAuthError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Invalid credentials"}`))
	})

	_, err := client.Login(context.Background(), "ada@example.com", "wrong")
	if !service.IsKind(err, service.KindAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestClient_LoginReturnsSession(t *testing.T) {
	var body map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"token":"jwt","user":{"_id":"u1","name":"Ada","email":"ada@example.com"}}`))
	})

	sess, err := client.Login(context.Background(), "ada@example.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["email"] != "ada@example.com" || body["password"] != "pw" {
		t.Errorf("unexpected request body %v", body)
	}
	if sess.Token != "jwt" || sess.User == nil || sess.User.Name != "Ada" || sess.User.ID != "u1" {
		t.Errorf("unexpected session %+v", sess)
	}
}

func TestClient_RegisterConflict(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/signup" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Email already registered"}`))
	})

	_, err := client.Register(context.Background(), "Ada", "ada@example.com", "pw")
	if !service.IsKind(err, service.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestClient_ProfileShapes(t *testing.T) {
	for _, body := range []string{
		`{"_id":"u1","name":"Ada","email":"ada@example.com"}`,
		`{"user":{"_id":"u1","name":"Ada","email":"ada@example.com"}}`,
	} {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})

		user, err := client.Profile(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID != "u1" || user.Name != "Ada" || user.Email != "ada@example.com" {
			t.Errorf("unexpected user %+v for body %s", user, body)
		}
	}
}

// plainStore hides FileStore's conditional clear, leaving only TokenStore.
type plainStore struct {
	session.TokenStore
}

func TestClient_UnauthorizedKeepsNewerSession(t *testing.T) {
	for _, tc := range []struct {
		name string
		wrap func(*session.FileStore) session.TokenStore
	}{
		{"file store", func(s *session.FileStore) session.TokenStore { return s }},
		{"plain store", func(s *session.FileStore) session.TokenStore { return plainStore{s} }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			file := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))

			// Another login replaces the session while the request is in flight.
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := file.Save(session.Session{Token: session.BearerToken("fresh")}); err != nil {
					t.Errorf("failed to save session: %v", err)
				}
				w.WriteHeader(http.StatusUnauthorized)
			}))
			t.Cleanup(srv.Close)

			calls := 0
			client := New(srv.URL+"/api", tc.wrap(file), WithUnauthorizedHandler(func() { calls++ }))
			if err := file.Save(session.Session{Token: session.BearerToken("stale")}); err != nil {
				t.Fatalf("failed to save session: %v", err)
			}

			_, err := client.ListTasks(context.Background())
			if !service.IsKind(err, service.KindAuth) {
				t.Fatalf("expected auth error, got %v", err)
			}
			tok, _ := file.Token()
			if tok == nil || tok.AccessToken != "fresh" {
				t.Errorf("expected newer session kept, got %+v", tok)
			}
			if calls != 0 {
				t.Errorf("expected no navigation for a replaced session, got %d", calls)
			}
		})
	}
}

func TestClient_UnauthorizedFallbackClearsCurrentSession(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)
	file := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	if err := file.Save(session.Session{Token: session.BearerToken("stale")}); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}

	client := New(srv.URL+"/api", plainStore{file}, WithUnauthorizedHandler(func() { calls++ }))
	client.ListTasks(context.Background())

	if file.HasToken() {
		t.Error("expected session to be purged")
	}
	if calls != 1 {
		t.Errorf("expected unauthorized handler to run once, ran %d times", calls)
	}
}
