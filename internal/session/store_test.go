package session

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"

	"taskdash/internal/service"
)

func TestFileStore_EmptyWhenMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	tok, err := store.Token()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok != nil {
		t.Errorf("expected nil token, got %+v", tok)
	}
	if store.HasToken() {
		t.Error("expected HasToken to be false")
	}
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	err := store.Save(Session{
		Token: BearerToken("abc"),
		User:  &service.User{Name: "Ada", Email: "ada@example.com"},
	})
	if err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("session file missing: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	// A second store over the same file sees the write.
	other := NewFileStore(path)
	tok, err := other.Token()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok == nil || tok.AccessToken != "abc" || tok.Type() != "Bearer" {
		t.Errorf("unexpected token %+v", tok)
	}
	if u := other.User(); u == nil || u.Name != "Ada" {
		t.Errorf("unexpected user %+v", u)
	}
}

func TestFileStore_SetTokenKeepsUser(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save(Session{Token: BearerToken("old"), User: &service.User{Name: "Ada"}}); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if err := store.SetToken(&oauth2.Token{AccessToken: "new", RefreshToken: "r"}); err != nil {
		t.Fatalf("failed to set token: %v", err)
	}

	sess, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if sess.Token.AccessToken != "new" {
		t.Errorf("expected new token, got %q", sess.Token.AccessToken)
	}
	if sess.User == nil || sess.User.Name != "Ada" {
		t.Errorf("expected user to be kept, got %+v", sess.User)
	}
}

func TestFileStore_ClearToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)
	if err := store.Save(Session{Token: BearerToken("abc")}); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if err := store.ClearToken(); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("session file should have been removed")
	}
	// Clearing twice is fine.
	if err := store.ClearToken(); err != nil {
		t.Errorf("second clear failed: %v", err)
	}
}

func TestFileStore_ClearTokenIf(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	if err := s.Save(Session{Token: BearerToken("current")}); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}

	cleared, err := s.ClearTokenIf("older")
	if err != nil || cleared {
		t.Errorf("expected no clear for another token, got %v (%v)", cleared, err)
	}
	if !s.HasToken() {
		t.Fatal("expected current session kept")
	}

	cleared, err = s.ClearTokenIf("current")
	if err != nil || !cleared {
		t.Errorf("expected clear for the current token, got %v (%v)", cleared, err)
	}
	if s.HasToken() {
		t.Error("expected session removed")
	}

	cleared, err = s.ClearTokenIf("")
	if err != nil || !cleared {
		t.Errorf("expected empty store to report cleared, got %v (%v)", cleared, err)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	store := NewFileStore(path)

	if _, err := store.Token(); err == nil {
		t.Error("expected error for corrupt session file")
	}
	if store.HasToken() {
		t.Error("corrupt session must not count as logged in")
	}
}

func TestRelay_Swap(t *testing.T) {
	var got []string
	relay := NewRelay(NavigatorFunc(func(path string) { got = append(got, "first:"+path) }))

	relay.NavigateTo(LoginPath)
	prev := relay.Swap(NavigatorFunc(func(path string) { got = append(got, "second:"+path) }))
	relay.NavigateTo(LoginPath)
	relay.Swap(prev)
	relay.NavigateTo(LoginPath)

	want := []string{"first:/login", "second:/login", "first:/login"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestRelay_NilTarget(t *testing.T) {
	relay := NewRelay(nil)
	relay.NavigateTo(LoginPath) // must not panic
}
