// Package session persists the authenticated session and routes
// session-expired navigation.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"

	"taskdash/internal/service"
)

// TokenStore is the credential storage every backend reads from.
type TokenStore interface {
	// Token returns the stored token, or nil when there is none.
	Token() (*oauth2.Token, error)

	// SetToken replaces the stored token, keeping the stored user.
	SetToken(tok *oauth2.Token) error

	// ClearToken purges the session.
	ClearToken() error
}

// Session is the on-disk session document.
type Session struct {
	Token *oauth2.Token `json:"token"`
	User  *service.User `json:"user,omitempty"`
}

// FileStore keeps the session in a JSON file with mode 0600.
// The file is re-read on every access so separate stores over the same
// path observe each other's writes.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// BearerToken wraps an API bearer credential in an oauth2.Token.
func BearerToken(token string) *oauth2.Token {
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}
}

// Load reads the session. A missing file yields an empty session.
func (s *FileStore) Load() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) load() (Session, error) {
	var sess Session
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return sess, nil
	}
	if err != nil {
		return sess, fmt.Errorf("failed to read session: %w", err)
	}
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("invalid session file: %w", err)
	}
	return sess, nil
}

// Save writes the session, creating the directory with mode 0700.
func (s *FileStore) Save(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(sess)
}

func (s *FileStore) save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Token implements TokenStore.
func (s *FileStore) Token() (*oauth2.Token, error) {
	sess, err := s.Load()
	if err != nil {
		return nil, err
	}
	if sess.Token == nil || (sess.Token.AccessToken == "" && sess.Token.RefreshToken == "") {
		return nil, nil
	}
	return sess.Token, nil
}

// SetToken implements TokenStore.
func (s *FileStore) SetToken(tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.load()
	if err != nil {
		sess = Session{}
	}
	sess.Token = tok
	return s.save(sess)
}

// ClearToken implements TokenStore. The user profile goes with the token.
func (s *FileStore) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ClearTokenIf purges the session only while accessToken is still the stored
// access token, or when nothing is stored. It reports whether the session is
// now gone. An empty accessToken matches only an empty store.
func (s *FileStore) ClearTokenIf(accessToken string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.load()
	if err == nil && sess.Token != nil && sess.Token.AccessToken != "" && sess.Token.AccessToken != accessToken {
		return false, nil
	}
	err = os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	return true, nil
}

// HasToken reports whether a usable token is stored.
func (s *FileStore) HasToken() bool {
	tok, err := s.Token()
	return err == nil && tok != nil
}

// User returns the stored user profile, or nil.
func (s *FileStore) User() *service.User {
	sess, err := s.Load()
	if err != nil {
		return nil
	}
	return sess.User
}
