package googletasks

import (
	"sync"

	"golang.org/x/oauth2"

	"taskdash/internal/session"
)

// storeTokenSource writes refreshed tokens back to the session store.
type storeTokenSource struct {
	base  oauth2.TokenSource
	store session.TokenStore

	mu   sync.Mutex
	last string
}

func (s *storeTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		if err := s.store.SetToken(tok); err != nil {
			return nil, err
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}
