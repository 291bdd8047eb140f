package restapi

import (
	"log/slog"
	"net/http"

	"taskdash/internal/session"
)

// authTransport applies the cross-cutting request and response policy:
// bearer token on the way out, session purge plus unauthorized handler on a
// 401 on the way back.
type authTransport struct {
	base           http.RoundTripper
	store          session.TokenStore
	onUnauthorized func()
	logger         *slog.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	var sent string
	tok, err := t.store.Token()
	if err != nil {
		t.logger.Debug("session unreadable, sending unauthenticated", slog.String("error", err.Error()))
	} else if tok != nil && tok.AccessToken != "" {
		tok.SetAuthHeader(out)
		sent = tok.AccessToken
	}

	resp, err := t.transport().RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		t.unauthorized(req, sent)
	}
	return resp, nil
}

// tokenMatchClearer purges the session only while a given token is current.
type tokenMatchClearer interface {
	ClearTokenIf(accessToken string) (bool, error)
}

// unauthorized purges the session and runs the handler, unless the session
// was replaced after the request went out: a newer login stays intact.
func (t *authTransport) unauthorized(req *http.Request, sent string) {
	var cleared bool
	var err error
	if mc, ok := t.store.(tokenMatchClearer); ok {
		cleared, err = mc.ClearTokenIf(sent)
	} else {
		cleared, err = t.clearIfCurrent(sent)
	}
	if err != nil {
		t.logger.Warn("failed to clear session", slog.String("error", err.Error()))
	}
	if !cleared {
		t.logger.Debug("unauthorized response for a replaced session, keeping it", slog.String("path", req.URL.Path))
		return
	}

	t.logger.Debug("unauthorized response, session cleared", slog.String("path", req.URL.Path))
	if t.onUnauthorized != nil {
		t.onUnauthorized()
	}
}

func (t *authTransport) clearIfCurrent(sent string) (bool, error) {
	cur, err := t.store.Token()
	if err == nil && cur != nil && cur.AccessToken != "" && cur.AccessToken != sent {
		return false, nil
	}
	if err := t.store.ClearToken(); err != nil {
		return false, err
	}
	return true, nil
}

func (t *authTransport) transport() http.RoundTripper {
	if t.base != nil {
		return t.base
	}
	return http.DefaultTransport
}
