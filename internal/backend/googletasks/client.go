// Package googletasks implements the service.Service interface using Google Tasks API.
//
// Tasks live in the user's default list. Google Tasks knows two states, so
// "in-progress" cannot be stored and is rejected before any request is sent.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskdash/internal/config"
	"taskdash/internal/logging"
	"taskdash/internal/service"
	"taskdash/internal/session"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// OAuth scope for Google Tasks
	tasksScope = "https://www.googleapis.com/auth/tasks"

	statusNeedsAction = "needsAction"
	statusCompleted   = "completed"
)

// Client implements service.Service using Google Tasks API.
type Client struct {
	svc            *tasks.Service
	store          session.TokenStore
	onUnauthorized func()
	logger         *slog.Logger
}

// Option configures a Client.
type Option func(*options)

type options struct {
	onUnauthorized func()
	logger         *slog.Logger
	clientOpts     []option.ClientOption
}

// WithUnauthorizedHandler sets the handler invoked after rejected
// credentials have purged the session.
func WithUnauthorizedHandler(fn func()) Option {
	return func(o *options) { o.onUnauthorized = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithEndpoint overrides the API endpoint.
func WithEndpoint(url string) Option {
	return func(o *options) { o.clientOpts = append(o.clientOpts, option.WithEndpoint(url)) }
}

// OAuthConfig reads oauth_client.json from the config dir.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", config.OAuthClientFile, err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, tasksScope)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.OAuthClientFile, err)
	}
	return oauthConfig, nil
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and a stored token (run: taskdash login).
func New(ctx context.Context, cfg *config.Config, store session.TokenStore, opts ...Option) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	tok, err := store.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, &service.APIError{Kind: service.KindAuth, Message: "not logged in"}
	}

	// Refreshed tokens are written back so the next run starts from them.
	ts := &storeTokenSource{
		base:  oauthConfig.TokenSource(ctx, tok),
		store: store,
		last:  tok.AccessToken,
	}
	return NewWithHTTPClient(ctx, oauth2.NewClient(ctx, ts), store, opts...)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, store session.TokenStore, opts ...Option) (*Client, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, o.clientOpts...)
	svc, err := tasks.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{
		svc:            svc,
		store:          store,
		onUnauthorized: o.onUnauthorized,
		logger:         logging.OrDiscard(o.logger),
	}, nil
}

// ListTasks returns every task in the default list in API order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	result := []service.Task{}
	err := c.svc.Tasks.List(DefaultListID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, toTask(t))
			}
			return nil
		})
	if err != nil {
		return nil, c.wrapError(err)
	}
	return result, nil
}

// CreateTask creates a new task in the default list.
func (c *Client) CreateTask(ctx context.Context, title string) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	t, err := c.svc.Tasks.Insert(DefaultListID, &tasks.Task{Title: title}).Context(ctx).Do()
	if err != nil {
		return service.Task{}, c.wrapError(err)
	}
	return toTask(t), nil
}

// UpdateTask patches title and status.
func (c *Client) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	body := &tasks.Task{}
	if patch.Title != nil {
		body.Title = *patch.Title
	}
	if patch.Status != nil {
		switch *patch.Status {
		case service.StatusPending:
			body.Status = statusNeedsAction
			// Reopening a task requires clearing its completion time.
			body.NullFields = append(body.NullFields, "Completed")
		case service.StatusCompleted:
			body.Status = statusCompleted
		default:
			return service.Task{}, &service.APIError{
				Kind:    service.KindValidation,
				Message: fmt.Sprintf("status %q is not supported by Google Tasks", *patch.Status),
			}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	t, err := c.svc.Tasks.Patch(DefaultListID, id, body).Context(ctx).Do()
	if err != nil {
		return service.Task{}, c.wrapError(err)
	}
	return toTask(t), nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(DefaultListID, id).Context(ctx).Do(); err != nil {
		return c.wrapError(err)
	}
	return nil
}

// Login is not available; Google accounts sign in through the OAuth flow.
func (c *Client) Login(ctx context.Context, email, password string) (service.Session, error) {
	return service.Session{}, unsupported("password login")
}

// Register is not available for Google accounts.
func (c *Client) Register(ctx context.Context, name, email, password string) (service.Session, error) {
	return service.Session{}, unsupported("signup")
}

// Profile is not available without the userinfo scope.
func (c *Client) Profile(ctx context.Context) (service.User, error) {
	return service.User{}, unsupported("profile")
}

func unsupported(what string) error {
	return &service.APIError{Kind: service.KindClient, Message: what + " is not supported by the google backend"}
}

func toTask(t *tasks.Task) service.Task {
	task := service.Task{ID: t.Id, Title: t.Title}
	switch t.Status {
	case statusNeedsAction:
		task.Status = service.StatusPending
	case statusCompleted:
		task.Status = service.StatusCompleted
	}
	// The API exposes no creation time; the last modification is the closest.
	if ts, err := time.Parse(time.RFC3339, t.Updated); err == nil {
		task.CreatedAt = ts
	}
	return task
}

// wrapError classifies API errors. Rejected credentials purge the session.
func (c *Client) wrapError(err error) error {
	if err == nil {
		return nil
	}

	apiErr := classify(err)
	if apiErr.Kind == service.KindAuth && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == 0) {
		c.logger.Debug("credentials rejected, clearing session", slog.String("error", err.Error()))
		if c.store != nil {
			if err := c.store.ClearToken(); err != nil {
				c.logger.Warn("failed to clear session", slog.String("error", err.Error()))
			}
		}
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	}
	return apiErr
}

func classify(err error) *service.APIError {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		kind := service.KindForStatus(gerr.Code)
		if gerr.Code == http.StatusForbidden {
			kind = service.KindAuth
		}
		msg := gerr.Message
		if msg == "" {
			msg = http.StatusText(gerr.Code)
		}
		return &service.APIError{Kind: kind, StatusCode: gerr.Code, Message: msg, Err: err}
	}

	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return &service.APIError{Kind: service.KindAuth, Message: "token expired or revoked (run: taskdash login)", Err: err}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &service.APIError{Kind: service.KindNetwork, Message: "request timed out", Err: err}
	case errors.Is(err, context.Canceled):
		return &service.APIError{Kind: service.KindNetwork, Message: "request cancelled", Err: err}
	}
	return &service.APIError{Kind: service.KindNetwork, Message: "request failed", Err: err}
}
