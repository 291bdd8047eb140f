package cli

import (
	"context"

	"taskdash/internal/backend/googletasks"
	"taskdash/internal/backend/restapi"
	"taskdash/internal/config"
	"taskdash/internal/service"
	"taskdash/internal/session"
)

// DefaultFactory builds the backend selected by cfg.Backend. Both backends
// purge the session and navigate to the login entry point on rejected
// credentials.
func DefaultFactory(ctx context.Context, cfg *config.Config, deps BackendDeps) (service.Service, error) {
	toLogin := func() {
		if deps.Navigator != nil {
			deps.Navigator.NavigateTo(session.LoginPath)
		}
	}

	switch cfg.Backend {
	case config.BackendGoogle:
		return googletasks.New(ctx, cfg, deps.Store,
			googletasks.WithUnauthorizedHandler(toLogin),
			googletasks.WithLogger(deps.Logger),
		)
	default:
		return restapi.New(cfg.BaseURL, deps.Store,
			restapi.WithUnauthorizedHandler(toLogin),
			restapi.WithLogger(deps.Logger),
		), nil
	}
}
