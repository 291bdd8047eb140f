package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"taskdash/internal/dashboard"
	"taskdash/internal/service"
	"taskdash/internal/session"
)

// Options configures Run.
type Options struct {
	Controller *dashboard.Controller
	User       *service.User

	// Navigator is retargeted at the program while it runs so that a
	// session-expired navigation ends it.
	Navigator *session.Relay

	// Logout purges the session.
	Logout func() error

	In  io.Reader
	Out io.Writer
}

// Result tells the caller how the dashboard ended.
type Result struct {
	Expired   bool
	LoggedOut bool
}

// Run shows the dashboard until the user quits.
func Run(ctx context.Context, opts Options) (Result, error) {
	m := New(ctx, opts.Controller, opts.User, opts.Logout)

	progOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if opts.In != nil {
		progOpts = append(progOpts, tea.WithInput(opts.In))
	}
	if opts.Out != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Out))
	}
	p := tea.NewProgram(m, progOpts...)

	if opts.Navigator != nil {
		prev := opts.Navigator.Swap(session.NavigatorFunc(func(path string) {
			p.Send(expiredMsg{path: path})
		}))
		defer opts.Navigator.Swap(prev)
	}

	final, err := p.Run()
	if err != nil {
		return Result{}, fmt.Errorf("dashboard: %w", err)
	}
	fm, ok := final.(*Model)
	if !ok {
		return Result{}, nil
	}
	return Result{Expired: fm.expired, LoggedOut: fm.loggedOut}, nil
}
