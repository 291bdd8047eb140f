// Package cli wires the command registry to a cobra command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"taskdash/internal/commands"
	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/logging"
	"taskdash/internal/service"
	"taskdash/internal/session"
)

// BackendDeps are the collaborators a backend is built with.
type BackendDeps struct {
	Store     session.TokenStore
	Navigator session.Navigator
	Logger    *slog.Logger
}

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, deps BackendDeps) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory

	// In is handed to commands reading from stdin.
	In io.Reader
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		In:       strings.NewReader(""),
	}
}

// globals are the flags accepted before or after any command.
type globals struct {
	configDir string
	baseURL   string
	quiet     bool
	debug     bool
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if args == nil {
		args = []string{}
	}

	var g globals
	code := exitcode.Success
	dispatch := func(cmd commands.Command, rest []string) {
		code = d.dispatchCommand(ctx, cmd, rest, g, out, errOut)
	}

	root := &cobra.Command{
		Use:               "taskdash",
		Short:             "Task dashboard for the task management API",
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(_ *cobra.Command, rest []string) error {
			// No command -> list
			if len(rest) > 0 {
				fmt.Fprintf(errOut, "error: unknown command: %s\n", rest[0])
				code = exitcode.UserError
				return nil
			}
			if cmd, ok := d.registry.Find("list"); ok {
				dispatch(cmd, nil)
			}
			return nil
		},
	}
	root.SetArgs(args)
	root.SetIn(d.In)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&g.configDir, "config", "", "override config directory")
	pf.StringVar(&g.baseURL, "base-url", "", "override the API base URL")
	pf.BoolVarP(&g.quiet, "quiet", "q", false, "suppress informational output")
	pf.BoolVar(&g.debug, "debug", false, "print debug logs to stderr")

	for _, cmd := range d.registry.All() {
		cmd := cmd
		sub := &cobra.Command{
			Use:                   cmd.Name(),
			Aliases:               cmd.Aliases(),
			Short:                 cmd.Synopsis(),
			Args:                  cobra.ArbitraryArgs,
			DisableFlagsInUseLine: true,
			RunE: func(_ *cobra.Command, rest []string) error {
				dispatch(cmd, rest)
				return nil
			},
		}
		cmd.RegisterFlags(sub.Flags())
		if cmd.Name() == "help" {
			root.SetHelpCommand(sub)
			root.SetHelpFunc(func(*cobra.Command, []string) { dispatch(cmd, nil) })
			continue
		}
		root.AddCommand(sub)
	}

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	return code
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, g globals, out, errOut io.Writer) int {
	cfg, err := config.Load(g.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = g.quiet
	cfg.Debug = g.debug
	if g.baseURL != "" {
		cfg.BaseURL = strings.TrimRight(g.baseURL, "/")
	}

	logger := logging.New(errOut, cfg.Debug)
	store := session.NewFileStore(cfg.SessionPath())

	// Outside the dashboard a session-expired navigation can only point
	// the user at the login command.
	relay := session.NewRelay(session.NavigatorFunc(func(path string) {
		logger.Debug("navigate", slog.String("path", path))
		fmt.Fprintln(errOut, "session expired (run: taskdash login)")
	}))

	if cmd.NeedsAuth() && !store.HasToken() {
		fmt.Fprintln(errOut, "error: not logged in (run: taskdash login)")
		return exitcode.AuthError
	}

	env := &commands.Env{
		Config:    cfg,
		Session:   store,
		Navigator: relay,
		Logger:    logger,
		In:        d.In,
		Out:       out,
		Err:       errOut,
		Connect: func(ctx context.Context) (service.Service, error) {
			if d.factory == nil {
				return nil, errors.New("no backend configured")
			}
			return d.factory(ctx, cfg, BackendDeps{Store: store, Navigator: relay, Logger: logger})
		},
	}
	return cmd.Run(ctx, env, args)
}
