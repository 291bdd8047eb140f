// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"taskdash/internal/config"
	"taskdash/internal/service"
	"taskdash/internal/session"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a stored session.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *pflag.FlagSet)

	// Run executes the command with the positional arguments left after
	// flag parsing. Returns exit code.
	Run(ctx context.Context, env *Env, args []string) int
}

// Env is what a command runs against.
type Env struct {
	Config *config.Config

	// Session is the persisted session the backend reads its token from.
	Session *session.FileStore

	// Navigator receives session-expired navigation. The dashboard
	// retargets it while it owns the terminal.
	Navigator *session.Relay

	Logger *slog.Logger

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Connect builds the configured backend.
	Connect func(ctx context.Context) (service.Service, error)
}
