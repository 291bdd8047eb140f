package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"taskdash/internal/exitcode"
	"taskdash/internal/output"
)

func init() {
	Register(&WhoamiCmd{})
}

// WhoamiCmd implements the whoami command.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return []string{"me"} }
func (c *WhoamiCmd) Synopsis() string  { return "Show the signed-in user" }
func (c *WhoamiCmd) Usage() string     { return "taskdash whoami" }
func (c *WhoamiCmd) NeedsAuth() bool   { return true }

func (c *WhoamiCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, env *Env, args []string) int {
	svc, code := connect(ctx, env)
	if code != exitcode.Success {
		return code
	}

	user, err := svc.Profile(ctx)
	if err != nil {
		env.Logger.Debug("profile failed", "error", err)
		fmt.Fprintf(env.Err, "error: %s\n", apiMessage(err))
		return exitcode.FromError(err)
	}

	// Refresh the cached profile used for the dashboard greeting.
	if sess, err := env.Session.Load(); err == nil && sess.Token != nil {
		sess.User = &user
		if err := env.Session.Save(sess); err != nil {
			env.Logger.Debug("failed to cache profile", "error", err)
		}
	}

	output.FormatUser(env.Out, user)
	if user.Email != "" && user.Name != "" {
		fmt.Fprintln(env.Out, user.Email)
	}
	return exitcode.Success
}
