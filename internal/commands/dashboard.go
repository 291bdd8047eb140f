package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"taskdash/internal/exitcode"
	"taskdash/internal/tui"
)

func init() {
	Register(&DashboardCmd{})
}

// DashboardCmd implements the dashboard command.
type DashboardCmd struct{}

func (c *DashboardCmd) Name() string      { return "dashboard" }
func (c *DashboardCmd) Aliases() []string { return []string{"ui"} }
func (c *DashboardCmd) Synopsis() string  { return "Open the interactive dashboard" }
func (c *DashboardCmd) Usage() string     { return "taskdash dashboard" }
func (c *DashboardCmd) NeedsAuth() bool   { return true }

func (c *DashboardCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *DashboardCmd) Run(ctx context.Context, env *Env, args []string) int {
	svc, code := connect(ctx, env)
	if code != exitcode.Success {
		return code
	}

	res, err := tui.Run(ctx, tui.Options{
		Controller: dashboardFor(svc, env),
		User:       env.Session.User(),
		Navigator:  env.Navigator,
		Logout:     env.Session.ClearToken,
		In:         env.In,
		Out:        env.Out,
	})
	if err != nil {
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return exitcode.UserError
	}

	switch {
	case res.Expired:
		fmt.Fprintln(env.Err, "session expired (run: taskdash login)")
		return exitcode.AuthError
	case res.LoggedOut && !env.Config.Quiet:
		fmt.Fprintln(env.Out, "logged out")
	}
	return exitcode.Success
}
