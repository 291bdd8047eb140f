package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"taskdash/internal/exitcode"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "taskdash add <title...>" }
func (c *AddCmd) NeedsAuth() bool   { return true }

func (c *AddCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(env.Err, "error: title required")
		return exitcode.UserError
	}

	svc, code := connect(ctx, env)
	if code != exitcode.Success {
		return code
	}

	ctrl := dashboardFor(svc, env)
	ctrl.SetDraft(title)
	if err := ctrl.Add(ctx); err != nil {
		return reportFailure(env, ctrl, err)
	}
	return ok(env)
}
