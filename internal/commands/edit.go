package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"taskdash/internal/exitcode"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct{}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's title" }
func (c *EditCmd) Usage() string     { return "taskdash edit <ref> <title...>" }
func (c *EditCmd) NeedsAuth() bool   { return true }

func (c *EditCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(env.Err, "error: task reference required")
		return exitcode.UserError
	}
	title := strings.Join(args[1:], " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(env.Err, "error: title required")
		return exitcode.UserError
	}

	ctrl, task, code := lookupTask(ctx, env, args[0])
	if code != exitcode.Success {
		return code
	}
	if err := ctrl.BeginEdit(task.ID); err != nil {
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return exitcode.UserError
	}
	ctrl.SetEditTitle(title)
	if err := ctrl.SaveEdit(ctx); err != nil {
		return reportFailure(env, ctrl, err)
	}
	return ok(env)
}
