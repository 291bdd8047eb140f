package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

func init() {
	Register(&DoneCmd{})
	Register(&StatusCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "taskdash done <ref>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(env.Err, "error: task reference required")
		return exitcode.UserError
	}
	return changeStatus(ctx, env, args[0], service.StatusCompleted)
}

// StatusCmd implements the status command.
type StatusCmd struct{}

func (c *StatusCmd) Name() string      { return "status" }
func (c *StatusCmd) Aliases() []string { return nil }
func (c *StatusCmd) Synopsis() string  { return "Set a task's status" }
func (c *StatusCmd) Usage() string {
	return "taskdash status <ref> <pending|in-progress|completed>"
}
func (c *StatusCmd) NeedsAuth() bool { return true }

func (c *StatusCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) != 2 {
		fmt.Fprintf(env.Err, "error: usage: %s\n", c.Usage())
		return exitcode.UserError
	}
	status, err := service.ParseStatus(args[1])
	if err != nil {
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return exitcode.UserError
	}
	return changeStatus(ctx, env, args[0], status)
}

func changeStatus(ctx context.Context, env *Env, ref string, status service.Status) int {
	ctrl, task, code := lookupTask(ctx, env, ref)
	if code != exitcode.Success {
		return code
	}
	if err := ctrl.ChangeStatus(ctx, task, status); err != nil {
		return reportFailure(env, ctrl, err)
	}
	return ok(env)
}
