package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"taskdash/internal/exitcode"
	"taskdash/internal/output"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskdash` (no args) and `taskdash list`.
type ListCmd struct {
	format string
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "taskdash list [--format text|json|yaml]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.format, "format", "f", output.FormatText, "output format")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string) int {
	if !output.ValidFormat(c.format) {
		fmt.Fprintf(env.Err, "error: unknown format: %s\n", c.format)
		return exitcode.UserError
	}
	if len(args) > 0 {
		fmt.Fprintf(env.Err, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	ctrl, code := loadDashboard(ctx, env)
	if code != exitcode.Success {
		return code
	}

	tasks := ctrl.Snapshot().Tasks
	if len(tasks) == 0 && c.format == output.FormatText {
		if !env.Config.Quiet {
			fmt.Fprintln(env.Out, "no tasks found")
		}
		return exitcode.Success
	}
	if err := output.WriteTasks(env.Out, c.format, tasks); err != nil {
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
