package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"taskdash/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskdash help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string) int {
	fmt.Fprint(env.Out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskdash                                       List tasks
  taskdash list [--format text|json|yaml]        List tasks
  taskdash add <title...>                        Create a task
  taskdash edit <ref> <title...>                 Change a task's title
  taskdash status <ref> <status>                 Set pending, in-progress or completed
  taskdash done <ref>                            Mark a task completed
  taskdash rm <ref>                              Delete a task
  taskdash dashboard                             Open the interactive dashboard
  taskdash login --email <email> [--password <pw> | --password-stdin]
  taskdash signup --name <name> --email <email> [--password <pw> | --password-stdin]
  taskdash logout
  taskdash whoami
  taskdash help
  taskdash version

Task references:
  <n>      position as printed by 'taskdash list'
  @<id>    server id of the task

Common flags:
  --config <dir>     Override config directory
  --base-url <url>   Override the API base URL
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
`
