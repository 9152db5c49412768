package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"doitlist/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "doitlist help" }
func (c *HelpCmd) NeedsStore() bool  { return false }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  doitlist                                    List tasks
  doitlist list [common flags]
  doitlist add [common flags] <text...>       Add a task
  doitlist toggle [common flags] <n>          Toggle task n (alias: done)
  doitlist rm [common flags] <n>              Delete task n
  doitlist sync [common flags]                Save the list again
  doitlist export [common flags] [--format json|csv|pdf] [--out <file>]
  doitlist serve [common flags] [--addr <host:port>]
  doitlist publish [common flags]             Copy tasks to Google Tasks
  doitlist login [common flags]
  doitlist logout [common flags]
  doitlist help
  doitlist version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
  --memory         Keep tasks in memory only

Environment:
  DOITLIST_STORE_DRIVER   sqlite (default), postgres or mysql
  DOITLIST_STORE_DSN      connection string (default: <config dir>/doitlist.db)
  DOITLIST_ADDR           web view address (default: 127.0.0.1:3000)
  DOITLIST_REPO_URL       link shown in the web view
  DOITLIST_OTEL_ENDPOINT  OTLP/HTTP endpoint for traces
`
