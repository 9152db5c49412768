package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"doitlist/internal/exitcode"
	"doitlist/internal/output"
)

func init() {
	Register(&PublishCmd{})
}

// PublishCmd implements the publish command.
// It copies every local task into the Google Tasks default list.
// Nothing is read back; running it twice creates duplicates.
type PublishCmd struct{}

func (c *PublishCmd) Name() string      { return "publish" }
func (c *PublishCmd) Aliases() []string { return nil }
func (c *PublishCmd) Synopsis() string  { return "Copy tasks to Google Tasks" }
func (c *PublishCmd) Usage() string     { return "doitlist publish" }
func (c *PublishCmd) NeedsStore() bool  { return true }
func (c *PublishCmd) NeedsAuth() bool   { return true }

func (c *PublishCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *PublishCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	tasks := env.Session.Tasks()
	if len(tasks) == 0 {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	list, err := env.Remote.DefaultList(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	for i, t := range tasks {
		id, err := env.Remote.CreateTask(ctx, list.ID, output.NormalizeText(t.Text))
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: task %d: %v\n", i+1, err)
			return exitcode.BackendError
		}
		env.Debugf("published task %d as %s", i+1, id)
		if !t.Completed {
			continue
		}
		if err := env.Remote.CompleteTask(ctx, list.ID, id); err != nil {
			fmt.Fprintf(errOut, "error: backend error: task %d: %v\n", i+1, err)
			return exitcode.BackendError
		}
	}

	if !env.Config.Quiet {
		fmt.Fprintf(out, "published %d tasks to %s\n", len(tasks), list.Title)
	}
	return exitcode.Success
}
