package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"doitlist/internal/exitcode"
)

func init() {
	Register(&SyncCmd{})
}

// SyncCmd implements the sync command: it re-saves the current list.
type SyncCmd struct{}

func (c *SyncCmd) Name() string      { return "sync" }
func (c *SyncCmd) Aliases() []string { return nil }
func (c *SyncCmd) Synopsis() string  { return "Save the current list again" }
func (c *SyncCmd) Usage() string     { return "doitlist sync" }
func (c *SyncCmd) NeedsStore() bool  { return true }
func (c *SyncCmd) NeedsAuth() bool   { return false }

func (c *SyncCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SyncCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if err := env.Session.Sync(ctx); err != nil {
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.StorageError
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
