package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"doitlist/internal/exitcode"
	"doitlist/internal/web"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	addr string
}

// SetAddr sets the listen address (for testing).
func (c *ServeCmd) SetAddr(addr string) {
	c.addr = addr
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Serve the list as a web page" }
func (c *ServeCmd) Usage() string     { return "doitlist serve [--addr <host:port>]" }
func (c *ServeCmd) NeedsStore() bool  { return true }
func (c *ServeCmd) NeedsAuth() bool   { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	addr := c.addr
	if addr == "" {
		addr = env.Config.Env.Addr
	}
	if addr == "" {
		addr = "127.0.0.1:3000"
	}

	if !env.Config.Quiet {
		fmt.Fprintf(out, "serving on http://%s\n", addr)
	}
	server := web.NewServer(env.Session, env.Config.Env.RepoURL, env.Logger)
	if err := server.Serve(ctx, addr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
