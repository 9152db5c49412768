// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"
	"log"

	"doitlist/internal/config"
	"doitlist/internal/service"
	"doitlist/internal/session"
)

// Env carries what a command runs against.
type Env struct {
	// Config is always provided (config dir, paths, env settings).
	Config *config.Config

	// Session is the hydrated task list; nil if NeedsStore() returns false.
	Session *session.Session

	// Remote is nil if NeedsAuth() returns false.
	Remote service.Remote

	// Logger prints debug logs; output is discarded unless --debug is set.
	Logger *log.Logger
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command works on the task list.
	NeedsStore() bool

	// NeedsAuth returns true if the command requires a Google Tasks login.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}

// Debugf logs through Logger when one is set.
func (e *Env) Debugf(format string, args ...any) {
	if e.Logger != nil {
		e.Logger.Printf(format, args...)
	}
}
