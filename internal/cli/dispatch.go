// Package cli parses the command line and runs commands against the task store.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"

	"doitlist/internal/commands"
	"doitlist/internal/config"
	"doitlist/internal/exitcode"
	"doitlist/internal/output"
	"doitlist/internal/service"
	"doitlist/internal/session"
	"doitlist/internal/storage"
	"doitlist/internal/storage/memory"
	"doitlist/internal/storage/sqlkv"
)

// StoreFactory opens the key-value store that backs the task list.
type StoreFactory func(ctx context.Context, cfg *config.Config) (storage.KV, error)

// RemoteFactory creates the Google Tasks client used by publish.
type RemoteFactory func(ctx context.Context, cfg *config.Config) (service.Remote, error)

// OpenStore is the default StoreFactory.
// --memory selects the in-process store; otherwise the configured SQL driver
// is used, with the SQLite file in the config directory as the fallback DSN.
func OpenStore(ctx context.Context, cfg *config.Config) (storage.KV, error) {
	if cfg.Memory {
		return memory.New(), nil
	}

	driver := cfg.Env.StoreDriver
	dsn := cfg.Env.StoreDSN
	if dsn == "" {
		if driver != "" && driver != sqlkv.DriverSQLite {
			return nil, fmt.Errorf("DOITLIST_STORE_DSN is required for driver %s", driver)
		}
		if err := cfg.EnsureDir(); err != nil {
			return nil, err
		}
		dsn = sqlkv.SQLiteDSN(cfg.DatabasePath())
	}
	store, err := sqlkv.Open(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	stores   StoreFactory
	remotes  RemoteFactory
}

// NewDispatcher creates a new dispatcher with the given registry and factories.
// A nil stores factory means OpenStore.
func NewDispatcher(registry *commands.Registry, stores StoreFactory, remotes RemoteFactory) *Dispatcher {
	if stores == nil {
		stores = OpenStore
	}
	return &Dispatcher{
		registry: registry,
		stores:   stores,
		remotes:  remotes,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> list
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var (
		configDir string
		quiet     bool
		debug     bool
		inMemory  bool
	)
	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")
	fs.BoolVar(&inMemory, "memory", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A dash after positional args was not parsed as a flag
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") && positionalArgs[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	cfg.Memory = inMemory

	logger := log.New(io.Discard, "", 0)
	if debug {
		logger = log.New(errOut, "debug: ", 0)
	}
	env := &commands.Env{Config: cfg, Logger: logger}

	if cmd.NeedsAuth() {
		remote, code := d.openRemote(ctx, cfg, errOut)
		if code != exitcode.Success {
			return code
		}
		env.Remote = remote
	}

	if !cmd.NeedsStore() {
		return cmd.Run(ctx, env, positionalArgs, out, errOut)
	}

	kv, err := d.stores(ctx, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.StorageError
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logger.Printf("close store: %v", err)
		}
	}()

	env.Session = session.New(kv, logger)
	env.Session.Hydrate(ctx)
	reported := printWarnings(errOut, env.Session.Warnings(), 0)

	code := cmd.Run(ctx, env, positionalArgs, out, errOut)

	// Mutation commands report their own save failures as errors.
	if code == exitcode.Success {
		printWarnings(errOut, env.Session.Warnings(), reported)
	}
	return code
}

// openRemote returns the publish backend.
// Without a factory it only runs the credential pre-flight checks.
func (d *Dispatcher) openRemote(ctx context.Context, cfg *config.Config, errOut io.Writer) (service.Remote, int) {
	if d.remotes == nil {
		if !cfg.HasOAuthClient() {
			fmt.Fprintf(errOut, "error: %s not found in %s\n", config.OAuthClientFile, cfg.Dir)
			return nil, exitcode.AuthError
		}
		if !cfg.HasToken() {
			fmt.Fprintln(errOut, "error: not logged in (run: doitlist login)")
			return nil, exitcode.AuthError
		}
		fmt.Fprintln(errOut, "error: backend error: no Google Tasks client configured")
		return nil, exitcode.BackendError
	}

	remote, err := d.remotes(ctx, cfg)
	if err != nil {
		if isAuthError(err) {
			fmt.Fprintf(errOut, "error: auth error: %s\n", err)
			return nil, exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return nil, exitcode.BackendError
	}
	return remote, exitcode.Success
}

func isAuthError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "token") || strings.Contains(msg, "auth")
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	if strings.HasPrefix(errStr, "flag needs an argument:") {
		flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		return "flag needs an argument: " + flagName
	}

	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag provided but not defined:"))
		return "unknown flag: " + flagName
	}

	return errStr
}

// printWarnings prints warnings[skip:] and returns the number printed in total.
func printWarnings(w io.Writer, warnings []string, skip int) int {
	if skip > len(warnings) {
		return len(warnings)
	}
	for _, msg := range warnings[skip:] {
		output.FormatWarning(w, msg)
	}
	return len(warnings)
}
