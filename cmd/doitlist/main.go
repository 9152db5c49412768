// Package main is the entry point for the doitlist CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doitlist/internal/backend/googletasks"
	"doitlist/internal/cli"
	"doitlist/internal/commands"
	"doitlist/internal/config"
	"doitlist/internal/platform/otel"
	"doitlist/internal/service"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	var env config.Env
	if err := config.ParseEnv(&env); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	shutdown, err := otel.Setup(ctx, config.AppName, commands.Version, env.OTelEndpoint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: tracing disabled: %v\n", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(flushCtx)
	}()

	remotes := func(ctx context.Context, cfg *config.Config) (service.Remote, error) {
		return googletasks.New(ctx, cfg)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, cli.OpenStore, remotes)
	return dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}
