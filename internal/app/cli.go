package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/haguru/seedkit/config"
)

// Task is the body of a command, run against a fully initialized App.
type Task func(ctx context.Context, app *App) error

// Execute parses args, resolves the configuration once and runs task.
// It returns the process exit status.
func Execute(command string, args []string, lookup func(string) (string, bool), stderr io.Writer, task Task) int {
	flags := flag.NewFlagSet(command, flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "path to a YAML config file (default "+config.CONFIG_PATH+" when present)")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	cfg, err := config.Load(config.ResolvePath(*configPath), lookup)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", command, err)
		return 1
	}

	app, err := NewApp(cfg, command)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", command, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return ExitCode(task(ctx, app))
}

// Main is the entry point shared by the commands: it loads .env from the
// working directory and runs task with the process arguments.
func Main(command string, task Task) int {
	if err := config.LoadLocalEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: failed to load .env: %v\n", command, err)
		return 1
	}
	return Execute(command, os.Args[1:], os.LookupEnv, os.Stderr, task)
}
