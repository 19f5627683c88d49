package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/terraincognita07/lunalog/internal/cli"
	"github.com/terraincognita07/lunalog/internal/config"
	"github.com/terraincognita07/lunalog/internal/logging"
	"go.uber.org/zap"
)

const usage = `Usage: lunalog [--config FILE] <command>

Commands:
  setup    choose the password on first run
  shell    unlock and start the interactive tracker
  reset    delete all data and the password (--yes skips the prompt)`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	flags := flag.NewFlagSet("lunalog", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { fmt.Fprintln(stderr, usage) }
	configPath := flags.String("config", "", "path to lunalog.yaml")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.NArg() == 0 {
		fmt.Fprintln(stderr, usage)
		return 2
	}

	command, commandArgs := flags.Arg(0), flags.Args()[1:]
	assumeYes := false
	switch command {
	case "setup", "shell":
		if len(commandArgs) > 0 {
			fmt.Fprintln(stderr, usage)
			return 2
		}
	case "reset":
		resetFlags := flag.NewFlagSet("reset", flag.ContinueOnError)
		resetFlags.SetOutput(stderr)
		yes := resetFlags.Bool("yes", false, "skip the confirmation prompt")
		if err := resetFlags.Parse(commandArgs); err != nil {
			return 2
		}
		assumeYes = *yes
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s\n", command, usage)
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}

	logger, err := logging.New(logging.Options{File: cfg.Log.File, Level: cfg.Log.Level})
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := cli.NewApp(cli.Options{
		Config: cfg,
		Logger: logger,
		In:     stdin,
		Out:    stdout,
	})
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		fmt.Fprintf(stderr, "lunalog: %v\n", err)
		return 1
	}
	defer func() {
		_ = app.Close()
	}()

	switch command {
	case "setup":
		err = app.RunSetup(ctx)
	case "shell":
		err = app.RunShell(ctx)
	case "reset":
		err = app.RunReset(ctx, assumeYes)
	}
	if err != nil {
		logger.Info("command finished with error", zap.String("command", command), zap.Error(err))
		return 1
	}
	return 0
}
