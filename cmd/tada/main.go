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

	"github.com/idilsaglam/tada/internal/cli"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Root flags (apply to every subcommand)
	fset := flag.NewFlagSet("tada", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	cfg, err := config.Load(fset, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			cli.PrintHelp(os.Stdout)
			return cli.ExitOK
		}
		ui.New(os.Stdout, os.Stderr, "", ui.ColorAuto).Fail(err.Error())
		return cli.ExitUsage
	}

	var logOut io.Writer = os.Stderr
	if cfg.Log.File != "" {
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			fmt.Fprintln(os.Stderr, "log file:", err)
			return cli.ExitError
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.FromStrings(logOut, cfg.Log.Level, cfg.Log.Format)
	if cfg.ConfigFile != "" {
		logger.Debug("loaded config", "file", cfg.ConfigFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := cli.Run(ctx, fset.Args(), cli.Options{
		Config:  cfg,
		Printer: ui.New(os.Stdout, os.Stderr, cfg.Theme, ui.ColorAuto),
		Logger:  logger,
	})
	if code != cli.ExitOK {
		fmt.Fprintln(os.Stderr)
	}
	return code
}
