package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/comitanigiacomo/onedo/internal/cli"
	"github.com/comitanigiacomo/onedo/internal/config"
	"github.com/comitanigiacomo/onedo/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	EnvFile string `help:"Environment file merged into the process environment." default:".env" type:"path"`
	Debug   bool   `help:"Enable debug logging."`

	Today          cli.TodayCmd          `cmd:"" help:"Show the habits due on a day." default:"1"`
	Add            cli.AddCmd            `cmd:"" help:"Add a new habit."`
	Toggle         cli.ToggleCmd         `cmd:"" help:"Mark or unmark a habit for a day."`
	Progress       cli.ProgressCmd       `cmd:"" help:"Show a habit's goal progress."`
	Reminders      cli.RemindersCmd      `cmd:"" help:"Re-derive reminder triggers for every habit."`
	Export         cli.ExportCmd         `cmd:"" help:"Write all habits as a JSON snapshot."`
	Import         cli.ImportCmd         `cmd:"" help:"Replace all habits with a JSON snapshot."`
	HashPassphrase cli.HashPassphraseCmd `cmd:"" help:"Print a bcrypt hash for PASSPHRASE_HASH."`
	SetSecret      cli.SetSecretCmd      `cmd:"" help:"Store the API token secret in the OS keyring."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("onedo"),
		kong.Description("Daily habit tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{"version": "v0.1.0"},
	)

	cfg, err := config.Load(CLI.EnvFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug || cfg.Debug, Dir: cfg.LogDir, Quiet: true}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	appCtx := &cli.Context{
		Ctx:    context.Background(),
		Config: cfg,
		Out:    os.Stdout,
		In:     os.Stdin,
	}

	err = kctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("failed to close store", "err", closeErr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
