package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/roadmap/internal/app"
	"github.com/alexanderramin/roadmap/internal/cli"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	a := &cli.App{}

	// Services are opened after flags and config are resolved.
	a.Connect = func(ctx context.Context, a *cli.App) (func() error, error) {
		rt, err := app.Open(ctx, a.Config, a.Logger)
		if err != nil {
			return nil, err
		}
		a.Progress = rt.Progress
		a.Renderer = rt.Renderer
		return rt.Close, nil
	}

	// Prompts and the board need an interactive terminal.
	a.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(a)
	err := rootCmd.Execute()
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	return err
}
