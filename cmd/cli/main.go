package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/gridframe/internal/app"
	"github.com/vk/gridframe/internal/cli"
)

// main is the entrypoint for the gridframe application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	gridframeApp, err := app.New(outW, appConfig)
	if err != nil {
		return err
	}
	defer gridframeApp.Close()

	result, err := gridframeApp.Run(context.Background())
	if err != nil {
		return err
	}

	for _, f := range result.Findings {
		fmt.Fprintf(outW, "[%s] %s: %s\n", f.Severity, f.Module, f.Message)
	}
	if result.Failed() {
		for _, report := range result.Reports {
			if report.Failed() {
				fmt.Fprintln(outW, report.Summary())
			}
		}
		return &cli.ExitError{Code: 1, Message: "scenario build completed with module failures"}
	}
	return nil
}
