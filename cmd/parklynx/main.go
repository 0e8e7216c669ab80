package main

import (
	"context"
	"fmt"
	"os"

	"github.com/atlanticdynamic/parklynx/internal/logging"
	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "parklynx",
		Version: Version,
		Usage:   "Automated parking facility driven by a finite-state machine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error, trace)",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (text or json)",
				Value: "text",
			},
			&cli.StringFlag{
				Name:  "log-output",
				Usage: "Log destination (stdout, stderr, file:///path); defaults to stderr",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			_, err := logging.SetupLogger(
				cmd.String("log-format"),
				cmd.String("log-level"),
				cmd.String("log-output"),
			)
			if err != nil {
				return ctx, cli.Exit(err, 1)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			simulateCmd,
			serveCmd,
			graphCmd,
			validateCmd,
			versionCmd,
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
