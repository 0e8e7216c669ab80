package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atlanticdynamic/parklynx/internal/automaton"
	"github.com/atlanticdynamic/parklynx/internal/parking"
	"github.com/urfave/cli/v3"
)

var graphCmd = &cli.Command{
	Name:  "graph",
	Usage: "Print the parking state graph",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: tree, mermaid or dot",
			Value:   "tree",
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		out, err := renderGraph(cmd.String("format"))
		if err != nil {
			return cli.Exit(err, 1)
		}
		_, err = fmt.Fprint(cmd.Root().Writer, out)
		return err
	},
}

func renderGraph(format string) (string, error) {
	sys, err := parking.New(1, parking.WithLogHandler(slog.DiscardHandler))
	if err != nil {
		return "", err
	}

	a := sys.Automaton()
	switch format {
	case "tree", "":
		return automaton.Tree(a, "Parking Facility", parking.Describe) + "\n", nil
	case "mermaid":
		return automaton.Mermaid(a), nil
	case "dot":
		return automaton.DOT(a), nil
	default:
		return "", fmt.Errorf("unknown graph format %q (use tree, mermaid or dot)", format)
	}
}
