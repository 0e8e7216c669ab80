package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/atlanticdynamic/parklynx/internal/config"
	"github.com/urfave/cli/v3"
)

var validateCmd = &cli.Command{
	Name:    "validate",
	Aliases: []string{"lint"},
	Usage:   "Validate a configuration file",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "tree",
			Aliases: []string{"t"},
			Usage:   "Show detailed tree view of the validated configuration",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the configuration file",
		},
	},
	Action: validateAction,
}

func validateAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		if cmd.Args().Len() < 1 {
			return cli.Exit(
				"config file path required (use the --config flag, or provide the config file as positional argument)",
				1,
			)
		}
		configPath = cmd.Args().Get(0)
	}

	out, err := validateLocal(configPath, cmd.Bool("tree"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	_, err = fmt.Fprintln(cmd.Root().Writer, out)
	return err
}

func validateLocal(configPath string, treeView bool) (string, error) {
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	header := fmt.Sprintf("Configuration file %s is valid\n", configPath)
	if treeView {
		return header + cfg.String(), nil
	}
	return header + renderConfigSummary(configPath, cfg), nil
}

// renderConfigSummary creates a formatted summary string for the configuration
func renderConfigSummary(path string, cfg *config.Config) string {
	var summary strings.Builder

	summary.WriteString("\nConfig Summary:\n")
	summary.WriteString(fmt.Sprintf("- Path: %s\n", path))
	summary.WriteString(fmt.Sprintf("- Version: %s\n", cfg.Version))
	summary.WriteString(fmt.Sprintf("- Capacity: %d\n", cfg.Facility.Capacity))
	summary.WriteString(fmt.Sprintf("- Tariff: %s\n", cfg.Tariff.Type))
	summary.WriteString(fmt.Sprintf("- Listen: %s\n", cfg.Server.Listen))
	summary.WriteString("\nUse --tree for a more detailed view of the config.")

	return summary.String()
}
