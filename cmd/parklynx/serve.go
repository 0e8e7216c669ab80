package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atlanticdynamic/parklynx/internal/config"
	"github.com/atlanticdynamic/parklynx/internal/logging"
	"github.com/atlanticdynamic/parklynx/internal/lot"
	"github.com/atlanticdynamic/parklynx/internal/server/facility"
	"github.com/atlanticdynamic/parklynx/internal/server/httpapi"
	"github.com/atlanticdynamic/parklynx/internal/server/mcptools"
	"github.com/robbyt/go-supervisor/supervisor"
	"github.com/urfave/cli/v3"
)

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "Run the facility behind the HTTP and MCP endpoints",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path to TOML configuration file; built-in defaults when omitted",
			Aliases: []string{"c"},
		},
		&cli.StringFlag{
			Name:    "listen",
			Usage:   "Address for the HTTP server, overrides [server] listen",
			Aliases: []string{"l"},
		},
	},
	Action: serveAction,
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadServeConfig(cmd.String("config"), cmd.String("listen"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	// the [logging] section applies unless the flags were given explicitly
	if !cmd.Root().IsSet("log-level") && !cmd.Root().IsSet("log-format") &&
		(cfg.Logging.Level != "" || cfg.Logging.Format != "") {
		level := cfg.Logging.Level.String()
		if level == "" {
			level = cmd.Root().String("log-level")
		}
		if _, err := logging.SetupLogger(cfg.Logging.Format.String(), level, cmd.Root().String("log-output")); err != nil {
			return cli.Exit(err, 1)
		}
	}

	logger := slog.Default()
	runnables, err := buildRunnables(ctx, cfg, logger.Handler())
	if err != nil {
		return cli.Exit(err, 1)
	}

	super, err := supervisor.New(
		supervisor.WithRunnables(runnables...),
		supervisor.WithLogHandler(logger.Handler()),
		supervisor.WithContext(ctx),
	)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to create supervisor: %w", err), 1)
	}
	if err := super.Run(); err != nil {
		return cli.Exit(fmt.Errorf("failed to run server: %w", err), 1)
	}

	logger.Info("Server shutdown complete")
	return nil
}

func loadServeConfig(path, listen string) (*config.Config, error) {
	cfg := config.NewDefault()
	if path != "" {
		var err error
		cfg, err = config.NewConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if listen != "" {
		cfg.Server.Listen = listen
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// buildRunnables wires the facility runner and the HTTP server in start
// order.
func buildRunnables(ctx context.Context, cfg *config.Config, handler slog.Handler) ([]supervisor.Runnable, error) {
	sys, err := cfg.Facility.NewSystem(handler)
	if err != nil {
		return nil, fmt.Errorf("failed to create parking system: %w", err)
	}
	calc, err := cfg.Tariff.NewCalculator(handler)
	if err != nil {
		return nil, fmt.Errorf("failed to create tariff: %w", err)
	}

	attendant, err := lot.New(sys, lot.WithLogHandler(handler), lot.WithTariff(calc))
	if err != nil {
		return nil, fmt.Errorf("failed to create attendant: %w", err)
	}

	runner, err := facility.NewRunner(
		attendant,
		facility.WithLogHandler(handler),
		facility.WithContext(ctx),
		facility.WithPaceDelay(cfg.Server.PaceDelay.AsDuration()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create facility runner: %w", err)
	}

	mcpServer := mcptools.NewServer(runner, Version, slog.New(handler).WithGroup("mcptools"))
	api, err := httpapi.NewServer(
		cfg.Server.Listen,
		runner,
		httpapi.WithLogHandler(handler),
		httpapi.WithDrainTimeout(cfg.Server.DrainTimeout.AsDuration()),
		httpapi.WithReadTimeout(cfg.Server.ReadTimeout.AsDuration()),
		httpapi.WithHeaders(cfg.Server.Headers),
		httpapi.WithMCPHandler(mcptools.NewHandler(mcpServer)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}

	return []supervisor.Runnable{runner, api}, nil
}
