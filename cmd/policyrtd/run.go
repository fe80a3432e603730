package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sentinel/policyrtd/pkg/cli"
	"sentinel/policyrtd/pkg/config"
	"sentinel/policyrtd/pkg/server"
	"sentinel/policyrtd/pkg/telemetry/logging"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the session server",
	Long: `Start the session server with the specified configuration.

The server serves the asset-language policy catalog and exposes a
session-scoped HTTP API for building, driving, and rendering Runtime
Policy instances.

Examples:
  # Start with default config
  policyrtd run

  # Start with custom config
  policyrtd run --config /etc/policyrtd/config.yaml

  # Override listen address
  policyrtd run --listen 0.0.0.0:8090

  # Validate config without starting the server
  policyrtd run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	if runFlags.listenAddress != "" {
		cfg.Session.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	if runFlags.dryRun {
		fmt.Println("configuration valid")
		return nil
	}

	fmt.Printf("policyrtd %s\n", Version)
	fmt.Printf("loading catalog from: %s (%s backend)\n", cfg.Catalog.Dir, cfg.Catalog.Backend)

	srv, err := server.New(cfg, logger)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	ctx := cli.SetupSignalHandler(logger)

	fmt.Printf("listening on %s\n", cfg.Session.ListenAddress)
	fmt.Printf("metrics: http://%s%s\n", cfg.Session.ListenAddress, cfg.Telemetry.Metrics.Path)
	fmt.Println("press Ctrl+C to stop")

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Println("server stopped")
	return nil
}
