// Edgenode - IoT device-management node core
//
// This is the main entry point for the edgenode daemon. It brings up
// the device-management core (network transport, MQTT broker client,
// REST API, connectivity indicator) and runs the maintenance loop until
// a shutdown signal arrives.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/edgenode-io/edgenode/internal/infrastructure/config"
	"github.com/edgenode-io/edgenode/internal/infrastructure/logging"
	"github.com/edgenode-io/edgenode/internal/node"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting edgenode",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings, on a fanout so the
	// broker log mirror can be attached once the client exists.
	log, fanout := logging.NewMirrored(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	core, err := node.New(node.Deps{
		Config:  cfg,
		Logger:  log,
		Version: version,
		Fanout:  fanout,
	})
	if err != nil {
		return fmt.Errorf("creating node: %w", err)
	}

	if err := core.Begin(ctx); err != nil {
		return fmt.Errorf("starting node: %w", err)
	}
	defer func() {
		log.Info("shutting down")
		if closeErr := core.Close(); closeErr != nil {
			log.Error("error during shutdown", "error", closeErr)
		}
	}()

	if err := core.HealthCheck(ctx); err != nil {
		// The broker may still be connecting; connectivity is visible on
		// the indicator and retried in the background.
		log.Warn("startup health check", "status", err.Error())
	}

	log.Info("initialisation complete, entering run loop")

	if err := core.Run(ctx); err != nil {
		return fmt.Errorf("run loop: %w", err)
	}

	log.Info("edgenode stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses EDGENODE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("EDGENODE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
