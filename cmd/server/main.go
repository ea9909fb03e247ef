package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/evemaps/pipecleaner/internal/config"
	"github.com/evemaps/pipecleaner/internal/engine"
	"github.com/evemaps/pipecleaner/internal/esi"
	"github.com/evemaps/pipecleaner/internal/server"
	"github.com/evemaps/pipecleaner/internal/topology"
	"github.com/evemaps/pipecleaner/internal/version"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Setup logger
	logger := setupLogger()

	// Create application context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load and validate configuration
	cfg, err := loadAndValidateConfig(logger, *configPath)
	if err != nil {
		logger.WithError(err).Fatal("Configuration error")
	}

	// Load the static topology; malformed or missing file is fatal
	topo, err := topology.Load(cfg.Topology.Path)
	if err != nil {
		logger.WithError(err).Fatal("Topology load failed")
	}

	logger.WithFields(logrus.Fields{
		"pipes":   len(topo.Rows()),
		"systems": len(topo.SystemIDs()),
	}).Info("Topology loaded")

	// Create the ESI client
	client, err := esi.NewHTTPClient(&cfg.ESI, logger)
	if err != nil {
		logger.WithError(err).Fatal("ESI client setup failed")
	}

	// Create the polling engine; this performs the initial load with
	// bounded retries and is fatal on exhaustion
	eng, err := engine.New(ctx, logger, cfg.Engine, client, topo)
	if err != nil {
		logger.WithError(err).Fatal("Engine initialization failed")
	}

	// Start HTTP server
	srv, err := startServer(cfg, logger, eng)
	if err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	logger.WithField("signal", sig.String()).Info("Received shutdown signal")

	// Cancel application context
	cancel()

	// Perform graceful shutdown
	shutdownGracefully(logger, cfg, srv, eng)
}

// setupLogger creates and configures the application logger.
func setupLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})

	logger.WithFields(logrus.Fields{
		"version":    version.Short(),
		"git_commit": version.GitCommit,
		"build_date": version.BuildDate,
	}).Info("Starting...")

	return logger
}

// loadAndValidateConfig loads the configuration file and validates it.
func loadAndValidateConfig(
	logger *logrus.Logger,
	configPath string,
) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Set log level from config
	level, parseErr := logrus.ParseLevel(cfg.Server.LogLevel)
	if parseErr != nil {
		logger.WithError(parseErr).Warn("Invalid log level, using info")

		level = logrus.InfoLevel
	}

	logger.SetLevel(level)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"port":      cfg.Server.Port,
		"log_level": cfg.Server.LogLevel,
	}).Info("Configuration loaded")

	return cfg, nil
}

// startServer creates and starts the HTTP server.
func startServer(
	cfg *config.Config,
	logger *logrus.Logger,
	eng *engine.Engine,
) (*server.Server, error) {
	srv, err := server.New(logger, cfg, eng)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	// Start server in goroutine
	go func() {
		logger.WithField("port", cfg.Server.Port).Info("HTTP server starting")

		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("HTTP server error")
		}
	}()

	return srv, nil
}

// shutdownGracefully performs graceful shutdown of all services.
func shutdownGracefully(
	logger *logrus.Logger,
	cfg *config.Config,
	srv *server.Server,
	eng *engine.Engine,
) {
	logger.Info("Initiating graceful shutdown...")

	// Create a timeout context for the shutdown process
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Stop HTTP server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Error during server shutdown")
	}

	// Flush engine history (persistence hook, currently a no-op)
	if err := eng.Dump(); err != nil {
		logger.WithError(err).Error("Error dumping engine history")
	}

	logger.Info("Server stopped gracefully")
}
