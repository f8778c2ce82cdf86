package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ddx-coach-mcp-server/internal/api"
	"github.com/ddx-coach-mcp-server/internal/bootstrap"
	"github.com/ddx-coach-mcp-server/internal/config"
	"github.com/ddx-coach-mcp-server/internal/logging"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize differential engine")
	}
	defer app.Close()

	logger.WithField("addr", cfg.Server.Host).WithField("port", cfg.Server.Port).Info("Starting differential coaching HTTP server")

	// Create server
	server := api.NewServer(configManager, app.Service, logger)

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start server
	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Error("Server failed")
		return
	}

	logger.Info("Server stopped")
}
