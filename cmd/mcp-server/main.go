package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ddx-coach-mcp-server/internal/bootstrap"
	"github.com/ddx-coach-mcp-server/internal/config"
	"github.com/ddx-coach-mcp-server/internal/logging"
	"github.com/ddx-coach-mcp-server/internal/mcp"
)

func main() {
	// stdout carries the protocol
	log.SetOutput(os.Stderr)

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
	cfg.Logging.Output = "stderr"
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize differential engine")
	}
	defer app.Close()

	// Create MCP server
	mcpServer, err := mcp.NewServer(app.Service, cfg.MCP, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create MCP server")
	}

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start MCP server
	if err := mcpServer.Start(ctx); err != nil {
		logger.WithError(err).Error("MCP server failed")
		return
	}
}
