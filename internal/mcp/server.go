// Package mcp exposes the differential engine over the Model Context Protocol.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/ddx-coach-mcp-server/internal/domain"
	"github.com/ddx-coach-mcp-server/internal/mcp/prompts"
	"github.com/ddx-coach-mcp-server/internal/mcp/resources"
	"github.com/ddx-coach-mcp-server/internal/mcp/tools"
	"github.com/ddx-coach-mcp-server/internal/service"
)

// Server represents the differential coaching MCP server
type Server struct {
	cfg       domain.MCPConfig
	mcpServer *mcp.Server
	service   *service.DifferentialService
	tools     *tools.ToolRegistry
	logger    *logrus.Logger
}

// NewServer creates a new MCP server instance with every tool, prompt and resource registered
func NewServer(svc *service.DifferentialService, cfg domain.MCPConfig, logger *logrus.Logger) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("differential service is required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if cfg.ServerName == "" {
		cfg.ServerName = "ddx-coach-mcp-server"
	}
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "v0.1.0"
	}
	if cfg.TransportType == "" {
		cfg.TransportType = "stdio"
	}
	if cfg.TransportType != "stdio" {
		return nil, fmt.Errorf("unsupported transport type %q", cfg.TransportType)
	}

	server := &Server{
		cfg: cfg,
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.ServerName,
			Version: cfg.ServerVersion,
		}, nil),
		service: svc,
		tools:   tools.NewToolRegistry(logger, svc),
		logger:  logger,
	}
	server.registerCapabilities()

	return server, nil
}

// Start runs the server over stdio until ctx is cancelled or the client disconnects
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithFields(logrus.Fields{
		"server_name":    s.cfg.ServerName,
		"server_version": s.cfg.ServerVersion,
		"transport_type": s.cfg.TransportType,
	}).Info("Starting differential coaching MCP server")

	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	s.logger.Info("MCP server stopped")
	return nil
}

// MCPServer returns the underlying SDK server, for connecting other transports
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

// ToolNames returns the registered tool names
func (s *Server) ToolNames() []string {
	return s.tools.RegisteredTools()
}

// registerCapabilities registers all MCP tools, resources, and prompts
func (s *Server) registerCapabilities() {
	s.logger.Info("Registering MCP capabilities...")

	s.tools.RegisterAllTools(s.mcpServer)
	resources.NewResourceManager(s.logger, s.service).RegisterAll(s.mcpServer)
	prompts.NewPromptManager(s.logger, s.service).RegisterAll(s.mcpServer)

	s.logger.Info("Successfully registered all MCP capabilities")
}
