// Package api serves the differential engine over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ddx-coach-mcp-server/internal/domain"
	"github.com/ddx-coach-mcp-server/internal/middleware"
	"github.com/ddx-coach-mcp-server/internal/service"
)

const shutdownTimeout = 30 * time.Second

// Version is reported by the health endpoint
var Version = "v0.1.0"

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	service       *service.DifferentialService
	logger        *logrus.Logger
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(configManager domain.ConfigManager, svc *service.DifferentialService, logger *logrus.Logger) *Server {
	cfg := configManager.GetConfig()

	// Set Gin mode based on environment
	if configManager.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit)))
	}

	server := &Server{
		configManager: configManager,
		service:       svc,
		logger:        logger,
		router:        router,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", s.handleHealth)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/diagnoses/search", s.handleSearch)
		v1.GET("/taxonomy", s.handleTaxonomy)

		v1.POST("/differentials/match", s.handleMatch)
		v1.POST("/differentials/analyze", s.handleAnalyze)
		v1.POST("/differentials/quiz", s.handleQuiz)

		v1.GET("/cases", s.handleListCases)
		v1.GET("/cases/:id", s.handleGetCase)
		v1.POST("/cases/:id/evaluate", s.handleEvaluateCase)
		v1.POST("/cases/:id/quiz", s.handleCaseQuiz)
		v1.POST("/cases/:id/prompt", s.handleCasePrompt)

		v1.POST("/practice/check", s.handlePracticeCheck)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	cases, err := s.service.ListCases(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	body := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   Version,
		"terms":     s.service.Catalog().Len(),
		"cases":     len(cases),
	}
	if stats, ok := s.service.ResultCacheStats(); ok {
		body["cache"] = stats
	}
	c.JSON(http.StatusOK, body)
}

// writeError renders err as a ServiceError with a status matching its code
func (s *Server) writeError(c *gin.Context, err error) {
	code := domain.ErrorCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, domain.NewServiceError(code, err.Error(), "", c.GetString(middleware.CorrelationIDKey)))
}

func statusFor(code string) int {
	switch code {
	case domain.ErrValidation, domain.ErrInvalidInput:
		return http.StatusBadRequest
	case domain.ErrCaseNotFound:
		return http.StatusNotFound
	case domain.ErrRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func invalidInput(err error) error {
	return domain.NewServiceError(domain.ErrInvalidInput, fmt.Sprintf("invalid request body: %v", err), "", "")
}
