package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/ddx-coach-mcp-server/internal/domain"
)

// EnvPrefix is prepended to environment overrides, e.g. DDX_SERVER_PORT.
const EnvPrefix = "DDX"

// Manager implements the ConfigManager interface using Viper
type Manager struct {
	v      *viper.Viper
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	return NewManagerFromFile("")
}

// NewManagerFromFile loads configuration from an explicit file. An empty path searches
// the default locations, where a missing file is not an error.
func NewManagerFromFile(path string) (*Manager, error) {
	m := &Manager{v: viper.New()}
	if err := m.loadConfig(path); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig(path string) error {
	v := m.v
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/ddx-coach/")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	m.setDefaults()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	v := m.v
	v.SetDefault("environment", "development")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")

	// MCP defaults
	v.SetDefault("mcp.server_name", "ddx-coach-mcp-server")
	v.SetDefault("mcp.server_version", "1.0.0")
	v.SetDefault("mcp.transport_type", "stdio")

	// Data defaults
	v.SetDefault("data.catalog_path", "")
	v.SetDefault("data.cases_dir", "./cases")

	// Search defaults
	v.SetDefault("search.default_limit", 8)
	v.SetDefault("search.max_limit", 50)
	v.SetDefault("search.min_query_length", 2)

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_items", 1000)
	v.SetDefault("cache.ttl", "15m")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.redis_timeout", "200ms")
	v.SetDefault("cache.breaker.max_requests", 1)
	v.SetDefault("cache.breaker.interval", "60s")
	v.SetDefault("cache.breaker.timeout", "30s")
	v.SetDefault("cache.breaker.failure_threshold", 5)

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("quiz.seed", 0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig(m.v.ConfigFileUsed())
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.MCP.TransportType != "stdio" {
		return fmt.Errorf("unsupported MCP transport: %s", config.MCP.TransportType)
	}

	if config.Search.MinQueryLength < 0 {
		return fmt.Errorf("search min query length must not be negative: %d", config.Search.MinQueryLength)
	}

	if config.Search.DefaultLimit <= 0 {
		return fmt.Errorf("search default limit must be positive: %d", config.Search.DefaultLimit)
	}
	if config.Search.MaxLimit < config.Search.DefaultLimit {
		return fmt.Errorf("search max limit %d is below default limit %d", config.Search.MaxLimit, config.Search.DefaultLimit)
	}

	if config.Cache.Enabled && config.Cache.MaxItems <= 0 {
		return fmt.Errorf("cache max items must be positive: %d", config.Cache.MaxItems)
	}

	if config.RateLimit.Enabled && (config.RateLimit.RequestsPerSecond <= 0 || config.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit requires positive requests_per_second and burst")
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	switch strings.ToLower(config.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", config.Logging.Format)
	}

	return nil
}

// IsProduction returns true if running in production mode
func (m *Manager) IsProduction() bool {
	return strings.ToLower(m.config.Environment) == "production"
}

// IsDevelopment returns true if running in development mode
func (m *Manager) IsDevelopment() bool {
	env := strings.ToLower(m.config.Environment)
	return env == "development" || env == "dev" || env == ""
}
