package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	MCP         MCPConfig       `mapstructure:"mcp"`
	Data        DataConfig      `mapstructure:"data"`
	Search      SearchConfig    `mapstructure:"search"`
	Cache       CacheConfig     `mapstructure:"cache"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Quiz        QuizConfig      `mapstructure:"quiz"`
	Logging     LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// MCPConfig represents MCP server configuration
type MCPConfig struct {
	ServerName    string `mapstructure:"server_name"`
	ServerVersion string `mapstructure:"server_version"`
	TransportType string `mapstructure:"transport_type"` // "stdio"
}

// DataConfig points at the collaborator-owned data files.
type DataConfig struct {
	CatalogPath string `mapstructure:"catalog_path"` // empty uses the embedded catalog
	CasesDir    string `mapstructure:"cases_dir"`
}

// SearchConfig bounds autocomplete result sizes. Queries shorter than MinQueryLength
// runes after trimming return no suggestions.
type SearchConfig struct {
	DefaultLimit   int `mapstructure:"default_limit"`
	MaxLimit       int `mapstructure:"max_limit"`
	MinQueryLength int `mapstructure:"min_query_length"`
}

// CacheConfig represents cache configuration
type CacheConfig struct {
	Enabled      bool                 `mapstructure:"enabled"`
	MaxItems     int                  `mapstructure:"max_items"`
	TTL          time.Duration        `mapstructure:"ttl"`
	RedisURL     string               `mapstructure:"redis_url"`
	RedisTimeout time.Duration        `mapstructure:"redis_timeout"`
	Breaker      CircuitBreakerConfig `mapstructure:"breaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
}

// RateLimitConfig represents per-client request limits for the HTTP API
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// QuizConfig controls practice card generation
type QuizConfig struct {
	Seed int64 `mapstructure:"seed"` // 0 means non-deterministic
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
