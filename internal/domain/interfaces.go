package domain

import (
	"context"
)

// ConfigManager exposes the loaded configuration to servers and commands
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	Validate() error
	Reload() error
	IsProduction() bool
	IsDevelopment() bool
}

// CaseRepository provides case summaries and answer keys. Cases are owned by the
// case-authoring side; the engine only reads them.
type CaseRepository interface {
	Get(ctx context.Context, id string) (*Case, error)
	List(ctx context.Context) ([]CaseSummary, error)
}

// ResultCache stores serialized results by key. Implementations must treat a failed
// lookup as a miss.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
}

// CacheStats is a snapshot of result-cache counters. RemoteState is the remote tier's
// breaker state, or "disabled" when only the memory tier is in use.
type CacheStats struct {
	MemoryHits  int64  `json:"memory_hits"`
	RemoteHits  int64  `json:"remote_hits"`
	Misses      int64  `json:"misses"`
	SetErrors   int64  `json:"set_errors"`
	RemoteState string `json:"remote_state"`
}

// CacheReporter is implemented by result caches that keep counters.
type CacheReporter interface {
	Stats() CacheStats
}
