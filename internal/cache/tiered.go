package cache

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/ddx-coach-mcp-server/internal/domain"
)

// Tiered reads through the memory tier to an optional remote tier and back-fills
// memory on remote hits.
type Tiered struct {
	memory *MemoryCache
	remote domain.ResultCache
	logger *logrus.Logger

	memoryHits atomic.Int64
	remoteHits atomic.Int64
	misses     atomic.Int64
	setErrors  atomic.Int64
}

// NewTiered creates a new Tiered cache. remote may be nil.
func NewTiered(memory *MemoryCache, remote domain.ResultCache, logger *logrus.Logger) *Tiered {
	return &Tiered{memory: memory, remote: remote, logger: logger}
}

// New builds the cache stack described by cfg. It returns nil when caching is disabled.
// A bad Redis URL is logged and the memory tier is used alone.
func New(cfg domain.CacheConfig, logger *logrus.Logger) *Tiered {
	if !cfg.Enabled {
		return nil
	}
	var remote domain.ResultCache
	if cfg.RedisURL != "" {
		rc, err := NewRedisCache(cfg, logger)
		if err != nil {
			logger.WithError(err).Warn("Redis cache disabled")
		} else {
			remote = rc
		}
	}
	return NewTiered(NewMemoryCache(cfg.MaxItems, cfg.TTL), remote, logger)
}

// Get looks up key in memory, then in the remote tier.
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if v, ok := t.memory.Get(ctx, key); ok {
		t.memoryHits.Add(1)
		return v, true
	}
	if t.remote != nil {
		if v, ok := t.remote.Get(ctx, key); ok {
			t.remoteHits.Add(1)
			_ = t.memory.Set(ctx, key, v)
			return v, true
		}
	}
	t.misses.Add(1)
	return nil, false
}

// Set writes key to every tier. A remote failure is logged and returned, the memory
// tier keeps the value regardless.
func (t *Tiered) Set(ctx context.Context, key string, value []byte) error {
	_ = t.memory.Set(ctx, key, value)
	if t.remote == nil {
		return nil
	}
	if err := t.remote.Set(ctx, key, value); err != nil {
		t.setErrors.Add(1)
		t.logger.WithError(err).WithField("key", key).Warn("Failed to write remote cache")
		return err
	}
	return nil
}

// Stats returns a snapshot of the counters and the remote breaker state.
func (t *Tiered) Stats() domain.CacheStats {
	state := "disabled"
	if r, ok := t.remote.(interface{ State() string }); ok {
		state = r.State()
	} else if t.remote != nil {
		state = "enabled"
	}
	return domain.CacheStats{
		MemoryHits:  t.memoryHits.Load(),
		RemoteHits:  t.remoteHits.Load(),
		Misses:      t.misses.Load(),
		SetErrors:   t.setErrors.Load(),
		RemoteState: state,
	}
}

// Close releases the remote tier, if it holds a connection.
func (t *Tiered) Close() error {
	if c, ok := t.remote.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
