package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/ddx-coach-mcp-server/internal/domain"
)

const keyPrefix = "ddx:result:"

// RedisCache is the shared cache tier. Calls go through a circuit breaker so an
// unavailable Redis degrades to cache misses without stalling requests.
type RedisCache struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
	ttl     time.Duration
	timeout time.Duration
	logger  *logrus.Logger
}

// NewRedisCache creates a new RedisCache from a redis:// URL. It does not dial; the
// first command connects lazily.
func NewRedisCache(cfg domain.CacheConfig, logger *logrus.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	timeout := cfg.RedisTimeout
	if timeout <= 0 {
		timeout = 200 * time.Millisecond
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	threshold := cfg.Breaker.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	rc := &RedisCache{
		client:  redis.NewClient(opts),
		ttl:     ttl,
		timeout: timeout,
		logger:  logger,
	}
	rc.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})
	return rc, nil
}

// Get returns a cached value. Errors and an open breaker are reported as misses.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	v, err := r.breaker.Execute(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			// a miss is not a failure
			return []byte(nil), nil
		}
		return data, err
	})
	if err != nil {
		r.logger.WithError(err).WithField("key", key).Debug("Redis cache get failed")
		return nil, false
	}
	data, _ := v.([]byte)
	return data, data != nil
}

// Set stores a value with the configured TTL.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.breaker.Execute(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		return nil, r.client.Set(ctx, keyPrefix+key, value, r.ttl).Err()
	})
	if err != nil {
		return domain.NewServiceError(domain.ErrCache, "failed to write Redis cache", err.Error(), "")
	}
	return nil
}

// State returns the breaker state name.
func (r *RedisCache) State() string {
	return r.breaker.State().String()
}

// Close releases the client connections.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
