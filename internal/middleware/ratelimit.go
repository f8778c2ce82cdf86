package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/ddx-coach-mcp-server/internal/domain"
)

const (
	maxTrackedClients = 10000
	clientIdleTTL     = 10 * time.Minute
)

// RateLimiter keeps one token bucket per client IP. Idle clients are evicted.
type RateLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients *expirable.LRU[string, *rate.Limiter]
}

// NewRateLimiter creates a per-client limiter from cfg
func NewRateLimiter(cfg domain.RateLimitConfig) *RateLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limit:   rate.Limit(cfg.RequestsPerSecond),
		burst:   burst,
		clients: expirable.NewLRU[string, *rate.Limiter](maxTrackedClients, nil, clientIdleTTL),
	}
}

// Allow reports whether client may make a request now
func (rl *RateLimiter) Allow(client string) bool {
	return rl.limiterFor(client).Allow()
}

func (rl *RateLimiter) limiterFor(client string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	limiter, ok := rl.clients.Get(client)
	if !ok {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
	}
	// Re-adding refreshes the idle TTL.
	rl.clients.Add(client, limiter)
	return limiter
}

// RateLimit rejects requests over the client's budget with 429
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, domain.NewServiceError(
				domain.ErrRateLimit,
				"too many requests",
				"",
				c.GetString(CorrelationIDKey),
			))
			return
		}
		c.Next()
	}
}
