package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddx-coach-mcp-server/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"correlation_id": c.GetString(CorrelationIDKey)})
	})
	r.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})
	return r
}

func get(r http.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSecurityHeaders(t *testing.T) {
	w := get(newRouter(SecurityHeaders()), "/ping", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
	// HSTS is only sent in release mode
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestCORS_Preflight(t *testing.T) {
	r := newRouter(CORS())
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorrelationID(t *testing.T) {
	r := newRouter(CorrelationID())

	tests := []struct {
		name   string
		header map[string]string
		want   string
	}{
		{"propagated", map[string]string{CorrelationIDHeader: "abc-123"}, "abc-123"},
		{"generated", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/ping", tt.header)

			got := w.Header().Get(CorrelationIDHeader)
			require.NotEmpty(t, got)
			if tt.want != "" {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Len(t, got, 36)
			}

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, got, body["correlation_id"])
		})
	}
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(domain.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 2})

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiter_ConcurrentFirstRequests(t *testing.T) {
	for round := 0; round < 50; round++ {
		rl := NewRateLimiter(domain.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1})

		var allowed atomic.Int32
		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if rl.Allow("10.0.0.9") {
					allowed.Add(1)
				}
			}()
		}
		close(start)
		wg.Wait()

		require.Equal(t, int32(1), allowed.Load(), "round %d", round)
	}
}

func TestRateLimit_Rejects(t *testing.T) {
	r := newRouter(CorrelationID(), RateLimit(NewRateLimiter(domain.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1})))

	first := get(r, "/ping", nil)
	second := get(r, "/ping", map[string]string{CorrelationIDHeader: "req-2"})

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))

	var body domain.ServiceError
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, domain.ErrRateLimit, body.Code)
	assert.Equal(t, "req-2", body.RequestID)
}

func TestRequestLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	r := newRouter(CorrelationID(), RequestLogger(logger))

	get(r, "/ping", map[string]string{CorrelationIDHeader: "log-1"})
	get(r, "/boom", nil)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, logrus.InfoLevel, entries[0].Level)
	assert.Equal(t, "log-1", entries[0].Data["correlation_id"])
	assert.Equal(t, "/ping", entries[0].Data["path"])
	assert.Equal(t, http.StatusOK, entries[0].Data["status"])
	assert.Equal(t, logrus.ErrorLevel, entries[1].Level)
}
