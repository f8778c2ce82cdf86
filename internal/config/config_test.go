package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	m, err := NewManager()
	require.NoError(t, err)

	cfg := m.GetConfig()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "stdio", cfg.MCP.TransportType)
	assert.Equal(t, 8, cfg.Search.DefaultLimit)
	assert.Equal(t, 50, cfg.Search.MaxLimit)
	assert.Equal(t, 2, cfg.Search.MinQueryLength)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.Empty(t, cfg.Cache.RedisURL)
	assert.Equal(t, uint32(5), cfg.Cache.Breaker.FailureThreshold)
	assert.Equal(t, 10.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, int64(0), cfg.Quiz.Seed)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, m.IsDevelopment())
	assert.NoError(t, m.Validate())
}

func TestNewManager_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DDX_SERVER_PORT", "9090")
	t.Setenv("DDX_CACHE_REDIS_URL", "redis://cache:6379/1")
	t.Setenv("DDX_QUIZ_SEED", "42")
	t.Setenv("DDX_ENVIRONMENT", "production")

	m, err := NewManager()
	require.NoError(t, err)

	cfg := m.GetConfig()
	assert.Equal(t, 9090, m.GetServerConfig().Port)
	assert.Equal(t, "redis://cache:6379/1", cfg.Cache.RedisURL)
	assert.Equal(t, int64(42), cfg.Quiz.Seed)
	assert.True(t, m.IsProduction())
}

func TestNewManagerFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ddx.yaml")
	content := `
data:
  cases_dir: /srv/cases
search:
  default_limit: 5
logging:
  level: debug
  format: text
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	m, err := NewManagerFromFile(path)
	require.NoError(t, err)

	cfg := m.GetConfig()
	assert.Equal(t, "/srv/cases", cfg.Data.CasesDir)
	assert.Equal(t, 5, cfg.Search.DefaultLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.NoError(t, m.Validate())
	assert.NoError(t, m.Reload())

	_, err = NewManagerFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name   string
		env    map[string]string
		errMsg string
	}{
		{"bad port", map[string]string{"DDX_SERVER_PORT": "70000"}, "invalid server port"},
		{"bad transport", map[string]string{"DDX_MCP_TRANSPORT_TYPE": "websocket"}, "unsupported MCP transport"},
		{"limits inverted", map[string]string{"DDX_SEARCH_MAX_LIMIT": "3"}, "below default limit"},
		{"bad rate limit", map[string]string{"DDX_RATE_LIMIT_BURST": "0"}, "rate limit"},
		{"bad log level", map[string]string{"DDX_LOGGING_LEVEL": "loud"}, "invalid log level"},
		{"bad log format", map[string]string{"DDX_LOGGING_FORMAT": "xml"}, "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			m, err := NewManager()
			require.NoError(t, err)

			err = m.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewManagerFromFile_BundledConfig(t *testing.T) {
	m, err := NewManagerFromFile(filepath.Join("..", "..", "config", "config.yaml"))
	require.NoError(t, err)

	require.NoError(t, m.Validate())
	cfg := m.GetConfig()
	assert.Equal(t, "./cases", cfg.Data.CasesDir)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, uint32(5), cfg.Cache.Breaker.FailureThreshold)
}
