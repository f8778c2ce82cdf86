package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddx-coach-mcp-server/internal/domain"
)

const caseYAML = `id: headache-01
title: Worst headache of my life
chief_complaint: Headache
answer_key:
  - diagnosis: Subarachnoid Hemorrhage
    aliases: [SAH]
    tier: most_likely
    is_cant_miss: true
    vindicate_category: V
  - diagnosis: Migraine
    tier: moderate
    is_common: true
    vindicate_category: D
`

func testConfig(casesDir string) *domain.Config {
	return &domain.Config{
		Data:   domain.DataConfig{CasesDir: casesDir},
		Search: domain.SearchConfig{DefaultLimit: 8, MaxLimit: 50},
		Cache:  domain.CacheConfig{Enabled: true, MaxItems: 10, TTL: time.Minute},
		Quiz:   domain.QuizConfig{Seed: 5},
	}
}

func TestNew(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "headache.yaml"), []byte(caseYAML), 0o644))
	logger, hook := test.NewNullLogger()

	// Act
	app, err := New(testConfig(dir), logger)

	// Assert
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	assert.Equal(t, 1, app.Cases.Len())
	assert.Equal(t, "Differential engine initialized", hook.LastEntry().Message)
	assert.Equal(t, true, hook.LastEntry().Data["cache_enabled"])

	eval, err := app.Service.EvaluateCase(context.Background(), "headache-01",
		[]domain.DiagnosisEntry{{Diagnosis: "SAH", SortOrder: 0}}, domain.CANT_MISS)
	require.NoError(t, err)
	assert.Equal(t, []string{"Subarachnoid Hemorrhage"}, eval.Feedback.CantMissHit)
	assert.Equal(t, []string{"Migraine"}, eval.Feedback.CommonMissed)
}

func TestNew_MissingCasesDir(t *testing.T) {
	logger, hook := test.NewNullLogger()

	app, err := New(testConfig(filepath.Join(t.TempDir(), "absent")), logger)

	require.NoError(t, err)
	assert.Equal(t, 0, app.Cases.Len())
	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestNew_Errors(t *testing.T) {
	logger, _ := test.NewNullLogger()

	t.Run("missing catalog", func(t *testing.T) {
		cfg := testConfig("")
		cfg.Data.CatalogPath = filepath.Join(t.TempDir(), "terms.yaml")
		_, err := New(cfg, logger)
		assert.Error(t, err)
	})

	t.Run("invalid case file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: x\nanswer_key: [{diagnosis: '', tier: most_likely, vindicate_category: V}]\n"), 0o644))
		_, err := New(testConfig(dir), logger)
		assert.Error(t, err)
	})
}

func TestNew_CacheDisabled(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := testConfig("")
	cfg.Cache.Enabled = false

	app, err := New(cfg, logger)

	require.NoError(t, err)
	assert.Nil(t, app.cache)
	assert.NoError(t, app.Close())
}
