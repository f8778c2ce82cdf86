// Package bootstrap wires configuration, data files, caches and the differential
// service together for the binaries.
package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/sirupsen/logrus"

	"github.com/ddx-coach-mcp-server/internal/cache"
	"github.com/ddx-coach-mcp-server/internal/caseload"
	"github.com/ddx-coach-mcp-server/internal/catalog"
	"github.com/ddx-coach-mcp-server/internal/domain"
	"github.com/ddx-coach-mcp-server/internal/quiz"
	"github.com/ddx-coach-mcp-server/internal/service"
)

// App holds the constructed service and the resources it owns
type App struct {
	Config  *domain.Config
	Logger  *logrus.Logger
	Service *service.DifferentialService
	Cases   *caseload.Repository
	cache   *cache.Tiered
}

// New builds the application from cfg. A missing cases directory yields an empty
// repository; an unreadable catalog file is an error.
func New(cfg *domain.Config, logger *logrus.Logger) (*App, error) {
	cat, err := loadCatalog(cfg.Data.CatalogPath)
	if err != nil {
		return nil, err
	}

	cases, err := loadCases(cfg.Data.CasesDir, logger)
	if err != nil {
		return nil, err
	}

	opts := []service.Option{
		service.WithLogger(logger),
		service.WithSearchConfig(cfg.Search),
		service.WithIndexCache(cfg.Cache.MaxItems, cfg.Cache.TTL),
		service.WithQuizGenerator(quiz.NewGenerator(quiz.WithSeed(cfg.Quiz.Seed))),
	}
	results := cache.New(cfg.Cache, logger)
	if results != nil {
		opts = append(opts, service.WithResultCache(results))
	}

	logger.WithFields(logrus.Fields{
		"terms":         cat.Len(),
		"cases":         cases.Len(),
		"cache_enabled": results != nil,
		"redis":         cfg.Cache.RedisURL != "",
	}).Info("Differential engine initialized")

	return &App{
		Config:  cfg,
		Logger:  logger,
		Service: service.NewDifferentialService(cat, cases, opts...),
		Cases:   cases,
		cache:   results,
	}, nil
}

// Close releases cache connections
func (a *App) Close() error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Close()
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load term catalog: %w", err)
	}
	return cat, nil
}

func loadCases(dir string, logger *logrus.Logger) (*caseload.Repository, error) {
	if dir == "" {
		return caseload.NewRepository(nil)
	}
	repo, err := caseload.LoadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.WithField("cases_dir", dir).Warn("Cases directory not found, starting with no cases")
		return caseload.NewRepository(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cases: %w", err)
	}
	return repo, nil
}
