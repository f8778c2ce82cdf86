// Package caseload reads clinical case bundles (summary plus answer key) from disk into
// an in-memory repository.
package caseload

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ddx-coach-mcp-server/internal/domain"
)

// Repository is a read-only CaseRepository backed by a map.
type Repository struct {
	cases map[string]*domain.Case
	ids   []string
}

// NewRepository builds a repository from cases. Ids must be unique and non-empty, and
// every answer key must validate.
func NewRepository(cases []domain.Case) (*Repository, error) {
	r := &Repository{cases: make(map[string]*domain.Case, len(cases))}
	for i := range cases {
		c := cases[i]
		if err := r.add(&c); err != nil {
			return nil, err
		}
	}
	sort.Strings(r.ids)
	return r, nil
}

func (r *Repository) add(c *domain.Case) error {
	c.ID = strings.TrimSpace(c.ID)
	if c.ID == "" {
		return domain.NewValidationError("id", "must not be empty", c.ID)
	}
	if _, dup := r.cases[c.ID]; dup {
		return fmt.Errorf("duplicate case id %q", c.ID)
	}
	if err := domain.ValidateAnswerKey(c.AnswerKey); err != nil {
		return fmt.Errorf("invalid answer key for case %q: %w", c.ID, err)
	}
	r.cases[c.ID] = c
	r.ids = append(r.ids, c.ID)
	return nil
}

// LoadDir reads every *.yaml, *.yml and *.json file in dir as one case bundle.
func LoadDir(dir string) (*Repository, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cases directory %s: %w", dir, err)
	}

	var cases []domain.Case
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		path := filepath.Join(dir, f.Name())
		c, ok, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		if ok {
			cases = append(cases, c)
		}
	}
	return NewRepository(cases)
}

func loadFile(path string) (domain.Case, bool, error) {
	var c domain.Case
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" && ext != ".json" {
		return c, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c, false, fmt.Errorf("failed to read case file %s: %w", path, err)
	}
	if ext == ".json" {
		err = json.Unmarshal(data, &c)
	} else {
		err = yaml.Unmarshal(data, &c)
	}
	if err != nil {
		return c, false, fmt.Errorf("failed to parse case file %s: %w", path, err)
	}
	return c, true, nil
}

// Get returns the case with id, or domain.ErrNotFound.
func (r *Repository) Get(ctx context.Context, id string) (*domain.Case, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, ok := r.cases[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	out := *c
	out.AnswerKey = append([]domain.AnswerKeyEntry(nil), c.AnswerKey...)
	return &out, nil
}

// List returns all case summaries ordered by id.
func (r *Repository) List(ctx context.Context) ([]domain.CaseSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.CaseSummary, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.cases[id].CaseSummary)
	}
	return out, nil
}

// Len returns the number of cases.
func (r *Repository) Len() int {
	return len(r.ids)
}
