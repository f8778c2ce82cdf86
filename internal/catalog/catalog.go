// Package catalog holds the static term catalog of canonical diagnoses and their
// abbreviations, and ranks catalog entries against partial queries for autocomplete.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ddx-coach-mcp-server/internal/domain"
)

//go:embed terms.yaml
var defaultTerms []byte

// DefaultLimit is the number of suggestions returned when no limit is given.
const DefaultLimit = 8

// catalogFile is the on-disk layout of a catalog.
type catalogFile struct {
	Terms []domain.TermCatalogEntry `yaml:"terms" json:"terms"`
}

// indexedEntry carries the lower-cased forms used during search.
type indexedEntry struct {
	entry     domain.TermCatalogEntry
	termLower string
	abbrLower []string
}

// Catalog is an immutable, ordered term table. It is safe for concurrent use.
type Catalog struct {
	entries []indexedEntry
}

// New builds a catalog from entries, preserving their order.
func New(entries []domain.TermCatalogEntry) *Catalog {
	c := &Catalog{entries: make([]indexedEntry, 0, len(entries))}
	for _, e := range entries {
		ie := indexedEntry{
			entry: domain.TermCatalogEntry{
				Term:          e.Term,
				Abbreviations: append([]string(nil), e.Abbreviations...),
			},
			termLower: strings.ToLower(e.Term),
			abbrLower: make([]string, len(e.Abbreviations)),
		}
		for i, a := range e.Abbreviations {
			ie.abbrLower[i] = strings.ToLower(a)
		}
		c.entries = append(c.entries, ie)
	}
	return c
}

// Parse decodes a YAML (or JSON, which is valid YAML) catalog document.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for i, e := range file.Terms {
		if strings.TrimSpace(e.Term) == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("terms[%d].term", i), "must not be empty", e.Term)
		}
	}
	return New(file.Terms), nil
}

// Load reads a catalog file from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the catalog bundled with the binary.
func Default() *Catalog {
	c, err := Parse(defaultTerms)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the catalog rows in order.
func (c *Catalog) Entries() []domain.TermCatalogEntry {
	out := make([]domain.TermCatalogEntry, len(c.entries))
	for i, ie := range c.entries {
		out[i] = domain.TermCatalogEntry{
			Term:          ie.entry.Term,
			Abbreviations: append([]string{}, ie.entry.Abbreviations...),
		}
	}
	return out
}
