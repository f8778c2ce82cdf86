package catalog

import (
	"sort"
	"strings"

	"github.com/ddx-coach-mcp-server/internal/domain"
)

// Match class scores, highest first.
const (
	scoreExactAbbreviation  = 3.0
	scoreTermPrefix         = 2.0
	scoreAbbreviationPrefix = 1.5
	scoreTermSubstring      = 1.0
	scoreAbbreviationSubstr = 0.5
)

type scored struct {
	result domain.SearchResult
	score  float64
}

// Search ranks catalog entries against query and returns at most limit suggestions.
// A non-positive limit means DefaultLimit. Each entry contributes once, at the first
// applicable match class; ties keep catalog order.
func (c *Catalog) Search(query string, limit int) []domain.SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []domain.SearchResult{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var hits []scored
	for _, ie := range c.entries {
		if hit, ok := ie.match(q); ok {
			hits = append(hits, hit)
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	results := make([]domain.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = h.result
	}
	return results
}

func (ie indexedEntry) match(q string) (scored, bool) {
	if i := ie.findAbbreviation(func(a string) bool { return a == q }); i >= 0 {
		return ie.hit(i, scoreExactAbbreviation), true
	}
	if strings.HasPrefix(ie.termLower, q) {
		return ie.hit(-1, scoreTermPrefix), true
	}
	if i := ie.findAbbreviation(func(a string) bool { return strings.HasPrefix(a, q) }); i >= 0 {
		return ie.hit(i, scoreAbbreviationPrefix), true
	}
	if strings.Contains(ie.termLower, q) {
		return ie.hit(-1, scoreTermSubstring), true
	}
	if i := ie.findAbbreviation(func(a string) bool { return strings.Contains(a, q) }); i >= 0 {
		return ie.hit(i, scoreAbbreviationSubstr), true
	}
	return scored{}, false
}

func (ie indexedEntry) findAbbreviation(pred func(string) bool) int {
	for i, a := range ie.abbrLower {
		if pred(a) {
			return i
		}
	}
	return -1
}

// hit builds a result; abbr < 0 means the canonical term matched.
func (ie indexedEntry) hit(abbr int, score float64) scored {
	r := domain.SearchResult{Term: ie.entry.Term}
	if abbr >= 0 {
		r.MatchedAbbreviation = ie.entry.Abbreviations[abbr]
	}
	return scored{result: r, score: score}
}
