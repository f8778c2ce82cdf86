// Package matcher reconciles free-text student diagnoses against a case answer key using
// exact, alias and fuzzy matching.
package matcher

import (
	"strings"

	"github.com/ddx-coach-mcp-server/internal/domain"
)

// Collision records a normalized alias claimed by more than one answer-key entry.
// The first entry in answer-key order keeps the alias.
type Collision struct {
	Alias   string `json:"alias"`
	Kept    string `json:"kept"`
	Dropped string `json:"dropped"`
}

// Index maps normalized answer-key names and aliases to canonical diagnoses. It is
// read-only after BuildIndex and safe for concurrent use.
type Index struct {
	keys       []string
	canonical  map[string]string
	collisions []Collision
}

// BuildIndex compiles the alias index for answerKey.
func BuildIndex(answerKey []domain.AnswerKeyEntry) *Index {
	idx := &Index{canonical: make(map[string]string)}
	for _, entry := range answerKey {
		idx.add(entry.Diagnosis, entry.Diagnosis)
		for _, alias := range entry.Aliases {
			idx.add(alias, entry.Diagnosis)
		}
	}
	return idx
}

func (idx *Index) add(alias, canonical string) {
	key := Normalize(alias)
	if key == "" {
		return
	}
	if kept, ok := idx.canonical[key]; ok {
		if kept != canonical {
			idx.collisions = append(idx.collisions, Collision{Alias: key, Kept: kept, Dropped: canonical})
		}
		return
	}
	idx.canonical[key] = canonical
	idx.keys = append(idx.keys, key)
}

// Collisions returns the aliases dropped while building the index.
func (idx *Index) Collisions() []Collision {
	out := make([]Collision, len(idx.collisions))
	copy(out, idx.collisions)
	return out
}

// Len returns the number of distinct indexed strings.
func (idx *Index) Len() int {
	return len(idx.keys)
}

// Lookup resolves a student string to a canonical diagnosis. fuzzy is true when only
// approximate matching succeeded. The first indexed string accepted by FuzzyMatch wins.
func (idx *Index) Lookup(student string) (canonical string, fuzzy bool, ok bool) {
	key := Normalize(student)
	if key == "" {
		return "", false, false
	}
	if name, hit := idx.canonical[key]; hit {
		return name, false, true
	}
	for _, k := range idx.keys {
		if FuzzyMatch(key, k) {
			return idx.canonical[k], true, true
		}
	}
	return "", false, false
}

// Match reconciles entries against the index.
func (idx *Index) Match(entries []domain.DiagnosisEntry) domain.MatchResult {
	result := domain.MatchResult{
		Matched:   []string{},
		Unmatched: []string{},
		Fuzzy:     []domain.FuzzyMatch{},
	}
	seen := make(map[string]bool)
	for _, entry := range entries {
		name, fuzzy, ok := idx.Lookup(entry.Diagnosis)
		if !ok {
			result.Unmatched = append(result.Unmatched, entry.Diagnosis)
			continue
		}
		if fuzzy {
			result.Fuzzy = append(result.Fuzzy, domain.FuzzyMatch{Student: entry.Diagnosis, MatchedTo: name})
		}
		if !seen[name] {
			seen[name] = true
			result.Matched = append(result.Matched, name)
		}
	}
	return result
}

// Match reconciles a student differential against an answer key.
func Match(entries []domain.DiagnosisEntry, answerKey []domain.AnswerKeyEntry) domain.MatchResult {
	return BuildIndex(answerKey).Match(entries)
}

// IncludesDiagnosis reports whether any student string names correct, either exactly
// after normalization or by one containing the other. It backs single-answer practice
// cases, where a looser check is wanted.
func IncludesDiagnosis(diagnoses []string, correct string) bool {
	want := Normalize(correct)
	if want == "" {
		return false
	}
	for _, d := range diagnoses {
		got := Normalize(d)
		if got == "" {
			continue
		}
		if got == want || strings.Contains(got, want) || strings.Contains(want, got) {
			return true
		}
	}
	return false
}
