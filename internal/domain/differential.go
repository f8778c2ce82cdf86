package domain

import (
	"sort"
	"strings"
)

// Differential is an editable, ordered list of diagnosis entries. Every mutation keeps
// SortOrder dense and zero-based, and no two entries share a case-insensitive diagnosis.
type Differential struct {
	entries []DiagnosisEntry
}

// NewDifferential builds a differential from names, skipping blanks and duplicates.
func NewDifferential(names ...string) *Differential {
	d := &Differential{}
	for _, name := range names {
		d.Add(name)
	}
	return d
}

// Entries returns a copy of the entries in order.
func (d *Differential) Entries() []DiagnosisEntry {
	out := make([]DiagnosisEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Len returns the number of entries.
func (d *Differential) Len() int {
	return len(d.entries)
}

// Contains reports whether a case-insensitively equal diagnosis is already present.
func (d *Differential) Contains(name string) bool {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, e := range d.entries {
		if strings.ToLower(e.Diagnosis) == key {
			return true
		}
	}
	return false
}

// Add appends a trimmed diagnosis. It returns false for blank names and duplicates.
func (d *Differential) Add(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || d.Contains(trimmed) {
		return false
	}
	d.entries = append(d.entries, DiagnosisEntry{Diagnosis: trimmed, SortOrder: len(d.entries)})
	return true
}

// Remove deletes the entry at i. Out of range indexes are ignored.
func (d *Differential) Remove(i int) {
	if i < 0 || i >= len(d.entries) {
		return
	}
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
	d.reindex()
}

// MoveUp swaps the entry at i with its predecessor.
func (d *Differential) MoveUp(i int) {
	if i <= 0 || i >= len(d.entries) {
		return
	}
	d.entries[i-1], d.entries[i] = d.entries[i], d.entries[i-1]
	d.reindex()
}

// MoveDown swaps the entry at i with its successor.
func (d *Differential) MoveDown(i int) {
	if i < 0 || i >= len(d.entries)-1 {
		return
	}
	d.entries[i], d.entries[i+1] = d.entries[i+1], d.entries[i]
	d.reindex()
}

// SetConfidence sets a 1-5 confidence rating on the entry at i.
func (d *Differential) SetConfidence(i, confidence int) error {
	if i < 0 || i >= len(d.entries) {
		return NewValidationError("index", "out of range", i)
	}
	if confidence < 1 || confidence > 5 {
		return NewValidationError("confidence", "must be between 1 and 5", confidence)
	}
	d.entries[i].Confidence = &confidence
	return nil
}

// SetReasoning attaches free-text reasoning to the entry at i.
func (d *Differential) SetReasoning(i int, reasoning string) error {
	if i < 0 || i >= len(d.entries) {
		return NewValidationError("index", "out of range", i)
	}
	d.entries[i].Reasoning = reasoning
	return nil
}

// SetCategories tags the entry at i with category codes.
func (d *Differential) SetCategories(i int, cats ...VindicateCategory) error {
	if i < 0 || i >= len(d.entries) {
		return NewValidationError("index", "out of range", i)
	}
	for _, c := range cats {
		if !c.IsValid() {
			return NewValidationError("vindicate_categories", "unknown category", string(c))
		}
	}
	d.entries[i].VindicateCategories = append([]VindicateCategory{}, cats...)
	d.entries[i].LegacyCategory = ""
	return nil
}

func (d *Differential) reindex() {
	for i := range d.entries {
		d.entries[i].SortOrder = i
	}
}

// CanonicalizeDifferential orders entries by SortOrder (stable), re-densifies the order
// and normalizes legacy category fields. The input slice is not modified.
func CanonicalizeDifferential(entries []DiagnosisEntry) []DiagnosisEntry {
	out := make([]DiagnosisEntry, len(entries))
	for i, e := range entries {
		out[i] = e.Normalized()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortOrder < out[j].SortOrder
	})
	for i := range out {
		out[i].SortOrder = i
	}
	return out
}
