// Package coverage turns a match result into structured feedback: tier grouping,
// common and can't-miss breakdowns and VINDICATE category coverage.
package coverage

import (
	"github.com/ddx-coach-mcp-server/internal/domain"
)

// Analyze builds the feedback result for a matched differential. It never fails; empty
// inputs produce empty lists and all-false coverage.
func Analyze(match domain.MatchResult, answerKey []domain.AnswerKeyEntry, entries []domain.DiagnosisEntry) domain.FeedbackResult {
	return AnalyzeWithMode(match, answerKey, entries, domain.COMBINED)
}

// AnalyzeWithMode is Analyze with an explicit feedback mode recorded on the result.
func AnalyzeWithMode(match domain.MatchResult, answerKey []domain.AnswerKeyEntry, entries []domain.DiagnosisEntry, mode domain.FeedbackMode) domain.FeedbackResult {
	matched := match.MatchedSet()

	result := domain.FeedbackResult{
		TieredDifferential: domain.NewTieredDifferential(),
		CommonHit:          []string{},
		CommonMissed:       []string{},
		CantMissHit:        []string{},
		CantMissMissed:     []string{},
		VindicateCoverage:  make(map[domain.VindicateCategory]bool, len(domain.AllCategories())),
		Unmatched:          nonNil(match.Unmatched),
		FuzzyMatched:       match.Fuzzy,
		FeedbackMode:       mode.OrDefault(),
	}
	for _, c := range domain.AllCategories() {
		result.VindicateCoverage[c] = false
	}

	for _, entry := range answerKey {
		hit := matched[entry.Diagnosis]
		if hit {
			result.TieredDifferential.Add(entry.Tier, entry.Diagnosis)
			markCovered(result.VindicateCoverage, entry.VindicateCategory)
		}
		// Common and can't-miss are independent flags.
		if entry.IsCommon {
			if hit {
				result.CommonHit = append(result.CommonHit, entry.Diagnosis)
			} else {
				result.CommonMissed = append(result.CommonMissed, entry.Diagnosis)
			}
		}
		if entry.IsCantMiss {
			if hit {
				result.CantMissHit = append(result.CantMissHit, entry.Diagnosis)
			} else {
				result.CantMissMissed = append(result.CantMissMissed, entry.Diagnosis)
			}
		}
	}

	// Self-tags count even when the diagnosis itself did not match.
	for _, entry := range entries {
		for _, c := range entry.Categories() {
			markCovered(result.VindicateCoverage, c)
		}
	}

	return result
}

func markCovered(coverage map[domain.VindicateCategory]bool, c domain.VindicateCategory) {
	if _, ok := coverage[c]; ok {
		coverage[c] = true
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
