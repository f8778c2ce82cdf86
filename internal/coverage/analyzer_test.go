package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ddx-coach-mcp-server/internal/domain"
	"github.com/ddx-coach-mcp-server/internal/matcher"
)

func analyze(entries []domain.DiagnosisEntry, key []domain.AnswerKeyEntry) domain.FeedbackResult {
	return Analyze(matcher.Match(entries, key), key, entries)
}

func TestAnalyze_PulmonaryEmbolismScenario(t *testing.T) {
	key := []domain.AnswerKeyEntry{{
		Diagnosis:         "Pulmonary Embolism",
		Aliases:           []string{"PE"},
		Tier:              domain.MOST_LIKELY,
		IsCommon:          true,
		IsCantMiss:        true,
		VindicateCategory: domain.VASCULAR,
	}}
	entries := []domain.DiagnosisEntry{{Diagnosis: "PE", SortOrder: 0}}

	// Act
	result := analyze(entries, key)

	// Assert
	assert.Equal(t, []string{"Pulmonary Embolism"}, result.TieredDifferential.MostLikely)
	assert.Equal(t, []string{"Pulmonary Embolism"}, result.CantMissHit)
	assert.Empty(t, result.CantMissMissed)
	assert.Equal(t, []string{"Pulmonary Embolism"}, result.CommonHit)
	for _, c := range domain.AllCategories() {
		assert.Equal(t, c == domain.VASCULAR, result.VindicateCoverage[c], string(c))
	}
	assert.Equal(t, domain.COMBINED, result.FeedbackMode)
}

func TestAnalyze_CoverageAlwaysComplete(t *testing.T) {
	cases := map[string]domain.FeedbackResult{
		"empty":        analyze(nil, nil),
		"no key":       analyze([]domain.DiagnosisEntry{{Diagnosis: "GERD"}}, nil),
		"bad self tag": analyze([]domain.DiagnosisEntry{{Diagnosis: "GERD", VindicateCategories: []domain.VindicateCategory{"Q"}}}, nil),
		"no student":   analyze(nil, []domain.AnswerKeyEntry{{Diagnosis: "GERD", Tier: domain.MODERATE, IsCommon: true, VindicateCategory: domain.DEGENERATIVE}}),
	}

	for name, result := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Len(t, result.VindicateCoverage, 9)
			for _, c := range domain.AllCategories() {
				covered, ok := result.VindicateCoverage[c]
				assert.True(t, ok)
				assert.False(t, covered)
			}
			assert.NotNil(t, result.CommonHit)
			assert.NotNil(t, result.CantMissHit)
			assert.NotNil(t, result.Unmatched)
			assert.NotNil(t, result.TieredDifferential.MostLikely)
		})
	}
}

func TestAnalyze_SelfTagCountsWhenUnmatched(t *testing.T) {
	key := []domain.AnswerKeyEntry{{Diagnosis: "Pneumonia", Tier: domain.MODERATE, VindicateCategory: domain.INFECTIOUS}}
	entries := []domain.DiagnosisEntry{{
		Diagnosis:           "made-up condition",
		VindicateCategories: []domain.VindicateCategory{domain.TRAUMATIC},
	}}

	result := analyze(entries, key)

	assert.True(t, result.VindicateCoverage[domain.TRAUMATIC])
	assert.False(t, result.VindicateCoverage[domain.INFECTIOUS])
	assert.Equal(t, []string{"made-up condition"}, result.Unmatched)
}

func TestAnalyze_LegacySelfTag(t *testing.T) {
	entries := []domain.DiagnosisEntry{{Diagnosis: "Overdose", LegacyCategory: domain.IATROGENIC}}

	result := analyze(entries, nil)

	assert.True(t, result.VindicateCoverage[domain.IATROGENIC])
}

func TestAnalyze_CommonAndCantMissIndependent(t *testing.T) {
	key := []domain.AnswerKeyEntry{
		{Diagnosis: "Acute Coronary Syndrome", Aliases: []string{"ACS"}, Tier: domain.MOST_LIKELY, IsCommon: true, IsCantMiss: true, VindicateCategory: domain.VASCULAR},
		{Diagnosis: "GERD", Tier: domain.MODERATE, IsCommon: true, VindicateCategory: domain.DEGENERATIVE},
		{Diagnosis: "Aortic Dissection", Tier: domain.UNLIKELY_IMPORTANT, IsCantMiss: true, VindicateCategory: domain.VASCULAR},
		{Diagnosis: "Costochondritis", Tier: domain.LESS_LIKELY, VindicateCategory: domain.TRAUMATIC},
	}
	entries := []domain.DiagnosisEntry{{Diagnosis: "ACS"}, {Diagnosis: "costochondritis", SortOrder: 1}}

	result := analyze(entries, key)

	assert.Equal(t, []string{"Acute Coronary Syndrome"}, result.CommonHit)
	assert.Equal(t, []string{"GERD"}, result.CommonMissed)
	assert.Equal(t, []string{"Acute Coronary Syndrome"}, result.CantMissHit)
	assert.Equal(t, []string{"Aortic Dissection"}, result.CantMissMissed)
	assert.Equal(t, []string{"Costochondritis"}, result.TieredDifferential.LessLikely)
	assert.Empty(t, result.TieredDifferential.Moderate)
	assert.True(t, result.VindicateCoverage[domain.TRAUMATIC])
	assert.False(t, result.VindicateCoverage[domain.DEGENERATIVE])
	assert.Equal(t, 2, result.CoveredCount())
}

func TestAnalyzeWithMode(t *testing.T) {
	assert.Equal(t, domain.BREADTH, AnalyzeWithMode(domain.MatchResult{}, nil, nil, domain.BREADTH).FeedbackMode)
	assert.Equal(t, domain.COMBINED, AnalyzeWithMode(domain.MatchResult{}, nil, nil, "bogus").FeedbackMode)
}
