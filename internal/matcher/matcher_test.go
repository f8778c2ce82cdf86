package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddx-coach-mcp-server/internal/domain"
)

func chestPainKey() []domain.AnswerKeyEntry {
	return []domain.AnswerKeyEntry{
		{Diagnosis: "Pulmonary Embolism", Aliases: []string{"PE"}, Tier: domain.MOST_LIKELY, IsCommon: true, IsCantMiss: true, VindicateCategory: domain.VASCULAR},
		{Diagnosis: "Pneumonia", Aliases: []string{"CAP"}, Tier: domain.MODERATE, IsCommon: true, VindicateCategory: domain.INFECTIOUS},
		{Diagnosis: "Aortic Dissection", Aliases: []string{"dissection"}, Tier: domain.UNLIKELY_IMPORTANT, IsCantMiss: true, VindicateCategory: domain.VASCULAR},
	}
}

func entries(names ...string) []domain.DiagnosisEntry {
	out := make([]domain.DiagnosisEntry, len(names))
	for i, n := range names {
		out[i] = domain.DiagnosisEntry{Diagnosis: n, SortOrder: i}
	}
	return out
}

func TestMatch_ExactAliasAndFuzzy(t *testing.T) {
	// Act
	result := Match(entries("pe", "Pnemonia", "Costochondritis"), chestPainKey())

	// Assert
	assert.Equal(t, []string{"Pulmonary Embolism", "Pneumonia"}, result.Matched)
	assert.Equal(t, []string{"Costochondritis"}, result.Unmatched)
	assert.Equal(t, []domain.FuzzyMatch{{Student: "Pnemonia", MatchedTo: "Pneumonia"}}, result.Fuzzy)
}

func TestMatch_AliasAlwaysMatched(t *testing.T) {
	key := chestPainKey()
	for _, e := range key {
		for _, alias := range append([]string{e.Diagnosis}, e.Aliases...) {
			result := Match(entries(alias), key)
			assert.Contains(t, result.Matched, e.Diagnosis, alias)
			assert.Empty(t, result.Unmatched, alias)
		}
	}
}

func TestMatch_CollapsesDuplicates(t *testing.T) {
	result := Match(entries("PE", "Pulmonary Embolism", "pulmonary embolus"), chestPainKey())

	assert.Equal(t, []string{"Pulmonary Embolism"}, result.Matched)
	assert.Empty(t, result.Unmatched)
}

func TestMatch_Idempotent(t *testing.T) {
	in := entries("PE", "pnemonia", "Anxiety", "dissection")
	key := chestPainKey()

	first := Match(in, key)
	second := Match(in, key)

	assert.ElementsMatch(t, first.Matched, second.Matched)
	assert.ElementsMatch(t, first.Unmatched, second.Unmatched)
}

func TestMatch_DegenerateInputs(t *testing.T) {
	empty := Match(nil, nil)
	assert.NotNil(t, empty.Matched)
	assert.NotNil(t, empty.Unmatched)
	assert.NotNil(t, empty.Fuzzy)
	assert.Empty(t, empty.Matched)

	noKey := Match(entries("PE"), nil)
	assert.Equal(t, []string{"PE"}, noKey.Unmatched)
}

func TestMatch_PreservesOriginalCasing(t *testing.T) {
	result := Match(entries("  Made-Up Condition "), chestPainKey())

	require.Len(t, result.Unmatched, 1)
	assert.Equal(t, "  Made-Up Condition ", result.Unmatched[0])
}

func TestBuildIndex_Collisions(t *testing.T) {
	key := []domain.AnswerKeyEntry{
		{Diagnosis: "Myocardial Infarction", Aliases: []string{"MI", "myocardial infarction"}},
		{Diagnosis: "Mitral Insufficiency", Aliases: []string{"mi"}},
	}

	idx := BuildIndex(key)

	assert.Equal(t, []Collision{{Alias: "mi", Kept: "Myocardial Infarction", Dropped: "Mitral Insufficiency"}}, idx.Collisions())
	assert.Equal(t, 3, idx.Len())

	name, fuzzy, ok := idx.Lookup("MI")
	assert.True(t, ok)
	assert.False(t, fuzzy)
	assert.Equal(t, "Myocardial Infarction", name)
}

func TestIndex_FirstFuzzyHitWins(t *testing.T) {
	key := []domain.AnswerKeyEntry{
		{Diagnosis: "Pancreatitis"},
		{Diagnosis: "Pancreatitiss"},
	}

	name, fuzzy, ok := BuildIndex(key).Lookup("pancreatits")

	assert.True(t, ok)
	assert.True(t, fuzzy)
	assert.Equal(t, "Pancreatitis", name)
}

func TestIncludesDiagnosis(t *testing.T) {
	tests := []struct {
		name      string
		diagnoses []string
		correct   string
		want      bool
	}{
		{"exact", []string{"Appendicitis"}, "appendicitis", true},
		{"student more specific", []string{"acute appendicitis"}, "Appendicitis", true},
		{"student less specific", []string{"migraine"}, "Migraine with aura", true},
		{"miss", []string{"GERD", "Cholecystitis"}, "Appendicitis", false},
		{"blank entries ignored", []string{"", "  "}, "Appendicitis", false},
		{"blank answer", []string{"Appendicitis"}, " ", false},
		{"no diagnoses", nil, "Appendicitis", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IncludesDiagnosis(tt.diagnoses, tt.correct))
		})
	}
}
