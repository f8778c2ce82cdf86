package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllCategories(t *testing.T) {
	cats := AllCategories()

	assert.Len(t, cats, 9)
	assert.Equal(t, []VindicateCategory{"V", "I", "N", "D", "I2", "C", "A", "T", "E"}, cats)

	// Callers get a copy
	cats[0] = "X"
	assert.Equal(t, VASCULAR, AllCategories()[0])
}

func TestVindicateCategory_LabelAndLetter(t *testing.T) {
	tests := []struct {
		code   VindicateCategory
		label  string
		letter string
	}{
		{VASCULAR, "Vascular", "V"},
		{INFECTIOUS, "Infectious", "I"},
		{IATROGENIC, "Iatrogenic/Idiopathic", "I"},
		{ENDOCRINE, "Endocrine/Metabolic", "E"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.True(t, tt.code.IsValid())
			assert.Equal(t, tt.label, tt.code.Label())
			assert.Equal(t, tt.letter, tt.code.Letter())
		})
	}

	assert.False(t, VindicateCategory("X").IsValid())
	assert.Equal(t, "X", VindicateCategory("X").Label())
}

func TestTier(t *testing.T) {
	assert.Equal(t, []Tier{MOST_LIKELY, MODERATE, LESS_LIKELY, UNLIKELY_IMPORTANT}, AllTiers())
	assert.True(t, LESS_LIKELY.IsValid())
	assert.False(t, Tier("likely").IsValid())
	assert.Equal(t, "Unlikely but important", UNLIKELY_IMPORTANT.Label())
}

func TestFeedbackMode_OrDefault(t *testing.T) {
	assert.Equal(t, BREADTH, BREADTH.OrDefault())
	assert.Equal(t, CANT_MISS, CANT_MISS.OrDefault())
	assert.Equal(t, COMBINED, FeedbackMode("").OrDefault())
	assert.Equal(t, COMBINED, FeedbackMode("verbose").OrDefault())
}

func TestDiagnosisEntry_Categories(t *testing.T) {
	tests := []struct {
		name  string
		entry DiagnosisEntry
		want  []VindicateCategory
	}{
		{
			name:  "no tags",
			entry: DiagnosisEntry{Diagnosis: "Pneumonia"},
			want:  nil,
		},
		{
			name:  "legacy singular",
			entry: DiagnosisEntry{Diagnosis: "Pneumonia", LegacyCategory: INFECTIOUS},
			want:  []VindicateCategory{INFECTIOUS},
		},
		{
			name:  "set form",
			entry: DiagnosisEntry{Diagnosis: "Lupus", VindicateCategories: []VindicateCategory{AUTOIMMUNE, VASCULAR}},
			want:  []VindicateCategory{AUTOIMMUNE, VASCULAR},
		},
		{
			name: "set form wins over legacy",
			entry: DiagnosisEntry{
				Diagnosis:           "Lupus",
				VindicateCategories: []VindicateCategory{AUTOIMMUNE},
				LegacyCategory:      TRAUMATIC,
			},
			want: []VindicateCategory{AUTOIMMUNE},
		},
		{
			name: "empty set is still authoritative",
			entry: DiagnosisEntry{
				Diagnosis:           "Lupus",
				VindicateCategories: []VindicateCategory{},
				LegacyCategory:      TRAUMATIC,
			},
			want: []VindicateCategory{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Categories())
		})
	}
}

func TestDiagnosisEntry_Normalized(t *testing.T) {
	entry := DiagnosisEntry{Diagnosis: "Rib fracture", SortOrder: 2, LegacyCategory: TRAUMATIC}

	got := entry.Normalized()

	assert.Equal(t, []VindicateCategory{TRAUMATIC}, got.VindicateCategories)
	assert.Empty(t, got.LegacyCategory)
	assert.Equal(t, 2, got.SortOrder)
	// Original untouched
	assert.Equal(t, TRAUMATIC, entry.LegacyCategory)
	assert.Nil(t, entry.VindicateCategories)
}

func TestTieredDifferential(t *testing.T) {
	td := NewTieredDifferential()
	td.Add(MOST_LIKELY, "Pulmonary Embolism")
	td.Add(LESS_LIKELY, "Costochondritis")
	td.Add(Tier("bogus"), "ignored")

	assert.Equal(t, []string{"Pulmonary Embolism"}, td.Get(MOST_LIKELY))
	assert.Equal(t, []string{}, td.Get(MODERATE))
	assert.Equal(t, []string{"Costochondritis"}, td.Get(LESS_LIKELY))
	assert.Equal(t, []string{}, td.Get(UNLIKELY_IMPORTANT))
	assert.Nil(t, td.Get(Tier("bogus")))
	assert.Equal(t, 2, td.Len())
}

func TestQuizCardConstructors(t *testing.T) {
	tf := NewTrueFalseCard("statement", false, "why")
	assert.Equal(t, TRUE_FALSE, tf.Kind)
	if assert.NotNil(t, tf.Correct) {
		assert.False(t, *tf.Correct)
	}

	mc := NewMultipleChoiceCard("q", []string{"a", "b", "c"}, 0, "")
	assert.Equal(t, MULTIPLE_CHOICE, mc.Kind)
	if assert.NotNil(t, mc.CorrectIndex) {
		assert.Equal(t, 0, *mc.CorrectIndex)
	}

	rc := NewRecallCard("q", "a")
	assert.Equal(t, RECALL, rc.Kind)
	assert.Nil(t, rc.Correct)
	assert.Nil(t, rc.CorrectIndex)
}
