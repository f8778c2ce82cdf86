package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func TestValidateDifferential(t *testing.T) {
	tests := []struct {
		name      string
		entries   []DiagnosisEntry
		wantField string
	}{
		{
			name:    "empty list is valid",
			entries: nil,
		},
		{
			name: "valid entries",
			entries: []DiagnosisEntry{
				{Diagnosis: "PE", Confidence: intPtr(5), VindicateCategories: []VindicateCategory{VASCULAR}},
				{Diagnosis: "Pneumonia", LegacyCategory: INFECTIOUS},
			},
		},
		{
			name:      "blank diagnosis",
			entries:   []DiagnosisEntry{{Diagnosis: "  "}},
			wantField: "diagnoses[0].diagnosis",
		},
		{
			name:      "case-insensitive duplicate",
			entries:   []DiagnosisEntry{{Diagnosis: "GERD"}, {Diagnosis: " gerd"}},
			wantField: "diagnoses[1].diagnosis",
		},
		{
			name:      "confidence out of range",
			entries:   []DiagnosisEntry{{Diagnosis: "GERD", Confidence: intPtr(0)}},
			wantField: "diagnoses[0].confidence",
		},
		{
			name:      "unknown legacy category",
			entries:   []DiagnosisEntry{{Diagnosis: "GERD", LegacyCategory: "Q"}},
			wantField: "diagnoses[0].vindicate_categories",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDifferential(tt.entries)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			if assert.ErrorAs(t, err, &vErr) {
				assert.Equal(t, tt.wantField, vErr.Field)
			}
		})
	}
}

func TestValidateAnswerKey(t *testing.T) {
	valid := AnswerKeyEntry{Diagnosis: "Pulmonary Embolism", Tier: MOST_LIKELY, VindicateCategory: VASCULAR}

	tests := []struct {
		name      string
		key       []AnswerKeyEntry
		wantField string
	}{
		{"valid", []AnswerKeyEntry{valid}, ""},
		{"empty name", []AnswerKeyEntry{{Tier: MOST_LIKELY, VindicateCategory: VASCULAR}}, "answer_key[0].diagnosis"},
		{"duplicate name", []AnswerKeyEntry{valid, valid}, "answer_key[1].diagnosis"},
		{"bad tier", []AnswerKeyEntry{{Diagnosis: "X", Tier: "top", VindicateCategory: VASCULAR}}, "answer_key[0].tier"},
		{"bad category", []AnswerKeyEntry{{Diagnosis: "X", Tier: MODERATE, VindicateCategory: "Z"}}, "answer_key[0].vindicate_category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAnswerKey(tt.key)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			if assert.ErrorAs(t, err, &vErr) {
				assert.Equal(t, tt.wantField, vErr.Field)
			}
		})
	}
}
