package domain

import (
	"fmt"
	"strings"
)

// ValidateDifferential checks the structural well-formedness of a submitted differential.
func ValidateDifferential(entries []DiagnosisEntry) error {
	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		field := fmt.Sprintf("diagnoses[%d]", i)
		key := strings.ToLower(strings.TrimSpace(e.Diagnosis))
		if key == "" {
			return NewValidationError(field+".diagnosis", "must not be empty", e.Diagnosis)
		}
		if prev, dup := seen[key]; dup {
			return NewValidationError(field+".diagnosis",
				fmt.Sprintf("duplicates diagnoses[%d]", prev), e.Diagnosis)
		}
		seen[key] = i

		if e.Confidence != nil && (*e.Confidence < 1 || *e.Confidence > 5) {
			return NewValidationError(field+".confidence", "must be between 1 and 5", *e.Confidence)
		}
		for _, c := range e.Categories() {
			if !c.IsValid() {
				return NewValidationError(field+".vindicate_categories", "unknown category", string(c))
			}
		}
	}
	return nil
}

// ValidateAnswerKey checks that an answer key is well formed. Aliases shared between
// entries are an authoring defect but not a validation failure; the matcher reports them.
func ValidateAnswerKey(answerKey []AnswerKeyEntry) error {
	seen := make(map[string]int, len(answerKey))
	for i, e := range answerKey {
		field := fmt.Sprintf("answer_key[%d]", i)
		name := strings.TrimSpace(e.Diagnosis)
		if name == "" {
			return NewValidationError(field+".diagnosis", "must not be empty", e.Diagnosis)
		}
		if prev, dup := seen[name]; dup {
			return NewValidationError(field+".diagnosis",
				fmt.Sprintf("duplicates answer_key[%d]", prev), e.Diagnosis)
		}
		seen[name] = i

		if !e.Tier.IsValid() {
			return NewValidationError(field+".tier", "unknown tier", string(e.Tier))
		}
		if !e.VindicateCategory.IsValid() {
			return NewValidationError(field+".vindicate_category", "unknown category", string(e.VindicateCategory))
		}
	}
	return nil
}
