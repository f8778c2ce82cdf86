// Package domain contains core entities and taxonomies for differential diagnosis practice:
// student differentials, per-case answer keys, the VINDICATE category mnemonic and the
// four-band likelihood tiering used to give structured feedback to medical students.
package domain

import (
	"strings"
)

// VindicateCategory is one of the nine VINDICATE taxonomy codes used to check the breadth
// of a differential. The mnemonic has two "I" letters; they are coded as "I" and "I2".
type VindicateCategory string

const (
	VASCULAR     VindicateCategory = "V"
	INFECTIOUS   VindicateCategory = "I"
	NEOPLASTIC   VindicateCategory = "N"
	DEGENERATIVE VindicateCategory = "D"
	IATROGENIC   VindicateCategory = "I2"
	CONGENITAL   VindicateCategory = "C"
	AUTOIMMUNE   VindicateCategory = "A"
	TRAUMATIC    VindicateCategory = "T"
	ENDOCRINE    VindicateCategory = "E"
)

// allCategories is the fixed mnemonic order.
var allCategories = []VindicateCategory{
	VASCULAR, INFECTIOUS, NEOPLASTIC, DEGENERATIVE, IATROGENIC,
	CONGENITAL, AUTOIMMUNE, TRAUMATIC, ENDOCRINE,
}

var categoryLabels = map[VindicateCategory]string{
	VASCULAR:     "Vascular",
	INFECTIOUS:   "Infectious",
	NEOPLASTIC:   "Neoplastic",
	DEGENERATIVE: "Degenerative",
	IATROGENIC:   "Iatrogenic/Idiopathic",
	CONGENITAL:   "Congenital",
	AUTOIMMUNE:   "Autoimmune",
	TRAUMATIC:    "Traumatic",
	ENDOCRINE:    "Endocrine/Metabolic",
}

// AllCategories returns the nine category codes in mnemonic order.
func AllCategories() []VindicateCategory {
	out := make([]VindicateCategory, len(allCategories))
	copy(out, allCategories)
	return out
}

// IsValid reports whether c is one of the nine codes.
func (c VindicateCategory) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the human readable category name, or the raw code when unknown.
func (c VindicateCategory) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Letter returns the mnemonic letter shown in compact displays (I2 renders as I).
func (c VindicateCategory) Letter() string {
	return strings.TrimSuffix(string(c), "2")
}

// CategoryInfo describes a category for taxonomy listings.
type CategoryInfo struct {
	Code   VindicateCategory `json:"code" yaml:"code"`
	Letter string            `json:"letter" yaml:"letter"`
	Label  string            `json:"label" yaml:"label"`
}

// CategoryInfos returns the taxonomy description in mnemonic order.
func CategoryInfos() []CategoryInfo {
	infos := make([]CategoryInfo, 0, len(allCategories))
	for _, c := range allCategories {
		infos = append(infos, CategoryInfo{Code: c, Letter: c.Letter(), Label: c.Label()})
	}
	return infos
}

// Tier is the clinical priority band of an answer-key diagnosis.
type Tier string

const (
	MOST_LIKELY        Tier = "most_likely"
	MODERATE           Tier = "moderate"
	LESS_LIKELY        Tier = "less_likely"
	UNLIKELY_IMPORTANT Tier = "unlikely_important"
)

var allTiers = []Tier{MOST_LIKELY, MODERATE, LESS_LIKELY, UNLIKELY_IMPORTANT}

var tierLabels = map[Tier]string{
	MOST_LIKELY:        "Most likely",
	MODERATE:           "Moderate",
	LESS_LIKELY:        "Less likely",
	UNLIKELY_IMPORTANT: "Unlikely but important",
}

// AllTiers returns the tiers from most to least likely.
func AllTiers() []Tier {
	out := make([]Tier, len(allTiers))
	copy(out, allTiers)
	return out
}

// IsValid reports whether t is one of the four tiers.
func (t Tier) IsValid() bool {
	_, ok := tierLabels[t]
	return ok
}

// Label returns the display name of the tier.
func (t Tier) Label() string {
	if label, ok := tierLabels[t]; ok {
		return label
	}
	return string(t)
}

// FeedbackMode selects which aspect the narrative feedback should focus on.
type FeedbackMode string

const (
	BREADTH   FeedbackMode = "breadth"
	CANT_MISS FeedbackMode = "cant_miss"
	COMBINED  FeedbackMode = "combined"
)

// IsValid reports whether m is a known mode.
func (m FeedbackMode) IsValid() bool {
	switch m {
	case BREADTH, CANT_MISS, COMBINED:
		return true
	}
	return false
}

// OrDefault returns m, or COMBINED when m is empty or unknown.
func (m FeedbackMode) OrDefault() FeedbackMode {
	if m.IsValid() {
		return m
	}
	return COMBINED
}

// DiagnosisEntry is one item of a student's submitted differential.
//
// LegacyCategory is the singular category field carried by older records. It is read
// only through Categories and never written by new code.
type DiagnosisEntry struct {
	Diagnosis           string              `json:"diagnosis" yaml:"diagnosis"`
	SortOrder           int                 `json:"sort_order" yaml:"sort_order"`
	Confidence          *int                `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Reasoning           string              `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	VindicateCategories []VindicateCategory `json:"vindicate_categories,omitempty" yaml:"vindicate_categories,omitempty"`
	LegacyCategory      VindicateCategory   `json:"vindicate_category,omitempty" yaml:"vindicate_category,omitempty"`
}

// Categories returns the entry's category tags. When the set form is present it is
// authoritative, even if empty; otherwise a legacy singular tag becomes a one-element set.
func (e DiagnosisEntry) Categories() []VindicateCategory {
	if e.VindicateCategories != nil {
		return e.VindicateCategories
	}
	if e.LegacyCategory != "" {
		return []VindicateCategory{e.LegacyCategory}
	}
	return nil
}

// Normalized returns a copy with the set form populated and the legacy field cleared.
func (e DiagnosisEntry) Normalized() DiagnosisEntry {
	cats := e.Categories()
	out := e
	out.LegacyCategory = ""
	if cats != nil {
		out.VindicateCategories = append([]VindicateCategory(nil), cats...)
	}
	return out
}

// AnswerKeyEntry is one canonical diagnosis in a case's answer key.
type AnswerKeyEntry struct {
	Diagnosis         string            `json:"diagnosis" yaml:"diagnosis"`
	Aliases           []string          `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Tier              Tier              `json:"tier" yaml:"tier"`
	IsCommon          bool              `json:"is_common,omitempty" yaml:"is_common,omitempty"`
	IsCantMiss        bool              `json:"is_cant_miss,omitempty" yaml:"is_cant_miss,omitempty"`
	VindicateCategory VindicateCategory `json:"vindicate_category" yaml:"vindicate_category"`
}

// TermCatalogEntry is one row of the autocomplete catalog.
type TermCatalogEntry struct {
	Term          string   `json:"term" yaml:"term"`
	Abbreviations []string `json:"abbreviations" yaml:"abbreviations"`
}

// SearchResult is a ranked autocomplete suggestion.
type SearchResult struct {
	Term                string `json:"term"`
	MatchedAbbreviation string `json:"matched_abbreviation,omitempty"`
}

// FuzzyMatch records a student string that was resolved only by approximate matching.
type FuzzyMatch struct {
	Student   string `json:"student"`
	MatchedTo string `json:"matched_to"`
}

// MatchResult is the output of reconciling a differential against an answer key.
// Matched holds each canonical name once, in order of first match.
type MatchResult struct {
	Matched   []string     `json:"matched"`
	Unmatched []string     `json:"unmatched"`
	Fuzzy     []FuzzyMatch `json:"fuzzy_matched"`
}

// MatchedSet returns Matched as a set.
func (m *MatchResult) MatchedSet() map[string]bool {
	set := make(map[string]bool, len(m.Matched))
	for _, name := range m.Matched {
		set[name] = true
	}
	return set
}

// TieredDifferential groups matched answer-key diagnoses by tier.
type TieredDifferential struct {
	MostLikely        []string `json:"most_likely"`
	Moderate          []string `json:"moderate"`
	LessLikely        []string `json:"less_likely"`
	UnlikelyImportant []string `json:"unlikely_important"`
}

// NewTieredDifferential returns a differential with all four tiers present and empty.
func NewTieredDifferential() TieredDifferential {
	return TieredDifferential{
		MostLikely:        []string{},
		Moderate:          []string{},
		LessLikely:        []string{},
		UnlikelyImportant: []string{},
	}
}

// Add appends name to the tier's list. Unknown tiers are ignored.
func (t *TieredDifferential) Add(tier Tier, name string) {
	switch tier {
	case MOST_LIKELY:
		t.MostLikely = append(t.MostLikely, name)
	case MODERATE:
		t.Moderate = append(t.Moderate, name)
	case LESS_LIKELY:
		t.LessLikely = append(t.LessLikely, name)
	case UNLIKELY_IMPORTANT:
		t.UnlikelyImportant = append(t.UnlikelyImportant, name)
	}
}

// Len returns the number of diagnoses across all tiers.
func (t TieredDifferential) Len() int {
	return len(t.MostLikely) + len(t.Moderate) + len(t.LessLikely) + len(t.UnlikelyImportant)
}

// Get returns the list for tier.
func (t TieredDifferential) Get(tier Tier) []string {
	switch tier {
	case MOST_LIKELY:
		return t.MostLikely
	case MODERATE:
		return t.Moderate
	case LESS_LIKELY:
		return t.LessLikely
	case UNLIKELY_IMPORTANT:
		return t.UnlikelyImportant
	}
	return nil
}

// FeedbackResult is the structured outcome of coverage and tiering analysis. It is the
// sole input to the narrative generator and the quiz card generator.
type FeedbackResult struct {
	TieredDifferential TieredDifferential         `json:"tiered_differential"`
	CommonHit          []string                   `json:"common_hit"`
	CommonMissed       []string                   `json:"common_missed"`
	CantMissHit        []string                   `json:"cant_miss_hit"`
	CantMissMissed     []string                   `json:"cant_miss_missed"`
	VindicateCoverage  map[VindicateCategory]bool `json:"vindicate_coverage"`
	Unmatched          []string                   `json:"unmatched"`
	FuzzyMatched       []FuzzyMatch               `json:"fuzzy_matched,omitempty"`
	FeedbackMode       FeedbackMode               `json:"feedback_mode"`
}

// CoveredCount returns how many of the nine categories are covered.
func (f *FeedbackResult) CoveredCount() int {
	n := 0
	for _, covered := range f.VindicateCoverage {
		if covered {
			n++
		}
	}
	return n
}

// CaseSummary carries the display fields of a clinical case. None of them are interpreted.
type CaseSummary struct {
	ID             string `json:"id" yaml:"id"`
	Title          string `json:"title,omitempty" yaml:"title,omitempty"`
	ChiefComplaint string `json:"chief_complaint" yaml:"chief_complaint"`
	PatientAge     int    `json:"patient_age,omitempty" yaml:"patient_age,omitempty"`
	PatientGender  string `json:"patient_gender,omitempty" yaml:"patient_gender,omitempty"`
}

// Case is a case summary together with its answer key.
type Case struct {
	CaseSummary `yaml:",inline"`
	AnswerKey   []AnswerKeyEntry `json:"answer_key" yaml:"answer_key"`
}

// CardKind tags the QuizCard variant.
type CardKind string

const (
	RECALL          CardKind = "recall"
	TRUE_FALSE      CardKind = "true_false"
	MULTIPLE_CHOICE CardKind = "multiple_choice"
)

// QuizCard is a practice item. Which fields are set depends on Kind:
// recall uses Question and Answer; true_false uses Statement, Correct and Explanation;
// multiple_choice uses Question, Options, CorrectIndex and Explanation.
type QuizCard struct {
	Kind         CardKind `json:"kind"`
	Question     string   `json:"question,omitempty"`
	Answer       string   `json:"answer,omitempty"`
	Statement    string   `json:"statement,omitempty"`
	Correct      *bool    `json:"correct,omitempty"`
	Options      []string `json:"options,omitempty"`
	CorrectIndex *int     `json:"correct_index,omitempty"`
	Explanation  string   `json:"explanation,omitempty"`
}

// NewRecallCard builds a recall card.
func NewRecallCard(question, answer string) QuizCard {
	return QuizCard{Kind: RECALL, Question: question, Answer: answer}
}

// NewTrueFalseCard builds a true/false card.
func NewTrueFalseCard(statement string, correct bool, explanation string) QuizCard {
	return QuizCard{Kind: TRUE_FALSE, Statement: statement, Correct: &correct, Explanation: explanation}
}

// NewMultipleChoiceCard builds a multiple choice card.
func NewMultipleChoiceCard(question string, options []string, correctIndex int, explanation string) QuizCard {
	return QuizCard{
		Kind:         MULTIPLE_CHOICE,
		Question:     question,
		Options:      options,
		CorrectIndex: &correctIndex,
		Explanation:  explanation,
	}
}
