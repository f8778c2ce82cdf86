// Package prompts renders structured feedback into the instruction text handed to the
// external narrative generator.
package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/ddx-coach-mcp-server/internal/domain"
)

var modeInstructions = map[domain.FeedbackMode]string{
	domain.BREADTH:   "Focus on the breadth of the student's differential: how many categories they covered and which areas to explore.",
	domain.CANT_MISS: "Focus on can't-miss diagnoses, the dangerous conditions that must be considered regardless of likelihood.",
	domain.COMBINED:  "Cover both breadth (VINDICATE category coverage) and can't-miss diagnoses.",
}

var feedbackTemplate = template.Must(template.New("feedback").Funcs(template.FuncMap{
	"list": orNone,
}).Parse(`You are a supportive medical education assistant. A medical student just submitted a differential diagnosis for the following case:

Chief Complaint: {{.ChiefComplaint}}

Here are their results:
- They identified diagnoses across {{.Covered}} of {{.Total}} VINDICATE categories
- Common diagnoses they got: {{list .Result.CommonHit}}
- Common diagnoses they missed: {{list .Result.CommonMissed}}
- Can't-miss diagnoses they got: {{list .Result.CantMissHit}}
- Can't-miss diagnoses they missed: {{list .Result.CantMissMissed}}
- Diagnoses matched via close spelling: {{list .Fuzzy}}
- Additional diagnoses they listed that weren't in the answer key: {{list .Result.Unmatched}}

{{.ModeInstruction}}

Generate 3-5 categorized bullet points of supportive, educational feedback. Follow these rules strictly:
- NEVER be punitive, scored, or grading
- Use a warm, coach-like tone, like a supportive attending physician
- Do NOT mention scores, percentages, or grades
- Each bullet must start with one of these category prefixes: "Strength:", "Consider:", or "Can't-miss:"
- Start with at least one "Strength:" bullet acknowledging what the student did well
- Use "Consider:" for areas to explore further
- Use "Can't-miss:" ONLY if dangerous diagnoses were missed, and briefly explain WHY they matter (1 sentence)
- End with a "Strength:" or "Consider:" bullet that offers encouragement
- Format each bullet as: "- Category: One sentence of feedback."
- Keep each bullet to 1-2 sentences maximum`))

type feedbackData struct {
	ChiefComplaint  string
	Covered         int
	Total           int
	Result          domain.FeedbackResult
	Fuzzy           []string
	ModeInstruction string
}

// BuildFeedbackPrompt renders the coaching prompt for a feedback result. An empty or
// unknown mode falls back to the mode recorded on the result, then to combined.
func BuildFeedbackPrompt(result domain.FeedbackResult, chiefComplaint string, mode domain.FeedbackMode) (string, error) {
	if !mode.IsValid() {
		mode = result.FeedbackMode.OrDefault()
	}

	fuzzy := make([]string, len(result.FuzzyMatched))
	for i, f := range result.FuzzyMatched {
		fuzzy[i] = fmt.Sprintf("%q -> %s", f.Student, f.MatchedTo)
	}

	var buf bytes.Buffer
	err := feedbackTemplate.Execute(&buf, feedbackData{
		ChiefComplaint:  chiefComplaint,
		Covered:         result.CoveredCount(),
		Total:           len(domain.AllCategories()),
		Result:          result,
		Fuzzy:           fuzzy,
		ModeInstruction: modeInstructions[mode],
	})
	if err != nil {
		return "", fmt.Errorf("failed to render feedback prompt: %w", err)
	}
	return buf.String(), nil
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
