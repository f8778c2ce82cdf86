package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/ddx-coach-mcp-server/internal/domain"
	"github.com/ddx-coach-mcp-server/internal/service"
)

// =============================================================================
// Search Diagnoses Tool
// =============================================================================

// SearchDiagnosesTool implements the search_diagnoses MCP tool
type SearchDiagnosesTool struct {
	logger  *logrus.Logger
	service *service.DifferentialService
}

// SearchDiagnosesParams defines parameters for the search_diagnoses tool
type SearchDiagnosesParams struct {
	Query string `json:"query" jsonschema:"partial diagnosis name or abbreviation"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of suggestions, default 8"`
}

// SearchDiagnosesResult defines the result of search_diagnoses
type SearchDiagnosesResult struct {
	Results []domain.SearchResult `json:"results"`
}

// NewSearchDiagnosesTool creates a new search_diagnoses tool
func NewSearchDiagnosesTool(logger *logrus.Logger, svc *service.DifferentialService) *SearchDiagnosesTool {
	return &SearchDiagnosesTool{logger: logger, service: svc}
}

// Definition returns the MCP tool definition
func (t *SearchDiagnosesTool) Definition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_diagnoses",
		Description: "Autocomplete a diagnosis name against the term catalog. Exact abbreviation hits rank first, then name prefixes, abbreviation prefixes and substrings.",
	}
}

// Handle handles the search_diagnoses tool call
func (t *SearchDiagnosesTool) Handle(ctx context.Context, _ *mcp.CallToolRequest, params SearchDiagnosesParams) (*mcp.CallToolResult, SearchDiagnosesResult, error) {
	results, err := t.service.SearchDiagnoses(ctx, params.Query, params.Limit)
	if err != nil {
		return nil, SearchDiagnosesResult{}, toolError(t.logger, "search_diagnoses", err)
	}
	return nil, SearchDiagnosesResult{Results: results}, nil
}

// =============================================================================
// Match Differential Tool
// =============================================================================

// MatchDifferentialTool implements the match_differential MCP tool
type MatchDifferentialTool struct {
	logger  *logrus.Logger
	service *service.DifferentialService
}

// MatchDifferentialParams defines parameters for the match_differential tool
type MatchDifferentialParams struct {
	Diagnoses []domain.DiagnosisEntry `json:"diagnoses" jsonschema:"the student's differential"`
	AnswerKey []domain.AnswerKeyEntry `json:"answer_key" jsonschema:"canonical diagnoses for the case"`
}

// NewMatchDifferentialTool creates a new match_differential tool
func NewMatchDifferentialTool(logger *logrus.Logger, svc *service.DifferentialService) *MatchDifferentialTool {
	return &MatchDifferentialTool{logger: logger, service: svc}
}

// Definition returns the MCP tool definition
func (t *MatchDifferentialTool) Definition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "match_differential",
		Description: "Reconcile free-text diagnoses against an answer key using exact, alias and spelling-tolerant matching.",
	}
}

// Handle handles the match_differential tool call
func (t *MatchDifferentialTool) Handle(ctx context.Context, _ *mcp.CallToolRequest, params MatchDifferentialParams) (*mcp.CallToolResult, domain.MatchResult, error) {
	result, err := t.service.MatchDifferential(ctx, nonNilEntries(params.Diagnoses), params.AnswerKey)
	if err != nil {
		return nil, domain.MatchResult{}, toolError(t.logger, "match_differential", err)
	}
	return nil, result, nil
}

// =============================================================================
// Analyze Coverage Tool
// =============================================================================

// AnalyzeCoverageTool implements the analyze_coverage MCP tool
type AnalyzeCoverageTool struct {
	logger  *logrus.Logger
	service *service.DifferentialService
}

// AnalyzeCoverageParams defines parameters for the analyze_coverage tool
type AnalyzeCoverageParams struct {
	Diagnoses    []domain.DiagnosisEntry `json:"diagnoses" jsonschema:"the student's differential"`
	AnswerKey    []domain.AnswerKeyEntry `json:"answer_key" jsonschema:"canonical diagnoses for the case"`
	FeedbackMode string                  `json:"feedback_mode,omitempty" jsonschema:"breadth, cant_miss or combined"`
}

// AnalyzeCoverageResult defines the result of analyze_coverage
type AnalyzeCoverageResult struct {
	Match    domain.MatchResult    `json:"match"`
	Feedback domain.FeedbackResult `json:"feedback"`
}

// NewAnalyzeCoverageTool creates a new analyze_coverage tool
func NewAnalyzeCoverageTool(logger *logrus.Logger, svc *service.DifferentialService) *AnalyzeCoverageTool {
	return &AnalyzeCoverageTool{logger: logger, service: svc}
}

// Definition returns the MCP tool definition
func (t *AnalyzeCoverageTool) Definition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "analyze_coverage",
		Description: "Match a differential against an answer key and report tiers, common and can't-miss hits and misses, and VINDICATE category coverage.",
	}
}

// Handle handles the analyze_coverage tool call
func (t *AnalyzeCoverageTool) Handle(ctx context.Context, _ *mcp.CallToolRequest, params AnalyzeCoverageParams) (*mcp.CallToolResult, AnalyzeCoverageResult, error) {
	entries := nonNilEntries(params.Diagnoses)
	match, err := t.service.MatchDifferential(ctx, entries, params.AnswerKey)
	if err != nil {
		return nil, AnalyzeCoverageResult{}, toolError(t.logger, "analyze_coverage", err)
	}
	feedback, err := t.service.AnalyzeCoverage(ctx, match, params.AnswerKey, entries, domain.FeedbackMode(params.FeedbackMode))
	if err != nil {
		return nil, AnalyzeCoverageResult{}, toolError(t.logger, "analyze_coverage", err)
	}
	return nil, AnalyzeCoverageResult{Match: match, Feedback: feedback}, nil
}

// =============================================================================
// Generate Quiz Cards Tool
// =============================================================================

// GenerateQuizCardsTool implements the generate_quiz_cards MCP tool
type GenerateQuizCardsTool struct {
	logger  *logrus.Logger
	service *service.DifferentialService
}

// GenerateQuizCardsParams defines parameters for the generate_quiz_cards tool
type GenerateQuizCardsParams struct {
	Case      domain.CaseSummary      `json:"case" jsonschema:"case display fields; chief_complaint is used"`
	Diagnoses []domain.DiagnosisEntry `json:"diagnoses" jsonschema:"the submitted differential"`
	Feedback  domain.FeedbackResult   `json:"feedback" jsonschema:"result of analyze_coverage"`
}

// GenerateQuizCardsResult defines the result of generate_quiz_cards
type GenerateQuizCardsResult struct {
	Cards []domain.QuizCard `json:"cards"`
}

// NewGenerateQuizCardsTool creates a new generate_quiz_cards tool
func NewGenerateQuizCardsTool(logger *logrus.Logger, svc *service.DifferentialService) *GenerateQuizCardsTool {
	return &GenerateQuizCardsTool{logger: logger, service: svc}
}

// Definition returns the MCP tool definition
func (t *GenerateQuizCardsTool) Definition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "generate_quiz_cards",
		Description: "Generate recall, true/false and multiple choice practice cards from an analyzed differential. The first card always asks for the chief complaint.",
	}
}

// Handle handles the generate_quiz_cards tool call
func (t *GenerateQuizCardsTool) Handle(ctx context.Context, _ *mcp.CallToolRequest, params GenerateQuizCardsParams) (*mcp.CallToolResult, GenerateQuizCardsResult, error) {
	cards, err := t.service.GenerateQuizCards(ctx, params.Case, nonNilEntries(params.Diagnoses), params.Feedback)
	if err != nil {
		return nil, GenerateQuizCardsResult{}, toolError(t.logger, "generate_quiz_cards", err)
	}
	return nil, GenerateQuizCardsResult{Cards: cards}, nil
}
