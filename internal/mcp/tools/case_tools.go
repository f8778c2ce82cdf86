package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/ddx-coach-mcp-server/internal/domain"
	"github.com/ddx-coach-mcp-server/internal/prompts"
	"github.com/ddx-coach-mcp-server/internal/service"
)

// =============================================================================
// Evaluate Differential Tool
// =============================================================================

// EvaluateDifferentialTool implements the evaluate_differential MCP tool
type EvaluateDifferentialTool struct {
	logger  *logrus.Logger
	service *service.DifferentialService
}

// EvaluateDifferentialParams defines parameters for the evaluate_differential tool
type EvaluateDifferentialParams struct {
	CaseID        string                  `json:"case_id" jsonschema:"id of a stored case"`
	Diagnoses     []domain.DiagnosisEntry `json:"diagnoses" jsonschema:"the student's differential"`
	FeedbackMode  string                  `json:"feedback_mode,omitempty" jsonschema:"breadth, cant_miss or combined"`
	IncludeQuiz   bool                    `json:"include_quiz,omitempty" jsonschema:"also generate practice cards"`
	IncludePrompt bool                    `json:"include_prompt,omitempty" jsonschema:"also render the narrative feedback prompt"`
}

// EvaluateDifferentialResult defines the result of evaluate_differential
type EvaluateDifferentialResult struct {
	Case     domain.CaseSummary    `json:"case"`
	Feedback domain.FeedbackResult `json:"feedback"`
	Cards    []domain.QuizCard     `json:"cards,omitempty"`
	Prompt   string                `json:"prompt,omitempty"`
}

// NewEvaluateDifferentialTool creates a new evaluate_differential tool
func NewEvaluateDifferentialTool(logger *logrus.Logger, svc *service.DifferentialService) *EvaluateDifferentialTool {
	return &EvaluateDifferentialTool{logger: logger, service: svc}
}

// Definition returns the MCP tool definition
func (t *EvaluateDifferentialTool) Definition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "evaluate_differential",
		Description: "Evaluate a differential against a stored case's answer key, optionally generating practice cards and the narrative feedback prompt.",
	}
}

// Handle handles the evaluate_differential tool call
func (t *EvaluateDifferentialTool) Handle(ctx context.Context, _ *mcp.CallToolRequest, params EvaluateDifferentialParams) (*mcp.CallToolResult, EvaluateDifferentialResult, error) {
	entries := nonNilEntries(params.Diagnoses)
	eval, err := t.service.EvaluateCase(ctx, params.CaseID, entries, domain.FeedbackMode(params.FeedbackMode))
	if err != nil {
		return nil, EvaluateDifferentialResult{}, toolError(t.logger, "evaluate_differential", err)
	}

	result := EvaluateDifferentialResult{Case: eval.Case, Feedback: eval.Feedback}
	if params.IncludeQuiz {
		result.Cards, err = t.service.GenerateQuizCards(ctx, eval.Case, entries, eval.Feedback)
		if err != nil {
			return nil, EvaluateDifferentialResult{}, toolError(t.logger, "evaluate_differential", err)
		}
	}
	if params.IncludePrompt {
		result.Prompt, err = prompts.BuildFeedbackPrompt(eval.Feedback, eval.Case.ChiefComplaint, eval.Feedback.FeedbackMode)
		if err != nil {
			return nil, EvaluateDifferentialResult{}, toolError(t.logger, "evaluate_differential", err)
		}
	}
	return nil, result, nil
}

// =============================================================================
// Check Practice Answer Tool
// =============================================================================

// CheckPracticeAnswerTool implements the check_practice_answer MCP tool
type CheckPracticeAnswerTool struct {
	logger  *logrus.Logger
	service *service.DifferentialService
}

// CheckPracticeAnswerParams defines parameters for the check_practice_answer tool
type CheckPracticeAnswerParams struct {
	Diagnoses        []string `json:"diagnoses" jsonschema:"diagnoses named by the student"`
	CorrectDiagnosis string   `json:"correct_diagnosis" jsonschema:"the single correct diagnosis"`
}

// CheckPracticeAnswerResult defines the result of check_practice_answer
type CheckPracticeAnswerResult struct {
	Correct bool `json:"correct"`
}

// NewCheckPracticeAnswerTool creates a new check_practice_answer tool
func NewCheckPracticeAnswerTool(logger *logrus.Logger, svc *service.DifferentialService) *CheckPracticeAnswerTool {
	return &CheckPracticeAnswerTool{logger: logger, service: svc}
}

// Definition returns the MCP tool definition
func (t *CheckPracticeAnswerTool) Definition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "check_practice_answer",
		Description: "Check whether a single-answer practice attempt names the correct diagnosis. Containment in either direction counts.",
	}
}

// Handle handles the check_practice_answer tool call
func (t *CheckPracticeAnswerTool) Handle(ctx context.Context, _ *mcp.CallToolRequest, params CheckPracticeAnswerParams) (*mcp.CallToolResult, CheckPracticeAnswerResult, error) {
	ok, err := t.service.CheckPracticeAnswer(ctx, params.Diagnoses, params.CorrectDiagnosis)
	if err != nil {
		return nil, CheckPracticeAnswerResult{}, toolError(t.logger, "check_practice_answer", err)
	}
	return nil, CheckPracticeAnswerResult{Correct: ok}, nil
}

// =============================================================================
// List Cases Tool
// =============================================================================

// ListCasesTool implements the list_cases MCP tool
type ListCasesTool struct {
	logger  *logrus.Logger
	service *service.DifferentialService
}

// ListCasesParams defines parameters for the list_cases tool
type ListCasesParams struct{}

// ListCasesResult defines the result of list_cases
type ListCasesResult struct {
	Cases []domain.CaseSummary `json:"cases"`
}

// NewListCasesTool creates a new list_cases tool
func NewListCasesTool(logger *logrus.Logger, svc *service.DifferentialService) *ListCasesTool {
	return &ListCasesTool{logger: logger, service: svc}
}

// Definition returns the MCP tool definition
func (t *ListCasesTool) Definition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_cases",
		Description: "List the stored practice cases. Answer keys are not included.",
	}
}

// Handle handles the list_cases tool call
func (t *ListCasesTool) Handle(ctx context.Context, _ *mcp.CallToolRequest, _ ListCasesParams) (*mcp.CallToolResult, ListCasesResult, error) {
	cases, err := t.service.ListCases(ctx)
	if err != nil {
		return nil, ListCasesResult{}, toolError(t.logger, "list_cases", err)
	}
	return nil, ListCasesResult{Cases: cases}, nil
}
