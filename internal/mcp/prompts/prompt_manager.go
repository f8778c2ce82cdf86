// Package prompts exposes the narrative feedback builder as MCP prompts.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/ddx-coach-mcp-server/internal/domain"
	feedback "github.com/ddx-coach-mcp-server/internal/prompts"
	"github.com/ddx-coach-mcp-server/internal/service"
)

// DifferentialFeedbackPrompt is the name of the coaching prompt
const DifferentialFeedbackPrompt = "differential_feedback"

// PromptManager manages MCP prompts
type PromptManager struct {
	logger  *logrus.Logger
	service *service.DifferentialService
}

// NewPromptManager creates a new prompt manager
func NewPromptManager(logger *logrus.Logger, svc *service.DifferentialService) *PromptManager {
	return &PromptManager{
		logger:  logger,
		service: svc,
	}
}

// RegisterAll registers every prompt with server
func (pm *PromptManager) RegisterAll(server *mcp.Server) {
	server.AddPrompt(&mcp.Prompt{
		Name:        DifferentialFeedbackPrompt,
		Description: "Coaching prompt for a student's differential on a stored case. The structured evaluation is embedded so the model can write bulleted feedback without scores.",
		Arguments: []*mcp.PromptArgument{
			{Name: "case_id", Description: "id of a stored case", Required: true},
			{Name: "diagnoses", Description: "the student's diagnoses in ranked order, comma separated", Required: true},
			{Name: "feedback_mode", Description: "breadth, cant_miss or combined (default combined)"},
		},
	}, pm.handleDifferentialFeedback)

	pm.logger.WithField("prompt_name", DifferentialFeedbackPrompt).Debug("Registered MCP prompt")
}

func (pm *PromptManager) handleDifferentialFeedback(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	args := req.Params.Arguments
	caseID := strings.TrimSpace(args["case_id"])
	if caseID == "" {
		return nil, domain.NewValidationError("case_id", "is required", nil)
	}
	entries := ParseDiagnoses(args["diagnoses"])
	if len(entries) == 0 {
		return nil, domain.NewValidationError("diagnoses", "at least one diagnosis is required", args["diagnoses"])
	}

	eval, err := pm.service.EvaluateCase(ctx, caseID, entries, domain.FeedbackMode(args["feedback_mode"]))
	if err != nil {
		pm.logger.WithError(err).WithField("case_id", caseID).Warn("Failed to render feedback prompt")
		return nil, fmt.Errorf("failed to evaluate differential: %w", err)
	}
	text, err := feedback.BuildFeedbackPrompt(eval.Feedback, eval.Case.ChiefComplaint, eval.Feedback.FeedbackMode)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Feedback on a differential for %q", eval.Case.ChiefComplaint),
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}, nil
}

// ParseDiagnoses splits a comma separated list into entries ranked by position.
// Blank items are skipped.
func ParseDiagnoses(list string) []domain.DiagnosisEntry {
	entries := []domain.DiagnosisEntry{}
	for _, part := range strings.Split(list, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		entries = append(entries, domain.DiagnosisEntry{Diagnosis: name, SortOrder: len(entries)})
	}
	return entries
}
