package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/ddx-coach-mcp-server/internal/service"
)

// ToolRegistry manages registration of all MCP tools
type ToolRegistry struct {
	logger  *logrus.Logger
	service *service.DifferentialService
	names   []string
}

// NewToolRegistry creates a new tool registry
func NewToolRegistry(logger *logrus.Logger, svc *service.DifferentialService) *ToolRegistry {
	return &ToolRegistry{
		logger:  logger,
		service: svc,
	}
}

// RegisterAllTools registers every differential tool with server
func (tr *ToolRegistry) RegisterAllTools(server *mcp.Server) {
	tr.logger.Info("Registering differential tools")

	search := NewSearchDiagnosesTool(tr.logger, tr.service)
	mcp.AddTool(server, search.Definition(), search.Handle)
	tr.registered(search.Definition().Name)

	match := NewMatchDifferentialTool(tr.logger, tr.service)
	mcp.AddTool(server, match.Definition(), match.Handle)
	tr.registered(match.Definition().Name)

	analyze := NewAnalyzeCoverageTool(tr.logger, tr.service)
	mcp.AddTool(server, analyze.Definition(), analyze.Handle)
	tr.registered(analyze.Definition().Name)

	quiz := NewGenerateQuizCardsTool(tr.logger, tr.service)
	mcp.AddTool(server, quiz.Definition(), quiz.Handle)
	tr.registered(quiz.Definition().Name)

	evaluate := NewEvaluateDifferentialTool(tr.logger, tr.service)
	mcp.AddTool(server, evaluate.Definition(), evaluate.Handle)
	tr.registered(evaluate.Definition().Name)

	check := NewCheckPracticeAnswerTool(tr.logger, tr.service)
	mcp.AddTool(server, check.Definition(), check.Handle)
	tr.registered(check.Definition().Name)

	list := NewListCasesTool(tr.logger, tr.service)
	mcp.AddTool(server, list.Definition(), list.Handle)
	tr.registered(list.Definition().Name)

	tr.logger.WithField("tool_count", len(tr.names)).Info("Successfully registered all tools")
}

// RegisteredTools returns the names of the registered tools in registration order
func (tr *ToolRegistry) RegisteredTools() []string {
	out := make([]string, len(tr.names))
	copy(out, tr.names)
	return out
}

func (tr *ToolRegistry) registered(name string) {
	tr.names = append(tr.names, name)
	tr.logger.WithField("tool_name", name).Debug("Registered MCP tool")
}
