package conversation

import (
	"context"
	"time"

	"github.com/haasonsaas/orchestrator/internal/agent"
	"github.com/haasonsaas/orchestrator/pkg/models"
)

const salesSystemPrompt = `You are a sales specialist for a creative/entertainment agency.
You have access to CRM and project tools. Use them to answer questions about
deals, people, organizations, and the projects connected to them. Pick
whichever tools the question calls for — don't force a tool if the question
doesn't need one.`

// SalesAgent handles CRM/pipeline questions. It does no keyword-based
// intent classification of its own — the LLM is trusted to pick tools.
type SalesAgent struct {
	baseAgent
}

// NewSalesAgent builds the Sales agent over the given CRM/People and
// Projects tool bindings.
func NewSalesAgent(tools []agent.Tool) *SalesAgent {
	return &SalesAgent{baseAgent{
		kind:              models.AgentSales,
		tools:             tools,
		preferredProvider: "cost-efficient-default",
		systemPrompt:      salesSystemPrompt,
		memoryTTL:         24 * time.Hour,
	}}
}

// AnalyzeQuery returns a minimal analysis: Sales relies on the LLM's own
// tool selection rather than a regex classifier, per spec.
func (s *SalesAgent) AnalyzeQuery(ctx context.Context, text string, caller models.CallerIdentity) models.TaskAnalysis {
	return models.TaskAnalysis{
		TaskType:               "general",
		RequiresKnowledgeGraph: true,
		Complexity:             estimateComplexity(text),
	}
}
