package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/haasonsaas/orchestrator/internal/agent"
	"github.com/haasonsaas/orchestrator/pkg/models"
)

const analyticsSystemPrompt = `You are an analytics specialist for a creative/entertainment agency.
You have access to document, project, and people tools. Answer questions
about performance, trends, vendors, and team composition, grounding claims
in the documents and records you retrieve.`

var analyticsKeywordGroups = []keywordGroup{
	{taskType: "performance_analysis", keywords: []string{"performance", "how well", "results for", "roi"}},
	{taskType: "forecasting", keywords: []string{"forecast", "predict", "projected", "trend"}},
	{taskType: "document_analysis", keywords: []string{"document", "report", "brief", "memo"}},
	{taskType: "vendor_analysis", keywords: []string{"vendor", "supplier", "contractor"}},
	{taskType: "team_analysis", keywords: []string{"team", "staffing", "headcount", "roster"}},
}

// AnalyticsAgent handles reporting and analysis questions, classifying the
// query by keyword before handing off to the LLM. Prefers a high-quality
// provider since its answers tend to be synthesized from several sources.
type AnalyticsAgent struct {
	baseAgent
}

// NewAnalyticsAgent builds the Analytics agent over the given Document,
// Projects, and People tool bindings.
func NewAnalyticsAgent(tools []agent.Tool) *AnalyticsAgent {
	return &AnalyticsAgent{baseAgent{
		kind:              models.AgentAnalytics,
		tools:             tools,
		preferredProvider: "high-quality",
		systemPrompt:      analyticsSystemPrompt,
		memoryTTL:         24 * time.Hour,
	}}
}

func (a *AnalyticsAgent) AnalyzeQuery(ctx context.Context, text string, caller models.CallerIdentity) models.TaskAnalysis {
	taskType := classify(strings.ToLower(text), analyticsKeywordGroups, "general")
	return models.TaskAnalysis{
		TaskType:               taskType,
		RequiresKnowledgeGraph: taskType != "general",
		Complexity:             estimateComplexity(text),
	}
}
