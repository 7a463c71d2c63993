package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/haasonsaas/orchestrator/internal/agent"
	"github.com/haasonsaas/orchestrator/pkg/models"
)

const talentSystemPrompt = `You are a talent and staffing specialist for a creative/entertainment agency.
You have access to project and CRM/people tools. Help match people to
projects, assess skills, and find creative collaborators.`

var talentKeywordGroups = []keywordGroup{
	{taskType: "talent_search", keywords: []string{"find someone", "who can", "looking for a", "need a person", "talent"}},
	{taskType: "skill_assessment", keywords: []string{"skill", "capable of", "experience with", "qualified"}},
	{taskType: "project_matching", keywords: []string{"match", "staff", "assign", "available for"}},
	{taskType: "creative_matching", keywords: []string{"creative", "concept", "style", "reference"}},
}

// TalentAgent handles staffing and collaborator-matching questions,
// classifying the query by keyword before handing off to the LLM.
type TalentAgent struct {
	baseAgent
}

// NewTalentAgent builds the Talent agent over the given Projects and
// CRM/People tool bindings.
func NewTalentAgent(tools []agent.Tool) *TalentAgent {
	return &TalentAgent{baseAgent{
		kind:              models.AgentTalent,
		tools:             tools,
		preferredProvider: "cost-efficient-default",
		systemPrompt:      talentSystemPrompt,
		memoryTTL:         24 * time.Hour,
	}}
}

func (t *TalentAgent) AnalyzeQuery(ctx context.Context, text string, caller models.CallerIdentity) models.TaskAnalysis {
	taskType := classify(strings.ToLower(text), talentKeywordGroups, "general")
	return models.TaskAnalysis{
		TaskType:               taskType,
		RequiresKnowledgeGraph: taskType != "general",
		Complexity:             estimateComplexity(text),
	}
}
