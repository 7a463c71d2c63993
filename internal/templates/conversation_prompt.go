package templates

import (
	"fmt"
	"regexp"

	"github.com/haasonsaas/orchestrator/internal/agent"
	"github.com/haasonsaas/orchestrator/pkg/models"
)

// ConversationPrompt holds the markdown-free prompt pieces for one agent
// kind: the system prompt and an optional map of task-priming templates
// keyed by task type.
type ConversationPrompt struct {
	System      string
	TaskPriming map[string]string
}

// ConversationRegistry deterministically formats the message list a
// Conversation Graph turn sends to the LLM Router, filling `{{.name}}`
// placeholders from caller context and task parameters. It resolves
// placeholders itself rather than through text/template: a missing key
// must be dropped silently, not rendered as "<no value>".
type ConversationRegistry struct {
	prompts map[models.AgentKind]ConversationPrompt
}

const genericSystemPrompt = "You are a helpful assistant for an entertainment industry CRM. Answer the user's question directly and concisely."

// NewConversationRegistry builds a registry with the three domain agents'
// default prompts.
func NewConversationRegistry() *ConversationRegistry {
	return &ConversationRegistry{
		prompts: map[models.AgentKind]ConversationPrompt{
			models.AgentSales: {
				System: "You are the Sales agent for {{.company_name}}, helping {{.user_name}} with deals, clients, pitches, and pipeline. Be direct and commercially minded.",
				TaskPriming: map[string]string{
					"pipeline_review": "Focus on deals in stage {{.stage}} for account {{.account}}.",
				},
			},
			models.AgentTalent: {
				System: "You are the Talent agent for {{.company_name}}, helping {{.user_name}} find and evaluate crew, cast, and collaborators. Be precise about availability and skills.",
				TaskPriming: map[string]string{
					"availability_check": "Check availability for {{.role}} starting {{.start_date}}.",
				},
			},
			models.AgentAnalytics: {
				System: "You are the Analytics agent for {{.company_name}}, helping {{.user_name}} with reports, trends, forecasts, and budgets. Be precise about numbers and sources.",
				TaskPriming: map[string]string{
					"report_summary": "Summarize the {{.report_name}} report for the period {{.period}}.",
				},
			},
		},
	}
}

// Register adds or replaces the prompt for an agent kind.
func (r *ConversationRegistry) Register(kind models.AgentKind, prompt ConversationPrompt) {
	r.prompts[kind] = prompt
}

// FormatConversationPrompt builds the ordered message list for one turn:
// [system, ...optional task priming, user]. An agent kind the registry
// doesn't recognize falls back to a minimal general-assistant system
// prompt rather than erroring. Missing caller_context or task_params keys
// never raise — unresolved placeholders are dropped from the rendered
// text.
func (r *ConversationRegistry) FormatConversationPrompt(
	kind models.AgentKind,
	userQuery string,
	callerContext map[string]any,
	taskType string,
	taskParams map[string]any,
) []agent.CompletionMessage {
	prompt, ok := r.prompts[kind]
	if !ok {
		prompt = ConversationPrompt{System: genericSystemPrompt}
	}

	messages := []agent.CompletionMessage{
		{Role: string(models.RoleSystem), Content: resolvePlaceholders(prompt.System, callerContext)},
	}

	if taskType != "" {
		if tmpl, ok := prompt.TaskPriming[taskType]; ok && tmpl != "" {
			vars := mergeVars(callerContext, taskParams)
			messages = append(messages, agent.CompletionMessage{
				Role:    string(models.RoleSystem),
				Content: resolvePlaceholders(tmpl, vars),
			})
		}
	}

	messages = append(messages, agent.CompletionMessage{Role: string(models.RoleUser), Content: userQuery})
	return messages
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*\.(\w+)\s*\}\}`)

// resolvePlaceholders substitutes each `{{.name}}` token with vars[name]
// stringified, or removes the token entirely when the key is absent — the
// spec's "unresolved placeholders are silently dropped" requirement, which
// text/template's own missing-key handling doesn't give us for free.
func resolvePlaceholders(tmplStr string, vars map[string]any) string {
	if tmplStr == "" {
		return ""
	}
	return placeholderPattern.ReplaceAllStringFunc(tmplStr, func(token string) string {
		name := placeholderPattern.FindStringSubmatch(token)[1]
		v, ok := vars[name]
		if !ok || v == nil {
			return ""
		}
		return fmt.Sprintf("%v", v)
	})
}

func mergeVars(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
