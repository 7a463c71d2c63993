// Package conversation implements the Conversation Graph: a deterministic,
// seven-node state machine that drives one turn of a conversation from a
// user query to a final assistant message, and the three concrete agents
// (Sales, Talent, Analytics) that plug into it.
package conversation

import (
	"context"
	"time"

	"github.com/haasonsaas/orchestrator/internal/agent"
	"github.com/haasonsaas/orchestrator/pkg/models"
)

// Agent differs from another agent only in its query analysis, bound
// tools, preferred provider hint, and system prompt — everything else is
// handled identically by Graph.
type Agent interface {
	Kind() models.AgentKind

	// AnalyzeQuery is the process_query hook. The graph stores whatever it
	// returns on AgentState.TaskAnalysis without interpreting it further.
	AnalyzeQuery(ctx context.Context, text string, caller models.CallerIdentity) models.TaskAnalysis

	// Tools returns the tool bindings available to this agent. A nil or
	// empty slice means llm_with_tools calls a plain completion.
	Tools() []agent.Tool

	// PreferredProvider is a routing hint passed through to the LLM Router;
	// the router decides whether and how to honor it.
	PreferredProvider() string

	// SystemPrompt returns the system prompt used for both llm_with_tools
	// and the synthesis completion.
	SystemPrompt() string

	// MemoryTTL is how long this agent's conversation memory is retained by
	// update_memory.
	MemoryTTL() time.Duration
}

// MemoryStore is the narrow persistence contract the graph's initialize and
// update_memory nodes need. A Memory Manager adapter implements this against
// the durable memory backend.
type MemoryStore interface {
	Load(ctx context.Context, conversationID string) ([]models.Memory, error)
	Save(ctx context.Context, conversationID string, memories []models.Memory, ttl time.Duration) error
}

// baseAgent is embedded by each concrete agent kind to share the fields that
// never vary with the analysis hook.
type baseAgent struct {
	kind              models.AgentKind
	tools             []agent.Tool
	preferredProvider string
	systemPrompt      string
	memoryTTL         time.Duration
}

func (b *baseAgent) Kind() models.AgentKind    { return b.kind }
func (b *baseAgent) Tools() []agent.Tool       { return b.tools }
func (b *baseAgent) PreferredProvider() string { return b.preferredProvider }
func (b *baseAgent) SystemPrompt() string      { return b.systemPrompt }
func (b *baseAgent) MemoryTTL() time.Duration  { return b.memoryTTL }
