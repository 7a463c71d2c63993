package conversation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/haasonsaas/orchestrator/internal/agent"
	ctxwindow "github.com/haasonsaas/orchestrator/internal/context"
	"github.com/haasonsaas/orchestrator/internal/orcherr"
	"github.com/haasonsaas/orchestrator/pkg/models"
)

// Graph drives one turn through the seven-node state machine:
//
//	initialize -> process_query -> llm_with_tools ->
//	  [tool_calls? -> tools] -> generate_response -> update_memory
//
// All transitions are deterministic given the inputs; no node is re-entered
// within a turn, and at most two LLM calls happen per turn (llm_with_tools
// plus an optional synthesis completion).
type Graph struct {
	provider agent.LLMProvider
	registry *agent.ToolRegistry
	executor *agent.ToolExecutor
	memory   MemoryStore
	logger   *slog.Logger
}

// NewGraph builds a Graph. registry backs the tool-execution node;
// individual agents bind only the subset of registered tools they expose
// via Agent.Tools().
func NewGraph(provider agent.LLMProvider, registry *agent.ToolRegistry, memory MemoryStore, logger *slog.Logger) *Graph {
	if logger == nil {
		logger = slog.Default()
	}
	return &Graph{
		provider: provider,
		registry: registry,
		executor: agent.NewToolExecutor(registry, agent.DefaultToolExecConfig()),
		memory:   memory,
		logger:   logger,
	}
}

// Turn is the result of running the graph once.
type Turn struct {
	ConversationID string
	State          models.AgentState
	Response       string
}

// Run executes the full graph for one user query. conversationID may be
// empty, in which case initialize generates one.
func (g *Graph) Run(ctx context.Context, a Agent, conversationID, queryText string, caller models.CallerIdentity) (*Turn, error) {
	state := g.initialize(ctx, conversationID, caller)

	state.Messages = append(state.Messages, models.Message{
		Role:      models.RoleUser,
		Content:   queryText,
		CreatedAt: currentTime(),
	})

	g.processQuery(ctx, a, &state, queryText, caller)

	if err := g.llmWithTools(ctx, a, &state); err != nil {
		if cancelErr := cancellationError(ctx, err); cancelErr != nil {
			return nil, cancelErr
		}
		// ProcessingError boundary: log, apologize, still persist memory below.
		g.logger.Error("llm_with_tools failed", "error", err, "conversation_id", state.ConversationID)
		state.Messages = append(state.Messages, models.Message{
			Role:      models.RoleAssistant,
			Content:   fallbackApology,
			CreatedAt: currentTime(),
		})
	} else if lastMessageHasToolCalls(state.Messages) {
		g.tools(ctx, a, &state)
	}

	response := g.generateResponse(ctx, a, &state, queryText)

	g.updateMemory(ctx, a, &state)

	return &Turn{ConversationID: state.ConversationID, State: state, Response: response}, nil
}

// cancellationError reports the turn-failure taxonomy entry for a context
// that ended before the LLM call finished, or nil if err is an ordinary
// provider failure that should fall back to an apology instead.
func cancellationError(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return orcherr.ErrCancellationRequested
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return orcherr.ErrTimeout
	default:
		return nil
	}
}

func (g *Graph) initialize(ctx context.Context, conversationID string, caller models.CallerIdentity) models.AgentState {
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	state := models.AgentState{
		ConversationID: conversationID,
		Caller:         caller,
		ToolResults:    make(map[string]models.ToolResult),
	}

	if g.memory != nil {
		memories, err := g.memory.Load(ctx, conversationID)
		if err != nil {
			g.logger.Warn("failed to load prior memory, continuing with empty state", "error", err, "conversation_id", conversationID)
		} else {
			state.Messages = memoriesToMessages(memories)
		}
	}

	return state
}

func (g *Graph) processQuery(ctx context.Context, a Agent, state *models.AgentState, text string, caller models.CallerIdentity) {
	state.TaskAnalysis = a.AnalyzeQuery(ctx, text, caller)
}

func (g *Graph) llmWithTools(ctx context.Context, a Agent, state *models.AgentState) error {
	req := &agent.CompletionRequest{
		System:     a.SystemPrompt(),
		Messages:   toCompletionMessages(truncateHistory(state.Messages)),
		Complexity: state.TaskAnalysis.Complexity,
	}
	if tools := a.Tools(); len(tools) > 0 {
		req.Tools = tools
	}

	msg, err := RunCompletion(ctx, g.provider, req)
	if err != nil {
		return err
	}

	state.Messages = append(state.Messages, completionMessageToMessage(msg))
	return nil
}

func (g *Graph) tools(ctx context.Context, a Agent, state *models.AgentState) {
	last := state.Messages[len(state.Messages)-1]
	if len(last.ToolCalls) == 0 {
		return
	}

	results := g.executor.ExecuteSequentially(ctx, last.ToolCalls)
	for _, r := range results {
		state.ToolResults[r.ToolCall.Name] = r.Result // last write wins per name within a turn
		if r.Result.IsError {
			state.ToolErrors = append(state.ToolErrors, r.ToolCall.Name+": "+r.Result.Content)
		}
		state.Messages = append(state.Messages, models.Message{
			Role:        models.RoleTool,
			Content:     r.Result.Content,
			ToolResults: []models.ToolResult{r.Result},
			CreatedAt:   currentTime(),
		})
	}
}

func (g *Graph) generateResponse(ctx context.Context, a Agent, state *models.AgentState, originalQuery string) string {
	last := state.Messages[len(state.Messages)-1]
	if last.Role == models.RoleAssistant && last.Content != "" && len(last.ToolCalls) == 0 {
		return last.Content
	}

	if len(state.ToolResults) > 0 {
		prompt := buildSynthesisPrompt(originalQuery, state.ToolResults)
		req := &agent.CompletionRequest{
			System: a.SystemPrompt(),
			Messages: []agent.CompletionMessage{
				{Role: string(models.RoleUser), Content: prompt},
			},
			Complexity: state.TaskAnalysis.Complexity,
		}
		msg, err := RunCompletion(ctx, g.provider, req)
		if err != nil {
			g.logger.Error("synthesis completion failed", "error", err, "conversation_id", state.ConversationID)
			state.Messages = append(state.Messages, models.Message{Role: models.RoleAssistant, Content: fallbackApology, CreatedAt: currentTime()})
			return fallbackApology
		}
		state.Messages = append(state.Messages, completionMessageToMessage(msg))
		return msg.Content
	}

	state.Messages = append(state.Messages, models.Message{Role: models.RoleAssistant, Content: fallbackApology, CreatedAt: currentTime()})
	return fallbackApology
}

func (g *Graph) updateMemory(ctx context.Context, a Agent, state *models.AgentState) {
	if g.memory == nil {
		return
	}
	memories := messagesToMemories(state.ConversationID, a.Kind(), state.Messages)
	if err := g.memory.Save(ctx, state.ConversationID, memories, a.MemoryTTL()); err != nil {
		g.logger.Error("memory persistence failed", "error", &orcherr.MemoryPersistenceError{Err: err}, "conversation_id", state.ConversationID)
	}
}

func lastMessageHasToolCalls(messages []models.Message) bool {
	if len(messages) == 0 {
		return false
	}
	return len(messages[len(messages)-1].ToolCalls) > 0
}

// truncateHistory drops the oldest non-pinned turns once accumulated memory
// and tool-result content would exceed the default context window. No
// provider/model is known at this layer (routing picks the concrete model
// downstream), so this budgets against the conservative ctxwindow.DefaultContextWindow
// rather than a model-specific limit.
func truncateHistory(messages []models.Message) []models.Message {
	windowMsgs := make([]ctxwindow.Message, len(messages))
	for i, m := range messages {
		windowMsgs[i] = ctxwindow.Message{
			Role:     string(m.Role),
			Content:  m.Content,
			Tokens:   ctxwindow.EstimateTokens(m.Content),
			IsSystem: m.Role == models.RoleSystem,
		}
	}

	truncator := ctxwindow.NewTruncator(ctxwindow.TruncateOldest, ctxwindow.DefaultContextWindow)
	truncator.SetKeepFirst(0)
	truncator.SetKeepLast(1)
	kept, result := truncator.Truncate(windowMsgs)
	if result == nil || result.RemovedCount == 0 {
		return messages
	}

	out := make([]models.Message, 0, len(kept))
	j := 0
	for i, wm := range windowMsgs {
		if j >= len(kept) {
			break
		}
		if wm == kept[j] {
			out = append(out, messages[i])
			j++
		}
	}
	return out
}

func toCompletionMessages(messages []models.Message) []agent.CompletionMessage {
	out := make([]agent.CompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, agent.CompletionMessage{
			Role:        string(m.Role),
			Content:     m.Content,
			ToolCalls:   m.ToolCalls,
			ToolResults: m.ToolResults,
			Attachments: m.Attachments,
		})
	}
	return out
}

func completionMessageToMessage(msg agent.CompletionMessage) models.Message {
	return models.Message{
		Role:        models.Role(msg.Role),
		Content:     msg.Content,
		ToolCalls:   msg.ToolCalls,
		ToolResults: msg.ToolResults,
		Attachments: msg.Attachments,
		CreatedAt:   currentTime(),
	}
}

func memoriesToMessages(memories []models.Memory) []models.Message {
	out := make([]models.Message, 0, len(memories))
	for _, m := range memories {
		if m.Kind != models.MemoryEpisodic {
			continue
		}
		out = append(out, models.Message{Role: models.RoleAssistant, Content: m.Content, CreatedAt: m.CreatedAt})
	}
	return out
}

func messagesToMemories(conversationID string, kind models.AgentKind, messages []models.Message) []models.Memory {
	out := make([]models.Memory, 0, len(messages))
	for _, m := range messages {
		if m.Role != models.RoleAssistant || m.Content == "" {
			continue
		}
		out = append(out, models.Memory{
			ID:                   uuid.NewString(),
			Kind:                 models.MemoryEpisodic,
			Importance:           models.ImportanceMedium,
			Content:              m.Content,
			SourceConversationID: conversationID,
			Agent:                kind,
			CreatedAt:            currentTime(),
			LastAccess:           currentTime(),
		})
	}
	return out
}

func currentTime() time.Time {
	return time.Now()
}
