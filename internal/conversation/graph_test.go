package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/haasonsaas/orchestrator/internal/agent"
	"github.com/haasonsaas/orchestrator/pkg/models"
)

type fakeProvider struct {
	calls     int
	responses []agent.CompletionChunk
	err       error
}

func (p *fakeProvider) Complete(ctx context.Context, req *agent.CompletionRequest) (<-chan *agent.CompletionChunk, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	ch := make(chan *agent.CompletionChunk, len(p.responses))
	for i := range p.responses {
		chunk := p.responses[i]
		ch <- &chunk
	}
	close(ch)
	return ch, nil
}

func (p *fakeProvider) Name() string              { return "fake" }
func (p *fakeProvider) Models() []agent.Model     { return nil }
func (p *fakeProvider) SupportsTools() bool       { return true }

// sequencedProvider returns a different canned response on each successive
// call, so a test can script "first call requests a tool, second call
// synthesizes the final answer."
type sequencedProvider struct {
	calls     int
	sequences [][]agent.CompletionChunk
}

func (p *sequencedProvider) Complete(ctx context.Context, req *agent.CompletionRequest) (<-chan *agent.CompletionChunk, error) {
	idx := p.calls
	p.calls++
	var chunks []agent.CompletionChunk
	if idx < len(p.sequences) {
		chunks = p.sequences[idx]
	}
	ch := make(chan *agent.CompletionChunk, len(chunks))
	for i := range chunks {
		chunk := chunks[i]
		ch <- &chunk
	}
	close(ch)
	return ch, nil
}

func (p *sequencedProvider) Name() string          { return "fake" }
func (p *sequencedProvider) Models() []agent.Model { return nil }
func (p *sequencedProvider) SupportsTools() bool   { return true }

type fakeTool struct {
	name    string
	result  string
	isError bool
}

func (t *fakeTool) Name() string        { return t.name }
func (t *fakeTool) Description() string { return "fake tool" }
func (t *fakeTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object"}`)
}
func (t *fakeTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	return &agent.ToolResult{Content: t.result, IsError: t.isError}, nil
}

type fakeMemoryStore struct {
	loadErr   error
	saveErr   error
	saved     []models.Memory
	savedTTL  time.Duration
	loadCalls int
	saveCalls int
}

func (m *fakeMemoryStore) Load(ctx context.Context, conversationID string) ([]models.Memory, error) {
	m.loadCalls++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return nil, nil
}

func (m *fakeMemoryStore) Save(ctx context.Context, conversationID string, memories []models.Memory, ttl time.Duration) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = memories
	m.savedTTL = ttl
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(slogDiscard{}, nil))
}

// slogDiscard implements io.Writer, dropping everything — tests shouldn't
// spam stdout with expected error-path log lines.
type slogDiscard struct{}

func (slogDiscard) Write(p []byte) (int, error) { return len(p), nil }

func TestGraphRunDirectAnswerNoTools(t *testing.T) {
	provider := &fakeProvider{responses: []agent.CompletionChunk{
		{Text: "The answer is 42.", Done: true},
	}}
	registry := agent.NewToolRegistry()
	memory := &fakeMemoryStore{}
	graph := NewGraph(provider, registry, memory, testLogger())
	a := NewSalesAgent(nil)

	turn, err := graph.Run(context.Background(), a, "", "what is the answer?", models.CallerIdentity{Role: models.RoleLeadership})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if turn.Response != "The answer is 42." {
		t.Fatalf("expected direct answer, got %q", turn.Response)
	}
	if turn.ConversationID == "" {
		t.Fatalf("expected a generated conversation id")
	}
	if provider.calls != 1 {
		t.Fatalf("expected exactly 1 LLM call for a toolless turn, got %d", provider.calls)
	}
	if memory.saveCalls != 1 {
		t.Fatalf("expected update_memory to persist once, got %d calls", memory.saveCalls)
	}
}

func TestGraphRunWithToolCallThenSynthesis(t *testing.T) {
	toolCallInput := json.RawMessage(`{}`)
	provider := &sequencedProvider{sequences: [][]agent.CompletionChunk{
		{ // first call: requests a tool
			{ToolCall: &models.ToolCall{ID: "call-1", Name: "get_person_details", Input: toolCallInput}, Done: true},
		},
		{ // second call: synthesis
			{Text: "Ada is a senior producer.", Done: true},
		},
	}}
	registry := agent.NewToolRegistry()
	registry.Register(&fakeTool{name: "get_person_details", result: `{"found":true,"data":{"name":"Ada"}}`})
	memory := &fakeMemoryStore{}
	graph := NewGraph(provider, registry, memory, testLogger())
	a := NewSalesAgent([]agent.Tool{&fakeTool{name: "get_person_details"}})

	turn, err := graph.Run(context.Background(), a, "conv-1", "who is Ada?", models.CallerIdentity{Role: models.RoleLeadership})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if turn.Response != "Ada is a senior producer." {
		t.Fatalf("expected synthesized answer, got %q", turn.Response)
	}
	if provider.calls != 2 {
		t.Fatalf("expected exactly 2 LLM calls (llm_with_tools + synthesis), got %d", provider.calls)
	}
	if len(turn.State.ToolResults) != 1 {
		t.Fatalf("expected 1 tool result recorded, got %d", len(turn.State.ToolResults))
	}
}

func TestGraphRunToolErrorIsCollectedNotFatal(t *testing.T) {
	toolCallInput := json.RawMessage(`{}`)
	provider := &sequencedProvider{sequences: [][]agent.CompletionChunk{
		{{ToolCall: &models.ToolCall{ID: "call-1", Name: "broken_tool", Input: toolCallInput}, Done: true}},
		{{Text: "Here's what I found anyway.", Done: true}},
	}}
	registry := agent.NewToolRegistry()
	registry.Register(&fakeTool{name: "broken_tool", result: "boom", isError: true})
	graph := NewGraph(provider, registry, &fakeMemoryStore{}, testLogger())
	a := NewSalesAgent([]agent.Tool{&fakeTool{name: "broken_tool"}})

	turn, err := graph.Run(context.Background(), a, "", "anything", models.CallerIdentity{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(turn.State.ToolErrors) != 1 {
		t.Fatalf("expected 1 tool error collected, got %+v", turn.State.ToolErrors)
	}
	if turn.Response == "" {
		t.Fatalf("expected the turn to still produce a response despite the tool error")
	}
}

func TestGraphRunLLMFailureFallsBackToApology(t *testing.T) {
	provider := &fakeProvider{err: errors.New("provider unavailable")}
	graph := NewGraph(provider, agent.NewToolRegistry(), &fakeMemoryStore{}, testLogger())
	a := NewSalesAgent(nil)

	turn, err := graph.Run(context.Background(), a, "", "hello", models.CallerIdentity{})
	if err != nil {
		t.Fatalf("graph.Run should swallow LLM errors as a turn-level apology, got %v", err)
	}
	if turn.Response != fallbackApology {
		t.Fatalf("expected fallback apology, got %q", turn.Response)
	}
}

func TestGraphRunMemoryPersistenceFailureIsSwallowed(t *testing.T) {
	provider := &fakeProvider{responses: []agent.CompletionChunk{{Text: "ok", Done: true}}}
	memory := &fakeMemoryStore{saveErr: errors.New("disk full")}
	graph := NewGraph(provider, agent.NewToolRegistry(), memory, testLogger())
	a := NewSalesAgent(nil)

	turn, err := graph.Run(context.Background(), a, "", "hello", models.CallerIdentity{})
	if err != nil {
		t.Fatalf("memory persistence failures must not fail the turn, got %v", err)
	}
	if turn.Response != "ok" {
		t.Fatalf("unexpected response %q", turn.Response)
	}
}

func TestGraphRunLoadsPriorMemoryWhenConversationIDGiven(t *testing.T) {
	provider := &fakeProvider{responses: []agent.CompletionChunk{{Text: "ok", Done: true}}}
	memory := &fakeMemoryStore{}
	graph := NewGraph(provider, agent.NewToolRegistry(), memory, testLogger())
	a := NewSalesAgent(nil)

	_, err := graph.Run(context.Background(), a, "existing-conversation", "hello again", models.CallerIdentity{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if memory.loadCalls != 1 {
		t.Fatalf("expected initialize to load prior memory once, got %d calls", memory.loadCalls)
	}
}

func TestTalentAgentClassifiesByKeyword(t *testing.T) {
	a := NewTalentAgent(nil)
	analysis := a.AnalyzeQuery(context.Background(), "I need a person who can direct color grading", models.CallerIdentity{})
	if analysis.TaskType != "talent_search" {
		t.Fatalf("expected talent_search classification, got %q", analysis.TaskType)
	}

	generalAnalysis := a.AnalyzeQuery(context.Background(), "what time is it", models.CallerIdentity{})
	if generalAnalysis.TaskType != "general" {
		t.Fatalf("expected general classification for an unmatched query, got %q", generalAnalysis.TaskType)
	}
}

func TestAnalyticsAgentClassifiesByKeyword(t *testing.T) {
	a := NewAnalyticsAgent(nil)
	analysis := a.AnalyzeQuery(context.Background(), "what's the vendor performance like this quarter", models.CallerIdentity{})
	if analysis.TaskType == "" || analysis.TaskType == "general" {
		t.Fatalf("expected a specific classification, got %q", analysis.TaskType)
	}
}

func TestSalesAgentDoesNotClassifyByKeyword(t *testing.T) {
	a := NewSalesAgent(nil)
	analysis := a.AnalyzeQuery(context.Background(), "tell me about the Acme deal", models.CallerIdentity{})
	if analysis.TaskType != "general" {
		t.Fatalf("sales agent should not keyword-classify, got task_type %q", analysis.TaskType)
	}
}
