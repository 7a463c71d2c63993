// Package supervisor implements the Supervisor/Orchestrator: it accepts a
// Query, runs the Security Filter, routes to one or more Conversation Graph
// turns, and — for a multi-agent turn — synthesizes the participants'
// answers into one reply.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/haasonsaas/orchestrator/internal/agent"
	"github.com/haasonsaas/orchestrator/internal/conversation"
	"github.com/haasonsaas/orchestrator/internal/orcherr"
	"github.com/haasonsaas/orchestrator/internal/security"
	"github.com/haasonsaas/orchestrator/pkg/models"
)

// Supervisor is the single entry point a transport (gateway) calls per turn.
// It implements gateway.QueryHandler.
type Supervisor struct {
	graph  *conversation.Graph
	agents map[models.AgentKind]conversation.Agent
	filter *security.Filter
	synth  agent.LLMProvider
	cfg    RoutingConfig
	logger *slog.Logger
}

// New builds a Supervisor over a Conversation Graph shared by every agent,
// the three concrete agent kinds, a Security Filter, and the provider used
// for multi-agent synthesis (typically the same router backing the graph).
func New(graph *conversation.Graph, agents map[models.AgentKind]conversation.Agent, filter *security.Filter, synthesisProvider agent.LLMProvider, logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		graph:  graph,
		agents: agents,
		filter: filter,
		synth:  synthesisProvider,
		cfg:    DefaultRoutingConfig(),
		logger: logger,
	}
}

// HandleQuery runs the Security Filter, routes, and executes one turn,
// returning a TurnResponse or an error from the turn-failure taxonomy.
func (s *Supervisor) HandleQuery(ctx context.Context, q models.Query) (*models.TurnResponse, error) {
	decision := s.filter.Vet(q.Text, q.Caller)
	if !decision.Allowed {
		return nil, fmt.Errorf("%w: %s", orcherr.ErrSecurityDenied, decision.Reason)
	}
	queryText := decision.Query

	routing := s.resolveRouting(queryText, q)

	conversationID := q.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	switch routing.Strategy {
	case models.StrategyMultiAgent:
		return s.runMultiAgent(ctx, routing, conversationID, queryText, q.Caller)
	default:
		return s.runSingleAgent(ctx, routing.Primary, conversationID, queryText, q.Caller, routing.Strategy)
	}
}

// resolveRouting applies an explicit Selection override (single/multi) on
// top of the keyword-scoring decision; SelectionAuto leaves the scored
// decision untouched.
func (s *Supervisor) resolveRouting(queryText string, q models.Query) models.RoutingDecision {
	decision := route(queryText, q.PreferredAgent, s.cfg)
	switch q.Selection {
	case models.SelectionSingle:
		decision.Strategy = models.StrategySingleAgent
	case models.SelectionMulti:
		decision.Strategy = models.StrategyMultiAgent
	}
	return decision
}

func (s *Supervisor) runSingleAgent(ctx context.Context, kind models.AgentKind, conversationID, queryText string, caller models.CallerIdentity, strategy models.RoutingStrategy) (*models.TurnResponse, error) {
	a := s.agentFor(kind)
	turn, err := s.graph.Run(ctx, a, conversationID, queryText, caller)
	if err != nil {
		return nil, err
	}
	return &models.TurnResponse{
		ConversationID: turn.ConversationID,
		UserMessage:    queryText,
		AIMessage:      turn.Response,
		AgentInfo: models.AgentInfo{
			Type:     models.ResponseSupervisorAgent,
			Primary:  kind,
			Strategy: strategy,
		},
		ToolErrors: turn.State.ToolErrors,
		Timestamp:  time.Now(),
	}, nil
}

// agentFor returns the registered agent for kind, falling back to Sales if
// kind is unregistered (an unknown preferred_agent should still produce an
// answer, not a dead end).
func (s *Supervisor) agentFor(kind models.AgentKind) conversation.Agent {
	if a, ok := s.agents[kind]; ok {
		return a
	}
	return s.agents[models.AgentSales]
}

type agentOutcome struct {
	kind models.AgentKind
	turn *conversation.Turn
}

// runMultiAgent fans the turn out to every registered agent in parallel on
// a scoped conversation id, collects whichever succeed, and synthesizes a
// single reply. Zero successes falls back to a single Sales run; one
// success is returned as-is; more than one goes through LLM synthesis with
// a concatenation fallback.
func (s *Supervisor) runMultiAgent(ctx context.Context, routing models.RoutingDecision, conversationID, queryText string, caller models.CallerIdentity) (*models.TurnResponse, error) {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		succeed []agentOutcome
	)

	for kind, a := range s.agents {
		wg.Add(1)
		go func(kind models.AgentKind, a conversation.Agent) {
			defer wg.Done()
			scopedID := fmt.Sprintf("%s_%s", conversationID, kind)
			turn, err := s.graph.Run(ctx, a, scopedID, queryText, caller)
			if err != nil {
				s.logger.Warn("multi-agent participant failed", "agent", kind, "error", err, "conversation_id", conversationID)
				return
			}
			mu.Lock()
			succeed = append(succeed, agentOutcome{kind: kind, turn: turn})
			mu.Unlock()
		}(kind, a)
	}
	wg.Wait()

	if len(succeed) == 0 {
		return s.runSingleAgent(ctx, models.AgentSales, conversationID, queryText, caller, models.StrategyMultiAgent)
	}
	if len(succeed) == 1 {
		only := succeed[0]
		return &models.TurnResponse{
			ConversationID: conversationID,
			UserMessage:    queryText,
			AIMessage:      only.turn.Response,
			AgentInfo: models.AgentInfo{
				Type:     models.ResponseSupervisorAgent,
				Primary:  only.kind,
				Strategy: models.StrategyMultiAgent,
			},
			ToolErrors: only.turn.State.ToolErrors,
			Timestamp:  time.Now(),
		}, nil
	}

	outputs := make(map[models.AgentKind]string, len(succeed))
	var toolErrors []string
	for _, o := range succeed {
		outputs[o.kind] = o.turn.Response
		toolErrors = append(toolErrors, o.turn.State.ToolErrors...)
	}

	reply := s.synthesize(ctx, queryText, outputs)

	return &models.TurnResponse{
		ConversationID: conversationID,
		UserMessage:    queryText,
		AIMessage:      reply,
		AgentInfo: models.AgentInfo{
			Type:     models.ResponseSupervisorAgent,
			Primary:  routing.Primary,
			Strategy: models.StrategyMultiAgent,
		},
		ToolErrors: toolErrors,
		Timestamp:  time.Now(),
	}, nil
}

const multiAgentSystemPrompt = "You merge independent specialist answers into one coherent response for the original asker."

func (s *Supervisor) synthesize(ctx context.Context, queryText string, outputs map[models.AgentKind]string) string {
	req := &agent.CompletionRequest{
		System: multiAgentSystemPrompt,
		Messages: []agent.CompletionMessage{
			{Role: string(models.RoleUser), Content: buildMultiAgentPrompt(queryText, outputs)},
		},
	}
	msg, err := conversation.RunCompletion(ctx, s.synth, req)
	if err != nil || msg.Content == "" {
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("multi-agent synthesis failed, concatenating per-agent outputs", "error", err)
		}
		return concatenateOutputs(outputs)
	}
	return msg.Content
}
