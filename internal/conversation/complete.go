package conversation

import (
	"context"

	"github.com/haasonsaas/orchestrator/internal/agent"
	"github.com/haasonsaas/orchestrator/pkg/models"
)

// RunCompletion drains a provider's chunk stream into a single assistant
// CompletionMessage. Text chunks concatenate; a chunk's ToolCall (if any)
// accumulates onto the message's ToolCalls in arrival order. Exported so the
// Supervisor's multi-agent synthesis call can reuse the same draining logic.
func RunCompletion(ctx context.Context, provider agent.LLMProvider, req *agent.CompletionRequest) (agent.CompletionMessage, error) {
	stream, err := provider.Complete(ctx, req)
	if err != nil {
		return agent.CompletionMessage{}, err
	}

	msg := agent.CompletionMessage{Role: string(models.RoleAssistant)}
	for chunk := range stream {
		if chunk == nil {
			continue
		}
		if chunk.Error != nil {
			return msg, chunk.Error
		}
		if chunk.Text != "" {
			msg.Content += chunk.Text
		}
		if chunk.ToolCall != nil {
			msg.ToolCalls = append(msg.ToolCalls, *chunk.ToolCall)
		}
		if chunk.Done {
			break
		}
	}
	return msg, nil
}
