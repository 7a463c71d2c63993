package graphtools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/haasonsaas/orchestrator/internal/agent"
)

// result is the uniform envelope every tool returns: found plus an
// optional error message. Infrastructure failures surface here rather
// than as a Go error, so the agent can continue the conversation.
type result struct {
	Found bool   `json:"found"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func notFound(msg string) result {
	return result{Found: false, Error: msg}
}

func infraError(err error) result {
	return result{Found: false, Error: err.Error()}
}

func found(data any) result {
	return result{Found: true, Data: data}
}

// runCached executes compute unless a cached result exists for this tool
// call's canonicalized arguments, then stores a fresh result asynchronously
// with the category TTL. Cache errors never fail the call.
func runCached(cache *ToolCache, category Category, toolName string, params json.RawMessage, compute func(ctx context.Context) result) func(ctx context.Context) (*agent.ToolResult, error) {
	return func(ctx context.Context) (*agent.ToolResult, error) {
		rawArgs := string(params)

		if cached, ok := cache.get(toolName, rawArgs); ok {
			return &agent.ToolResult{Content: cached}, nil
		}

		r := compute(ctx)
		payload, err := json.Marshal(r)
		if err != nil {
			return &agent.ToolResult{Content: fmt.Sprintf(`{"found":false,"error":%q}`, err.Error())}, nil
		}

		cache.put(toolName, rawArgs, category, string(payload))
		return &agent.ToolResult{Content: string(payload)}, nil
	}
}

func decodeParams[T any](params json.RawMessage) (T, error) {
	var v T
	err := json.Unmarshal(params, &v)
	return v, err
}

func errorResult(err error) *agent.ToolResult {
	payload, _ := json.Marshal(result{Found: false, Error: err.Error()})
	return &agent.ToolResult{Content: string(payload), IsError: true}
}
