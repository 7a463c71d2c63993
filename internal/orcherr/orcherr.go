// Package orcherr holds the sentinel errors for the turn-failure taxonomy:
// each kind has a fixed surface behavior, not just a message.
package orcherr

import "errors"

var (
	// ErrAuthenticationMissing means no valid CallerIdentity reached the
	// supervisor. Surfaced as a transport-level rejection.
	ErrAuthenticationMissing = errors.New("authentication missing")

	// ErrSecurityDenied means the Security Filter vetoed the turn outright.
	// No LLM call is made; the caller sees a polite refusal.
	ErrSecurityDenied = errors.New("security filter denied request")

	// ErrNoProvidersAvailable means the LLM Router has no registered
	// provider to try.
	ErrNoProvidersAvailable = errors.New("no llm providers available")

	// ErrAllProvidersFailed means primary and fallback both failed.
	ErrAllProvidersFailed = errors.New("all llm providers failed")

	// ErrSessionConflict means a turn is already in flight on this
	// conversation id. Callers should wait for the in-flight turn and
	// retry, mirroring the "loser blocks until winner completes" rule.
	ErrSessionConflict = errors.New("conflicting turn on conversation")

	// ErrTimeout means a turn exceeded its deadline; a fallback message
	// and partial state are still produced.
	ErrTimeout = errors.New("turn timed out")

	// ErrCancellationRequested means the caller cancelled the turn before
	// completion; no partial memory write, no assistant message.
	ErrCancellationRequested = errors.New("turn cancelled")
)

// ToolInvocationError wraps a recoverable per-call tool failure. These are
// collected into AgentState.ToolErrors rather than surfaced as a turn
// failure.
type ToolInvocationError struct {
	Tool string
	Err  error
}

func (e *ToolInvocationError) Error() string {
	return "tool " + e.Tool + ": " + e.Err.Error()
}

func (e *ToolInvocationError) Unwrap() error { return e.Err }

// MemoryPersistenceError wraps a failed memory write. Callers should log
// and swallow it; it never becomes a visible turn failure.
type MemoryPersistenceError struct {
	Err error
}

func (e *MemoryPersistenceError) Error() string {
	return "memory persistence: " + e.Err.Error()
}

func (e *MemoryPersistenceError) Unwrap() error { return e.Err }
