package agent

import (
	"context"
	"sync"
	"time"

	"github.com/haasonsaas/orchestrator/pkg/models"
)

// StatsTrackingProvider decorates an LLMProvider, recording call latency and
// outcome into a models.ProviderStats the Router's failover/health logic and
// any observability surface can read. Wrap each concrete provider with one
// of these before registering it with a Router, so stats are attributed to
// the provider that actually ran, not to the Router itself.
type StatsTrackingProvider struct {
	inner LLMProvider

	mu    sync.Mutex
	stats models.ProviderStats
}

// NewStatsTrackingProvider wraps inner.
func NewStatsTrackingProvider(inner LLMProvider) *StatsTrackingProvider {
	return &StatsTrackingProvider{inner: inner}
}

// Complete delegates to inner, timing the call and recording its outcome.
// Latency covers the call returning (the stream being handed back), not the
// full stream drain — the Router decides on that signal, before any chunk
// has necessarily arrived.
func (s *StatsTrackingProvider) Complete(ctx context.Context, req *CompletionRequest) (<-chan *CompletionChunk, error) {
	start := time.Now()
	ch, err := s.inner.Complete(ctx, req)
	s.mu.Lock()
	s.stats.Observe(time.Since(start), err != nil)
	s.mu.Unlock()
	return ch, err
}

func (s *StatsTrackingProvider) Name() string        { return s.inner.Name() }
func (s *StatsTrackingProvider) Models() []Model     { return s.inner.Models() }
func (s *StatsTrackingProvider) SupportsTools() bool { return s.inner.SupportsTools() }

// Stats returns a snapshot of this provider's rolling call statistics.
func (s *StatsTrackingProvider) Stats() models.ProviderStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
