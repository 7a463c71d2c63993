package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/haasonsaas/orchestrator/pkg/models"
)

// Store adapts a Manager to the conversation package's narrow MemoryStore
// contract (Load/Save keyed by conversation id), bridging the orchestration
// engine's Memory sum type onto the vector backend's MemoryEntry shape. The
// mapping lives here rather than in Manager so the vector subsystem stays
// usable by callers (hooks, tools) that never touch the Memory type.
type Store struct {
	manager *Manager
}

// NewStore wraps manager. A nil manager makes Store a no-op, matching how
// Graph already treats a nil MemoryStore.
func NewStore(manager *Manager) *Store {
	return &Store{manager: manager}
}

// Load returns every memory indexed under conversationID's session scope.
// The query is intentionally empty: this is a scoped fetch of everything
// recorded for the conversation, not a semantic search, so threshold is
// disabled to avoid dropping entries on embedding-distance grounds alone.
func (s *Store) Load(ctx context.Context, conversationID string) ([]models.Memory, error) {
	if s.manager == nil {
		return nil, nil
	}
	resp, err := s.manager.Search(ctx, &models.SearchRequest{
		Scope:     models.ScopeSession,
		ScopeID:   conversationID,
		Limit:     500,
		Threshold: -1,
	})
	if err != nil {
		return nil, err
	}
	out := make([]models.Memory, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, entryToMemory(r.Entry))
	}
	return out, nil
}

// Save schedules memories for background indexing under conversationID's
// session scope rather than blocking the turn on embedding and store
// latency — the write path spec.md §4.6 describes is per-turn and
// best-effort, and may be deferred. ttl is not separately enforced here:
// the backend has no per-entry expiry, so callers that need hard expiry
// rely on Compact-driven pruning (see Manager.Compact) rather than a
// deadline stamped onto each entry.
func (s *Store) Save(ctx context.Context, conversationID string, memories []models.Memory, ttl time.Duration) error {
	if s.manager == nil || len(memories) == 0 {
		return nil
	}
	entries := make([]*models.MemoryEntry, 0, len(memories))
	for _, m := range memories {
		entries = append(entries, memoryToEntry(conversationID, m))
	}
	if s.manager.EnqueueExtraction(entries) == "" {
		// Queue unavailable (e.g. disabled manager) — fall back to an
		// inline write so Save still has an effect.
		return s.manager.Index(ctx, entries)
	}
	return nil
}

func entryToMemory(e *models.MemoryEntry) models.Memory {
	m := models.Memory{
		ID:                   e.ID,
		Kind:                 models.MemoryEpisodic,
		Importance:           models.ImportanceMedium,
		Content:              e.Content,
		SourceConversationID: e.SessionID,
		Agent:                models.AgentKind(e.AgentID),
		Embedding:            e.Embedding,
		CreatedAt:            e.CreatedAt,
		LastAccess:           e.UpdatedAt,
	}

	extra := e.Metadata.Extra
	if extra == nil {
		return m
	}
	if kind, ok := extra["kind"].(string); ok && kind != "" {
		m.Kind = models.MemoryKind(kind)
	}
	if importance, ok := extra["importance"].(string); ok && importance != "" {
		m.Importance = models.MemoryImportance(importance)
	}
	if factType, ok := extra["fact_type"].(string); ok {
		m.FactType = factType
	}
	if confidence, ok := extra["confidence"].(float64); ok {
		m.Confidence = confidence
	}
	if topics, ok := extra["topics"].([]string); ok {
		m.Topics = topics
	}
	if trigger, ok := extra["trigger"].(string); ok {
		m.Trigger = trigger
	}
	if action, ok := extra["action"].(string); ok {
		m.Action = action
	}
	if successRate, ok := extra["success_rate"].(float64); ok {
		m.SuccessRate = successRate
	}
	if usageCount, ok := extra["usage_count"].(int64); ok {
		m.UsageCount = usageCount
	}
	return m
}

func memoryToEntry(conversationID string, m models.Memory) *models.MemoryEntry {
	id := m.ID
	if id == "" {
		id = uuid.NewString()
	}

	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	updatedAt := m.LastAccess
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	extra := map[string]any{
		"kind":       string(m.Kind),
		"importance": string(m.Importance),
	}
	if m.FactType != "" {
		extra["fact_type"] = m.FactType
	}
	if m.Confidence != 0 {
		extra["confidence"] = m.Confidence
	}
	if len(m.Topics) > 0 {
		extra["topics"] = m.Topics
	}
	if m.Trigger != "" {
		extra["trigger"] = m.Trigger
	}
	if m.Action != "" {
		extra["action"] = m.Action
	}
	if m.SuccessRate != 0 {
		extra["success_rate"] = m.SuccessRate
	}
	if m.UsageCount != 0 {
		extra["usage_count"] = m.UsageCount
	}

	return &models.MemoryEntry{
		ID:        id,
		SessionID: conversationID,
		AgentID:   string(m.Agent),
		Content:   m.Content,
		Metadata: models.MemoryMetadata{
			Source: "conversation",
			Role:   "assistant",
			Tags:   []string{string(m.Kind)},
			Extra:  extra,
		},
		Embedding: m.Embedding,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}
