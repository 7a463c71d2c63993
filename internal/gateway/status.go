package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/haasonsaas/orchestrator/pkg/models"
)

// ProviderStatus is one LLM provider's row on the status surface.
type ProviderStatus struct {
	Name      string               `json:"name"`
	Available bool                 `json:"available"`
	Stats     models.ProviderStats `json:"stats"`
}

// ToolRegistryStatus summarizes the Tool Registry for the status surface.
type ToolRegistryStatus struct {
	RegisteredTools int `json:"registered_tools"`
	CacheHits       int64 `json:"cache_hits"`
	CacheMisses     int64 `json:"cache_misses"`
}

// MemoryStatus summarizes the Memory Manager subsystem.
type MemoryStatus struct {
	Enabled      bool `json:"enabled"`
	Backend      string `json:"backend"`
	QueueDepth   int  `json:"queue_depth"`
}

// SessionStoreStatus summarizes the Session/Checkpoint Store.
type SessionStoreStatus struct {
	ActiveConversations int `json:"active_conversations"`
	TotalSessions       int `json:"total_sessions"`
}

// StatusSnapshot is the read-only health surface from spec §6: provider
// table, tool registry status, memory status, session-store statistics,
// and active-conversation count.
type StatusSnapshot struct {
	Providers           []ProviderStatus   `json:"providers"`
	Tools                ToolRegistryStatus `json:"tools"`
	Memory               MemoryStatus       `json:"memory"`
	Sessions             SessionStoreStatus `json:"sessions"`
	ActiveConversations  int                `json:"active_conversations"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var snapshot StatusSnapshot
	if s.status != nil {
		snapshot = s.status.Status(r.Context())
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snapshot)
}
