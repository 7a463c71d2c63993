package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/haasonsaas/orchestrator/internal/agent"
	"github.com/haasonsaas/orchestrator/internal/config"
	"github.com/haasonsaas/orchestrator/internal/gateway"
	"github.com/haasonsaas/orchestrator/internal/memory"
	"github.com/haasonsaas/orchestrator/internal/sessions"
	"github.com/haasonsaas/orchestrator/internal/tools/graphtools"
	"github.com/haasonsaas/orchestrator/pkg/models"
)

// staticAuthenticator resolves a bearer token to a CallerIdentity from a
// fixed table loaded at startup. There is no token issuance or expiry here
// — rotating a caller's access means editing config and restarting, the
// same tradeoff a small fixed API-key list makes elsewhere in this stack.
type staticAuthenticator struct {
	callers map[string]models.CallerIdentity
}

func newStaticAuthenticator(entries []config.OrchestratorCallerConfig) *staticAuthenticator {
	callers := make(map[string]models.CallerIdentity, len(entries))
	for _, e := range entries {
		perms := make(map[string]struct{}, len(e.Permissions))
		for _, p := range e.Permissions {
			perms[p] = struct{}{}
		}
		callers[e.Token] = models.CallerIdentity{
			UserID:            e.UserID,
			Role:              parseCallerRole(e.Role),
			MaxSensitivity:    parseSensitivityLevel(e.MaxSensitivity),
			PermissionActions: perms,
		}
	}
	return &staticAuthenticator{callers: callers}
}

func (a *staticAuthenticator) Authenticate(ctx context.Context, token string) (models.CallerIdentity, error) {
	caller, ok := a.callers[token]
	if !ok {
		return models.CallerIdentity{}, fmt.Errorf("unrecognized token")
	}
	return caller, nil
}

func parseCallerRole(role string) models.CallerRole {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "leadership":
		return models.RoleLeadership
	case "director":
		return models.RoleDirector
	case "creative_director":
		return models.RoleCreativeDirector
	case "salesperson":
		return models.RoleSalesperson
	default:
		return models.RoleSalesperson
	}
}

func parseSensitivityLevel(level string) models.SensitivityLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "public":
		return models.SensitivityPublic
	case "internal":
		return models.SensitivityInternal
	case "confidential":
		return models.SensitivityConfidential
	case "restricted":
		return models.SensitivityRestricted
	case "secret":
		return models.SensitivitySecret
	case "top_secret":
		return models.SensitivityTopSecret
	default:
		return models.SensitivityPublic
	}
}

// providerStatsSource is the subset of StatsTrackingProvider's surface the
// status endpoint needs; satisfied by *agent.StatsTrackingProvider.
type providerStatsSource interface {
	Name() string
	Stats() models.ProviderStats
}

// orchestratorStatus implements gateway.StatusProvider over the components
// serve wires together.
type orchestratorStatus struct {
	providers   []providerStatsSource
	tools       *agent.ToolRegistry
	toolCache   *graphtools.ToolCache
	memoryCfg   config.OrchestratorMemoryConfig
	memoryMgr   *memory.Manager
	checkpoints *sessions.InMemoryCheckpointStore
}

func (s *orchestratorStatus) Status(ctx context.Context) gateway.StatusSnapshot {
	snapshot := gateway.StatusSnapshot{
		Tools: gateway.ToolRegistryStatus{
			RegisteredTools: s.tools.Len(),
		},
		Memory: gateway.MemoryStatus{
			Enabled: s.memoryCfg.Enabled,
			Backend: s.memoryCfg.Backend,
		},
	}

	if s.memoryMgr != nil {
		snapshot.Memory.QueueDepth = s.memoryMgr.QueueDepth()
	}

	if s.toolCache != nil {
		cacheStats := s.toolCache.Stats()
		snapshot.Tools.CacheHits = int64(cacheStats.Hits)
		snapshot.Tools.CacheMisses = int64(cacheStats.Misses)
	}

	for _, p := range s.providers {
		snapshot.Providers = append(snapshot.Providers, gateway.ProviderStatus{
			Name:      p.Name(),
			Available: true,
			Stats:     p.Stats(),
		})
	}

	if s.checkpoints != nil {
		total := s.checkpoints.Len()
		snapshot.Sessions = gateway.SessionStoreStatus{
			ActiveConversations: total,
			TotalSessions:       total,
		}
		snapshot.ActiveConversations = total
	}

	return snapshot
}
