package graphtools

import (
	"github.com/haasonsaas/orchestrator/internal/agent"
	"github.com/haasonsaas/orchestrator/internal/infra"
)

// ToolCacheStats reports aggregate hit/miss counters for the read-through
// cache shared by every tool from one Register call.
type ToolCacheStats = infra.CacheStats

// Register wires all 22 CRM/People, Projects/Creative, and Document/Content
// tools into the given registry, backed by graph and (optionally) a live
// deal-status provider for get_deal_live_status. dealProvider may be nil,
// in which case that tool always reports data_freshness "graph_only". The
// returned cache exposes Stats() for the status endpoint.
func Register(registry *agent.ToolRegistry, graph DataGraph, dealProvider DealStatusProvider) *ToolCache {
	cache := newToolCache()

	// CRM / People
	registry.Register(NewGetPersonDetailsTool(graph, cache))
	registry.Register(NewFindPeopleAtOrganizationTool(graph, cache))
	registry.Register(NewGetDealSourcerTool(graph, cache))
	registry.Register(NewGetDealLiveStatusTool(graph, cache, dealProvider))
	registry.Register(NewFindCollaboratorsTool(graph, cache))
	registry.Register(NewGetOrganizationProfileTool(graph, cache))
	registry.Register(NewGetNetworkConnectionsTool(graph, cache))

	// Projects / Creative
	registry.Register(NewGetProjectDetailsTool(graph, cache))
	registry.Register(NewFindProjectsByConceptTool(graph, cache))
	registry.Register(NewFindContributorsOnClientProjectsTool(graph, cache))
	registry.Register(NewGetProjectVendorsTool(graph, cache))
	registry.Register(NewFindSimilarProjectsTool(graph, cache))
	registry.Register(NewGetProjectTeamDetailsTool(graph, cache))
	registry.Register(NewGetCreativeConceptsForProjectTool(graph, cache))
	registry.Register(NewFindCreativeReferencesTool(graph, cache))
	registry.Register(NewSearchProjectsByCriteriaTool(graph, cache))
	registry.Register(NewExtractProjectInsightsTool(graph, cache))

	// Document / Content
	registry.Register(NewFindDocumentsForProjectTool(graph, cache))
	registry.Register(NewGetDocumentProfileDetailsTool(graph, cache))
	registry.Register(NewSearchDocumentsFullTextTool(graph, cache))
	registry.Register(NewSearchDocumentsByContentTool(graph, cache))
	registry.Register(NewGetDocumentByIDTool(graph, cache))

	return cache
}
