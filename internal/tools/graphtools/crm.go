package graphtools

import (
	"context"
	"encoding/json"

	"github.com/haasonsaas/orchestrator/internal/agent"
)

// GetPersonDetailsTool looks up a single CRM/People record by id.
type GetPersonDetailsTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewGetPersonDetailsTool(graph DataGraph, cache *ToolCache) *GetPersonDetailsTool {
	return &GetPersonDetailsTool{graph: graph, cache: cache}
}

func (t *GetPersonDetailsTool) Name() string { return "get_person_details" }
func (t *GetPersonDetailsTool) Description() string {
	return "Looks up a person's CRM profile by id: name, title, organization, contact info."
}
func (t *GetPersonDetailsTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["person_id"],"properties":{"person_id":{"type":"string"}}}`)
}

func (t *GetPersonDetailsTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		PersonID string `json:"person_id"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryCRM, t.Name(), params, func(ctx context.Context) result {
		person, ok, err := t.graph.GetPerson(ctx, input.PersonID)
		if err != nil {
			return infraError(err)
		}
		if !ok {
			return notFound("no person found with that id")
		}
		return found(person)
	})(ctx)
}

// FindPeopleAtOrganizationTool lists CRM/People records at an organization.
type FindPeopleAtOrganizationTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewFindPeopleAtOrganizationTool(graph DataGraph, cache *ToolCache) *FindPeopleAtOrganizationTool {
	return &FindPeopleAtOrganizationTool{graph: graph, cache: cache}
}

func (t *FindPeopleAtOrganizationTool) Name() string { return "find_people_at_organization" }
func (t *FindPeopleAtOrganizationTool) Description() string {
	return "Lists people affiliated with a given organization."
}
func (t *FindPeopleAtOrganizationTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["organization_id"],"properties":{"organization_id":{"type":"string"}}}`)
}

func (t *FindPeopleAtOrganizationTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		OrganizationID string `json:"organization_id"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryCRM, t.Name(), params, func(ctx context.Context) result {
		people, err := t.graph.FindPeopleAtOrganization(ctx, input.OrganizationID)
		if err != nil {
			return infraError(err)
		}
		if len(people) == 0 {
			return notFound("no people found at that organization")
		}
		return found(people)
	})(ctx)
}

// GetDealSourcerTool identifies who sourced a deal.
type GetDealSourcerTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewGetDealSourcerTool(graph DataGraph, cache *ToolCache) *GetDealSourcerTool {
	return &GetDealSourcerTool{graph: graph, cache: cache}
}

func (t *GetDealSourcerTool) Name() string        { return "get_deal_sourcer" }
func (t *GetDealSourcerTool) Description() string { return "Identifies who sourced and owns a CRM deal." }
func (t *GetDealSourcerTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["deal_id"],"properties":{"deal_id":{"type":"string"}}}`)
}

func (t *GetDealSourcerTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		DealID string `json:"deal_id"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryCRM, t.Name(), params, func(ctx context.Context) result {
		deal, ok, err := t.graph.GetDeal(ctx, input.DealID)
		if err != nil {
			return infraError(err)
		}
		if !ok {
			return notFound("no deal found with that id")
		}
		return found(map[string]string{"deal_id": deal.ID, "owner": deal.Owner})
	})(ctx)
}

// GetDealLiveStatusTool is the one hybrid-enrichment tool: it augments the
// graph's deal record with a live CRM provider call, best-effort.
type GetDealLiveStatusTool struct {
	graph    DataGraph
	cache    *ToolCache
	provider DealStatusProvider
}

func NewGetDealLiveStatusTool(graph DataGraph, cache *ToolCache, provider DealStatusProvider) *GetDealLiveStatusTool {
	return &GetDealLiveStatusTool{graph: graph, cache: cache, provider: provider}
}

func (t *GetDealLiveStatusTool) Name() string { return "get_deal_live_status" }
func (t *GetDealLiveStatusTool) Description() string {
	return "Returns a deal's current stage, enriched with live CRM status when available."
}
func (t *GetDealLiveStatusTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["deal_id"],"properties":{"deal_id":{"type":"string"}}}`)
}

func (t *GetDealLiveStatusTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		DealID string `json:"deal_id"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryCRM, t.Name(), params, func(ctx context.Context) result {
		deal, ok, err := t.graph.GetDeal(ctx, input.DealID)
		if err != nil {
			return infraError(err)
		}
		if !ok {
			return notFound("no deal found with that id")
		}

		freshness := "graph_only"
		stage := deal.Stage
		var lastActivity string
		if t.provider != nil {
			if liveStage, activity, err := t.provider.LiveDealStatus(ctx, input.DealID); err == nil {
				stage = liveStage
				lastActivity = activity
				freshness = "live_api_enhanced"
			}
		}

		return found(map[string]any{
			"deal_id":        deal.ID,
			"stage":          stage,
			"last_activity":  lastActivity,
			"data_freshness": freshness,
		})
	})(ctx)
}

// FindCollaboratorsTool finds people who have worked with a given person.
type FindCollaboratorsTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewFindCollaboratorsTool(graph DataGraph, cache *ToolCache) *FindCollaboratorsTool {
	return &FindCollaboratorsTool{graph: graph, cache: cache}
}

func (t *FindCollaboratorsTool) Name() string        { return "find_collaborators" }
func (t *FindCollaboratorsTool) Description() string { return "Finds people who have collaborated with a given person." }
func (t *FindCollaboratorsTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["person_id"],"properties":{"person_id":{"type":"string"}}}`)
}

func (t *FindCollaboratorsTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		PersonID string `json:"person_id"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryCRM, t.Name(), params, func(ctx context.Context) result {
		collaborators, err := t.graph.FindCollaborators(ctx, input.PersonID)
		if err != nil {
			return infraError(err)
		}
		if len(collaborators) == 0 {
			return notFound("no collaborators found for that person")
		}
		return found(collaborators)
	})(ctx)
}

// GetOrganizationProfileTool looks up an organization's CRM profile.
type GetOrganizationProfileTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewGetOrganizationProfileTool(graph DataGraph, cache *ToolCache) *GetOrganizationProfileTool {
	return &GetOrganizationProfileTool{graph: graph, cache: cache}
}

func (t *GetOrganizationProfileTool) Name() string        { return "get_organization_profile" }
func (t *GetOrganizationProfileTool) Description() string { return "Looks up an organization's CRM profile by id." }
func (t *GetOrganizationProfileTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["organization_id"],"properties":{"organization_id":{"type":"string"}}}`)
}

func (t *GetOrganizationProfileTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		OrganizationID string `json:"organization_id"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryOrgs, t.Name(), params, func(ctx context.Context) result {
		org, ok, err := t.graph.GetOrganization(ctx, input.OrganizationID)
		if err != nil {
			return infraError(err)
		}
		if !ok {
			return notFound("no organization found with that id")
		}
		return found(org)
	})(ctx)
}

// GetNetworkConnectionsTool finds a person's broader network connections.
type GetNetworkConnectionsTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewGetNetworkConnectionsTool(graph DataGraph, cache *ToolCache) *GetNetworkConnectionsTool {
	return &GetNetworkConnectionsTool{graph: graph, cache: cache}
}

func (t *GetNetworkConnectionsTool) Name() string        { return "get_network_connections" }
func (t *GetNetworkConnectionsTool) Description() string { return "Finds a person's network connections across the CRM graph." }
func (t *GetNetworkConnectionsTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["person_id"],"properties":{"person_id":{"type":"string"}}}`)
}

func (t *GetNetworkConnectionsTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		PersonID string `json:"person_id"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryCRM, t.Name(), params, func(ctx context.Context) result {
		connections, err := t.graph.GetNetworkConnections(ctx, input.PersonID)
		if err != nil {
			return infraError(err)
		}
		if len(connections) == 0 {
			return notFound("no network connections found")
		}
		return found(connections)
	})(ctx)
}
