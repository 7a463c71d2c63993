package graphtools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/haasonsaas/orchestrator/internal/agent"
)

// GetProjectDetailsTool looks up a single project by id.
type GetProjectDetailsTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewGetProjectDetailsTool(graph DataGraph, cache *ToolCache) *GetProjectDetailsTool {
	return &GetProjectDetailsTool{graph: graph, cache: cache}
}

func (t *GetProjectDetailsTool) Name() string        { return "get_project_details" }
func (t *GetProjectDetailsTool) Description() string { return "Looks up a creative project's details by id." }
func (t *GetProjectDetailsTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["project_id"],"properties":{"project_id":{"type":"string"}}}`)
}

func (t *GetProjectDetailsTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		ProjectID string `json:"project_id"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryProjects, t.Name(), params, func(ctx context.Context) result {
		project, ok, err := t.graph.GetProject(ctx, input.ProjectID)
		if err != nil {
			return infraError(err)
		}
		if !ok {
			return notFound("no project found with that id")
		}
		return found(project)
	})(ctx)
}

// FindProjectsByConceptTool finds projects matching a creative concept.
type FindProjectsByConceptTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewFindProjectsByConceptTool(graph DataGraph, cache *ToolCache) *FindProjectsByConceptTool {
	return &FindProjectsByConceptTool{graph: graph, cache: cache}
}

func (t *FindProjectsByConceptTool) Name() string        { return "find_projects_by_concept" }
func (t *FindProjectsByConceptTool) Description() string { return "Finds projects matching a given creative concept." }
func (t *FindProjectsByConceptTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["concept"],"properties":{"concept":{"type":"string"}}}`)
}

func (t *FindProjectsByConceptTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		Concept string `json:"concept"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryProjects, t.Name(), params, func(ctx context.Context) result {
		projects, err := t.graph.FindProjectsByConcept(ctx, input.Concept)
		if err != nil {
			return infraError(err)
		}
		if len(projects) == 0 {
			return notFound("no projects found for that concept")
		}
		return found(projects)
	})(ctx)
}

// FindContributorsOnClientProjectsTool finds people who have contributed to
// a client's projects.
type FindContributorsOnClientProjectsTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewFindContributorsOnClientProjectsTool(graph DataGraph, cache *ToolCache) *FindContributorsOnClientProjectsTool {
	return &FindContributorsOnClientProjectsTool{graph: graph, cache: cache}
}

func (t *FindContributorsOnClientProjectsTool) Name() string {
	return "find_contributors_on_client_projects"
}
func (t *FindContributorsOnClientProjectsTool) Description() string {
	return "Finds people who have contributed to a client's projects."
}
func (t *FindContributorsOnClientProjectsTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["client_id"],"properties":{"client_id":{"type":"string"}}}`)
}

func (t *FindContributorsOnClientProjectsTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		ClientID string `json:"client_id"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryProjects, t.Name(), params, func(ctx context.Context) result {
		people, err := t.graph.FindContributorsOnClientProjects(ctx, input.ClientID)
		if err != nil {
			return infraError(err)
		}
		if len(people) == 0 {
			return notFound("no contributors found for that client")
		}
		return found(people)
	})(ctx)
}

// GetProjectVendorsTool lists a project's vendors.
type GetProjectVendorsTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewGetProjectVendorsTool(graph DataGraph, cache *ToolCache) *GetProjectVendorsTool {
	return &GetProjectVendorsTool{graph: graph, cache: cache}
}

func (t *GetProjectVendorsTool) Name() string        { return "get_project_vendors" }
func (t *GetProjectVendorsTool) Description() string { return "Lists the vendors engaged on a project." }
func (t *GetProjectVendorsTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["project_id"],"properties":{"project_id":{"type":"string"}}}`)
}

func (t *GetProjectVendorsTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		ProjectID string `json:"project_id"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryProjects, t.Name(), params, func(ctx context.Context) result {
		project, ok, err := t.graph.GetProject(ctx, input.ProjectID)
		if err != nil {
			return infraError(err)
		}
		if !ok {
			return notFound("no project found with that id")
		}
		if len(project.Vendors) == 0 {
			return notFound("no vendors recorded for that project")
		}
		return found(project.Vendors)
	})(ctx)
}

// FindSimilarProjectsTool finds projects similar to a given one.
type FindSimilarProjectsTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewFindSimilarProjectsTool(graph DataGraph, cache *ToolCache) *FindSimilarProjectsTool {
	return &FindSimilarProjectsTool{graph: graph, cache: cache}
}

func (t *FindSimilarProjectsTool) Name() string        { return "find_similar_projects" }
func (t *FindSimilarProjectsTool) Description() string { return "Finds projects similar to a given project." }
func (t *FindSimilarProjectsTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["project_id"],"properties":{"project_id":{"type":"string"}}}`)
}

func (t *FindSimilarProjectsTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		ProjectID string `json:"project_id"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryProjects, t.Name(), params, func(ctx context.Context) result {
		projects, err := t.graph.FindSimilarProjects(ctx, input.ProjectID)
		if err != nil {
			return infraError(err)
		}
		if len(projects) == 0 {
			return notFound("no similar projects found")
		}
		return found(projects)
	})(ctx)
}

// GetProjectTeamDetailsTool lists a project's team members.
type GetProjectTeamDetailsTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewGetProjectTeamDetailsTool(graph DataGraph, cache *ToolCache) *GetProjectTeamDetailsTool {
	return &GetProjectTeamDetailsTool{graph: graph, cache: cache}
}

func (t *GetProjectTeamDetailsTool) Name() string        { return "get_project_team_details" }
func (t *GetProjectTeamDetailsTool) Description() string { return "Lists a project's team members." }
func (t *GetProjectTeamDetailsTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["project_id"],"properties":{"project_id":{"type":"string"}}}`)
}

func (t *GetProjectTeamDetailsTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		ProjectID string `json:"project_id"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryProjects, t.Name(), params, func(ctx context.Context) result {
		project, ok, err := t.graph.GetProject(ctx, input.ProjectID)
		if err != nil {
			return infraError(err)
		}
		if !ok {
			return notFound("no project found with that id")
		}
		if len(project.TeamMembers) == 0 {
			return notFound("no team members recorded for that project")
		}
		return found(project.TeamMembers)
	})(ctx)
}

// GetCreativeConceptsForProjectTool lists the creative concepts tagged on a
// project.
type GetCreativeConceptsForProjectTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewGetCreativeConceptsForProjectTool(graph DataGraph, cache *ToolCache) *GetCreativeConceptsForProjectTool {
	return &GetCreativeConceptsForProjectTool{graph: graph, cache: cache}
}

func (t *GetCreativeConceptsForProjectTool) Name() string {
	return "get_creative_concepts_for_project"
}
func (t *GetCreativeConceptsForProjectTool) Description() string {
	return "Lists the creative concepts associated with a project."
}
func (t *GetCreativeConceptsForProjectTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["project_id"],"properties":{"project_id":{"type":"string"}}}`)
}

func (t *GetCreativeConceptsForProjectTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		ProjectID string `json:"project_id"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryProjects, t.Name(), params, func(ctx context.Context) result {
		concepts, err := t.graph.GetCreativeConceptsForProject(ctx, input.ProjectID)
		if err != nil {
			return infraError(err)
		}
		if len(concepts) == 0 {
			return notFound("no creative concepts recorded for that project")
		}
		return found(concepts)
	})(ctx)
}

// FindCreativeReferencesTool finds past projects used as a creative
// reference for a concept.
type FindCreativeReferencesTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewFindCreativeReferencesTool(graph DataGraph, cache *ToolCache) *FindCreativeReferencesTool {
	return &FindCreativeReferencesTool{graph: graph, cache: cache}
}

func (t *FindCreativeReferencesTool) Name() string        { return "find_creative_references" }
func (t *FindCreativeReferencesTool) Description() string { return "Finds past projects that serve as creative references for a concept." }
func (t *FindCreativeReferencesTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["concept"],"properties":{"concept":{"type":"string"}}}`)
}

func (t *FindCreativeReferencesTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		Concept string `json:"concept"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryProjects, t.Name(), params, func(ctx context.Context) result {
		projects, err := t.graph.FindCreativeReferences(ctx, input.Concept)
		if err != nil {
			return infraError(err)
		}
		if len(projects) == 0 {
			return notFound("no creative references found for that concept")
		}
		return found(projects)
	})(ctx)
}

// SearchProjectsByCriteriaTool searches projects by an arbitrary set of
// field/value criteria.
type SearchProjectsByCriteriaTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewSearchProjectsByCriteriaTool(graph DataGraph, cache *ToolCache) *SearchProjectsByCriteriaTool {
	return &SearchProjectsByCriteriaTool{graph: graph, cache: cache}
}

func (t *SearchProjectsByCriteriaTool) Name() string        { return "search_projects_by_criteria" }
func (t *SearchProjectsByCriteriaTool) Description() string { return "Searches projects by a set of field/value criteria." }
func (t *SearchProjectsByCriteriaTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["criteria"],"properties":{"criteria":{"type":"object","additionalProperties":{"type":"string"}}}}`)
}

func (t *SearchProjectsByCriteriaTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		Criteria map[string]string `json:"criteria"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryProjects, t.Name(), params, func(ctx context.Context) result {
		projects, err := t.graph.SearchProjectsByCriteria(ctx, input.Criteria)
		if err != nil {
			return infraError(err)
		}
		if len(projects) == 0 {
			return notFound("no projects matched that criteria")
		}
		return found(projects)
	})(ctx)
}

// ExtractProjectInsightsTool derives a lightweight summary of a project's
// concept, status, and vendor/team footprint. It is the one tool in this
// package that transforms the graph record rather than just returning it.
type ExtractProjectInsightsTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewExtractProjectInsightsTool(graph DataGraph, cache *ToolCache) *ExtractProjectInsightsTool {
	return &ExtractProjectInsightsTool{graph: graph, cache: cache}
}

func (t *ExtractProjectInsightsTool) Name() string        { return "extract_project_insights" }
func (t *ExtractProjectInsightsTool) Description() string { return "Summarizes a project's concept, status, vendors, and team footprint." }
func (t *ExtractProjectInsightsTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["project_id"],"properties":{"project_id":{"type":"string"}}}`)
}

func (t *ExtractProjectInsightsTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		ProjectID string `json:"project_id"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryProjects, t.Name(), params, func(ctx context.Context) result {
		project, ok, err := t.graph.GetProject(ctx, input.ProjectID)
		if err != nil {
			return infraError(err)
		}
		if !ok {
			return notFound("no project found with that id")
		}
		insights := map[string]any{
			"project_id":   project.ID,
			"concept":      project.Concept,
			"status":       project.Status,
			"vendor_count": len(project.Vendors),
			"team_size":    len(project.TeamMembers),
			"summary":      strings.TrimSpace(project.Name + " — " + project.Concept + " (" + project.Status + ")"),
		}
		return found(insights)
	})(ctx)
}
