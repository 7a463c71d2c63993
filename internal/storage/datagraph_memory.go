package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/haasonsaas/orchestrator/internal/tools/graphtools"
)

// MemoryDataGraph is an in-memory graphtools.DataGraph fixture: useful for
// doctor checks, local bring-up, and tests that don't want a live Postgres
// connection. It holds plain maps behind a single RWMutex, same shape as
// the other Memory*Store types in this package.
type MemoryDataGraph struct {
	mu            sync.RWMutex
	people        map[string]graphtools.Person
	deals         map[string]graphtools.Deal
	organizations map[string]graphtools.Organization
	projects      map[string]graphtools.Project
	documents     map[string]graphtools.Document
}

// NewMemoryDataGraph creates an empty graph fixture.
func NewMemoryDataGraph() *MemoryDataGraph {
	return &MemoryDataGraph{
		people:        make(map[string]graphtools.Person),
		deals:         make(map[string]graphtools.Deal),
		organizations: make(map[string]graphtools.Organization),
		projects:      make(map[string]graphtools.Project),
		documents:     make(map[string]graphtools.Document),
	}
}

// SeedPerson, SeedDeal, SeedOrganization, SeedProject, and SeedDocument load
// fixture rows; callers typically use these once at startup before serving
// any tool calls.
func (g *MemoryDataGraph) SeedPerson(p graphtools.Person) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.people[p.ID] = p
}

func (g *MemoryDataGraph) SeedDeal(d graphtools.Deal) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deals[d.ID] = d
}

func (g *MemoryDataGraph) SeedOrganization(o graphtools.Organization) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.organizations[o.ID] = o
}

func (g *MemoryDataGraph) SeedProject(p graphtools.Project) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.projects[p.ID] = p
}

func (g *MemoryDataGraph) SeedDocument(d graphtools.Document) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.documents[d.ID] = d
}

func (g *MemoryDataGraph) GetPerson(ctx context.Context, id string) (graphtools.Person, bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.people[id]
	return p, ok, nil
}

func (g *MemoryDataGraph) FindPeopleAtOrganization(ctx context.Context, orgID string) ([]graphtools.Person, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]graphtools.Person, 0)
	for _, p := range g.people {
		if p.Organization == orgID {
			out = append(out, p)
		}
	}
	sortPeople(out)
	return out, nil
}

func (g *MemoryDataGraph) GetDeal(ctx context.Context, id string) (graphtools.Deal, bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	d, ok := g.deals[id]
	return d, ok, nil
}

func (g *MemoryDataGraph) FindCollaborators(ctx context.Context, personID string) ([]graphtools.Person, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	seen := make(map[string]struct{})
	out := make([]graphtools.Person, 0)
	for _, pr := range g.projects {
		if !containsString(pr.TeamMembers, personID) {
			continue
		}
		for _, memberID := range pr.TeamMembers {
			if memberID == personID {
				continue
			}
			if _, ok := seen[memberID]; ok {
				continue
			}
			if p, ok := g.people[memberID]; ok {
				seen[memberID] = struct{}{}
				out = append(out, p)
			}
		}
	}
	sortPeople(out)
	return out, nil
}

func (g *MemoryDataGraph) GetOrganization(ctx context.Context, id string) (graphtools.Organization, bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	o, ok := g.organizations[id]
	return o, ok, nil
}

func (g *MemoryDataGraph) GetNetworkConnections(ctx context.Context, personID string) ([]graphtools.Person, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	subject, ok := g.people[personID]
	if !ok {
		return nil, nil
	}
	out := make([]graphtools.Person, 0)
	for id, p := range g.people {
		if id == personID || p.Organization != subject.Organization {
			continue
		}
		out = append(out, p)
	}
	sortPeople(out)
	return out, nil
}

func (g *MemoryDataGraph) GetProject(ctx context.Context, id string) (graphtools.Project, bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.projects[id]
	return p, ok, nil
}

func (g *MemoryDataGraph) FindProjectsByConcept(ctx context.Context, concept string) ([]graphtools.Project, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	needle := strings.ToLower(concept)
	out := make([]graphtools.Project, 0)
	for _, p := range g.projects {
		if strings.Contains(strings.ToLower(p.Concept), needle) {
			out = append(out, p)
		}
	}
	sortProjects(out)
	return out, nil
}

func (g *MemoryDataGraph) FindContributorsOnClientProjects(ctx context.Context, clientID string) ([]graphtools.Person, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	seen := make(map[string]struct{})
	out := make([]graphtools.Person, 0)
	for _, pr := range g.projects {
		if pr.ClientID != clientID {
			continue
		}
		for _, memberID := range pr.TeamMembers {
			if _, ok := seen[memberID]; ok {
				continue
			}
			if p, ok := g.people[memberID]; ok {
				seen[memberID] = struct{}{}
				out = append(out, p)
			}
		}
	}
	sortPeople(out)
	return out, nil
}

func (g *MemoryDataGraph) FindSimilarProjects(ctx context.Context, projectID string) ([]graphtools.Project, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	subject, ok := g.projects[projectID]
	if !ok {
		return nil, nil
	}
	out := make([]graphtools.Project, 0)
	for id, p := range g.projects {
		if id == projectID || p.Concept != subject.Concept {
			continue
		}
		out = append(out, p)
	}
	sortProjects(out)
	return out, nil
}

func (g *MemoryDataGraph) GetCreativeConceptsForProject(ctx context.Context, projectID string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.projects[projectID]
	if !ok || p.Concept == "" {
		return nil, nil
	}
	parts := strings.Split(p.Concept, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

func (g *MemoryDataGraph) FindCreativeReferences(ctx context.Context, concept string) ([]graphtools.Project, error) {
	return g.FindProjectsByConcept(ctx, concept)
}

func (g *MemoryDataGraph) SearchProjectsByCriteria(ctx context.Context, criteria map[string]string) ([]graphtools.Project, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]graphtools.Project, 0)
	for _, p := range g.projects {
		if matches, ok := criteria["status"]; ok && matches != p.Status {
			continue
		}
		if matches, ok := criteria["client_id"]; ok && matches != p.ClientID {
			continue
		}
		if matches, ok := criteria["concept"]; ok && matches != p.Concept {
			continue
		}
		out = append(out, p)
	}
	sortProjects(out)
	return out, nil
}

func (g *MemoryDataGraph) FindDocumentsForProject(ctx context.Context, projectID string) ([]graphtools.Document, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]graphtools.Document, 0)
	for _, d := range g.documents {
		if d.ProjectID == projectID {
			out = append(out, d)
		}
	}
	sortDocuments(out)
	return out, nil
}

func (g *MemoryDataGraph) GetDocument(ctx context.Context, id string) (graphtools.Document, bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	d, ok := g.documents[id]
	return d, ok, nil
}

func (g *MemoryDataGraph) SearchDocumentsFullText(ctx context.Context, query string) ([]graphtools.Document, error) {
	return g.SearchDocumentsByContent(ctx, query)
}

func (g *MemoryDataGraph) SearchDocumentsByContent(ctx context.Context, query string) ([]graphtools.Document, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	needle := strings.ToLower(query)
	out := make([]graphtools.Document, 0)
	for _, d := range g.documents {
		if strings.Contains(strings.ToLower(d.Content), needle) || strings.Contains(strings.ToLower(d.Title), needle) {
			out = append(out, d)
		}
	}
	sortDocuments(out)
	return out, nil
}

func containsString(ss []string, target string) bool {
	for _, s := range ss {
		if s == target {
			return true
		}
	}
	return false
}

func sortPeople(people []graphtools.Person) {
	sort.Slice(people, func(i, j int) bool { return people[i].Name < people[j].Name })
}

func sortProjects(projects []graphtools.Project) {
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
}

func sortDocuments(documents []graphtools.Document) {
	sort.Slice(documents, func(i, j int) bool { return documents[i].Title < documents[j].Title })
}
