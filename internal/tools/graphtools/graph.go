package graphtools

import "context"

// Person is a CRM/People record.
type Person struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	Organization string   `json:"organization"`
	Email        string   `json:"email,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// Deal is a CRM sales opportunity.
type Deal struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Stage    string  `json:"stage"`
	Owner    string  `json:"owner"`
	ValueUSD float64 `json:"value_usd"`
}

// Organization is a CRM company record.
type Organization struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Website  string `json:"website,omitempty"`
}

// Project is a Projects/Creative record.
type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ClientID    string   `json:"client_id"`
	Concept     string   `json:"concept"`
	Status      string   `json:"status"`
	Vendors     []string `json:"vendors,omitempty"`
	TeamMembers []string `json:"team_members,omitempty"`
}

// Document is a Document/Content record.
type Document struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

// DataGraph is the entertainment-industry knowledge graph backing every
// tool in this package. Implementations may be backed by a graph database,
// a relational store, or an in-memory fixture — the tool contract only
// depends on this interface.
type DataGraph interface {
	GetPerson(ctx context.Context, id string) (Person, bool, error)
	FindPeopleAtOrganization(ctx context.Context, orgID string) ([]Person, error)
	GetDeal(ctx context.Context, id string) (Deal, bool, error)
	FindCollaborators(ctx context.Context, personID string) ([]Person, error)
	GetOrganization(ctx context.Context, id string) (Organization, bool, error)
	GetNetworkConnections(ctx context.Context, personID string) ([]Person, error)

	GetProject(ctx context.Context, id string) (Project, bool, error)
	FindProjectsByConcept(ctx context.Context, concept string) ([]Project, error)
	FindContributorsOnClientProjects(ctx context.Context, clientID string) ([]Person, error)
	FindSimilarProjects(ctx context.Context, projectID string) ([]Project, error)
	GetCreativeConceptsForProject(ctx context.Context, projectID string) ([]string, error)
	FindCreativeReferences(ctx context.Context, concept string) ([]Project, error)
	SearchProjectsByCriteria(ctx context.Context, criteria map[string]string) ([]Project, error)

	FindDocumentsForProject(ctx context.Context, projectID string) ([]Document, error)
	GetDocument(ctx context.Context, id string) (Document, bool, error)
	SearchDocumentsFullText(ctx context.Context, query string) ([]Document, error)
	SearchDocumentsByContent(ctx context.Context, query string) ([]Document, error)
}

// DealStatusProvider is the optional external CRM integration used by
// get_deal_live_status for hybrid live enrichment. Best-effort: failures
// fall back to the graph-only result.
type DealStatusProvider interface {
	LiveDealStatus(ctx context.Context, dealID string) (stage string, lastActivity string, err error)
}
