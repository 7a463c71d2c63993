package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/haasonsaas/orchestrator/internal/tools/graphtools"
)

// NewPostgresDataGraph opens a graphtools.DataGraph backed by the entertainment
// knowledge graph tables (people, deals, organizations, projects, documents)
// in a CockroachDB/Postgres database reachable at dsn. It follows the same
// sql.Open/ping/pool-config shape as NewCockroachStoresFromDSN.
func NewPostgresDataGraph(dsn string, config *CockroachConfig) (*PostgresDataGraph, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	if config == nil {
		config = DefaultCockroachConfig()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), config.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresDataGraph{db: db}, nil
}

// PostgresDataGraph is a graphtools.DataGraph over a relational schema: the
// entertainment-industry graph is modeled as plain tables with foreign keys
// (projects.client_id -> organizations.id, documents.project_id ->
// projects.id) rather than a native graph store, following the rest of this
// package's CockroachDB-first storage convention.
type PostgresDataGraph struct {
	db *sql.DB
}

// Close releases the underlying connection pool.
func (g *PostgresDataGraph) Close() error {
	return g.db.Close()
}

func (g *PostgresDataGraph) GetPerson(ctx context.Context, id string) (graphtools.Person, bool, error) {
	row := g.db.QueryRowContext(ctx,
		`SELECT id, name, title, organization, email, tags FROM people WHERE id = $1`, id)
	p, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return graphtools.Person{}, false, nil
	}
	if err != nil {
		return graphtools.Person{}, false, fmt.Errorf("get person: %w", err)
	}
	return p, true, nil
}

func (g *PostgresDataGraph) FindPeopleAtOrganization(ctx context.Context, orgID string) ([]graphtools.Person, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT id, name, title, organization, email, tags FROM people WHERE organization = $1 ORDER BY name`, orgID)
	if err != nil {
		return nil, fmt.Errorf("find people at organization: %w", err)
	}
	return scanPeople(rows)
}

func (g *PostgresDataGraph) GetDeal(ctx context.Context, id string) (graphtools.Deal, bool, error) {
	row := g.db.QueryRowContext(ctx,
		`SELECT id, name, stage, owner, value_usd FROM deals WHERE id = $1`, id)
	var d graphtools.Deal
	err := row.Scan(&d.ID, &d.Name, &d.Stage, &d.Owner, &d.ValueUSD)
	if err == sql.ErrNoRows {
		return graphtools.Deal{}, false, nil
	}
	if err != nil {
		return graphtools.Deal{}, false, fmt.Errorf("get deal: %w", err)
	}
	return d, true, nil
}

// FindCollaborators returns the people who share a project team membership
// with personID, via the projects.team_members array column.
func (g *PostgresDataGraph) FindCollaborators(ctx context.Context, personID string) ([]graphtools.Person, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT DISTINCT p.id, p.name, p.title, p.organization, p.email, p.tags
		 FROM people p
		 JOIN projects pr ON p.id = ANY(pr.team_members)
		 WHERE $1 = ANY(pr.team_members) AND p.id != $1
		 ORDER BY p.name`, personID)
	if err != nil {
		return nil, fmt.Errorf("find collaborators: %w", err)
	}
	return scanPeople(rows)
}

func (g *PostgresDataGraph) GetOrganization(ctx context.Context, id string) (graphtools.Organization, bool, error) {
	row := g.db.QueryRowContext(ctx,
		`SELECT id, name, industry, website FROM organizations WHERE id = $1`, id)
	var o graphtools.Organization
	err := row.Scan(&o.ID, &o.Name, &o.Industry, &o.Website)
	if err == sql.ErrNoRows {
		return graphtools.Organization{}, false, nil
	}
	if err != nil {
		return graphtools.Organization{}, false, fmt.Errorf("get organization: %w", err)
	}
	return o, true, nil
}

// GetNetworkConnections returns people at the same organization as personID,
// the closest first-degree network signal the relational schema supports.
func (g *PostgresDataGraph) GetNetworkConnections(ctx context.Context, personID string) ([]graphtools.Person, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT id, name, title, organization, email, tags
		 FROM people
		 WHERE organization = (SELECT organization FROM people WHERE id = $1) AND id != $1
		 ORDER BY name`, personID)
	if err != nil {
		return nil, fmt.Errorf("get network connections: %w", err)
	}
	return scanPeople(rows)
}

func (g *PostgresDataGraph) GetProject(ctx context.Context, id string) (graphtools.Project, bool, error) {
	row := g.db.QueryRowContext(ctx,
		`SELECT id, name, client_id, concept, status, vendors, team_members FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return graphtools.Project{}, false, nil
	}
	if err != nil {
		return graphtools.Project{}, false, fmt.Errorf("get project: %w", err)
	}
	return p, true, nil
}

func (g *PostgresDataGraph) FindProjectsByConcept(ctx context.Context, concept string) ([]graphtools.Project, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT id, name, client_id, concept, status, vendors, team_members
		 FROM projects WHERE concept ILIKE $1 ORDER BY name`, "%"+concept+"%")
	if err != nil {
		return nil, fmt.Errorf("find projects by concept: %w", err)
	}
	return scanProjects(rows)
}

func (g *PostgresDataGraph) FindContributorsOnClientProjects(ctx context.Context, clientID string) ([]graphtools.Person, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT DISTINCT p.id, p.name, p.title, p.organization, p.email, p.tags
		 FROM people p
		 JOIN projects pr ON p.id = ANY(pr.team_members)
		 WHERE pr.client_id = $1
		 ORDER BY p.name`, clientID)
	if err != nil {
		return nil, fmt.Errorf("find contributors on client projects: %w", err)
	}
	return scanPeople(rows)
}

// FindSimilarProjects returns other projects sharing projectID's concept.
func (g *PostgresDataGraph) FindSimilarProjects(ctx context.Context, projectID string) ([]graphtools.Project, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT id, name, client_id, concept, status, vendors, team_members
		 FROM projects
		 WHERE concept = (SELECT concept FROM projects WHERE id = $1) AND id != $1
		 ORDER BY name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("find similar projects: %w", err)
	}
	return scanProjects(rows)
}

func (g *PostgresDataGraph) GetCreativeConceptsForProject(ctx context.Context, projectID string) ([]string, error) {
	var concept string
	err := g.db.QueryRowContext(ctx, `SELECT concept FROM projects WHERE id = $1`, projectID).Scan(&concept)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get creative concepts for project: %w", err)
	}
	if concept == "" {
		return nil, nil
	}
	parts := strings.Split(concept, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

func (g *PostgresDataGraph) FindCreativeReferences(ctx context.Context, concept string) ([]graphtools.Project, error) {
	return g.FindProjectsByConcept(ctx, concept)
}

// SearchProjectsByCriteria builds a WHERE clause over the columns present in
// criteria (status, client_id, concept); unrecognized keys are ignored.
func (g *PostgresDataGraph) SearchProjectsByCriteria(ctx context.Context, criteria map[string]string) ([]graphtools.Project, error) {
	allowed := map[string]string{
		"status":    "status",
		"client_id": "client_id",
		"concept":   "concept",
	}

	var clauses []string
	var args []any
	i := 1
	for key, column := range allowed {
		val, ok := criteria[key]
		if !ok || val == "" {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, i))
		args = append(args, val)
		i++
	}

	query := `SELECT id, name, client_id, concept, status, vendors, team_members FROM projects`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY name"

	rows, err := g.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search projects by criteria: %w", err)
	}
	return scanProjects(rows)
}

func (g *PostgresDataGraph) FindDocumentsForProject(ctx context.Context, projectID string) ([]graphtools.Document, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT id, project_id, title, content FROM documents WHERE project_id = $1 ORDER BY title`, projectID)
	if err != nil {
		return nil, fmt.Errorf("find documents for project: %w", err)
	}
	return scanDocuments(rows)
}

func (g *PostgresDataGraph) GetDocument(ctx context.Context, id string) (graphtools.Document, bool, error) {
	row := g.db.QueryRowContext(ctx,
		`SELECT id, project_id, title, content FROM documents WHERE id = $1`, id)
	var d graphtools.Document
	err := row.Scan(&d.ID, &d.ProjectID, &d.Title, &d.Content)
	if err == sql.ErrNoRows {
		return graphtools.Document{}, false, nil
	}
	if err != nil {
		return graphtools.Document{}, false, fmt.Errorf("get document: %w", err)
	}
	return d, true, nil
}

func (g *PostgresDataGraph) SearchDocumentsFullText(ctx context.Context, query string) ([]graphtools.Document, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT id, project_id, title, content
		 FROM documents
		 WHERE to_tsvector('english', content) @@ plainto_tsquery('english', $1)
		 ORDER BY title`, query)
	if err != nil {
		return nil, fmt.Errorf("search documents full text: %w", err)
	}
	return scanDocuments(rows)
}

func (g *PostgresDataGraph) SearchDocumentsByContent(ctx context.Context, query string) ([]graphtools.Document, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT id, project_id, title, content FROM documents WHERE content ILIKE $1 ORDER BY title`,
		"%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("search documents by content: %w", err)
	}
	return scanDocuments(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (graphtools.Person, error) {
	var p graphtools.Person
	var email sql.NullString
	var tags []string
	if err := row.Scan(&p.ID, &p.Name, &p.Title, &p.Organization, &email, pq.Array(&tags)); err != nil {
		return graphtools.Person{}, err
	}
	p.Email = email.String
	p.Tags = tags
	return p, nil
}

func scanPeople(rows *sql.Rows) ([]graphtools.Person, error) {
	defer rows.Close()
	out := make([]graphtools.Person, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanProject(row rowScanner) (graphtools.Project, error) {
	var p graphtools.Project
	var vendors, team []string
	if err := row.Scan(&p.ID, &p.Name, &p.ClientID, &p.Concept, &p.Status, pq.Array(&vendors), pq.Array(&team)); err != nil {
		return graphtools.Project{}, err
	}
	p.Vendors = vendors
	p.TeamMembers = team
	return p, nil
}

func scanProjects(rows *sql.Rows) ([]graphtools.Project, error) {
	defer rows.Close()
	out := make([]graphtools.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanDocuments(rows *sql.Rows) ([]graphtools.Document, error) {
	defer rows.Close()
	out := make([]graphtools.Document, 0)
	for rows.Next() {
		var d graphtools.Document
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.Title, &d.Content); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
