package graphtools

import (
	"context"
	"encoding/json"

	"github.com/haasonsaas/orchestrator/internal/agent"
)

// FindDocumentsForProjectTool lists documents attached to a project.
type FindDocumentsForProjectTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewFindDocumentsForProjectTool(graph DataGraph, cache *ToolCache) *FindDocumentsForProjectTool {
	return &FindDocumentsForProjectTool{graph: graph, cache: cache}
}

func (t *FindDocumentsForProjectTool) Name() string        { return "find_documents_for_project" }
func (t *FindDocumentsForProjectTool) Description() string { return "Lists documents attached to a project." }
func (t *FindDocumentsForProjectTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["project_id"],"properties":{"project_id":{"type":"string"}}}`)
}

func (t *FindDocumentsForProjectTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		ProjectID string `json:"project_id"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryDocuments, t.Name(), params, func(ctx context.Context) result {
		docs, err := t.graph.FindDocumentsForProject(ctx, input.ProjectID)
		if err != nil {
			return infraError(err)
		}
		if len(docs) == 0 {
			return notFound("no documents found for that project")
		}
		return found(docs)
	})(ctx)
}

// GetDocumentProfileDetailsTool returns a document's metadata (without
// full content) by id.
type GetDocumentProfileDetailsTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewGetDocumentProfileDetailsTool(graph DataGraph, cache *ToolCache) *GetDocumentProfileDetailsTool {
	return &GetDocumentProfileDetailsTool{graph: graph, cache: cache}
}

func (t *GetDocumentProfileDetailsTool) Name() string { return "get_document_profile_details" }
func (t *GetDocumentProfileDetailsTool) Description() string {
	return "Returns a document's title and project association by id."
}
func (t *GetDocumentProfileDetailsTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["document_id"],"properties":{"document_id":{"type":"string"}}}`)
}

func (t *GetDocumentProfileDetailsTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		DocumentID string `json:"document_id"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryDocuments, t.Name(), params, func(ctx context.Context) result {
		doc, ok, err := t.graph.GetDocument(ctx, input.DocumentID)
		if err != nil {
			return infraError(err)
		}
		if !ok {
			return notFound("no document found with that id")
		}
		return found(map[string]string{
			"id":         doc.ID,
			"project_id": doc.ProjectID,
			"title":      doc.Title,
		})
	})(ctx)
}

// SearchDocumentsFullTextTool searches document content and returns
// snippets centered on the matching query terms.
type SearchDocumentsFullTextTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewSearchDocumentsFullTextTool(graph DataGraph, cache *ToolCache) *SearchDocumentsFullTextTool {
	return &SearchDocumentsFullTextTool{graph: graph, cache: cache}
}

func (t *SearchDocumentsFullTextTool) Name() string        { return "search_documents_full_text" }
func (t *SearchDocumentsFullTextTool) Description() string { return "Full-text searches documents, returning snippets around matches." }
func (t *SearchDocumentsFullTextTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["query"],"properties":{"query":{"type":"string"}}}`)
}

func (t *SearchDocumentsFullTextTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		Query string `json:"query"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryDocuments, t.Name(), params, func(ctx context.Context) result {
		docs, err := t.graph.SearchDocumentsFullText(ctx, input.Query)
		if err != nil {
			return infraError(err)
		}
		if len(docs) == 0 {
			return notFound("no documents matched that query")
		}
		terms := queryTerms(input.Query)
		hits := make([]map[string]string, 0, len(docs))
		for _, doc := range docs {
			hits = append(hits, map[string]string{
				"id":      doc.ID,
				"title":   doc.Title,
				"snippet": extractSnippet(doc.Content, terms),
			})
		}
		return found(hits)
	})(ctx)
}

// SearchDocumentsByContentTool is a semantic/content-similarity search over
// documents, also returning snippets around the best matching terms.
type SearchDocumentsByContentTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewSearchDocumentsByContentTool(graph DataGraph, cache *ToolCache) *SearchDocumentsByContentTool {
	return &SearchDocumentsByContentTool{graph: graph, cache: cache}
}

func (t *SearchDocumentsByContentTool) Name() string        { return "search_documents_by_content" }
func (t *SearchDocumentsByContentTool) Description() string { return "Searches documents by content similarity, returning snippets around matches." }
func (t *SearchDocumentsByContentTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["query"],"properties":{"query":{"type":"string"}}}`)
}

func (t *SearchDocumentsByContentTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		Query string `json:"query"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryDocuments, t.Name(), params, func(ctx context.Context) result {
		docs, err := t.graph.SearchDocumentsByContent(ctx, input.Query)
		if err != nil {
			return infraError(err)
		}
		if len(docs) == 0 {
			return notFound("no documents matched that query")
		}
		terms := queryTerms(input.Query)
		hits := make([]map[string]string, 0, len(docs))
		for _, doc := range docs {
			hits = append(hits, map[string]string{
				"id":      doc.ID,
				"title":   doc.Title,
				"snippet": extractSnippet(doc.Content, terms),
			})
		}
		return found(hits)
	})(ctx)
}

// GetDocumentByIDTool returns a document's full content by id.
type GetDocumentByIDTool struct {
	graph DataGraph
	cache *ToolCache
}

func NewGetDocumentByIDTool(graph DataGraph, cache *ToolCache) *GetDocumentByIDTool {
	return &GetDocumentByIDTool{graph: graph, cache: cache}
}

func (t *GetDocumentByIDTool) Name() string        { return "get_document_by_id" }
func (t *GetDocumentByIDTool) Description() string { return "Returns a document's full content by id." }
func (t *GetDocumentByIDTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","required":["document_id"],"properties":{"document_id":{"type":"string"}}}`)
}

func (t *GetDocumentByIDTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	input, err := decodeParams[struct {
		DocumentID string `json:"document_id"`
	}](params)
	if err != nil {
		return errorResult(err), nil
	}
	return runCached(t.cache, CategoryDocuments, t.Name(), params, func(ctx context.Context) result {
		doc, ok, err := t.graph.GetDocument(ctx, input.DocumentID)
		if err != nil {
			return infraError(err)
		}
		if !ok {
			return notFound("no document found with that id")
		}
		return found(doc)
	})(ctx)
}
