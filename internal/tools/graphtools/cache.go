// Package graphtools implements the CRM/People, Projects/Creative, and
// Document/Content tool catalogs backed by a DataGraph, with a
// read-through cache whose TTL depends on the tool's category.
package graphtools

import (
	"strings"
	"time"

	"github.com/haasonsaas/orchestrator/internal/infra"
)

// Category tags which cache TTL and agent mixin a tool belongs to.
type Category string

const (
	CategoryCRM       Category = "crm"
	CategoryProjects  Category = "projects"
	CategoryDocuments Category = "documents"
	CategoryOrgs      Category = "organizations"
)

// categoryTTL gives each category's cache lifetime, in seconds per spec:
// persons ~300, concepts ~600, projects ~300, documents ~1800,
// organizations ~600.
var categoryTTL = map[Category]time.Duration{
	CategoryCRM:       300 * time.Second,
	CategoryProjects:  300 * time.Second,
	CategoryDocuments: 1800 * time.Second,
	CategoryOrgs:      600 * time.Second,
}

// ToolCache is the read-through cache shared by every graph tool. Cache
// read/write errors never fail a tool call — a miss just means "call the
// graph."
type ToolCache struct {
	entries *infra.TTLCache[string, string]
}

func newToolCache() *ToolCache {
	return &ToolCache{
		entries: infra.NewTTLCache[string, string](infra.CacheConfig{
			DefaultTTL:      300 * time.Second,
			CleanupInterval: 5 * time.Minute,
		}),
	}
}

// key canonicalizes the argument set: lower-cased, whitespace-normalized,
// prefixed by the tool name.
func cacheKey(toolName, rawArgs string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(rawArgs), " "))
	return toolName + ":" + normalized
}

func (c *ToolCache) get(toolName, rawArgs string) (string, bool) {
	if c == nil || c.entries == nil {
		return "", false
	}
	return c.entries.Get(cacheKey(toolName, rawArgs))
}

// put stores asynchronously with the category's TTL, per spec's "store the
// result asynchronously" requirement — the caller does not wait on this.
func (c *ToolCache) put(toolName, rawArgs string, category Category, payload string) {
	if c == nil || c.entries == nil {
		return
	}
	ttl := categoryTTL[category]
	if ttl <= 0 {
		ttl = 300 * time.Second
	}
	key := cacheKey(toolName, rawArgs)
	go c.entries.SetWithTTL(key, payload, ttl)
}

// Stats reports hit/miss counters for the status endpoint.
func (c *ToolCache) Stats() infra.CacheStats {
	if c == nil || c.entries == nil {
		return infra.CacheStats{}
	}
	return c.entries.Stats()
}
