package services

import (
	"context"
	"time"

	"github.com/craftplan/craftplan-go/internal/adapters/metrics"
	"github.com/craftplan/craftplan-go/internal/domain/lists"
	"github.com/craftplan/craftplan-go/internal/domain/materials"
)

// TreePlanner wraps the tree builder with the per-list tree cache.
// Cache keys combine the list id with its content hash, so any change
// to entries or preferences misses and rebuilds; a catalog reload
// clears the cache wholesale instead.
type TreePlanner struct {
	builder *TreeBuilder
	cache   lists.TreeCache
}

// NewTreePlanner creates a planner over a builder and cache
func NewTreePlanner(builder *TreeBuilder, cache lists.TreeCache) *TreePlanner {
	return &TreePlanner{
		builder: builder,
		cache:   cache,
	}
}

// CacheKey returns the tree-cache key for a list's current content
func (p *TreePlanner) CacheKey(list *lists.CraftingList) string {
	return list.ID() + ":" + list.ContentHash()
}

// TreesForList returns one tree per list entry, in entry order, building
// and caching on miss. Entries whose entity does not resolve yield a nil
// tree at their index so positions stay aligned with the entries.
// Diagnostics are only produced on a rebuild; a cache hit returns none.
func (p *TreePlanner) TreesForList(
	ctx context.Context,
	list *lists.CraftingList,
) (trees []*materials.MaterialNode, diagnostics []materials.Diagnostic, cacheHit bool) {
	key := p.CacheKey(list)
	if cached, ok := p.cache.Get(key); ok {
		metrics.RecordTreeCacheLookup(true)
		return cached, nil, true
	}
	metrics.RecordTreeCacheLookup(false)

	start := time.Now()
	entries := list.Entries()
	trees = make([]*materials.MaterialNode, len(entries))
	nodeCount := 0
	for i, entry := range entries {
		tree, diags := p.builder.BuildForEntry(ctx, entry, list.Preferences())
		trees[i] = tree
		diagnostics = append(diagnostics, diags...)
		if tree != nil {
			nodeCount += tree.CountNodes()
		}
	}
	metrics.RecordTreeBuild(list.ID(), nodeCount, time.Since(start).Seconds())

	p.cache.Put(key, trees)
	return trees, diagnostics, false
}
