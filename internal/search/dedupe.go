package search

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/sgrep/internal/types"
)

// spanKey identifies classified-span output: the same bytes parsed by the
// same grammar always classify identically.
type spanKey struct {
	syntax string
	hash   uint64
}

func keyFor(syntax string, content []byte) spanKey {
	return spanKey{syntax: syntax, hash: xxhash.Sum64(content)}
}

// spanCache reuses classified spans across files with identical content
// within one run, so vendored or generated copies parse once. Matches are
// still assembled per file. The cache lives for a single Search call;
// watch-mode reruns start fresh and pick up edits.
type spanCache struct {
	mu      sync.Mutex
	entries map[spanKey][]types.ClassifiedSpan
	hits    int
}

func newSpanCache() *spanCache {
	return &spanCache{entries: make(map[spanKey][]types.ClassifiedSpan)}
}

func (c *spanCache) get(key spanKey) ([]types.ClassifiedSpan, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	spans, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return spans, ok
}

func (c *spanCache) put(key spanKey, spans []types.ClassifiedSpan) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = spans
}

// Hits reports how many files were served from cached spans. Used by the
// engine's debug logging only.
func (c *spanCache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}
