package extractor

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"intentcheck/internal/types"
)

type cachedAnalysis struct {
	analysis *types.FileAnalysis
	err      error
}

type inflightLoad struct {
	done     chan struct{}
	analysis *types.FileAnalysis
	err      error
}

// analysisCache is a read-through cache keyed by "path@revision". A per-key
// inflight guard makes concurrent requests for the same file share one
// fetch-and-parse, so a file is analyzed at most once per run. Results,
// failures included, live only for the lifetime of one extraction request.
type analysisCache struct {
	entries *lru.Cache[string, cachedAnalysis]

	mu       sync.Mutex
	inflight map[string]*inflightLoad
}

func newAnalysisCache(size int) (*analysisCache, error) {
	entries, err := lru.New[string, cachedAnalysis](size)
	if err != nil {
		return nil, err
	}
	return &analysisCache{
		entries:  entries,
		inflight: make(map[string]*inflightLoad),
	}, nil
}

func (c *analysisCache) get(key string, load func() (*types.FileAnalysis, error)) (*types.FileAnalysis, error) {
	c.mu.Lock()
	if cached, ok := c.entries.Get(key); ok {
		c.mu.Unlock()
		return cached.analysis, cached.err
	}
	if pending, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		<-pending.done
		return pending.analysis, pending.err
	}
	pending := &inflightLoad{done: make(chan struct{})}
	c.inflight[key] = pending
	c.mu.Unlock()

	pending.analysis, pending.err = load()

	c.mu.Lock()
	c.entries.Add(key, cachedAnalysis{analysis: pending.analysis, err: pending.err})
	delete(c.inflight, key)
	c.mu.Unlock()
	close(pending.done)

	return pending.analysis, pending.err
}
