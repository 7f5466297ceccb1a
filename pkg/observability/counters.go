package observability

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Counters is an in-memory hook implementation that tallies events for an
// end-of-run summary. It implements RepositoryHooks, LookupHooks, CacheHooks
// and HTTPHooks and is safe for concurrent use.
type Counters struct {
	mu          sync.Mutex
	repos       int
	repoErrors  int
	lookups     map[string]int
	cacheHits   int
	cacheMisses int
	requests    int
	httpErrors  int
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters {
	return &Counters{lookups: make(map[string]int)}
}

func (c *Counters) OnAnalyzeStart(context.Context, string) {}

func (c *Counters) OnAnalyzeComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.repos++
	if err != nil {
		c.repoErrors++
	}
}

func (c *Counters) OnLookup(_ context.Context, _, _, outcome string, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookups[outcome]++
}

func (c *Counters) OnCacheHit(context.Context, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cacheHits++
}

func (c *Counters) OnCacheMiss(context.Context, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cacheMisses++
}

func (c *Counters) OnCacheSet(context.Context, string, int) {}

func (c *Counters) OnRequest(context.Context, string, string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests++
}

func (c *Counters) OnResponse(context.Context, string, string, string, int, time.Duration) {}

func (c *Counters) OnError(context.Context, string, string, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.httpErrors++
}

// Summary is a point-in-time copy of the counters.
type Summary struct {
	Repositories int
	RepoErrors   int
	Lookups      map[string]int
	CacheHits    int
	CacheMisses  int
	Requests     int
	HTTPErrors   int
}

// Snapshot returns the current totals.
func (c *Counters) Snapshot() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	lookups := make(map[string]int, len(c.lookups))
	for k, v := range c.lookups {
		lookups[k] = v
	}
	return Summary{
		Repositories: c.repos,
		RepoErrors:   c.repoErrors,
		Lookups:      lookups,
		CacheHits:    c.cacheHits,
		CacheMisses:  c.cacheMisses,
		Requests:     c.requests,
		HTTPErrors:   c.httpErrors,
	}
}

// Outcomes returns the lookup outcome names in sorted order.
func (s Summary) Outcomes() []string {
	out := make([]string, 0, len(s.Lookups))
	for k := range s.Lookups {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var (
	_ RepositoryHooks = (*Counters)(nil)
	_ LookupHooks     = (*Counters)(nil)
	_ CacheHooks      = (*Counters)(nil)
	_ HTTPHooks       = (*Counters)(nil)
)
