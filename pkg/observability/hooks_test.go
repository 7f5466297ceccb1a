package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRepositoryHooks{}
	r.OnAnalyzeStart(ctx, "https://github.com/org/repo")
	r.OnAnalyzeComplete(ctx, "https://github.com/org/repo", 12, time.Second, nil)

	l := NoopLookupHooks{}
	l.OnLookup(ctx, "python", "requests", OutcomeResolved, time.Millisecond)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "pypi")
	c.OnCacheMiss(ctx, "npm")
	c.OnCacheSet(ctx, "maven", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "pypi.org", "/pypi/requests/json")
	h.OnResponse(ctx, "GET", "pypi.org", "/pypi/requests/json", 200, time.Second)
	h.OnError(ctx, "GET", "pypi.org", "/pypi/requests/json", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Repository().(NoopRepositoryHooks); !ok {
		t.Error("Repository() should return NoopRepositoryHooks by default")
	}
	if _, ok := Lookup().(NoopLookupHooks); !ok {
		t.Error("Lookup() should return NoopLookupHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	counters := NewCounters()
	SetRepositoryHooks(counters)
	SetLookupHooks(counters)
	SetCacheHooks(counters)
	SetHTTPHooks(counters)
	if Repository() != RepositoryHooks(counters) {
		t.Error("SetRepositoryHooks should set custom hooks")
	}
	if Lookup() != LookupHooks(counters) {
		t.Error("SetLookupHooks should set custom hooks")
	}
	if Cache() != CacheHooks(counters) {
		t.Error("SetCacheHooks should set custom hooks")
	}
	if HTTP() != HTTPHooks(counters) {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Repository().(NoopRepositoryHooks); !ok {
		t.Error("Reset() should restore NoopRepositoryHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testLookupHooks{}
	SetLookupHooks(custom)
	SetLookupHooks(nil)

	if Lookup() != LookupHooks(custom) {
		t.Error("SetLookupHooks(nil) should be ignored")
	}
}

func TestCountersConcurrent(t *testing.T) {
	ctx := context.Background()
	c := NewCounters()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var err error
			if i%10 == 0 {
				err = errors.New("fetch failed")
			}
			c.OnAnalyzeComplete(ctx, "repo", 1, time.Millisecond, err)
			c.OnLookup(ctx, "npm", "react", OutcomeResolved, 0)
			c.OnCacheHit(ctx, "npm")
			c.OnRequest(ctx, "GET", "registry.npmjs.org", "/react")
		}()
	}
	wg.Wait()

	s := c.Snapshot()
	if s.Repositories != 50 || s.RepoErrors != 5 {
		t.Errorf("repos = %d/%d errors, want 50/5", s.Repositories, s.RepoErrors)
	}
	if s.Lookups[OutcomeResolved] != 50 {
		t.Errorf("resolved lookups = %d, want 50", s.Lookups[OutcomeResolved])
	}
	if s.CacheHits != 50 || s.Requests != 50 {
		t.Errorf("hits = %d requests = %d, want 50/50", s.CacheHits, s.Requests)
	}
}

func TestSummaryOutcomesSorted(t *testing.T) {
	c := NewCounters()
	for _, o := range []string{OutcomeSkipped, OutcomeOverride, OutcomeResolved} {
		c.OnLookup(context.Background(), "java", "g:a", o, 0)
	}
	got := c.Snapshot().Outcomes()
	want := []string{OutcomeOverride, OutcomeResolved, OutcomeSkipped}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Outcomes() = %v, want %v", got, want)
		}
	}
}

type testLookupHooks struct{ NoopLookupHooks }
