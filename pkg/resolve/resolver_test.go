package resolve

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/depaudit/pkg/cache"
	"github.com/matzehuels/depaudit/pkg/deps"
	"github.com/matzehuels/depaudit/pkg/integrations"
	"github.com/matzehuels/depaudit/pkg/integrations/github"
	"github.com/matzehuels/depaudit/pkg/integrations/maven"
	"github.com/matzehuels/depaudit/pkg/integrations/npm"
	"github.com/matzehuels/depaudit/pkg/integrations/pypi"
)

var testTransport = integrations.Transport{Attempts: 1}

func newTestSet(t *testing.T, fetchers map[deps.Ecosystem]Fetcher, gh *github.Client) *Set {
	t.Helper()
	s, err := NewWithFetchers(Config{}, fetchers, gh)
	if err != nil {
		t.Fatalf("NewWithFetchers: %v", err)
	}
	return s
}

func TestResolve_PyPI(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/flask/json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"info":{"name":"Flask","version":"2.0.1","license":"BSD-3-Clause",` +
			`"home_page":"https://palletsprojects.com/p/flask","project_urls":{"Documentation":"https://flask.palletsprojects.com/"}}}`))
	}))
	defer server.Close()

	client := pypi.NewClient(cache.NewNullCache(), time.Hour, testTransport).WithBaseURL(server.URL)
	r := newTestSet(t, map[deps.Ecosystem]Fetcher{deps.Python: PyPI(client)}, nil).Resolver(deps.Python)

	got := r.Resolve(context.Background(), "flask", "==2.0.1")
	want := Result{License: "BSD-3-Clause", URL: "https://palletsprojects.com/p/flask"}
	if got != want {
		t.Errorf("Resolve = %+v, want %+v", got, want)
	}

	again := r.Resolve(context.Background(), "Flask", "latest")
	if again != want {
		t.Errorf("second Resolve = %+v, want %+v", again, want)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("registry hits = %d, want 1 (memoized)", n)
	}
}

func TestResolve_PyPIProjectPageFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"info":{"name":"bare","license":"MIT","project_urls":null}}`))
	}))
	defer server.Close()

	client := pypi.NewClient(cache.NewNullCache(), time.Hour, testTransport).WithBaseURL(server.URL)
	r := newTestSet(t, map[deps.Ecosystem]Fetcher{deps.Python: PyPI(client)}, nil).Resolver(deps.Python)

	got := r.Resolve(context.Background(), "Bare_Pkg", "latest")
	if got.URL != "https://pypi.org/project/bare-pkg/" {
		t.Errorf("URL = %q, want pypi project page", got.URL)
	}
}

func TestResolve_NotFoundIsUnknown(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := pypi.NewClient(cache.NewNullCache(), time.Hour, testTransport).WithBaseURL(server.URL)
	r := newTestSet(t, map[deps.Ecosystem]Fetcher{deps.Python: PyPI(client)}, nil).Resolver(deps.Python)

	for i := 0; i < 2; i++ {
		got := r.Resolve(context.Background(), "nonexistent-pkg", "latest")
		if got != (Result{License: deps.LicenseUnknown}) {
			t.Fatalf("Resolve = %+v, want unknown with empty URL", got)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("registry hits = %d, want 1 (404 is memoized)", n)
	}
}

func TestResolve_TransientFailureNotMemoized(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := npm.NewClient(cache.NewNullCache(), time.Hour, testTransport).WithBaseURL(server.URL)
	r := newTestSet(t, map[deps.Ecosystem]Fetcher{deps.JavaScript: NPM(client)}, nil).Resolver(deps.JavaScript)

	for i := 0; i < 2; i++ {
		got := r.Resolve(context.Background(), "left-pad", "1.0.1")
		if got != (Result{License: deps.LicenseUnknown}) {
			t.Fatalf("Resolve = %+v, want unknown", got)
		}
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("registry hits = %d, want 2", n)
	}
}

func TestResolve_GitHubFallback(t *testing.T) {
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"tiny","dist-tags":{"latest":"1.0.0"},"repository":{"url":"git+https://github.com/acme/tiny.git"}}`))
	}))
	defer registry.Close()
	gh := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/tiny/license" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"license":{"spdx_id":"ISC","name":"ISC License"}}`))
	}))
	defer gh.Close()

	npmClient := npm.NewClient(cache.NewNullCache(), time.Hour, testTransport).WithBaseURL(registry.URL)
	ghClient := github.NewClient("", cache.NewNullCache(), time.Hour, testTransport).WithBaseURL(gh.URL)
	r := newTestSet(t, map[deps.Ecosystem]Fetcher{deps.JavaScript: NPM(npmClient)}, ghClient).Resolver(deps.JavaScript)

	got := r.Resolve(context.Background(), "tiny", "latest")
	want := Result{License: "ISC", URL: "https://github.com/acme/tiny"}
	if got != want {
		t.Errorf("Resolve = %+v, want %+v", got, want)
	}
}

func TestResolve_MavenNotFoundKeepsBrowseURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"numFound":0,"docs":[]}}`))
	}))
	defer server.Close()

	client := maven.NewClient(cache.NewNullCache(), time.Hour, testTransport).WithBaseURLs(server.URL, server.URL)
	r := newTestSet(t, map[deps.Ecosystem]Fetcher{deps.Java: Maven(client)}, nil).Resolver(deps.Java)

	got := r.Resolve(context.Background(), "com.acme:widget", "1.0")
	want := Result{License: deps.LicenseUnknown, URL: "https://mvnrepository.com/artifact/com.acme/widget"}
	if got != want {
		t.Errorf("Resolve = %+v, want %+v", got, want)
	}
}

func TestResolve_PanicIsLookupFailed(t *testing.T) {
	f := FetcherFunc(func(context.Context, string, bool) (Result, error) {
		panic("boom")
	})
	r := newTestSet(t, map[deps.Ecosystem]Fetcher{deps.DotNet: f}, nil).Resolver(deps.DotNet)

	got := r.Resolve(context.Background(), "Newtonsoft.Json", "13.0.1")
	if got.License != deps.LicenseLookupFailed || got.URL != "" {
		t.Errorf("Resolve = %+v, want lookup-failed", got)
	}
}

func TestResolve_CancelledIsLookupFailed(t *testing.T) {
	var called atomic.Bool
	f := FetcherFunc(func(context.Context, string, bool) (Result, error) {
		called.Store(true)
		return Result{License: "MIT"}, nil
	})
	r := newTestSet(t, map[deps.Ecosystem]Fetcher{deps.Python: f}, nil).Resolver(deps.Python)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := r.Resolve(ctx, "requests", "latest"); got.License != deps.LicenseLookupFailed {
		t.Errorf("License = %q, want %q", got.License, deps.LicenseLookupFailed)
	}
	if called.Load() {
		t.Error("fetcher called with a cancelled context")
	}
	if got := r.Resolve(context.Background(), "requests", "latest"); got.License != "MIT" {
		t.Errorf("License after cancel = %q, want MIT (failure not memoized)", got.License)
	}
}

func TestResolve_InvalidNameSkipsFetch(t *testing.T) {
	var called atomic.Bool
	f := FetcherFunc(func(context.Context, string, bool) (Result, error) {
		called.Store(true)
		return Result{}, errors.New("unreachable")
	})
	r := newTestSet(t, map[deps.Ecosystem]Fetcher{deps.Java: f}, nil).Resolver(deps.Java)

	if got := r.Resolve(context.Background(), "no-colon", "1.0"); got.License != deps.LicenseUnknown {
		t.Errorf("License = %q, want unknown", got.License)
	}
	if called.Load() {
		t.Error("fetcher called for an invalid coordinate")
	}
}

func TestResolve_ConcurrentLookupsCollapse(t *testing.T) {
	var calls atomic.Int32
	f := FetcherFunc(func(context.Context, string, bool) (Result, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return Result{License: "MIT", URL: "https://example.com"}, nil
	})
	r := newTestSet(t, map[deps.Ecosystem]Fetcher{deps.JavaScript: f}, nil).Resolver(deps.JavaScript)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := r.Resolve(context.Background(), "react", "latest"); got.License != "MIT" {
				t.Errorf("License = %q, want MIT", got.License)
			}
		}()
	}
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("fetch calls = %d, want 1", n)
	}
}

func TestSet_Budget(t *testing.T) {
	s, err := NewWithFetchers(Config{Budgets: map[deps.Ecosystem]int{deps.Python: 3}}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		eco  deps.Ecosystem
		want int
	}{
		{deps.Python, 3},
		{deps.JavaScript, 50},
		{deps.Java, 25},
		{deps.DotNet, 25},
		{deps.Ecosystem("cobol"), -1},
	}
	for _, tt := range tests {
		if got := s.Budget(tt.eco); got != tt.want {
			t.Errorf("Budget(%s) = %d, want %d", tt.eco, got, tt.want)
		}
	}
	if s.Resolver(deps.Python) != nil {
		t.Error("Resolver without fetcher should be nil")
	}
}

func TestResolver_Cached(t *testing.T) {
	var calls atomic.Int32
	f := FetcherFunc(func(context.Context, string, bool) (Result, error) {
		calls.Add(1)
		return Result{License: "MIT", URL: "https://example.com"}, nil
	})
	r := newTestSet(t, map[deps.Ecosystem]Fetcher{deps.Python: f}, nil).Resolver(deps.Python)
	ctx := context.Background()

	if _, ok := r.Cached(ctx, "requests"); ok {
		t.Fatal("Cached before Resolve should miss")
	}
	want := r.Resolve(ctx, "requests", "latest")
	got, ok := r.Cached(ctx, "Requests")
	if !ok || got != want {
		t.Errorf("Cached = %+v, %v, want %+v, true", got, ok, want)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("fetch calls = %d, want 1", n)
	}
}

func TestResolve_JavaUnderscoreCoordinate(t *testing.T) {
	var seen []string
	var mu sync.Mutex
	f := FetcherFunc(func(_ context.Context, name string, _ bool) (Result, error) {
		mu.Lock()
		seen = append(seen, name)
		mu.Unlock()
		return Result{License: "Apache-2.0", URL: "https://guava.dev"}, nil
	})
	r := newTestSet(t, map[deps.Ecosystem]Fetcher{deps.Java: f}, nil).Resolver(deps.Java)

	got := r.Resolve(context.Background(), "com.google.guava_guava", "latest")
	if got.License != "Apache-2.0" {
		t.Errorf("Resolve = %+v", got)
	}
	if len(seen) != 1 || seen[0] != "com.google.guava:guava" {
		t.Errorf("fetched names = %v, want [com.google.guava:guava]", seen)
	}
	if _, ok := r.Cached(context.Background(), "com.google.guava:guava"); !ok {
		t.Error("coordinate form should share the memo entry")
	}
}
