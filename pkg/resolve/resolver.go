package resolve

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/depaudit/pkg/deps"
	"github.com/matzehuels/depaudit/pkg/deps/java"
	deperrors "github.com/matzehuels/depaudit/pkg/errors"
	"github.com/matzehuels/depaudit/pkg/integrations"
	"github.com/matzehuels/depaudit/pkg/integrations/github"
	"github.com/matzehuels/depaudit/pkg/observability"
)

// DefaultMemoSize is the number of (ecosystem, name) results kept in memory.
const DefaultMemoSize = 4096

// Result is the outcome of one resolution.
type Result struct {
	License string
	URL     string
}

// Fetcher looks up license and documentation metadata for one package.
//
// Implementations return [integrations.ErrNotFound] (possibly wrapped) when
// the registry does not know the package. A fetcher may return a non-empty
// Result together with ErrNotFound when the ecosystem has a useful fallback
// URL for missing packages.
type Fetcher interface {
	Fetch(ctx context.Context, name string, refresh bool) (Result, error)
}

// FetcherFunc adapts a function to [Fetcher].
type FetcherFunc func(ctx context.Context, name string, refresh bool) (Result, error)

func (f FetcherFunc) Fetch(ctx context.Context, name string, refresh bool) (Result, error) {
	return f(ctx, name, refresh)
}

// memo is shared by every resolver of a [Set].
type memo struct {
	results *lru.Cache[string, Result]
	group   singleflight.Group
}

func newMemo(size int) (*memo, error) {
	if size <= 0 {
		size = DefaultMemoSize
	}
	c, err := lru.New[string, Result](size)
	if err != nil {
		return nil, err
	}
	return &memo{results: c}, nil
}

// Resolver resolves packages of a single ecosystem. It is safe for
// concurrent use.
type Resolver struct {
	ecosystem deps.Ecosystem
	fetcher   Fetcher
	github    *github.Client
	memo      *memo
	refresh   bool
	logger    *log.Logger
}

// Ecosystem returns the ecosystem this resolver serves.
func (r *Resolver) Ecosystem() deps.Ecosystem { return r.ecosystem }

// outcome is what one registry round produced.
type outcome struct {
	result  Result
	label   string
	memoize bool
}

// Cached returns the memoized result of name without any remote call.
func (r *Resolver) Cached(ctx context.Context, name string) (Result, bool) {
	res, ok := r.memo.results.Get(r.key(r.canonical(name)))
	if ok {
		observability.Lookup().OnLookup(ctx, string(r.ecosystem), name, observability.OutcomeMemo, 0)
	}
	return res, ok
}

// canonical rewrites Java "groupId_artifactId" names to coordinates.
func (r *Resolver) canonical(name string) string {
	if r.ecosystem == deps.Java {
		return java.NormalizeCoordinate(name)
	}
	return name
}

func (r *Resolver) key(name string) string {
	return string(r.ecosystem) + ":" + strings.ToLower(name)
}

// Resolve returns the license and documentation URL of name. The version is
// informational only; registries are always asked for their latest release.
func (r *Resolver) Resolve(ctx context.Context, name, version string) Result {
	start := time.Now()
	name = r.canonical(name)
	key := r.key(name)

	if res, ok := r.memo.results.Get(key); ok {
		observability.Lookup().OnLookup(ctx, string(r.ecosystem), name, observability.OutcomeMemo, time.Since(start))
		return res
	}

	v, _, _ := r.memo.group.Do(key, func() (any, error) {
		if res, ok := r.memo.results.Get(key); ok {
			return outcome{result: res, label: observability.OutcomeMemo}, nil
		}
		out := r.lookup(ctx, name)
		if out.memoize {
			r.memo.results.Add(key, out.result)
		}
		return out, nil
	})
	out := v.(outcome)

	r.logger.Debug("resolved dependency",
		"ecosystem", r.ecosystem,
		"name", name,
		"version", version,
		"license", out.result.License,
		"outcome", out.label)
	observability.Lookup().OnLookup(ctx, string(r.ecosystem), name, out.label, time.Since(start))
	return out.result
}

func (r *Resolver) lookup(ctx context.Context, name string) (out outcome) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Warn("lookup panicked", "ecosystem", r.ecosystem, "name", name, "panic", p)
			out = outcome{result: Result{License: deps.LicenseLookupFailed}, label: observability.OutcomeFailed}
		}
	}()

	if err := deperrors.ValidateDependency(string(r.ecosystem), name); err != nil {
		r.logger.Warn("skipping invalid dependency name", "ecosystem", r.ecosystem, "name", name, "err", err)
		return outcome{result: Result{License: deps.LicenseUnknown}, label: observability.OutcomeUnknown, memoize: true}
	}
	if err := ctx.Err(); err != nil {
		return outcome{result: Result{License: deps.LicenseLookupFailed}, label: observability.OutcomeFailed}
	}

	res, err := r.fetcher.Fetch(ctx, name, r.refresh)
	switch {
	case err == nil:
	case errors.Is(err, integrations.ErrNotFound):
		r.logger.Warn("package not found", "ecosystem", r.ecosystem, "name", name)
		if res.License == "" {
			res.License = deps.LicenseUnknown
		}
		return outcome{result: res, label: observability.OutcomeUnknown, memoize: true}
	case ctx.Err() != nil:
		r.logger.Warn("lookup cancelled", "ecosystem", r.ecosystem, "name", name, "err", err)
		return outcome{result: Result{License: deps.LicenseLookupFailed}, label: observability.OutcomeFailed}
	default:
		r.logger.Warn("lookup failed", "ecosystem", r.ecosystem, "name", name, "err", err)
		return outcome{result: Result{License: deps.LicenseUnknown}, label: observability.OutcomeFailed}
	}

	if res.License == "" {
		res.License = deps.LicenseUnknown
	}
	if res.License == deps.LicenseUnknown {
		res.License = r.githubLicense(ctx, res.URL)
	}
	label := observability.OutcomeResolved
	if res.License == deps.LicenseUnknown {
		label = observability.OutcomeUnknown
	}
	return outcome{result: res, label: label, memoize: true}
}

// githubLicense derives a license from the GitHub repository behind url.
func (r *Resolver) githubLicense(ctx context.Context, url string) string {
	if r.github == nil {
		return deps.LicenseUnknown
	}
	owner, repo, ok := integrations.GitHubRepo(url)
	if !ok {
		return deps.LicenseUnknown
	}
	lic, err := r.github.FetchLicense(ctx, owner, repo, r.refresh)
	if err != nil {
		r.logger.Debug("github license fallback failed", "repo", owner+"/"+repo, "err", err)
		return deps.LicenseUnknown
	}
	if id := lic.Identifier(); id != "" {
		return id
	}
	return deps.LicenseUnknown
}
