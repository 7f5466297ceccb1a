package resolve

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depaudit/pkg/cache"
	"github.com/matzehuels/depaudit/pkg/deps"
	"github.com/matzehuels/depaudit/pkg/integrations"
	"github.com/matzehuels/depaudit/pkg/integrations/github"
	"github.com/matzehuels/depaudit/pkg/integrations/maven"
	"github.com/matzehuels/depaudit/pkg/integrations/npm"
	"github.com/matzehuels/depaudit/pkg/integrations/nuget"
	"github.com/matzehuels/depaudit/pkg/integrations/pypi"
)

// DefaultCacheTTL is how long registry payloads stay in the response cache.
const DefaultCacheTTL = 24 * time.Hour

// DefaultBudgets caps new remote resolutions per repository and ecosystem.
var DefaultBudgets = map[deps.Ecosystem]int{
	deps.Python:     25,
	deps.JavaScript: 50,
	deps.Java:       25,
	deps.DotNet:     25,
}

// Config configures a [Set].
//
// Zero values: Cache defaults to a NullCache, CacheTTL to [DefaultCacheTTL],
// MemoSize to [DefaultMemoSize], missing Budgets entries to [DefaultBudgets]
// and Logger to a discarding logger.
type Config struct {
	Cache       cache.Cache
	CacheTTL    time.Duration
	Transport   integrations.Transport
	GitHubToken string
	// DisableGitHub turns off the GitHub license fallback.
	DisableGitHub bool
	// Refresh bypasses the response cache; the in-memory memo still applies.
	Refresh  bool
	MemoSize int
	Budgets  map[deps.Ecosystem]int
	Logger   *log.Logger
}

func (c Config) withDefaults() Config {
	if c.Cache == nil {
		c.Cache = cache.NewNullCache()
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	budgets := make(map[deps.Ecosystem]int, len(DefaultBudgets))
	for eco, n := range DefaultBudgets {
		budgets[eco] = n
	}
	for eco, n := range c.Budgets {
		budgets[eco] = n
	}
	c.Budgets = budgets
	return c
}

// Set holds one [Resolver] per ecosystem plus the per-repository budgets.
// All resolvers of a set share one memo cache.
type Set struct {
	resolvers map[deps.Ecosystem]*Resolver
	budgets   map[deps.Ecosystem]int
}

// New builds a set backed by the public registries.
func New(cfg Config) (*Set, error) {
	cfg = cfg.withDefaults()
	fetchers := map[deps.Ecosystem]Fetcher{
		deps.Python:     PyPI(pypi.NewClient(cfg.Cache, cfg.CacheTTL, cfg.Transport)),
		deps.JavaScript: NPM(npm.NewClient(cfg.Cache, cfg.CacheTTL, cfg.Transport)),
		deps.Java:       Maven(maven.NewClient(cfg.Cache, cfg.CacheTTL, cfg.Transport)),
		deps.DotNet:     NuGet(nuget.NewClient(cfg.Cache, cfg.CacheTTL, cfg.Transport)),
	}
	var gh *github.Client
	if !cfg.DisableGitHub {
		gh = github.NewClient(cfg.GitHubToken, cfg.Cache, cfg.CacheTTL, cfg.Transport)
	}
	return NewWithFetchers(cfg, fetchers, gh)
}

// NewWithFetchers builds a set from explicit fetchers. gh may be nil to
// disable the GitHub license fallback.
func NewWithFetchers(cfg Config, fetchers map[deps.Ecosystem]Fetcher, gh *github.Client) (*Set, error) {
	cfg = cfg.withDefaults()
	m, err := newMemo(cfg.MemoSize)
	if err != nil {
		return nil, err
	}
	s := &Set{
		resolvers: make(map[deps.Ecosystem]*Resolver, len(fetchers)),
		budgets:   cfg.Budgets,
	}
	for eco, f := range fetchers {
		s.resolvers[eco] = &Resolver{
			ecosystem: eco,
			fetcher:   f,
			github:    gh,
			memo:      m,
			refresh:   cfg.Refresh,
			logger:    cfg.Logger,
		}
	}
	return s, nil
}

// Resolver returns the resolver for eco, or nil when none is configured.
func (s *Set) Resolver(eco deps.Ecosystem) *Resolver {
	return s.resolvers[eco]
}

// Budget returns the per-repository cap of new remote resolutions for eco.
// Ecosystems without a configured budget are unbounded (-1).
func (s *Set) Budget(eco deps.Ecosystem) int {
	if n, ok := s.budgets[eco]; ok {
		return n
	}
	return -1
}
