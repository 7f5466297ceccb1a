package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/semaphore"

	"github.com/matzehuels/depaudit/pkg/analysis"
	deperrors "github.com/matzehuels/depaudit/pkg/errors"
	"github.com/matzehuels/depaudit/pkg/httputil"
	"github.com/matzehuels/depaudit/pkg/integrations"
	"github.com/matzehuels/depaudit/pkg/resolve"
	"github.com/matzehuels/depaudit/pkg/source"
)

// Runner analyzes repository lists. The Runner keeps no per-run state, so
// several runs may share one Runner.
type Runner struct {
	Analyzer      *analysis.Analyzer
	Concurrency   int
	WorkDir       string
	KeepWorkspace bool
	Logger        *log.Logger
}

// New builds a runner and its collaborators from opts. All registry
// clients share one limiter, so RemoteConcurrency is a global cap.
func New(opts Options) (*Runner, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, deperrors.Wrap(deperrors.ErrCodeInvalidConfig, err, "invalid options")
	}

	set, err := resolve.New(resolve.Config{
		Cache:         opts.Cache,
		Transport:     registryTransport(opts),
		GitHubToken:   opts.GitHubToken,
		DisableGitHub: opts.NoGitHub,
		Refresh:       opts.Refresh,
		Budgets:       opts.Budgets,
		Logger:        opts.Logger,
	})
	if err != nil {
		return nil, deperrors.Wrap(deperrors.ErrCodeInternal, err, "build resolvers")
	}

	return &Runner{
		Analyzer: &analysis.Analyzer{
			Fetcher:     opts.Fetcher,
			Resolvers:   set,
			Overrides:   opts.Overrides,
			ImportHints: opts.ImportHints,
			SkipInfra:   opts.SkipInfra,
			Logger:      opts.Logger,
		},
		Concurrency:   opts.Concurrency,
		WorkDir:       opts.WorkDir,
		KeepWorkspace: opts.KeepWorkspace,
		Logger:        opts.Logger,
	}, nil
}

// registryTransport makes each registry request exactly once. A timeout or
// server error degrades the dependency to unknown instead of being retried.
func registryTransport(opts Options) integrations.Transport {
	return integrations.Transport{
		Limiter:  httputil.NewLimiter(opts.RemoteConcurrency, opts.RequestSpacing),
		Timeout:  opts.RequestTimeout,
		Attempts: 1,
	}
}

// Run analyzes every URL and waits for all of them. The returned error is
// non-nil only when the workspace cannot be created; per-repository
// failures are reported in [Result.Failed].
func (r *Runner) Run(ctx context.Context, urls []string) (*Result, error) {
	start := time.Now()
	ws, err := source.NewWorkspace(r.WorkDir, r.Logger)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("created workspace", "path", ws.Root())
	defer func() {
		if r.KeepWorkspace {
			r.Logger.Info("keeping workspace", "path", ws.Root())
			return
		}
		_ = ws.Release(context.WithoutCancel(ctx))
	}()

	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	sem := semaphore.NewWeighted(int64(limit))

	reports := make([]*analysis.Report, len(urls))
	errs := make([]error, len(urls))

	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reports[i], errs[i] = r.analyze(ctx, sem, url, ws.Dir(i, source.RepoName(url)))
		}()
	}
	wg.Wait()

	res := &Result{}
	for i, url := range urls {
		if errs[i] != nil {
			r.Logger.Error("analysis failed", "url", url, "err", errs[i])
			res.Failed = append(res.Failed, Failure{URL: url, Err: errs[i]})
			continue
		}
		res.Reports = append(res.Reports, reports[i])
	}
	res.Duration = time.Since(start)
	r.Logger.Info("run complete",
		"repositories", len(urls),
		"succeeded", len(res.Reports),
		"failed", len(res.Failed),
		"duration", res.Duration)
	return res, nil
}

// analyze runs one repository under the semaphore, converting panics to
// errors.
func (r *Runner) analyze(ctx context.Context, sem *semaphore.Weighted, url, dir string) (report *analysis.Report, err error) {
	if err := deperrors.ValidateRepoURL(url); err != nil {
		return nil, err
	}
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, deperrors.Wrap(deperrors.ErrCodeFetchFailed, err, "not started")
	}
	defer sem.Release(1)

	defer func() {
		if p := recover(); p != nil {
			report, err = nil, deperrors.New(deperrors.ErrCodeInternal, "panic: %v", p)
		}
	}()
	return r.Analyzer.Analyze(ctx, url, dir)
}
