// Package pipeline runs the analysis of a repository list.
//
// This package is the single entry point used by the CLI: it builds the
// shared collaborators of a run (remote limiter, registry resolvers,
// scratch workspace) from [Options] and fans repository analysis out under
// a bounded semaphore.
//
// # Concurrency
//
// Two limits apply to a run:
//
//  1. Concurrency caps the repositories analyzed at the same time
//  2. RemoteConcurrency caps outbound registry calls across all repositories
//
// All repositories are launched together and awaited jointly. A failing or
// panicking repository is recorded in [Result.Failed] and never cancels its
// siblings. Reports come back in input order.
//
// # Usage
//
//	runner, err := pipeline.New(pipeline.Options{Overrides: table, Logger: logger})
//	if err != nil {
//	    return err
//	}
//	res, err := runner.Run(ctx, urls)
//	for _, f := range res.Failed {
//	    fmt.Println(f.URL, f.Err)
//	}
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depaudit/pkg/analysis"
	"github.com/matzehuels/depaudit/pkg/cache"
	"github.com/matzehuels/depaudit/pkg/deps"
	"github.com/matzehuels/depaudit/pkg/override"
	"github.com/matzehuels/depaudit/pkg/source"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and library callers
// =============================================================================

const (
	// DefaultConcurrency is the number of repositories analyzed at once.
	DefaultConcurrency = 5

	// DefaultRemoteConcurrency is the number of registry calls in flight
	// across the whole run.
	DefaultRemoteConcurrency = 10

	// DefaultRequestSpacing is the minimum gap between two registry calls.
	DefaultRequestSpacing = 100 * time.Millisecond

	// DefaultRequestTimeout bounds each registry call.
	DefaultRequestTimeout = 15 * time.Second
)

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options contains all configuration for a run.
type Options struct {
	Concurrency       int
	RemoteConcurrency int
	RequestSpacing    time.Duration
	RequestTimeout    time.Duration

	// Budgets overrides the per-repository lookup caps by ecosystem.
	Budgets     map[deps.Ecosystem]int
	ImportHints bool
	SkipInfra   bool
	Refresh     bool // Bypass the response cache
	GitHubToken string
	NoGitHub    bool // Disable the GitHub license fallback

	// WorkDir is the parent of the scratch workspace (system temp dir when
	// empty). KeepWorkspace leaves the clones on disk after the run.
	WorkDir       string
	KeepWorkspace bool

	// Runtime collaborators
	Overrides *override.Table
	Cache     cache.Cache
	Fetcher   source.Fetcher
	Logger    *log.Logger
}

// ValidateAndSetDefaults checks option ranges and applies defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Concurrency < 0 || o.RemoteConcurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}
	for eco, n := range o.Budgets {
		if n < 0 {
			return fmt.Errorf("budget for %s must not be negative", eco)
		}
	}
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.RemoteConcurrency == 0 {
		o.RemoteConcurrency = DefaultRemoteConcurrency
	}
	if o.RequestSpacing == 0 {
		o.RequestSpacing = DefaultRequestSpacing
	}
	if o.RequestTimeout == 0 {
		o.RequestTimeout = DefaultRequestTimeout
	}
	if o.Overrides == nil {
		o.Overrides = override.Empty()
	}
	if o.Cache == nil {
		o.Cache = cache.NewNullCache()
	}
	if o.Fetcher == nil {
		o.Fetcher = &source.GitFetcher{}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Failure is a repository whose analysis did not produce a report.
type Failure struct {
	URL string
	Err error
}

// Result contains the outputs of a run.
type Result struct {
	// Reports holds the successful reports in input order.
	Reports []*analysis.Report

	// Failed lists the repositories that failed, in input order.
	Failed []Failure

	// Duration is the wall time of the run.
	Duration time.Duration
}
