package analysis

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/depaudit/pkg/deps"
	"github.com/matzehuels/depaudit/pkg/deps/languages"
	deperrors "github.com/matzehuels/depaudit/pkg/errors"
	"github.com/matzehuels/depaudit/pkg/infra"
	"github.com/matzehuels/depaudit/pkg/observability"
	"github.com/matzehuels/depaudit/pkg/override"
	"github.com/matzehuels/depaudit/pkg/resolve"
	"github.com/matzehuels/depaudit/pkg/source"
)

// Report is everything learned about one repository.
type Report struct {
	URL          string
	Name         string
	License      string
	Description  string
	Ecosystems   []deps.Ecosystem               // Sorted
	Dependencies []deps.Record                  // Sorted by (ecosystem, name)
	Resources    []infra.Resource               // Deduplicated, sorted by (language, type, name)
	Interactions map[string][]infra.Interaction // Keyed by service name
	Workflows    []infra.Workflow
	ImportHints  []string // Opt-in; never part of Dependencies
}

// Analyzer runs the per-repository stages. An Analyzer is safe for
// concurrent use once configured.
//
// Zero values: Fetcher defaults to a [source.GitFetcher], Overrides to an
// empty table, Languages to [languages.All] and Logger to a discarding
// logger. A nil Resolvers set records every non-override dependency as
// unresolved.
type Analyzer struct {
	Fetcher     source.Fetcher
	Resolvers   *resolve.Set
	Overrides   *override.Table
	Languages   []*deps.Language
	ImportHints bool
	SkipInfra   bool
	Logger      *log.Logger
}

// Analyze fetches url into dir and analyzes it. Only a fetch failure is
// returned as an error (FETCH_FAILED).
func (a *Analyzer) Analyze(ctx context.Context, url, dir string) (report *Report, err error) {
	start := time.Now()
	observability.Repository().OnAnalyzeStart(ctx, url)
	defer func() {
		n := 0
		if report != nil {
			n = len(report.Dependencies)
		}
		observability.Repository().OnAnalyzeComplete(ctx, url, n, time.Since(start), err)
	}()

	name := source.RepoName(url)
	logger := a.logger().With("repo", name)

	logger.Info("fetching repository", "url", url)
	root, err := a.fetcher().Fetch(ctx, url, dir)
	if err != nil {
		if !deperrors.Is(err, deperrors.ErrCodeFetchFailed) {
			err = deperrors.Wrap(deperrors.ErrCodeFetchFailed, err, "fetch %s", url)
		}
		return nil, err
	}
	tree, err := deps.Scan(root)
	if err != nil {
		return nil, deperrors.Wrap(deperrors.ErrCodeFetchFailed, err, "scan %s", root)
	}

	opts := deps.Options{Logger: logger.Warnf, ImportHints: a.ImportHints}

	report = &Report{
		URL:          url,
		Name:         name,
		License:      RepoLicense(tree),
		Description:  Description(tree),
		Interactions: map[string][]infra.Interaction{},
	}

	var records []deps.Record
	for _, lang := range a.detect(tree) {
		report.Ecosystems = append(report.Ecosystems, lang.Name)
		for dep, version := range lang.Extract(tree, opts) {
			records = append(records, deps.Record{Ecosystem: lang.Name, Name: dep, Version: version})
		}
		report.ImportHints = append(report.ImportHints, lang.ImportHints(tree, opts)...)
	}
	slices.Sort(report.Ecosystems)
	deps.SortRecords(records)
	logger.Info("found dependencies", "count", len(records), "ecosystems", report.Ecosystems)

	report.Dependencies = a.resolveAll(ctx, records, logger)

	if !a.SkipInfra {
		found := infra.Analyze(tree, opts)
		report.Resources = found.Resources
		report.Interactions = found.Interactions
		report.Workflows = found.Workflows
	}

	logger.Info("analysis complete",
		"dependencies", len(report.Dependencies),
		"resources", len(report.Resources),
		"duration", time.Since(start))
	return report, nil
}

// resolveAll fills License, URL and Provenance of every record. records
// must be sorted; the result keeps that order.
func (a *Analyzer) resolveAll(ctx context.Context, records []deps.Record, logger *log.Logger) []deps.Record {
	out := make([]deps.Record, len(records))
	used := make(map[deps.Ecosystem]int)
	skipped := 0

	var g errgroup.Group
	for i, rec := range records {
		if entry, ok := a.overrides().Lookup(string(rec.Ecosystem), rec.Name); ok {
			out[i] = entry.Apply(rec)
			observability.Lookup().OnLookup(ctx, string(rec.Ecosystem), rec.Name, observability.OutcomeOverride, 0)
			continue
		}

		r := a.resolver(rec.Ecosystem)
		if r != nil {
			if res, ok := r.Cached(ctx, rec.Name); ok {
				rec.License, rec.URL, rec.Provenance = res.License, res.URL, deps.ProvenanceResolved
				out[i] = rec
				continue
			}
		}
		// Only memo misses count against the budget.
		if r == nil || !a.underBudget(rec.Ecosystem, used[rec.Ecosystem]) {
			rec.License, rec.URL, rec.Provenance = deps.LicenseUnknown, "", deps.ProvenanceUnresolved
			out[i] = rec
			skipped++
			observability.Lookup().OnLookup(ctx, string(rec.Ecosystem), rec.Name, observability.OutcomeSkipped, 0)
			continue
		}
		used[rec.Ecosystem]++

		g.Go(func() error {
			res := r.Resolve(ctx, rec.Name, rec.Version)
			rec.License, rec.URL, rec.Provenance = res.License, res.URL, deps.ProvenanceResolved
			out[i] = rec
			return nil
		})
	}
	_ = g.Wait()

	if skipped > 0 {
		logger.Info("dependencies left unresolved", "count", skipped)
	}
	return out
}

func (a *Analyzer) underBudget(eco deps.Ecosystem, used int) bool {
	limit := a.Resolvers.Budget(eco)
	return limit < 0 || used < limit
}

func (a *Analyzer) detect(t *deps.Tree) []*deps.Language {
	if a.Languages == nil {
		return languages.Detect(t)
	}
	var found []*deps.Language
	for _, l := range a.Languages {
		if l.Detect(t) {
			found = append(found, l)
		}
	}
	return found
}

func (a *Analyzer) resolver(eco deps.Ecosystem) *resolve.Resolver {
	if a.Resolvers == nil {
		return nil
	}
	return a.Resolvers.Resolver(eco)
}

func (a *Analyzer) fetcher() source.Fetcher {
	if a.Fetcher == nil {
		return &source.GitFetcher{}
	}
	return a.Fetcher
}

func (a *Analyzer) overrides() *override.Table {
	if a.Overrides == nil {
		return override.Empty()
	}
	return a.Overrides
}

func (a *Analyzer) logger() *log.Logger {
	if a.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return a.Logger
}
