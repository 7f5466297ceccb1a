package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/depaudit/pkg/deps"
	deperrors "github.com/matzehuels/depaudit/pkg/errors"
	"github.com/matzehuels/depaudit/pkg/override"
	"github.com/matzehuels/depaudit/pkg/resolve"
)

// dirFetcher serves a prepared directory for every URL.
type dirFetcher struct {
	root string
	err  error
}

func (f dirFetcher) Fetch(context.Context, string, string) (string, error) {
	return f.root, f.err
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func staticSet(t *testing.T, cfg resolve.Config, calls *atomic.Int32) *resolve.Set {
	t.Helper()
	f := resolve.FetcherFunc(func(_ context.Context, name string, _ bool) (resolve.Result, error) {
		calls.Add(1)
		return resolve.Result{License: "MIT", URL: "https://example.com/" + name}, nil
	})
	set, err := resolve.NewWithFetchers(cfg, map[deps.Ecosystem]resolve.Fetcher{
		deps.Python:     f,
		deps.JavaScript: f,
		deps.Java:       f,
		deps.DotNet:     f,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return set
}

func TestAnalyze_Flask(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"requirements.txt": "flask==2.0.1\n",
		"README.md":        "# Demo\n\nA **tiny** service.\n",
		"LICENSE":          "MIT License\n\nCopyright...",
	})
	var calls atomic.Int32
	a := &Analyzer{Fetcher: dirFetcher{root: root}, Resolvers: staticSet(t, resolve.Config{}, &calls)}

	report, err := a.Analyze(context.Background(), "https://github.com/acme/demo", "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.Name != "demo" || report.License != "MIT" || report.Description != "A tiny service." {
		t.Errorf("metadata = %q %q %q", report.Name, report.License, report.Description)
	}
	if len(report.Ecosystems) != 1 || report.Ecosystems[0] != deps.Python {
		t.Errorf("Ecosystems = %v, want [python]", report.Ecosystems)
	}
	want := deps.Record{
		Ecosystem: deps.Python, Name: "flask", Version: "==2.0.1",
		License: "MIT", URL: "https://example.com/flask", Provenance: deps.ProvenanceResolved,
	}
	if len(report.Dependencies) != 1 || report.Dependencies[0] != want {
		t.Errorf("Dependencies = %+v, want [%+v]", report.Dependencies, want)
	}
}

func TestAnalyze_OverridePreemptsLookup(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"package.json": `{"dependencies":{"left-pad":"1.0.1","react":"^18.0.0"}}`,
	})
	var calls atomic.Int32
	a := &Analyzer{
		Fetcher:   dirFetcher{root: root},
		Resolvers: staticSet(t, resolve.Config{}, &calls),
		Overrides: override.New(override.Entry{
			Ecosystem: "javascript", Name: "left-pad", License: "WTFPL", DocumentationURL: "https://x",
		}),
	}

	report, err := a.Analyze(context.Background(), "https://github.com/acme/web", "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	got := report.Dependencies[0]
	if got.Name != "left-pad" || got.License != "! WTFPL" || got.URL != "https://x" ||
		got.Version != "1.0.1" || got.Provenance != deps.ProvenanceOverride {
		t.Errorf("override record = %+v", got)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("remote lookups = %d, want 1 (react only)", n)
	}
}

func TestAnalyze_BudgetCap(t *testing.T) {
	var lines []string
	for _, name := range []string{"alpha", "bravo", "charlie", "delta"} {
		lines = append(lines, name+"==1.0")
	}
	root := writeFiles(t, map[string]string{"requirements.txt": strings.Join(lines, "\n")})
	var calls atomic.Int32
	a := &Analyzer{
		Fetcher: dirFetcher{root: root},
		Resolvers: staticSet(t, resolve.Config{
			Budgets: map[deps.Ecosystem]int{deps.Python: 2},
		}, &calls),
		Overrides: override.New(override.Entry{Ecosystem: "python", Name: "alpha", License: "BSD"}),
	}

	report, err := a.Analyze(context.Background(), "https://github.com/acme/many", "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	wantProv := map[string]deps.Provenance{
		"alpha":   deps.ProvenanceOverride,
		"bravo":   deps.ProvenanceResolved,
		"charlie": deps.ProvenanceResolved,
		"delta":   deps.ProvenanceUnresolved,
	}
	for _, rec := range report.Dependencies {
		if rec.Provenance != wantProv[rec.Name] {
			t.Errorf("%s provenance = %s, want %s", rec.Name, rec.Provenance, wantProv[rec.Name])
		}
	}
	last := report.Dependencies[3]
	if last.License != deps.LicenseUnknown || last.URL != "" {
		t.Errorf("budget-skipped record = %+v", last)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("remote lookups = %d, want 2", n)
	}
}

func TestAnalyze_MemoHitsDoNotConsumeBudget(t *testing.T) {
	var calls atomic.Int32
	set := staticSet(t, resolve.Config{
		Budgets: map[deps.Ecosystem]int{deps.Python: 1},
	}, &calls)

	first := writeFiles(t, map[string]string{"requirements.txt": "alpha==1.0\n"})
	a := &Analyzer{Fetcher: dirFetcher{root: first}, Resolvers: set}
	if _, err := a.Analyze(context.Background(), "https://github.com/acme/one", ""); err != nil {
		t.Fatalf("Analyze one: %v", err)
	}

	second := writeFiles(t, map[string]string{"requirements.txt": "alpha==1.0\nbravo==2.0\n"})
	a = &Analyzer{Fetcher: dirFetcher{root: second}, Resolvers: set}
	report, err := a.Analyze(context.Background(), "https://github.com/acme/two", "")
	if err != nil {
		t.Fatalf("Analyze two: %v", err)
	}
	for _, rec := range report.Dependencies {
		if rec.Provenance != deps.ProvenanceResolved || rec.License != "MIT" {
			t.Errorf("%s = %+v, want resolved MIT", rec.Name, rec)
		}
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("remote lookups = %d, want 2 (alpha once, bravo once)", n)
	}
}

func TestAnalyze_FetchFailure(t *testing.T) {
	a := &Analyzer{Fetcher: dirFetcher{err: errors.New("clone refused")}}
	_, err := a.Analyze(context.Background(), "https://github.com/acme/gone", "")
	if !deperrors.Is(err, deperrors.ErrCodeFetchFailed) {
		t.Fatalf("err = %v, want FETCH_FAILED", err)
	}
}

func TestAnalyze_NoResolversLeavesUnresolved(t *testing.T) {
	root := writeFiles(t, map[string]string{"requirements.txt": "requests\n"})
	a := &Analyzer{Fetcher: dirFetcher{root: root}}

	report, err := a.Analyze(context.Background(), root, "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	rec := report.Dependencies[0]
	if rec.Version != deps.VersionLatest || rec.Provenance != deps.ProvenanceUnresolved {
		t.Errorf("record = %+v", rec)
	}
	if report.License != LicenseUnknown || report.Description != NoDescription {
		t.Errorf("metadata = %q %q", report.License, report.Description)
	}
}

func TestAnalyze_ImportHintsAreSeparate(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"src/App.java": "package app;\nimport com.google.common.collect.Lists;\n",
	})
	a := &Analyzer{Fetcher: dirFetcher{root: root}, ImportHints: true}

	report, err := a.Analyze(context.Background(), root, "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(report.Dependencies) != 0 {
		t.Errorf("Dependencies = %+v, want none", report.Dependencies)
	}
	if len(report.ImportHints) == 0 {
		t.Error("expected import hints")
	}
}

func TestRepoLicense(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{"mit", map[string]string{"LICENSE": "The MIT License (MIT)"}, "MIT"},
		{"apache", map[string]string{"LICENSE.txt": "Apache License\nVersion 2.0"}, "Apache-2.0"},
		{"gpl", map[string]string{"COPYING": "GNU GENERAL PUBLIC LICENSE"}, "GPL"},
		{"mpl", map[string]string{"docs/LICENSE.md": "Mozilla Public License Version 2.0"}, "MPL-2.0"},
		{"custom", map[string]string{"LICENSE": "All rights reserved."}, LicenseCustom},
		{"none", map[string]string{"main.py": ""}, LicenseUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := deps.Scan(writeFiles(t, tt.files))
			if err != nil {
				t.Fatal(err)
			}
			if got := RepoLicense(tree); got != tt.want {
				t.Errorf("RepoLicense = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescription(t *testing.T) {
	long := strings.Repeat("x", 350)
	tests := []struct {
		name   string
		readme string
		want   string
	}{
		{"first paragraph", "# Title\n\nFirst `code` para.\n\nSecond.", "First code para."},
		{"links removed", "See [docs](https://example.com) now.", "See  now."},
		{"truncated", long, strings.Repeat("x", 300) + "..."},
		{"headings only", "# A\n\n## B\n", NoDescription},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := deps.Scan(writeFiles(t, map[string]string{"README.md": tt.readme}))
			if err != nil {
				t.Fatal(err)
			}
			if got := Description(tree); got != tt.want {
				t.Errorf("Description = %q, want %q", got, tt.want)
			}
		})
	}
}
