// Package pkg provides the core libraries of depaudit, a batch auditor for
// source repositories.
//
// # Overview
//
// depaudit clones a list of repositories, extracts the dependencies they
// declare, resolves license and documentation metadata for each one and
// writes flat and narrative reports. Dependencies that could not be
// resolved land in a worklist that is curated by hand and fed back as the
// override table of the next run.
//
// # Architecture
//
// Data flows strictly downward:
//
//	repos.txt
//	    ↓
//	[pipeline] (bounded fan-out over repositories)
//	    ↓
//	[source] (shallow clone into a scratch workspace)
//	    ↓
//	[analysis] (detect → extract → resolve → assemble)
//	    ↓            ↓              ↓
//	[deps]      [override]     [resolve] → [integrations]
//	    ↓
//	[report] (CSV and Markdown, written atomically)
//
// # Main Packages
//
// [deps] - Manifest extraction for Python, JavaScript, Java and .NET. Each
// ecosystem has its own subpackage describing detection patterns and
// manifest parsers; [deps/languages] lists them all.
//
// [override] - The curated dependency mapping table. Entries win over any
// registry lookup and are marked in the reports.
//
// [resolve] - Per-ecosystem resolvers with a shared in-memory memo,
// request collapsing and the GitHub license fallback.
//
// [integrations] - HTTP clients for PyPI, npm, Maven Central, NuGet and
// GitHub, built on [httputil] retries and the [cache] response cache.
//
// [infra] - Heuristic detection of cloud resources in Terraform, SDK code,
// shell scripts and CI workflows.
//
// [analysis] - The per-repository orchestrator producing a [analysis.Report].
//
// [pipeline] - Scheduling of a whole run: shared limiter, workspace and
// failure isolation.
//
// [report] - Pure assembly of rows and sections plus the file writers.
//
// [errors] - Coded errors and input validation shared by all packages.
//
// [observability] - Hook interfaces for run metrics with no-op defaults.
//
// # Testing
//
// Run tests:
//
//	go test ./...                  # All tests
//	go test ./pkg/deps/...         # Extraction only
//	go test -run Example ./pkg/... # Examples only
//
// [deps]: https://pkg.go.dev/github.com/matzehuels/depaudit/pkg/deps
// [deps/languages]: https://pkg.go.dev/github.com/matzehuels/depaudit/pkg/deps/languages
// [override]: https://pkg.go.dev/github.com/matzehuels/depaudit/pkg/override
// [resolve]: https://pkg.go.dev/github.com/matzehuels/depaudit/pkg/resolve
// [integrations]: https://pkg.go.dev/github.com/matzehuels/depaudit/pkg/integrations
// [httputil]: https://pkg.go.dev/github.com/matzehuels/depaudit/pkg/httputil
// [cache]: https://pkg.go.dev/github.com/matzehuels/depaudit/pkg/cache
// [infra]: https://pkg.go.dev/github.com/matzehuels/depaudit/pkg/infra
// [analysis]: https://pkg.go.dev/github.com/matzehuels/depaudit/pkg/analysis
// [analysis.Report]: https://pkg.go.dev/github.com/matzehuels/depaudit/pkg/analysis#Report
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/depaudit/pkg/pipeline
// [source]: https://pkg.go.dev/github.com/matzehuels/depaudit/pkg/source
// [report]: https://pkg.go.dev/github.com/matzehuels/depaudit/pkg/report
// [errors]: https://pkg.go.dev/github.com/matzehuels/depaudit/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/depaudit/pkg/observability
package pkg
